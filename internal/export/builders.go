package export

import (
	"strconv"

	"frizo/quant_calc/internal/cfd"
	"frizo/quant_calc/internal/options"
	"frizo/quant_calc/internal/portfolio"
	"frizo/quant_calc/internal/volatility"
	"frizo/quant_calc/internal/yield"
)

// Calculator names, also used as document file prefixes.
const (
	GreeksCalculator     = "greeks"
	ImpliedVolCalculator = "implied_vol"
	HistoricalCalculator = "historical_vol"
	CFDCalculator        = "cfd"
	FuturesCalculator    = "futures_margin"
	DCACalculator        = "dca"
	StakingCalculator    = "staking"
	SavingsCalculator    = "savings"
	PortfolioCalculator  = "portfolio"
)

func contractInputs(doc *Document, c options.Contract) {
	doc.Inputs.
		Add("Option Type", c.Kind.String()).
		Add("Underlying Price", Currency(c.Spot)).
		Add("Strike Price", Currency(c.Strike)).
		Add("Time to Expiry", Number(c.Expiry*365, 0)+" days").
		Add("Risk-free Rate", Percent(c.Rate*100, 2)).
		Add("Dividend Yield", Percent(c.Dividend*100, 2))
}

func Greeks(c options.Contract, g options.Greeks) *Document {
	doc := NewDocument(GreeksCalculator)
	contractInputs(doc, c)
	doc.Inputs.Add("Volatility", Percent(c.Vol*100, 2))

	doc.Results.
		Add("Option Price", Currency(g.Price)).
		Add("Intrinsic Value", Currency(g.Intrinsic)).
		Add("Time Value", Currency(g.TimeValue)).
		Add("Moneyness", g.Moneyness.String()).
		Add("Breakeven", Currency(g.Breakeven)).
		Add("Delta", Number(g.Delta, 4)).
		Add("Gamma", Number(g.Gamma, 4)).
		Add("Theta", Number(g.Theta, 4)).
		Add("Vega", Number(g.Vega, 4)).
		Add("Rho", Number(g.Rho, 4))
	return doc
}

func ImpliedVol(c options.Contract, marketPrice float64, r options.IVResult) *Document {
	doc := NewDocument(ImpliedVolCalculator)
	contractInputs(doc, c)
	doc.Inputs.Add("Market Price", Currency(marketPrice))

	doc.Results.
		Add("Implied Volatility", Percent(r.Vol*100, 2)).
		Add("Converged", strconv.FormatBool(r.Converged)).
		Add("Stop Reason", r.Reason.String()).
		Add("Iterations", strconv.Itoa(r.Iterations)).
		Add("Residual", Number(r.Residual, 6))
	return doc
}

func Historical(s volatility.Sample, e volatility.Estimate) *Document {
	doc := NewDocument(HistoricalCalculator)
	doc.Inputs.
		Add("Observations", strconv.Itoa(len(s.Prices))).
		Add("Interval", s.Interval.String()).
		Add("Annualization Factor", Number(s.Interval.Factor(), 0))

	doc.Results.
		Add("Historical Volatility", Percent(e.Annualized, 2)).
		Add("Period Std Dev", Percent(e.StdDev, 4)).
		Add("Mean Return", Percent(e.MeanReturn, 4)).
		Add("Range Low", Percent(e.Range.Low, 2)).
		Add("Range High", Percent(e.Range.High, 2)).
		Add("Volatility Rank", Number(e.Rank, 1))

	for i, m := range e.Movements {
		row := Fields{}
		row.Add("Period", strconv.Itoa(i+1)).Add("Movement", Percent(m, 4))
		doc.Breakdown = append(doc.Breakdown, row)
	}
	return doc
}

func CFD(p cfd.Position, r cfd.Result) *Document {
	doc := NewDocument(CFDCalculator)
	doc.Inputs.
		Add("Instrument", r.Instrument).
		Add("Direction", p.Direction.String()).
		Add("Position Size", Currency(p.Notional)).
		Add("Leverage", "1:"+Number(p.Leverage, 0)).
		Add("Entry Price", Number(p.Entry, 5)).
		Add("Exit Price", Number(p.Exit, 5)).
		Add("Holding Period", Number(p.HoldingDays, 0)+" days")

	doc.Costs.
		Add("Spread Cost", CurrencyDecimal(r.SpreadCost)).
		Add("Commission", CurrencyDecimal(r.CommissionCost)).
		Add("Swap", CurrencyDecimal(r.SwapCost)).
		Add("Total Costs", CurrencyDecimal(r.TotalCosts))

	doc.Results.
		Add("Required Margin", CurrencyDecimal(r.RequiredMargin)).
		Add("Pips", r.Pips.Round(1).String()).
		Add("Gross P&L", CurrencyDecimal(r.GrossPnL)).
		Add("Net P&L", CurrencyDecimal(r.NetPnL)).
		Add("Return on Margin", PercentDecimal(r.ReturnOnMargin, 2)).
		Add("Margin Utilization", PercentDecimal(r.MarginUsage, 2)).
		Add("Liquidation Price", r.LiquidationPrice.Round(5).String())
	return doc
}

func Futures(c cfd.FuturesContract, price float64, contracts int, r cfd.FuturesMarginResult) *Document {
	doc := NewDocument(FuturesCalculator)
	doc.Inputs.
		Add("Contract", c.Name+" ("+c.Symbol+")").
		Add("Category", c.Category).
		Add("Price", Number(price, 2)).
		Add("Contracts", strconv.Itoa(contracts)).
		Add("Multiplier", c.Multiplier.String()).
		Add("Initial Margin Rate", PercentDecimal(c.InitialMarginPct, 2)).
		Add("Maintenance Margin Rate", PercentDecimal(c.MaintenanceMarginPct, 2))

	doc.Results.
		Add("Contract Value", CurrencyDecimal(r.ContractValue)).
		Add("Total Exposure", CurrencyDecimal(r.Exposure)).
		Add("Initial Margin", CurrencyDecimal(r.InitialMargin)).
		Add("Maintenance Margin", CurrencyDecimal(r.MaintenanceMargin)).
		Add("Effective Leverage", r.Leverage.Round(1).String()+"x")
	return doc
}

func DCA(plan yield.DCAPlan, r yield.DCAResult) *Document {
	doc := NewDocument(DCACalculator)
	doc.Inputs.
		Add("Monthly Investment", Currency(plan.Budget)).
		Add("Frequency", plan.Schedule.String()).
		Add("Time Horizon", strconv.Itoa(plan.Months)+" months").
		Add("Starting Price", Currency(plan.StartPrice)).
		Add("Current Price", Currency(plan.EndPrice)).
		Add("Price Volatility", Percent(plan.VolatilityPct, 1))

	doc.Costs.
		Add("Per Purchase", Currency(r.PerPurchase)).
		Add("Total Invested", Currency(r.TotalInvested))

	doc.Results.
		Add("Number of Purchases", strconv.Itoa(r.Purchases)).
		Add("Total Coins", Number(r.TotalCoins, 8)).
		Add("Current Value", Currency(r.FinalValue)).
		Add("Average Cost", Currency(r.AverageCost)).
		Add("Total Return", Currency(r.TotalReturn)).
		Add("Return Percentage", Percent(r.ReturnPct, 2))

	for _, m := range r.Months {
		row := Fields{}
		row.Add("Month", strconv.Itoa(m.Month)).
			Add("Invested", Currency(m.Invested)).
			Add("Coins", Number(m.Coins, 8)).
			Add("Value", Currency(m.Value)).
			Add("Average Cost", Currency(m.AverageCost))
		doc.Breakdown = append(doc.Breakdown, row)
	}
	return doc
}

func Staking(plan yield.StakingPlan, r yield.StakingResult) *Document {
	doc := NewDocument(StakingCalculator)
	doc.Inputs.
		Add("Staking Amount", Currency(plan.Amount)).
		Add("Token Price", Currency(plan.TokenPrice)).
		Add("Staking APY", Percent(plan.APYPct, 2)).
		Add("Validator Fee", Percent(plan.FeePct, 2)).
		Add("Compound Frequency", plan.Frequency.String()).
		Add("Staking Period", strconv.Itoa(plan.Months)+" months").
		Add("Price Appreciation", Percent(plan.AppreciationPct, 2))

	doc.Costs.
		Add("Net APY", Percent(r.NetAPY, 2)).
		Add("Fees Forgone", Percent(plan.APYPct-r.NetAPY, 2))

	doc.Results.
		Add("Tokens Earned", Number(r.TokensEarned, 6)).
		Add("Total Rewards", Currency(r.TotalRewards)).
		Add("Monthly Rewards", Currency(r.MonthlyRewards)).
		Add("Price Appreciation Gains", Currency(r.AppreciationGains)).
		Add("Total Value", Currency(r.TotalValue)).
		Add("Effective APY", Percent(r.EffectiveAPY, 2))

	for _, m := range r.Breakdown {
		row := Fields{}
		row.Add("Month", strconv.Itoa(m.Month)).
			Add("Rewards", Currency(m.Rewards)).
			Add("Total Tokens", Number(m.Tokens, 6)).
			Add("Value", Currency(m.Value))
		doc.Breakdown = append(doc.Breakdown, row)
	}
	return doc
}

func Savings(plan yield.SavingsPlan, r yield.SavingsResult) *Document {
	doc := NewDocument(SavingsCalculator)
	doc.Inputs.
		Add("Initial Amount", Currency(plan.Initial)).
		Add("Monthly Contribution", Currency(plan.Monthly)).
		Add("Annual Interest Rate", Percent(plan.RatePct, 2)).
		Add("Compounding", plan.Frequency.String()).
		Add("Time Horizon", strconv.Itoa(plan.Years)+" years").
		Add("Contribution Increase", Percent(plan.ContributionGrowthPct, 2))

	doc.Costs.Add("Total Contributions", Currency(r.TotalContributions))

	doc.Results.
		Add("Final Amount", Currency(r.FinalAmount)).
		Add("Total Interest Earned", Currency(r.TotalInterest))

	for _, y := range r.Breakdown {
		row := Fields{}
		row.Add("Year", strconv.Itoa(y.Year)).
			Add("Balance", Currency(y.Balance)).
			Add("Contributions", Currency(y.Contributions)).
			Add("Interest", Currency(y.Interest))
		doc.Breakdown = append(doc.Breakdown, row)
	}
	return doc
}

func Portfolio(in portfolio.Input, r portfolio.Result) *Document {
	doc := NewDocument(PortfolioCalculator)
	doc.Inputs.
		Add("Portfolio Value", Currency(in.Value)).
		Add("Investment Horizon", Number(in.HorizonYears, 0)+" years").
		Add("Rebalances per Year", Number(in.Rebalancing.PerYear, 0)).
		Add("Rebalance Cost", Percent(in.Rebalancing.CostPct, 2)).
		Add("Holdings", strconv.Itoa(len(in.Holdings)))

	doc.Costs.
		Add("Total Expense Ratio", Percent(r.ExpenseRatio, 3)).
		Add("Annual Expense Cost", Currency(r.AnnualExpenseCost)).
		Add("Rebalancing Cost", Currency(r.RebalancingCost)).
		Add("Total Expense Cost", Currency(r.TotalExpenseCost))

	doc.Results.
		Add("Expected Return", Percent(r.ExpectedReturn, 2)).
		Add("Net Return", Percent(r.NetReturn, 2)).
		Add("Final Value (no fees)", Currency(r.GrossFinalValue)).
		Add("Final Value", Currency(r.NetFinalValue)).
		Add("Cost Impact", Currency(r.CostImpact))

	for _, a := range r.Allocations {
		row := Fields{}
		row.Add("Name", a.Label).
			Add("Allocation", Percent(a.Weight, 2)).
			Add("Value", Currency(a.Value)).
			Add("Annual Cost", Currency(a.AnnualCost))
		doc.Breakdown = append(doc.Breakdown, row)
	}
	return doc
}
