// Package engine runs calculations on demand. Each calculator is wrapped
// in a Command that the Engine executes against shared configuration.
package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"frizo/quant_calc/internal/cfd"
	"frizo/quant_calc/internal/config"
	"frizo/quant_calc/internal/export"
	"frizo/quant_calc/internal/logger"
	"frizo/quant_calc/internal/options"
	"frizo/quant_calc/internal/portfolio"
	"frizo/quant_calc/internal/version"
)

// Command is one calculation request.
type Command interface {
	Name() string
	Execute(e *Engine) (*export.Document, error)
}

// Engine represents the calculation engine
type Engine struct {
	name    string
	version string

	cfg       *config.Config
	log       *logger.Logger
	pricer    *options.Pricer
	solver    *options.Solver
	cfd       *cfd.Calculator
	schedules map[portfolio.Rebalance]portfolio.Schedule
}

// New creates a new engine instance from cfg. Nil arguments select defaults.
func New(cfg *config.Config, log *logger.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logger.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	instruments, err := instrumentTable(cfg.Instruments)
	if err != nil {
		return nil, err
	}
	schedules, err := scheduleTable(cfg.Rebalance)
	if err != nil {
		return nil, err
	}

	pricer := options.NewPricer(nil)
	solver := options.DefaultSolver()
	solver.Pricer = pricer

	return &Engine{
		name:    version.Name,
		version: version.Short(),
		cfg:     cfg,
		log:     log.WithFields(map[string]interface{}{"component": "engine"}),
		pricer:  pricer,
		solver:  solver,
		cfd: cfd.NewCalculator(&cfd.CalculatorConfig{
			AccountBalance: cfg.AccountBalance,
			Instruments:    instruments,
		}),
		schedules: schedules,
	}, nil
}

// Run executes cmd. Failures are wrapped with the command name and keep
// their error kind for errors.Is.
func (e *Engine) Run(cmd Command) (*export.Document, error) {
	start := time.Now()
	e.log.Debug("Running calculation", "calculator", cmd.Name())

	doc, err := cmd.Execute(e)
	if err != nil {
		e.log.Debug("Calculation failed", "calculator", cmd.Name(), "error", err)
		return nil, fmt.Errorf("%s: %w", cmd.Name(), err)
	}

	e.log.Debug("Calculation completed",
		"calculator", cmd.Name(),
		"id", doc.ID,
		"duration", time.Since(start),
	)
	return doc, nil
}

// Export writes doc to the configured output directory. It returns an
// empty path when no directory is configured.
func (e *Engine) Export(doc *export.Document) (string, error) {
	if e.cfg.OutputDir == "" {
		return "", nil
	}
	path, err := export.WriteFile(e.cfg.OutputDir, doc)
	if err != nil {
		return "", err
	}
	e.log.Info("Exported calculation", "calculator", doc.Calculator, "path", path)
	return path, nil
}

// Instrument returns the effective CFD spec for class.
func (e *Engine) Instrument(class cfd.InstrumentClass) (cfd.InstrumentSpec, bool) {
	return e.cfd.Instrument(class)
}

// Schedule returns the effective cost of a rebalance frequency.
func (e *Engine) Schedule(r portfolio.Rebalance) (portfolio.Schedule, bool) {
	s, ok := e.schedules[r]
	return s, ok
}

func (e *Engine) Name() string    { return e.name }
func (e *Engine) Version() string { return e.version }

// =====================================================
// config translation
// =====================================================

func instrumentTable(overrides map[string]config.InstrumentOverride) (map[cfd.InstrumentClass]cfd.InstrumentSpec, error) {
	table := cfd.DefaultInstruments()
	for key, o := range overrides {
		class, err := cfd.ParseInstrumentClass(key)
		if err != nil {
			return nil, fmt.Errorf("config instruments: %w", err)
		}
		spec := table[class]
		if o.Name != "" {
			spec.Name = o.Name
		}
		if o.PipSize != nil {
			spec.PipSize = decimal.NewFromFloat(*o.PipSize)
		}
		if o.PipValue != nil {
			spec.PipValue = decimal.NewFromFloat(*o.PipValue)
		}
		if o.DefaultLeverage != nil {
			spec.DefaultLeverage = *o.DefaultLeverage
		}
		if o.DefaultSpread != nil {
			spec.DefaultSpread = *o.DefaultSpread
		}
		if o.DefaultSwap != nil {
			spec.DefaultSwap = *o.DefaultSwap
		}
		if o.MaintenanceRate != nil {
			spec.MaintenanceRate = decimal.NewFromFloat(*o.MaintenanceRate)
		}
		table[class] = spec
	}
	return table, nil
}

func scheduleTable(overrides map[string]config.RebalanceOverride) (map[portfolio.Rebalance]portfolio.Schedule, error) {
	table := portfolio.DefaultSchedules()
	for key, o := range overrides {
		r, err := portfolio.ParseRebalance(key)
		if err != nil {
			return nil, fmt.Errorf("config rebalance: %w", err)
		}
		s := table[r]
		if o.PerYear != nil {
			s.PerYear = *o.PerYear
		}
		if o.CostPct != nil {
			s.CostPct = *o.CostPct
		}
		table[r] = s
	}
	return table, nil
}
