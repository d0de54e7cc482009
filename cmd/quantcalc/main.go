package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"frizo/quant_calc/internal/common"
	"frizo/quant_calc/internal/config"
	"frizo/quant_calc/internal/engine"
	"frizo/quant_calc/internal/logger"
	"frizo/quant_calc/internal/version"
)

func main() {
	// Command line flags
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		configFile  = flag.String("config", "quantcalc.yaml", "Path to configuration file")
		logLevel    = flag.String("log-level", "", "Log level (debug, info, warn, error)")
		outputDir   = flag.String("out", "", "Write the export document to this directory")
	)
	flag.Usage = usage
	flag.Parse()

	// Handle version flag
	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	// Handle help flag
	if *showHelp || flag.NArg() == 0 {
		usage()
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.LoadFile(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Override from command line
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	// Initialize logger
	log := logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat)
	logger.SetDefault(log)

	log.Debug("Starting quantcalc",
		"version", version.Short(),
		"environment", cfg.Environment,
		"config", *configFile,
	)

	if err := run(cfg, log, flag.Arg(0), flag.Args()[1:]); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		log.Error("Calculation failed", "error", err)
		os.Exit(1)
	}
}

// run parses one subcommand, executes it and prints the document.
func run(cfg *config.Config, log *logger.Logger, name string, args []string) error {
	e, err := engine.New(cfg, log)
	if err != nil {
		return err
	}

	cmd, err := parseCommand(e, name, args)
	if err != nil {
		return err
	}

	doc, err := e.Run(cmd)
	if err != nil {
		if errors.Is(err, common.ErrInvalidInput) {
			return &usageError{err: err}
		}
		return err
	}

	data, err := doc.JSON()
	if err != nil {
		return err
	}
	fmt.Println(string(data))

	_, err = e.Export(doc)
	return err
}

func usage() {
	fmt.Printf("quantcalc %s\n\n", version.Short())
	fmt.Println("Usage:")
	fmt.Println("  quantcalc [flags] <calculator> [calculator flags]")
	fmt.Println()
	fmt.Println("Calculators:")
	for _, s := range subcommands {
		fmt.Printf("  %-10s %s\n", s.name, s.summary)
	}
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Run 'quantcalc <calculator> -h' for calculator flags.")
}
