package main

import (
	"fmt"
	"os"

	"github.com/core-tools/hsu-maintenance-go/pkg/logging"
	"github.com/core-tools/hsu-maintenance-go/pkg/maintenance"

	flags "github.com/jessevdk/go-flags"
)

type flagOptions struct {
	ConfigFile string `long:"config" description:"path to the maintenance configuration file"`
	Validate   bool   `long:"validate" description:"validate the configuration file and exit"`
	DryRun     bool   `long:"dry-run" description:"report what would be cleaned without deleting files or starting services"`
	LogLevel   string `long:"log-level" description:"diagnostic log level (debug, info, warn, error)" default:"info"`
}

func logPrefix(module string) string {
	return fmt.Sprintf("module: %s , ", module)
}

func main() {
	var opts flagOptions
	var argv []string = os.Args[1:]
	var parser = flags.NewParser(&opts, flags.HelpFlag)
	var err error
	_, err = parser.ParseArgs(argv)
	if err != nil {
		fmt.Printf("Command line flags parsing failed: %v", err)
		os.Exit(1)
	}

	logger, syncLogs, err := logging.NewZapLogger(opts.LogLevel)
	if err != nil {
		fmt.Printf("Logger setup failed: %v", err)
		os.Exit(1)
	}
	defer syncLogs()

	logger.Infof("opts: %+v", opts)

	if opts.Validate {
		if opts.ConfigFile == "" {
			fmt.Println("Config file is required for validation")
			os.Exit(1)
		}
		if err := maintenance.ValidateConfigFile(opts.ConfigFile); err != nil {
			logger.Errorf("Configuration is invalid: %v", err)
			os.Exit(1)
		}
		logger.Infof("Configuration is valid: %s", opts.ConfigFile)
		return
	}

	maintLogger := logging.NewLogger(
		logPrefix("hsu-maintenance"), logging.LogFuncs{
			Debugf: logger.Debugf,
			Infof:  logger.Infof,
			Warnf:  logger.Warnf,
			Errorf: logger.Errorf,
		})

	runOptions := maintenance.RunOptions{
		ConfigFile: opts.ConfigFile,
		DryRun:     opts.DryRun,
	}
	if err := maintenance.Run(runOptions, maintLogger); err != nil {
		logger.Errorf("Maintenance run failed: %v", err)
		os.Exit(1)
	}
}
