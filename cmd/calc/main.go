package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/shellframe-tools/shellframe/internal/config"
	"github.com/shellframe-tools/shellframe/internal/history"
	"github.com/shellframe-tools/shellframe/internal/log"
	"github.com/shellframe-tools/shellframe/internal/paths"
	"github.com/shellframe-tools/shellframe/internal/style"
	"github.com/shellframe-tools/shellframe/shell"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, style.Error(err.Error()))
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		noColor    bool
		noHistory  bool
		configPath string
		scriptPath string
	)
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--no-color":
			noColor = true
		case "--no-history":
			noHistory = true
		case "--config":
			i++
			if i >= len(args) {
				return fmt.Errorf("--config requires a path")
			}
			configPath = args[i]
		case "--version":
			fmt.Println("calc " + version)
			return nil
		default:
			if scriptPath != "" {
				return fmt.Errorf("unexpected argument '%s'", args[i])
			}
			scriptPath = args[i]
		}
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	enableColor := term.IsTerminal(int(os.Stdout.Fd())) && !noColor
	if cfg.Color != nil {
		enableColor = enableColor && *cfg.Color
	}
	style.Init(enableColor)

	if cfg.Log.Enabled == nil || *cfg.Log.Enabled {
		logPath := cfg.Log.Path
		if logPath == "" {
			logPath = paths.LogFilePath("calc")
		}
		if err := log.Init(logPath, log.ParseLevel(cfg.Log.Level)); err != nil {
			fmt.Fprintln(os.Stderr, style.Warning("logging disabled: "+err.Error()))
		}
	}
	defer log.Close()

	opts := shell.Options{
		Logger:     log.GetLogger(),
		Marker:     cfg.Marker,
		ExitTokens: cfg.ExitTokens,
	}

	if !noHistory && (cfg.History.Enabled == nil || *cfg.History.Enabled) {
		store, err := history.New(cfg.History.Path)
		if err != nil {
			fmt.Fprintln(os.Stderr, style.Warning("history disabled: "+err.Error()))
		} else {
			defer store.Close()
			opts.History = store
		}
	}

	session := shell.NewSession(newCalculator(version), opts)

	if scriptPath != "" {
		f, err := os.Open(scriptPath)
		if err != nil {
			return err
		}
		defer f.Close()
		return session.RunScript(f)
	}
	return session.Run()
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}
