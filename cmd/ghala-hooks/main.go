package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erickweyunga/ghala-hooks/internal/config"
	"github.com/erickweyunga/ghala-hooks/internal/events"
	"github.com/erickweyunga/ghala-hooks/internal/log"
	"github.com/erickweyunga/ghala-hooks/internal/plugin"
	"github.com/erickweyunga/ghala-hooks/internal/webhook"
	"github.com/erickweyunga/ghala-hooks/plugins/eventlog"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "start":
		os.Exit(runStart(args))
	case "config":
		os.Exit(runConfigNoun(args))
	case "version":
		fmt.Printf("ghala-hooks version %s\n", version)
		os.Exit(0)
	case "help", "--help", "-h":
		printUsage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`ghala-hooks - Ghala webhook receiver and event dispatcher

Usage:
  ghala-hooks <command> [flags]

Commands:
  start         Start the webhook server in foreground
  config lock   Authorize current config state (write integrity checksums)
  config check  Validate config syntax, secrets, and integrity
  version       Show version information
  help          Show this help message

Flags:
  --config <path>   Path to config file (default: discovered)

The config file is discovered from $GHALA_HOOKS_CONFIG,
~/.config/ghala-hooks/config.yaml, or ./config.yaml.
`)
}

func isHelpToken(s string) bool {
	return s == "help" || s == "--help" || s == "-h"
}

// resolveConfigPath returns the flag value or falls back to discovery.
func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return config.DiscoverConfigPath()
}

func runStart(args []string) int {
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	configFlag := fs.String("config", "", "Path to config file")
	fs.Parse(args)

	path, err := resolveConfigPath(*configFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log.Setup(cfg.Service.LogLevel)
	logger := log.WithComponent("main")

	verified, err := config.VerifyIntegrity(path)
	if err != nil {
		logger.Error("config integrity check failed", "error", err)
		return 1
	}
	if !verified {
		logger.Warn("config integrity not verified; run 'ghala-hooks config lock' to enable verification")
	}

	wcfg, err := webhook.FromGlobalConfig(&cfg.Webhooks)
	if err != nil {
		logger.Error("invalid webhook configuration", "error", err)
		return 1
	}

	// Build the bus and wire plugins before the server accepts traffic.
	bus := events.NewBus()
	registry := plugin.NewRegistry()
	if err := registry.Add(eventlog.New()); err != nil {
		logger.Error("plugin registration failed", "error", err)
		return 1
	}
	wired := registry.Apply(bus, cfg.Plugins)
	logger.Info("plugins wired", "plugins", len(registry.All()), "handlers", wired)

	server := webhook.New(wcfg, bus, log.WithComponent("webhook"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exited", "error", err)
		return 1
	}

	logger.Info("shutdown complete")
	return 0
}

func runConfigNoun(args []string) int {
	if len(args) < 1 || isHelpToken(args[0]) {
		fmt.Print(`Config commands:
  config lock   Authorize current config state (write integrity checksums)
  config check  Validate config syntax, secrets, and integrity
`)
		if len(args) < 1 {
			return 1
		}
		return 0
	}

	action := args[0]
	actionArgs := args[1:]

	switch action {
	case "lock":
		return runConfigLock(actionArgs)
	case "check":
		return runConfigCheck(actionArgs)
	default:
		fmt.Fprintf(os.Stderr, "Unknown config action: %s\n", action)
		return 1
	}
}

func runConfigLock(args []string) int {
	fs := flag.NewFlagSet("config lock", flag.ExitOnError)
	configFlag := fs.String("config", "", "Path to config file")
	fs.Parse(args)

	path, err := resolveConfigPath(*configFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	checksumPath, err := config.Lock(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to lock config: %v\n", err)
		return 1
	}

	fmt.Printf("Config locked: %s\n", checksumPath)
	return 0
}

func runConfigCheck(args []string) int {
	fs := flag.NewFlagSet("config check", flag.ExitOnError)
	configFlag := fs.String("config", "", "Path to config file")
	fs.Parse(args)

	path, err := resolveConfigPath(*configFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config invalid: %v\n", err)
		return 1
	}

	if _, err := webhook.FromGlobalConfig(&cfg.Webhooks); err != nil {
		fmt.Fprintf(os.Stderr, "Config invalid: %v\n", err)
		return 1
	}

	verified, err := config.VerifyIntegrity(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Integrity check failed: %v\n", err)
		return 1
	}
	if !verified {
		fmt.Println("Config valid (integrity not verified; run 'ghala-hooks config lock')")
		return 0
	}

	fmt.Println("Config valid and integrity verified")
	return 0
}
