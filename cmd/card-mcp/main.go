package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ironsheep/card-tools-mcp/internal/config"
	"github.com/ironsheep/card-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("card-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "build-reference":
			if len(os.Args) != 4 {
				fmt.Fprintln(os.Stderr, "usage: card-tools-mcp build-reference <photo-dir> <database.db>")
				os.Exit(2)
			}
		}
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Logging goes to stderr; stdout is for the MCP protocol.
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) == 4 && os.Args[1] == "build-reference" {
		if err := buildReference(ctx, cfg, logger, os.Args[2], os.Args[3]); err != nil {
			logger.Fatal("failed to build reference set", zap.Error(err))
		}
		return
	}

	logger.Debug("starting card MCP server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit))

	rec, err := newRecognizer(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize recognizer", zap.Error(err))
	}
	if rec == nil {
		logger.Warn("no reference set configured; card_recognize and card_rectify are unavailable",
			zap.String("env", config.EnvReferencePath))
	}

	srv := server.New(rec, cfg, logger, Version)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func printHelp() {
	fmt.Println("card-tools-mcp - MCP server for playing-card recognition")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  card-tools-mcp [options]")
	fmt.Println("  card-tools-mcp build-reference <photo-dir> <database.db>")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  build-reference  Extract one card from every photo in <photo-dir> and store")
	fmt.Println("                   it in a sqlite reference database, labelled by file name")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  CARD_MCP_CONFIG=path.json         JSON configuration file")
	fmt.Println("  CARD_MCP_REFERENCE_KIND=dir       Reference store kind: dir or sqlite")
	fmt.Println("  CARD_MCP_REFERENCE_PATH=path      Reference directory or database")
	fmt.Println("  CARD_MCP_STRATEGY=diagonal        Corner strategy: diagonal, banded, extremes")
	fmt.Println("  CARD_MCP_WORKERS=4                Objects processed in parallel per frame")
	fmt.Println("  CARD_MCP_LOG_LEVEL=debug          Log level: debug, info, warn, error")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
}
