package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ironsheep/charseg-mcp/internal/config"
	"github.com/ironsheep/charseg-mcp/internal/logging"
	"github.com/ironsheep/charseg-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "charseg-mcp - MCP server for handwriting character segmentation")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage: charseg-mcp [options]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	flag.PrintDefaults()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Environment variables:")
	fmt.Fprintln(out, "  CHARSEG_CONFIG=path          YAML configuration file")
	fmt.Fprintln(out, "  CHARSEG_LOG_LEVEL=debug      debug, info, warn or error")
	fmt.Fprintln(out, "  CHARSEG_MIN_CHAR_WIDTH=25    Default minimum split spacing")
	fmt.Fprintln(out, "  CHARSEG_MAX_CHAR_WIDTH=45    Default maximum character width")
	fmt.Fprintln(out, "  CHARSEG_BATCH_WORKERS=0      Concurrent lines in segment_template (0 = CPUs)")
	fmt.Fprintln(out, "  CHARSEG_TEMPLATES=a.yaml     Extra paper template files")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "This server communicates via MCP protocol over stdin/stdout.")
	fmt.Fprintln(out, "Configure it in your MCP client.")
}

func main() {
	configPath := flag.String("config", "", "Path to a YAML configuration file")
	showVersion := flag.Bool("version", false, "Print version information")
	flag.BoolVar(showVersion, "v", false, "Print version information (shorthand)")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("charseg-mcp %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "charseg-mcp: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr (stdout is for MCP protocol)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logging.ParseLevel(cfg.LogLevel),
	}))
	logging.SetLogger(logger)

	logger.Debug("starting charseg-mcp",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("commit", GitCommit),
		slog.Int("min_char_width", cfg.Segment.MinCharWidth),
		slog.Int("max_char_width", cfg.Segment.MaxCharWidth))

	srv, err := server.New(cfg)
	if err != nil {
		logger.Error("failed to start server", slog.Any("error", err))
		os.Exit(1)
	}
	if err := srv.Run(); err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
}
