package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/a3tai/mcp-docx-filler/internal/config"
	"github.com/a3tai/mcp-docx-filler/internal/mcp"
	"github.com/a3tai/mcp-docx-filler/internal/service"
)

// Set with -ldflags "-X main.version=..." at build time.
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// setupLogging keeps stdout free for the protocol in stdio mode, where
// logs go to stderr only at debug level.
func setupLogging(cfg *config.Config) {
	if !cfg.IsStdioMode() {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		return
	}
	if cfg.IsDebug() {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}
}

// serve runs the server until it exits. In server mode SIGINT, SIGTERM and
// SIGHUP cancel the context.
func serve(cfg *config.Config, server *mcp.Server) error {
	ctx := context.Background()
	if cfg.IsServerMode() {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer stop()
	}

	if err := server.Run(ctx); err != nil {
		return err
	}
	if cfg.IsServerMode() {
		log.Println("Server stopped")
	}
	return nil
}

// hasVersionFlag reports whether a version flag is among args
func hasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return true
		}
	}
	return false
}

func main() {
	if hasVersionFlag(os.Args[1:]) {
		printVersion()
		return
	}

	// Load .env file if it exists; MCP_DOCX_* variables feed the config
	_ = godotenv.Load()

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	svc, err := service.NewService(cfg, service.WithLogger(log.Default()))
	if err != nil {
		log.Fatalf("Failed to create certificate service: %v", err)
	}

	server, err := mcp.NewServer(cfg, svc)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	if err := serve(cfg, server); err != nil {
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("MCP DOCX Filler\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
