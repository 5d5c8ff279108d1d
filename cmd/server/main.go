package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/stephenstubbs/viewpoint-mcp/internal/browser"
	"github.com/stephenstubbs/viewpoint-mcp/internal/config"
	"github.com/stephenstubbs/viewpoint-mcp/internal/mcpserver"
	"github.com/stephenstubbs/viewpoint-mcp/internal/tools"
	"github.com/stephenstubbs/viewpoint-mcp/internal/transport"
)

func main() {
	configPath := flag.String("config", "", "Path to the viewpoint-mcp config file (overrides workspace config)")
	ssePort := flag.Int("sse-port", 0, "Optional SSE port override (falls back to config)")
	noWorkspace := flag.Bool("no-workspace", false, "Disable .viewpoint-mcp/ workspace discovery")
	workspaceDir := flag.String("workspace-dir", "", "Explicit workspace root (skip walk-up discovery)")
	initWorkspace := flag.Bool("init-workspace", false, "Create .viewpoint-mcp/ template in current directory and exit")
	flag.Parse()

	if *initWorkspace {
		root := "."
		if *workspaceDir != "" {
			root = *workspaceDir
		}
		if err := config.InitWorkspace(root); err != nil {
			log.Fatalf("failed to initialize workspace: %v", err)
		}
		log.Printf("created .viewpoint-mcp/ workspace in %s", root)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := config.WorkspaceOptions{
		Disable:     *noWorkspace,
		ExplicitDir: *workspaceDir,
	}

	cfg, wsDir, err := config.LoadWithWorkspace(*configPath, opts)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *ssePort != 0 {
		cfg.Transport.SSEPort = *ssePort
	}
	if wsDir != "" {
		log.Printf("using workspace config from %s", wsDir)
	}

	// Redirect logging to file for stdio mode: stderr output would corrupt
	// the line-framed JSON-RPC pipe on stdout.
	if cfg.Transport.SSEPort == 0 && cfg.Server.LogFile != "" {
		logFile, err := os.OpenFile(cfg.Server.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			log.SetOutput(logFile)
			defer logFile.Close()
		} else {
			log.SetOutput(io.Discard)
		}
	}

	state := browser.NewState(cfg.Browser)

	imageMode := tools.ParseImageResponseMode(cfg.Server.ImageResponses)
	deps := tools.NewDeps(state, cfg.Server.ScreenshotDir, imageMode)

	mcpCfg := mcpserver.Config{Name: cfg.Server.Name, Version: cfg.Server.Version}
	server := mcpserver.NewMcpServer(mcpCfg, state, deps)

	var startErr error
	if cfg.Transport.SSEPort > 0 {
		apiKey := cfg.Transport.APIKey
		if apiKey == "" {
			apiKey, err = transport.GenerateAPIKey()
			if err != nil {
				log.Fatalf("failed to generate API key: %v", err)
			}
			log.Printf("generated API key for this session: %s", apiKey)
		}
		log.Printf("starting viewpoint-mcp SSE server on port %d", cfg.Transport.SSEPort)
		sseServer := transport.NewSSEServer(cfg.Transport.SSEPort, apiKey, server.HandleMessage)
		startErr = sseServer.Serve(ctx)
	} else {
		log.Printf("starting viewpoint-mcp stdio server")
		startErr = transport.ServeStdio(ctx, os.Stdin, os.Stdout, server.HandleMessage)
	}

	if startErr != nil && !errors.Is(startErr, context.Canceled) {
		log.Fatalf("server exited with error: %v", startErr)
	}

	state.Shutdown(context.Background())
}
