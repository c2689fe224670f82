package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/omniagent/cognition/internal/config"
	"github.com/omniagent/cognition/internal/mcptool"
	"github.com/omniagent/cognition/internal/policy"
)

// Stdio MCP server exposing the action tools to external agent hosts.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A nop logger keeps stdout clean for the stdio transport.
	constants, err := config.LoadWorldConstants(cfg.ConstantsPath, zap.NewNop())
	if err != nil {
		log.Fatalf("failed to load world constants: %v", err)
	}

	store, err := policy.NewStore(cfg.PolicyDB)
	if err != nil {
		log.Fatalf("failed to open policy store: %v", err)
	}
	defer store.Close()

	if err := mcptool.Run(ctx, constants, store); err != nil {
		log.Fatalf("mcp server failed: %v", err)
	}
}
