// Command server runs the crowdfund contract as an MCP server on stdio.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/louisbranch/crowdfund.space/internal/api/mcp"
	"github.com/louisbranch/crowdfund.space/internal/crowdfund/authority"
	"github.com/louisbranch/crowdfund.space/internal/crowdfund/service"
	"github.com/louisbranch/crowdfund.space/internal/crowdfund/storage/sqlite"
	"github.com/louisbranch/crowdfund.space/internal/crowdfund/token"
	"github.com/louisbranch/crowdfund.space/internal/platform/config"
	"github.com/louisbranch/crowdfund.space/internal/platform/otel"
)

type serverConfig struct {
	DBPath          string `env:"CROWDFUND_SPACE_DB_PATH" envDefault:"crowdfund.db"`
	ContractAccount string `env:"CROWDFUND_SPACE_CONTRACT_ACCOUNT"`
	TokenBackend    string `env:"CROWDFUND_SPACE_TOKEN_BACKEND" envDefault:"vault"`
}

func main() {
	log.SetPrefix("[CROWDFUND] ")

	var cfg serverConfig
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("parse config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Setup(ctx, "crowdfund-space")
	if err != nil {
		config.Exitf("setup tracing: %v", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	verifier, err := buildVerifier()
	if err != nil {
		config.Exitf("configure caller verification: %v", err)
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		config.Exitf("open store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	tokens, err := buildTransferor(cfg.TokenBackend)
	if err != nil {
		config.Exitf("configure token backend: %v", err)
	}

	svc := service.New(store, tokens, verifier,
		service.WithContractAccount(cfg.ContractAccount))

	server, err := api.NewServer(svc)
	if err != nil {
		config.Exitf("build mcp server: %v", err)
	}

	log.Printf("serving MCP on stdio, store at %s", cfg.DBPath)
	if err := api.Serve(ctx, server); err != nil && !errors.Is(err, context.Canceled) {
		config.Exitf("serve MCP: %v", err)
	}
}

// buildTransferor selects the token custody backend. The in-process vault
// holds balances in memory only; deployments backed by a real asset ledger
// register their Transferor here.
func buildTransferor(backend string) (token.Transferor, error) {
	switch backend {
	case "vault":
		log.Print("token backend is the in-memory vault; custody balances reset on restart")
		return token.NewVault(), nil
	default:
		return nil, fmt.Errorf("unknown token backend %q", backend)
	}
}

// buildVerifier reads grant configuration, falling back to trusted bare
// addresses when no grant issuer is configured.
func buildVerifier() (authority.Verifier, error) {
	grantCfg, err := authority.LoadGrantConfigFromEnv(nil)
	if errors.Is(err, authority.ErrNotConfigured) {
		log.Print("caller grants not configured; trusting bare caller addresses")
		return authority.TrustedVerifier{}, nil
	}
	if err != nil {
		return nil, err
	}
	return authority.NewGrantVerifier(grantCfg)
}
