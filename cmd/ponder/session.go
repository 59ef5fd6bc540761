package main

import (
	"fmt"
	"log"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"

	"github.com/ponderlabs/ponder/internal/backend"
	"github.com/ponderlabs/ponder/internal/cache"
	"github.com/ponderlabs/ponder/internal/config"
	"github.com/ponderlabs/ponder/internal/reason"
	"github.com/ponderlabs/ponder/internal/resilience"
	"github.com/ponderlabs/ponder/internal/trace"
)

// session bundles the collaborators a reasoning command needs: the backend
// client, the invoker, the cache advisor, and the trace store.
type session struct {
	cfg     *config.Config
	client  *backend.Client
	advisor *cache.Advisor
	store   *trace.Store
	reason  reason.Config
}

// newSession loads configuration and wires up the reasoning stack.
func newSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Resolve the key up front so env-first precedence and ${VAR} expansion
	// apply regardless of transport. Bedrock authenticates through AWS
	// credentials instead.
	apiKey := ""
	if !cfg.Backend.UseAWSBedrock {
		apiKey, err = config.GetAPIKey(cfg)
		if err != nil {
			return nil, err
		}
	}

	clientCfg := backend.ClientConfig{
		Model:         anthropic.Model(cfg.Backend.Model),
		MaxTokens:     cfg.Backend.MaxTokens,
		APIKey:        apiKey,
		UseAWSBedrock: cfg.Backend.UseAWSBedrock,
		AWSRegion:     cfg.Backend.AWSRegion,
		AWSProfile:    cfg.Backend.AWSProfile,
	}
	client, err := backend.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create API client: %w", err)
	}

	inv := resilience.NewInvoker()
	inv.Timeout = cfg.Invoker.RequestTimeout
	inv.MaxRetries = cfg.Invoker.MaxRetries
	inv.BaseDelay = cfg.Invoker.BaseRetryDelay

	advisor := cache.NewAdvisor(cache.Options{
		TTL:           cfg.Cache.TTL,
		SweepInterval: cfg.Cache.SweepInterval,
	})

	rc := reason.Config{
		Invoker: inv,
		Advisor: advisor,
	}

	var store *trace.Store
	if cfg.Trace.Enabled {
		cwd, _ := os.Getwd()
		store, err = trace.NewStore(trace.ProjectDBPath(cwd))
		if err != nil {
			// Tracing is diagnostics; losing it must not block reasoning.
			log.Printf("[trace] disabled: %v", err)
			store = nil
		} else {
			rc.Recorder = store
		}
	}

	return &session{
		cfg:     cfg,
		client:  client,
		advisor: advisor,
		store:   store,
		reason:  rc,
	}, nil
}

// Close releases the session's background resources.
func (s *session) Close() {
	if s.advisor != nil {
		s.advisor.Close()
	}
	if s.store != nil {
		s.store.Close()
	}
}

// printUsage prints the token and cost summary for the session.
func (s *session) printUsage() {
	tracker := s.client.Tracker()
	input, output := tracker.Total()
	if tracker.Calls() == 0 {
		return
	}

	dim := color.New(color.FgHiBlack)
	dim.Printf("%d call(s), %d in / %d out tokens, ~$%.4f\n",
		tracker.Calls(), input, output, tracker.Cost())
}
