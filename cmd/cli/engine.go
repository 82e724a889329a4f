package main

import (
	"context"
	"fmt"

	"value-added-framework/config"
	"value-added-framework/internal/app"
	"value-added-framework/internal/conversation"
	"value-added-framework/internal/conversation/usecase"
	"value-added-framework/internal/gateway"
	profileUC "value-added-framework/internal/profile/usecase"
	"value-added-framework/internal/store"
	"value-added-framework/internal/timer"
	"value-added-framework/pkg/llmprovider"
	"value-added-framework/pkg/log"
)

// engine is the wired conversation stack for one command run.
type engine struct {
	cfg       *config.Config
	l         log.Logger
	st        store.Store
	providers []llmprovider.Provider
	conv      conversation.UseCase
}

// loadConfig reads config.yaml and applies the command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, err
	}
	if useMock {
		cfg.LLM = config.MockLLMConfig()
	}
	if storeDriver != "" {
		cfg.Store.Driver = storeDriver
	}
	if storeDSN != "" {
		cfg.Store.DSN = storeDSN
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) log.Logger {
	if verbose {
		return app.NewLogger(cfg.Logger)
	}
	return log.NewNop()
}

// newEngine wires the store and, when withModel is set, the model gateway.
func newEngine(ctx context.Context, withModel bool) (*engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	l := newLogger(cfg)

	st, err := app.OpenStore(ctx, cfg.Store, l)
	if err != nil {
		return nil, err
	}
	e := &engine{cfg: cfg, l: l, st: st}

	var gw gateway.Gateway = offlineGateway{}
	if withModel {
		if err := cfg.LLM.Validate(); err != nil {
			st.Close()
			return nil, err
		}
		gen, err := app.NewGenerator(ctx, cfg, l)
		if err != nil {
			st.Close()
			return nil, err
		}
		e.providers = gen.Providers()
		gw = gateway.New(l, gen, app.GatewayConfig(cfg.Framework))
	}

	convCfg, err := app.ConversationConfig(cfg.Framework)
	if err != nil {
		st.Close()
		return nil, err
	}

	profiles := profileUC.New(st, l)
	e.conv = usecase.New(l, st, profiles, gw, timer.New(), convCfg)
	return e, nil
}

func (e *engine) Close() error {
	return e.st.Close()
}

// offlineGateway serves commands that only read stored sessions.
type offlineGateway struct{}

func (offlineGateway) Send(ctx context.Context, req gateway.Request) (gateway.RawReply, error) {
	return gateway.RawReply{}, &gateway.FatalError{Err: fmt.Errorf("no model configured for this command")}
}
