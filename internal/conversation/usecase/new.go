package usecase

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"value-added-framework/internal/contract"
	"value-added-framework/internal/gateway"
	"value-added-framework/internal/injector"
	"value-added-framework/internal/profile"
	"value-added-framework/internal/store"
	"value-added-framework/internal/timer"
	"value-added-framework/pkg/log"
)

const (
	DefaultMaxRetries      = 2
	DefaultSessionDuration = 50 * time.Minute

	seqCacheSize = 10000
	// seqIdleTTL drops counters of sessions that stopped receiving messages.
	seqIdleTTL = 2 * time.Hour
)

// Config holds the orchestration knobs.
type Config struct {
	// MaxRetries bounds gateway retries after the first attempt.
	MaxRetries      int
	DefaultDuration time.Duration
	Backoff         Backoff
	// Contract defaults to contract.Default().
	Contract *contract.Contract
}

type implUseCase struct {
	l        log.Logger
	store    store.Store
	profiles profile.UseCase
	gateway  gateway.Gateway
	timer    *timer.Timer
	injector *injector.Injector
	contract *contract.Contract
	prompt   string
	cfg      Config

	locks *sessionLocks
	seqs  *expirable.LRU[string, int]
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a new conversation UseCase.
func New(l log.Logger, st store.Store, profiles profile.UseCase, gw gateway.Gateway, tm *timer.Timer, cfg Config) *implUseCase {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.DefaultDuration <= 0 {
		cfg.DefaultDuration = DefaultSessionDuration
	}
	if cfg.Contract == nil {
		cfg.Contract = contract.Default()
	}
	if tm == nil {
		tm = timer.New()
	}

	return &implUseCase{
		l:        l,
		store:    st,
		profiles: profiles,
		gateway:  gw,
		timer:    tm,
		injector: injector.New(tm),
		contract: cfg.Contract,
		prompt:   injector.SystemPrompt(cfg.Contract.ResponseField(), cfg.Contract.NotesField()),
		cfg:      cfg,
		locks:    newSessionLocks(),
		seqs:     expirable.NewLRU[string, int](seqCacheSize, nil, seqIdleTTL),
		sleep:    sleepCtx,
	}
}
