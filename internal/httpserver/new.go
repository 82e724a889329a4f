package httpserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	"value-added-framework/internal/conversation/usecase"
	"value-added-framework/internal/gateway"
	"value-added-framework/internal/middleware"
	"value-added-framework/internal/store"
	"value-added-framework/internal/timer"
	"value-added-framework/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string
	rateLimit   middleware.Config

	// Engine dependencies
	store        store.Store
	gateway      gateway.Gateway
	timer        *timer.Timer
	conversation usecase.Config
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string
	RateLimit   middleware.Config

	Store        store.Store
	Gateway      gateway.Gateway
	Timer        *timer.Timer // nil uses the wall clock
	Conversation usecase.Config
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:            logger,
		gin:          gin.New(),
		port:         cfg.Port,
		mode:         cfg.Mode,
		environment:  cfg.Environment,
		rateLimit:    cfg.RateLimit,
		store:        cfg.Store,
		gateway:      cfg.Gateway,
		timer:        cfg.Timer,
		conversation: cfg.Conversation,
	}
	if srv.timer == nil {
		srv.timer = timer.New()
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.store == nil {
		return errors.New("store is required")
	}
	if srv.gateway == nil {
		return errors.New("gateway is required")
	}
	return nil
}
