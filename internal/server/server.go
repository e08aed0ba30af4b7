package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/multicall/internal/auth"
	"github.com/danmuck/multicall/internal/host"
	"github.com/danmuck/multicall/internal/multicall"
	"github.com/danmuck/multicall/internal/node"
	"github.com/danmuck/multicall/internal/observability"
	"github.com/danmuck/multicall/internal/protocol/frame"
)

// Options configures a Gateway.
type Options struct {
	ID          string
	Addr        string
	CorsOrigins []string
	Limits      frame.Limits
	// Auth guards POST /v1/execute when set.
	Auth auth.Validator
}

// Gateway exposes the contract router over HTTP, running every request as
// one invocation on the reference host.
type Gateway struct {
	ID       string
	Addr     string
	Appeared time.Time

	host   *host.Host
	router *multicall.Router
	limits frame.Limits
	auth   auth.Validator
	engine *gin.Engine
	logger zerolog.Logger
}

var _ node.Node = (*Gateway)(nil)

func Appear(opts Options, h *host.Host, router *multicall.Router) *Gateway {
	observability.RegisterMetrics()
	logger := log.Logger.With().Str("component", "gateway").Str("node", opts.ID).Logger()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware(opts.ID))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(opts.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	if opts.Limits.MaxCalldataBytes == 0 {
		opts.Limits = frame.DefaultLimits()
	}

	return &Gateway{
		ID:       opts.ID,
		Addr:     opts.Addr,
		Appeared: time.Now(),
		host:     h,
		router:   router,
		limits:   opts.Limits,
		auth:     opts.Auth,
		engine:   r,
		logger:   logger,
	}
}

func (g *Gateway) NodeID() string {
	return g.ID
}

func (g *Gateway) Kind() string {
	return "gateway"
}

func (g *Gateway) HTTPRouter() *gin.Engine {
	return g.engine
}

// Execute runs env as one host invocation and records its outcome.
func (g *Gateway) Execute(ctx context.Context, env frame.Envelope) (host.Receipt, error) {
	start := time.Now()
	entry, ok := g.router.Method(env.Selector)
	if !ok {
		entry = "unknown"
	}

	receipt, err := g.host.Execute(ctx, func(ctx context.Context, inv *host.Invocation) ([]byte, error) {
		return g.router.Dispatch(ctx, inv, env)
	})

	outcome := observability.OutcomeOK
	if err != nil {
		outcome = multicall.Kind(err)
	}
	observability.RecordInvocation(g.ID, observability.Invocation{
		Entry:         entry,
		Outcome:       outcome,
		Calls:         receipt.Calls,
		ResponseBytes: len(receipt.Output),
		GasUsed:       receipt.GasUsed,
		Duration:      time.Since(start),
	})

	if err != nil {
		g.logger.Warn().
			Str("entry", entry).
			Str("selector", env.Selector.String()).
			Str("outcome", outcome).
			Int("calls", receipt.Calls).
			Uint64("gas_used", receipt.GasUsed).
			Err(err).
			Msg("invocation failed")
		return receipt, err
	}

	g.logger.Debug().
		Str("entry", entry).
		Int("calls", receipt.Calls).
		Int("response_bytes", len(receipt.Output)).
		Uint64("gas_used", receipt.GasUsed).
		Msg("invocation executed")
	return receipt, nil
}

func (g *Gateway) Serve() error {
	g.RegisterRoutes()
	g.logger.Info().Str("addr", g.Addr).Int("targets", g.host.Registry().Len()).Msg("gateway listening")
	return g.engine.Run(g.Addr)
}

func statusFor(kind string) int {
	switch kind {
	case multicall.KindMalformedInput, multicall.KindUnknownSelector:
		return http.StatusBadRequest
	case multicall.KindCapacityExceeded:
		return http.StatusRequestEntityTooLarge
	case multicall.KindSubCallFault:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
