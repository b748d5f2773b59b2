package server

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/VrindaSoni2/hire.ai/internal/config"
)

// WSUpgrader handles WebSocket upgrades. Origins are checked against
// AllowOrigins, which NewHTTPServer sets from the CORS configuration.
var WSUpgrader = websocket.Upgrader{
	CheckOrigin:     checkOrigin,
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// AllowOrigins lists origins accepted for websocket upgrades. Empty allows any.
var AllowOrigins []string

func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(AllowOrigins) == 0 {
		return true
	}
	if originAllowed(AllowOrigins, origin) {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

// RouteRegistrar mounts a feature's routes. protect wraps routes that need
// a bearer token when authentication is enabled.
type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, protect func(http.Handler) http.Handler)
}

// Pinger checks a dependency for /v1/ping.
type Pinger func(ctx context.Context) error

// PostgresPinger adapts a pgx pool.
func PostgresPinger(pool *pgxpool.Pool) Pinger {
	return func(ctx context.Context) error { return pool.Ping(ctx) }
}

// RedisPinger adapts a redis client.
func RedisPinger(client *redis.Client) Pinger {
	return func(ctx context.Context) error { return client.Ping(ctx).Err() }
}

// NewHTTPServer wires base routes (health, metrics, ping), feature routes and
// the middleware chain. protect may be nil when auth is disabled.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pingers []Pinger, protect func(http.Handler) http.Handler, registrars ...RouteRegistrar) *http.Server {
	if protect == nil {
		protect = func(h http.Handler) http.Handler { return h }
	}
	AllowOrigins = cfg.CORS.AllowedOrigins

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), pingers); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	for _, reg := range registrars {
		reg.RegisterRoutes(mux, protect)
	}

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: Chain(mux, RequestContext(logger), AccessLog, CORS(cfg.CORS)),
	}
}

func pingDependencies(ctx context.Context, pingers []Pinger) error {
	for _, ping := range pingers {
		if err := ping(ctx); err != nil {
			return err
		}
	}
	return nil
}
