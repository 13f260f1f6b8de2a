// Entry point for the pagemap HTTP service — chi router, JSON POST
// endpoint accepting a browser Snapshot and returning the built
// PageMap, plus a /health check. No diff endpoint is served.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"pagemap"
	"pagemap/assemble"
	"pagemap/idgen"
	"pagemap/kit"
)

func main() {
	port := env("PORT", "8088")
	logLevel := env("LOG_LEVEL", "info")

	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	builder := pagemap.New(pagemap.WithLogger(logger))
	requestID := idgen.Prefixed("req_", idgen.Default)
	jwtSecret := env("PAGEMAP_JWT_SECRET", "")

	r := chi.NewRouter()
	r.Use(requestIDMiddleware(requestID))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	pagemapRoute := func(w http.ResponseWriter, r *http.Request) {
		var snap pagemap.Snapshot
		if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
			writeError(w, 400, err)
			return
		}
		pm, err := builder.Build(r.Context(), snap)
		if err != nil {
			slog.Error("build failed", "request_id", kit.GetRequestID(r.Context()), "error", err)
			writeError(w, 422, err)
			return
		}
		format := r.URL.Query().Get("format")
		if format == "prompt" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			fmt.Fprint(w, assemble.ToPrompt(pm))
			return
		}
		out, err := assemble.ToJSON(pm, 0)
		if err != nil {
			writeError(w, 500, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(out)
	}

	if jwtSecret != "" {
		r.With(requireBearer(jwtSecret)).Post("/api/pagemap", pagemapRoute)
	} else {
		r.Post("/api/pagemap", pagemapRoute)
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// requestIDMiddleware stamps every request with an opaque ID, exposed
// via the response header and the request context so downstream
// handlers and logs can correlate a single request.
func requestIDMiddleware(gen idgen.Generator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := gen()
			w.Header().Set("X-Request-ID", id)
			ctx := kit.WithRequestID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireBearer rejects requests without a valid HS256 JWT in the
// Authorization header. It's opt-in: only wired when PAGEMAP_JWT_SECRET
// is set, since most deployments front this service with their own
// gateway auth instead.
func requireBearer(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix {
				writeError(w, 401, fmt.Errorf("missing bearer token"))
				return
			}
			tokenStr := auth[len(prefix):]
			_, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil {
				writeError(w, 401, fmt.Errorf("invalid token: %w", err))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
