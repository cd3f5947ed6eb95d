package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clearsignal/intel-cli/internal/intel"
	"github.com/clearsignal/intel-cli/internal/model"
	"github.com/clearsignal/intel-cli/internal/monitoring"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the intelligence HTTP endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env := initPipeline(cfg)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: buildRouter(env.Pipeline, env.Collector),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// buildRouter assembles the chi router. Browser callers issue preflight
// OPTIONS requests, so CORS is permissive on the intelligence route.
func buildRouter(p *intel.Pipeline, collector *monitoring.Collector) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, collector.Snapshot())
	})

	r.Post("/api/v1/intelligence", func(w http.ResponseWriter, req *http.Request) {
		var ir model.IntelligenceRequest
		if err := json.NewDecoder(req.Body).Decode(&ir); err != nil {
			// Malformed bodies still get a well-formed envelope: callers
			// never branch on transport status.
			zap.L().Warn("serve: malformed intelligence request", zap.Error(err))
			writeJSON(w, http.StatusOK, intel.GenericFallback(ir, "", time.Now().UTC()))
			return
		}

		env, err := p.Run(req.Context(), ir)
		if err != nil {
			zap.L().Warn("serve: request rejected", zap.Error(err))
			writeJSON(w, http.StatusOK, intel.GenericFallback(ir, "", time.Now().UTC()))
			return
		}

		writeJSON(w, http.StatusOK, env)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
