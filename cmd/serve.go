package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrosense/crop-advisor/internal/advisor"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recommendation HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, err := initAdvisor()
		if err != nil {
			return err
		}

		r := chi.NewRouter()
		r.Use(requestID)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"status": "ok",
				"caches": svc.CacheStats(),
			})
		})

		r.Get("/api/recommend", func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			topN, _ := strconv.Atoi(q.Get("top"))
			if topN <= 0 {
				topN = cfg.Advisor.TopN
			}

			resp, err := svc.Recommend(req.Context(), advisor.Query{
				Location: q.Get("location"),
				Season:   q.Get("season"),
				SoilType: q.Get("soil"),
				TopN:     topN,
			})
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": eris.Cause(err).Error()})
				return
			}
			writeJSON(w, http.StatusOK, resp)
		})

		r.Get("/api/weather", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, svc.Weather(req.Context(), req.URL.Query().Get("location")))
		})

		r.Get("/api/prices", func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			writeJSON(w, http.StatusOK, svc.Prices(req.Context(), q.Get("location"), q.Get("crop"), q.Get("mandi")))
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go shutdownOnDone(ctx, srv)

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

const drainTimeout = 10 * time.Second

// shutdownOnDone waits for the signal context, then drains in-flight
// requests on a fresh deadline; the canceled signal context would make
// Shutdown return before the drain completes.
func shutdownOnDone(ctx context.Context, srv *http.Server) {
	<-ctx.Done()
	zap.L().Info("shutting down server")
	drain, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := srv.Shutdown(drain); err != nil {
		zap.L().Warn("server shutdown", zap.Error(err))
	}
}

// requestID tags each request with a UUID for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		zap.L().Debug("request",
			zap.String("request_id", id),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
		)
		next.ServeHTTP(w, req)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
