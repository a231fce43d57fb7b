package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/dealscout/internal/crawler"
	"github.com/sells-group/dealscout/internal/model"
	"github.com/sells-group/dealscout/internal/store"
	"github.com/sells-group/dealscout/pkg/producthunt"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the crawl API with progressive SSE results",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initCrawlEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		var ph producthunt.Client
		if cfg.ProductHunt.Key != "" {
			ph = producthunt.NewClient(cfg.ProductHunt.Key,
				producthunt.WithBaseURL(cfg.ProductHunt.BaseURL),
			)
		}

		api := &apiServer{
			crawler:     env.crawler,
			store:       env.store,
			producthunt: ph,
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: api.routes(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(context.Background())
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// apiServer exposes the crawler over HTTP.
type apiServer struct {
	crawler     *crawler.Crawler
	store       store.Store
	producthunt producthunt.Client
}

func (s *apiServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/api/crawl", s.handleCrawl)
	r.Post("/api/trending", s.handleTrending)
	r.Get("/api/runs", s.handleListRuns)
	r.Get("/api/runs/{id}", s.handleGetRun)

	return r
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

var validSorts = map[string]bool{
	"recommended": true, "rating": true, "latest": true, "review_count": true,
	"popularity": true, "newest": true, "price_low": true, "price_high": true,
}

// handleCrawl streams crawl events over SSE: progress frames while
// scraping, one batch frame per super-batch, then a single complete or
// error frame.
func (s *apiServer) handleCrawl(w http.ResponseWriter, r *http.Request) {
	var req model.CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.MaxProducts < 0 || req.MaxProducts > crawler.MaxProductsLimit {
		writeJSONResponse(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("maxProducts must be between 1 and %d", crawler.MaxProductsLimit),
		})
		return
	}
	if req.SortBy != "" && !validSorts[req.SortBy] {
		writeJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "unknown sortBy value"})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONResponse(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	ctx := r.Context()
	run, err := s.store.CreateRun(ctx, req)
	if err != nil {
		zap.L().Error("create run", zap.Error(err))
		writeJSONResponse(w, http.StatusInternalServerError, map[string]string{"error": "could not record run"})
		return
	}
	if err := s.store.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning); err != nil {
		zap.L().Warn("mark run running", zap.String("run_id", run.ID), zap.Error(err))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	writeFrame := func(payload any) {
		data, err := json.Marshal(payload)
		if err != nil {
			zap.L().Error("marshal event", zap.Error(err))
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	type progressEvent struct {
		Type string `json:"type"`
		crawler.Progress
	}
	type batchEvent struct {
		Type string `json:"type"`
		crawler.BatchComplete
	}
	type completeEvent struct {
		Type string `json:"type"`
		model.CrawlResult
	}
	type errorEvent struct {
		Type  string `json:"type"`
		Error string `json:"error"`
	}

	cb := crawler.Callbacks{
		OnProgress: func(p crawler.Progress) {
			writeFrame(progressEvent{Type: "progress", Progress: p})
		},
		OnBatchComplete: func(b crawler.BatchComplete) {
			writeFrame(batchEvent{Type: "batch", BatchComplete: b})
		},
		OnComplete: func(result model.CrawlResult) {
			writeFrame(completeEvent{Type: "complete", CrawlResult: result})
		},
		OnError: func(err error) {
			writeFrame(errorEvent{Type: "error", Error: err.Error()})
		},
	}

	result, err := s.crawler.CrawlMarketplace(ctx, req, cb)
	if err != nil {
		if ferr := s.store.FailRun(ctx, run.ID, err.Error()); ferr != nil {
			zap.L().Warn("record run failure", zap.String("run_id", run.ID), zap.Error(ferr))
		}
		return
	}
	if err := s.store.UpdateRunResult(ctx, run.ID, result); err != nil {
		zap.L().Warn("record run result", zap.String("run_id", run.ID), zap.Error(err))
	}
}

func (s *apiServer) handleTrending(w http.ResponseWriter, r *http.Request) {
	if s.producthunt == nil {
		writeJSONResponse(w, http.StatusServiceUnavailable, map[string]string{"error": "product hunt is not configured"})
		return
	}

	var req struct {
		Topic string `json:"topic,omitempty"`
		Limit int    `json:"limit,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}

	var posts []model.Post
	var err error
	if req.Topic != "" {
		posts, err = s.producthunt.Topic(r.Context(), producthunt.ResolveTopic(req.Topic), req.Limit)
	} else {
		posts, err = s.producthunt.Trending(r.Context(), req.Limit)
	}
	if err != nil {
		zap.L().Error("trending fetch failed", zap.Error(err))
		writeJSONResponse(w, http.StatusBadGateway, map[string]string{"error": "could not fetch posts"})
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(posts),
		"results": posts,
	})
}

func (s *apiServer) handleListRuns(w http.ResponseWriter, r *http.Request) {
	filter := store.RunFilter{Status: model.RunStatus(r.URL.Query().Get("status"))}
	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		zap.L().Error("list runs", zap.Error(err))
		writeJSONResponse(w, http.StatusInternalServerError, map[string]string{"error": "could not list runs"})
		return
	}
	if runs == nil {
		runs = []model.CrawlRun{}
	}
	writeJSONResponse(w, http.StatusOK, runs)
}

func (s *apiServer) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if eris.Is(err, store.ErrRunNotFound) {
		writeJSONResponse(w, http.StatusNotFound, map[string]string{"error": "run not found"})
		return
	}
	if err != nil {
		zap.L().Error("get run", zap.Error(err))
		writeJSONResponse(w, http.StatusInternalServerError, map[string]string{"error": "could not load run"})
		return
	}
	writeJSONResponse(w, http.StatusOK, run)
}

func writeJSONResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}
