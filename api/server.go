// Package api provides the SmartSteel HTTP service: property
// prediction, dosing calculation, alloy optimization, inventory listing
// and knowledge-base queries.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"smartsteel/internal/dosing"
	"smartsteel/internal/inventory"
	"smartsteel/internal/optimize"
	"smartsteel/internal/predict"
	"smartsteel/internal/research"
	api "smartsteel/pkg/api"
)

// Config holds server configuration.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:         5000,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
}

// Server is the SmartSteel HTTP service.
type Server struct {
	predictor *predict.Predictor
	doser     *dosing.Engine
	inv       inventory.Store
	optimizer *optimize.Optimizer
	research  *research.Engine
	config    *Config

	httpServer *http.Server
}

// NewServer wires the service around an inventory store.
func NewServer(inv inventory.Store, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	predictor := predict.New()
	return &Server{
		predictor: predictor,
		doser:     dosing.NewEngine(inv),
		inv:       inv,
		optimizer: optimize.New(predictor, time.Now().UnixNano()),
		config:    config,
	}
}

// WithResearch attaches a knowledge-base engine. Without one, research
// queries answer with an initialization notice.
func (s *Server) WithResearch(engine *research.Engine) *Server {
	s.research = engine
	return s
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/predict_properties", s.handlePredict)
		r.Post("/calculate_dosing", s.handleDosing)
		r.Post("/optimize_alloy", s.handleOptimize)
		r.Get("/inventory", s.handleInventory)
		r.Post("/research/query", s.handleResearch)
	})

	return r
}

// Start runs the server with graceful shutdown on SIGINT/SIGTERM.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.Router(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Int("port", s.config.Port).Msg("SmartSteel service starting")
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-quit:
		log.Info().Msg("Shutting down service")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "SmartSteel Backend Running",
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req api.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	props := s.predictor.Predict(req.Composition)
	s.respondJSON(w, http.StatusOK, props)
}

func (s *Server) handleDosing(w http.ResponseWriter, r *http.Request) {
	var req api.DosingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MeltMassTons == 0 {
		req.MeltMassTons = 10
	}

	resp, err := s.doser.Calculate(r.Context(), req.MeltMassTons, req.Composition)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "dosing calculation failed: "+err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req api.OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Targets) == 0 {
		req.Targets = map[string]float64{"strength": 600}
	}
	if len(req.Weights) == 0 {
		req.Weights = map[string]float64{"strength": 50, "cost": 50}
	}

	best, _ := s.optimizer.Optimize(req.Targets, req.Weights)
	s.respondJSON(w, http.StatusOK, api.OptimizeResponse{
		OptimizedComposition: best,
		PredictedProperties:  s.predictor.Predict(best),
	})
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	materials, err := s.inv.List(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "inventory listing failed: "+err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, materials)
}

func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	var req api.ResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if s.research == nil {
		s.respondJSON(w, http.StatusOK, api.ResearchResponse{
			Results: []api.ResearchResult{{
				Content: "Error: Knowledge base not initialized.",
				Source:  "System",
				Score:   0,
			}},
		})
		return
	}

	results := s.research.Query(req.Query, research.DefaultTopK)
	if results == nil {
		results = []api.ResearchResult{}
	}
	s.respondJSON(w, http.StatusOK, api.ResearchResponse{Results: results})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, api.ErrorResponse{Error: message})
}
