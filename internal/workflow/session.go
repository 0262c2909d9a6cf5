// Package workflow orchestrates the Calculate action: a sequential
// predict-then-dosing pipeline treated as one atomic unit of work. The
// session holds the composition model and the most recent successful
// result pair; results are replaced wholesale on success and left
// untouched on failure.
package workflow

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"smartsteel/internal/composition"
	"smartsteel/internal/reconcile"
	"smartsteel/internal/report"
	"smartsteel/pkg/api"
)

// Stage identifies the pipeline step where a Calculate action failed.
type Stage string

const (
	StagePrediction Stage = "prediction"
	StageDosing     Stage = "dosing"
)

// State is the combined outcome of one Calculate action.
type State int

const (
	// StateSuccess: both calls succeeded and the session was updated.
	StateSuccess State = iota
	// StateFailed: a call failed; prior results remain visible.
	StateFailed
	// StateDiscarded: a newer Calculate superseded this one before it
	// finished; its responses were dropped (last generation wins).
	StateDiscarded
)

// Result reports the outcome of a Calculate action.
type Result struct {
	State       State
	FailedStage Stage
	Err         error
	Predicted   *api.PredictedProperties
	Dosing      []api.DosingItem
}

// PropertyPredictor is the prediction side of the service contract.
type PropertyPredictor interface {
	PredictProperties(ctx context.Context, comp api.Composition) (*api.PredictedProperties, error)
}

// DosingCalculator is the dosing side of the service contract.
type DosingCalculator interface {
	CalculateDosing(ctx context.Context, meltMassTons float64, comp api.Composition) ([]api.DosingItem, error)
}

// Session is the per-operator workflow state. Safe for concurrent
// Calculate triggers: the generation counter guarantees that a stale
// in-flight pair can never overwrite newer results.
type Session struct {
	mu        sync.Mutex
	model     *composition.Model
	predictor PropertyPredictor
	doser     DosingCalculator

	gen       uint64
	predicted *api.PredictedProperties
	dosing    []api.DosingItem

	logger zerolog.Logger
}

// NewSession creates a session around a composition model and the two
// service clients.
func NewSession(model *composition.Model, predictor PropertyPredictor, doser DosingCalculator) *Session {
	return &Session{
		model:     model,
		predictor: predictor,
		doser:     doser,
		logger:    log.With().Str("component", "workflow").Logger(),
	}
}

// Model returns the session's composition model for operator edits.
func (s *Session) Model() *composition.Model {
	return s.model
}

// Calculate runs the predict → dosing pipeline over a snapshot of the
// current composition. Dosing is only attempted after prediction
// succeeds; the two calls commit together or not at all.
func (s *Session) Calculate(ctx context.Context) Result {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	comp := s.model.Composition()
	meltMass := s.model.MeltMassTons()
	s.mu.Unlock()

	props, err := s.predictor.PredictProperties(ctx, comp)
	if err != nil {
		s.logger.Error().Err(err).Uint64("generation", gen).Msg("Prediction failed")
		return Result{State: StateFailed, FailedStage: StagePrediction, Err: err}
	}

	items, err := s.doser.CalculateDosing(ctx, meltMass, comp)
	if err != nil {
		s.logger.Error().Err(err).Uint64("generation", gen).Msg("Dosing failed")
		return Result{State: StateFailed, FailedStage: StageDosing, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.logger.Warn().Uint64("generation", gen).Uint64("latest", s.gen).Msg("Discarding stale results")
		return Result{State: StateDiscarded}
	}
	s.predicted = props
	s.dosing = items

	s.logger.Info().
		Uint64("generation", gen).
		Int("dosing_rows", len(items)).
		Msg("Calculation complete")
	return Result{State: StateSuccess, Predicted: props, Dosing: items}
}

// Results returns the most recent successful result pair, or nils when
// no calculation has succeeded yet.
func (s *Session) Results() (*api.PredictedProperties, []api.DosingItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.predicted, s.dosing
}

// ViewModel reconciles the current composition with the held results.
func (s *Session) ViewModel() reconcile.ViewModel {
	predicted, dosing := s.Results()
	return reconcile.Reconcile(s.model, predicted, dosing)
}

// ExportReport writes the experiment plan for the held state into dir
// and returns the written path. Synchronous over held state: it never
// triggers network calls. Returns report.ErrExportSkipped when no
// complete result pair exists.
func (s *Session) ExportReport(dir string) (string, error) {
	predicted, dosing := s.Results()
	return report.Export(dir, s.model, predicted, dosing)
}
