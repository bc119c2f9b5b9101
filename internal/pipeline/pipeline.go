// Package pipeline composes extraction, validation, and score calculation
// into one request/response run per document.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/mscore-cli/internal/model"
	"github.com/sells-group/mscore-cli/internal/mscore"
	"github.com/sells-group/mscore-cli/internal/validate"
)

// Stage tags the pipeline step a terminal error came from.
type Stage string

const (
	StageExtraction  Stage = "extraction"
	StageValidation  Stage = "validation-insufficient"
	StageCalculation Stage = "calculation"
)

// Error is a stage-tagged terminal pipeline failure.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return string(e.Stage) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Extractor is the extraction step as the pipeline sees it.
type Extractor interface {
	Extract(ctx context.Context, doc string, priority []string) (*model.ExtractionResult, error)
}

// Pipeline owns one analysis flow. Runs share no mutable state, so one
// Pipeline value is safe for concurrent Run calls.
type Pipeline struct {
	extractor Extractor
	validator *validate.Validator
	now       func() time.Time
	newRunID  func() string
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithClock overrides the report timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithRunIDSource overrides run ID generation.
func WithRunIDSource(fn func() string) Option {
	return func(p *Pipeline) { p.newRunID = fn }
}

// New builds a Pipeline over an extractor and validator.
func New(extractor Extractor, validator *validate.Validator, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor: extractor,
		validator: validator,
		now:       time.Now,
		newRunID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes extract, validate, calculate for one document. Extraction
// failure is terminal and returns a stage-tagged *Error. An insufficient
// validation is not terminal: the report still carries the ratios that
// could be computed, with undefined markers and warnings for the rest.
func (p *Pipeline) Run(ctx context.Context, doc string, priority []string) (*model.ScoreReport, error) {
	runID := p.newRunID()
	log := zap.L().With(zap.String("run_id", runID))

	extracted, err := p.extractor.Extract(ctx, doc, priority)
	if err != nil {
		return nil, &Error{Stage: StageExtraction, Err: err}
	}

	validation := p.validator.Validate(extracted)
	if validation.Classification == model.ClassInsufficient {
		log.Warn("validation insufficient, producing partial report",
			zap.Any("missing_keys", validation.MissingKeys))
	}

	result := mscore.Compute(validation.Facts)

	report := &model.ScoreReport{
		RunID:      runID,
		Company:    extracted.Company,
		MScore:     result.MScore,
		Risk:       result.Risk,
		Ratios:     result.Ratios,
		Validation: validation,
		Provider:   extracted.Provider,
		CreatedAt:  p.now(),
	}
	log.Info("analysis complete",
		zap.String("provider", report.Provider),
		zap.String("risk", string(report.Risk)),
		zap.String("classification", string(validation.Classification)))
	return report, nil
}
