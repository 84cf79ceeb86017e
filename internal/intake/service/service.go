// Package service runs the intake pipeline for one submission:
// validate, compose the document, dispatch it.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"intake/internal/intake"
	"intake/internal/intake/document"
	"intake/internal/intake/metrics"
	"intake/internal/locale"
	dErrors "intake/pkg/domain-errors"
	"intake/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/service-mocks.go -package=mocks Composer,Dispatcher

// Composer renders a validated submission.
type Composer interface {
	Compose(ctx context.Context, sub *intake.Submission, at time.Time) (*document.Artifact, error)
}

// Dispatcher delivers a rendered submission.
type Dispatcher interface {
	Send(ctx context.Context, sub *intake.Submission, art *document.Artifact, at time.Time) intake.Outcome
}

// Receipt describes a submission that was sent.
type Receipt struct {
	Reference   string
	SubmittedAt time.Time
	Outcome     intake.Outcome
}

// Service is the intake pipeline.
type Service struct {
	composer   Composer
	dispatcher Dispatcher
	catalog    locale.Catalog
	location   *time.Location
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records pipeline metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLocation sets the clinic time zone used for dates.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithTracer overrides the global otel tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New builds the pipeline.
func New(composer Composer, dispatcher Dispatcher, catalog locale.Catalog, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		composer:   composer,
		dispatcher: dispatcher,
		catalog:    catalog,
		location:   time.UTC,
		tracer:     otel.Tracer("intake/internal/intake/service"),
		logger:     logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit runs one submission through the pipeline. Stages never overlap:
// composition starts only after validation succeeds and dispatch only
// after the artifact is finalized. The request time from ctx is used for
// every date so the footer, subject and filename agree.
func (s *Service) Submit(ctx context.Context, raw intake.RawSubmission) (*Receipt, error) {
	at := requestcontext.Now(ctx).In(s.location)
	reference := uuid.NewString()
	requestID := requestcontext.RequestID(ctx)

	ctx, span := s.tracer.Start(ctx, "intake.submit", trace.WithAttributes(
		attribute.String("intake.reference", reference),
	))
	defer span.End()

	sub, err := s.validate(ctx, raw, at)
	if err != nil {
		s.metrics.IncrementSubmission(metrics.OutcomeInvalid)
		return nil, err
	}

	art, err := s.compose(ctx, sub, at)
	if err != nil {
		s.metrics.IncrementSubmission(metrics.OutcomeRenderFailed)
		fail(span, err)
		s.logger.ErrorContext(ctx, "intake document render failed",
			"request_id", requestID,
			"reference", reference,
			"error", err,
		)
		return nil, err
	}

	outcome := s.dispatch(ctx, sub, art, at)
	if err := outcome.Err(); err != nil {
		s.metrics.IncrementSubmission(metrics.OutcomeDispatchFailed)
		fail(span, err)
		return nil, err
	}

	s.metrics.IncrementSubmission(metrics.OutcomeSent)
	s.logger.InfoContext(ctx, "intake submitted",
		"request_id", requestID,
		"reference", reference,
	)
	return &Receipt{Reference: reference, SubmittedAt: at, Outcome: outcome}, nil
}

func (s *Service) validate(ctx context.Context, raw intake.RawSubmission, at time.Time) (*intake.Submission, error) {
	_, span := s.tracer.Start(ctx, "intake.validate")
	defer span.End()
	defer s.metrics.ObserveStage(metrics.StageValidate, time.Now())

	sub, err := intake.Validate(raw, at, s.catalog)
	if err != nil {
		var fields intake.ValidationErrors
		if errors.As(err, &fields) {
			span.SetAttributes(attribute.Int("intake.invalid_fields", len(fields)))
		}
		span.SetStatus(codes.Error, "invalid submission")
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid submission")
	}
	return sub, nil
}

func (s *Service) compose(ctx context.Context, sub *intake.Submission, at time.Time) (*document.Artifact, error) {
	ctx, span := s.tracer.Start(ctx, "intake.compose")
	defer span.End()
	defer s.metrics.ObserveStage(metrics.StageCompose, time.Now())

	art, err := s.composer.Compose(ctx, sub, at)
	if err != nil {
		fail(span, err)
		if !dErrors.HasCode(err, dErrors.CodeRender) {
			err = dErrors.Wrap(err, dErrors.CodeRender, "failed to render intake document")
		}
		return nil, err
	}
	span.SetAttributes(attribute.Int("intake.document_bytes", art.Size()))
	s.metrics.ObserveDocumentSize(art.Size())
	return art, nil
}

func (s *Service) dispatch(ctx context.Context, sub *intake.Submission, art *document.Artifact, at time.Time) intake.Outcome {
	ctx, span := s.tracer.Start(ctx, "intake.dispatch", trace.WithAttributes(
		attribute.Bool("intake.cc_patient", sub.HasEmail()),
	))
	defer span.End()
	defer s.metrics.ObserveStage(metrics.StageDispatch, time.Now())

	outcome := s.dispatcher.Send(ctx, sub, art, at)
	if err := outcome.Err(); err != nil {
		fail(span, err)
		if !dErrors.HasCode(err, dErrors.CodeDispatch) {
			outcome = intake.Failed(dErrors.Wrap(err, dErrors.CodeDispatch, "failed to send intake document"))
		}
	}
	return outcome
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
}
