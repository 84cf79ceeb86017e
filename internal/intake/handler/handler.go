// Package handler exposes the intake pipeline over HTTP.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"intake/internal/intake"
	"intake/internal/intake/service"
	"intake/internal/locale"
	dErrors "intake/pkg/domain-errors"
	"intake/pkg/platform/httputil"
	"intake/pkg/requestcontext"
)

// Routes served by the handler. The legacy path keeps the existing
// form's endpoint working.
const (
	PathIntake = "/v1/intake"
	PathLegacy = "/.netlify/functions/send-pdf"
)

// DefaultMaxBodyBytes caps intake request bodies.
const DefaultMaxBodyBytes = 64 << 10

//go:generate mockgen -source=handler.go -destination=mocks/handler-mocks.go -package=mocks Pipeline

// Pipeline runs one submission end to end.
type Pipeline interface {
	Submit(ctx context.Context, raw intake.RawSubmission) (*service.Receipt, error)
}

// SubmitResponse is the success body.
type SubmitResponse struct {
	Message   string `json:"message"`
	Reference string `json:"reference"`
}

// ValidationResponse is the 400 body listing every failed field.
type ValidationResponse struct {
	Error  string                  `json:"error"`
	Errors intake.ValidationErrors `json:"errors"`
}

// Handler serves intake submissions.
type Handler struct {
	pipeline     Pipeline
	catalog      locale.Catalog
	logger       *slog.Logger
	maxBodyBytes int64
}

// New creates an intake handler. maxBodyBytes <= 0 uses DefaultMaxBodyBytes
// and a nil logger uses slog.Default.
func New(pipeline Pipeline, catalog locale.Catalog, logger *slog.Logger, maxBodyBytes int64) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		pipeline:     pipeline,
		catalog:      catalog,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}

// Register mounts the intake routes. Every method is routed here so that
// non-POST requests get the handler's 405 instead of the router default.
func (h *Handler) Register(r chi.Router) {
	r.HandleFunc(PathIntake, h.HandleSubmit)
	r.HandleFunc(PathLegacy, h.HandleSubmit)
}

// HandleSubmit validates, renders and dispatches one intake form.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		httputil.WriteError(w, dErrors.New(dErrors.CodeMethodNotAllowed, h.catalog.MethodNotAllowed))
		return
	}

	raw, err := httputil.DecodeJSON[intake.RawSubmission](w, r, h.maxBodyBytes)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to decode intake payload",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteGenericError(w, h.catalog.FailureMessage)
		return
	}

	receipt, err := h.pipeline.Submit(ctx, *raw)
	if err != nil {
		var fields intake.ValidationErrors
		if errors.As(err, &fields) {
			httputil.WriteJSON(w, http.StatusBadRequest, ValidationResponse{
				Error:  string(dErrors.CodeValidation),
				Errors: fields,
			})
			return
		}
		h.logger.ErrorContext(ctx, "intake submission failed",
			"request_id", requestID,
			"code", dErrors.CodeOf(err),
			"error", err,
		)
		httputil.WriteGenericError(w, h.catalog.FailureMessage)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, SubmitResponse{
		Message:   h.catalog.SuccessMessage,
		Reference: receipt.Reference,
	})
}
