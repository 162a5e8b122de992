package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/formworks/formgate/internal/core/domain"
)

// Runner is the pipeline surface the handler needs; tests substitute a stub.
type Runner interface {
	Run(ctx context.Context, raw domain.RawSubmission) *domain.Result
}

// SubmitHandler decodes the request envelope, runs the pipeline, and writes
// the canonical response envelope.
type SubmitHandler struct {
	pipeline Runner
	logger   *slog.Logger
}

func NewSubmitHandler(pipeline Runner, logger *slog.Logger) *SubmitHandler {
	return &SubmitHandler{pipeline: pipeline, logger: logger}
}

// responseEnvelope is the single serialization shape for every outcome,
// success or rejection.
type responseEnvelope struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// HandleSubmit processes one form submission.
func (h *SubmitHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("read request body", slog.String("error", err.Error()))
		h.writeResult(w, r, domain.Reject(http.StatusInternalServerError, domain.KindMalformedRequest, "The request could not be read."))
		return
	}

	// An empty body is a valid envelope meaning "no form data"; the pipeline
	// produces the NoFormData rejection. Unparseable JSON is malformed.
	var raw domain.RawSubmission
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &raw); err != nil {
			AddLogField(r.Context(), "decode_error", err.Error())
			h.writeResult(w, r, domain.Reject(http.StatusInternalServerError, domain.KindMalformedRequest, "The request body could not be parsed."))
			return
		}
	}

	h.writeResult(w, r, h.pipeline.Run(r.Context(), raw))
}

// HandlePreflight answers CORS preflight requests for the submit endpoint.
func (h *SubmitHandler) HandlePreflight(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *SubmitHandler) writeResult(w http.ResponseWriter, r *http.Request, result *domain.Result) {
	envelope := responseEnvelope{
		Status:  "error",
		Message: result.Message,
		Details: result.Details,
	}
	if result.Accepted {
		envelope.Status = "success"
	} else {
		AddLogField(r.Context(), "rejection_kind", string(result.Kind))
	}

	w.WriteHeader(result.Status)
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		h.logger.Error("write response", slog.String("error", err.Error()))
	}
}

// setCORSHeaders applies the fixed response header contract for the public
// form endpoint.
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "OPTIONS,POST")
}
