package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/matzehuels/dayview/pkg/errors"
	"github.com/matzehuels/dayview/pkg/event"
	"github.com/matzehuels/dayview/pkg/pipeline"
	"github.com/matzehuels/dayview/pkg/view"
)

// LayoutRequest is the body of POST /v1/layout.
type LayoutRequest struct {
	pipeline.Options
	Events []event.Event `json:"events"`
}

// LayoutResponse is returned for the json format.
type LayoutResponse struct {
	Day    *view.Day `json:"day"`
	Cached bool      `json:"cached"`
}

var contentTypes = map[string]string{
	pipeline.FormatText: "text/plain; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatDOT:  "text/vnd.graphviz",
}

// handleLayout lays out the posted events. The format query parameter
// selects the response body: json (default) returns a LayoutResponse,
// every other format returns the rendered artifact.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	var req LayoutRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.writeError(w, r, status, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if len(req.Sources) > 0 {
		s.writeError(w, r, http.StatusBadRequest,
			errors.New(errors.ErrCodeInvalidInput, "sources are not accepted; send events inline"))
		return
	}
	if len(req.Events) > s.cfg.MaxEvents {
		s.writeError(w, r, http.StatusRequestEntityTooLarge,
			errors.New(errors.ErrCodeInvalidInput, "%d events exceed the limit of %d", len(req.Events), s.cfg.MaxEvents))
		return
	}

	opts := req.Options
	opts.Explain = opts.Explain || format == pipeline.FormatDOT
	opts.Formats = []string{format}
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))

	day, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), req.Events, opts)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	if format == pipeline.FormatJSON {
		writeJSON(w, http.StatusOK, LayoutResponse{Day: day, Cached: hit})
		return
	}
	data, err := pipeline.RenderFormat(r.Context(), day, format, opts)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, fmt.Errorf("render %s: %w", format, err))
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(data)
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	id := RequestID(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", id, "error", err)
	} else {
		s.logger.Debug("request rejected", "request_id", id, "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: id,
	})
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	if errors.IsValidation(err) {
		return http.StatusUnprocessableEntity
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidOptions, errors.ErrCodeInvalidPolicy,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidTimezone, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
