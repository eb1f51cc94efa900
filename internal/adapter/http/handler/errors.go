package handler

import (
	"context"
	"net/http"

	"github.com/okutransport/ride-coordinator/internal/domain/types"
	"github.com/okutransport/ride-coordinator/pkg/logger"
	wrap "github.com/okutransport/ride-coordinator/pkg/logger/wrapper"
)

const internalMessage = "the server encountered a problem and could not process your request"

// errorResponse writes {"error": {"kind": ..., "message": ...}}.
func errorResponse(w http.ResponseWriter, status int, kind string, message any) {
	env := envelope{"error": envelope{"kind": kind, "message": message}}

	// Fall back to an empty 500 when the body cannot be encoded.
	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// failedValidationResponse returns 422 UnprocessableEntity with the
// offending fields. Repeating the request unchanged fails the same way.
func failedValidationResponse(w http.ResponseWriter, fields map[string]string) {
	env := envelope{"error": envelope{
		"kind":    types.KindValidation,
		"message": "request failed validation",
		"fields":  fields,
	}}
	if err := writeJSON(w, http.StatusUnprocessableEntity, env, nil); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// badRequestResponse reports a body that could not be decoded.
func badRequestResponse(w http.ResponseWriter, message string) {
	errorResponse(w, http.StatusUnprocessableEntity, types.KindValidation, message)
}

func internalErrorResponse(w http.ResponseWriter) {
	errorResponse(w, http.StatusInternalServerError, types.KindInternal, internalMessage)
}

// serviceErrorResponse logs err and writes the response for its kind.
// Internal failures are logged as errors and hidden from the client.
func serviceErrorResponse(ctx context.Context, l logger.Logger, w http.ResponseWriter, msg string, err error) {
	status := GetCode(err)
	if status >= http.StatusInternalServerError {
		l.Error(wrap.ErrorCtx(ctx, err), msg, err)
	} else {
		l.Warn(wrap.ErrorCtx(ctx, err), msg, "error", err.Error())
	}

	if status == http.StatusInternalServerError {
		internalErrorResponse(w)
		return
	}
	errorResponse(w, status, types.Kind(err), err.Error())
}
