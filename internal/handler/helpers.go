package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"doctree/internal/domain"
	"doctree/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Anything that does not
// carry its own status is logged and reported as a 500 without detail.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var invalidOp *domain.InvalidOperationError
	if errors.As(err, &invalidOp) {
		httputil.RespondErrorWithExtras(w, invalidOp.StatusCode(), invalidOp.Error(), map[string]any{
			"reason": string(invalidOp.Reason),
		})
		return
	}

	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		httputil.RespondErrorWithExtras(w, notFound.StatusCode(), notFound.Error(), map[string]any{
			"node_id": notFound.NodeID,
		})
		return
	}

	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode() < http.StatusInternalServerError {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	if errors.Is(err, httputil.ErrBodyTooLarge) {
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}

	logger.Error("request failed",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", httputil.GetRequestID(r.Context()),
	)
	httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
}

// parseBody decodes a JSON body, answering 400/413 itself on failure
func parseBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		if errors.Is(err, httputil.ErrBodyTooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
			return false
		}
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
