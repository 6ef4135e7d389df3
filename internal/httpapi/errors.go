package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tyler180/fantasy-roster-values/internal/directory"
	"github.com/tyler180/fantasy-roster-values/internal/logging"
	"github.com/tyler180/fantasy-roster-values/internal/players"
	"github.com/tyler180/fantasy-roster-values/internal/roster"
	"github.com/tyler180/fantasy-roster-values/internal/upstream"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error     string          `json:"error"`
	Details   json.RawMessage `json:"details,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// statusOf maps service errors to a status, message and optional details.
// Upstream rejections keep the upstream status and payload.
func statusOf(err error) (int, string, json.RawMessage) {
	if ue, ok := upstream.AsError(err); ok {
		status := ue.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		return status, ue.Provider + " request failed", ue.Payload
	}

	var nf *roster.NotFoundError
	var ie *roster.InvalidInputError
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound, nf.Error(), nil
	case errors.As(err, &ie):
		return http.StatusBadRequest, ie.Error(), nil
	case errors.Is(err, players.ErrInvalidRuleset):
		return http.StatusBadRequest, err.Error(), nil
	case errors.Is(err, directory.ErrUnavailable):
		return http.StatusServiceUnavailable, "player directory unavailable", nil
	}
	return http.StatusInternalServerError, "internal server error", nil
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, msg, details := statusOf(err)
	if status >= 500 {
		logging.FromContext(c.Request.Context(), h.logger).Error("request error", "status", status, "error", err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     msg,
		Details:   details,
		RequestID: c.GetString(requestIDKey),
	})
}

func (h *Handler) badRequest(c *gin.Context, msg string) {
	h.fail(c, &roster.InvalidInputError{Msg: msg})
}
