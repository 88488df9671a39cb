package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/om_console/internal/resource"
	"github.com/GTDGit/om_console/internal/utils"
	"github.com/GTDGit/om_console/pkg/shopapi"
)

var sentinelStatus = []struct {
	err    error
	status int
}{
	{utils.ErrLoginRequired, http.StatusUnauthorized},
	{utils.ErrUnknownPage, http.StatusNotFound},
	{utils.ErrRecordNotFound, http.StatusNotFound},
	{utils.ErrViewNotMounted, http.StatusConflict},
	{utils.ErrSubmitInFlight, http.StatusConflict},
	{utils.ErrNoDeleteTarget, http.StatusConflict},
	{utils.ErrModalClosed, http.StatusConflict},
	{utils.ErrStaleResult, http.StatusConflict},
	{utils.ErrUnknownSortKey, http.StatusBadRequest},
	{utils.ErrUnknownMetric, http.StatusBadRequest},
	{utils.ErrUnsupportedMode, http.StatusMethodNotAllowed},
}

// respondError maps console and shop API errors onto the response envelope.
func respondError(c *gin.Context, err error) {
	var fields resource.FieldErrors
	if errors.As(err, &fields) {
		msg := fields[""]
		if msg == "" {
			msg = "Please correct the highlighted fields"
		}
		utils.FieldError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", msg, fields)
		return
	}

	// A revoked token tears the page down, so its refresh also reports stale.
	if shopapi.IsUnauthorized(err) {
		utils.Error(c, http.StatusUnauthorized, "SESSION_EXPIRED", "Your session has ended, please sign in again")
		return
	}

	for _, s := range sentinelStatus {
		if errors.Is(err, s.err) {
			utils.Error(c, s.status, s.err.Error(), err.Error())
			return
		}
	}

	var apiErr *shopapi.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case shopapi.KindUnauthorized:
			utils.Error(c, http.StatusUnauthorized, "SESSION_EXPIRED", "Your session has ended, please sign in again")
		case shopapi.KindValidation:
			utils.FieldError(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", apiErr.Message, resource.FromAPIError(apiErr))
		case shopapi.KindNotFound:
			utils.Error(c, http.StatusNotFound, "NOT_FOUND", apiErr.Message)
		case shopapi.KindNetwork:
			utils.Error(c, http.StatusBadGateway, "SHOP_UNREACHABLE", apiErr.Message)
		default:
			utils.Error(c, http.StatusBadGateway, "SHOP_ERROR", apiErr.Message)
		}
		return
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		utils.Error(c, http.StatusServiceUnavailable, "REQUEST_ABORTED", "Request was cancelled")
		return
	}

	log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("Unhandled console error")
	utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
}
