package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/sjperalta/feedesk-api/internal/middleware"
	"github.com/sjperalta/feedesk-api/internal/receipt"
	"github.com/sjperalta/feedesk-api/internal/repository"
	"github.com/sjperalta/feedesk-api/internal/services"
)

// errorStatus maps service and receipt errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, receipt.ErrMissingRequiredField),
		errors.Is(err, receipt.ErrInvalidArgument),
		errors.Is(err, receipt.ErrInvalidDate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidState), errors.Is(err, services.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, services.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrEmailDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": ...} with the mapped status. Server errors
// are attached to the request for logging and reported to Sentry.
func respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// actorFrom builds the audit actor of the current request.
func actorFrom(c *gin.Context) services.Actor {
	return services.Actor{
		ID:        middleware.GetUserID(c),
		Role:      middleware.GetUserRole(c),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// parseListQuery reads paging, sorting and filters shared by the fee history
// endpoints. Sort uses the "field-direction" form.
func parseListQuery(c *gin.Context) *repository.ListQuery {
	query := repository.NewListQuery()
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		query.Page = page
	}
	if perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "20")); err == nil && perPage > 0 {
		if perPage > 100 {
			perPage = 100
		}
		query.PerPage = perPage
	}

	for _, key := range []string{"status", "start_date", "end_date", "batch", "course"} {
		if v := c.Query(key); v != "" {
			query.Filters[key] = v
		}
	}
	if search := c.Query("search"); search != "" {
		query.Filters["search_term"] = search
	}
	if search := c.Query("search_term"); search != "" {
		query.Filters["search_term"] = search
	}

	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}
	return query
}

func pagination(query *repository.ListQuery, total int64) gin.H {
	return gin.H{
		"page":        query.Page,
		"per_page":    query.PerPage,
		"total":       total,
		"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
	}
}
