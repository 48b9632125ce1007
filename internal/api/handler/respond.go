package handler

import (
	"net/http"

	"go-approval/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP status codes in one
// place: NotFound->404, BadRequest->400, Forbidden->403, anything else->500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch service.KindOf(err) {
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindBadRequest:
		status = http.StatusBadRequest
	case service.KindForbidden:
		status = http.StatusForbidden
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
