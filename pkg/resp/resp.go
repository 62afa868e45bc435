package resp

import (
	"errors"
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data})
}
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msg})
}
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": msg})
}
func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": msg})
}
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": msg})
}
func ServerError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
}

// Error maps the service error taxonomy onto HTTP. The active-order
// conflict carries the existing order's id so the client can offer
// "view existing order" instead of a dead end.
func Error(c *gin.Context, err error) {
	var (
		validation *services.ValidationError
		notFound   *services.NotFoundError
		conflict   *services.ConflictError
		transition *services.InvalidTransitionError
		state      *services.InvalidStateError
	)
	switch {
	case errors.As(err, &validation):
		BadRequest(c, validation.Msg)
	case errors.As(err, &notFound):
		NotFound(c, notFound.Error())
	case errors.As(err, &conflict):
		body := gin.H{"ok": false, "error": conflict.Msg}
		if conflict.ExistingOrderID != 0 {
			body["orderId"] = conflict.ExistingOrderID
		}
		c.JSON(http.StatusConflict, body)
	case errors.As(err, &transition):
		BadRequest(c, transition.Error())
	case errors.As(err, &state):
		BadRequest(c, state.Error())
	default:
		ServerError(c, err)
	}
}
