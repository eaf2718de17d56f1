package handlers

import (
	"errors"
	"net/http"

	apperrors "github.com/NomadCrew/comment-board/errors"
	"github.com/NomadCrew/comment-board/types"
	"github.com/gin-gonic/gin"
)

// respondMutation writes a MutationResult with the status code of its variant.
func respondMutation(c *gin.Context, result types.MutationResult) {
	switch result.Status {
	case types.MutationCommitted:
		c.JSON(http.StatusCreated, result)
	case types.MutationInvalid:
		c.JSON(http.StatusBadRequest, result)
	default:
		c.JSON(http.StatusServiceUnavailable, result)
	}
}

// bindOrError binds form or JSON bodies depending on Content-Type.
func bindOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Failed to bind request", err.Error())).SetType(gin.ErrorTypeBind)
		return false
	}
	return true
}

// readError keeps an error that already carries an HTTP meaning and reports
// anything else as a storage failure.
func readError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.PersistenceFailed(err)
}
