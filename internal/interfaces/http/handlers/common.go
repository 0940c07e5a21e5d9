// Package handlers implements the HTTP endpoints of the molscope API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/praxisip/molscope/pkg/errors"
	"github.com/praxisip/molscope/pkg/types/common"
	patenttypes "github.com/praxisip/molscope/pkg/types/patent"
)

// writeError maps a pipeline error onto the error envelope. Internal
// details are masked; the code and its standard message are enough for
// the caller.
func writeError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	status := apperrors.HTTPStatusForCode(code)

	message := apperrors.DefaultMessageForCode(code)
	if appErr, ok := err.(*apperrors.AppError); ok && !apperrors.IsServerError(code) {
		message = appErr.Message
	}

	c.AbortWithStatusJSON(status, patenttypes.ErrorResponse{
		Status:    "error",
		Error:     string(code),
		Message:   message,
		Timestamp: common.NewTimestamp(),
	})
}

func writeOK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}
