package apperrors

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/fixitnow/logger"
)

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *AppError `json:"error"`
}

// Respond writes err as JSON and aborts the handler chain. Internal errors
// are logged with their cause and rendered without it.
func Respond(c *gin.Context, err error) {
	appErr := From(err)
	status := appErr.HTTPStatus()

	if appErr.Code == CodeInternal {
		logger.ErrorLogger.Errorf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		appErr = &AppError{Code: CodeInternal, Message: ErrInternal.Message}
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Error: appErr})
}
