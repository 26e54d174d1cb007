// Package handlers implements the gin handlers of the OncoTerm API: ad-hoc
// term resolution, batch enrichment, dictionary status, and run reports.
package handlers

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/OncoTerm/pkg/errors"
)

// errorBody is the uniform error response of the API.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an AppError code to its HTTP status and writes the
// uniform error body.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	c.AbortWithStatusJSON(status, errorBody{
		Code:    string(code),
		Message: errorMessage(err),
	})
}

// errorMessage returns the AppError message without the code prefix Error()
// prepends, or the raw error string for plain errors.
func errorMessage(err error) string {
	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		if ae.Detail != "" {
			return ae.Message + ": " + ae.Detail
		}
		return ae.Message
	}
	return err.Error()
}

//Personal.AI order the ending
