package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"incubator/pkg/apperr"
)

type APIResponse struct {
	Success    bool            `json:"success"`
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       any             `json:"data,omitempty"`
	Errors     []apperr.Detail `json:"errors,omitempty"`
	CreatedAt  time.Time       `json:"created_at,omitempty"`
}

func SendAPIResponse(c *gin.Context, code int, success bool, message string, data any) {
	resp := APIResponse{
		Success:    success,
		StatusCode: code,
		Message:    message,
		Data:       data,
		CreatedAt:  time.Now(),
	}

	c.JSON(code, resp)
}

// SendError renders err in the failure envelope. Errors outside the apperr
// taxonomy are logged and reported as a generic 500.
func SendError(c *gin.Context, err error) {
	e := apperr.From(err)
	if e.StatusCode >= http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("internal error")
	}

	errs := e.Errors
	if len(errs) == 0 {
		errs = []apperr.Detail{{Message: e.Error()}}
	}

	c.AbortWithStatusJSON(e.StatusCode, APIResponse{
		Success:    false,
		StatusCode: e.StatusCode,
		Message:    e.Error(),
		Errors:     errs,
		CreatedAt:  time.Now(),
	})
}
