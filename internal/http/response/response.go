package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/intervention-backend/internal/domain/aggregates"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope is the body of every non-2xx case API response.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondValidation rejects a request that could not be decoded or bound.
func RespondValidation(c *gin.Context, err error) {
	RespondError(c, http.StatusBadRequest, string(domainagg.CodeValidation), err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondCreated writes a 201. Replayed creates set replayHeader to "true".
func RespondCreated(c *gin.Context, payload any, replayHeader string, replayed bool) {
	if replayed && replayHeader != "" {
		c.Header(replayHeader, "true")
	}
	c.JSON(http.StatusCreated, payload)
}
