package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/intervention-backend/internal/http/response"
	"github.com/yungbote/intervention-backend/internal/platform/ctxutil"
)

const (
	HeaderActorID          = "X-Actor-Id"
	HeaderIdempotentReplay = "Idempotent-Replay"
)

var errInvalidActor = errors.New("X-Actor-Id must be a positive integer")

// AttachActor reads the operator id set by the upstream gateway. Requests
// without one run as fallback.
func AttachActor(fallback uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := fallback
		if raw := strings.TrimSpace(c.GetHeader(HeaderActorID)); raw != "" {
			v, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || v == 0 {
				response.RespondValidation(c, errInvalidActor)
				return
			}
			id = uint(v)
		}
		ctx := ctxutil.WithActor(c.Request.Context(), &ctxutil.Actor{UserID: id})
		c.Request = c.Request.WithContext(ctx)
		c.Set("actor_id", id)
		c.Next()
	}
}
