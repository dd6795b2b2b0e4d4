// Package ginguard mounts the idempotency guard on gin routers.
package ginguard

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/DanielPopoola/idempotency-gateway/internal/core/domain"
	"github.com/DanielPopoola/idempotency-gateway/internal/interfaces/rest"
)

type Middleware struct {
	Guard  rest.Admitter
	Logger *slog.Logger
}

// Handle aborts with the JSON error envelope on conflict or fault and calls
// c.Next otherwise. Mount it on write routes only.
func (m Middleware) Handle(c *gin.Context) {
	err := rest.AdmitRequest(m.Guard, c.Request)
	if domain.OutcomeOf(err) == domain.OutcomeAllowed {
		c.Next()
		return
	}

	if m.Logger != nil {
		m.Logger.Debug("request rejected by idempotency guard",
			"path", c.FullPath(),
			"error", err,
		)
	}

	status, body := rest.BuildErrorResponse(err)
	c.AbortWithStatusJSON(status, body)
}
