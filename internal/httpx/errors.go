package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MikeMC777/comandas/internal/apperr"
	"github.com/MikeMC777/comandas/internal/kitchen"
)

// WriteError maps err to a status and a JSON body. Internal details are
// logged, never returned.
func WriteError(c *gin.Context, log *zap.Logger, err error) {
	status := apperr.HTTPStatus(err)
	body := gin.H{"error": apperr.PublicMessage(err), "kind": apperr.KindOf(err).String()}
	if errors.Is(err, kitchen.ErrRenderFailed) {
		// the printer or broker is down; the items stay unprinted
		status = http.StatusBadGateway
		body = gin.H{"error": kitchen.ErrRenderFailed.Error(), "kind": "render_failed"}
	}
	if status >= 500 && log != nil {
		log.Error("request failed",
			zap.String("rid", c.GetString(requestIDKey)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(status, body)
}
