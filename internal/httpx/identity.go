package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MikeMC777/comandas/internal/actor"
	"github.com/MikeMC777/comandas/internal/employee"
)

const (
	HeaderEmployeeID  = "X-Employee-ID"
	HeaderEmployeePIN = "X-Employee-PIN"

	employeeKey = "employee_id"
	actorKey    = "actor"
)

// Identify resolves the calling employee from the identity headers and
// stores the actor on the context. Requests without valid credentials stop
// here with 401.
func Identify(dir employee.Directory, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderEmployeeID))
		pin := c.GetHeader(HeaderEmployeePIN)
		if id == "" || pin == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "employee credentials required"})
			return
		}
		e, err := dir.Verify(c.Request.Context(), id, pin)
		if errors.Is(err, employee.ErrInvalidCredentials) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid employee credentials"})
			return
		}
		if err != nil {
			WriteError(c, log, err)
			c.Abort()
			return
		}
		act, err := actor.New(e.ID, e.Name)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid employee credentials"})
			return
		}
		c.Set(employeeKey, act.EmployeeID)
		c.Set(actorKey, act)
		c.Next()
	}
}

// Actor returns the actor stored by Identify, or the zero Actor.
func Actor(c *gin.Context) actor.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(actor.Actor); ok {
			return a
		}
	}
	return actor.Actor{}
}
