// Package actor carries the identity of the employee performing a request.
// Handlers resolve it once and pass it explicitly into every service call.
package actor

import (
	"strings"

	"github.com/google/uuid"

	"github.com/MikeMC777/comandas/internal/apperr"
)

type Actor struct {
	EmployeeID string
	Name       string
}

func New(employeeID, name string) (Actor, error) {
	id := strings.TrimSpace(employeeID)
	if _, err := uuid.Parse(id); err != nil {
		return Actor{}, apperr.Validation("employee id must be a uuid")
	}
	return Actor{EmployeeID: id, Name: name}, nil
}

func (a Actor) Valid() bool { return a.EmployeeID != "" }
