package employee

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Employee struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PINHash   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func HashPIN(pin string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPIN(hash, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
