package utils

import (
	"crypto/rand"
	"encoding/json"
	"math/big"
	"net/http"
	"regexp"
	"time"
)

// ErrorPayload is the wire shape of every failed request, shared by the
// handlers and the auth middleware so 401s cannot drift from it.
type ErrorPayload struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteJSONError writes a bare {message} error body with the given status.
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorPayload{Message: message})
}

const inviteCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// GenerateInviteCode returns a random uppercase alphanumeric code of the
// given length, suitable for sharing out of band.
func GenerateInviteCode(length int) string {
	code := make([]byte, length)
	max := big.NewInt(int64(len(inviteCodeCharset)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken.
			panic(err)
		}
		code[i] = inviteCodeCharset[n.Int64()]
	}
	return string(code)
}

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidDate reports whether value is a calendar date in YYYY-MM-DD form.
func IsValidDate(value string) bool {
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}
