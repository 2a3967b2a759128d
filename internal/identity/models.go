package identity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Error codes the identity endpoint is known to return.
const (
	CodeEmailExists     = "EMAIL_EXISTS"
	CodeEmailNotFound   = "EMAIL_NOT_FOUND"
	CodeInvalidPassword = "INVALID_PASSWORD"
)

// Credentials is a successful authentication result from the endpoint.
type Credentials struct {
	IDToken   string
	Email     string
	UserID    string
	ExpiresIn time.Duration
}

// APIError is a structured error returned by the identity endpoint, carrying
// the endpoint's error code (e.g. EMAIL_NOT_FOUND).
type APIError struct {
	Code string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity endpoint error: %s", e.Code)
}

type authRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type authResponse struct {
	IDToken   string  `json:"idToken"`
	Email     string  `json:"email"`
	LocalID   string  `json:"localId"`
	ExpiresIn seconds `json:"expiresIn"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// seconds decodes the endpoint's expiresIn field, which arrives as either a
// JSON string ("3600") or a bare number.
type seconds time.Duration

func (s *seconds) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid expiresIn value %q", v)
		}
		*s = seconds(time.Duration(n * float64(time.Second)))
	case float64:
		*s = seconds(time.Duration(v * float64(time.Second)))
	default:
		return fmt.Errorf("invalid expiresIn type %T", raw)
	}

	return nil
}
