package scaleapi

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/scalehub/internal/common"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

// Credentials is the body of the register request. Login uses the
// form-encoded token endpoint instead and has no JSON body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate applies the registration rules client-side so obviously bad
// input never reaches the wire.
func (c Credentials) Validate() error {
	email := strings.TrimSpace(c.Email)
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return fmt.Errorf("%w: email must look like name@host", common.ErrorValidation)
	}
	if len(c.Password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, MinPasswordLength)
	}
	return nil
}

// Token is the login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
