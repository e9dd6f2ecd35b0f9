package model

import (
	"net/mail"
	"strings"

	"immo-client/pkg/apierror"
)

const minPasswordLength = 6

type UserProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// DisplayName falls back to first and last name when the API sends no name.
func (u UserProfile) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}

	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return apierror.New("BAD_REQUEST", "email and password are required", "", 400)
	}

	return nil
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return apierror.New("BAD_REQUEST", "email is required", "email", 400)
	}
	if !IsEmail(r.Email) {
		return apierror.New("BAD_REQUEST", "invalid email format", "email", 400)
	}
	if len(r.Password) < minPasswordLength {
		return apierror.New("BAD_REQUEST", "password must be at least 6 characters", "password", 400)
	}

	return nil
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type VerifyEmailRequest struct {
	Token string `json:"token"`
}

type ResendActivationRequest struct {
	Email string `json:"email"`
}

// IsEmail reports whether value is a bare address such as a@b.com.
func IsEmail(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || strings.ContainsAny(value, " <>") {
		return false
	}

	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}

	at := strings.LastIndex(value, "@")
	return at > 0 && strings.Contains(value[at+1:], ".")
}
