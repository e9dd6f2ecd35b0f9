package model

import "encoding/json"

type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type LoginResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    LoginData `json:"data"`
}

type LoginData struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         UserProfile `json:"user"`
}

type RegisterResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    RegisterData `json:"data"`
}

type RegisterData struct {
	User UserProfile `json:"user"`
}

type RefreshResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type VerificationResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    VerificationData `json:"data"`
}

type VerificationData struct {
	Email string `json:"email"`
}

type AddAnnonceResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Data    Annonce `json:"data"`
}

type ListAnnoncesResponse struct {
	Success bool      `json:"success"`
	Data    []Annonce `json:"data"`
	Meta    *Meta     `json:"meta,omitempty"`
}

// ErrorBody covers the error shapes the API emits: a top level message, an
// "error" object, and an "errors" field that is either a verification
// error object or a list of validation messages.
type ErrorBody struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   *ErrorDetail    `json:"error,omitempty"`
	Errors  json.RawMessage `json:"errors,omitempty"`
}

type ErrorDetail struct {
	Code      string `json:"code,omitempty"`
	ErrorCode string `json:"errorCode,omitempty"`
	Message   string `json:"message,omitempty"`
	Email     string `json:"email,omitempty"`
	Details   string `json:"details,omitempty"`
}
