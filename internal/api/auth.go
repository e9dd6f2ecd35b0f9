package api

import (
	"context"
	"net/http"
	"strings"

	"immo-client/internal/model"
	"immo-client/pkg/apierror"
)

func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (model.RegisterResponse, error) {
	if err := req.Validate(); err != nil {
		return model.RegisterResponse{}, err
	}

	var resp model.RegisterResponse
	if err := c.postJSON(ctx, PathRegister, req, &resp); err != nil {
		return model.RegisterResponse{}, err
	}

	return resp, nil
}

func (c *Client) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return model.LoginResponse{}, err
	}

	var resp model.LoginResponse
	if err := c.postJSON(ctx, PathLogin, req, &resp); err != nil {
		return model.LoginResponse{}, err
	}

	if strings.TrimSpace(resp.Data.AccessToken) == "" {
		return model.LoginResponse{}, apierror.New("INVALID_RESPONSE", "", "login response carries no access token", http.StatusBadGateway)
	}
	if resp.Data.User.ID == "" && resp.Data.User.Email == "" {
		return model.LoginResponse{}, apierror.New("INVALID_RESPONSE", "", "login response carries no user", http.StatusBadGateway)
	}

	return resp, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (model.RefreshResponse, error) {
	var resp model.RefreshResponse
	if err := c.postJSON(ctx, PathRefresh, model.RefreshRequest{RefreshToken: refreshToken}, &resp); err != nil {
		return model.RefreshResponse{}, err
	}

	if strings.TrimSpace(resp.Token) == "" {
		return model.RefreshResponse{}, apierror.New("INVALID_RESPONSE", "", "refresh response carries no token", http.StatusBadGateway)
	}

	return resp, nil
}

func (c *Client) VerifyEmail(ctx context.Context, token string) (model.VerificationResponse, error) {
	var resp model.VerificationResponse
	if err := c.postJSON(ctx, PathVerifyEmail, model.VerifyEmailRequest{Token: token}, &resp); err != nil {
		return model.VerificationResponse{}, err
	}

	return resp, nil
}

func (c *Client) ResendActivation(ctx context.Context, email string) (model.VerificationResponse, error) {
	var resp model.VerificationResponse
	if err := c.postJSON(ctx, PathResendActivation, model.ResendActivationRequest{Email: email}, &resp); err != nil {
		return model.VerificationResponse{}, err
	}

	return resp, nil
}
