package app

import (
	"context"
	"log/slog"

	"immo-client/internal/api"
	"immo-client/internal/listing"
	"immo-client/internal/model"
)

type tokenRefresher interface {
	RefreshToken(ctx context.Context) (string, error)
}

// refreshingSubmitter retries a listing once with a fresh access token when
// the API answers 401.
type refreshingSubmitter struct {
	next    listing.Submitter
	session tokenRefresher
	logger  *slog.Logger
}

func (s *refreshingSubmitter) AddAnnonce(ctx context.Context, req model.AnnonceRequest) (model.AddAnnonceResponse, error) {
	resp, err := s.next.AddAnnonce(ctx, req)
	if !api.IsUnauthorized(err) {
		return resp, err
	}

	if _, refreshErr := s.session.RefreshToken(ctx); refreshErr != nil {
		s.logger.Warn("listing rejected and token refresh failed", "error", refreshErr)
		return resp, err
	}

	s.logger.Info("access token refreshed, resending listing")
	return s.next.AddAnnonce(ctx, req)
}
