package apitest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"immo-client/internal/model"
	"immo-client/pkg/apierror"
)

const (
	activationTTL   = 24 * time.Hour
	defaultRole     = "particulier"
	defaultPageSize = 20
	maxPageSize     = 100
	maxUploadMemory = 32 << 20
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body", []string{"body must be JSON"})
		return
	}

	if err := req.Validate(); err != nil {
		var apiErr *apierror.APIError
		message := err.Error()
		if errors.As(err, &apiErr) {
			message = apiErr.Message
		}
		writeFailure(w, http.StatusBadRequest, "Validation failed", []string{message})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, "Unexpected server error", nil)
		return
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = defaultRole
	}

	profile := model.UserProfile{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Role:      role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}
	if profile.Name == "" {
		profile.Name = profile.DisplayName()
	}

	s.mu.Lock()
	key := strings.ToLower(profile.Email)
	if _, exists := s.users[key]; exists {
		s.mu.Unlock()
		writeFailure(w, http.StatusConflict, "An account already exists for this email", nil)
		return
	}
	s.users[key] = &fakeUser{profile: profile, hash: hash}
	s.issueActivationLocked(profile.Email, activationTTL)
	s.mu.Unlock()

	writeSuccess(w, http.StatusCreated, "Account created, check your inbox to activate it", model.RegisterData{User: profile})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeBody(r, &req); err != nil || req.Validate() != nil {
		writeFailure(w, http.StatusBadRequest, "Email and password are required", nil)
		return
	}

	s.mu.Lock()
	stored, ok := s.users[strings.ToLower(strings.TrimSpace(req.Email))]
	var user fakeUser
	if ok {
		user = *stored
	}
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(user.hash, []byte(req.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": "Invalid email or password",
			"error":   map[string]string{"code": "INVALID_CREDENTIALS", "message": "Invalid email or password"},
		})
		return
	}

	if !user.active {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"success": false,
			"message": "Account not activated",
			"error":   map[string]string{"errorCode": "ACCOUNT_NOT_ACTIVATED", "message": "Account not activated", "email": user.profile.Email},
		})
		return
	}

	refresh := uuid.NewString()
	s.mu.Lock()
	s.refresh[refresh] = user.profile.ID
	s.mu.Unlock()

	writeSuccess(w, http.StatusOK, "Login successful", model.LoginData{
		AccessToken:  s.issueAccessToken(&user),
		RefreshToken: refresh,
		User:         user.profile,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req model.RefreshRequest
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		writeFailure(w, http.StatusBadRequest, "Refresh token is required", nil)
		return
	}

	s.mu.Lock()
	userID, ok := s.refresh[req.RefreshToken]
	var user *fakeUser
	if ok {
		user, ok = s.userByID(userID)
	}
	s.mu.Unlock()

	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Refresh token is invalid", nil)
		return
	}

	writeJSON(w, http.StatusOK, model.RefreshResponse{Success: true, Token: s.issueAccessToken(user)})
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req model.VerifyEmailRequest
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.Token) == "" {
		writeVerificationError(w, http.StatusBadRequest, apierror.CodeInvalidToken, "Invalid verification link", "")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	act, ok := s.activations[req.Token]
	if !ok {
		writeVerificationError(w, http.StatusBadRequest, apierror.CodeInvalidToken, "Invalid verification link", "")
		return
	}

	user, exists := s.users[strings.ToLower(act.email)]
	if act.used || (exists && user.active) {
		writeVerificationError(w, http.StatusConflict, apierror.CodeAlreadyActivated, "This account is already activated", act.email)
		return
	}

	if !s.now().Before(act.expires) {
		writeVerificationError(w, http.StatusGone, apierror.CodeTokenExpired, "This verification link has expired", act.email)
		return
	}

	act.used = true
	if exists {
		user.active = true
	}

	writeSuccess(w, http.StatusOK, "Email verified, you can now log in", model.VerificationData{Email: act.email})
}

func (s *Server) handleResendActivation(w http.ResponseWriter, r *http.Request) {
	var req model.ResendActivationRequest
	if err := decodeBody(r, &req); err != nil || !model.IsEmail(req.Email) {
		writeFailure(w, http.StatusBadRequest, "A valid email is required", []string{"invalid email format"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[strings.ToLower(strings.TrimSpace(req.Email))]
	if !ok {
		writeFailure(w, http.StatusNotFound, "No account matches this email", nil)
		return
	}

	if user.active {
		writeVerificationError(w, http.StatusConflict, apierror.CodeAlreadyActivated, "This account is already activated", user.profile.Email)
		return
	}

	s.issueActivationLocked(user.profile.Email, activationTTL)
	writeSuccess(w, http.StatusOK, "A new activation email has been sent", model.VerificationData{Email: user.profile.Email})
}

func (s *Server) handleAddAnnonce(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeFailure(w, http.StatusBadRequest, "Expected a multipart form", nil)
		return
	}

	form := r.MultipartForm
	value := func(name string) string {
		if values := form.Value[name]; len(values) > 0 {
			return strings.TrimSpace(values[0])
		}
		return ""
	}

	annonce := model.Annonce{
		ID:          uuid.NewString(),
		Title:       value("title"),
		Description: value("description"),
		Statut:      value("statut"),
		Type:        value("type"),
		OwnerID:     userIDFrom(r.Context()),
		CreatedAt:   s.now().UTC(),
	}

	var problems []string
	if raw := value("surface"); raw != "" {
		surface, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			problems = append(problems, "surface must be a number")
		}
		annonce.Surface = surface
	}

	sections := []struct {
		name string
		out  any
	}{
		{"contact", &annonce.Contact},
		{"localisation", &annonce.Localisation},
		{"composition", &annonce.Composition},
		{"transaction", &annonce.Transaction},
		{"visibilite", &annonce.Visibilite},
	}
	for _, section := range sections {
		raw := value(section.name)
		if raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(raw), section.out); err != nil {
			problems = append(problems, fmt.Sprintf("%s must be valid JSON", section.name))
		}
	}

	for _, name := range []string{"equipementsInterieurs", "equipementsExterieurs"} {
		if raw := value(name); raw != "" {
			var list []string
			if err := json.Unmarshal([]byte(raw), &list); err != nil {
				problems = append(problems, fmt.Sprintf("%s must be a JSON array", name))
			}
		}
	}

	if annonce.Title == "" {
		problems = append(problems, "title is required")
	}
	if annonce.Type == "" {
		problems = append(problems, "type is required")
	}
	switch annonce.Transaction.TransactionType {
	case model.TransactionSale, model.TransactionRental:
	default:
		problems = append(problems, "transaction.transactionType must be sale or rental")
	}

	if len(problems) > 0 {
		writeFailure(w, http.StatusBadRequest, "Validation failed", problems)
		return
	}

	for _, header := range form.File["medias"] {
		annonce.Medias = append(annonce.Medias, path.Join("/uploads", annonce.ID, header.Filename))
	}

	s.mu.Lock()
	s.annonces = append(s.annonces, annonce)
	s.mu.Unlock()

	writeSuccess(w, http.StatusCreated, "Annonce published", annonce)
}

func (s *Server) handleListAnnonces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	city := strings.TrimSpace(q.Get("city"))
	kind := strings.TrimSpace(q.Get("type"))
	transaction := strings.TrimSpace(q.Get("transactionType"))

	page := positiveInt(q.Get("page"), 1)
	limit := positiveInt(q.Get("limit"), defaultPageSize)
	if limit > maxPageSize {
		limit = maxPageSize
	}

	s.mu.Lock()
	matched := make([]model.Annonce, 0, len(s.annonces))
	for _, a := range s.annonces {
		if city != "" && !strings.EqualFold(a.Localisation.City, city) {
			continue
		}
		if kind != "" && !strings.EqualFold(a.Type, kind) {
			continue
		}
		if transaction != "" && !strings.EqualFold(a.Transaction.TransactionType, transaction) {
			continue
		}
		matched = append(matched, a)
	}
	s.mu.Unlock()

	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	writeJSON(w, http.StatusOK, model.ListAnnoncesResponse{
		Success: true,
		Data:    matched[start:end],
		Meta: &model.Meta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	})
}

func positiveInt(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return fallback
	}

	return v
}
