package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/falahatiali/MoneyMentor/internal/domain"
	"github.com/falahatiali/MoneyMentor/internal/service"
	apperrors "github.com/falahatiali/MoneyMentor/pkg/errors"
	"github.com/falahatiali/MoneyMentor/pkg/httputil"
	"github.com/falahatiali/MoneyMentor/pkg/middleware"
	"github.com/falahatiali/MoneyMentor/pkg/validator"
)

const (
	maxBodyBytes = 1 << 20
	dateLayout   = "2006-01-02"
)

// AuthService is the session lifecycle the handlers expose.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) service.Result[service.AuthResponse]
	Authenticate(ctx context.Context, in service.LoginInput) service.Result[service.AuthResponse]
	Refresh(ctx context.Context, refreshToken string) service.Result[domain.TokenPair]
	Logout(ctx context.Context, userID int64) service.Result[service.Empty]
	ForgotPassword(ctx context.Context, email string) service.Result[service.Empty]
	ResetPassword(ctx context.Context, token, newPassword string) service.Result[service.Empty]
	VerifyEmail(ctx context.Context, token string) service.Result[domain.UserView]
	ResendVerification(ctx context.Context, email string) service.Result[service.Empty]
	ChangePassword(ctx context.Context, userID int64, current, next string) service.Result[service.Empty]
	Me(ctx context.Context, userID int64) service.Result[domain.UserView]
}

// AuthHandler handles HTTP requests for auth endpoints.
type AuthHandler struct {
	service AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// RegisterRequest is the JSON request body for user registration.
type RegisterRequest struct {
	Username              string `json:"username" validate:"required,min=3,max=50"`
	Email                 string `json:"email" validate:"required,email"`
	Password              string `json:"password" validate:"required,min=6,max=72"`
	FirstName             string `json:"first_name" validate:"max=100"`
	LastName              string `json:"last_name" validate:"max=100"`
	Phone                 string `json:"phone" validate:"max=20"`
	Mobile                string `json:"mobile" validate:"max=20"`
	DateOfBirth           string `json:"date_of_birth"`
	Gender                string `json:"gender"`
	Country               string `json:"country" validate:"max=100"`
	Language              string `json:"language" validate:"max=10"`
	Timezone              string `json:"timezone" validate:"max=50"`
	Currency              string `json:"currency" validate:"max=3"`
	TermsAccepted         bool   `json:"terms_accepted"`
	PrivacyPolicyAccepted bool   `json:"privacy_policy_accepted"`
	MarketingConsent      bool   `json:"marketing_consent"`
}

// LoginRequest is the JSON request body for login. Identifier is a username
// or an email address. Password length is not checked here: any password
// register accepted must reach the hash comparison.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required,max=72"`
	RememberMe bool   `json:"remember_me"`
	DeviceInfo string `json:"device_info"`
	IPAddress  string `json:"ip_address" validate:"omitempty,ip"`
}

// RefreshTokenRequest is the JSON request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// EmailRequest is the JSON request body for forgot-password and
// resend-verification.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the JSON request body for password reset.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// VerifyEmailRequest is the JSON request body for email verification.
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// ChangePasswordRequest is the JSON request body for a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// --- Public handlers ---

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	input, err := req.toInput()
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	res := h.service.Register(r.Context(), input)
	writeResult(w, res, http.StatusCreated, http.StatusBadRequest)
}

func (req RegisterRequest) toInput() (service.RegisterInput, error) {
	in := service.RegisterInput{
		Username:              req.Username,
		Email:                 req.Email,
		Password:              req.Password,
		FirstName:             strings.TrimSpace(req.FirstName),
		LastName:              strings.TrimSpace(req.LastName),
		Phone:                 strings.TrimSpace(req.Phone),
		Mobile:                req.Mobile,
		Country:               strings.TrimSpace(req.Country),
		Language:              req.Language,
		Timezone:              req.Timezone,
		Currency:              req.Currency,
		TermsAccepted:         req.TermsAccepted,
		PrivacyPolicyAccepted: req.PrivacyPolicyAccepted,
		MarketingConsent:      req.MarketingConsent,
	}

	if req.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, req.DateOfBirth)
		if err != nil {
			return in, apperrors.InvalidInput("date_of_birth must be a date in YYYY-MM-DD format")
		}
		in.DateOfBirth = &dob
	}

	if req.Gender != "" {
		g, ok := domain.ParseGender(req.Gender)
		if !ok {
			return in, apperrors.InvalidInput("gender must be one of: MALE, FEMALE, OTHER, PREFER_NOT_TO_SAY")
		}
		in.Gender = g
	}
	return in, nil
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}

	ip := req.IPAddress
	if ip == "" {
		ip = middleware.ClientIP(r)
	}

	res := h.service.Authenticate(r.Context(), service.LoginInput{
		Identifier: strings.TrimSpace(req.Identifier),
		Password:   req.Password,
		IP:         ip,
	})
	writeResult(w, res, http.StatusOK, http.StatusUnauthorized)
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decode(w, r, &req) {
		return
	}

	res := h.service.Refresh(r.Context(), req.RefreshToken)
	writeResult(w, res, http.StatusOK, http.StatusUnauthorized)
}

// ForgotPassword handles POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if !decode(w, r, &req) {
		return
	}

	res := h.service.ForgotPassword(r.Context(), req.Email)
	writeResult(w, res, http.StatusOK, http.StatusBadRequest)
}

// ResetPassword handles POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	res := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword)
	writeResult(w, res, http.StatusOK, http.StatusBadRequest)
}

// VerifyEmail handles POST /api/auth/verify-email
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req VerifyEmailRequest
	if !decode(w, r, &req) {
		return
	}

	res := h.service.VerifyEmail(r.Context(), req.Token)
	writeResult(w, res, http.StatusOK, http.StatusBadRequest)
}

// ResendVerification handles POST /api/auth/resend-verification
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if !decode(w, r, &req) {
		return
	}

	res := h.service.ResendVerification(r.Context(), req.Email)
	writeResult(w, res, http.StatusOK, http.StatusBadRequest)
}

// --- Authenticated handlers ---

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	res := h.service.Logout(r.Context(), p.UserID)
	writeResult(w, res, http.StatusOK, http.StatusBadRequest)
}

// ChangePassword handles POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !decode(w, r, &req) {
		return
	}

	res := h.service.ChangePassword(r.Context(), p.UserID, req.CurrentPassword, req.NewPassword)
	writeResult(w, res, http.StatusOK, http.StatusBadRequest)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	res := h.service.Me(r.Context(), p.UserID)
	writeResult(w, res, http.StatusOK, http.StatusNotFound)
}

func (h *AuthHandler) principal(w http.ResponseWriter, r *http.Request) (*middleware.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.Unauthorized("Authentication required"), h.logger)
		return nil, false
	}
	return p, true
}

// --- Helpers ---

// decode reads and validates a JSON body, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := validator.DecodeAndValidate(r, dst); err != nil {
		httputil.WriteValidationError(w, r, err)
		return false
	}
	return true
}

// writeResult renders an operation result. Failures use the endpoint's
// failure status unless a collaborator was unavailable or the error was
// unexpected.
func writeResult[T any](w http.ResponseWriter, res service.Result[T], okStatus, failStatus int) {
	status := okStatus
	if !res.Success {
		status = failureStatus(res.Err(), failStatus)
	}
	httputil.WriteJSON(w, status, res)
}

func failureStatus(err error, fallback int) int {
	switch {
	case errors.Is(err, apperrors.ErrServiceUnavail):
		return http.StatusServiceUnavailable
	case apperrors.Code(err) == "INTERNAL_ERROR":
		return http.StatusInternalServerError
	default:
		return fallback
	}
}
