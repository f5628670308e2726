package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/outliers/druknation/internal/config"
	"github.com/outliers/druknation/internal/schemas"
)

// TokenRequest represents the request body for POST /auth/token
type TokenRequest struct {
	Password string `json:"password" validate:"required,max=72"`
}

// TokenResponse represents the response for POST /auth/token
type TokenResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}

// AuthHandler issues operator tokens.
type AuthHandler struct {
	jwtService *JWTService
	password   *config.PasswordConfig
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAuthHandler creates a new AuthHandler. Token issuance is disabled when
// jwtService or password is nil or no operator hash is configured.
func NewAuthHandler(jwtService *JWTService, password *config.PasswordConfig, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		jwtService: jwtService,
		password:   password,
		validator:  validator.New(),
		logger:     logger,
	}
}

// Enabled reports whether tokens can be issued.
func (h *AuthHandler) Enabled() bool {
	return h.jwtService != nil && h.password != nil && h.password.Hash != ""
}

// IssueToken exchanges the operator password for a bearer token.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	if !h.Enabled() {
		err := &ErrFeatureDisabled{Feature: "operator authentication"}
		writeError(w, h.logger, HTTPStatus(err), "Token issuance unavailable", err.Error())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	req, err := h.decode(body)
	if err != nil {
		writeError(w, h.logger, HTTPStatus(err), "Invalid request body", err.Error())
		return
	}

	if !h.password.VerifyOperator(req.Password) {
		err := &ErrInvalidCredentials{}
		h.logger.Warn("operator token rejected", zap.String("remote", r.RemoteAddr))
		writeError(w, h.logger, HTTPStatus(err), "Unauthorized", err.Error())
		return
	}

	token, err := h.jwtService.GenerateToken(RoleOperator)
	if err != nil {
		h.logger.Error("failed to generate token", zap.Error(err))
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to generate token", "")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, TokenResponse{
		Success:   true,
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(h.jwtService.TTL().Seconds()),
	})
}

func (h *AuthHandler) decode(body []byte) (*TokenRequest, error) {
	if err := schemas.Validate(schemas.TokenRequest, body); err != nil {
		var schemaErr *schemas.ValidationError
		if errors.As(err, &schemaErr) {
			return nil, &ErrValidation{Field: strings.Join(schemaErr.Fields(), ", "), Message: "does not match schema"}
		}
		return nil, err
	}

	var req TokenRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &ErrValidation{Message: "malformed JSON"}
	}
	if err := h.validator.Struct(req); err != nil {
		return nil, &ErrValidation{Field: "password", Message: extractValidationErrors(err)}
	}
	return &req, nil
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		// Return first validation error for simplicity
		ve := validationErrors[0]
		return fmt.Sprintf("failed '%s'", ve.Tag())
	}
	return "invalid request"
}
