package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Kalpesh-Product/wono-ticketing/internal/api/dto"
	"github.com/Kalpesh-Product/wono-ticketing/internal/auth"
	"github.com/Kalpesh-Product/wono-ticketing/internal/config"
	"github.com/Kalpesh-Product/wono-ticketing/internal/domain"
	apperrors "github.com/Kalpesh-Product/wono-ticketing/pkg/util/errorutil"
)

// AuthHandler issues actor tokens to the identity bridge. Real user identity
// lives in an external system; this endpoint lets it mint scoped JWTs for
// callers it has already authenticated.
type AuthHandler struct {
	tokens *auth.TokenManager
	cfg    config.AuthConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(tokens *auth.TokenManager, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{tokens: tokens, cfg: cfg}
}

// Token POST /auth/token.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ActorID == "" || req.DepartmentID == "" {
		return apperrors.NewValidationError("actor_id and department_id required", nil)
	}
	role := domain.Role(req.Role)
	if !role.IsValid() {
		return apperrors.NewValidationError("unknown role", map[string]any{"role": req.Role})
	}

	if h.cfg.ServiceKeyHash == "" {
		return apperrors.NewForbidden("token issuing disabled")
	}
	if err := auth.VerifyServiceKey(h.cfg.ServiceKeyHash, req.ServiceKey); err != nil {
		return apperrors.NewUnauthorized("invalid service key")
	}

	token, expiresAt, err := h.tokens.GenerateToken(domain.Actor{
		ID:           req.ActorID,
		DepartmentID: req.DepartmentID,
		Role:         role,
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.TokenResponse{Token: token, ExpiresAt: expiresAt}})
}
