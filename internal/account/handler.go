package account

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/api"
	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/auth"

	"github.com/gin-gonic/gin"
)

const forgotPasswordMessage = "If an account with that email exists, a password reset link has been sent"

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register godoc
// @Summary      Register new reseller
// @Description  Creates a reseller account and returns access & refresh tokens.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "Reseller registration data"
// @Success      201      {object}  LoginResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	reseller, accessToken, refreshToken, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			api.Error(c, http.StatusConflict, "Email already registered")
			return
		}
		api.Error(c, http.StatusInternalServerError, "Failed to register account")
		return
	}

	c.JSON(http.StatusCreated, LoginResponse{
		Success:      true,
		Token:        accessToken,
		RefreshToken: refreshToken,
		User:         reseller,
	})
}

// Login godoc
// @Summary      Reseller login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  LoginResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	reseller, accessToken, refreshToken, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			api.Error(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		api.Error(c, http.StatusInternalServerError, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Success:      true,
		Token:        accessToken,
		RefreshToken: refreshToken,
		User:         reseller,
	})
}

// AdminLogin godoc
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  LoginResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /api/auth/admin/login [post]
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	admin, accessToken, refreshToken, err := h.service.AdminLogin(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			api.Error(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		api.Error(c, http.StatusInternalServerError, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Success:      true,
		Token:        accessToken,
		RefreshToken: refreshToken,
		Admin:        admin,
	})
}

// Verify godoc
// @Summary      Verify session
// @Description  Returns the account behind the presented access token.
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.DataResponse
// @Failure      401  {object}  api.ErrorResponse
// @Router       /api/auth/verify [get]
func (h *Handler) Verify(c *gin.Context) {
	accountID, ok := auth.GetAccountID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "Account not authenticated")
		return
	}
	role, _ := auth.GetAccountRole(c)

	// Token validity does not imply the account is still active.
	if role == auth.RoleAdmin {
		admin, err := h.service.GetAdmin(c.Request.Context(), accountID)
		if err != nil || admin.Status != StatusActive {
			api.Error(c, http.StatusForbidden, "Account is not active")
			return
		}
		api.Data(c, http.StatusOK, gin.H{"user": admin, "role": role})
		return
	}

	reseller, err := h.service.GetReseller(c.Request.Context(), accountID)
	if err != nil || reseller.Status != StatusActive {
		api.Error(c, http.StatusForbidden, "Account is not active")
		return
	}
	api.Data(c, http.StatusOK, gin.H{"user": reseller, "role": role})
}

// Refresh godoc
// @Summary      Refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      RefreshRequest  true  "Refresh token"
// @Success      200      {object}  RefreshResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /api/auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, "refreshToken is required")
		return
	}

	accessToken, refreshToken, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired),
			errors.Is(err, auth.ErrInvalidToken),
			errors.Is(err, auth.ErrInvalidTokenType),
			errors.Is(err, ErrAccountNotFound),
			errors.Is(err, ErrAccountInactive):
			api.Error(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		default:
			api.Error(c, http.StatusInternalServerError, "Failed to refresh token")
		}
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{
		Success:      true,
		Token:        accessToken,
		RefreshToken: refreshToken,
	})
}

// ForgotPassword godoc
// @Summary      Request password reset
// @Description  Always succeeds; never discloses whether the email exists.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      ForgotPasswordRequest  true  "Email"
// @Success      200      {object}  api.MessageResponse
// @Router       /api/auth/forgot-password [post]
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, "email is required")
		return
	}

	_ = h.service.ForgotPassword(c.Request.Context(), req.Email)

	api.Message(c, http.StatusOK, forgotPasswordMessage)
}

// ResetPassword godoc
// @Summary      Reset password with a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      ResetPasswordRequest  true  "Reset token and new password"
// @Success      200      {object}  api.MessageResponse
// @Failure      400      {object}  api.ErrorResponse
// @Router       /api/auth/reset-password [post]
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, "token and a password of at least 6 characters are required")
		return
	}

	err := h.service.ResetPassword(c.Request.Context(), req.Token, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired),
			errors.Is(err, auth.ErrInvalidToken),
			errors.Is(err, auth.ErrInvalidTokenType):
			api.Error(c, http.StatusBadRequest, "Invalid or expired reset token")
		case errors.Is(err, ErrAccountNotFound):
			api.Error(c, http.StatusBadRequest, "Account no longer exists")
		default:
			api.Error(c, http.StatusInternalServerError, "Failed to reset password")
		}
		return
	}

	api.Message(c, http.StatusOK, "Password has been reset")
}

// ChangePassword godoc
// @Summary      Change password
// @Tags         auth
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      ChangePasswordRequest  true  "Current and new password"
// @Success      200      {object}  api.MessageResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /api/auth/change-password [post]
func (h *Handler) ChangePassword(c *gin.Context) {
	accountID, ok := auth.GetAccountID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "Account not authenticated")
		return
	}
	role, _ := auth.GetAccountRole(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, "currentPassword and a newPassword of at least 6 characters are required")
		return
	}

	err := h.service.ChangePassword(c.Request.Context(), role, accountID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, ErrSamePassword):
			api.Error(c, http.StatusBadRequest, "New password must differ from current password")
		case errors.Is(err, ErrInvalidCredentials):
			api.Error(c, http.StatusBadRequest, "Current password is incorrect")
		default:
			api.Error(c, http.StatusInternalServerError, "Failed to change password")
		}
		return
	}

	api.Message(c, http.StatusOK, "Password has been changed")
}

// GetProfile godoc
// @Summary      Get reseller profile
// @Tags         profile
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.DataResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	accountID, ok := auth.GetAccountID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "Account not authenticated")
		return
	}

	reseller, err := h.service.GetReseller(c.Request.Context(), accountID)
	if err != nil {
		api.Error(c, http.StatusNotFound, "Account not found")
		return
	}

	api.Data(c, http.StatusOK, reseller)
}

// UpdateProfile godoc
// @Summary      Update reseller profile
// @Tags         profile
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      UpdateProfileRequest  true  "Profile fields"
// @Success      200      {object}  api.DataResponse
// @Router       /api/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	accountID, ok := auth.GetAccountID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "Account not authenticated")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	reseller, err := h.service.UpdateProfile(c.Request.Context(), accountID, req)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	api.Data(c, http.StatusOK, reseller)
}

// AdvanceOnboarding godoc
// @Summary      Advance the onboarding step counter
// @Tags         profile
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      OnboardingRequest  true  "Step"
// @Success      200      {object}  api.MessageResponse
// @Router       /api/profile/onboarding [post]
func (h *Handler) AdvanceOnboarding(c *gin.Context) {
	accountID, ok := auth.GetAccountID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "Account not authenticated")
		return
	}

	var req OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, "step must be a positive integer")
		return
	}

	if err := h.service.AdvanceOnboarding(c.Request.Context(), accountID, req.Step); err != nil {
		api.Error(c, http.StatusInternalServerError, "Failed to update onboarding step")
		return
	}

	api.Message(c, http.StatusOK, "Onboarding step updated")
}

// SetVerification godoc
// @Summary      Set a reseller KYC verification flag
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                  true  "Reseller ID"
// @Param        request  body      VerificationRequest  true  "Flag and value"
// @Success      200      {object}  api.MessageResponse
// @Failure      400      {object}  api.ErrorResponse
// @Router       /api/admin/resellers/{id}/verify [post]
func (h *Handler) SetVerification(c *gin.Context) {
	resellerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Error(c, http.StatusBadRequest, "invalid reseller id")
		return
	}

	var req VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, "field must be one of email, phone, pan, aadhaar, gst")
		return
	}

	if err := h.service.SetVerificationFlag(c.Request.Context(), resellerID, req.Field, req.Value); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			api.Error(c, http.StatusNotFound, "Reseller not found")
			return
		}
		api.Error(c, http.StatusInternalServerError, "Failed to update verification flag")
		return
	}

	api.Message(c, http.StatusOK, "Verification flag updated")
}
