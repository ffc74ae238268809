package validity

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/api"
	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Get godoc
// @Summary      Get own validity window
// @Tags         validity
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.DataResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/validity [get]
func (h *Handler) Get(c *gin.Context) {
	resellerID, ok := auth.GetAccountID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "Account not authenticated")
		return
	}

	v, err := h.service.Get(c.Request.Context(), resellerID)
	if err != nil {
		if errors.Is(err, ErrNoValidity) {
			api.Error(c, http.StatusNotFound, "No validity window yet; recharge the wallet to start one")
			return
		}
		api.Error(c, http.StatusInternalServerError, "Failed to load validity")
		return
	}

	api.Data(c, http.StatusOK, v)
}

// GetHistory godoc
// @Summary      List own validity history
// @Tags         validity
// @Security     BearerAuth
// @Produce      json
// @Param        limit  query  int  false  "Page size"  default(50)
// @Success      200  {object}  api.DataResponse
// @Router       /api/validity/history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	resellerID, ok := auth.GetAccountID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "Account not authenticated")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.service.GetHistory(c.Request.Context(), resellerID, limit)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, "Failed to load validity history")
		return
	}

	api.Data(c, http.StatusOK, entries)
}

// AdminReset godoc
// @Summary      Reset a reseller's validity window
// @Description  Starts a fresh window from now; remaining days never stack.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  int                true   "Reseller ID"
// @Param        request  body  AdminResetRequest  false  "Custom validity days (default 365)"
// @Success      200  {object}  api.DataResponse
// @Failure      400  {object}  api.ErrorResponse
// @Router       /api/admin/resellers/{id}/validity/reset [post]
func (h *Handler) AdminReset(c *gin.Context) {
	resellerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Error(c, http.StatusBadRequest, "invalid reseller id")
		return
	}

	var req AdminResetRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		api.Error(c, http.StatusBadRequest, "validity_days must be an integer")
		return
	}

	v, entry, err := h.service.AdminReset(c.Request.Context(), resellerID, req.ValidityDays)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, "Failed to reset validity")
		return
	}

	api.Data(c, http.StatusOK, gin.H{"validity": v, "history": entry})
}
