package integration

import (
	"errors"
	"net/http"

	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/api"
	"github.com/batmanbrucewayne25/virtualnumbercc-sub002/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// List godoc
// @Summary      List own integration configs
// @Description  Secret-valued settings keys are masked in the response.
// @Tags         integrations
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.DataResponse
// @Router       /api/integrations [get]
func (h *Handler) List(c *gin.Context) {
	resellerID, ok := auth.GetAccountID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "Account not authenticated")
		return
	}

	configs, err := h.repo.List(c.Request.Context(), resellerID)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, "Failed to load integration configs")
		return
	}

	for i := range configs {
		configs[i].Settings = MaskSecrets(configs[i].Settings)
	}

	api.Data(c, http.StatusOK, configs)
}

// Get godoc
// @Summary      Get one integration config
// @Tags         integrations
// @Security     BearerAuth
// @Produce      json
// @Param        channel  path  string  true  "Channel"  Enums(smtp, whatsapp, razorpay)
// @Success      200  {object}  api.DataResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/integrations/{channel} [get]
func (h *Handler) Get(c *gin.Context) {
	resellerID, ok := auth.GetAccountID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "Account not authenticated")
		return
	}

	channel := c.Param("channel")
	if !ValidChannel(channel) {
		api.Error(c, http.StatusBadRequest, "Unknown integration channel")
		return
	}

	cfg, err := h.repo.Get(c.Request.Context(), resellerID, channel)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			api.Error(c, http.StatusNotFound, "Integration not configured")
			return
		}
		api.Error(c, http.StatusInternalServerError, "Failed to load integration config")
		return
	}

	cfg.Settings = MaskSecrets(cfg.Settings)
	api.Data(c, http.StatusOK, cfg)
}

// Upsert godoc
// @Summary      Create or replace an integration config
// @Tags         integrations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        channel  path  string         true  "Channel"  Enums(smtp, whatsapp, razorpay)
// @Param        request  body  UpsertRequest  true  "Channel settings"
// @Success      200  {object}  api.DataResponse
// @Failure      400  {object}  api.ErrorResponse
// @Router       /api/integrations/{channel} [put]
func (h *Handler) Upsert(c *gin.Context) {
	resellerID, ok := auth.GetAccountID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "Account not authenticated")
		return
	}

	channel := c.Param("channel")
	if !ValidChannel(channel) {
		api.Error(c, http.StatusBadRequest, "Unknown integration channel")
		return
	}

	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, "settings document is required")
		return
	}

	cfg, err := h.repo.Upsert(c.Request.Context(), resellerID, channel, req.Enabled, req.Settings)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, "Failed to save integration config")
		return
	}

	cfg.Settings = MaskSecrets(cfg.Settings)
	api.Data(c, http.StatusOK, cfg)
}
