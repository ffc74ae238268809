package wallet

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

// GetWallet godoc
// @Summary      Get own wallet
// @Tags         wallet
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.DataResponse
// @Failure      401  {object}  api.ErrorResponse
// @Router       /api/wallet [get]
func (h *Handler) GetWallet(c *gin.Context) {
	resellerID, ok := auth.GetAccountID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "Account not authenticated")
		return
	}

	w, err := h.service.GetWallet(c.Request.Context(), resellerID)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, "Failed to load wallet")
		return
	}

	api.Data(c, http.StatusOK, w)
}

// ListTransactions godoc
// @Summary      List own wallet transactions
// @Tags         wallet
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query  int  false  "Page size"    default(50)
// @Param        offset  query  int  false  "Page offset"  default(0)
// @Success      200  {object}  api.DataResponse
// @Router       /api/wallet/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	resellerID, ok := auth.GetAccountID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "Account not authenticated")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.service.ListTransactions(c.Request.Context(), resellerID, limit, offset)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, "Failed to load transactions")
		return
	}

	api.Data(c, http.StatusOK, txs)
}

// Credit godoc
// @Summary      Credit a reseller wallet
// @Description  Appends a CREDIT ledger row and restarts the reseller's validity window.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path   int            true  "Reseller ID"
// @Param        request  body   LedgerRequest  true  "Amount and optional description/reference"
// @Success      200  {object}  api.DataResponse
// @Failure      400  {object}  api.ErrorResponse
// @Router       /api/admin/resellers/{id}/wallet/credit [post]
func (h *Handler) Credit(c *gin.Context) {
	h.applyLedgerOp(c, TypeCredit)
}

// Debit godoc
// @Summary      Debit a reseller wallet
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path   int            true  "Reseller ID"
// @Param        request  body   LedgerRequest  true  "Amount and optional description/reference"
// @Success      200  {object}  api.DataResponse
// @Failure      400  {object}  api.ErrorResponse
// @Router       /api/admin/resellers/{id}/wallet/debit [post]
func (h *Handler) Debit(c *gin.Context) {
	h.applyLedgerOp(c, TypeDebit)
}

func (h *Handler) applyLedgerOp(c *gin.Context, txType string) {
	resellerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Error(c, http.StatusBadRequest, "invalid reseller id")
		return
	}

	var req LedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Amount.IsPositive() {
		api.Error(c, http.StatusBadRequest, "amount must be a positive number")
		return
	}

	var record *Transaction
	if txType == TypeCredit {
		record, err = h.service.Credit(c.Request.Context(), resellerID, req.Amount, req.Description, req.Reference)
	} else {
		record, err = h.service.Debit(c.Request.Context(), resellerID, req.Amount, req.Description, req.Reference)
	}
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientBalance):
			api.Error(c, http.StatusBadRequest, "Insufficient balance")
		case errors.Is(err, ErrInvalidAmount):
			api.Error(c, http.StatusBadRequest, "amount must be a positive number")
		default:
			api.Error(c, http.StatusInternalServerError, "Failed to apply wallet transaction")
		}
		return
	}

	api.Data(c, http.StatusOK, record)
}
