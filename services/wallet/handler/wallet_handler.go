package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	model "auction-house/internal/models"
	auctionhelpers "auction-house/services/auction/helpers"
	"auction-house/services/wallet/helpers"
	"auction-house/utils"
)

// historyDefaultLimit caps the ledger page when the caller does not pass one.
const historyDefaultLimit = 50

type WalletServiceInterface interface {
	Deposit(userID string, amount decimal.Decimal, description string) (model.Wallet, error)
	Balance(userID string) (model.Wallet, error)
	History(userID string, limit int) ([]model.LedgerEntry, error)
}

type WalletHandler struct {
	service WalletServiceInterface
}

func NewWalletHandler(service WalletServiceInterface) *WalletHandler {
	return &WalletHandler{service: service}
}

// DepositHandler handles POST /wallet/deposit
func (h *WalletHandler) DepositHandler(c *gin.Context) {
	userID, ok := auctionhelpers.CallerID(c)
	if !ok {
		return
	}

	var req helpers.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		auctionhelpers.HandleBindError(c, "DepositHandler", err)
		return
	}

	description := req.Description
	if description == "" {
		description = "wallet deposit"
	}

	wallet, err := h.service.Deposit(userID, req.Amount, description)
	if err != nil {
		auctionhelpers.HandleServiceError(c, "DepositHandler", err, map[string]any{"user_id": userID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewWalletResponse(wallet), "deposit recorded successfully")
	auctionhelpers.LogSuccess("DepositHandler", "deposit recorded successfully", map[string]any{
		"user_id": userID,
		"amount":  req.Amount.String(),
	})
}

// BalanceHandler handles GET /wallet
func (h *WalletHandler) BalanceHandler(c *gin.Context) {
	userID, ok := auctionhelpers.CallerID(c)
	if !ok {
		return
	}

	wallet, err := h.service.Balance(userID)
	if err != nil {
		auctionhelpers.HandleServiceError(c, "BalanceHandler", err, map[string]any{"user_id": userID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, helpers.NewWalletResponse(wallet), "wallet retrieved successfully")
}

// HistoryHandler handles GET /wallet/history
func (h *WalletHandler) HistoryHandler(c *gin.Context) {
	userID, ok := auctionhelpers.CallerID(c)
	if !ok {
		return
	}

	limit := historyDefaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			auctionhelpers.HandleBindError(c, "HistoryHandler", fmt.Errorf("limit %q must be a positive integer", raw))
			return
		}
		limit = parsed
	}

	entries, err := h.service.History(userID, limit)
	if err != nil {
		auctionhelpers.HandleServiceError(c, "HistoryHandler", err, map[string]any{"user_id": userID})
		return
	}

	resp := make([]helpers.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, helpers.NewLedgerEntryResponse(e))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "wallet history retrieved successfully")
}
