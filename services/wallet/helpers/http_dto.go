package helpers

import (
	"time"

	"github.com/shopspring/decimal"

	model "auction-house/internal/models"
)

// Request/Response DTOs
type DepositRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

type WalletResponse struct {
	UserID           string          `json:"user_id"`
	TotalBalance     decimal.Decimal `json:"total_balance"`
	BlockedBalance   decimal.Decimal `json:"blocked_balance"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
}

type LedgerEntryResponse struct {
	EntryID     string          `json:"entry_id"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	AuctionID   string          `json:"auction_id,omitempty"`
	BidID       string          `json:"bid_id,omitempty"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	CreatedAt   string          `json:"created_at"`
}

// NewWalletResponse converts a model wallet to its API shape.
func NewWalletResponse(w model.Wallet) WalletResponse {
	return WalletResponse{
		UserID:           w.UserID,
		TotalBalance:     w.TotalBalance,
		BlockedBalance:   w.BlockedBalance,
		AvailableBalance: w.Available(),
	}
}

// NewLedgerEntryResponse converts a model ledger entry to its API shape.
func NewLedgerEntryResponse(e model.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:     e.EntryID,
		Kind:        string(e.Kind),
		Amount:      e.Amount,
		AuctionID:   e.AuctionID,
		BidID:       e.BidID,
		Description: e.Description,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
	}
}
