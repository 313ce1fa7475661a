package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuctionStatus is the lifecycle state of an auction.
// Transitions: pending -> live -> completed, or -> cancelled from pending/live.
type AuctionStatus string

const (
	AuctionPending   AuctionStatus = "pending"
	AuctionLive      AuctionStatus = "live"
	AuctionCompleted AuctionStatus = "completed"
	AuctionCancelled AuctionStatus = "cancelled"
)

// Terminal reports whether the status permits no further transitions.
func (s AuctionStatus) Terminal() bool {
	return s == AuctionCompleted || s == AuctionCancelled
}

// Auction represents a timed listing. Price and leader are mutated only by bid
// arbitration and settlement; status only by the lifecycle scheduler,
// cancellation or settlement. CurrentLeaderID is a plain user id, empty when
// no bid has been placed.
type Auction struct {
	AuctionID        string          `json:"auction_id"`
	SellerID         string          `json:"seller_id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Category         string          `json:"category"`
	StartingPrice    decimal.Decimal `json:"starting_price"`
	MinimumIncrement decimal.Decimal `json:"minimum_increment"`
	CurrentPrice     decimal.Decimal `json:"current_price"`
	CurrentLeaderID  string          `json:"current_leader_id,omitempty"`
	Status           AuctionStatus   `json:"status"`
	StartTime        time.Time       `json:"start_time"`
	EndTime          time.Time       `json:"end_time"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Bid is an immutable record of a single bid. HeldAmount is the portion of
// Amount that was newly blocked for this bid; it is less than Amount when the
// bidder already had an outstanding hold on the same auction.
type Bid struct {
	BidID      string          `json:"bid_id"`
	AuctionID  string          `json:"auction_id"`
	BidderID   string          `json:"bidder_id"`
	Amount     decimal.Decimal `json:"amount"`
	HeldAmount decimal.Decimal `json:"held_amount"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ProxyBid is a standing ceiling the system bids up to on the owner's behalf.
// At most one exists per (auction, user) pair; updates overwrite in place.
type ProxyBid struct {
	ProxyBidID       string          `json:"proxy_bid_id"`
	AuctionID        string          `json:"auction_id"`
	UserID           string          `json:"user_id"`
	Ceiling          decimal.Decimal `json:"ceiling"`
	LastPlacedAmount decimal.Decimal `json:"last_placed_amount"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Wallet holds a user's point balance. The available balance is derived and
// never stored; all mutation goes through the wallet ledger operations.
type Wallet struct {
	UserID         string          `json:"user_id"`
	TotalBalance   decimal.Decimal `json:"total_balance"`
	BlockedBalance decimal.Decimal `json:"blocked_balance"`
}

// Available returns the amount the user may newly commit.
func (w Wallet) Available() decimal.Decimal {
	return w.TotalBalance.Sub(w.BlockedBalance)
}

// EntryKind classifies a ledger entry.
type EntryKind string

const (
	EntryDeposit EntryKind = "deposit"
	EntryHold    EntryKind = "hold"
	EntryRelease EntryKind = "release"
	EntryCapture EntryKind = "capture"
)

// LedgerEntry is an append-only transaction record. Release and capture
// entries reference the bid they settle, which is what makes those operations
// idempotent under retry.
type LedgerEntry struct {
	EntryID     string          `json:"entry_id"`
	UserID      string          `json:"user_id"`
	Kind        EntryKind       `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	AuctionID   string          `json:"auction_id,omitempty"`
	BidID       string          `json:"bid_id,omitempty"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}
