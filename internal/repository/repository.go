package repository

import (
	model "auction-house/internal/models"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=repository.go -destination=mock_store.go -package=repository

// AuctionStore persists auctions. Auctions are never deleted, only moved to a
// terminal status.
type AuctionStore interface {
	CreateAuction(a model.Auction) error
	GetAuction(auctionID string) (model.Auction, error)
	UpdateAuction(a model.Auction) error
	// ListAuctions returns auctions ordered by end time ascending. An empty
	// status matches all statuses.
	ListAuctions(status model.AuctionStatus, limit int) ([]model.Auction, error)
	// OpenAuctions returns all pending and live auctions, including overdue
	// ones. Used by the scheduler's recovery pass.
	OpenAuctions() ([]model.Auction, error)
}

// BidStore is the append-only record of bids per auction.
type BidStore interface {
	AppendBid(b model.Bid) error
	// BidsByAuction returns all bids for an auction, newest first.
	BidsByAuction(auctionID string) ([]model.Bid, error)
	// HighestBid returns the winning candidate: highest amount, earliest
	// creation time among equal amounts. ok is false when no bids exist.
	HighestBid(auctionID string) (bid model.Bid, ok bool, err error)
}

// ProxyBidStore keeps at most one proxy bid per (auction, user) pair.
type ProxyBidStore interface {
	UpsertProxyBid(p model.ProxyBid) error
	// GetProxyBid returns the record even when inactive, so callers can show
	// an exceeded ceiling to the user.
	GetProxyBid(auctionID, userID string) (model.ProxyBid, error)
	// EligibleProxyBids returns active proxy bids with ceiling >= minCeiling,
	// ordered by ceiling descending then creation time ascending.
	EligibleProxyBids(auctionID string, minCeiling decimal.Decimal) ([]model.ProxyBid, error)
	// ActiveProxyBidsByUser lists a user's active proxy bids, newest first.
	ActiveProxyBidsByUser(userID string) ([]model.ProxyBid, error)
}

// WalletStore persists wallets and their append-only ledger. ApplyChange is
// the single mutation point: the balance adjustment and the ledger entry are
// written as one atomic unit.
type WalletStore interface {
	// EnsureWallet returns the wallet for userID, creating a zero-balance
	// wallet if none exists.
	EnsureWallet(userID string) (model.Wallet, error)
	GetWallet(userID string) (model.Wallet, error)
	// ApplyChange adjusts the wallet balances by the given deltas and appends
	// the ledger entry atomically.
	ApplyChange(userID string, totalDelta, blockedDelta decimal.Decimal, entry model.LedgerEntry) error
	// HasEntryForBid reports whether an entry of the given kind already
	// references bidID for this user. Drives release/capture idempotency.
	HasEntryForBid(userID, bidID string, kind model.EntryKind) (bool, error)
	// OutstandingHold returns the user's net held amount for one auction:
	// sum of holds minus sum of releases and captures.
	OutstandingHold(userID, auctionID string) (decimal.Decimal, error)
	// EntriesByUser returns the user's ledger history, newest first.
	EntriesByUser(userID string, limit int) ([]model.LedgerEntry, error)
}

// Store is the full persistence surface of the auction house.
type Store interface {
	AuctionStore
	BidStore
	ProxyBidStore
	WalletStore
}
