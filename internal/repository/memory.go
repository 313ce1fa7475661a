package repository

import (
	"fmt"
	"sort"
	"sync"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"

	"github.com/shopspring/decimal"
)

// MemoryStore is a concurrency-safe in-memory implementation of Store.
type MemoryStore struct {
	mu        sync.RWMutex
	auctions  map[string]model.Auction
	bids      map[string][]model.Bid           // key: auctionID -> bids in arrival order
	proxyBids map[string]map[string]model.ProxyBid // key: auctionID -> userID -> proxy bid
	wallets   map[string]model.Wallet
	entries   map[string][]model.LedgerEntry // key: userID -> entries in append order
}

// NewMemoryStore creates a new in-memory store instance.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		auctions:  make(map[string]model.Auction),
		bids:      make(map[string][]model.Bid),
		proxyBids: make(map[string]map[string]model.ProxyBid),
		wallets:   make(map[string]model.Wallet),
		entries:   make(map[string][]model.LedgerEntry),
	}
}

// CreateAuction stores a new auction.
func (s *MemoryStore) CreateAuction(a model.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.auctions[a.AuctionID]; ok {
		return fmt.Errorf("create auction %s: %w", a.AuctionID, auctionerrors.ErrConflict)
	}
	s.auctions[a.AuctionID] = a
	return nil
}

// GetAuction returns an auction by id.
func (s *MemoryStore) GetAuction(auctionID string) (model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return a, nil
}

// UpdateAuction overwrites an existing auction.
func (s *MemoryStore) UpdateAuction(a model.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.auctions[a.AuctionID]; !ok {
		return fmt.Errorf("update auction %s: %w", a.AuctionID, auctionerrors.ErrAuctionNotFound)
	}
	s.auctions[a.AuctionID] = a
	return nil
}

// ListAuctions returns auctions ordered by end time ascending.
func (s *MemoryStore) ListAuctions(status model.AuctionStatus, limit int) ([]model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Auction, 0, len(s.auctions))
	for _, a := range s.auctions {
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndTime.Before(out[j].EndTime) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// OpenAuctions returns all pending and live auctions, including those whose
// end time already passed while the service was down.
func (s *MemoryStore) OpenAuctions() ([]model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Auction
	for _, a := range s.auctions {
		if a.Status == model.AuctionPending || a.Status == model.AuctionLive {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndTime.Before(out[j].EndTime) })
	return out, nil
}

// AppendBid records a bid for an auction.
func (s *MemoryStore) AppendBid(b model.Bid) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.auctions[b.AuctionID]; !ok {
		return fmt.Errorf("append bid for auction %s: %w", b.AuctionID, auctionerrors.ErrAuctionNotFound)
	}
	s.bids[b.AuctionID] = append(s.bids[b.AuctionID], b)
	return nil
}

// BidsByAuction returns all bids for an auction, newest first.
func (s *MemoryStore) BidsByAuction(auctionID string) ([]model.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bids := append([]model.Bid(nil), s.bids[auctionID]...)
	sort.SliceStable(bids, func(i, j int) bool { return bids[i].CreatedAt.After(bids[j].CreatedAt) })
	return bids, nil
}

// HighestBid returns the winning candidate for an auction.
func (s *MemoryStore) HighestBid(auctionID string) (model.Bid, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bids := s.bids[auctionID]
	if len(bids) == 0 {
		return model.Bid{}, false, nil
	}

	winning := bids[0]
	for _, b := range bids[1:] {
		if b.Amount.GreaterThan(winning.Amount) ||
			(b.Amount.Equal(winning.Amount) && b.CreatedAt.Before(winning.CreatedAt)) {
			winning = b
		}
	}
	return winning, true, nil
}

// UpsertProxyBid creates or replaces the proxy bid for its (auction, user) pair.
func (s *MemoryStore) UpsertProxyBid(p model.ProxyBid) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byUser, ok := s.proxyBids[p.AuctionID]
	if !ok {
		byUser = make(map[string]model.ProxyBid)
		s.proxyBids[p.AuctionID] = byUser
	}
	byUser[p.UserID] = p
	return nil
}

// GetProxyBid returns the proxy bid for (auction, user), active or not.
func (s *MemoryStore) GetProxyBid(auctionID, userID string) (model.ProxyBid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.proxyBids[auctionID][userID]
	if !ok {
		return model.ProxyBid{}, fmt.Errorf("get proxy bid for auction %s user %s: %w",
			auctionID, userID, auctionerrors.ErrProxyBidNotFound)
	}
	return p, nil
}

// EligibleProxyBids returns active proxy bids whose ceiling covers minCeiling,
// highest ceiling first, earliest commitment first among equal ceilings.
func (s *MemoryStore) EligibleProxyBids(auctionID string, minCeiling decimal.Decimal) ([]model.ProxyBid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.ProxyBid
	for _, p := range s.proxyBids[auctionID] {
		if p.IsActive && p.Ceiling.GreaterThanOrEqual(minCeiling) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Ceiling.Equal(out[j].Ceiling) {
			return out[i].Ceiling.GreaterThan(out[j].Ceiling)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ActiveProxyBidsByUser lists a user's active proxy bids, newest first.
func (s *MemoryStore) ActiveProxyBidsByUser(userID string) ([]model.ProxyBid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.ProxyBid
	for _, byUser := range s.proxyBids {
		if p, ok := byUser[userID]; ok && p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// EnsureWallet returns the wallet for userID, creating it if missing.
func (s *MemoryStore) EnsureWallet(userID string) (model.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[userID]
	if !ok {
		w = model.Wallet{UserID: userID, TotalBalance: decimal.Zero, BlockedBalance: decimal.Zero}
		s.wallets[userID] = w
	}
	return w, nil
}

// GetWallet returns the wallet for userID.
func (s *MemoryStore) GetWallet(userID string) (model.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.wallets[userID]
	if !ok {
		return model.Wallet{}, fmt.Errorf("get wallet for user %s: %w", userID, auctionerrors.ErrWalletNotFound)
	}
	return w, nil
}

// ApplyChange adjusts balances and appends the ledger entry as one unit.
func (s *MemoryStore) ApplyChange(userID string, totalDelta, blockedDelta decimal.Decimal, entry model.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wallets[userID]
	if !ok {
		return fmt.Errorf("apply change for user %s: %w", userID, auctionerrors.ErrWalletNotFound)
	}
	w.TotalBalance = w.TotalBalance.Add(totalDelta)
	w.BlockedBalance = w.BlockedBalance.Add(blockedDelta)
	s.wallets[userID] = w
	s.entries[userID] = append(s.entries[userID], entry)
	return nil
}

// HasEntryForBid reports whether a ledger entry of the given kind references bidID.
func (s *MemoryStore) HasEntryForBid(userID, bidID string, kind model.EntryKind) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries[userID] {
		if e.BidID == bidID && e.Kind == kind {
			return true, nil
		}
	}
	return false, nil
}

// OutstandingHold derives the user's net held amount for one auction from the
// ledger: holds add, releases and captures subtract.
func (s *MemoryStore) OutstandingHold(userID, auctionID string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	held := decimal.Zero
	for _, e := range s.entries[userID] {
		if e.AuctionID != auctionID {
			continue
		}
		switch e.Kind {
		case model.EntryHold:
			held = held.Add(e.Amount)
		case model.EntryRelease, model.EntryCapture:
			held = held.Sub(e.Amount)
		}
	}
	return held, nil
}

// EntriesByUser returns the user's ledger history, newest first.
func (s *MemoryStore) EntriesByUser(userID string, limit int) ([]model.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := append([]model.LedgerEntry(nil), s.entries[userID]...)
	// append order is chronological; reverse for newest first
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
