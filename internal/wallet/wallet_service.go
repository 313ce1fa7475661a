package wallet

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/events"
	"auction-house/internal/locks"
	"auction-house/internal/metrics"
	model "auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/utils"
)

// entryStatusCompleted is the terminal status of a ledger entry. All entries
// are written after their balance change succeeds, so it is the only status
// in use today.
const entryStatusCompleted = "completed"

// HoldResult describes the outcome of a hold for a new bid.
type HoldResult struct {
	// Incremental is the amount newly blocked: the bid amount minus the
	// bidder's prior outstanding hold on the same auction.
	Incremental decimal.Decimal
	// PriorHold is the outstanding hold the bidder already had on the auction
	// before this bid.
	PriorHold decimal.Decimal
}

// Service implements the wallet ledger: deposits, bid holds, releases and
// captures. Every mutation is serialized per user and recorded as an
// append-only ledger entry.
type Service struct {
	store     repository.WalletStore
	publisher events.Publisher
	metrics   *metrics.Metrics
	userLocks *locks.KeyedMutex
	now       func() time.Time
}

// NewService creates a wallet service. metrics may be nil.
func NewService(store repository.WalletStore, publisher events.Publisher, m *metrics.Metrics) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		metrics:   m,
		userLocks: locks.NewKeyedMutex(),
		now:       time.Now,
	}
}

// Deposit credits amount to the user's total balance. The wallet is created
// on first deposit.
func (s *Service) Deposit(userID string, amount decimal.Decimal, description string) (model.Wallet, error) {
	if err := validateAmount(amount); err != nil {
		return model.Wallet{}, fmt.Errorf("deposit for user %s: %w", userID, err)
	}

	s.userLocks.Lock(userID)
	defer s.userLocks.Unlock(userID)

	if _, err := s.store.EnsureWallet(userID); err != nil {
		return model.Wallet{}, fmt.Errorf("deposit for user %s: %w", userID, err)
	}

	entry := s.newEntry(userID, model.EntryDeposit, amount, "", "", description)
	if err := s.store.ApplyChange(userID, amount, decimal.Zero, entry); err != nil {
		return model.Wallet{}, fmt.Errorf("deposit for user %s: %w", userID, err)
	}

	s.metrics.WalletOp(string(model.EntryDeposit))
	return s.walletUpdated(userID)
}

// Hold blocks funds backing a bid of the given amount. Only the difference
// between the bid amount and the bidder's outstanding hold on the same
// auction is newly blocked, so a bidder raising their own bid pays only the
// step up.
func (s *Service) Hold(userID, auctionID, bidID string, amount decimal.Decimal) (HoldResult, error) {
	if err := validateAmount(amount); err != nil {
		return HoldResult{}, fmt.Errorf("hold for user %s on auction %s: %w", userID, auctionID, err)
	}

	s.userLocks.Lock(userID)
	defer s.userLocks.Unlock(userID)

	wallet, err := s.store.EnsureWallet(userID)
	if err != nil {
		return HoldResult{}, fmt.Errorf("hold for user %s on auction %s: %w", userID, auctionID, err)
	}

	prior, err := s.store.OutstandingHold(userID, auctionID)
	if err != nil {
		return HoldResult{}, fmt.Errorf("hold for user %s on auction %s: %w", userID, auctionID, err)
	}

	incremental := amount.Sub(prior)
	if incremental.LessThanOrEqual(decimal.Zero) {
		return HoldResult{}, fmt.Errorf("hold for user %s on auction %s: amount %s does not exceed outstanding hold %s: %w",
			userID, auctionID, amount, prior, auctionerrors.ErrInvalidAmount)
	}

	if incremental.GreaterThan(wallet.Available()) {
		return HoldResult{}, fmt.Errorf("hold for user %s on auction %s: need %s but only %s available: %w",
			userID, auctionID, incremental, wallet.Available(), auctionerrors.ErrInsufficientFunds)
	}

	entry := s.newEntry(userID, model.EntryHold, incremental, auctionID, bidID,
		fmt.Sprintf("hold for bid on auction %s", auctionID))
	if err := s.store.ApplyChange(userID, decimal.Zero, incremental, entry); err != nil {
		return HoldResult{}, fmt.Errorf("hold for user %s on auction %s: %w", userID, auctionID, err)
	}

	s.metrics.WalletOp(string(model.EntryHold))
	if _, err := s.walletUpdated(userID); err != nil {
		return HoldResult{}, err
	}
	return HoldResult{Incremental: incremental, PriorHold: prior}, nil
}

// ReleaseBid unblocks the funds held for one bid. Calling it again for the
// same bid is a no-op, which lets settlement and outbid handling retry
// safely.
func (s *Service) ReleaseBid(userID, auctionID, bidID string, heldAmount decimal.Decimal, description string) error {
	s.userLocks.Lock(userID)
	defer s.userLocks.Unlock(userID)

	done, err := s.store.HasEntryForBid(userID, bidID, model.EntryRelease)
	if err != nil {
		return fmt.Errorf("release bid %s for user %s: %w", bidID, userID, err)
	}
	if done {
		return nil
	}

	outstanding, err := s.store.OutstandingHold(userID, auctionID)
	if err != nil {
		return fmt.Errorf("release bid %s for user %s: %w", bidID, userID, err)
	}

	// Never release more than is still held for the auction. The hold may
	// already have been consumed by a capture.
	amount := heldAmount
	if amount.GreaterThan(outstanding) {
		amount = outstanding
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	entry := s.newEntry(userID, model.EntryRelease, amount, auctionID, bidID, description)
	if err := s.store.ApplyChange(userID, decimal.Zero, amount.Neg(), entry); err != nil {
		return fmt.Errorf("release bid %s for user %s: %w", bidID, userID, err)
	}

	s.metrics.WalletOp(string(model.EntryRelease))
	_, err = s.walletUpdated(userID)
	return err
}

// CaptureBid settles the winning bid by converting the bidder's entire
// outstanding hold on the auction into a debit. By construction the leader's
// outstanding hold equals their winning amount. The captured amount is
// returned; a repeat call for the same bid returns zero and no error.
func (s *Service) CaptureBid(userID, auctionID, bidID, description string) (decimal.Decimal, error) {
	s.userLocks.Lock(userID)
	defer s.userLocks.Unlock(userID)

	done, err := s.store.HasEntryForBid(userID, bidID, model.EntryCapture)
	if err != nil {
		return decimal.Zero, fmt.Errorf("capture bid %s for user %s: %w", bidID, userID, err)
	}
	if done {
		return decimal.Zero, nil
	}

	outstanding, err := s.store.OutstandingHold(userID, auctionID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("capture bid %s for user %s: %w", bidID, userID, err)
	}
	if outstanding.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("capture bid %s for user %s: no outstanding hold on auction %s: %w",
			bidID, userID, auctionID, auctionerrors.ErrInvalidAmount)
	}

	entry := s.newEntry(userID, model.EntryCapture, outstanding, auctionID, bidID, description)
	if err := s.store.ApplyChange(userID, outstanding.Neg(), outstanding.Neg(), entry); err != nil {
		return decimal.Zero, fmt.Errorf("capture bid %s for user %s: %w", bidID, userID, err)
	}

	s.metrics.WalletOp(string(model.EntryCapture))
	if _, err := s.walletUpdated(userID); err != nil {
		return decimal.Zero, err
	}
	return outstanding, nil
}

// OutstandingHold returns the user's net held amount on one auction.
func (s *Service) OutstandingHold(userID, auctionID string) (decimal.Decimal, error) {
	return s.store.OutstandingHold(userID, auctionID)
}

// Balance returns the user's wallet, creating an empty one for first-time
// callers.
func (s *Service) Balance(userID string) (model.Wallet, error) {
	s.userLocks.Lock(userID)
	defer s.userLocks.Unlock(userID)

	w, err := s.store.EnsureWallet(userID)
	if err != nil {
		return model.Wallet{}, fmt.Errorf("balance for user %s: %w", userID, err)
	}
	return w, nil
}

// History returns the user's ledger entries, newest first.
func (s *Service) History(userID string, limit int) ([]model.LedgerEntry, error) {
	entries, err := s.store.EntriesByUser(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("history for user %s: %w", userID, err)
	}
	return entries, nil
}

// walletUpdated reads the wallet back and publishes its new state.
func (s *Service) walletUpdated(userID string) (model.Wallet, error) {
	w, err := s.store.GetWallet(userID)
	if err != nil {
		return model.Wallet{}, fmt.Errorf("read wallet for user %s: %w", userID, err)
	}
	s.publisher.Publish(events.UserSubject(userID, "wallet_updated"), w)
	return w, nil
}

func (s *Service) newEntry(userID string, kind model.EntryKind, amount decimal.Decimal, auctionID, bidID, description string) model.LedgerEntry {
	return model.LedgerEntry{
		EntryID:     utils.GenerateID(),
		UserID:      userID,
		Kind:        kind,
		Amount:      amount,
		AuctionID:   auctionID,
		BidID:       bidID,
		Description: description,
		Status:      entryStatusCompleted,
		CreatedAt:   s.now(),
	}
}

// validateAmount rejects non-positive amounts and amounts with more than two
// decimal places.
func validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount %s must be positive: %w", amount, auctionerrors.ErrInvalidAmount)
	}
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("amount %s has more than two decimal places: %w", amount, auctionerrors.ErrInvalidAmount)
	}
	return nil
}
