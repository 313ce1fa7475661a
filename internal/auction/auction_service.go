package auction

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/events"
	"auction-house/internal/locks"
	model "auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/utils"
)

// RoleAdmin may manage any auction; everyone else only their own.
const RoleAdmin = "admin"

// Scheduler arms and drops the lifecycle timers for an auction.
type Scheduler interface {
	Schedule(a model.Auction)
	Cancel(auctionID string)
}

// FundsReleaser sweeps outstanding holds off a terminal auction.
type FundsReleaser interface {
	EnsureFundsReleased(auctionID string) error
}

// CreateParams are the seller-supplied fields of a new auction.
type CreateParams struct {
	Title            string
	Description      string
	Category         string
	StartingPrice    decimal.Decimal
	MinimumIncrement decimal.Decimal
	StartTime        time.Time
	EndTime          time.Time
}

// UpdateParams are the optional fields of an auction update. Nil fields are
// left unchanged.
type UpdateParams struct {
	Title            *string
	Description      *string
	Category         *string
	StartingPrice    *decimal.Decimal
	MinimumIncrement *decimal.Decimal
	StartTime        *time.Time
	EndTime          *time.Time
}

// Service manages the auction lifecycle around the bidding engine: listing
// creation, seller edits, cancellation and reads.
type Service struct {
	store        repository.Store
	scheduler    Scheduler
	releaser     FundsReleaser
	publisher    events.Publisher
	notifier     events.Notifier
	auctionLocks *locks.KeyedMutex
	now          func() time.Time
}

// NewService creates an auction service. auctionLocks must be the same mutex
// set used by bidding and settlement.
func NewService(store repository.Store, scheduler Scheduler, releaser FundsReleaser,
	publisher events.Publisher, notifier events.Notifier, auctionLocks *locks.KeyedMutex) *Service {
	return &Service{
		store:        store,
		scheduler:    scheduler,
		releaser:     releaser,
		publisher:    publisher,
		notifier:     notifier,
		auctionLocks: auctionLocks,
		now:          time.Now,
	}
}

// CreateAuction creates a listing for the seller. An auction whose start
// time is not in the future goes live immediately.
func (s *Service) CreateAuction(sellerID string, p CreateParams) (model.Auction, error) {
	now := s.now()
	if err := validateCreate(p, now); err != nil {
		return model.Auction{}, fmt.Errorf("create auction: %w", err)
	}

	increment := p.MinimumIncrement
	if increment.LessThan(decimal.NewFromInt(1)) {
		increment = decimal.NewFromInt(1)
	}

	status := model.AuctionPending
	if !p.StartTime.After(now) {
		status = model.AuctionLive
	}

	a := model.Auction{
		AuctionID:        utils.GenerateID(),
		SellerID:         sellerID,
		Title:            p.Title,
		Description:      p.Description,
		Category:         p.Category,
		StartingPrice:    p.StartingPrice,
		MinimumIncrement: increment,
		CurrentPrice:     p.StartingPrice,
		Status:           status,
		StartTime:        p.StartTime,
		EndTime:          p.EndTime,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.CreateAuction(a); err != nil {
		return model.Auction{}, fmt.Errorf("create auction: %w", err)
	}

	s.scheduler.Schedule(a)
	s.publisher.Publish(events.AuctionSubject(a.AuctionID, "created"), a)
	utils.Info("auction created", map[string]any{
		"auction_id": a.AuctionID,
		"seller_id":  sellerID,
		"status":     string(a.Status),
	})
	return a, nil
}

// UpdateAuction applies seller edits. Price and start time are frozen once
// the auction is live; nothing can change after it reaches a terminal state.
func (s *Service) UpdateAuction(callerID, callerRole, auctionID string, p UpdateParams) (model.Auction, error) {
	s.auctionLocks.Lock(auctionID)
	defer s.auctionLocks.Unlock(auctionID)

	a, err := s.store.GetAuction(auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("update auction %s: %w", auctionID, err)
	}
	if callerID != a.SellerID && callerRole != RoleAdmin {
		return model.Auction{}, fmt.Errorf("update auction %s: %w", auctionID, auctionerrors.ErrForbidden)
	}
	if a.Status.Terminal() {
		return model.Auction{}, fmt.Errorf("update auction %s in status %s: %w",
			auctionID, a.Status, auctionerrors.ErrInvalidState)
	}

	if a.Status == model.AuctionLive && (p.StartingPrice != nil || p.StartTime != nil) {
		return model.Auction{}, fmt.Errorf("update auction %s: price and start time are frozen while live: %w",
			auctionID, auctionerrors.ErrInvalidState)
	}

	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.StartingPrice != nil {
		if err := validateMoney(*p.StartingPrice); err != nil {
			return model.Auction{}, fmt.Errorf("update auction %s: starting price: %w", auctionID, err)
		}
		a.StartingPrice = *p.StartingPrice
		a.CurrentPrice = *p.StartingPrice
	}
	if p.MinimumIncrement != nil {
		increment := *p.MinimumIncrement
		if err := validateMoney(increment); err != nil {
			return model.Auction{}, fmt.Errorf("update auction %s: minimum increment: %w", auctionID, err)
		}
		if increment.LessThan(decimal.NewFromInt(1)) {
			increment = decimal.NewFromInt(1)
		}
		a.MinimumIncrement = increment
	}
	if p.StartTime != nil {
		a.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		a.EndTime = *p.EndTime
	}
	if !a.EndTime.After(a.StartTime) {
		return model.Auction{}, fmt.Errorf("update auction %s: end time must be after start time: %w",
			auctionID, auctionerrors.ErrInvalidState)
	}

	a.UpdatedAt = s.now()
	if err := s.store.UpdateAuction(a); err != nil {
		return model.Auction{}, fmt.Errorf("update auction %s: %w", auctionID, err)
	}

	s.scheduler.Schedule(a)
	s.publisher.Publish(events.AuctionSubject(auctionID, "updated"), a)
	utils.Info("auction updated", map[string]any{"auction_id": auctionID})
	return a, nil
}

// CancelAuction withdraws a pending or live auction and gives every bidder
// their held funds back.
func (s *Service) CancelAuction(callerID, callerRole, auctionID string) (model.Auction, error) {
	a, err := s.cancelLocked(callerID, callerRole, auctionID)
	if err != nil {
		return model.Auction{}, err
	}

	// The releaser takes the auction lock itself, so it runs after ours is
	// dropped. Any bid that raced the cancellation is swept up here.
	if err := s.releaser.EnsureFundsReleased(auctionID); err != nil {
		utils.Error("failed to release funds after cancellation", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
	}

	s.publisher.Publish(events.AuctionSubject(auctionID, "cancelled"), map[string]any{
		"auction_id": auctionID,
	})
	if a.CurrentLeaderID != "" {
		s.notifier.Notify(a.CurrentLeaderID, "auction_cancelled",
			fmt.Sprintf("Auction %s was cancelled and your funds were released", auctionID),
			map[string]any{"auction_id": auctionID})
	}
	utils.Info("auction cancelled", map[string]any{"auction_id": auctionID})
	return a, nil
}

func (s *Service) cancelLocked(callerID, callerRole, auctionID string) (model.Auction, error) {
	s.auctionLocks.Lock(auctionID)
	defer s.auctionLocks.Unlock(auctionID)

	a, err := s.store.GetAuction(auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("cancel auction %s: %w", auctionID, err)
	}
	if callerID != a.SellerID && callerRole != RoleAdmin {
		return model.Auction{}, fmt.Errorf("cancel auction %s: %w", auctionID, auctionerrors.ErrForbidden)
	}
	if a.Status.Terminal() {
		return model.Auction{}, fmt.Errorf("cancel auction %s in status %s: %w",
			auctionID, a.Status, auctionerrors.ErrInvalidState)
	}

	a.Status = model.AuctionCancelled
	a.UpdatedAt = s.now()
	if err := s.store.UpdateAuction(a); err != nil {
		return model.Auction{}, fmt.Errorf("cancel auction %s: %w", auctionID, err)
	}

	s.scheduler.Cancel(auctionID)
	return a, nil
}

// GetAuction returns one auction by id.
func (s *Service) GetAuction(auctionID string) (model.Auction, error) {
	a, err := s.store.GetAuction(auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, err)
	}
	return a, nil
}

// ListAuctions returns auctions, optionally filtered by status.
func (s *Service) ListAuctions(status string, limit int) ([]model.Auction, error) {
	filter := model.AuctionStatus(status)
	switch filter {
	case "", model.AuctionPending, model.AuctionLive, model.AuctionCompleted, model.AuctionCancelled:
	default:
		return nil, fmt.Errorf("list auctions: unknown status %q: %w", status, auctionerrors.ErrInvalidState)
	}
	auctions, err := s.store.ListAuctions(filter, limit)
	if err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	return auctions, nil
}

func validateCreate(p CreateParams, now time.Time) error {
	if p.Title == "" {
		return fmt.Errorf("title is required: %w", auctionerrors.ErrInvalidState)
	}
	if p.StartingPrice.IsNegative() {
		return fmt.Errorf("starting price %s must not be negative: %w",
			p.StartingPrice, auctionerrors.ErrInvalidAmount)
	}
	if !p.StartingPrice.Equal(p.StartingPrice.Round(2)) {
		return fmt.Errorf("starting price %s has more than two decimal places: %w",
			p.StartingPrice, auctionerrors.ErrInvalidAmount)
	}
	if p.MinimumIncrement.IsNegative() || !p.MinimumIncrement.Equal(p.MinimumIncrement.Round(2)) {
		return fmt.Errorf("minimum increment %s is invalid: %w",
			p.MinimumIncrement, auctionerrors.ErrInvalidAmount)
	}
	if !p.EndTime.After(p.StartTime) {
		return fmt.Errorf("end time must be after start time: %w", auctionerrors.ErrInvalidState)
	}
	if !p.EndTime.After(now) {
		return fmt.Errorf("end time must be in the future: %w", auctionerrors.ErrInvalidState)
	}
	return nil
}

func validateMoney(amount decimal.Decimal) error {
	if amount.IsNegative() || !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("amount %s is invalid: %w", amount, auctionerrors.ErrInvalidAmount)
	}
	return nil
}
