package lifecycle

import (
	"fmt"
	"sync"
	"time"

	"auction-house/internal/events"
	model "auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/utils"
)

// Finalizer settles an auction when its end time is reached.
type Finalizer interface {
	Finalize(auctionID string) (model.Auction, error)
}

// Cascader runs the proxy bid cascade. The scheduler triggers it when an
// auction goes live so ceilings set during the pending phase engage without
// waiting for a manual bid.
type Cascader interface {
	ProcessCascade(auctionID string)
}

// Scheduler drives auction status transitions on time. It keeps one start
// and one end timer per open auction and replays missed transitions on
// startup, so a restart never leaves an auction stuck in pending or live.
type Scheduler struct {
	store     repository.AuctionStore
	finalizer Finalizer
	cascader  Cascader
	publisher events.Publisher
	notifier  events.Notifier
	now       func() time.Time

	mu          sync.Mutex
	startTimers map[string]*time.Timer
	endTimers   map[string]*time.Timer
}

// NewScheduler creates a scheduler. cascader may be nil. Call Bootstrap once
// after construction to recover open auctions from the store.
func NewScheduler(store repository.AuctionStore, finalizer Finalizer, cascader Cascader,
	publisher events.Publisher, notifier events.Notifier) *Scheduler {
	return &Scheduler{
		store:       store,
		finalizer:   finalizer,
		cascader:    cascader,
		publisher:   publisher,
		notifier:    notifier,
		now:         time.Now,
		startTimers: make(map[string]*time.Timer),
		endTimers:   make(map[string]*time.Timer),
	}
}

// Bootstrap is the recovery pass: every pending and live auction in the
// store gets its timers re-armed, and transitions that should have happened
// while the service was down run immediately.
func (s *Scheduler) Bootstrap() error {
	auctions, err := s.store.OpenAuctions()
	if err != nil {
		return fmt.Errorf("scheduler bootstrap: %w", err)
	}
	for _, a := range auctions {
		s.Schedule(a)
	}
	utils.Info("scheduler bootstrapped", map[string]any{"open_auctions": len(auctions)})
	return nil
}

// Schedule arms (or re-arms) the timers for one auction. Overdue transitions
// fire immediately.
func (s *Scheduler) Schedule(a model.Auction) {
	if a.Status == model.AuctionPending {
		s.ScheduleStart(a.AuctionID, a.StartTime)
	}
	s.ScheduleEnd(a.AuctionID, a.EndTime)
}

// ScheduleStart arms the go-live timer, replacing any existing one. A start
// time in the past fires immediately.
func (s *Scheduler) ScheduleStart(auctionID string, at time.Time) {
	s.arm(s.startTimers, auctionID, at, func() { s.goLive(auctionID) })
}

// ScheduleEnd arms the settlement timer, replacing any existing one. An end
// time in the past fires immediately.
func (s *Scheduler) ScheduleEnd(auctionID string, at time.Time) {
	s.arm(s.endTimers, auctionID, at, func() { s.settle(auctionID) })
}

// Cancel drops both timers for an auction, for cancellations.
func (s *Scheduler) Cancel(auctionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLocked(s.startTimers, auctionID)
	s.dropLocked(s.endTimers, auctionID)
}

// Stop drops every timer. Pending transitions are recovered by the next
// Bootstrap.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.startTimers {
		s.dropLocked(s.startTimers, id)
	}
	for id := range s.endTimers {
		s.dropLocked(s.endTimers, id)
	}
}

func (s *Scheduler) arm(timers map[string]*time.Timer, auctionID string, at time.Time, fire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dropLocked(timers, auctionID)
	delay := at.Sub(s.now())
	if delay < 0 {
		delay = 0
	}
	timers[auctionID] = time.AfterFunc(delay, fire)
}

func (s *Scheduler) dropLocked(timers map[string]*time.Timer, auctionID string) {
	if t, ok := timers[auctionID]; ok {
		t.Stop()
		delete(timers, auctionID)
	}
}

// goLive moves a pending auction to live and announces it.
func (s *Scheduler) goLive(auctionID string) {
	s.drop(s.startTimers, auctionID)

	auction, err := s.store.GetAuction(auctionID)
	if err != nil {
		utils.Error("go-live failed to load auction", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}
	if auction.Status != model.AuctionPending {
		return
	}
	// An auction recovered after its end time goes straight to settlement.
	if !s.now().Before(auction.EndTime) {
		return
	}

	auction.Status = model.AuctionLive
	auction.UpdatedAt = s.now()
	if err := s.store.UpdateAuction(auction); err != nil {
		utils.Error("go-live failed to update auction", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}

	s.publisher.Publish(events.AuctionSubject(auctionID, "live"), map[string]any{
		"auction_id": auctionID,
		"end_time":   auction.EndTime,
	})
	s.notifier.Notify(auction.SellerID, "auction_live",
		fmt.Sprintf("Your auction %s is now live", auctionID),
		map[string]any{"auction_id": auctionID})
	utils.Info("auction live", map[string]any{"auction_id": auctionID})

	if s.cascader != nil {
		s.cascader.ProcessCascade(auctionID)
	}
}

// settle hands the auction to the finalizer when its end timer fires.
func (s *Scheduler) settle(auctionID string) {
	s.drop(s.endTimers, auctionID)

	if _, err := s.finalizer.Finalize(auctionID); err != nil {
		utils.Error("scheduled settlement failed", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
	}
}

func (s *Scheduler) drop(timers map[string]*time.Timer, auctionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLocked(timers, auctionID)
}
