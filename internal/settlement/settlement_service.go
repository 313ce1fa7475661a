package settlement

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

// Ledger is the slice of the wallet service that settlement needs: capturing
// the winner's hold and releasing everyone else's.
type Ledger interface {
	CaptureBid(userID, auctionID, bidID, description string) (decimal.Decimal, error)
	ReleaseBid(userID, auctionID, bidID string, heldAmount decimal.Decimal, description string) error
}

// Service settles ended auctions: it captures the winning hold, releases all
// losing holds and moves the auction to its terminal state. Finalize is
// idempotent so the scheduler, the recovery pass and manual triggers can all
// call it for the same auction.
type Service struct {
	store        repository.Store
	ledger       Ledger
	publisher    events.Publisher
	notifier     events.Notifier
	metrics      *metrics.Metrics
	auctionLocks *locks.KeyedMutex
	now          func() time.Time
}

// NewService creates a settlement service. auctionLocks must be the same
// mutex set used by bidding. metrics may be nil.
func NewService(store repository.Store, ledger Ledger, publisher events.Publisher,
	notifier events.Notifier, m *metrics.Metrics, auctionLocks *locks.KeyedMutex) *Service {
	return &Service{
		store:        store,
		ledger:       ledger,
		publisher:    publisher,
		notifier:     notifier,
		metrics:      m,
		auctionLocks: auctionLocks,
		now:          time.Now,
	}
}

// Finalize settles an auction. If the auction is already completed it only
// re-runs the fund cleanup, so retries converge on the same outcome.
func (s *Service) Finalize(auctionID string) (model.Auction, error) {
	s.auctionLocks.Lock(auctionID)
	defer s.auctionLocks.Unlock(auctionID)

	auction, err := s.store.GetAuction(auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("finalize auction %s: %w", auctionID, err)
	}

	switch auction.Status {
	case model.AuctionCompleted:
		s.releaseAllFunds(auctionID, "funds released after settlement")
		return auction, nil
	case model.AuctionCancelled:
		return model.Auction{}, fmt.Errorf("finalize auction %s in status %s: %w",
			auctionID, auction.Status, auctionerrors.ErrInvalidState)
	}

	winning, hasWinner, err := s.store.HighestBid(auctionID)
	if err != nil {
		return model.Auction{}, fmt.Errorf("finalize auction %s: %w", auctionID, err)
	}

	outcome := "no_bids"
	if hasWinner {
		captured, err := s.ledger.CaptureBid(winning.BidderID, auctionID, winning.BidID,
			fmt.Sprintf("won auction %s", auctionID))
		if err != nil {
			// The sale cannot complete without payment; give everyone their
			// funds back and close the auction without a winner.
			utils.Error("capture failed, releasing all funds", map[string]any{
				"auction_id": auctionID,
				"winner_id":  winning.BidderID,
				"error":      err.Error(),
			})
			outcome = "capture_failed"
			hasWinner = false
		} else {
			outcome = "sold"
			utils.Info("winning bid captured", map[string]any{
				"auction_id": auctionID,
				"winner_id":  winning.BidderID,
				"amount":     captured.String(),
			})
		}
	}

	// Releases clamp to each bidder's outstanding hold, so the winner's
	// already-captured funds are never touched.
	s.releaseAllFunds(auctionID, fmt.Sprintf("auction %s ended", auctionID))

	auction.Status = model.AuctionCompleted
	auction.UpdatedAt = s.now()
	if outcome == "sold" {
		auction.CurrentPrice = winning.Amount
		auction.CurrentLeaderID = winning.BidderID
	} else {
		auction.CurrentLeaderID = ""
	}
	if err := s.store.UpdateAuction(auction); err != nil {
		return model.Auction{}, fmt.Errorf("finalize auction %s: %w", auctionID, err)
	}

	s.metrics.AuctionFinalized(outcome)
	s.publisher.Publish(events.AuctionSubject(auctionID, "finalized"), map[string]any{
		"auction_id": auctionID,
		"outcome":    outcome,
		"winner_id":  auction.CurrentLeaderID,
		"price":      auction.CurrentPrice.String(),
	})
	s.notifyOutcome(auction, winning, outcome)

	utils.Info("auction finalized", map[string]any{
		"auction_id": auctionID,
		"outcome":    outcome,
	})
	return auction, nil
}

// EnsureFundsReleased releases any holds still outstanding on a terminal
// auction. It is the safety net run by the recovery pass for auctions that
// ended while the service was down.
func (s *Service) EnsureFundsReleased(auctionID string) error {
	s.auctionLocks.Lock(auctionID)
	defer s.auctionLocks.Unlock(auctionID)

	auction, err := s.store.GetAuction(auctionID)
	if err != nil {
		return fmt.Errorf("ensure funds released for auction %s: %w", auctionID, err)
	}
	if !auction.Status.Terminal() {
		return fmt.Errorf("ensure funds released for auction %s in status %s: %w",
			auctionID, auction.Status, auctionerrors.ErrInvalidState)
	}
	s.releaseAllFunds(auctionID, fmt.Sprintf("auction %s closed", auctionID))
	return nil
}

// releaseAllFunds walks every bid on the auction and releases whatever each
// bidder still has held. Release is idempotent per bid and clamps to the
// outstanding hold, so repeated sweeps are harmless.
func (s *Service) releaseAllFunds(auctionID, description string) {
	bids, err := s.store.BidsByAuction(auctionID)
	if err != nil {
		utils.Error("failed to list bids for fund release", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}
	for _, bid := range bids {
		err := s.ledger.ReleaseBid(bid.BidderID, auctionID, bid.BidID, bid.HeldAmount, description)
		if err != nil {
			utils.Error("failed to release bid funds", map[string]any{
				"auction_id": auctionID,
				"bid_id":     bid.BidID,
				"user_id":    bid.BidderID,
				"error":      err.Error(),
			})
		}
	}
}

func (s *Service) notifyOutcome(auction model.Auction, winning model.Bid, outcome string) {
	switch outcome {
	case "sold":
		s.notifier.Notify(winning.BidderID, "auction_won",
			fmt.Sprintf("You won auction %s", auction.AuctionID),
			map[string]any{"auction_id": auction.AuctionID, "price": winning.Amount.String()})
		s.notifier.Notify(auction.SellerID, "auction_sold",
			fmt.Sprintf("Your auction %s sold", auction.AuctionID),
			map[string]any{"auction_id": auction.AuctionID, "price": winning.Amount.String()})
	default:
		s.notifier.Notify(auction.SellerID, "auction_ended",
			fmt.Sprintf("Your auction %s ended without a sale", auction.AuctionID),
			map[string]any{"auction_id": auction.AuctionID, "outcome": outcome})
	}
}
