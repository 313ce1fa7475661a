package bidding

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
	"auction-house/internal/wallet"
	"auction-house/utils"
)

// maxCascadeDepth bounds how many proxy placements a single trigger may set
// off. Ten covers any realistic bidding war between standing ceilings.
const maxCascadeDepth = 10

// Ledger is the slice of the wallet service that bidding needs: blocking
// funds for new bids and unblocking them when a bidder is outbid.
type Ledger interface {
	Hold(userID, auctionID, bidID string, amount decimal.Decimal) (wallet.HoldResult, error)
	ReleaseBid(userID, auctionID, bidID string, heldAmount decimal.Decimal, description string) error
	OutstandingHold(userID, auctionID string) (decimal.Decimal, error)
}

// Service arbitrates bids: it validates them against the auction state,
// coordinates fund holds with the wallet ledger, and runs the proxy bid
// cascade after every accepted bid.
type Service struct {
	store        repository.Store
	ledger       Ledger
	publisher    events.Publisher
	notifier     events.Notifier
	metrics      *metrics.Metrics
	auctionLocks *locks.KeyedMutex
	now          func() time.Time
}

// NewService creates a bidding service. auctionLocks must be the same mutex
// set used by settlement so bids and finalization never interleave on one
// auction. metrics may be nil.
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

// PlaceBid places a manual bid and then lets standing proxy bids respond.
// The returned bid reflects the manual placement only; proxy placements are
// visible through the auction's bid list and events.
func (s *Service) PlaceBid(bidderID, auctionID string, amount decimal.Decimal) (model.Bid, error) {
	bid, err := s.placeBid(bidderID, auctionID, amount)
	if err != nil {
		return model.Bid{}, err
	}
	s.ProcessCascade(auctionID)
	return bid, nil
}

// placeBid performs a single placement under the auction lock. Callers must
// not hold the lock.
func (s *Service) placeBid(bidderID, auctionID string, amount decimal.Decimal) (model.Bid, error) {
	s.auctionLocks.Lock(auctionID)
	defer s.auctionLocks.Unlock(auctionID)

	auction, err := s.store.GetAuction(auctionID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("place bid on auction %s: %w", auctionID, err)
	}

	now := s.now()
	if auction.Status != model.AuctionLive || !now.Before(auction.EndTime) {
		s.metrics.BidRejected("not_live")
		return model.Bid{}, fmt.Errorf("place bid on auction %s in status %s: %w",
			auctionID, auction.Status, auctionerrors.ErrAuctionNotLive)
	}
	if bidderID == auction.SellerID {
		s.metrics.BidRejected("self_bid")
		return model.Bid{}, fmt.Errorf("place bid on auction %s: %w", auctionID, auctionerrors.ErrSelfBid)
	}

	minAllowed := minNextAmount(auction)
	if amount.LessThan(minAllowed) {
		s.metrics.BidRejected("too_low")
		return model.Bid{}, fmt.Errorf("place bid on auction %s: amount %s below minimum %s: %w",
			auctionID, amount, minAllowed, auctionerrors.ErrBidTooLow)
	}

	bidID := utils.GenerateID()
	hold, err := s.ledger.Hold(bidderID, auctionID, bidID, amount)
	if err != nil {
		s.metrics.BidRejected("hold_failed")
		return model.Bid{}, fmt.Errorf("place bid on auction %s: %w", auctionID, err)
	}

	// Re-read the leader after the hold succeeded; the hold is the point of
	// no return for the bidder's funds.
	previous, hasPrevious, err := s.store.HighestBid(auctionID)
	if err != nil {
		s.rollbackHold(bidderID, auctionID, bidID, hold.Incremental)
		return model.Bid{}, fmt.Errorf("place bid on auction %s: %w", auctionID, err)
	}

	bid := model.Bid{
		BidID:      bidID,
		AuctionID:  auctionID,
		BidderID:   bidderID,
		Amount:     amount,
		HeldAmount: hold.Incremental,
		CreatedAt:  now,
	}
	if err := s.store.AppendBid(bid); err != nil {
		s.rollbackHold(bidderID, auctionID, bidID, hold.Incremental)
		return model.Bid{}, fmt.Errorf("place bid on auction %s: %w", auctionID, err)
	}

	if hasPrevious && previous.BidderID != bidderID {
		s.releaseOutbid(previous, amount)
	}

	auction.CurrentPrice = amount
	auction.CurrentLeaderID = bidderID
	auction.UpdatedAt = now
	// The appended bid and its hold are the commit point; a failed price
	// update is logged rather than failing the accepted bid.
	if err := s.store.UpdateAuction(auction); err != nil {
		utils.Error("failed to update auction after bid", map[string]any{
			"auction_id": auctionID,
			"bid_id":     bidID,
			"error":      err.Error(),
		})
	}

	s.metrics.BidPlaced()
	s.publisher.Publish(events.AuctionSubject(auctionID, "bid_placed"), bid)
	s.notifier.Notify(auction.SellerID, "bid_received",
		fmt.Sprintf("New bid of %s on auction %s", amount, auctionID),
		map[string]any{
			"auction_id": auctionID,
			"amount":     amount.String(),
		})
	utils.Info("bid placed", map[string]any{
		"auction_id": auctionID,
		"bid_id":     bidID,
		"bidder_id":  bidderID,
		"amount":     amount.String(),
	})
	return bid, nil
}

// releaseOutbid frees everything the displaced leader still has blocked on
// the auction and notifies them.
func (s *Service) releaseOutbid(previous model.Bid, newAmount decimal.Decimal) {
	outstanding, err := s.ledger.OutstandingHold(previous.BidderID, previous.AuctionID)
	if err != nil {
		utils.Error("failed to read outstanding hold for outbid user", map[string]any{
			"auction_id": previous.AuctionID,
			"user_id":    previous.BidderID,
			"error":      err.Error(),
		})
		return
	}
	err = s.ledger.ReleaseBid(previous.BidderID, previous.AuctionID, previous.BidID, outstanding,
		fmt.Sprintf("outbid on auction %s", previous.AuctionID))
	if err != nil {
		utils.Error("failed to release funds for outbid user", map[string]any{
			"auction_id": previous.AuctionID,
			"user_id":    previous.BidderID,
			"error":      err.Error(),
		})
		return
	}
	s.notifier.Notify(previous.BidderID, "outbid",
		fmt.Sprintf("You have been outbid on auction %s", previous.AuctionID),
		map[string]any{
			"auction_id": previous.AuctionID,
			"new_amount": newAmount.String(),
		})
}

// rollbackHold compensates a hold whose bid could not be recorded.
func (s *Service) rollbackHold(bidderID, auctionID, bidID string, held decimal.Decimal) {
	if err := s.ledger.ReleaseBid(bidderID, auctionID, bidID, held, "bid could not be recorded"); err != nil {
		utils.Error("failed to roll back hold", map[string]any{
			"auction_id": auctionID,
			"bid_id":     bidID,
			"error":      err.Error(),
		})
	}
}

// BidsForAuction returns all bids on an auction, newest first.
func (s *Service) BidsForAuction(auctionID string) ([]model.Bid, error) {
	if _, err := s.store.GetAuction(auctionID); err != nil {
		return nil, fmt.Errorf("list bids for auction %s: %w", auctionID, err)
	}
	bids, err := s.store.BidsByAuction(auctionID)
	if err != nil {
		return nil, fmt.Errorf("list bids for auction %s: %w", auctionID, err)
	}
	return bids, nil
}

// WinningBid returns the current winning candidate for an auction.
func (s *Service) WinningBid(auctionID string) (model.Bid, error) {
	if _, err := s.store.GetAuction(auctionID); err != nil {
		return model.Bid{}, fmt.Errorf("winning bid for auction %s: %w", auctionID, err)
	}
	bid, ok, err := s.store.HighestBid(auctionID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("winning bid for auction %s: %w", auctionID, err)
	}
	if !ok {
		return model.Bid{}, fmt.Errorf("winning bid for auction %s: %w", auctionID, auctionerrors.ErrNoBids)
	}
	return bid, nil
}

// minNextAmount is the smallest acceptable bid: the current price plus the
// minimum increment, with the increment floored at one point.
func minNextAmount(a model.Auction) decimal.Decimal {
	increment := a.MinimumIncrement
	if increment.LessThan(decimal.NewFromInt(1)) {
		increment = decimal.NewFromInt(1)
	}
	return a.CurrentPrice.Add(increment)
}
