package bidding

import (
	"errors"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
	"auction-house/utils"
)

// ProcessCascade lets standing proxy bids respond to the current price. Each
// round places at most one proxy bid; the loop runs until no proxy can or
// wants to top the price, bounded by maxCascadeDepth.
func (s *Service) ProcessCascade(auctionID string) {
	rounds := 0
	for depth := 0; depth < maxCascadeDepth; depth++ {
		placed, err := s.cascadeRound(auctionID)
		if err != nil {
			utils.Error("cascade round failed", map[string]any{
				"auction_id": auctionID,
				"round":      depth,
				"error":      err.Error(),
			})
			break
		}
		if !placed {
			break
		}
		rounds++
	}
	s.metrics.CascadeRounds(rounds)
	if rounds > 0 {
		utils.Info("proxy bid cascade settled", map[string]any{
			"auction_id": auctionID,
			"rounds":     rounds,
		})
	}
}

// cascadeRound places one proxy bid if any eligible proxy can top the current
// price. It reports whether a placement happened.
func (s *Service) cascadeRound(auctionID string) (bool, error) {
	auction, err := s.store.GetAuction(auctionID)
	if err != nil {
		return false, err
	}
	if auction.Status != model.AuctionLive || !s.now().Before(auction.EndTime) {
		return false, nil
	}

	required := minNextAmount(auction)
	candidates, err := s.store.EligibleProxyBids(auctionID, required)
	if err != nil {
		return false, err
	}

	for _, candidate := range candidates {
		if candidate.UserID == auction.CurrentLeaderID || candidate.UserID == auction.SellerID {
			continue
		}

		// Bid the minimum needed, never past the owner's ceiling.
		target := required
		if target.GreaterThan(candidate.Ceiling) {
			target = candidate.Ceiling
		}

		bid, err := s.placeBid(candidate.UserID, auctionID, target)
		if err != nil {
			// A proxy whose placement fails is retired rather than retried
			// on every future price change; the next candidate still gets
			// its turn in this round.
			reason := "placement failed: " + err.Error()
			if errors.Is(err, auctionerrors.ErrInsufficientFunds) {
				reason = "insufficient funds"
			}
			s.deactivateProxyBid(candidate, reason)
			continue
		}

		candidate.LastPlacedAmount = bid.Amount
		candidate.UpdatedAt = s.now()

		// The ceiling is exhausted once it no longer covers the next
		// required bid after this placement.
		updated, err := s.store.GetAuction(auctionID)
		if err != nil {
			return false, err
		}
		if minNextAmount(updated).GreaterThan(candidate.Ceiling) {
			candidate.IsActive = false
			s.metrics.ProxyBidDeactivated()
			s.notifier.Notify(candidate.UserID, "proxy_exhausted",
				"Your proxy bid has reached its ceiling",
				map[string]any{"auction_id": auctionID, "ceiling": candidate.Ceiling.String()})
		}
		if err := s.store.UpsertProxyBid(candidate); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// deactivateProxyBid retires a proxy bid that can no longer act.
func (s *Service) deactivateProxyBid(p model.ProxyBid, reason string) {
	p.IsActive = false
	p.UpdatedAt = s.now()
	if err := s.store.UpsertProxyBid(p); err != nil {
		utils.Error("failed to deactivate proxy bid", map[string]any{
			"auction_id": p.AuctionID,
			"user_id":    p.UserID,
			"error":      err.Error(),
		})
		return
	}
	s.metrics.ProxyBidDeactivated()
	utils.Warn("proxy bid deactivated", map[string]any{
		"auction_id": p.AuctionID,
		"user_id":    p.UserID,
		"reason":     reason,
	})
}
