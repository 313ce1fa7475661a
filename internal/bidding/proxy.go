package bidding

import (
	"fmt"

	"github.com/shopspring/decimal"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/events"
	model "auction-house/internal/models"
	"auction-house/utils"
)

// SetProxyBid creates or replaces the caller's standing ceiling on an
// auction. The cascade runs immediately afterwards so the new proxy engages
// without waiting for the next manual bid.
func (s *Service) SetProxyBid(userID, auctionID string, ceiling decimal.Decimal) (model.ProxyBid, error) {
	if ceiling.LessThanOrEqual(decimal.Zero) || !ceiling.Equal(ceiling.Round(2)) {
		return model.ProxyBid{}, fmt.Errorf("set proxy bid on auction %s: ceiling %s: %w",
			auctionID, ceiling, auctionerrors.ErrInvalidAmount)
	}

	auction, err := s.store.GetAuction(auctionID)
	if err != nil {
		return model.ProxyBid{}, fmt.Errorf("set proxy bid on auction %s: %w", auctionID, err)
	}
	if auction.Status.Terminal() || !s.now().Before(auction.EndTime) {
		return model.ProxyBid{}, fmt.Errorf("set proxy bid on auction %s in status %s: %w",
			auctionID, auction.Status, auctionerrors.ErrAuctionNotLive)
	}
	if userID == auction.SellerID {
		return model.ProxyBid{}, fmt.Errorf("set proxy bid on auction %s: %w", auctionID, auctionerrors.ErrSelfBid)
	}
	if required := minNextAmount(auction); ceiling.LessThan(required) {
		return model.ProxyBid{}, fmt.Errorf("set proxy bid on auction %s: ceiling %s below minimum %s: %w",
			auctionID, ceiling, required, auctionerrors.ErrBidTooLow)
	}

	now := s.now()
	proxy := model.ProxyBid{
		ProxyBidID: utils.GenerateID(),
		AuctionID:  auctionID,
		UserID:     userID,
		Ceiling:    ceiling,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if existing, err := s.store.GetProxyBid(auctionID, userID); err == nil {
		proxy.ProxyBidID = existing.ProxyBidID
		proxy.LastPlacedAmount = existing.LastPlacedAmount
		proxy.CreatedAt = existing.CreatedAt
	}
	if err := s.store.UpsertProxyBid(proxy); err != nil {
		return model.ProxyBid{}, fmt.Errorf("set proxy bid on auction %s: %w", auctionID, err)
	}

	s.publisher.Publish(events.AuctionSubject(auctionID, "proxy_bid_set"), map[string]any{
		"auction_id": auctionID,
		"user_id":    userID,
	})
	utils.Info("proxy bid set", map[string]any{
		"auction_id": auctionID,
		"user_id":    userID,
		"ceiling":    ceiling.String(),
	})

	s.ProcessCascade(auctionID)

	// Return the post-cascade record so the caller sees whether it already
	// placed or exhausted itself.
	updated, err := s.store.GetProxyBid(auctionID, userID)
	if err != nil {
		return proxy, nil
	}
	return updated, nil
}

// RemoveProxyBid deactivates the caller's proxy bid on an auction. Funds
// already held for placed bids stay held until outbid or settlement.
func (s *Service) RemoveProxyBid(userID, auctionID string) error {
	proxy, err := s.store.GetProxyBid(auctionID, userID)
	if err != nil {
		return fmt.Errorf("remove proxy bid on auction %s: %w", auctionID, err)
	}
	if !proxy.IsActive {
		return nil
	}
	proxy.IsActive = false
	proxy.UpdatedAt = s.now()
	if err := s.store.UpsertProxyBid(proxy); err != nil {
		return fmt.Errorf("remove proxy bid on auction %s: %w", auctionID, err)
	}
	utils.Info("proxy bid removed", map[string]any{
		"auction_id": auctionID,
		"user_id":    userID,
	})
	return nil
}

// GetProxyBid returns the caller's proxy bid on an auction, active or not.
func (s *Service) GetProxyBid(userID, auctionID string) (model.ProxyBid, error) {
	proxy, err := s.store.GetProxyBid(auctionID, userID)
	if err != nil {
		return model.ProxyBid{}, fmt.Errorf("get proxy bid on auction %s: %w", auctionID, err)
	}
	return proxy, nil
}

// UserProxyBids lists the caller's active proxy bids across auctions.
func (s *Service) UserProxyBids(userID string) ([]model.ProxyBid, error) {
	proxies, err := s.store.ActiveProxyBidsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list proxy bids for user %s: %w", userID, err)
	}
	return proxies, nil
}
