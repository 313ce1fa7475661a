package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	model "auction-house/internal/models"
	"auction-house/services/auction/helpers"
	"auction-house/utils"
)

type BiddingServiceInterface interface {
	PlaceBid(bidderID, auctionID string, amount decimal.Decimal) (model.Bid, error)
	BidsForAuction(auctionID string) ([]model.Bid, error)
	WinningBid(auctionID string) (model.Bid, error)
	SetProxyBid(userID, auctionID string, ceiling decimal.Decimal) (model.ProxyBid, error)
	RemoveProxyBid(userID, auctionID string) error
	GetProxyBid(userID, auctionID string) (model.ProxyBid, error)
	UserProxyBids(userID string) ([]model.ProxyBid, error)
}

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// PlaceBidHandler handles POST /auctions/:auction_id/bids
func (h *BiddingHandler) PlaceBidHandler(c *gin.Context) {
	bidderID, ok := helpers.CallerID(c)
	if !ok {
		return
	}
	auctionID := c.Param("auction_id")

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(bidderID, auctionID, req.Amount)
	if err != nil {
		helpers.HandleServiceError(c, "PlaceBidHandler", err, map[string]any{
			"auction_id": auctionID,
			"bidder_id":  bidderID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewBidResponse(bid), "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"bid_id":     bid.BidID,
		"auction_id": auctionID,
		"bidder_id":  bidderID,
		"amount":     bid.Amount.String(),
	})
}

// GetBidsHandler handles GET /auctions/:auction_id/bids
func (h *BiddingHandler) GetBidsHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bids, err := h.service.BidsForAuction(auctionID)
	if err != nil {
		helpers.HandleServiceError(c, "GetBidsHandler", err, map[string]any{"auction_id": auctionID})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, b := range bids {
		resp = append(resp, helpers.NewBidResponse(b))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
}

// GetWinningBidHandler handles GET /auctions/:auction_id/winning-bid
func (h *BiddingHandler) GetWinningBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bid, err := h.service.WinningBid(auctionID)
	if err != nil {
		helpers.HandleServiceError(c, "GetWinningBidHandler", err, map[string]any{"auction_id": auctionID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponse(bid), "winning bid retrieved successfully")
}

// SetProxyBidHandler handles PUT /auctions/:auction_id/proxy-bid
func (h *BiddingHandler) SetProxyBidHandler(c *gin.Context) {
	userID, ok := helpers.CallerID(c)
	if !ok {
		return
	}
	auctionID := c.Param("auction_id")

	var req helpers.SetProxyBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SetProxyBidHandler", err)
		return
	}

	proxy, err := h.service.SetProxyBid(userID, auctionID, req.Ceiling)
	if err != nil {
		helpers.HandleServiceError(c, "SetProxyBidHandler", err, map[string]any{
			"auction_id": auctionID,
			"user_id":    userID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewProxyBidResponse(proxy), "proxy bid set successfully")
	helpers.LogSuccess("SetProxyBidHandler", "proxy bid set successfully", map[string]any{
		"auction_id": auctionID,
		"user_id":    userID,
		"ceiling":    proxy.Ceiling.String(),
	})
}

// RemoveProxyBidHandler handles DELETE /auctions/:auction_id/proxy-bid
func (h *BiddingHandler) RemoveProxyBidHandler(c *gin.Context) {
	userID, ok := helpers.CallerID(c)
	if !ok {
		return
	}
	auctionID := c.Param("auction_id")

	if err := h.service.RemoveProxyBid(userID, auctionID); err != nil {
		helpers.HandleServiceError(c, "RemoveProxyBidHandler", err, map[string]any{
			"auction_id": auctionID,
			"user_id":    userID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "proxy bid removed successfully")
	helpers.LogSuccess("RemoveProxyBidHandler", "proxy bid removed successfully", map[string]any{
		"auction_id": auctionID,
		"user_id":    userID,
	})
}

// GetProxyBidHandler handles GET /auctions/:auction_id/proxy-bid
func (h *BiddingHandler) GetProxyBidHandler(c *gin.Context) {
	userID, ok := helpers.CallerID(c)
	if !ok {
		return
	}
	auctionID := c.Param("auction_id")

	proxy, err := h.service.GetProxyBid(userID, auctionID)
	if err != nil {
		helpers.HandleServiceError(c, "GetProxyBidHandler", err, map[string]any{
			"auction_id": auctionID,
			"user_id":    userID,
		})
		return
	}
	utils.JSONResponse(c, http.StatusOK, helpers.NewProxyBidResponse(proxy), "proxy bid retrieved successfully")
}

// ListProxyBidsHandler handles GET /proxy-bids
func (h *BiddingHandler) ListProxyBidsHandler(c *gin.Context) {
	userID, ok := helpers.CallerID(c)
	if !ok {
		return
	}

	proxies, err := h.service.UserProxyBids(userID)
	if err != nil {
		helpers.HandleServiceError(c, "ListProxyBidsHandler", err, map[string]any{"user_id": userID})
		return
	}

	resp := make([]helpers.ProxyBidResponse, 0, len(proxies))
	for _, p := range proxies {
		resp = append(resp, helpers.NewProxyBidResponse(p))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "proxy bids retrieved successfully")
}
