package helpers

import (
	"time"

	"github.com/shopspring/decimal"

	model "auction-house/internal/models"
)

// Request/Response DTOs
type CreateAuctionRequest struct {
	Title            string          `json:"title" binding:"required"`
	Description      string          `json:"description"`
	Category         string          `json:"category"`
	StartingPrice    decimal.Decimal `json:"starting_price"`
	MinimumIncrement decimal.Decimal `json:"minimum_increment"`
	StartTime        time.Time       `json:"start_time" binding:"required"`
	EndTime          time.Time       `json:"end_time" binding:"required"`
}

type UpdateAuctionRequest struct {
	Title            *string          `json:"title"`
	Description      *string          `json:"description"`
	Category         *string          `json:"category"`
	StartingPrice    *decimal.Decimal `json:"starting_price"`
	MinimumIncrement *decimal.Decimal `json:"minimum_increment"`
	StartTime        *time.Time       `json:"start_time"`
	EndTime          *time.Time       `json:"end_time"`
}

type AuctionResponse struct {
	AuctionID        string          `json:"auction_id"`
	SellerID         string          `json:"seller_id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Category         string          `json:"category"`
	StartingPrice    decimal.Decimal `json:"starting_price"`
	MinimumIncrement decimal.Decimal `json:"minimum_increment"`
	CurrentPrice     decimal.Decimal `json:"current_price"`
	CurrentLeaderID  string          `json:"current_leader_id,omitempty"`
	Status           string          `json:"status"`
	StartTime        string          `json:"start_time"`
	EndTime          string          `json:"end_time"`
	CreatedAt        string          `json:"created_at"`
}

type PlaceBidRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

type BidResponse struct {
	BidID     string          `json:"bid_id"`
	AuctionID string          `json:"auction_id"`
	BidderID  string          `json:"bidder_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt string          `json:"created_at"`
}

type SetProxyBidRequest struct {
	Ceiling decimal.Decimal `json:"ceiling" binding:"required"`
}

type ProxyBidResponse struct {
	ProxyBidID       string          `json:"proxy_bid_id"`
	AuctionID        string          `json:"auction_id"`
	UserID           string          `json:"user_id"`
	Ceiling          decimal.Decimal `json:"ceiling"`
	LastPlacedAmount decimal.Decimal `json:"last_placed_amount"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        string          `json:"created_at"`
}

// NewAuctionResponse converts a model auction to its API shape.
func NewAuctionResponse(a model.Auction) AuctionResponse {
	return AuctionResponse{
		AuctionID:        a.AuctionID,
		SellerID:         a.SellerID,
		Title:            a.Title,
		Description:      a.Description,
		Category:         a.Category,
		StartingPrice:    a.StartingPrice,
		MinimumIncrement: a.MinimumIncrement,
		CurrentPrice:     a.CurrentPrice,
		CurrentLeaderID:  a.CurrentLeaderID,
		Status:           string(a.Status),
		StartTime:        a.StartTime.UTC().Format(time.RFC3339),
		EndTime:          a.EndTime.UTC().Format(time.RFC3339),
		CreatedAt:        a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// NewBidResponse converts a model bid to its API shape.
func NewBidResponse(b model.Bid) BidResponse {
	return BidResponse{
		BidID:     b.BidID,
		AuctionID: b.AuctionID,
		BidderID:  b.BidderID,
		Amount:    b.Amount,
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// NewProxyBidResponse converts a model proxy bid to its API shape.
func NewProxyBidResponse(p model.ProxyBid) ProxyBidResponse {
	return ProxyBidResponse{
		ProxyBidID:       p.ProxyBidID,
		AuctionID:        p.AuctionID,
		UserID:           p.UserID,
		Ceiling:          p.Ceiling,
		LastPlacedAmount: p.LastPlacedAmount,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
