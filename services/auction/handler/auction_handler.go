package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"auction-house/internal/auction"
	model "auction-house/internal/models"
	"auction-house/services/auction/helpers"
	"auction-house/utils"
)

type AuctionServiceInterface interface {
	CreateAuction(sellerID string, p auction.CreateParams) (model.Auction, error)
	UpdateAuction(callerID, callerRole, auctionID string, p auction.UpdateParams) (model.Auction, error)
	CancelAuction(callerID, callerRole, auctionID string) (model.Auction, error)
	GetAuction(auctionID string) (model.Auction, error)
	ListAuctions(status string, limit int) ([]model.Auction, error)
}

type SettlementServiceInterface interface {
	Finalize(auctionID string) (model.Auction, error)
}

type AuctionHandler struct {
	service    AuctionServiceInterface
	settlement SettlementServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface, settlement SettlementServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service, settlement: settlement}
}

// CreateAuctionHandler handles POST /auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	sellerID, ok := helpers.CallerID(c)
	if !ok {
		return
	}

	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	a, err := h.service.CreateAuction(sellerID, auction.CreateParams{
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		StartingPrice:    req.StartingPrice,
		MinimumIncrement: req.MinimumIncrement,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
	})
	if err != nil {
		helpers.HandleServiceError(c, "CreateAuctionHandler", err, map[string]any{"seller_id": sellerID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewAuctionResponse(a), "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": a.AuctionID,
		"seller_id":  sellerID,
		"status":     string(a.Status),
	})
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	a, err := h.service.GetAuction(auctionID)
	if err != nil {
		helpers.HandleServiceError(c, "GetAuctionHandler", err, map[string]any{"auction_id": auctionID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionResponse(a), "auction retrieved successfully")
}

// ListAuctionsHandler handles GET /auctions
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	status := c.Query("status")
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			helpers.HandleBindError(c, "ListAuctionsHandler", fmt.Errorf("limit %q must be a non-negative integer", raw))
			return
		}
		limit = parsed
	}

	auctions, err := h.service.ListAuctions(status, limit)
	if err != nil {
		helpers.HandleServiceError(c, "ListAuctionsHandler", err, map[string]any{"status": status})
		return
	}

	resp := make([]helpers.AuctionResponse, 0, len(auctions))
	for _, a := range auctions {
		resp = append(resp, helpers.NewAuctionResponse(a))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "auctions retrieved successfully")
}

// UpdateAuctionHandler handles PATCH /auctions/:auction_id
func (h *AuctionHandler) UpdateAuctionHandler(c *gin.Context) {
	callerID, ok := helpers.CallerID(c)
	if !ok {
		return
	}
	auctionID := c.Param("auction_id")

	var req helpers.UpdateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateAuctionHandler", err)
		return
	}

	a, err := h.service.UpdateAuction(callerID, helpers.CallerRole(c), auctionID, auction.UpdateParams{
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		StartingPrice:    req.StartingPrice,
		MinimumIncrement: req.MinimumIncrement,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
	})
	if err != nil {
		helpers.HandleServiceError(c, "UpdateAuctionHandler", err, map[string]any{"auction_id": auctionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionResponse(a), "auction updated successfully")
	helpers.LogSuccess("UpdateAuctionHandler", "auction updated successfully", map[string]any{
		"auction_id": auctionID,
	})
}

// CancelAuctionHandler handles POST /auctions/:auction_id/cancel
func (h *AuctionHandler) CancelAuctionHandler(c *gin.Context) {
	callerID, ok := helpers.CallerID(c)
	if !ok {
		return
	}
	auctionID := c.Param("auction_id")

	a, err := h.service.CancelAuction(callerID, helpers.CallerRole(c), auctionID)
	if err != nil {
		helpers.HandleServiceError(c, "CancelAuctionHandler", err, map[string]any{"auction_id": auctionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionResponse(a), "auction cancelled successfully")
	helpers.LogSuccess("CancelAuctionHandler", "auction cancelled successfully", map[string]any{
		"auction_id": auctionID,
	})
}

// FinalizeAuctionHandler handles POST /auctions/:auction_id/finalize. The
// scheduler settles auctions on time; this exists for operators to force or
// retry settlement.
func (h *AuctionHandler) FinalizeAuctionHandler(c *gin.Context) {
	if _, ok := helpers.CallerID(c); !ok {
		return
	}
	if helpers.CallerRole(c) != auction.RoleAdmin {
		utils.JSONError(c, http.StatusForbidden, errors.New("admin role required"), "not allowed")
		return
	}
	auctionID := c.Param("auction_id")

	a, err := h.settlement.Finalize(auctionID)
	if err != nil {
		helpers.HandleServiceError(c, "FinalizeAuctionHandler", err, map[string]any{"auction_id": auctionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionResponse(a), "auction finalized successfully")
	helpers.LogSuccess("FinalizeAuctionHandler", "auction finalized successfully", map[string]any{
		"auction_id": auctionID,
		"status":     string(a.Status),
	})
}
