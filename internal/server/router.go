package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	auctionhandler "auction-house/services/auction/handler"
	wallethandler "auction-house/services/wallet/handler"
)

// Services bundles everything the router exposes over HTTP.
type Services struct {
	Auction    auctionhandler.AuctionServiceInterface
	Settlement auctionhandler.SettlementServiceInterface
	Bidding    auctionhandler.BiddingServiceInterface
	Wallet     wallethandler.WalletServiceInterface
}

// Options tunes the router middleware.
type Options struct {
	// Bid placement rate limit per caller.
	RatePerSecond float64
	RateBurst     int
	// Registry for the /metrics endpoint; nil disables it.
	MetricsRegistry *prometheus.Registry
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(svc Services, opts Options) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging
	router.Use(IdentityMiddleware)      // caller identity from gateway headers

	auctionHandler := auctionhandler.NewAuctionHandler(svc.Auction, svc.Settlement)
	biddingHandler := auctionhandler.NewBiddingHandler(svc.Bidding)
	walletHandler := wallethandler.NewWalletHandler(svc.Wallet)

	limiter := NewRateLimiter(opts.RatePerSecond, opts.RateBurst)

	auctions := router.Group("/auctions")
	{
		auctions.POST("", auctionHandler.CreateAuctionHandler)
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.PATCH("/:auction_id", auctionHandler.UpdateAuctionHandler)
		auctions.POST("/:auction_id/cancel", auctionHandler.CancelAuctionHandler)
		auctions.POST("/:auction_id/finalize", auctionHandler.FinalizeAuctionHandler)

		auctions.POST("/:auction_id/bids", limiter.Middleware, biddingHandler.PlaceBidHandler)
		auctions.GET("/:auction_id/bids", biddingHandler.GetBidsHandler)
		auctions.GET("/:auction_id/winning-bid", biddingHandler.GetWinningBidHandler)

		auctions.PUT("/:auction_id/proxy-bid", limiter.Middleware, biddingHandler.SetProxyBidHandler)
		auctions.DELETE("/:auction_id/proxy-bid", biddingHandler.RemoveProxyBidHandler)
		auctions.GET("/:auction_id/proxy-bid", biddingHandler.GetProxyBidHandler)
	}

	router.GET("/proxy-bids", biddingHandler.ListProxyBidsHandler)

	wallet := router.Group("/wallet")
	{
		wallet.GET("", walletHandler.BalanceHandler)
		wallet.POST("/deposit", walletHandler.DepositHandler)
		wallet.GET("/history", walletHandler.HistoryHandler)
	}

	if opts.MetricsRegistry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.MetricsRegistry, promhttp.HandlerOpts{})))
	}
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
