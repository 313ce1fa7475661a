package auctionerrors

import "errors"

// Not-found errors
var (
	ErrAuctionNotFound  = errors.New("auction not found")
	ErrProxyBidNotFound = errors.New("proxy bid not found")
	ErrWalletNotFound   = errors.New("wallet not found")
	ErrNoBids           = errors.New("no bids found for auction")
)

// State errors
var (
	ErrAuctionNotLive = errors.New("auction is not live")
	ErrInvalidState   = errors.New("invalid auction state")
)

// Validation and funds errors
var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrBidTooLow         = errors.New("bid amount too low")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
)

// Authorization errors
var (
	ErrSelfBid   = errors.New("sellers cannot bid on their own auctions")
	ErrForbidden = errors.New("operation not permitted")
)

// Concurrency errors
var (
	ErrConflict = errors.New("concurrent modification, retry the operation")
)
