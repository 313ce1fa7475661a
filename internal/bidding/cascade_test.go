package bidding

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/events"
	"auction-house/internal/locks"
	model "auction-house/internal/models"
	"auction-house/internal/wallet"
)

func TestCascade_SingleProxyRespondsToManualBid(t *testing.T) {
	f := newFixture(t)
	f.addLiveAuction(t, "a1", 100, 5)
	f.fund(t, "u1", 500)
	f.fund(t, "u2", 500)

	// u2 leaves a standing ceiling before anyone bids; it immediately takes
	// the lead at the minimum amount
	proxy, err := f.service.SetProxyBid("u2", "a1", decimal.NewFromInt(200))
	require.NoError(t, err)
	require.Equal(t, "105", proxy.LastPlacedAmount.String())

	a, err := f.store.GetAuction("a1")
	require.NoError(t, err)
	require.Equal(t, "u2", a.CurrentLeaderID)
	require.Equal(t, "105", a.CurrentPrice.String())

	// a manual bid is answered one increment above it
	_, err = f.service.PlaceBid("u1", "a1", decimal.NewFromInt(120))
	require.NoError(t, err)

	a, err = f.store.GetAuction("a1")
	require.NoError(t, err)
	require.Equal(t, "u2", a.CurrentLeaderID)
	require.Equal(t, "125", a.CurrentPrice.String())

	// the proxy owner only has the leading amount blocked
	require.Equal(t, "125", f.balance(t, "u2").BlockedBalance.String())
	require.True(t, f.balance(t, "u1").BlockedBalance.IsZero())
}

func TestCascade_BiddingWarSettlesAtSecondCeilingPlusIncrement(t *testing.T) {
	f := newFixture(t)
	f.addLiveAuction(t, "a1", 100, 5)
	f.fund(t, "u1", 200)
	f.fund(t, "u2", 200)
	f.fund(t, "u3", 200)

	_, err := f.service.SetProxyBid("u2", "a1", decimal.NewFromInt(130))
	require.NoError(t, err)
	_, err = f.service.SetProxyBid("u3", "a1", decimal.NewFromInt(200))
	require.NoError(t, err)

	_, err = f.service.PlaceBid("u1", "a1", decimal.NewFromInt(110))
	require.NoError(t, err)

	// the deeper ceiling wins one increment past the shallower one
	a, err := f.store.GetAuction("a1")
	require.NoError(t, err)
	require.Equal(t, "u3", a.CurrentLeaderID)
	require.Equal(t, "135", a.CurrentPrice.String())

	// the exhausted proxy is retired
	p2, err := f.store.GetProxyBid("a1", "u2")
	require.NoError(t, err)
	require.False(t, p2.IsActive)

	// only the leader has funds blocked
	require.Equal(t, "135", f.balance(t, "u3").BlockedBalance.String())
	require.True(t, f.balance(t, "u2").BlockedBalance.IsZero())
	require.True(t, f.balance(t, "u1").BlockedBalance.IsZero())
}

func TestCascade_StopsAtDepthBound(t *testing.T) {
	f := newFixture(t)
	f.addLiveAuction(t, "a1", 100, 5)
	f.fund(t, "u1", 1000)
	f.fund(t, "u2", 1000)
	f.fund(t, "u3", 1000)

	// two effectively unbounded ceilings would escalate forever; the cascade
	// must stop after its depth bound and resume on the next trigger
	_, err := f.service.SetProxyBid("u2", "a1", decimal.NewFromInt(900))
	require.NoError(t, err)
	_, err = f.service.SetProxyBid("u3", "a1", decimal.NewFromInt(900))
	require.NoError(t, err)

	before, err := f.store.BidsByAuction("a1")
	require.NoError(t, err)

	_, err = f.service.PlaceBid("u1", "a1", decimal.NewFromInt(200))
	require.NoError(t, err)

	after, err := f.store.BidsByAuction("a1")
	require.NoError(t, err)
	require.Equal(t, 1+maxCascadeDepth, len(after)-len(before))
}

func TestCascade_ProxyWithoutFundsIsDeactivated(t *testing.T) {
	f := newFixture(t)
	f.addLiveAuction(t, "a1", 100, 5)
	f.fund(t, "u1", 500)
	f.fund(t, "u2", 50) // cannot cover any bid

	// the proxy is accepted; funds are only checked when it places
	_, err := f.service.SetProxyBid("u2", "a1", decimal.NewFromInt(200))
	require.NoError(t, err)

	p, err := f.store.GetProxyBid("a1", "u2")
	require.NoError(t, err)
	require.False(t, p.IsActive)

	// the manual bidder keeps the lead
	_, err = f.service.PlaceBid("u1", "a1", decimal.NewFromInt(110))
	require.NoError(t, err)
	a, err := f.store.GetAuction("a1")
	require.NoError(t, err)
	require.Equal(t, "u1", a.CurrentLeaderID)
}

func TestCascade_ProxyRetiredWhenCeilingBelowNextRequired(t *testing.T) {
	f := newFixture(t)
	f.addLiveAuction(t, "a1", 100, 5)
	f.fund(t, "u1", 500)
	f.fund(t, "u2", 500)

	// a ceiling strictly between a placeable amount and the next increment
	_, err := f.service.SetProxyBid("u2", "a1", decimal.NewFromInt(116))
	require.NoError(t, err)

	_, err = f.service.PlaceBid("u1", "a1", decimal.NewFromInt(110))
	require.NoError(t, err)

	// the proxy answered with 115 and leads, but 120 is now required and the
	// ceiling cannot cover it
	a, err := f.store.GetAuction("a1")
	require.NoError(t, err)
	require.Equal(t, "u2", a.CurrentLeaderID)
	require.Equal(t, "115", a.CurrentPrice.String())

	p, err := f.store.GetProxyBid("a1", "u2")
	require.NoError(t, err)
	require.False(t, p.IsActive)
	require.Equal(t, "115", p.LastPlacedAmount.String())
	require.NotEmpty(t, f.publisher.BySubject(events.UserSubject("u2", "proxy_exhausted")))
}

// flakyLedger wraps the real ledger but refuses holds for one user.
type flakyLedger struct {
	*wallet.Service
	failUser string
}

func (l *flakyLedger) Hold(userID, auctionID, bidID string, amount decimal.Decimal) (wallet.HoldResult, error) {
	if userID == l.failUser {
		return wallet.HoldResult{}, errors.New("ledger backend unavailable")
	}
	return l.Service.Hold(userID, auctionID, bidID, amount)
}

func TestCascade_PlacementFailureSkipsToNextProxy(t *testing.T) {
	f := newFixture(t)
	f.addLiveAuction(t, "a1", 100, 5)
	f.fund(t, "u1", 500)
	f.fund(t, "u2", 500)
	f.fund(t, "u3", 500)

	now := time.Now().UTC()
	require.NoError(t, f.store.UpsertProxyBid(model.ProxyBid{
		ProxyBidID: "p2", AuctionID: "a1", UserID: "u2",
		Ceiling: decimal.NewFromInt(200), IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, f.store.UpsertProxyBid(model.ProxyBid{
		ProxyBidID: "p3", AuctionID: "a1", UserID: "u3",
		Ceiling: decimal.NewFromInt(150), IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	}))

	broken := NewService(f.store, &flakyLedger{f.wallet, "u2"}, f.publisher,
		events.NewPublisherNotifier(f.publisher), nil, locks.NewKeyedMutex())

	// u2's proxy has the deepest ceiling but cannot place; the cascade must
	// retire it and let u3's proxy answer in the same pass
	_, err := broken.PlaceBid("u1", "a1", decimal.NewFromInt(110))
	require.NoError(t, err)

	p2, err := f.store.GetProxyBid("a1", "u2")
	require.NoError(t, err)
	require.False(t, p2.IsActive)

	a, err := f.store.GetAuction("a1")
	require.NoError(t, err)
	require.Equal(t, "u3", a.CurrentLeaderID)
	require.Equal(t, "115", a.CurrentPrice.String())

	p3, err := f.store.GetProxyBid("a1", "u3")
	require.NoError(t, err)
	require.True(t, p3.IsActive)

	require.True(t, f.balance(t, "u1").BlockedBalance.IsZero())
	require.Equal(t, "115", f.balance(t, "u3").BlockedBalance.String())
}

func TestSetProxyBid_Validation(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(t *testing.T, f *fixture)
		userID        string
		ceiling       string
		expectedError error
	}{
		{
			name: "seller_cannot_set_proxy",
			setup: func(t *testing.T, f *fixture) {
				f.addLiveAuction(t, "a1", 100, 5)
			},
			userID: "seller1", ceiling: "200",
			expectedError: auctionerrors.ErrSelfBid,
		},
		{
			name: "ceiling_below_minimum_next_bid",
			setup: func(t *testing.T, f *fixture) {
				f.addLiveAuction(t, "a1", 100, 5)
			},
			userID: "u1", ceiling: "104",
			expectedError: auctionerrors.ErrBidTooLow,
		},
		{
			name:          "non_positive_ceiling",
			setup:         func(t *testing.T, f *fixture) { f.addLiveAuction(t, "a1", 100, 5) },
			userID:        "u1",
			ceiling:       "0",
			expectedError: auctionerrors.ErrInvalidAmount,
		},
		{
			name:          "sub_cent_ceiling",
			setup:         func(t *testing.T, f *fixture) { f.addLiveAuction(t, "a1", 100, 5) },
			userID:        "u1",
			ceiling:       "110.001",
			expectedError: auctionerrors.ErrInvalidAmount,
		},
		{
			name: "completed_auction",
			setup: func(t *testing.T, f *fixture) {
				now := time.Now().UTC()
				require.NoError(t, f.store.CreateAuction(model.Auction{
					AuctionID: "a1", SellerID: "seller1", Title: "done",
					StartingPrice: decimal.NewFromInt(100), MinimumIncrement: decimal.NewFromInt(5),
					CurrentPrice: decimal.NewFromInt(100), Status: model.AuctionCompleted,
					StartTime: now.Add(-2 * time.Hour), EndTime: now.Add(-time.Hour),
				}))
			},
			userID: "u1", ceiling: "200",
			expectedError: auctionerrors.ErrAuctionNotLive,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			tc.setup(t, f)
			f.fund(t, tc.userID, 1000)

			_, err := f.service.SetProxyBid(tc.userID, "a1", decimal.RequireFromString(tc.ceiling))
			require.Error(t, err)
			require.True(t, errors.Is(err, tc.expectedError), "expected %v, got %v", tc.expectedError, err)
		})
	}
}

func TestProxyBid_UpdateAndRemove(t *testing.T) {
	f := newFixture(t)
	f.addLiveAuction(t, "a1", 100, 5)
	f.fund(t, "u1", 1000)

	first, err := f.service.SetProxyBid("u1", "a1", decimal.NewFromInt(200))
	require.NoError(t, err)

	// updating keeps the record's identity
	second, err := f.service.SetProxyBid("u1", "a1", decimal.NewFromInt(300))
	require.NoError(t, err)
	require.Equal(t, first.ProxyBidID, second.ProxyBidID)
	require.Equal(t, "300", second.Ceiling.String())

	mine, err := f.service.UserProxyBids("u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	require.NoError(t, f.service.RemoveProxyBid("u1", "a1"))
	// removing twice is fine
	require.NoError(t, f.service.RemoveProxyBid("u1", "a1"))

	p, err := f.service.GetProxyBid("u1", "a1")
	require.NoError(t, err)
	require.False(t, p.IsActive)

	mine, err = f.service.UserProxyBids("u1")
	require.NoError(t, err)
	require.Empty(t, mine)

	err = f.service.RemoveProxyBid("u1", "missing")
	require.True(t, errors.Is(err, auctionerrors.ErrProxyBidNotFound))
}
