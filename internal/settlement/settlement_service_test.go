package settlement

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/bidding"
	"auction-house/internal/events"
	"auction-house/internal/locks"
	model "auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/internal/wallet"
)

type fixture struct {
	store      *repository.MemoryStore
	wallet     *wallet.Service
	bidding    *bidding.Service
	settlement *Service
	publisher  *events.MemoryPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	publisher := events.NewMemoryPublisher()
	notifier := events.NewPublisherNotifier(publisher)
	auctionLocks := locks.NewKeyedMutex()
	walletSvc := wallet.NewService(store, publisher, nil)
	return &fixture{
		store:      store,
		wallet:     walletSvc,
		bidding:    bidding.NewService(store, walletSvc, publisher, notifier, nil, auctionLocks),
		settlement: NewService(store, walletSvc, publisher, notifier, nil, auctionLocks),
		publisher:  publisher,
	}
}

func (f *fixture) addLiveAuction(t *testing.T, id string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, f.store.CreateAuction(model.Auction{
		AuctionID:        id,
		SellerID:         "seller1",
		Title:            "test auction",
		StartingPrice:    decimal.NewFromInt(100),
		MinimumIncrement: decimal.NewFromInt(5),
		CurrentPrice:     decimal.NewFromInt(100),
		Status:           model.AuctionLive,
		StartTime:        now.Add(-time.Hour),
		EndTime:          now.Add(time.Hour),
	}))
}

func (f *fixture) fund(t *testing.T, userID string, amount int64) {
	t.Helper()
	_, err := f.wallet.Deposit(userID, decimal.NewFromInt(amount), "test funds")
	require.NoError(t, err)
}

func (f *fixture) bid(t *testing.T, userID, auctionID string, amount int64) {
	t.Helper()
	_, err := f.bidding.PlaceBid(userID, auctionID, decimal.NewFromInt(amount))
	require.NoError(t, err)
}

func (f *fixture) balance(t *testing.T, userID string) model.Wallet {
	t.Helper()
	w, err := f.wallet.Balance(userID)
	require.NoError(t, err)
	return w
}

func TestSettlement_FinalizeWithWinner(t *testing.T) {
	f := newFixture(t)
	f.addLiveAuction(t, "a1")
	f.fund(t, "u1", 500)
	f.fund(t, "u2", 500)

	f.bid(t, "u1", "a1", 110)
	f.bid(t, "u2", "a1", 120)

	a, err := f.settlement.Finalize("a1")
	require.NoError(t, err)
	require.Equal(t, model.AuctionCompleted, a.Status)
	require.Equal(t, "u2", a.CurrentLeaderID)
	require.Equal(t, "120", a.CurrentPrice.String())

	// the winner paid exactly the winning amount
	w2 := f.balance(t, "u2")
	require.Equal(t, "380", w2.TotalBalance.String())
	require.True(t, w2.BlockedBalance.IsZero())

	// the loser got everything back
	w1 := f.balance(t, "u1")
	require.Equal(t, "500", w1.TotalBalance.String())
	require.True(t, w1.BlockedBalance.IsZero())

	require.NotEmpty(t, f.publisher.BySubject(events.AuctionSubject("a1", "finalized")))
	require.NotEmpty(t, f.publisher.BySubject(events.UserSubject("u2", "auction_won")))
	require.NotEmpty(t, f.publisher.BySubject(events.UserSubject("seller1", "auction_sold")))
}

func TestSettlement_WinnerWhoRaisedOwnBidPaysFinalAmountOnly(t *testing.T) {
	f := newFixture(t)
	f.addLiveAuction(t, "a1")
	f.fund(t, "u1", 500)
	f.fund(t, "u2", 500)

	f.bid(t, "u1", "a1", 110)
	f.bid(t, "u2", "a1", 120)
	f.bid(t, "u1", "a1", 130)

	a, err := f.settlement.Finalize("a1")
	require.NoError(t, err)
	require.Equal(t, "u1", a.CurrentLeaderID)

	// u1 pays 130, not 110+130
	w1 := f.balance(t, "u1")
	require.Equal(t, "370", w1.TotalBalance.String())
	require.True(t, w1.BlockedBalance.IsZero())

	w2 := f.balance(t, "u2")
	require.Equal(t, "500", w2.TotalBalance.String())
	require.True(t, w2.BlockedBalance.IsZero())
}

func TestSettlement_FinalizeWithoutBids(t *testing.T) {
	f := newFixture(t)
	f.addLiveAuction(t, "a1")

	a, err := f.settlement.Finalize("a1")
	require.NoError(t, err)
	require.Equal(t, model.AuctionCompleted, a.Status)
	require.Empty(t, a.CurrentLeaderID)
	require.Equal(t, "100", a.CurrentPrice.String())

	require.NotEmpty(t, f.publisher.BySubject(events.UserSubject("seller1", "auction_ended")))
}

func TestSettlement_FinalizeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.addLiveAuction(t, "a1")
	f.fund(t, "u1", 500)
	f.bid(t, "u1", "a1", 110)

	first, err := f.settlement.Finalize("a1")
	require.NoError(t, err)
	second, err := f.settlement.Finalize("a1")
	require.NoError(t, err)
	require.Equal(t, first.Status, second.Status)
	require.Equal(t, first.CurrentLeaderID, second.CurrentLeaderID)

	// no double capture
	w := f.balance(t, "u1")
	require.Equal(t, "390", w.TotalBalance.String())
	require.True(t, w.BlockedBalance.IsZero())
}

// failingLedger wraps the real ledger but refuses captures.
type failingLedger struct {
	*wallet.Service
}

func (l *failingLedger) CaptureBid(userID, auctionID, bidID, description string) (decimal.Decimal, error) {
	return decimal.Zero, errors.New("payment backend unavailable")
}

func TestSettlement_CaptureFailureReleasesEveryone(t *testing.T) {
	f := newFixture(t)
	f.addLiveAuction(t, "a1")
	f.fund(t, "u1", 500)
	f.fund(t, "u2", 500)
	f.bid(t, "u1", "a1", 110)
	f.bid(t, "u2", "a1", 120)

	broken := NewService(f.store, &failingLedger{f.wallet}, f.publisher,
		events.NewPublisherNotifier(f.publisher), nil, locks.NewKeyedMutex())

	a, err := broken.Finalize("a1")
	require.NoError(t, err)
	require.Equal(t, model.AuctionCompleted, a.Status)
	require.Empty(t, a.CurrentLeaderID)

	// nobody paid, nobody is left blocked
	for _, userID := range []string{"u1", "u2"} {
		w := f.balance(t, userID)
		require.Equal(t, "500", w.TotalBalance.String())
		require.True(t, w.BlockedBalance.IsZero())
	}
}

func TestSettlement_FinalizeCancelledAuction(t *testing.T) {
	f := newFixture(t)
	now := time.Now().UTC()
	require.NoError(t, f.store.CreateAuction(model.Auction{
		AuctionID: "a1", SellerID: "seller1", Title: "withdrawn",
		StartingPrice: decimal.NewFromInt(100), MinimumIncrement: decimal.NewFromInt(5),
		CurrentPrice: decimal.NewFromInt(100), Status: model.AuctionCancelled,
		StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour),
	}))

	_, err := f.settlement.Finalize("a1")
	require.True(t, errors.Is(err, auctionerrors.ErrInvalidState))

	_, err = f.settlement.Finalize("missing")
	require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))
}

func TestSettlement_EnsureFundsReleased(t *testing.T) {
	f := newFixture(t)
	f.addLiveAuction(t, "a1")
	f.fund(t, "u1", 500)
	f.bid(t, "u1", "a1", 110)

	// not terminal yet
	err := f.settlement.EnsureFundsReleased("a1")
	require.True(t, errors.Is(err, auctionerrors.ErrInvalidState))

	// cancel behind the settlement service's back, hold still outstanding
	a, err := f.store.GetAuction("a1")
	require.NoError(t, err)
	a.Status = model.AuctionCancelled
	require.NoError(t, f.store.UpdateAuction(a))
	require.Equal(t, "110", f.balance(t, "u1").BlockedBalance.String())

	require.NoError(t, f.settlement.EnsureFundsReleased("a1"))
	require.True(t, f.balance(t, "u1").BlockedBalance.IsZero())

	// safe to run again
	require.NoError(t, f.settlement.EnsureFundsReleased("a1"))
	require.Equal(t, "500", f.balance(t, "u1").TotalBalance.String())
}
