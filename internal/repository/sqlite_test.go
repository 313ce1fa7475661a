package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_AuctionRoundTrip(t *testing.T) {
	store := newTestSQLiteStore(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	a := model.Auction{
		AuctionID:        "a1",
		SellerID:         "seller1",
		Title:            "vintage amp",
		Description:      "warm tubes",
		Category:         "audio",
		StartingPrice:    decimal.RequireFromString("99.50"),
		MinimumIncrement: decimal.NewFromInt(5),
		CurrentPrice:     decimal.RequireFromString("99.50"),
		Status:           model.AuctionPending,
		StartTime:        now.Add(time.Hour),
		EndTime:          now.Add(2 * time.Hour),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	require.NoError(t, store.CreateAuction(a))

	got, err := store.GetAuction("a1")
	require.NoError(t, err)
	require.Equal(t, a.Title, got.Title)
	require.True(t, got.StartingPrice.Equal(a.StartingPrice))
	require.True(t, got.EndTime.Equal(a.EndTime))

	_, err = store.GetAuction("missing")
	require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound))

	got.Status = model.AuctionLive
	got.CurrentPrice = decimal.RequireFromString("110.00")
	got.CurrentLeaderID = "u1"
	require.NoError(t, store.UpdateAuction(got))

	got, err = store.GetAuction("a1")
	require.NoError(t, err)
	require.Equal(t, model.AuctionLive, got.Status)
	require.Equal(t, "u1", got.CurrentLeaderID)

	open, err := store.OpenAuctions()
	require.NoError(t, err)
	require.Len(t, open, 1)

	live, err := store.ListAuctions(model.AuctionLive, 0)
	require.NoError(t, err)
	require.Len(t, live, 1)
	none, err := store.ListAuctions(model.AuctionCompleted, 0)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestSQLiteStore_BidsAndProxyBids(t *testing.T) {
	store := newTestSQLiteStore(t)
	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, store.CreateAuction(sampleAuction("a1", model.AuctionLive, now.Add(time.Hour))))

	for _, b := range []model.Bid{
		{BidID: "b1", AuctionID: "a1", BidderID: "u1", Amount: decimal.NewFromInt(110), HeldAmount: decimal.NewFromInt(110), CreatedAt: now},
		{BidID: "b2", AuctionID: "a1", BidderID: "u2", Amount: decimal.NewFromInt(120), HeldAmount: decimal.NewFromInt(120), CreatedAt: now.Add(time.Second)},
		{BidID: "b3", AuctionID: "a1", BidderID: "u3", Amount: decimal.NewFromInt(120), HeldAmount: decimal.NewFromInt(120), CreatedAt: now.Add(2 * time.Second)},
	} {
		require.NoError(t, store.AppendBid(b))
	}

	winning, ok, err := store.HighestBid("a1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "b2", winning.BidID) // earliest of the two 120s

	bids, err := store.BidsByAuction("a1")
	require.NoError(t, err)
	require.Len(t, bids, 3)
	require.Equal(t, "b3", bids[0].BidID)

	require.True(t, errors.Is(store.AppendBid(model.Bid{BidID: "bx", AuctionID: "missing"}), auctionerrors.ErrAuctionNotFound))

	for _, p := range []model.ProxyBid{
		{ProxyBidID: "p1", AuctionID: "a1", UserID: "u1", Ceiling: decimal.NewFromInt(200), IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ProxyBidID: "p2", AuctionID: "a1", UserID: "u2", Ceiling: decimal.NewFromInt(300), IsActive: true, CreatedAt: now, UpdatedAt: now},
	} {
		require.NoError(t, store.UpsertProxyBid(p))
	}

	eligible, err := store.EligibleProxyBids("a1", decimal.NewFromInt(150))
	require.NoError(t, err)
	require.Len(t, eligible, 2)
	require.Equal(t, "p2", eligible[0].ProxyBidID)

	// upsert overwrites the (auction, user) row
	require.NoError(t, store.UpsertProxyBid(model.ProxyBid{
		ProxyBidID: "p1", AuctionID: "a1", UserID: "u1",
		Ceiling: decimal.NewFromInt(200), IsActive: false, CreatedAt: now, UpdatedAt: now,
	}))
	got, err := store.GetProxyBid("a1", "u1")
	require.NoError(t, err)
	require.False(t, got.IsActive)

	active, err := store.ActiveProxyBidsByUser("u2")
	require.NoError(t, err)
	require.Len(t, active, 1)
}

func TestSQLiteStore_WalletLedger(t *testing.T) {
	store := newTestSQLiteStore(t)
	now := time.Now().UTC()

	w, err := store.EnsureWallet("u1")
	require.NoError(t, err)
	require.True(t, w.TotalBalance.IsZero())

	// EnsureWallet is idempotent
	_, err = store.EnsureWallet("u1")
	require.NoError(t, err)

	seq := 0
	entry := func(id string, kind model.EntryKind, amount, bidID string) model.LedgerEntry {
		seq++
		return model.LedgerEntry{
			EntryID: id, UserID: "u1", Kind: kind,
			Amount: decimal.RequireFromString(amount), AuctionID: "a1", BidID: bidID,
			Status: "completed", CreatedAt: now.Add(time.Duration(seq) * time.Second),
		}
	}

	require.NoError(t, store.ApplyChange("u1", decimal.NewFromInt(500), decimal.Zero, entry("e1", model.EntryDeposit, "500", "")))
	require.NoError(t, store.ApplyChange("u1", decimal.Zero, decimal.NewFromInt(100), entry("e2", model.EntryHold, "100", "b1")))
	require.NoError(t, store.ApplyChange("u1", decimal.NewFromInt(-100), decimal.NewFromInt(-100), entry("e3", model.EntryCapture, "100", "b1")))

	w, err = store.GetWallet("u1")
	require.NoError(t, err)
	require.Equal(t, "400", w.TotalBalance.String())
	require.True(t, w.BlockedBalance.IsZero())

	held, err := store.OutstandingHold("u1", "a1")
	require.NoError(t, err)
	require.True(t, held.IsZero())

	has, err := store.HasEntryForBid("u1", "b1", model.EntryCapture)
	require.NoError(t, err)
	require.True(t, has)

	entries, err := store.EntriesByUser("u1", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "e3", entries[0].EntryID)

	require.True(t, errors.Is(
		store.ApplyChange("nobody", decimal.Zero, decimal.Zero, model.LedgerEntry{EntryID: "ex", CreatedAt: now}),
		auctionerrors.ErrWalletNotFound))
}
