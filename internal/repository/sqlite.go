package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// Monetary amounts are stored as their exact decimal string form and parsed
// back on read; REAL columns would reintroduce binary-float rounding.
const schema = `
CREATE TABLE IF NOT EXISTS auctions (
    auction_id        TEXT PRIMARY KEY,
    seller_id         TEXT NOT NULL,
    title             TEXT NOT NULL,
    description       TEXT NOT NULL DEFAULT '',
    category          TEXT NOT NULL DEFAULT '',
    starting_price    TEXT NOT NULL,
    minimum_increment TEXT NOT NULL,
    current_price     TEXT NOT NULL,
    current_leader_id TEXT NOT NULL DEFAULT '',
    status            TEXT NOT NULL,
    start_time        TEXT NOT NULL,
    end_time          TEXT NOT NULL,
    created_at        TEXT NOT NULL,
    updated_at        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bids (
    bid_id      TEXT PRIMARY KEY,
    auction_id  TEXT NOT NULL,
    bidder_id   TEXT NOT NULL,
    amount      TEXT NOT NULL,
    held_amount TEXT NOT NULL,
    created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS proxy_bids (
    proxy_bid_id       TEXT NOT NULL,
    auction_id         TEXT NOT NULL,
    user_id            TEXT NOT NULL,
    ceiling            TEXT NOT NULL,
    last_placed_amount TEXT NOT NULL,
    is_active          INTEGER NOT NULL DEFAULT 1,
    created_at         TEXT NOT NULL,
    updated_at         TEXT NOT NULL,
    PRIMARY KEY (auction_id, user_id)
);

CREATE TABLE IF NOT EXISTS wallets (
    user_id         TEXT PRIMARY KEY,
    total_balance   TEXT NOT NULL,
    blocked_balance TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS ledger_entries (
    entry_id    TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL,
    kind        TEXT NOT NULL,
    amount      TEXT NOT NULL,
    auction_id  TEXT NOT NULL DEFAULT '',
    bid_id      TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL DEFAULT 'completed',
    created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_auctions_status_end ON auctions(status, end_time);
CREATE INDEX IF NOT EXISTS idx_bids_auction        ON bids(auction_id);
CREATE INDEX IF NOT EXISTS idx_entries_user        ON ledger_entries(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_entries_bid         ON ledger_entries(user_id, bid_id, kind);
`

// SQLiteStore implements Store on SQLite (pure Go driver, no CGo). It backs
// the scheduler's recovery pass: open auctions and outstanding holds survive
// a process restart.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at the given path and applies
// the schema.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("repository.NewSQLiteStore: open %q: %w", dsn, err)
	}
	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("repository.NewSQLiteStore: apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func fmtTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(v string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, v)
	return t
}

func parseAmount(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// CreateAuction stores a new auction.
func (s *SQLiteStore) CreateAuction(a model.Auction) error {
	_, err := s.db.Exec(`
		INSERT INTO auctions
			(auction_id, seller_id, title, description, category, starting_price,
			 minimum_increment, current_price, current_leader_id, status,
			 start_time, end_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.AuctionID, a.SellerID, a.Title, a.Description, a.Category,
		a.StartingPrice.String(), a.MinimumIncrement.String(), a.CurrentPrice.String(),
		a.CurrentLeaderID, string(a.Status),
		fmtTime(a.StartTime), fmtTime(a.EndTime), fmtTime(a.CreatedAt), fmtTime(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create auction %s: %w", a.AuctionID, err)
	}
	return nil
}

func scanAuction(row interface{ Scan(...any) error }) (model.Auction, error) {
	var a model.Auction
	var starting, increment, current, status, start, end, created, updated string
	err := row.Scan(&a.AuctionID, &a.SellerID, &a.Title, &a.Description, &a.Category,
		&starting, &increment, &current, &a.CurrentLeaderID, &status,
		&start, &end, &created, &updated)
	if err != nil {
		return model.Auction{}, err
	}
	a.StartingPrice = parseAmount(starting)
	a.MinimumIncrement = parseAmount(increment)
	a.CurrentPrice = parseAmount(current)
	a.Status = model.AuctionStatus(status)
	a.StartTime = parseTime(start)
	a.EndTime = parseTime(end)
	a.CreatedAt = parseTime(created)
	a.UpdatedAt = parseTime(updated)
	return a, nil
}

const auctionColumns = `auction_id, seller_id, title, description, category, starting_price,
	minimum_increment, current_price, current_leader_id, status,
	start_time, end_time, created_at, updated_at`

// GetAuction returns an auction by id.
func (s *SQLiteStore) GetAuction(auctionID string) (model.Auction, error) {
	row := s.db.QueryRow(`SELECT `+auctionColumns+` FROM auctions WHERE auction_id = ?`, auctionID)
	a, err := scanAuction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, err)
	}
	return a, nil
}

// UpdateAuction overwrites an existing auction.
func (s *SQLiteStore) UpdateAuction(a model.Auction) error {
	res, err := s.db.Exec(`
		UPDATE auctions SET
			seller_id = ?, title = ?, description = ?, category = ?,
			starting_price = ?, minimum_increment = ?, current_price = ?,
			current_leader_id = ?, status = ?, start_time = ?, end_time = ?, updated_at = ?
		WHERE auction_id = ?`,
		a.SellerID, a.Title, a.Description, a.Category,
		a.StartingPrice.String(), a.MinimumIncrement.String(), a.CurrentPrice.String(),
		a.CurrentLeaderID, string(a.Status), fmtTime(a.StartTime), fmtTime(a.EndTime),
		fmtTime(time.Now().UTC()), a.AuctionID,
	)
	if err != nil {
		return fmt.Errorf("update auction %s: %w", a.AuctionID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update auction %s: %w", a.AuctionID, auctionerrors.ErrAuctionNotFound)
	}
	return nil
}

func (s *SQLiteStore) queryAuctions(query string, args ...any) ([]model.Auction, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListAuctions returns auctions ordered by end time ascending.
func (s *SQLiteStore) ListAuctions(status model.AuctionStatus, limit int) ([]model.Auction, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	var (
		out []model.Auction
		err error
	)
	if status == "" {
		out, err = s.queryAuctions(`SELECT `+auctionColumns+` FROM auctions ORDER BY end_time ASC LIMIT ?`, limit)
	} else {
		out, err = s.queryAuctions(`SELECT `+auctionColumns+` FROM auctions WHERE status = ? ORDER BY end_time ASC LIMIT ?`,
			string(status), limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	return out, nil
}

// OpenAuctions returns all pending and live auctions, including those whose
// end time already passed while the service was down.
func (s *SQLiteStore) OpenAuctions() ([]model.Auction, error) {
	out, err := s.queryAuctions(`SELECT ` + auctionColumns + ` FROM auctions
		WHERE status IN ('pending', 'live') ORDER BY end_time ASC`)
	if err != nil {
		return nil, fmt.Errorf("open auctions: %w", err)
	}
	return out, nil
}

// AppendBid records a bid for an auction.
func (s *SQLiteStore) AppendBid(b model.Bid) error {
	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM auctions WHERE auction_id = ?`, b.AuctionID).Scan(&exists); err != nil {
		return fmt.Errorf("append bid for auction %s: %w", b.AuctionID, err)
	}
	if exists == 0 {
		return fmt.Errorf("append bid for auction %s: %w", b.AuctionID, auctionerrors.ErrAuctionNotFound)
	}
	_, err := s.db.Exec(`
		INSERT INTO bids (bid_id, auction_id, bidder_id, amount, held_amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.BidID, b.AuctionID, b.BidderID, b.Amount.String(), b.HeldAmount.String(), fmtTime(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("append bid %s: %w", b.BidID, err)
	}
	return nil
}

func scanBid(row interface{ Scan(...any) error }) (model.Bid, error) {
	var b model.Bid
	var amount, held, created string
	if err := row.Scan(&b.BidID, &b.AuctionID, &b.BidderID, &amount, &held, &created); err != nil {
		return model.Bid{}, err
	}
	b.Amount = parseAmount(amount)
	b.HeldAmount = parseAmount(held)
	b.CreatedAt = parseTime(created)
	return b, nil
}

// BidsByAuction returns all bids for an auction, newest first.
func (s *SQLiteStore) BidsByAuction(auctionID string) ([]model.Bid, error) {
	rows, err := s.db.Query(`
		SELECT bid_id, auction_id, bidder_id, amount, held_amount, created_at
		FROM bids WHERE auction_id = ? ORDER BY created_at DESC`, auctionID)
	if err != nil {
		return nil, fmt.Errorf("bids for auction %s: %w", auctionID, err)
	}
	defer rows.Close()

	var out []model.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("bids for auction %s: %w", auctionID, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// HighestBid returns the winning candidate for an auction. Amounts are stored
// as strings, so ordering happens in Go against exact decimals.
func (s *SQLiteStore) HighestBid(auctionID string) (model.Bid, bool, error) {
	bids, err := s.BidsByAuction(auctionID)
	if err != nil {
		return model.Bid{}, false, err
	}
	if len(bids) == 0 {
		return model.Bid{}, false, nil
	}
	winning := bids[0]
	for _, b := range bids[1:] {
		if b.Amount.GreaterThan(winning.Amount) ||
			(b.Amount.Equal(winning.Amount) && b.CreatedAt.Before(winning.CreatedAt)) {
			winning = b
		}
	}
	return winning, true, nil
}

// UpsertProxyBid creates or replaces the proxy bid for its (auction, user) pair.
func (s *SQLiteStore) UpsertProxyBid(p model.ProxyBid) error {
	_, err := s.db.Exec(`
		INSERT INTO proxy_bids
			(proxy_bid_id, auction_id, user_id, ceiling, last_placed_amount, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(auction_id, user_id) DO UPDATE SET
			ceiling            = excluded.ceiling,
			last_placed_amount = excluded.last_placed_amount,
			is_active          = excluded.is_active,
			updated_at         = excluded.updated_at`,
		p.ProxyBidID, p.AuctionID, p.UserID, p.Ceiling.String(), p.LastPlacedAmount.String(),
		boolToInt(p.IsActive), fmtTime(p.CreatedAt), fmtTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert proxy bid for auction %s user %s: %w", p.AuctionID, p.UserID, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func scanProxyBid(row interface{ Scan(...any) error }) (model.ProxyBid, error) {
	var p model.ProxyBid
	var ceiling, last, created, updated string
	var active int
	if err := row.Scan(&p.ProxyBidID, &p.AuctionID, &p.UserID, &ceiling, &last, &active, &created, &updated); err != nil {
		return model.ProxyBid{}, err
	}
	p.Ceiling = parseAmount(ceiling)
	p.LastPlacedAmount = parseAmount(last)
	p.IsActive = active != 0
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return p, nil
}

const proxyBidColumns = `proxy_bid_id, auction_id, user_id, ceiling, last_placed_amount, is_active, created_at, updated_at`

// GetProxyBid returns the proxy bid for (auction, user), active or not.
func (s *SQLiteStore) GetProxyBid(auctionID, userID string) (model.ProxyBid, error) {
	row := s.db.QueryRow(`SELECT `+proxyBidColumns+` FROM proxy_bids WHERE auction_id = ? AND user_id = ?`,
		auctionID, userID)
	p, err := scanProxyBid(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ProxyBid{}, fmt.Errorf("get proxy bid for auction %s user %s: %w",
			auctionID, userID, auctionerrors.ErrProxyBidNotFound)
	}
	if err != nil {
		return model.ProxyBid{}, fmt.Errorf("get proxy bid for auction %s user %s: %w", auctionID, userID, err)
	}
	return p, nil
}

// EligibleProxyBids returns active proxy bids with ceiling >= minCeiling.
// Decimal comparison and ordering happen in Go against exact values.
func (s *SQLiteStore) EligibleProxyBids(auctionID string, minCeiling decimal.Decimal) ([]model.ProxyBid, error) {
	rows, err := s.db.Query(`SELECT `+proxyBidColumns+` FROM proxy_bids WHERE auction_id = ? AND is_active = 1`,
		auctionID)
	if err != nil {
		return nil, fmt.Errorf("eligible proxy bids for auction %s: %w", auctionID, err)
	}
	defer rows.Close()

	var out []model.ProxyBid
	for rows.Next() {
		p, err := scanProxyBid(rows)
		if err != nil {
			return nil, fmt.Errorf("eligible proxy bids for auction %s: %w", auctionID, err)
		}
		if p.Ceiling.GreaterThanOrEqual(minCeiling) {
			out = append(out, p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Ceiling.Equal(out[j].Ceiling) {
			return out[i].Ceiling.GreaterThan(out[j].Ceiling)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ActiveProxyBidsByUser lists a user's active proxy bids, newest first.
func (s *SQLiteStore) ActiveProxyBidsByUser(userID string) ([]model.ProxyBid, error) {
	rows, err := s.db.Query(`SELECT `+proxyBidColumns+` FROM proxy_bids
		WHERE user_id = ? AND is_active = 1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("proxy bids for user %s: %w", userID, err)
	}
	defer rows.Close()

	var out []model.ProxyBid
	for rows.Next() {
		p, err := scanProxyBid(rows)
		if err != nil {
			return nil, fmt.Errorf("proxy bids for user %s: %w", userID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// EnsureWallet returns the wallet for userID, creating it if missing.
func (s *SQLiteStore) EnsureWallet(userID string) (model.Wallet, error) {
	_, err := s.db.Exec(`INSERT INTO wallets (user_id, total_balance, blocked_balance)
		VALUES (?, '0', '0') ON CONFLICT(user_id) DO NOTHING`, userID)
	if err != nil {
		return model.Wallet{}, fmt.Errorf("ensure wallet for user %s: %w", userID, err)
	}
	return s.GetWallet(userID)
}

// GetWallet returns the wallet for userID.
func (s *SQLiteStore) GetWallet(userID string) (model.Wallet, error) {
	var total, blocked string
	err := s.db.QueryRow(`SELECT total_balance, blocked_balance FROM wallets WHERE user_id = ?`, userID).
		Scan(&total, &blocked)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Wallet{}, fmt.Errorf("get wallet for user %s: %w", userID, auctionerrors.ErrWalletNotFound)
	}
	if err != nil {
		return model.Wallet{}, fmt.Errorf("get wallet for user %s: %w", userID, err)
	}
	return model.Wallet{
		UserID:         userID,
		TotalBalance:   parseAmount(total),
		BlockedBalance: parseAmount(blocked),
	}, nil
}

// ApplyChange adjusts balances and appends the ledger entry in one transaction.
func (s *SQLiteStore) ApplyChange(userID string, totalDelta, blockedDelta decimal.Decimal, entry model.LedgerEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("apply change for user %s: begin: %w", userID, err)
	}
	defer tx.Rollback()

	var total, blocked string
	err = tx.QueryRow(`SELECT total_balance, blocked_balance FROM wallets WHERE user_id = ?`, userID).
		Scan(&total, &blocked)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("apply change for user %s: %w", userID, auctionerrors.ErrWalletNotFound)
	}
	if err != nil {
		return fmt.Errorf("apply change for user %s: %w", userID, err)
	}

	newTotal := parseAmount(total).Add(totalDelta)
	newBlocked := parseAmount(blocked).Add(blockedDelta)
	if _, err := tx.Exec(`UPDATE wallets SET total_balance = ?, blocked_balance = ? WHERE user_id = ?`,
		newTotal.String(), newBlocked.String(), userID); err != nil {
		return fmt.Errorf("apply change for user %s: update: %w", userID, err)
	}

	if _, err := tx.Exec(`
		INSERT INTO ledger_entries (entry_id, user_id, kind, amount, auction_id, bid_id, description, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.EntryID, entry.UserID, string(entry.Kind), entry.Amount.String(),
		entry.AuctionID, entry.BidID, entry.Description, entry.Status, fmtTime(entry.CreatedAt),
	); err != nil {
		return fmt.Errorf("apply change for user %s: insert entry: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("apply change for user %s: commit: %w", userID, err)
	}
	return nil
}

// HasEntryForBid reports whether a ledger entry of the given kind references bidID.
func (s *SQLiteStore) HasEntryForBid(userID, bidID string, kind model.EntryKind) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM ledger_entries WHERE user_id = ? AND bid_id = ? AND kind = ?`,
		userID, bidID, string(kind)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("entry lookup for user %s bid %s: %w", userID, bidID, err)
	}
	return n > 0, nil
}

// OutstandingHold derives the user's net held amount for one auction from the ledger.
func (s *SQLiteStore) OutstandingHold(userID, auctionID string) (decimal.Decimal, error) {
	rows, err := s.db.Query(`SELECT kind, amount FROM ledger_entries WHERE user_id = ? AND auction_id = ?`,
		userID, auctionID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("outstanding hold for user %s auction %s: %w", userID, auctionID, err)
	}
	defer rows.Close()

	held := decimal.Zero
	for rows.Next() {
		var kind, amount string
		if err := rows.Scan(&kind, &amount); err != nil {
			return decimal.Zero, fmt.Errorf("outstanding hold for user %s auction %s: %w", userID, auctionID, err)
		}
		switch model.EntryKind(kind) {
		case model.EntryHold:
			held = held.Add(parseAmount(amount))
		case model.EntryRelease, model.EntryCapture:
			held = held.Sub(parseAmount(amount))
		}
	}
	return held, rows.Err()
}

// EntriesByUser returns the user's ledger history, newest first.
func (s *SQLiteStore) EntriesByUser(userID string, limit int) ([]model.LedgerEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT entry_id, user_id, kind, amount, auction_id, bid_id, description, status, created_at
		FROM ledger_entries WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("entries for user %s: %w", userID, err)
	}
	defer rows.Close()

	var out []model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		var kind, amount, created string
		if err := rows.Scan(&e.EntryID, &e.UserID, &kind, &amount, &e.AuctionID, &e.BidID,
			&e.Description, &e.Status, &created); err != nil {
			return nil, fmt.Errorf("entries for user %s: %w", userID, err)
		}
		e.Kind = model.EntryKind(kind)
		e.Amount = parseAmount(amount)
		e.CreatedAt = parseTime(created)
		out = append(out, e)
	}
	return out, rows.Err()
}
