package db

import (
	"context"
	"database/sql"
	"errors"
)

// CreateUser inserts a new user row and returns its id.
func (d *Database) CreateUser(ctx context.Context, email, passwordHash string) (int64, error) {
	res, err := d.DB.ExecContext(ctx, `
		INSERT INTO users (email, password_hash) VALUES (?, ?)
	`, email, passwordHash)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetUserByEmail returns the user with the given email, or nil when absent.
func (d *Database) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := d.DB.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at FROM users WHERE email = ?
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CountUsers reports how many users exist; zero means a fresh store.
func (d *Database) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := d.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// CreateTrade inserts a trade row with its evaluated status.
func (d *Database) CreateTrade(ctx context.Context, t Trade) (int64, error) {
	res, err := d.DB.ExecContext(ctx, `
		INSERT INTO trades (client_id, pan, symbol, volume, value, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.ClientID, t.PAN, t.Symbol, t.Volume, t.Value, t.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListTrades returns all trades, newest id first.
func (d *Database) ListTrades(ctx context.Context) ([]Trade, error) {
	rows, err := d.DB.QueryContext(ctx, `
		SELECT id, client_id, pan, symbol, volume, value, status, created_at
		FROM trades ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Trade
	for rows.Next() {
		var t Trade
		if err := rows.Scan(&t.ID, &t.ClientID, &t.PAN, &t.Symbol, &t.Volume, &t.Value, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

// GetTrade returns the trade with the given id, or nil when absent.
func (d *Database) GetTrade(ctx context.Context, id int64) (*Trade, error) {
	var t Trade
	err := d.DB.QueryRowContext(ctx, `
		SELECT id, client_id, pan, symbol, volume, value, status, created_at
		FROM trades WHERE id = ?
	`, id).Scan(&t.ID, &t.ClientID, &t.PAN, &t.Symbol, &t.Volume, &t.Value, &t.Status, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTradeStatus sets the status of a trade.
func (d *Database) UpdateTradeStatus(ctx context.Context, id int64, status string) error {
	_, err := d.DB.ExecContext(ctx, `UPDATE trades SET status = ? WHERE id = ?`, status, id)
	return err
}

// GetAlertSummary aggregates non-Normal trade counts and distinct
// watchlisted clients.
func (d *Database) GetAlertSummary(ctx context.Context) (*AlertSummary, error) {
	var s AlertSummary
	err := d.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM trades WHERE status != ?),
			(SELECT COUNT(*) FROM trades WHERE status = ?),
			(SELECT COUNT(*) FROM trades WHERE status = ?),
			(SELECT COUNT(DISTINCT client_id) FROM watchlist)
	`, StatusNormal, StatusFlagged, StatusReview).
		Scan(&s.TotalAlerts, &s.Flagged, &s.InReview, &s.HighRiskClients)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateRule inserts a rule row and returns its id.
func (d *Database) CreateRule(ctx context.Context, r Rule) (int64, error) {
	res, err := d.DB.ExecContext(ctx, `
		INSERT INTO rules (name, description, is_active, rule_type, threshold)
		VALUES (?, ?, ?, ?, ?)
	`, r.Name, r.Description, r.IsActive, r.RuleType, r.Threshold)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRules returns all rules ordered by id.
func (d *Database) ListRules(ctx context.Context) ([]Rule, error) {
	return d.queryRules(ctx, `
		SELECT id, name, description, is_active, rule_type, threshold, created_at
		FROM rules ORDER BY id`)
}

// ListActiveRules returns active rules in evaluation order (id ascending).
func (d *Database) ListActiveRules(ctx context.Context) ([]Rule, error) {
	return d.queryRules(ctx, `
		SELECT id, name, description, is_active, rule_type, threshold, created_at
		FROM rules WHERE is_active = 1 ORDER BY id`)
}

func (d *Database) queryRules(ctx context.Context, query string) ([]Rule, error) {
	rows, err := d.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Rule
	for rows.Next() {
		var r Rule
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.IsActive, &r.RuleType, &r.Threshold, &r.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

// GetRule returns the rule with the given id, or nil when absent.
func (d *Database) GetRule(ctx context.Context, id int64) (*Rule, error) {
	var r Rule
	err := d.DB.QueryRowContext(ctx, `
		SELECT id, name, description, is_active, rule_type, threshold, created_at
		FROM rules WHERE id = ?
	`, id).Scan(&r.ID, &r.Name, &r.Description, &r.IsActive, &r.RuleType, &r.Threshold, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRule overwrites the mutable fields of a rule.
func (d *Database) UpdateRule(ctx context.Context, r Rule) error {
	_, err := d.DB.ExecContext(ctx, `
		UPDATE rules SET name = ?, description = ?, is_active = ?, rule_type = ?, threshold = ?
		WHERE id = ?
	`, r.Name, r.Description, r.IsActive, r.RuleType, r.Threshold, r.ID)
	return err
}

// DeleteRule removes a rule row.
func (d *Database) DeleteRule(ctx context.Context, id int64) error {
	_, err := d.DB.ExecContext(ctx, `DELETE FROM rules WHERE id = ?`, id)
	return err
}

// AddWatchlistEntry inserts a watchlist row and returns its id.
func (d *Database) AddWatchlistEntry(ctx context.Context, w WatchlistEntry) (int64, error) {
	res, err := d.DB.ExecContext(ctx, `
		INSERT INTO watchlist (client_id, reason, added_by) VALUES (?, ?, ?)
	`, w.ClientID, w.Reason, w.AddedBy)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetWatchlistEntry returns the watchlist row with the given id, or nil.
func (d *Database) GetWatchlistEntry(ctx context.Context, id int64) (*WatchlistEntry, error) {
	var w WatchlistEntry
	err := d.DB.QueryRowContext(ctx, `
		SELECT id, client_id, reason, added_by, added_on
		FROM watchlist WHERE id = ?
	`, id).Scan(&w.ID, &w.ClientID, &w.Reason, &w.AddedBy, &w.AddedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ListWatchlist returns all watchlist entries, newest first.
func (d *Database) ListWatchlist(ctx context.Context) ([]WatchlistEntry, error) {
	rows, err := d.DB.QueryContext(ctx, `
		SELECT id, client_id, reason, added_by, added_on
		FROM watchlist ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []WatchlistEntry
	for rows.Next() {
		var w WatchlistEntry
		if err := rows.Scan(&w.ID, &w.ClientID, &w.Reason, &w.AddedBy, &w.AddedOn); err != nil {
			return nil, err
		}
		res = append(res, w)
	}
	return res, rows.Err()
}
