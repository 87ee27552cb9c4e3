package db

import (
	"context"
	"testing"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	database, err := New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := ApplyMigrations(database); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}
	return database
}

func TestUserRoundTrip(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	n, err := database.CountUsers(ctx)
	if err != nil || n != 0 {
		t.Fatalf("expected empty users table, got n=%d err=%v", n, err)
	}

	id, err := database.CreateUser(ctx, "officer@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero user id")
	}

	u, err := database.GetUserByEmail(ctx, "officer@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if u == nil || u.Email != "officer@example.com" || u.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", u)
	}

	missing, err := database.GetUserByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail(missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown email, got %+v", missing)
	}
}

func TestTradeListingOrderAndStatusUpdate(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	first, err := database.CreateTrade(ctx, Trade{ClientID: "CL-1", PAN: "P1", Symbol: "AAA", Volume: 10, Value: 100, Status: StatusNormal})
	if err != nil {
		t.Fatalf("CreateTrade: %v", err)
	}
	second, err := database.CreateTrade(ctx, Trade{ClientID: "CL-2", PAN: "P2", Symbol: "BBB", Volume: 20, Value: 200, Status: StatusFlagged})
	if err != nil {
		t.Fatalf("CreateTrade: %v", err)
	}

	trades, err := database.ListTrades(ctx)
	if err != nil {
		t.Fatalf("ListTrades: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	// Newest id first.
	if trades[0].ID != second || trades[1].ID != first {
		t.Fatalf("expected order [%d %d], got [%d %d]", second, first, trades[0].ID, trades[1].ID)
	}

	if err := database.UpdateTradeStatus(ctx, first, StatusReview); err != nil {
		t.Fatalf("UpdateTradeStatus: %v", err)
	}
	got, err := database.GetTrade(ctx, first)
	if err != nil || got == nil {
		t.Fatalf("GetTrade: %v", err)
	}
	if got.Status != StatusReview {
		t.Fatalf("expected status %q, got %q", StatusReview, got.Status)
	}
}

func TestAlertSummaryCounts(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	seedStatuses := []string{StatusNormal, StatusFlagged, StatusFlagged, StatusReview}
	for i, status := range seedStatuses {
		if _, err := database.CreateTrade(ctx, Trade{ClientID: "CL", PAN: "P", Symbol: "S", Volume: int64(i), Value: 1, Status: status}); err != nil {
			t.Fatalf("CreateTrade: %v", err)
		}
	}

	// Same client twice: distinct count must stay 1.
	for i := 0; i < 2; i++ {
		if _, err := database.AddWatchlistEntry(ctx, WatchlistEntry{ClientID: "CL-0815", Reason: "r", AddedBy: "System"}); err != nil {
			t.Fatalf("AddWatchlistEntry: %v", err)
		}
	}

	s, err := database.GetAlertSummary(ctx)
	if err != nil {
		t.Fatalf("GetAlertSummary: %v", err)
	}
	if s.TotalAlerts != 3 || s.Flagged != 2 || s.InReview != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.TotalAlerts != s.Flagged+s.InReview {
		t.Fatalf("total %d != flagged %d + in_review %d", s.TotalAlerts, s.Flagged, s.InReview)
	}
	if s.HighRiskClients != 1 {
		t.Fatalf("expected 1 distinct watchlisted client, got %d", s.HighRiskClients)
	}
}

func TestRuleCRUD(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	id, err := database.CreateRule(ctx, Rule{Name: "High Value", Description: "d", IsActive: true, RuleType: "Trade Value", Threshold: 2500000})
	if err != nil {
		t.Fatalf("CreateRule: %v", err)
	}
	inactive, err := database.CreateRule(ctx, Rule{Name: "Dormant", IsActive: false, RuleType: "Frequency", Threshold: 5})
	if err != nil {
		t.Fatalf("CreateRule: %v", err)
	}

	all, err := database.ListRules(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListRules: len=%d err=%v", len(all), err)
	}
	if all[0].ID != id {
		t.Fatalf("expected id-ascending order, got first id %d", all[0].ID)
	}

	active, err := database.ListActiveRules(ctx)
	if err != nil {
		t.Fatalf("ListActiveRules: %v", err)
	}
	if len(active) != 1 || active[0].ID != id {
		t.Fatalf("expected only active rule %d, got %+v", id, active)
	}

	r, err := database.GetRule(ctx, id)
	if err != nil || r == nil {
		t.Fatalf("GetRule: %v", err)
	}
	r.Threshold = 3000000
	if err := database.UpdateRule(ctx, *r); err != nil {
		t.Fatalf("UpdateRule: %v", err)
	}
	updated, err := database.GetRule(ctx, id)
	if err != nil || updated == nil {
		t.Fatalf("GetRule after update: %v", err)
	}
	if updated.Threshold != 3000000 || updated.Name != "High Value" {
		t.Fatalf("unexpected rule after update: %+v", updated)
	}

	if err := database.DeleteRule(ctx, inactive); err != nil {
		t.Fatalf("DeleteRule: %v", err)
	}
	gone, err := database.GetRule(ctx, inactive)
	if err != nil {
		t.Fatalf("GetRule after delete: %v", err)
	}
	if gone != nil {
		t.Fatalf("expected rule %d deleted, got %+v", inactive, gone)
	}
}

func TestWatchlistNewestFirst(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	if _, err := database.AddWatchlistEntry(ctx, WatchlistEntry{ClientID: "CL-1", Reason: "a", AddedBy: "x"}); err != nil {
		t.Fatalf("AddWatchlistEntry: %v", err)
	}
	newest, err := database.AddWatchlistEntry(ctx, WatchlistEntry{ClientID: "CL-2", Reason: "b", AddedBy: "y"})
	if err != nil {
		t.Fatalf("AddWatchlistEntry: %v", err)
	}

	entries, err := database.ListWatchlist(ctx)
	if err != nil {
		t.Fatalf("ListWatchlist: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != newest {
		t.Fatalf("expected newest first, got %+v", entries)
	}
}

func TestApplyMigrationsIdempotent(t *testing.T) {
	database := newTestDB(t)
	if err := ApplyMigrations(database); err != nil {
		t.Fatalf("second ApplyMigrations: %v", err)
	}
}
