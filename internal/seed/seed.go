// Package seed bootstraps a fresh store with the initial compliance
// dataset: one admin user, the default rule set, a watchlist entry and a
// batch of sample trades classified through the rule evaluator.
package seed

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"comply-core/internal/rules"
	"comply-core/pkg/db"
)

const (
	adminEmail    = "admin@complypilot.com"
	adminPassword = "password"
)

// seedTrade pairs a trade with its evaluation-time instrument category.
type seedTrade struct {
	trade    db.Trade
	category string
}

func defaultRules() []db.Rule {
	return []db.Rule{
		{
			Name:        "High Value Transaction",
			Description: "Flags trades exceeding a specific value.",
			IsActive:    true,
			RuleType:    rules.TypeTradeValue,
			Threshold:   2500000,
		},
		{
			Name:        "High Volume Stock",
			Description: "Flags trades for a specific stock volume in non-blue chip stocks.",
			IsActive:    true,
			RuleType:    rules.TypeTradeVolume,
			Threshold:   50000,
		},
		{
			Name:        "Penny Stock Manipulation",
			Description: "Flags high value trades in known penny stocks.",
			IsActive:    true,
			RuleType:    rules.TypePennyStockValue,
			Threshold:   500000,
		},
		{
			Name:        "Inactive Frequent Trading Rule",
			Description: "Flags clients executing many trades in a short period.",
			IsActive:    false,
			RuleType:    "Frequency",
			Threshold:   5,
		},
	}
}

func sampleTrades() []seedTrade {
	return []seedTrade{
		{db.Trade{ClientID: "CL-1001", PAN: "ABCDE1234F", Symbol: "RELIANCE (NSE)", Volume: 12000, Value: 36000000}, rules.CategoryBlueChip},
		{db.Trade{ClientID: "CL-1002", PAN: "FGHIJ5678K", Symbol: "SUZLON (BSE)", Volume: 80000, Value: 4000000}, rules.CategoryPennyStock},
		{db.Trade{ClientID: "CL-1003", PAN: "KLMNO9012P", Symbol: "TCS (NSE)", Volume: 400, Value: 1200000}, rules.CategoryBlueChip},
		{db.Trade{ClientID: "CL-1004", PAN: "QRSUV3456W", Symbol: "YESBANK (NSE)", Volume: 150000, Value: 2250000}, rules.CategoryPennyStock},
		{db.Trade{ClientID: "CL-1005", PAN: "XYZAB7890C", Symbol: "IDEA (NSE)", Volume: 500000, Value: 750000}, rules.CategoryPennyStock},
	}
}

// IsFresh reports whether the store has never been seeded.
func IsFresh(ctx context.Context, database *db.Database) (bool, error) {
	n, err := database.CountUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n == 0, nil
}

// Run seeds the initial dataset. When rulesConfigPath points at a readable
// YAML file its rules replace the built-in defaults. Run must only be
// called on a fresh store; it is not idempotent.
func Run(ctx context.Context, database *db.Database, rulesConfigPath string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if _, err := database.CreateUser(ctx, adminEmail, string(hash)); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	ruleSet := defaultRules()
	if rulesConfigPath != "" {
		if configs, err := rules.LoadConfig(rulesConfigPath); err == nil && len(configs) > 0 {
			ruleSet = rules.ToRules(configs)
			log.Printf("[SEED] loaded %d rules from %s", len(ruleSet), rulesConfigPath)
		}
	}
	for i := range ruleSet {
		id, err := database.CreateRule(ctx, ruleSet[i])
		if err != nil {
			return fmt.Errorf("seed rule %q: %w", ruleSet[i].Name, err)
		}
		ruleSet[i].ID = id
	}

	if _, err := database.AddWatchlistEntry(ctx, db.WatchlistEntry{
		ClientID: "CL-0815",
		Reason:   "Previous history of wash trading.",
		AddedBy:  "System",
	}); err != nil {
		return fmt.Errorf("seed watchlist: %w", err)
	}

	// Classify each sample trade against the seeded rules in list order.
	for _, st := range sampleTrades() {
		t := st.trade
		t.Status = rules.Evaluate(rules.TradeFacts{
			Value:    t.Value,
			Volume:   t.Volume,
			Category: st.category,
		}, ruleSet)
		if _, err := database.CreateTrade(ctx, t); err != nil {
			return fmt.Errorf("seed trade %s: %w", t.ClientID, err)
		}
	}

	return nil
}
