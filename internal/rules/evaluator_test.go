package rules

import (
	"testing"

	"comply-core/pkg/db"
)

func activeRule(id int64, ruleType string, threshold float64) db.Rule {
	return db.Rule{ID: id, Name: ruleType, IsActive: true, RuleType: ruleType, Threshold: threshold}
}

func defaultRuleSet() []db.Rule {
	return []db.Rule{
		activeRule(1, TypeTradeValue, 2500000),
		activeRule(2, TypeTradeVolume, 50000),
		activeRule(3, TypePennyStockValue, 500000),
		{ID: 4, Name: "Frequency", IsActive: false, RuleType: "Frequency", Threshold: 5},
	}
}

func TestEvaluateSeedLiterals(t *testing.T) {
	ruleSet := defaultRuleSet()

	tests := []struct {
		name  string
		facts TradeFacts
		want  string
	}{
		{
			name:  "high value blue chip is flagged",
			facts: TradeFacts{Value: 36000000, Volume: 12000, Category: CategoryBlueChip},
			want:  db.StatusFlagged,
		},
		{
			name:  "high volume penny stock under value threshold goes to review",
			facts: TradeFacts{Value: 2250000, Volume: 150000, Category: CategoryPennyStock},
			want:  db.StatusReview,
		},
		{
			name:  "modest blue chip trade is normal",
			facts: TradeFacts{Value: 1200000, Volume: 400, Category: CategoryBlueChip},
			want:  db.StatusNormal,
		},
		{
			name:  "penny stock over value threshold still flagged by value rule first",
			facts: TradeFacts{Value: 4000000, Volume: 80000, Category: CategoryPennyStock},
			want:  db.StatusFlagged,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(tc.facts, ruleSet); got != tc.want {
				t.Errorf("Evaluate() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEvaluateStrictThreshold(t *testing.T) {
	ruleSet := []db.Rule{activeRule(1, TypeTradeValue, 2500000)}

	// Equal to the threshold must not trigger.
	if got := Evaluate(TradeFacts{Value: 2500000, Category: CategoryBlueChip}, ruleSet); got != db.StatusNormal {
		t.Errorf("value == threshold: got %q, want %q", got, db.StatusNormal)
	}
	if got := Evaluate(TradeFacts{Value: 2500000.01, Category: CategoryBlueChip}, ruleSet); got != db.StatusFlagged {
		t.Errorf("value just above threshold: got %q, want %q", got, db.StatusFlagged)
	}
}

func TestEvaluateOrderDecides(t *testing.T) {
	facts := TradeFacts{Value: 2250000, Volume: 150000, Category: CategoryPennyStock}

	// Volume rule first: the trade matches both the volume and penny-stock
	// branches, so whichever is listed first wins.
	volumeFirst := []db.Rule{
		activeRule(1, TypeTradeVolume, 50000),
		activeRule(2, TypePennyStockValue, 500000),
	}
	if got := Evaluate(facts, volumeFirst); got != db.StatusReview {
		t.Errorf("volume rule first: got %q, want %q", got, db.StatusReview)
	}

	pennyFirst := []db.Rule{
		activeRule(1, TypePennyStockValue, 500000),
		activeRule(2, TypeTradeVolume, 50000),
	}
	if got := Evaluate(facts, pennyFirst); got != db.StatusFlagged {
		t.Errorf("penny stock rule first: got %q, want %q", got, db.StatusFlagged)
	}
}

func TestEvaluateInactiveRulesIgnored(t *testing.T) {
	ruleSet := []db.Rule{
		{ID: 1, IsActive: false, RuleType: TypeTradeValue, Threshold: 1000},
	}
	if got := Evaluate(TradeFacts{Value: 5000000}, ruleSet); got != db.StatusNormal {
		t.Errorf("inactive rule triggered: got %q, want %q", got, db.StatusNormal)
	}
}

func TestEvaluateUnknownTypeSkipped(t *testing.T) {
	ruleSet := []db.Rule{
		activeRule(1, "Frequency", 1),
		activeRule(2, TypeTradeValue, 2500000),
	}
	// The frequency rule has no evaluation branch; the value rule still runs.
	if got := Evaluate(TradeFacts{Value: 3000000}, ruleSet); got != db.StatusFlagged {
		t.Errorf("got %q, want %q", got, db.StatusFlagged)
	}
}

func TestEvaluateNoRules(t *testing.T) {
	if got := Evaluate(TradeFacts{Value: 99999999, Volume: 99999999}, nil); got != db.StatusNormal {
		t.Errorf("got %q, want %q", got, db.StatusNormal)
	}
}

func TestEvaluateVolumeRuleSkipsBlueChip(t *testing.T) {
	ruleSet := []db.Rule{activeRule(1, TypeTradeVolume, 50000)}
	if got := Evaluate(TradeFacts{Volume: 150000, Category: CategoryBlueChip}, ruleSet); got != db.StatusNormal {
		t.Errorf("blue chip volume triggered: got %q, want %q", got, db.StatusNormal)
	}
}
