package rules

import "comply-core/pkg/db"

// Rule types with a defined evaluation branch. Other types (for example
// "Frequency") are stored but skipped during evaluation.
const (
	TypeTradeValue      = "Trade Value"
	TypeTradeVolume     = "Trade Volume"
	TypePennyStockValue = "Penny Stock Value"
)

// Instrument categories referenced by the volume and penny-stock branches.
const (
	CategoryBlueChip   = "Blue Chip"
	CategoryPennyStock = "Penny Stock"
)

// TradeFacts carries the fields rule evaluation inspects. Category is an
// evaluation-time classification of the instrument; it is not persisted
// with the trade.
type TradeFacts struct {
	Value    float64
	Volume   int64
	Category string
}

// Evaluate classifies a trade against the given rules in order,
// first match wins. Inactive rules are skipped. All comparisons are
// strict greater-than: a value equal to the threshold does not trigger.
func Evaluate(facts TradeFacts, ruleList []db.Rule) string {
	for _, r := range ruleList {
		if !r.IsActive {
			continue
		}
		switch r.RuleType {
		case TypeTradeValue:
			if facts.Value > r.Threshold {
				return db.StatusFlagged
			}
		case TypeTradeVolume:
			if facts.Category != CategoryBlueChip && float64(facts.Volume) > r.Threshold {
				return db.StatusReview
			}
		case TypePennyStockValue:
			if facts.Category == CategoryPennyStock && facts.Value > r.Threshold {
				return db.StatusFlagged
			}
		}
	}
	return db.StatusNormal
}
