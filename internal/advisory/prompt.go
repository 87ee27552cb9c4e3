package advisory

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"comply-core/pkg/db"
)

// TradeDetails carries the trade fields embedded in the analysis prompt.
type TradeDetails struct {
	ClientID string  `json:"client_id"`
	PAN      string  `json:"pan"`
	Symbol   string  `json:"symbol"`
	Volume   int64   `json:"volume"`
	Value    float64 `json:"value"`
}

// Indian-market amounts are shown grouped, e.g. ₹2,500,000.
var amounts = message.NewPrinter(language.English)

// BuildPrompt renders the deterministic analysis prompt from the active
// rules and one trade. The model is instructed to answer in Markdown
// following a fixed report skeleton.
func BuildPrompt(trade TradeDetails, activeRules []db.Rule) string {
	var knowledge strings.Builder
	for _, r := range activeRules {
		fmt.Fprintf(&knowledge, "- **%s**: %s (Threshold: ₹%s)\n",
			r.Name, r.Description, amounts.Sprintf("%.0f", r.Threshold))
	}

	var b strings.Builder
	b.WriteString("As an expert compliance AI named ComplyPilot, your analysis must be professional, direct, and in clean Markdown.\n")
	b.WriteString("Base your analysis *exclusively* on the active rules provided. Do not invent information.\n\n")
	b.WriteString("### Active Rules Context:\n")
	b.WriteString(knowledge.String())
	b.WriteString("\n### Trade Alert Details:\n")
	fmt.Fprintf(&b, "- **Client ID:** %s\n", trade.ClientID)
	fmt.Fprintf(&b, "- **PAN:** %s\n", trade.PAN)
	fmt.Fprintf(&b, "- **Symbol:** %s\n", trade.Symbol)
	fmt.Fprintf(&b, "- **Trade Value:** ₹%s\n", amounts.Sprintf("%.0f", trade.Value))
	fmt.Fprintf(&b, "- **Trade Volume:** %s\n", amounts.Sprintf("%d", trade.Volume))
	b.WriteString(`
---
### **Analysis Report**

#### **1. Violated Rule Identification**
*   **Rule Name:** (State the full name of the single most critical rule that was violated. If none, state "No specific rule violations detected.")
*   **Reason for Flag:** (Explain in one sentence *why* the trade violated this rule, referencing the trade's value/volume and the rule's threshold.)

#### **2. Risk Assessment**
*   **Severity Level:** (Assign a severity: **CRITICAL**, **HIGH**, or **MODERATE**. Base this on the rule type, e.g., High Value is Critical.)
*   **Potential Risk:** (Describe the compliance risk in one sentence, e.g., "Potential for market manipulation or laundering of funds.")

#### **3. Recommended Actions**
1.  (Provide the first clear, immediate, actionable step.)
2.  (Provide a second, follow-up action.)
3.  (Provide a third, documentation-related action.)
`)
	return b.String()
}

// ErrorNarrative converts an upstream failure into the Markdown body
// returned to callers in place of an analysis.
func ErrorNarrative(err error) string {
	return fmt.Sprintf("### Error\nCould not reach the AI advisory model. Please ensure the local model server is running.\n\n**Details:**\n`%v`", err)
}
