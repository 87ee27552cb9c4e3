package advisory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"comply-core/pkg/db"
)

func sampleRules() []db.Rule {
	return []db.Rule{
		{Name: "High Value Transaction", Description: "Flags trades exceeding a specific value.", IsActive: true, RuleType: "Trade Value", Threshold: 2500000},
	}
}

func sampleTrade() TradeDetails {
	return TradeDetails{
		ClientID: "CL-1001",
		PAN:      "ABCDE1234F",
		Symbol:   "RELIANCE (NSE)",
		Volume:   12000,
		Value:    36000000,
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(sampleTrade(), sampleRules())

	for _, want := range []string{
		"**High Value Transaction**",
		"(Threshold: ₹2,500,000)",
		"- **Client ID:** CL-1001",
		"- **Trade Value:** ₹36,000,000",
		"- **Trade Volume:** 12,000",
		"#### **1. Violated Rule Identification**",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestAdviseReturnsTrimmedCompletion(t *testing.T) {
	var gotReq ChatRequest
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": "  ### Analysis\nAll good.  \n"}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL+"/v1", "test-model", 5*time.Second)
	advice := client.Advise(context.Background(), sampleTrade(), sampleRules())

	if advice != "### Analysis\nAll good." {
		t.Fatalf("unexpected advice: %q", advice)
	}
	if gotReq.Temperature != 0.2 {
		t.Errorf("expected temperature 0.2, got %v", gotReq.Temperature)
	}
	if gotReq.MaxTokens != 500 {
		t.Errorf("expected max_tokens 500, got %d", gotReq.MaxTokens)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Errorf("unexpected messages: %+v", gotReq.Messages)
	}
}

func TestAdviseDegradesOnUnreachableUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // nothing listening anymore

	client := NewClient(upstream.URL+"/v1", "test-model", time.Second)
	advice := client.Advise(context.Background(), sampleTrade(), sampleRules())

	if !strings.HasPrefix(advice, "### Error") {
		t.Fatalf("expected error narrative, got %q", advice)
	}
	if !strings.Contains(advice, "**Details:**") {
		t.Fatalf("expected failure detail in narrative, got %q", advice)
	}
}

func TestAdviseDegradesOnUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL+"/v1", "test-model", time.Second)
	advice := client.Advise(context.Background(), sampleTrade(), sampleRules())

	if !strings.HasPrefix(advice, "### Error") {
		t.Fatalf("expected error narrative, got %q", advice)
	}
	if !strings.Contains(advice, "API error 500") {
		t.Fatalf("expected status detail, got %q", advice)
	}
}

func TestCompletionRejectsEmptyChoices(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL+"/v1", "test-model", time.Second)
	if _, err := client.Completion(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
