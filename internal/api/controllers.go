package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"comply-core/internal/advisory"
	"comply-core/internal/rules"
	"comply-core/pkg/db"
)

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "INVALID_ID",
			"error": "invalid id",
		})
		return 0, false
	}
	return id, true
}

// getAlerts returns all trades, newest id first.
func (s *Server) getAlerts(c *gin.Context) {
	trades, err := s.DB.ListTrades(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "INTERNAL_ERROR",
			"error": err.Error(),
		})
		return
	}
	if trades == nil {
		trades = []db.Trade{}
	}
	c.JSON(http.StatusOK, trades)
}

// getAlertSummary returns aggregate alert counts for the dashboard.
func (s *Server) getAlertSummary(c *gin.Context) {
	summary, err := s.DB.GetAlertSummary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "INTERNAL_ERROR",
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// updateAlertStatus sets a trade's review status.
func (s *Server) updateAlertStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Status *string `json:"status"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "INVALID_PAYLOAD",
			"error": "invalid request payload",
		})
		return
	}

	ctx := c.Request.Context()
	trade, err := s.DB.GetTrade(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "INTERNAL_ERROR",
			"error": err.Error(),
		})
		return
	}
	if trade == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code":  "TRADE_NOT_FOUND",
			"error": "trade not found",
		})
		return
	}

	// Absent status keeps the prior value.
	if req.Status != nil {
		trade.Status = *req.Status
		if err := s.DB.UpdateTradeStatus(ctx, id, trade.Status); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":  "INTERNAL_ERROR",
				"error": err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, trade)
}

// createTrade ingests a trade and classifies it against the active rules.
func (s *Server) createTrade(c *gin.Context) {
	var req struct {
		ClientID string  `json:"client_id"`
		PAN      string  `json:"pan"`
		Symbol   string  `json:"symbol"`
		Volume   int64   `json:"volume"`
		Value    float64 `json:"value"`
		Category string  `json:"category"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "INVALID_PAYLOAD",
			"error": "invalid request payload",
		})
		return
	}
	if req.ClientID == "" || req.Symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "MISSING_FIELDS",
			"error": "client_id and symbol are required",
		})
		return
	}

	ctx := c.Request.Context()
	active, err := s.DB.ListActiveRules(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "INTERNAL_ERROR",
			"error": err.Error(),
		})
		return
	}

	trade := db.Trade{
		ClientID: req.ClientID,
		PAN:      req.PAN,
		Symbol:   req.Symbol,
		Volume:   req.Volume,
		Value:    req.Value,
		Status: rules.Evaluate(rules.TradeFacts{
			Value:    req.Value,
			Volume:   req.Volume,
			Category: req.Category,
		}, active),
	}
	id, err := s.DB.CreateTrade(ctx, trade)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "INTERNAL_ERROR",
			"error": err.Error(),
		})
		return
	}

	created, err := s.DB.GetTrade(ctx, id)
	if err != nil || created == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "INTERNAL_ERROR",
			"error": "failed to load created trade",
		})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// analyzeTrade asks the advisory service for a compliance narrative.
// Upstream failures are reported inside the advice body, always 200.
func (s *Server) analyzeTrade(c *gin.Context) {
	var req advisory.TradeDetails
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "INVALID_PAYLOAD",
			"error": "invalid request payload",
		})
		return
	}

	ctx := c.Request.Context()
	active, err := s.DB.ListActiveRules(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "INTERNAL_ERROR",
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"advice": s.Advisory.Advise(ctx, req, active)})
}

// getRules lists rules in evaluation order.
func (s *Server) getRules(c *gin.Context) {
	ruleList, err := s.DB.ListRules(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "INTERNAL_ERROR",
			"error": err.Error(),
		})
		return
	}
	if ruleList == nil {
		ruleList = []db.Rule{}
	}
	c.JSON(http.StatusOK, ruleList)
}

// getRule returns a single rule.
func (s *Server) getRule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rule, err := s.DB.GetRule(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "INTERNAL_ERROR",
			"error": err.Error(),
		})
		return
	}
	if rule == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code":  "RULE_NOT_FOUND",
			"error": "rule not found",
		})
		return
	}
	c.JSON(http.StatusOK, rule)
}

// createRule stores a new rule. is_active defaults to true.
func (s *Server) createRule(c *gin.Context) {
	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		RuleType    string  `json:"rule_type"`
		Threshold   float64 `json:"threshold"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "INVALID_PAYLOAD",
			"error": "invalid request payload",
		})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "MISSING_FIELDS",
			"error": "name is required",
		})
		return
	}

	rule := db.Rule{
		Name:        req.Name,
		Description: req.Description,
		RuleType:    req.RuleType,
		Threshold:   req.Threshold,
		IsActive:    true,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	ctx := c.Request.Context()
	id, err := s.DB.CreateRule(ctx, rule)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "INTERNAL_ERROR",
			"error": err.Error(),
		})
		return
	}

	created, err := s.DB.GetRule(ctx, id)
	if err != nil || created == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "INTERNAL_ERROR",
			"error": "failed to load created rule",
		})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// updateRule applies a partial update: only supplied fields change.
func (s *Server) updateRule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		RuleType    *string  `json:"rule_type"`
		Threshold   *float64 `json:"threshold"`
		IsActive    *bool    `json:"is_active"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "INVALID_PAYLOAD",
			"error": "invalid request payload",
		})
		return
	}

	ctx := c.Request.Context()
	rule, err := s.DB.GetRule(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "INTERNAL_ERROR",
			"error": err.Error(),
		})
		return
	}
	if rule == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code":  "RULE_NOT_FOUND",
			"error": "rule not found",
		})
		return
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Description != nil {
		rule.Description = *req.Description
	}
	if req.RuleType != nil {
		rule.RuleType = *req.RuleType
	}
	if req.Threshold != nil {
		rule.Threshold = *req.Threshold
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := s.DB.UpdateRule(ctx, *rule); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "INTERNAL_ERROR",
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, rule)
}

// deleteRule removes a rule.
func (s *Server) deleteRule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	rule, err := s.DB.GetRule(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "INTERNAL_ERROR",
			"error": err.Error(),
		})
		return
	}
	if rule == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"code":  "RULE_NOT_FOUND",
			"error": "rule not found",
		})
		return
	}
	if err := s.DB.DeleteRule(ctx, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "INTERNAL_ERROR",
			"error": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rule deleted"})
}

// getWatchlist lists watchlist entries, newest first.
func (s *Server) getWatchlist(c *gin.Context) {
	entries, err := s.DB.ListWatchlist(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "INTERNAL_ERROR",
			"error": err.Error(),
		})
		return
	}
	if entries == nil {
		entries = []db.WatchlistEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// addToWatchlist flags a client for heightened scrutiny. The entry's
// added_by is always the authenticated caller, never client-supplied.
func (s *Server) addToWatchlist(c *gin.Context) {
	var req struct {
		ClientID string `json:"client_id"`
		Reason   string `json:"reason"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "INVALID_PAYLOAD",
			"error": "invalid request payload",
		})
		return
	}
	if req.ClientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "MISSING_FIELDS",
			"error": "client_id is required",
		})
		return
	}

	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":  "UNKNOWN_SUBJECT",
			"error": "could not validate credentials",
		})
		return
	}

	ctx := c.Request.Context()
	id, err := s.DB.AddWatchlistEntry(ctx, db.WatchlistEntry{
		ClientID: req.ClientID,
		Reason:   req.Reason,
		AddedBy:  user.Email,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "INTERNAL_ERROR",
			"error": err.Error(),
		})
		return
	}

	created, err := s.DB.GetWatchlistEntry(ctx, id)
	if err != nil || created == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "INTERNAL_ERROR",
			"error": "failed to load created entry",
		})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// getReports returns the fixed report catalog. Report generation itself
// lives outside this service.
func (s *Server) getReports(c *gin.Context) {
	c.JSON(http.StatusOK, []gin.H{
		{"id": 1, "name": "Monthly UCC Submission - Aug 2025", "generated_on": "2025-09-01T10:00:00Z"},
		{"id": 2, "name": "Quarterly High-Value Trades - Q2 2025", "generated_on": "2025-07-15T14:30:00Z"},
	})
}
