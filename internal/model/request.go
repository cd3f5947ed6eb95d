package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// SearchCategory selects the topical slant of an intelligence query.
type SearchCategory string

const (
	CategoryNews        SearchCategory = "news"
	CategoryFinancial   SearchCategory = "financial"
	CategoryCompetitive SearchCategory = "competitive"
	CategoryMarket      SearchCategory = "market"
	CategoryRegulatory  SearchCategory = "regulatory"
)

// RecencyWindow is the caller's "how current" constraint.
type RecencyWindow string

const (
	RecencyHour    RecencyWindow = "hour"
	RecencyDay     RecencyWindow = "day"
	RecencyWeek    RecencyWindow = "week"
	RecencyMonth   RecencyWindow = "month"
	RecencyQuarter RecencyWindow = "quarter"
)

// SearchCategories lists every valid category.
func SearchCategories() []SearchCategory {
	return []SearchCategory{
		CategoryNews, CategoryFinancial, CategoryCompetitive,
		CategoryMarket, CategoryRegulatory,
	}
}

// RecencyWindows lists every valid recency window.
func RecencyWindows() []RecencyWindow {
	return []RecencyWindow{
		RecencyHour, RecencyDay, RecencyWeek, RecencyMonth, RecencyQuarter,
	}
}

// IntelligenceRequest is the inbound request for one intelligence run.
type IntelligenceRequest struct {
	Query          string         `json:"query"`
	SubjectName    string         `json:"subject_name"`
	DomainContext  string         `json:"domain_context"`
	SearchCategory SearchCategory `json:"search_category"`
	RecencyWindow  RecencyWindow  `json:"recency_window"`
}

// Validate trims the free-text fields and normalizes the enums. Query and
// SubjectName must be non-empty after trimming; unknown enum values fall
// back to news/week rather than rejecting the request.
func (r *IntelligenceRequest) Validate() error {
	r.Query = strings.TrimSpace(r.Query)
	r.SubjectName = strings.TrimSpace(r.SubjectName)
	r.DomainContext = strings.TrimSpace(r.DomainContext)

	if r.Query == "" {
		return eris.New("request: query is required")
	}
	if r.SubjectName == "" {
		return eris.New("request: subject_name is required")
	}

	if !validCategory(r.SearchCategory) {
		r.SearchCategory = CategoryNews
	}
	if !validWindow(r.RecencyWindow) {
		r.RecencyWindow = RecencyWeek
	}

	return nil
}

func validCategory(c SearchCategory) bool {
	for _, v := range SearchCategories() {
		if c == v {
			return true
		}
	}
	return false
}

func validWindow(w RecencyWindow) bool {
	for _, v := range RecencyWindows() {
		if w == v {
			return true
		}
	}
	return false
}
