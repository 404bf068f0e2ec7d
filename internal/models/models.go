// Package models defines the core data structures used throughout the application.
package models

import (
	"time"
)

// VerificationResult tags the outcome of fact-checking a single claim.
type VerificationResult string

const (
	ResultVerifiedByKnowledge    VerificationResult = "verified_by_knowledge"
	ResultContentFound           VerificationResult = "content_found"
	ResultNoContentFound         VerificationResult = "no_content_found"
	ResultNoArticlesFound        VerificationResult = "no_articles_found"
	ResultSkippedBudgetExhausted VerificationResult = "skipped_budget_exhausted"
)

// Label is the classifier's final verdict on a claim.
type Label string

const (
	LabelTrue         Label = "TRUE"
	LabelFalse        Label = "FALSE"
	LabelUnverifiable Label = "UNVERIFIABLE"
	LabelError        Label = "ERROR"
)

// Claim is a candidate factual assertion produced by the upstream
// extraction stage. It is consumed read-only; verification attaches a new
// VerifiedClaim rather than mutating the input.
type Claim struct {
	Claim                     string `json:"claim"`
	OriginalClaim             string `json:"original_claim,omitempty"`
	Category                  string `json:"category,omitempty"`
	SearchQuery               string `json:"search_query"`
	NeedsExternalVerification bool   `json:"needs_external_verification"`
	IsHistoricalClaim         bool   `json:"is_historical_claim,omitempty"`
	HistoricalEvidence        string `json:"historical_evidence,omitempty"`
	Confidence                string `json:"confidence,omitempty"`
	Explanation               string `json:"explanation,omitempty"`
	FactCheckNotes            string `json:"fact_check_notes,omitempty"`
	PotentialImpact           string `json:"potential_impact,omitempty"`
	SourceURL                 string `json:"source_url,omitempty"`
	PostNumber                int    `json:"post_number,omitempty"`
}

// Query returns the search query for the claim, falling back to the claim
// text when the upstream stage left the query empty.
func (c Claim) Query() string {
	if c.SearchQuery != "" {
		return c.SearchQuery
	}
	return c.Claim
}

// Article is one evidence unit returned by a news provider. Content is
// populated by the article fetcher and is empty when the fetch failed;
// ContentTokens always reflects the current Content value.
type Article struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	URL           string `json:"url"`
	Source        string `json:"source"`
	PublishedAt   string `json:"publishedAt"`
	Content       string `json:"content"`
	ContentTokens int    `json:"content_tokens"`
}

// VerifiedClaim is the fact-check record for one claim: the claim fields
// plus the evidence articles and the verification outcome.
type VerifiedClaim struct {
	Claim                     string             `json:"claim"`
	OriginalClaim             string             `json:"original_claim"`
	SearchQuery               string             `json:"search_query"`
	Category                  string             `json:"category"`
	Confidence                string             `json:"confidence"`
	Explanation               string             `json:"explanation"`
	FactCheckNotes            string             `json:"fact_check_notes"`
	PotentialImpact           string             `json:"potential_impact"`
	SourceURL                 string             `json:"source_url"`
	PostNumber                int                `json:"post_number"`
	HistoricalEvidence        string             `json:"historical_evidence,omitempty"`
	Articles                  []Article          `json:"articles"`
	TotalTokens               int                `json:"total_tokens"`
	VerificationResult        VerificationResult `json:"verification_result"`
	NeedsExternalVerification bool               `json:"needs_external_verification"`
}

// FactCheckReport is the persisted output of the verification stage.
type FactCheckReport struct {
	Timestamp      time.Time       `json:"timestamp"`
	VerifiedClaims []VerifiedClaim `json:"verified_claims"`
}

// Classification is the LLM judgment for one claim.
type Classification struct {
	Claim         string `json:"claim"`
	OriginalClaim string `json:"original_claim"`
	SearchQuery   string `json:"search_query"`
	Category      string `json:"category"`
	Label         Label  `json:"label"`
	Explanation   string `json:"explanation"`
	LLMResponse   string `json:"llm_response"`
	ArticlesUsed  int    `json:"articles_used"`
	TotalTokens   int    `json:"total_tokens"`
}

// ClassificationReport is the persisted output of the classification stage.
type ClassificationReport struct {
	Timestamp       time.Time        `json:"timestamp"`
	ModelUsed       string           `json:"model_used"`
	MaxTokens       int              `json:"max_tokens"`
	Classifications []Classification `json:"classifications"`
}

// RunSummary aggregates one full pipeline run for the run store.
type RunSummary struct {
	ID                 string    `json:"id"`
	ClaimsHash         string    `json:"claims_hash"`
	TotalClaims        int       `json:"total_claims"`
	TrueCount          int       `json:"true_count"`
	FalseCount         int       `json:"false_count"`
	UnverifiableCount  int       `json:"unverifiable_count"`
	ErrorCount         int       `json:"error_count"`
	APICallsUsed       int       `json:"api_calls_used"`
	FactCheckPath      string    `json:"fact_check_path"`
	ClassificationPath string    `json:"classification_path"`
	ProcessingTimeMs   int64     `json:"processing_time_ms"`
	CreatedAt          time.Time `json:"created_at"`
}
