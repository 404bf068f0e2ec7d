// Package verify fact-checks claims: knowledge-backed claims pass through
// untouched, the rest are searched against the news providers and their
// evidence articles fetched in full.
package verify

import (
	"context"
	"time"

	"github.com/factchecker/newsvet/internal/fetch"
	"github.com/factchecker/newsvet/internal/models"
	"github.com/factchecker/newsvet/internal/news"
	"github.com/factchecker/newsvet/internal/tokens"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Verifier resolves one claim at a time to a terminal verification state.
type Verifier struct {
	pool        *news.Pool
	fetcher     *fetch.Fetcher
	maxArticles int
	limiter     *rate.Limiter
}

// New creates a Verifier. interClaimWait spaces out consecutive
// externally-verified claims to stay polite to the news providers.
func New(pool *news.Pool, fetcher *fetch.Fetcher, maxArticles int, interClaimWait time.Duration) *Verifier {
	var limiter *rate.Limiter
	if interClaimWait > 0 {
		limiter = rate.NewLimiter(rate.Every(interClaimWait), 1)
	}
	return &Verifier{
		pool:        pool,
		fetcher:     fetcher,
		maxArticles: maxArticles,
		limiter:     limiter,
	}
}

// Verify fact-checks a single claim. The input claim is never mutated; the
// outcome is a fresh record carrying the claim fields, the evidence
// articles, and a terminal verification tag. Verify never returns an error:
// every failure mode is encoded in the result.
func (v *Verifier) Verify(ctx context.Context, claim models.Claim) models.VerifiedClaim {
	result := models.VerifiedClaim{
		Claim:                     claim.Claim,
		OriginalClaim:             claim.OriginalClaim,
		SearchQuery:               claim.SearchQuery,
		Category:                  claim.Category,
		Confidence:                claim.Confidence,
		Explanation:               claim.Explanation,
		FactCheckNotes:            claim.FactCheckNotes,
		PotentialImpact:           claim.PotentialImpact,
		SourceURL:                 claim.SourceURL,
		PostNumber:                claim.PostNumber,
		Articles:                  []models.Article{},
		NeedsExternalVerification: claim.NeedsExternalVerification,
	}

	// Knowledge path: no network, no budget. The needs_external_verification
	// flag takes absolute precedence over is_historical_claim since it is
	// the field this branch decides on.
	if !claim.NeedsExternalVerification {
		result.VerificationResult = models.ResultVerifiedByKnowledge
		result.HistoricalEvidence = claim.HistoricalEvidence
		log.Info().Str("claim", snippet(claim.Claim)).Msg("Skipping external verification for knowledge-backed claim")
		return result
	}

	if !v.pool.Budget().Remaining() {
		result.VerificationResult = models.ResultSkippedBudgetExhausted
		log.Warn().Str("claim", snippet(claim.Claim)).Msg("Budget exhausted, skipping external verification")
		return result
	}

	articles, provider := v.pool.Search(ctx, claim.Query(), v.maxArticles)
	if len(articles) == 0 {
		result.VerificationResult = models.ResultNoArticlesFound
		log.Warn().Str("claim", snippet(claim.Claim)).Str("provider", provider).Msg("No articles found")
		v.wait(ctx)
		return result
	}

	for _, article := range articles {
		content := v.fetcher.Fetch(ctx, article.URL)
		article.Content = content
		if content != "" {
			article.ContentTokens = tokens.Count(content)
			result.TotalTokens += article.ContentTokens
		} else {
			log.Warn().Str("title", article.Title).Msg("Failed to fetch content for article")
		}
		result.Articles = append(result.Articles, article)
	}

	if result.TotalTokens > 0 {
		result.VerificationResult = models.ResultContentFound
	} else {
		result.VerificationResult = models.ResultNoContentFound
	}

	log.Info().
		Str("provider", provider).
		Int("articles", len(result.Articles)).
		Int("total_tokens", result.TotalTokens).
		Str("result", string(result.VerificationResult)).
		Msg("Claim verified externally")

	v.wait(ctx)
	return result
}

// wait applies the politeness delay after externally-verified claims.
func (v *Verifier) wait(ctx context.Context) {
	if v.limiter == nil {
		return
	}
	if err := v.limiter.Wait(ctx); err != nil {
		log.Warn().Err(err).Msg("Politeness delay interrupted")
	}
}

func snippet(s string) string {
	if len(s) > 80 {
		return s[:80]
	}
	return s
}
