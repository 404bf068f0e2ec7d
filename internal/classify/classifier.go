// Package classify judges verified claims against their evidence bundles
// with a generative model and extracts a structured verdict from the
// free-form response.
package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/factchecker/newsvet/internal/llm"
	"github.com/factchecker/newsvet/internal/models"
	"github.com/factchecker/newsvet/internal/tokens"
	"github.com/rs/zerolog/log"
)

// Token allocation inside the model context window. The evidence budget is
// whatever remains after the instruction overhead and the response reserve.
const (
	PromptTokens           = 300
	ClaimExplanationTokens = 200
)

const systemPrompt = `You are a fact-checking AI. Your task is to classify claims as TRUE, FALSE, or UNVERIFIABLE based on provided articles.
First check whether the articles themselves appear to be reliable sources; if they seem unreliable or contain misinformation, classify the claim as UNVERIFIABLE.
You must respond in exactly this format:
LABEL: [TRUE, FALSE, or UNVERIFIABLE]
EXPLANATION: [2-3 sentences explaining your decision]`

const noArticlesResponse = "No articles available for comparison."

// Classifier assembles a bounded evidence prompt per claim and invokes the
// generative backend.
type Classifier struct {
	provider        llm.Provider
	maxContext      int
	responseReserve int
	temperature     float64
}

// New creates a Classifier. maxContext and responseReserve bound the prompt:
// evidence may use maxContext - responseReserve - instruction overhead.
func New(provider llm.Provider, maxContext, responseReserve int, temperature float64) *Classifier {
	return &Classifier{
		provider:        provider,
		maxContext:      maxContext,
		responseReserve: responseReserve,
		temperature:     temperature,
	}
}

// ArticleTokens returns the evidence budget for one claim.
func (c *Classifier) ArticleTokens() int {
	return c.maxContext - PromptTokens - ClaimExplanationTokens - c.responseReserve
}

// ModelUsed returns the backend model identifier for the report header.
func (c *Classifier) ModelUsed() string {
	return c.provider.Model()
}

// MaxContext returns the configured context window size.
func (c *Classifier) MaxContext() int {
	return c.maxContext
}

// Classify judges one verified claim against its evidence articles. All
// backend failures are folded into the returned record; Classify never
// returns an error.
func (c *Classifier) Classify(ctx context.Context, vc models.VerifiedClaim) models.Classification {
	result := models.Classification{
		Claim:         vc.Claim,
		OriginalClaim: vc.OriginalClaim,
		SearchQuery:   vc.SearchQuery,
		Category:      vc.Category,
		ArticlesUsed:  len(vc.Articles),
		TotalTokens:   vc.TotalTokens,
	}

	if len(vc.Articles) == 0 {
		result.Label = models.LabelUnverifiable
		result.Explanation = "No articles available to verify this claim."
		result.LLMResponse = noArticlesResponse
		return result
	}

	evidence := BuildEvidence(vc.Articles, c.ArticleTokens())
	userPrompt := fmt.Sprintf("CLAIM: %s\n\nARTICLES:\n%s\n\nClassify this claim now. Provide a detailed explanation for your classification.",
		vc.Claim, evidence)

	// Last-resort guard: the whole prompt must leave room for the response.
	promptBudget := c.maxContext - c.responseReserve
	if tokens.Count(userPrompt) > promptBudget {
		log.Warn().
			Int("tokens", tokens.Count(userPrompt)).
			Int("limit", promptBudget).
			Msg("Prompt exceeds token limit, truncating")
		userPrompt = tokens.Truncate(userPrompt, promptBudget)
	}

	opts := llm.CompletionOptions{
		MaxTokens:   c.responseReserve,
		Temperature: c.temperature,
	}

	log.Info().
		Int("evidence_tokens", tokens.Count(evidence)).
		Int("prompt_tokens", tokens.Count(userPrompt)).
		Int("articles", len(vc.Articles)).
		Msg("Sending claim to classifier backend")

	// The backend delivers the response as a fragment stream; it is
	// accumulated into one buffer so extraction runs exactly once.
	var buf strings.Builder
	err := c.provider.CompleteStream(ctx, systemPrompt, userPrompt, opts, func(fragment string) {
		buf.WriteString(fragment)
	})
	if err != nil {
		log.Error().Err(err).Msg("Classifier backend invocation failed")
		result.Label = models.LabelError
		result.Explanation = "Error generating response from the model."
		result.LLMResponse = err.Error()
		return result
	}

	response := buf.String()
	result.Label = ExtractLabel(response)
	result.Explanation = ExtractExplanation(response)
	result.LLMResponse = response
	return result
}

// BuildEvidence concatenates article sections in order until the token
// budget is filled. The article that would overflow the remaining budget is
// truncated rather than dropped, so the bundle fills the budget as tightly
// as possible without exceeding it.
func BuildEvidence(articles []models.Article, maxTokens int) string {
	if len(articles) == 0 {
		return noArticlesResponse
	}

	var b strings.Builder
	remaining := maxTokens

	for i, article := range articles {
		if remaining <= 0 {
			break
		}

		section := fmt.Sprintf("\n\nArticle %d:\nTitle: %s\nSource: %s\nContent: %s",
			i+1, article.Title, article.Source, article.Content)
		sectionTokens := tokens.Count(section)

		if sectionTokens <= remaining {
			b.WriteString(section)
			remaining -= sectionTokens
		} else {
			b.WriteString(tokens.Truncate(section, remaining))
			remaining = 0
		}
	}

	return b.String()
}
