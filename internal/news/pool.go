package news

import (
	"context"
	"sync"

	"github.com/factchecker/newsvet/internal/models"
	"github.com/rs/zerolog/log"
)

// maxFailStreak is the number of consecutive request exceptions after which
// a provider is treated the same as quota-exhausted for the rest of the run.
const maxFailStreak = 2

// Pool fronts the configured providers behind one search call. Providers are
// tried in registration order; a provider that signals quota or permission
// failure is dropped from rotation for the remainder of the run. Every
// provider attempt consumes one unit of the shared call budget.
type Pool struct {
	providers []Provider
	budget    *CallBudget

	mu         sync.Mutex
	exhausted  map[string]bool
	failStreak map[string]int
}

// NewPool creates a provider pool sharing the given call budget.
func NewPool(budget *CallBudget, providers ...Provider) *Pool {
	return &Pool{
		providers:  providers,
		budget:     budget,
		exhausted:  make(map[string]bool),
		failStreak: make(map[string]int),
	}
}

// Budget returns the pool's shared call budget.
func (p *Pool) Budget() *CallBudget {
	return p.budget
}

// markExhausted removes a provider from rotation for the rest of the run.
// All availability transitions funnel through here.
func (p *Pool) markExhausted(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.exhausted[name] {
		p.exhausted[name] = true
		log.Warn().Str("provider", name).Msg("Provider marked unavailable for this run")
	}
}

func (p *Pool) isExhausted(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exhausted[name]
}

// recordFailure counts consecutive request exceptions; the streak resets on
// any successful call.
func (p *Pool) recordFailure(name string) {
	p.mu.Lock()
	streak := p.failStreak[name] + 1
	p.failStreak[name] = streak
	p.mu.Unlock()
	if streak >= maxFailStreak {
		p.markExhausted(name)
	}
}

func (p *Pool) recordSuccess(name string) {
	p.mu.Lock()
	p.failStreak[name] = 0
	p.mu.Unlock()
}

// Search runs the provider loop for query, then once more with a shorter
// alternative query if the first full pass found nothing. It returns the
// articles and the name of the provider that produced them, or ("none") when
// no call could be made at all.
func (p *Pool) Search(ctx context.Context, query string, maxResults int) ([]models.Article, string) {
	if !p.budget.Remaining() {
		log.Warn().Int("max", p.budget.Max()).Msg("API call limit reached, skipping search")
		return nil, "none"
	}

	sanitized := SanitizeQuery(query)
	articles, provider := p.pass(ctx, sanitized, maxResults)
	if len(articles) > 0 {
		return articles, provider
	}

	alt := AlternativeQuery(sanitized)
	if alt == sanitized {
		return nil, provider
	}

	log.Info().Str("query", alt).Msg("Trying alternative query")
	articles, altProvider := p.pass(ctx, alt, maxResults)
	if len(articles) > 0 {
		return articles, altProvider
	}
	if altProvider != "none" {
		provider = altProvider
	}
	return nil, provider
}

// pass walks the providers once in priority order. A budget unit is consumed
// per attempt before the result is inspected; an empty 2xx result advances
// to the next provider without retrying the same one.
func (p *Pool) pass(ctx context.Context, query string, maxResults int) ([]models.Article, string) {
	used := "none"

	for _, provider := range p.providers {
		name := provider.Name()
		if p.isExhausted(name) {
			continue
		}
		if !p.budget.TryConsume() {
			log.Warn().Str("provider", name).Msg("API call limit reached mid-search")
			break
		}

		log.Info().
			Str("provider", name).
			Str("query", query).
			Int("call", p.budget.Used()).
			Int("max", p.budget.Max()).
			Msg("Making news API call")

		articles, err := provider.Search(ctx, query, maxResults)
		used = name

		if err != nil {
			if IsQuotaError(err) {
				log.Error().Err(err).Str("provider", name).Msg("Provider quota exhausted")
				p.markExhausted(name)
			} else {
				log.Error().Err(err).Str("provider", name).Msg("Provider search failed")
				p.recordFailure(name)
			}
			continue
		}

		p.recordSuccess(name)
		if len(articles) > 0 {
			log.Info().Int("count", len(articles)).Str("provider", name).Msg("Articles found")
			return articles, name
		}
		log.Warn().Str("provider", name).Str("query", query).Msg("No articles from provider")
	}

	return nil, used
}
