package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/factchecker/newsvet/internal/models"
)

// NewsAPIProvider searches using the NewsAPI "everything" endpoint.
type NewsAPIProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewNewsAPIProvider creates a new NewsAPI provider.
func NewNewsAPIProvider(apiKey, baseURL string, client *http.Client) *NewsAPIProvider {
	if baseURL == "" {
		baseURL = "https://newsapi.org/v2"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &NewsAPIProvider{apiKey: apiKey, baseURL: baseURL, httpClient: client}
}

// Name returns the provider name.
func (p *NewsAPIProvider) Name() string {
	return "newsapi"
}

type newsapiResponse struct {
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
	} `json:"articles"`
}

// Search queries the NewsAPI everything endpoint.
func (p *NewsAPIProvider) Search(ctx context.Context, query string, maxResults int) ([]models.Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("apiKey", p.apiKey)
	params.Set("language", "en")
	params.Set("pageSize", fmt.Sprintf("%d", maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi request failed: %w", err)
	}
	defer resp.Body.Close()

	if quotaStatus(resp.StatusCode) {
		return nil, &QuotaError{Provider: p.Name(), Status: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi returned status %d", resp.StatusCode)
	}

	var data newsapiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode newsapi response: %w", err)
	}

	articles := make([]models.Article, 0, len(data.Articles))
	for _, a := range data.Articles {
		articles = append(articles, models.Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
	}
	return articles, nil
}
