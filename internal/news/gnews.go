package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/factchecker/newsvet/internal/models"
)

// GNewsProvider searches using the GNews API.
type GNewsProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGNewsProvider creates a new GNews provider.
func NewGNewsProvider(apiKey, baseURL string, client *http.Client) *GNewsProvider {
	if baseURL == "" {
		baseURL = "https://gnews.io/api/v4"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &GNewsProvider{apiKey: apiKey, baseURL: baseURL, httpClient: client}
}

// Name returns the provider name.
func (p *GNewsProvider) Name() string {
	return "gnews"
}

type gnewsResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Search queries the GNews search endpoint.
func (p *GNewsProvider) Search(ctx context.Context, query string, maxResults int) ([]models.Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("token", p.apiKey)
	params.Set("lang", "en")
	params.Set("max", fmt.Sprintf("%d", maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gnews request failed: %w", err)
	}
	defer resp.Body.Close()

	if quotaStatus(resp.StatusCode) {
		return nil, &QuotaError{Provider: p.Name(), Status: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gnews returned status %d", resp.StatusCode)
	}

	var data gnewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode gnews response: %w", err)
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
