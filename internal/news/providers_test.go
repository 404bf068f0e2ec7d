package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGNewsSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q, want /search", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("token") != "key123" {
			t.Errorf("token = %q, want key123", q.Get("token"))
		}
		if q.Get("q") != "test claim" {
			t.Errorf("q = %q, want 'test claim'", q.Get("q"))
		}
		if q.Get("lang") != "en" {
			t.Errorf("lang = %q, want en", q.Get("lang"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"articles":[{"title":"T1","description":"D1","url":"http://example.com/1","publishedAt":"2024-01-01T00:00:00Z","source":{"name":"Example"}}]}`))
	}))
	defer server.Close()

	p := NewGNewsProvider("key123", server.URL, server.Client())
	articles, err := p.Search(context.Background(), "test claim", 10)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("got %d articles, want 1", len(articles))
	}
	a := articles[0]
	if a.Title != "T1" || a.Source != "Example" || a.URL != "http://example.com/1" {
		t.Errorf("unexpected article mapping: %+v", a)
	}
}

func TestNewsAPISearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/everything" {
			t.Errorf("path = %q, want /everything", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("apiKey") != "key456" {
			t.Errorf("apiKey = %q, want key456", q.Get("apiKey"))
		}
		if q.Get("language") != "en" {
			t.Errorf("language = %q, want en", q.Get("language"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"articles":[{"title":"T2","description":"D2","url":"http://example.com/2","publishedAt":"2024-02-02T00:00:00Z","source":{"name":"Other"}}]}`))
	}))
	defer server.Close()

	p := NewNewsAPIProvider("key456", server.URL, server.Client())
	articles, err := p.Search(context.Background(), "another claim", 5)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(articles) != 1 || articles[0].Source != "Other" {
		t.Fatalf("unexpected articles: %+v", articles)
	}
}

func TestProviderQuotaStatuses(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusForbidden} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		p := NewGNewsProvider("k", server.URL, server.Client())
		_, err := p.Search(context.Background(), "q", 1)
		if !IsQuotaError(err) {
			t.Errorf("status %d: error %v not recognized as quota error", status, err)
		}
		server.Close()
	}
}

func TestProviderServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewNewsAPIProvider("k", server.URL, server.Client())
	_, err := p.Search(context.Background(), "q", 1)
	if err == nil {
		t.Fatal("expected error on 500")
	}
	if IsQuotaError(err) {
		t.Error("500 misclassified as quota error")
	}
}
