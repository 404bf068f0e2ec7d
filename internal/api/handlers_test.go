package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/factchecker/newsvet/internal/config"
	"github.com/factchecker/newsvet/internal/models"
)

type fakeRunner struct {
	summary *models.RunSummary
	err     error
	calls   int
}

func (f *fakeRunner) Run(ctx context.Context) (*models.RunSummary, error) {
	f.calls++
	return f.summary, f.err
}

type fakeStore struct {
	runs map[string]*models.RunSummary
}

func newFakeStore() *fakeStore {
	return &fakeStore{runs: make(map[string]*models.RunSummary)}
}

func (f *fakeStore) SaveRun(ctx context.Context, run *models.RunSummary) error {
	f.runs[run.ID] = run
	return nil
}

func (f *fakeStore) GetRun(ctx context.Context, id string) (*models.RunSummary, error) {
	return f.runs[id], nil
}

func (f *fakeStore) GetRunByHash(ctx context.Context, hash string) (*models.RunSummary, error) {
	for _, run := range f.runs {
		if run.ClaimsHash == hash {
			return run, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListRuns(ctx context.Context, limit, offset int) ([]*models.RunSummary, error) {
	var out []*models.RunSummary
	for _, run := range f.runs {
		out = append(out, run)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) Close() error   { return nil }
func (f *fakeStore) Migrate() error { return nil }

func testRouter(runner *fakeRunner, store *fakeStore) http.Handler {
	cfg := config.DefaultConfig()
	return NewRouter(cfg, runner, store)
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(&fakeRunner{}, newFakeStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %v", body["status"])
	}
}

func TestStartRun(t *testing.T) {
	runner := &fakeRunner{summary: &models.RunSummary{ID: "run-1", TotalClaims: 2, TrueCount: 1}}
	router := testRouter(runner, newFakeStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if runner.calls != 1 {
		t.Errorf("runner invoked %d times, want 1", runner.calls)
	}
	var got models.RunSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if got.ID != "run-1" || got.TotalClaims != 2 {
		t.Errorf("response = %+v", got)
	}
}

func TestStartRunFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("claims file missing")}
	router := testRouter(runner, newFakeStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/runs", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestGetRun(t *testing.T) {
	store := newFakeStore()
	store.runs["run-7"] = &models.RunSummary{ID: "run-7", ClaimsHash: "h7"}
	router := testRouter(&fakeRunner{}, store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/run-7", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got models.RunSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != "run-7" {
		t.Errorf("got run %q", got.ID)
	}
}

func TestGetRunNotFound(t *testing.T) {
	router := testRouter(&fakeRunner{}, newFakeStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListRunsAlwaysReturnsArray(t *testing.T) {
	router := testRouter(&fakeRunner{}, newFakeStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Runs []models.RunSummary `json:"runs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Runs == nil {
		t.Error("runs field is null, want empty array")
	}
}

func TestRequestIDHeader(t *testing.T) {
	router := testRouter(&fakeRunner{}, newFakeStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "fixed-id" {
		t.Errorf("X-Request-ID = %q, want fixed-id", got)
	}
}
