// Package pipeline drives a full fact-check run: it loads the claims file,
// verifies and classifies each claim in input order, and persists the two
// output reports plus a run summary.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/factchecker/newsvet/internal/classify"
	"github.com/factchecker/newsvet/internal/database"
	"github.com/factchecker/newsvet/internal/models"
	"github.com/factchecker/newsvet/internal/news"
	"github.com/factchecker/newsvet/internal/verify"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Pipeline wires the verifier and classifier into one sequential run.
type Pipeline struct {
	verifier           *verify.Verifier
	classifier         *classify.Classifier
	pool               *news.Pool
	store              database.Store
	claimsPath         string
	factCheckPath      string
	classificationPath string
}

// New creates a Pipeline. store may be nil, in which case run summaries are
// not persisted.
func New(verifier *verify.Verifier, classifier *classify.Classifier, pool *news.Pool,
	store database.Store, claimsPath, factCheckPath, classificationPath string) *Pipeline {
	return &Pipeline{
		verifier:           verifier,
		classifier:         classifier,
		pool:               pool,
		store:              store,
		claimsPath:         claimsPath,
		factCheckPath:      factCheckPath,
		classificationPath: classificationPath,
	}
}

// claimsFile accepts either a bare array of claims or an object wrapping it.
type claimsFile struct {
	Claims []models.Claim `json:"claims"`
}

// Run executes one full pipeline pass. It is idempotent: when the
// classification output already exists the run is a no-op returning a
// summary pointing at the existing artifacts, with no network activity.
// Setup failures (missing input, unparsable JSON, zero claims) return an
// error before any output is written.
func (p *Pipeline) Run(ctx context.Context) (*models.RunSummary, error) {
	if _, err := os.Stat(p.classificationPath); err == nil {
		log.Info().Str("path", p.classificationPath).Msg("Output already exists, skipping run")
		return p.existingRun(ctx)
	}

	claims, hash, err := p.loadClaims()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	log.Info().Int("claims", len(claims)).Str("hash", hash).Msg("Starting fact-check run")

	verified := make([]models.VerifiedClaim, 0, len(claims))
	classifications := make([]models.Classification, 0, len(claims))
	summary := &models.RunSummary{
		ID:                 uuid.New().String(),
		ClaimsHash:         hash,
		TotalClaims:        len(claims),
		FactCheckPath:      p.factCheckPath,
		ClassificationPath: p.classificationPath,
		CreatedAt:          time.Now().UTC(),
	}

	for i, claim := range claims {
		log.Info().Int("index", i+1).Int("total", len(claims)).Msg("Processing claim")

		vc := p.verifier.Verify(ctx, claim)
		verified = append(verified, vc)

		cls := p.classifier.Classify(ctx, vc)
		classifications = append(classifications, cls)

		switch cls.Label {
		case models.LabelTrue:
			summary.TrueCount++
		case models.LabelFalse:
			summary.FalseCount++
		case models.LabelError:
			summary.ErrorCount++
		default:
			summary.UnverifiableCount++
		}
	}

	factCheck := models.FactCheckReport{
		Timestamp:      time.Now().UTC(),
		VerifiedClaims: verified,
	}
	if err := writeJSON(p.factCheckPath, factCheck); err != nil {
		return nil, fmt.Errorf("failed to write fact-check report: %w", err)
	}

	classification := models.ClassificationReport{
		Timestamp:       time.Now().UTC(),
		ModelUsed:       p.classifier.ModelUsed(),
		MaxTokens:       p.classifier.MaxContext(),
		Classifications: classifications,
	}
	if err := writeJSON(p.classificationPath, classification); err != nil {
		return nil, fmt.Errorf("failed to write classification report: %w", err)
	}

	summary.APICallsUsed = p.pool.Budget().Used()
	summary.ProcessingTimeMs = time.Since(start).Milliseconds()

	log.Info().
		Int("true", summary.TrueCount).
		Int("false", summary.FalseCount).
		Int("unverifiable", summary.UnverifiableCount).
		Int("errors", summary.ErrorCount).
		Int("api_calls", summary.APICallsUsed).
		Int64("elapsed_ms", summary.ProcessingTimeMs).
		Msg("Run complete")

	if p.store != nil {
		if err := p.store.SaveRun(ctx, summary); err != nil {
			log.Error().Err(err).Msg("Failed to persist run summary")
		}
	}

	return summary, nil
}

// existingRun builds the summary for an idempotent hit, preferring the
// persisted record when the claims file still hashes to a stored run.
func (p *Pipeline) existingRun(ctx context.Context) (*models.RunSummary, error) {
	if p.store != nil {
		if hash, err := hashFile(p.claimsPath); err == nil {
			if run, err := p.store.GetRunByHash(ctx, hash); err == nil && run != nil {
				return run, nil
			}
		}
	}
	return &models.RunSummary{
		FactCheckPath:      p.factCheckPath,
		ClassificationPath: p.classificationPath,
	}, nil
}

func (p *Pipeline) loadClaims() ([]models.Claim, string, error) {
	data, err := os.ReadFile(p.claimsPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read claims file: %w", err)
	}

	var claims []models.Claim
	if err := json.Unmarshal(data, &claims); err != nil {
		var wrapped claimsFile
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, "", fmt.Errorf("failed to parse claims file: %w", err)
		}
		claims = wrapped.Claims
	}
	if len(claims) == 0 {
		return nil, "", fmt.Errorf("claims file %s contains no claims", p.claimsPath)
	}

	sum := sha256.Sum256(data)
	return claims, hex.EncodeToString(sum[:]), nil
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
