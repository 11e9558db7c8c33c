// Package ml provides the HTTP client for the SnackTrack ML service,
// the external recommender behind the outbound.PreferenceOracle port.
package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/snacktrack/v2/internal/infrastructure/config"
	"github.com/snacktrack/v2/internal/ports/outbound"
	"go.uber.org/zap"
)

// Client implements outbound.PreferenceOracle against the ML service's
// REST API. Each operation carries its own deadline; the shared
// http.Client has no global timeout so the per-call contexts govern.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger

	rankTimeout     time.Duration
	trainTimeout    time.Duration
	livenessTimeout time.Duration
}

// NewClient creates a new ML service client
func NewClient(cfg config.MLConfig, logger *zap.Logger) *Client {
	logger.Info("ML service client initialized",
		zap.String("base_url", cfg.BaseURL),
		zap.Duration("rank_timeout", cfg.RankTimeout),
		zap.Duration("train_timeout", cfg.TrainTimeout))

	return &Client{
		baseURL:         cfg.BaseURL,
		client:          &http.Client{},
		logger:          logger.Named("ml-client"),
		rankTimeout:     cfg.RankTimeout,
		trainTimeout:    cfg.TrainTimeout,
		livenessTimeout: cfg.LivenessTimeout,
	}
}

// ML service API structures
type recommendRequest struct {
	UserID           string   `json:"user_id"`
	TopN             int      `json:"top_n"`
	ExcludeRecipeIDs []string `json:"exclude_recipe_ids,omitempty"`
}

type recipeScore struct {
	RecipeID string  `json:"recipe_id"`
	Title    string  `json:"title"`
	Score    float64 `json:"score"`
	Source   string  `json:"source"`
}

type recommendResponse struct {
	UserID          string        `json:"user_id"`
	Recommendations []recipeScore `json:"recommendations"`
	IsColdStart     bool          `json:"is_cold_start"`
	ModelVersion    string        `json:"model_version"`
}

type trainRequest struct {
	UserID string `json:"user_id"`
}

type trainResponse struct {
	UserID           string `json:"user_id"`
	InteractionCount int    `json:"interaction_count"`
	IsColdStart      bool   `json:"is_cold_start"`
	Message          string `json:"message"`
}

// GetRankedRecipes returns recipe ids ordered from most to least
// preferred. Malformed ids in the response are skipped rather than
// failing the whole ranking.
func (c *Client) GetRankedRecipes(ctx context.Context, userID uuid.UUID, count int) ([]uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, c.rankTimeout)
	defer cancel()

	reqBody := recommendRequest{
		UserID: userID.String(),
		TopN:   count,
	}

	var resp recommendResponse
	if err := c.post(ctx, "/recommend", reqBody, &resp); err != nil {
		return nil, err
	}

	ranked := make([]uuid.UUID, 0, len(resp.Recommendations))
	for _, rec := range resp.Recommendations {
		id, err := uuid.Parse(rec.RecipeID)
		if err != nil {
			c.logger.Warn("Skipping malformed recipe id in ranking",
				zap.String("recipe_id", rec.RecipeID),
				zap.String("user_id", userID.String()))
			continue
		}
		ranked = append(ranked, id)
	}

	c.logger.Debug("Ranking fetched",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(ranked)),
		zap.Bool("cold_start", resp.IsColdStart),
		zap.String("model_version", resp.ModelVersion))

	return ranked, nil
}

// Train asks the ML service to retrain the user's model.
func (c *Client) Train(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, c.trainTimeout)
	defer cancel()

	var resp trainResponse
	if err := c.post(ctx, "/train", trainRequest{UserID: userID.String()}, &resp); err != nil {
		return err
	}

	c.logger.Debug("Training triggered",
		zap.String("user_id", userID.String()),
		zap.Int("interaction_count", resp.InteractionCount),
		zap.Bool("cold_start", resp.IsColdStart))

	return nil
}

// Ping is a liveness probe against the service's health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.livenessTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ml service health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ml service health check failed with status %d", resp.StatusCode)
	}

	return nil
}

// post sends a JSON request and decodes a JSON response.
func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

var _ outbound.PreferenceOracle = (*Client)(nil)
