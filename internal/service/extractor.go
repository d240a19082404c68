// internal/service/extractor.go
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"revocab/internal/config"
	"revocab/internal/middleware"
	"revocab/internal/model"
)

// Extractor は画像から語彙リストを抽出する外部サービスへの境界です。
// 抽出処理そのもの（OCR・整形）はこのコアの責務外です。
type Extractor interface {
	Extract(ctx context.Context, imageBase64 string) (*model.ExtractionResult, error)
}

// --- LogExtractor ---
// 外部サービス未設定の環境向け。ログだけ出して空の結果を返します。
type LogExtractor struct{}

func (e *LogExtractor) Extract(ctx context.Context, imageBase64 string) (*model.ExtractionResult, error) {
	logger := middleware.GetLogger(ctx)
	logger.Info("--- Extracting vocabulary (LogExtractor) ---", "image_bytes", len(imageBase64))
	return &model.ExtractionResult{}, nil
}

// --- HTTPExtractor ---
// 設定されたエンドポイントに画像をPOSTし、{metadata, vocabulary} を受け取ります。
type HTTPExtractor struct {
	cfg    *config.Config
	client *http.Client
}

func NewHTTPExtractor(cfg *config.Config) *HTTPExtractor {
	return &HTTPExtractor{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Extractor.Timeout,
		},
	}
}

type extractRequestBody struct {
	Image string `json:"image"`
}

func (e *HTTPExtractor) Extract(ctx context.Context, imageBase64 string) (*model.ExtractionResult, error) {
	logger := middleware.GetLogger(ctx)

	body, err := json.Marshal(extractRequestBody{Image: imageBase64})
	if err != nil {
		return nil, fmt.Errorf("HTTPExtractor.Extract: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.Extractor.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("HTTPExtractor.Extract: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.cfg.Extractor.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.cfg.Extractor.APIKey)
	}

	logger.Debug("Calling extraction service", "endpoint", e.cfg.Extractor.Endpoint)

	resp, err := e.client.Do(req)
	if err != nil {
		logger.Error("Extraction service call failed", "error", err)
		return nil, fmt.Errorf("HTTPExtractor.Extract: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error("Extraction service returned non-OK status", "status", resp.StatusCode)
		return nil, fmt.Errorf("HTTPExtractor.Extract: unexpected status %d", resp.StatusCode)
	}

	var result model.ExtractionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("HTTPExtractor.Extract: decode response: %w", err)
	}

	logger.Info("Extraction succeeded", "pairs", len(result.Vocabulary))
	return &result, nil
}
