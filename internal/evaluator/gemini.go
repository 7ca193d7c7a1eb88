// Package evaluator scores a submitted answer. The real path is a Gemini
// generateContent call constrained to a JSON schema; every failure mode
// collapses into a deterministic local fallback so the session state machine
// never observes an evaluation error.
package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/models"
)

// Client is the strategy the gateway drives. Implementations may fail; the
// gateway owns the fallback.
type Client interface {
	Evaluate(ctx context.Context, question models.Question, transcript string) (models.EvaluationResult, error)
}

// GeminiClient calls the generateContent endpoint with a constrained JSON
// response schema.
type GeminiClient struct {
	HTTPClient *http.Client
	APIKey     string
	Model      string
	Endpoint   string
}

func NewGeminiClient(apiKey, model, endpoint string) *GeminiClient {
	return &GeminiClient{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		APIKey:     apiKey,
		Model:      model,
		Endpoint:   endpoint,
	}
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema"`
}

type generateContentRequest struct {
	Contents         []generateContent `json:"contents"`
	GenerationConfig generationConfig  `json:"generationConfig"`
}

type generateCandidate struct {
	Content generateContent `json:"content"`
}

type generateContentResponse struct {
	Candidates []generateCandidate `json:"candidates"`
}

// evaluationPayload mirrors EvaluationResult with pointer fields so a
// response missing a required field is distinguishable from a zero value.
type evaluationPayload struct {
	Score      *float64  `json:"score"`
	Accuracy   *float64  `json:"accuracy"`
	Coherence  *float64  `json:"coherence"`
	Confidence *float64  `json:"confidence"`
	Concerns   *[]string `json:"concerns"`
	Analysis   *string   `json:"analysis"`
}

func responseSchema() map[string]any {
	number := func(desc string) map[string]any {
		return map[string]any{"type": "NUMBER", "description": desc}
	}
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"score":      number("Score from 0 to 10 based on accuracy and coherence"),
			"accuracy":   number("0.0 to 1.0"),
			"coherence":  number("0.0 to 1.0"),
			"confidence": number("0.0 to 1.0 inferred from text"),
			"concerns": map[string]any{
				"type":        "ARRAY",
				"items":       map[string]any{"type": "STRING"},
				"description": "List of specific cognitive concerns observed",
			},
			"analysis": map[string]any{
				"type":        "STRING",
				"description": "Brief clinical analysis of the response",
			},
		},
		"required": []string{"score", "accuracy", "coherence", "confidence", "concerns", "analysis"},
	}
}

func buildPrompt(question models.Question, transcript string) string {
	return fmt.Sprintf(`You are an expert neuropsychologist evaluating a cognitive screening test for early dementia.

QUESTION: %q
EXPECTED ANSWER TYPE: %s
PATIENT'S ANSWER: %q

Evaluate the patient's answer based on accuracy, coherence, and confidence.
Return the result in JSON format.`, question.Prompt, question.ExpectedType, transcript)
}

func (c *GeminiClient) Evaluate(ctx context.Context, question models.Question, transcript string) (models.EvaluationResult, error) {
	var zero models.EvaluationResult
	if c.APIKey == "" {
		return zero, fmt.Errorf("gemini api key missing")
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.Endpoint, c.Model)
	reqBody, _ := json.Marshal(generateContentRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: buildPrompt(question, transcript)}}}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   responseSchema(),
		},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return zero, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return zero, fmt.Errorf("gemini error: status=%d body=%s", resp.StatusCode, string(b))
	}

	var gr generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return zero, err
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return zero, fmt.Errorf("gemini: empty candidates")
	}

	var payload evaluationPayload
	if err := json.Unmarshal([]byte(gr.Candidates[0].Content.Parts[0].Text), &payload); err != nil {
		return zero, fmt.Errorf("gemini: unparseable evaluation: %w", err)
	}
	if payload.Score == nil || payload.Accuracy == nil || payload.Coherence == nil ||
		payload.Confidence == nil || payload.Concerns == nil || payload.Analysis == nil {
		return zero, fmt.Errorf("gemini: evaluation missing required field")
	}

	return models.EvaluationResult{
		Score:      *payload.Score,
		Accuracy:   *payload.Accuracy,
		Coherence:  *payload.Coherence,
		Confidence: *payload.Confidence,
		Concerns:   *payload.Concerns,
		Analysis:   *payload.Analysis,
	}, nil
}
