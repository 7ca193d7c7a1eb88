package evaluator

import (
	"context"
	"time"

	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/models"

	"go.uber.org/zap"
)

// DefaultShortAnswerThreshold is the character length below which the
// fallback treats an answer as too brief.
const DefaultShortAnswerThreshold = 5

// Gateway wraps an optional Client with a bounded timeout and the
// deterministic fallback. Evaluate never returns an error: any transport,
// parse or timeout failure yields the fallback result instead.
type Gateway struct {
	client   Client
	timeout  time.Duration
	shortLen int
	log      *zap.Logger
}

// NewGateway builds a gateway. A nil client means no credential is
// configured: every evaluation short-circuits to the fallback with no
// network attempt.
func NewGateway(client Client, timeout time.Duration, shortLen int, log *zap.Logger) *Gateway {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	if shortLen <= 0 {
		shortLen = DefaultShortAnswerThreshold
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{client: client, timeout: timeout, shortLen: shortLen, log: log}
}

// Evaluate scores one answer. The result always satisfies the range
// invariants: score in [0,10], the ratios in [0,1], concerns non-nil.
func (g *Gateway) Evaluate(ctx context.Context, question models.Question, transcript string) models.EvaluationResult {
	if g.client == nil {
		return Fallback(transcript, g.shortLen)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.client.Evaluate(ctx, question, transcript)
	if err != nil {
		g.log.Warn("evaluator unavailable, using fallback",
			zap.Int("question_id", question.ID),
			zap.Error(err))
		return Fallback(transcript, g.shortLen)
	}
	return clampResult(result)
}

// Fallback is the deterministic local evaluation used when no credential is
// present or the external call fails. Reproducible for identical input.
func Fallback(transcript string, shortLen int) models.EvaluationResult {
	if len(transcript) < shortLen {
		return models.EvaluationResult{
			Score:      3,
			Accuracy:   0.3,
			Coherence:  0.9,
			Confidence: 0.7,
			Concerns:   []string{"Answer too brief"},
			Analysis:   "Mock analysis: API unavailable.",
		}
	}
	return models.EvaluationResult{
		Score:      8,
		Accuracy:   0.8,
		Coherence:  0.9,
		Confidence: 0.7,
		Concerns:   []string{},
		Analysis:   "Mock analysis: API unavailable.",
	}
}

func clampResult(r models.EvaluationResult) models.EvaluationResult {
	r.Score = clamp(r.Score, 0, 10)
	r.Accuracy = clamp(r.Accuracy, 0, 1)
	r.Coherence = clamp(r.Coherence, 0, 1)
	r.Confidence = clamp(r.Confidence, 0, 1)
	if r.Concerns == nil {
		r.Concerns = []string{}
	}
	return r
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
