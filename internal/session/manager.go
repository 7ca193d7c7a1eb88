// Package session owns the screening-run lifecycle: stage transitions,
// per-question answer assembly and the affect-stream intake. All session
// mutation funnels through the Manager behind a single mutex.
package session

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/analysis"
	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/emotion"
	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrEmptyTranscript rejects a submission whose transcript is empty
	// after trimming. Recoverable; the caller re-prompts.
	ErrEmptyTranscript = errors.New("transcript is empty")
	// ErrInvalidStage rejects an operation outside its lifecycle stage.
	ErrInvalidStage = errors.New("operation not valid in current stage")
	// ErrSubmissionInFlight enforces the one-submission-at-a-time contract.
	ErrSubmissionInFlight = errors.New("answer submission already in flight")
)

// EvaluationGateway scores an answer. Implementations never fail; any
// upstream problem resolves to the deterministic fallback result.
type EvaluationGateway interface {
	Evaluate(ctx context.Context, question models.Question, transcript string) models.EvaluationResult
}

// Config wires the manager's collaborators and policies.
type Config struct {
	Questions        []models.Question
	StopperWords     []string
	EmotionInterval  time.Duration
	EmotionMaxPoints int
	EmotionBuffer    int

	// Rand and Now are injectable for tests; defaulted when nil.
	Rand *rand.Rand
	Now  func() time.Time
}

// Manager drives one screening run at a time.
type Manager struct {
	log     *zap.Logger
	gateway EvaluationGateway
	cfg     Config

	mu         sync.Mutex
	sess       *models.Session
	timeline   *emotion.Timeline
	pending    string
	submitting bool
	liveLabel  string

	samples chan models.EmotionSample
}

// NewManager creates a manager with a fresh session in the landing stage.
func NewManager(cfg Config, gateway EvaluationGateway, log *zap.Logger) *Manager {
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.EmotionBuffer <= 0 {
		cfg.EmotionBuffer = 64
	}
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		log:     log,
		gateway: gateway,
		cfg:     cfg,
		samples: make(chan models.EmotionSample, cfg.EmotionBuffer),
	}
	m.reset()
	return m
}

// reset installs a fresh session. Caller must hold the lock, except during
// construction.
func (m *Manager) reset() {
	m.sess = &models.Session{
		ID:        uuid.NewString(),
		Stage:     models.StageLanding,
		Questions: m.cfg.Questions,
		Answers:   make(map[int]models.Answer),
		StartTime: m.cfg.Now(),
	}
	m.timeline = emotion.NewTimeline(m.cfg.EmotionInterval, m.cfg.EmotionMaxPoints)
	m.pending = ""
	m.liveLabel = ""
}

// Run consumes the emotion sample channel until ctx is cancelled. The
// producer side (Offer) never blocks, so camera frame rate cannot back up
// into the HTTP layer.
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-m.samples:
			m.ingest(s)
		}
	}
}

// Offer queues an affect sample, dropping it when the buffer is full. It
// reports whether the sample was queued.
func (m *Manager) Offer(sample models.EmotionSample) bool {
	select {
	case m.samples <- sample:
		return true
	default:
		return false
	}
}

func (m *Manager) ingest(sample models.EmotionSample) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Samples outside the testing stage are dropped.
	if m.sess.Stage != models.StageTesting {
		return
	}
	m.liveLabel = sample.Label
	m.timeline.Ingest(sample, m.cfg.Now().Sub(m.sess.StartTime))
}

// StartScreening moves landing -> permissions.
func (m *Manager) StartScreening() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess.Stage != models.StageLanding {
		return ErrInvalidStage
	}
	m.sess.Stage = models.StagePermissions
	m.log.Info("screening started", zap.String("session_id", m.sess.ID))
	return nil
}

// BeginTesting moves permissions -> testing once the device collaborators
// report successful acquisition. Resets the clock and the question index.
func (m *Manager) BeginTesting() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess.Stage != models.StagePermissions {
		return ErrInvalidStage
	}
	m.sess.Stage = models.StageTesting
	m.sess.StartTime = m.cfg.Now()
	m.sess.CurrentQuestionIndex = 0
	m.log.Info("testing began", zap.String("session_id", m.sess.ID),
		zap.Int("questions", len(m.sess.Questions)))
	return nil
}

// UpdateTranscript pushes speech-to-text output into the pending buffer.
// Finalized utterances append with a separating space, mirroring how the
// recognizer delivers them.
func (m *Manager) UpdateTranscript(text string, appendToBuffer bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess.Stage != models.StageTesting {
		return ErrInvalidStage
	}
	if appendToBuffer && m.pending != "" {
		m.pending = m.pending + " " + text
	} else {
		m.pending = text
	}
	return nil
}

// SubmitAnswer records the answer for the current question and advances the
// session. The transcript argument wins over the pending buffer; an empty
// argument submits the buffer. The gateway call is the sole suspension
// point: session state stays at its pre-call values until the evaluation
// resolves, then answer and index advance together.
func (m *Manager) SubmitAnswer(ctx context.Context, transcript string) (models.Answer, error) {
	var zero models.Answer

	m.mu.Lock()
	if m.sess.Stage != models.StageTesting {
		m.mu.Unlock()
		return zero, ErrInvalidStage
	}
	if m.submitting {
		m.mu.Unlock()
		return zero, ErrSubmissionInFlight
	}
	text := transcript
	if strings.TrimSpace(text) == "" {
		text = m.pending
	}
	if strings.TrimSpace(text) == "" {
		m.mu.Unlock()
		return zero, ErrEmptyTranscript
	}
	question := m.sess.Questions[m.sess.CurrentQuestionIndex]
	runID := m.sess.ID
	m.submitting = true
	m.mu.Unlock()

	stopperCount := analysis.CountStopperWords(text, m.cfg.StopperWords)
	evaluation := m.gateway.Evaluate(ctx, question, text)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitting = false

	// A restart while the evaluation was in flight discards the result.
	if m.sess.ID != runID || m.sess.Stage != models.StageTesting {
		return zero, ErrInvalidStage
	}

	answer := models.Answer{
		QuestionID:    question.ID,
		Transcript:    text,
		Evaluation:    evaluation,
		AudioFeatures: analysis.DeriveAudioFeatures(stopperCount, evaluation.Confidence, m.cfg.Rand),
	}
	m.sess.Answers[question.ID] = answer
	m.pending = ""
	m.sess.CurrentQuestionIndex++
	if m.sess.CurrentQuestionIndex >= len(m.sess.Questions) {
		m.sess.Stage = models.StageResults
	}

	m.log.Info("answer recorded",
		zap.String("session_id", m.sess.ID),
		zap.Int("question_id", question.ID),
		zap.Float64("score", evaluation.Score),
		zap.Int("stopper_words", stopperCount),
		zap.String("stage", string(m.sess.Stage)))
	return answer, nil
}

// Restart discards the session and starts over at the landing stage. There
// is no partial reset.
func (m *Manager) Restart() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log.Info("session restarted", zap.String("old_session_id", m.sess.ID))
	m.reset()
}

// Snapshot is a read-only view of the session for the testing UI.
type Snapshot struct {
	SessionID          string           `json:"sessionId"`
	Stage              models.Stage     `json:"stage"`
	QuestionIndex      int              `json:"questionIndex"`
	TotalQuestions     int              `json:"totalQuestions"`
	CurrentQuestion    *models.Question `json:"currentQuestion,omitempty"`
	AnsweredCount      int              `json:"answeredCount"`
	PendingWordCount   int              `json:"pendingWordCount"`
	EmotionLabel       string           `json:"emotionLabel,omitempty"`
	EmotionPoints      int              `json:"emotionPoints"`
	SubmissionInFlight bool             `json:"submissionInFlight"`
}

// Snapshot returns the current view of the run.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		SessionID:          m.sess.ID,
		Stage:              m.sess.Stage,
		QuestionIndex:      m.sess.CurrentQuestionIndex,
		TotalQuestions:     len(m.sess.Questions),
		AnsweredCount:      len(m.sess.Answers),
		EmotionLabel:       m.liveLabel,
		EmotionPoints:      m.timeline.Len(),
		SubmissionInFlight: m.submitting,
	}
	if trimmed := strings.TrimSpace(m.pending); trimmed != "" {
		snap.PendingWordCount = len(strings.Fields(trimmed))
	}
	if m.sess.Stage == models.StageTesting && m.sess.CurrentQuestionIndex < len(m.sess.Questions) {
		q := m.sess.Questions[m.sess.CurrentQuestionIndex]
		snap.CurrentQuestion = &q
	}
	return snap
}

// Results returns the completed session data for report building. Only
// valid once the session has reached the results stage.
func (m *Manager) Results() (*models.Session, []models.EmotionDataPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess.Stage != models.StageResults {
		return nil, nil, ErrInvalidStage
	}

	answers := make(map[int]models.Answer, len(m.sess.Answers))
	for id, a := range m.sess.Answers {
		answers[id] = a
	}
	sess := &models.Session{
		ID:                   m.sess.ID,
		Stage:                m.sess.Stage,
		Questions:            m.sess.Questions,
		CurrentQuestionIndex: m.sess.CurrentQuestionIndex,
		Answers:              answers,
		StartTime:            m.sess.StartTime,
	}
	return sess, m.timeline.Points(), nil
}
