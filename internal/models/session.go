package models

import "time"

// Stage is the session lifecycle. Transitions are unidirectional; only a
// full restart returns to StageLanding.
type Stage string

const (
	StageLanding     Stage = "landing"
	StagePermissions Stage = "permissions"
	StageTesting     Stage = "testing"
	StageResults     Stage = "results"
)

// Voice tone labels derived at answer submission.
const (
	ToneConfident = "Confident"
	ToneHesitant  = "Hesitant"
)

// EvaluationResult is the semantic scoring of one answer. Produced exactly
// once per answer by the evaluation gateway and immutable thereafter.
// Score is 0-10; accuracy, coherence and confidence are 0-1.
type EvaluationResult struct {
	Score      float64  `json:"score"`
	Accuracy   float64  `json:"accuracy"`
	Coherence  float64  `json:"coherence"`
	Confidence float64  `json:"confidence"`
	Concerns   []string `json:"concerns"`
	Analysis   string   `json:"analysis"`
}

// AudioFeatures captures the voice signal derived at submission time.
type AudioFeatures struct {
	Pitch            float64 `json:"pitch"`
	Tone             string  `json:"tone"`
	StopperWordCount int     `json:"stopperWordCount"`
	Aggression       float64 `json:"aggression"`
}

// Answer is the durable record for one question. Created once on successful
// submission, never updated within a session.
type Answer struct {
	QuestionID    int              `json:"questionId"`
	Transcript    string           `json:"transcript"`
	Evaluation    EvaluationResult `json:"evaluation"`
	AudioFeatures AudioFeatures    `json:"audioFeatures"`
}

// EmotionSample is one affect reading pushed by the camera collaborator.
// Stress, anxiety and neutral are 0-1.
type EmotionSample struct {
	Label   string  `json:"label"`
	Stress  float64 `json:"stress"`
	Anxiety float64 `json:"anxiety"`
	Neutral float64 `json:"neutral"`
}

// EmotionDataPoint is an accepted affect sample, timestamped relative to
// session start.
type EmotionDataPoint struct {
	TimestampMs int64   `json:"timestamp"`
	Stress      float64 `json:"stress"`
	Anxiety     float64 `json:"anxiety"`
	Neutral     float64 `json:"neutral"`
}

// Session is the aggregate root for one screening run. It is owned
// exclusively by the session manager; all mutation goes through the
// manager's transition operations.
type Session struct {
	ID                   string
	Stage                Stage
	Questions            []Question
	CurrentQuestionIndex int
	Answers              map[int]Answer
	StartTime            time.Time
}

// AnswersInOrder returns the recorded answers in question order.
func (s *Session) AnswersInOrder() []Answer {
	out := make([]Answer, 0, len(s.Answers))
	for _, q := range s.Questions {
		if a, ok := s.Answers[q.ID]; ok {
			out = append(out, a)
		}
	}
	return out
}
