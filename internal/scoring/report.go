// Package scoring derives the final report from accumulated session data.
// Everything here is a pure function over its inputs: safe to call
// repeatedly, no mutation of the session.
package scoring

import (
	"math"

	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/models"
)

// StageInfo describes one of the seven ordinal clinical stages.
type StageInfo struct {
	Stage       int    `json:"stage"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var stageDescriptions = map[int]StageInfo{
	1: {1, "Stage 1 — Very low risk", "Appears normal. No significant cognitive decline detected."},
	2: {2, "Stage 2 — Minimal signs", "Monitor. Very mild forgetfulness that may be age-appropriate."},
	3: {3, "Stage 3 — Mild concerns", "Early signs. Noticeable word-finding or memory issues."},
	4: {4, "Stage 4 — Moderate deficits", "Moderate deficits. Clear difficulty with complex tasks."},
	5: {5, "Stage 5 — Moderately severe", "Significant gaps in memory and cognitive function."},
	6: {6, "Stage 6 — Severe impairment", "Severe memory loss and personality changes."},
	7: {7, "Stage 7 — Very severe", "Loss of ability to respond to environment. Needs evaluation."},
}

// DescribeStage returns the description for a 1-7 stage.
func DescribeStage(stage int) StageInfo {
	return stageDescriptions[stage]
}

// TotalScore sums the per-answer evaluation scores (0-10 each).
func TotalScore(answers []models.Answer) float64 {
	var total float64
	for _, a := range answers {
		total += a.Evaluation.Score
	}
	return total
}

// FinalStage maps the total score to the 1 (best) to 7 (worst) clinical
// stage via ascending closed thresholds. An empty answer set defaults to
// stage 1 so the function is total.
func FinalStage(answers []models.Answer) int {
	if len(answers) == 0 {
		return 1
	}
	total := TotalScore(answers)
	switch {
	case total <= 10:
		return 7
	case total <= 25:
		return 6
	case total <= 40:
		return 5
	case total <= 55:
		return 4
	case total <= 70:
		return 3
	case total <= 85:
		return 2
	default:
		return 1
	}
}

// VoiceSummary aggregates the per-answer audio features.
type VoiceSummary struct {
	QualityLabel     string `json:"qualityLabel"`
	QualityScore     int    `json:"qualityScore"`
	AvgPitchHz       int    `json:"avgPitchHz"`
	DominantTone     string `json:"dominantTone"`
	TotalHesitations int    `json:"totalHesitations"`
}

// SummarizeVoice computes the voice-quality block. Quality starts at a base
// of 70, gains 15 when the dominant tone is confident and loses 2 per
// hesitation, clamped to [0,100]. Ties on tone round in favor of confident.
func SummarizeVoice(answers []models.Answer) VoiceSummary {
	n := len(answers)
	var pitchSum float64
	hesitations := 0
	confident := 0
	for _, a := range answers {
		pitchSum += a.AudioFeatures.Pitch
		hesitations += a.AudioFeatures.StopperWordCount
		if a.AudioFeatures.Tone == models.ToneConfident {
			confident++
		}
	}

	divisor := n
	if divisor == 0 {
		divisor = 1
	}
	avgPitch := int(math.Round(pitchSum / float64(divisor)))

	dominant := models.ToneHesitant
	if float64(confident) >= float64(n)/2 {
		dominant = models.ToneConfident
	}

	score := 70
	if dominant == models.ToneConfident {
		score += 15
	}
	score -= 2 * hesitations
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	var label string
	switch {
	case score > 85:
		label = "Excellent"
	case score > 70:
		label = "Good"
	case score > 50:
		label = "Fair"
	default:
		label = "Needs Attention"
	}

	return VoiceSummary{
		QualityLabel:     label,
		QualityScore:     score,
		AvgPitchHz:       avgPitch,
		DominantTone:     dominant,
		TotalHesitations: hesitations,
	}
}

// QuestionResult is one row of the detailed report.
type QuestionResult struct {
	QuestionID       int      `json:"questionId"`
	Prompt           string   `json:"prompt"`
	ExpectedType     string   `json:"expectedType"`
	Transcript       string   `json:"transcript"`
	Score            float64  `json:"score"`
	Accuracy         float64  `json:"accuracy"`
	Coherence        float64  `json:"coherence"`
	Confidence       float64  `json:"confidence"`
	Concerns         []string `json:"concerns"`
	Analysis         string   `json:"analysis"`
	Tone             string   `json:"tone"`
	StopperWordCount int      `json:"stopperWordCount"`
	PitchHz          int      `json:"pitchHz"`
	SpeechStability  string   `json:"speechStability"`
}

// Report is the read-only snapshot exposed at the report boundary.
type Report struct {
	SessionID       string                    `json:"sessionId"`
	TotalScore      float64                   `json:"totalScore"`
	FinalStage      int                       `json:"finalStage"`
	StageInfo       StageInfo                 `json:"stageInfo"`
	Voice           VoiceSummary              `json:"voice"`
	Questions       []QuestionResult          `json:"questions"`
	EmotionTimeline []models.EmotionDataPoint `json:"emotionTimeline"`
}

// BuildReport assembles the full report from a completed (or partial)
// session and its emotion timeline. Deterministic for the same inputs.
func BuildReport(sess *models.Session, timeline []models.EmotionDataPoint) Report {
	answers := sess.AnswersInOrder()

	rows := make([]QuestionResult, 0, len(answers))
	for _, q := range sess.Questions {
		a, ok := sess.Answers[q.ID]
		if !ok {
			continue
		}
		stability := "Fluid"
		if a.AudioFeatures.StopperWordCount > 2 {
			stability = "Fragmented"
		}
		rows = append(rows, QuestionResult{
			QuestionID:       q.ID,
			Prompt:           q.Prompt,
			ExpectedType:     q.ExpectedType,
			Transcript:       a.Transcript,
			Score:            a.Evaluation.Score,
			Accuracy:         a.Evaluation.Accuracy,
			Coherence:        a.Evaluation.Coherence,
			Confidence:       a.Evaluation.Confidence,
			Concerns:         a.Evaluation.Concerns,
			Analysis:         a.Evaluation.Analysis,
			Tone:             a.AudioFeatures.Tone,
			StopperWordCount: a.AudioFeatures.StopperWordCount,
			PitchHz:          int(math.Round(a.AudioFeatures.Pitch)),
			SpeechStability:  stability,
		})
	}

	final := FinalStage(answers)
	return Report{
		SessionID:       sess.ID,
		TotalScore:      TotalScore(answers),
		FinalStage:      final,
		StageInfo:       DescribeStage(final),
		Voice:           SummarizeVoice(answers),
		Questions:       rows,
		EmotionTimeline: timeline,
	}
}
