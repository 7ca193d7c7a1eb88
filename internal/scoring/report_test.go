package scoring

import (
	"testing"

	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/models"
)

func answerWithScore(id int, score float64) models.Answer {
	return models.Answer{
		QuestionID: id,
		Evaluation: models.EvaluationResult{Score: score},
	}
}

func TestFinalStageThresholds(t *testing.T) {
	cases := []struct {
		name   string
		scores []float64
		want   int
	}{
		{"zero answers defaults to best", nil, 1},
		{"total 10 is stage 7", []float64{10}, 7},
		{"total 11 is stage 6", []float64{10, 1}, 6},
		{"total 25 is stage 6", []float64{10, 10, 5}, 6},
		{"total 26 is stage 5", []float64{10, 10, 6}, 5},
		{"total 40 is stage 5", []float64{10, 10, 10, 10}, 5},
		{"total 55 is stage 4", []float64{10, 10, 10, 10, 10, 5}, 4},
		{"total 70 is stage 3", []float64{10, 10, 10, 10, 10, 10, 10}, 3},
		{"total 85 is stage 2", []float64{10, 10, 10, 10, 10, 10, 10, 10, 5}, 2},
		{"total 86 is stage 1", []float64{10, 10, 10, 10, 10, 10, 10, 10, 6}, 1},
		{"total 100 is stage 1", []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10}, 1},
		{"total 0 with answers is stage 7", []float64{0, 0}, 7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			answers := make([]models.Answer, 0, len(tc.scores))
			for i, s := range tc.scores {
				answers = append(answers, answerWithScore(i+1, s))
			}
			if got := FinalStage(answers); got != tc.want {
				t.Errorf("FinalStage(total=%v) = %d, want %d", TotalScore(answers), got, tc.want)
			}
		})
	}
}

func TestFinalStageIdempotent(t *testing.T) {
	answers := []models.Answer{answerWithScore(1, 7), answerWithScore(2, 8)}
	first := FinalStage(answers)
	if second := FinalStage(answers); second != first {
		t.Errorf("FinalStage not stable: %d then %d", first, second)
	}
	if answers[0].Evaluation.Score != 7 {
		t.Error("FinalStage mutated its input")
	}
}

func TestSummarizeVoiceScenario(t *testing.T) {
	// Two confident answers with 0 and 1 hesitations.
	answers := []models.Answer{
		{AudioFeatures: models.AudioFeatures{Pitch: 120, Tone: models.ToneConfident, StopperWordCount: 0}},
		{AudioFeatures: models.AudioFeatures{Pitch: 140, Tone: models.ToneConfident, StopperWordCount: 1}},
	}

	got := SummarizeVoice(answers)
	if got.TotalHesitations != 1 {
		t.Errorf("TotalHesitations = %d, want 1", got.TotalHesitations)
	}
	if got.DominantTone != models.ToneConfident {
		t.Errorf("DominantTone = %s, want Confident", got.DominantTone)
	}
	if got.QualityScore != 83 { // 70 + 15 - 2
		t.Errorf("QualityScore = %d, want 83", got.QualityScore)
	}
	if got.QualityLabel != "Good" {
		t.Errorf("QualityLabel = %s, want Good", got.QualityLabel)
	}
	if got.AvgPitchHz != 130 {
		t.Errorf("AvgPitchHz = %d, want 130", got.AvgPitchHz)
	}
}

func TestSummarizeVoiceToneTieAndClamp(t *testing.T) {
	// Tie on tone rounds in favor of confident.
	tied := []models.Answer{
		{AudioFeatures: models.AudioFeatures{Tone: models.ToneConfident}},
		{AudioFeatures: models.AudioFeatures{Tone: models.ToneHesitant}},
	}
	if got := SummarizeVoice(tied); got.DominantTone != models.ToneConfident {
		t.Errorf("tie should favor Confident, got %s", got.DominantTone)
	}

	// Heavy hesitation floors at zero.
	heavy := []models.Answer{
		{AudioFeatures: models.AudioFeatures{Tone: models.ToneHesitant, StopperWordCount: 60}},
		{AudioFeatures: models.AudioFeatures{Tone: models.ToneHesitant, StopperWordCount: 10}},
	}
	got := SummarizeVoice(heavy)
	if got.QualityScore != 0 {
		t.Errorf("QualityScore = %d, want clamp at 0", got.QualityScore)
	}
	if got.QualityLabel != "Needs Attention" {
		t.Errorf("QualityLabel = %s, want Needs Attention", got.QualityLabel)
	}
}

func TestSummarizeVoiceEmpty(t *testing.T) {
	got := SummarizeVoice(nil)
	if got.AvgPitchHz != 0 {
		t.Errorf("empty answers should average to 0 pitch, got %d", got.AvgPitchHz)
	}
	if got.TotalHesitations != 0 {
		t.Errorf("empty answers should have 0 hesitations, got %d", got.TotalHesitations)
	}
}

func TestQualityLabelBoundaries(t *testing.T) {
	// Strict greater-than at each boundary, evaluated descending.
	cases := []struct {
		hesitations int
		confident   bool
		wantScore   int
		wantLabel   string
	}{
		{0, true, 85, "Good"},       // 70+15, not >85
		{7, true, 71, "Good"},       // >70
		{0, false, 70, "Fair"},      // exactly 70, not >70
		{10, true, 65, "Fair"},      // >50
		{17, true, 51, "Fair"},      // >50
		{7, false, 56, "Fair"},      // base minus penalty
		{10, false, 50, "Needs Attention"},
	}
	for _, tc := range cases {
		tone := models.ToneHesitant
		if tc.confident {
			tone = models.ToneConfident
		}
		answers := []models.Answer{
			{AudioFeatures: models.AudioFeatures{Tone: tone, StopperWordCount: tc.hesitations}},
		}
		got := SummarizeVoice(answers)
		if got.QualityScore != tc.wantScore || got.QualityLabel != tc.wantLabel {
			t.Errorf("hesitations=%d confident=%v: got %d/%s, want %d/%s",
				tc.hesitations, tc.confident, got.QualityScore, got.QualityLabel, tc.wantScore, tc.wantLabel)
		}
	}
}

func TestBuildReport(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Prompt: "first", ExpectedType: "Orientation"},
		{ID: 2, Prompt: "second", ExpectedType: "Recall"},
	}
	sess := &models.Session{
		ID:        "run-1",
		Stage:     models.StageResults,
		Questions: questions,
		Answers: map[int]models.Answer{
			2: {
				QuestionID: 2,
				Transcript: "umm let me think",
				Evaluation: models.EvaluationResult{Score: 6, Confidence: 0.6, Concerns: []string{}},
				AudioFeatures: models.AudioFeatures{
					Pitch: 150.4, Tone: models.ToneHesitant, StopperWordCount: 3,
				},
			},
			1: {
				QuestionID: 1,
				Transcript: "my name is Ada",
				Evaluation: models.EvaluationResult{Score: 9, Confidence: 0.9, Concerns: []string{}},
				AudioFeatures: models.AudioFeatures{
					Pitch: 130.2, Tone: models.ToneConfident, StopperWordCount: 0,
				},
			},
		},
		CurrentQuestionIndex: 2,
	}
	timeline := []models.EmotionDataPoint{{TimestampMs: 0, Neutral: 1}}

	report := BuildReport(sess, timeline)

	if report.TotalScore != 15 {
		t.Errorf("TotalScore = %v, want 15", report.TotalScore)
	}
	if report.FinalStage != 6 {
		t.Errorf("FinalStage = %d, want 6", report.FinalStage)
	}
	if report.StageInfo.Title != "Stage 6 — Severe impairment" {
		t.Errorf("unexpected stage info: %+v", report.StageInfo)
	}
	if len(report.Questions) != 2 {
		t.Fatalf("expected 2 question rows, got %d", len(report.Questions))
	}
	// Rows follow question order regardless of map iteration.
	if report.Questions[0].QuestionID != 1 || report.Questions[1].QuestionID != 2 {
		t.Errorf("rows out of question order: %d, %d",
			report.Questions[0].QuestionID, report.Questions[1].QuestionID)
	}
	if report.Questions[0].SpeechStability != "Fluid" {
		t.Errorf("0 stoppers should read Fluid, got %s", report.Questions[0].SpeechStability)
	}
	if report.Questions[1].SpeechStability != "Fragmented" {
		t.Errorf("3 stoppers should read Fragmented, got %s", report.Questions[1].SpeechStability)
	}
	if report.Questions[1].PitchHz != 150 {
		t.Errorf("pitch should round, got %d", report.Questions[1].PitchHz)
	}
	if len(report.EmotionTimeline) != 1 {
		t.Errorf("timeline not carried into report")
	}

	// Building twice from the same session yields the same report.
	again := BuildReport(sess, timeline)
	if again.TotalScore != report.TotalScore || again.FinalStage != report.FinalStage {
		t.Error("BuildReport not deterministic")
	}
}
