package analysis

import (
	"math/rand"

	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/models"
)

// Pitch is simulated in the 100-200 Hz band and aggression kept low; there
// is no real DSP behind these numbers, they stand in for the excluded audio
// pipeline. Tone flips on the evaluator's confidence reading.
const confidentToneThreshold = 0.7

// DeriveAudioFeatures builds the per-answer voice record at submission time.
// The rand source is injected so tests stay deterministic.
func DeriveAudioFeatures(stopperCount int, confidence float64, rng *rand.Rand) models.AudioFeatures {
	tone := models.ToneHesitant
	if confidence > confidentToneThreshold {
		tone = models.ToneConfident
	}
	return models.AudioFeatures{
		Pitch:            rng.Float64()*100 + 100,
		Tone:             tone,
		StopperWordCount: stopperCount,
		Aggression:       rng.Float64() * 0.1,
	}
}
