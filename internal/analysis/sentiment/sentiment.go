package sentiment

import (
	"math"
	"regexp"
	"strings"

	"github.com/issa-compass/backend/internal/store/models"
)

// Heuristic lexicon scorer. The score is a rough signal, not a
// probability: lexicon hits plus small punctuation adjustments.

var wordPattern = regexp.MustCompile(`[a-zA-Z']+`)

var positiveWords = map[string]struct{}{
	"thanks": {}, "thank": {}, "great": {}, "good": {}, "awesome": {},
	"perfect": {}, "ok": {}, "okay": {}, "understood": {}, "nice": {},
	"love": {}, "cool": {},
}

var negativeWords = map[string]struct{}{
	"angry": {}, "frustrated": {}, "upset": {}, "bad": {}, "terrible": {},
	"hate": {}, "worried": {}, "confused": {}, "problem": {}, "issue": {},
	"refund": {}, "scam": {}, "cannot": {}, "can't": {}, "fail": {},
	"failed": {}, "error": {},
}

// Analyze scores text and never fails; callers always get a usable result.
func Analyze(text string) models.SentimentResult {
	t := strings.ToLower(text)

	var posHits, negHits int
	for _, word := range wordPattern.FindAllString(t, -1) {
		if _, ok := positiveWords[word]; ok {
			posHits++
		}
		if _, ok := negativeWords[word]; ok {
			negHits++
		}
	}

	exclam := strings.Count(t, "!")
	question := strings.Count(t, "?")

	score := float64(posHits-negHits) + 0.2*float64(exclam) - 0.1*float64(question)

	var label models.Sentiment
	var emoji string
	switch {
	case score >= 1:
		label, emoji = models.SentimentPositive, "😊"
	case score <= -1:
		label, emoji = models.SentimentNegative, "😟"
	default:
		label, emoji = models.SentimentNeutral, "😐"
	}

	return models.SentimentResult{
		Sentiment:   label,
		Score:       math.Round(score*100) / 100,
		PosHits:     posHits,
		NegHits:     negHits,
		Emoji:       emoji,
		Description: describe(score),
	}
}

// Unknown is the fixed result reported when input could not be analyzed,
// e.g. for records imported without an original sentiment.
func Unknown(reason string) models.SentimentResult {
	return models.SentimentResult{
		Sentiment:   models.SentimentUnknown,
		Score:       0,
		Emoji:       "❓",
		Description: "Unable to analyze",
		Error:       reason,
	}
}

func describe(score float64) string {
	switch {
	case score >= 2:
		return "Very positive"
	case score >= 1:
		return "Positive"
	case score <= -2:
		return "Very negative - may need attention"
	case score <= -1:
		return "Negative - user may be frustrated"
	default:
		return "Neutral"
	}
}
