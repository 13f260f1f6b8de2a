package budget

import (
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
)

// charsPerToken is the built-in per-locale estimate of how many
// characters make up one LLM token. CJK scripts pack far more meaning
// per character than Latin scripts, so a flat divisor silently starves
// CJK content of budget; this table is why every budget computation in
// the pipeline goes through Estimate instead of len(text)/4.
var charsPerToken = map[string]float64{
	"en": 4.0,
	"ko": 0.6,
	"ja": 0.7,
	"zh": 0.7,
	"fr": 3.6,
	"de": 3.6,
	"es": 3.8,
	"it": 3.8,
	"pt": 3.8,
	"nl": 3.7,
}

const defaultCharsPerToken = 4.0

// CharsPerToken returns the characters-per-token ratio for locale,
// falling back to the English ratio for an unrecognized locale.
func CharsPerToken(locale string) float64 {
	if v, ok := charsPerToken[locale]; ok {
		return v
	}
	return defaultCharsPerToken
}

// Estimate returns the estimated token count of text under locale,
// blending a character-count estimate with a Unicode word-segment
// count so that both very CJK-dense and very token-dense English text
// land close to the true tokenizer count.
func Estimate(text string, locale string) int {
	if text == "" {
		return 0
	}
	charEst := float64(len([]rune(text))) / CharsPerToken(locale)
	wordEst := float64(wordCount(text)) * wordTokenFactor(locale)
	return int((charEst + wordEst) / 2)
}

func wordTokenFactor(locale string) float64 {
	switch DominantScript(locale) {
	case ScriptHan, ScriptHangul, ScriptKatakana, ScriptHiragana:
		return 1.6
	default:
		return 4.0 / 3.0
	}
}

// wordCount counts Unicode word segments in text using a grapheme/word
// boundary segmenter, rather than whitespace splitting, so CJK text
// (which carries no spaces between words) contributes a realistic count.
func wordCount(text string) int {
	seg := words.FromBytes([]byte(text))
	n := 0
	for seg.Next() {
		if isWordlike(seg.Value()) {
			n++
		}
	}
	return n
}

func isWordlike(b []byte) bool {
	for _, r := range string(b) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}

// ComputeSectionBudgets splits total tokens across named sections in
// proportion to weights.
func ComputeSectionBudgets(total int, weights map[string]float64) map[string]int {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	out := make(map[string]int, len(weights))
	if sum <= 0 {
		return out
	}
	for name, w := range weights {
		out[name] = int(float64(total) * w / sum)
	}
	return out
}
