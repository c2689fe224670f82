package agents

import (
	"strings"

	"github.com/omniagent/cognition/internal/schema"
)

// #region keywords

// Reflex keyword groups. Matching is case-insensitive substring; these
// utterances must resolve deterministically without a provider call, so
// safety phrases cannot be delayed or misread by the reasoning layer.

var waitKeywords = []string{
	"stop", "halt", "멈춰", "그만",
}

var greetKeywords = []string{
	"hello", "hi", "안녕",
}

// #endregion keywords

// #region match

// MatchReflex tests the transcript against the fixed reflex groups and
// returns a full-confidence Intent for a hit. Runs before any external
// call; a hit short-circuits the interface agent entirely.
func MatchReflex(transcript string) (schema.Intent, bool) {
	lower := strings.ToLower(transcript)

	for _, kw := range waitKeywords {
		if strings.Contains(lower, kw) {
			return schema.Intent{
				ActionType: "Wait",
				RawQuery:   transcript,
				Confidence: 1.0,
			}, true
		}
	}
	for _, kw := range greetKeywords {
		if strings.Contains(lower, kw) {
			return schema.Intent{
				ActionType: "Talk",
				RawQuery:   transcript,
				Confidence: 1.0,
			}, true
		}
	}
	return schema.Intent{}, false
}

// #endregion match
