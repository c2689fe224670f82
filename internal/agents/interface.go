// Package agents holds the role-bound reasoning steps of the pipeline:
// interface (intent resolution), rules (action validation), dialogue
// (persona response), and the provider-free reflex matcher. Each agent
// has a narrow contract: typed input in, typed output out, deterministic
// fallback on provider failure.
package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/omniagent/cognition/internal/reason"
	"github.com/omniagent/cognition/internal/schema"
)

// #region system-prompt

const interfaceSystemPrompt = `Role: Interface Agent (Mediator)

You translate player input into structured intent.

Inputs may include:

Spoken text
Gesture metadata (e.g. pointing_at_actor_id)
Contextual references from the engine

Responsibilities:

Resolve deictic expressions such as "this", "that", "over there".
Fuse speech and gesture into explicit references.
Produce clean, ambiguity-free intent representations.

Constraints:

Do not generate actions directly.
Do not apply rules or validation.
Do not guess missing references; ask for clarification if unresolved.

Output:

Structured intent objects only.
No ActionBatch, no engine commands.`

// #endregion system-prompt

// #region schema

var intentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"action_type":      map[string]any{"type": "string", "description": "user intention category, e.g. Attack, Move, Talk"},
		"target_reference": map[string]any{"type": "string", "description": "resolved target entity id"},
		"raw_query":        map[string]any{"type": "string", "description": "original transcript"},
		"confidence":       map[string]any{"type": "number", "description": "0.0 to 1.0"},
	},
	"required": []string{"action_type", "confidence"},
}

// #endregion schema

// #region interface-agent

// InterfaceAgent resolves a GesPrompt into an Intent. It never inspects
// game rules; it only resolves references and produces intent.
type InterfaceAgent struct {
	provider reason.Provider
	log      *zap.Logger
}

// NewInterfaceAgent creates an interface agent backed by the given provider.
func NewInterfaceAgent(provider reason.Provider, log *zap.Logger) *InterfaceAgent {
	return &InterfaceAgent{provider: provider, log: log}
}

// #endregion interface-agent

// #region resolve

// Resolve produces exactly one Intent for the turn. The reflex matcher
// runs first; on provider failure of any kind the result degrades to an
// Unknown intent instead of an error, so the turn always proceeds.
func (a *InterfaceAgent) Resolve(ctx context.Context, vr *schema.GesPrompt) schema.Intent {
	transcript := vr.VoiceTranscript

	if reflex, ok := MatchReflex(transcript); ok {
		a.log.Info("reflex triggered",
			zap.String("action_type", reflex.ActionType),
			zap.String("player_id", vr.PlayerID))
		return reflex
	}

	user := fmt.Sprintf("User Transcript: %q\nGesture Data:\n%s\n\nBased on the above, extract the user's Intent.",
		transcript, renderGestures(vr.Gestures))

	var intent schema.Intent
	err := reason.Decode(ctx, a.provider, reason.Request{
		System:      interfaceSystemPrompt,
		User:        user,
		Schema:      intentSchema,
		Temperature: 0.0,
	}, &intent)
	if err != nil {
		a.log.Warn("interface provider call failed, falling back to Unknown", zap.Error(err))
		return schema.Intent{
			ActionType: "Unknown",
			RawQuery:   transcript,
			Confidence: 0.0,
		}
	}

	if intent.RawQuery == "" {
		intent.RawQuery = transcript
	}
	return intent
}

// #endregion resolve

// #region gesture-rendering

// renderGestures produces the textual gesture context fed to the provider.
func renderGestures(gestures []schema.GestureData) string {
	if len(gestures) == 0 {
		return "None"
	}
	lines := make([]string, 0, len(gestures))
	for _, g := range gestures {
		desc := fmt.Sprintf("- Type: %s, Target: %s, Hand: %s", g.GestureType, g.TargetEntityID, g.Hand)
		if g.Location != nil {
			desc += fmt.Sprintf(", Location: (%.1f, %.1f, %.1f)", g.Location.X, g.Location.Y, g.Location.Z)
		}
		if g.HeldObjectID != "" {
			desc += fmt.Sprintf(", Holding: %s", g.HeldObjectID)
		}
		lines = append(lines, desc)
	}
	return strings.Join(lines, "\n")
}

// #endregion gesture-rendering
