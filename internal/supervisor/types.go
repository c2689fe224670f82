// Package supervisor is the orchestration state machine. It sequences
// the role-bound agents, applies the rejection fallback protocol, and
// decides termination. The supervisor is a pure router plus one fallback
// policy: it applies no numeric changes and introduces no action types.
package supervisor

import (
	"github.com/omniagent/cognition/internal/agents"
	"github.com/omniagent/cognition/internal/schema"
)

// #region speaker

// Speaker identifies the node that last produced state, and the routing
// targets of the state machine.
type Speaker string

const (
	SpeakerInterface  Speaker = "Interface"
	SpeakerSupervisor Speaker = "Supervisor"
	SpeakerDialogue   Speaker = "Dialogue"
	SpeakerRules      Speaker = "Rules"
	SpeakerFallback   Speaker = "Supervisor_Fallback"
	SpeakerEnd        Speaker = "End"
)

// #endregion speaker

// #region turn-state

// TurnState is the turn-scoped context. Owned exclusively by one
// in-flight turn, discarded at turn end, never shared across turns.
type TurnState struct {
	VRContext *schema.GesPrompt
	Intent    *schema.Intent
	Outcome   *agents.Outcome
	Batch     *schema.ActionBatch
	Speaker   Speaker
	Next      Speaker
	Messages  []string
}

// #endregion turn-state

// #region state-delta

// StateDelta is the explicit partial update a step returns. Merge rule
// is last-writer-wins per field: a nil pointer field leaves the current
// value, Messages append, Speaker/Next overwrite when non-empty.
type StateDelta struct {
	Intent   *schema.Intent
	Outcome  *agents.Outcome
	Batch    *schema.ActionBatch
	Speaker  Speaker
	Next     Speaker
	Messages []string
}

// Apply merges the delta into the state under the documented rule and
// returns the new state by value.
func (s TurnState) Apply(d StateDelta) TurnState {
	if d.Intent != nil {
		s.Intent = d.Intent
	}
	if d.Outcome != nil {
		s.Outcome = d.Outcome
	}
	if d.Batch != nil {
		s.Batch = d.Batch
	}
	if d.Speaker != "" {
		s.Speaker = d.Speaker
	}
	if d.Next != "" {
		s.Next = d.Next
	}
	s.Messages = append(s.Messages, d.Messages...)
	return s
}

// #endregion state-delta
