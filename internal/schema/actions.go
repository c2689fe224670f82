package schema

import (
	"encoding/json"
	"fmt"
)

// #region action-type

// ActionType enumerates engine-executable action categories.
type ActionType string

const (
	ActionMove     ActionType = "Move"
	ActionSpeak    ActionType = "Speak"
	ActionAttack   ActionType = "Attack"
	ActionInteract ActionType = "Interact"
	ActionEmote    ActionType = "Emote"
)

var validActionTypes = map[ActionType]bool{
	ActionMove:     true,
	ActionSpeak:    true,
	ActionAttack:   true,
	ActionInteract: true,
	ActionEmote:    true,
}

// DefaultEmotion is the emotion attached to a SpeakAction when none is given.
const DefaultEmotion = "Neutral"

// #endregion action-type

// #region action-union

// Action is the tagged union of SpeakAction and GameAction. Both variants
// co-reside in ActionBatch.Actions.
type Action interface {
	Kind() ActionType
}

// #endregion action-union

// #region game-action

// GameAction is a generic engine command with an open parameter map.
type GameAction struct {
	ActionType ActionType     `json:"action_type"`
	TargetID   string         `json:"target_id,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Kind implements Action.
func (a GameAction) Kind() ActionType { return a.ActionType }

// NewGameAction validates the action type and applies world-limit
// clamping. Every GameAction must pass through here regardless of origin
// (reasoning output or direct tool call); the damage clamp is the
// deterministic safety net under the reasoning provider.
func NewGameAction(actionType ActionType, targetID string, params map[string]any, wc WorldConstants) (GameAction, error) {
	if !validActionTypes[actionType] {
		return GameAction{}, fmt.Errorf("invalid action_type %q", actionType)
	}
	if params == nil {
		params = map[string]any{}
	}
	if actionType == ActionAttack {
		if raw, ok := params["damage"]; ok {
			if dmg, ok := numericValue(raw); ok && dmg > wc.MaxDamage {
				params["damage"] = wc.MaxDamage
			}
		}
	}
	return GameAction{ActionType: actionType, TargetID: targetID, Parameters: params}, nil
}

// numericValue normalizes the numeric types a JSON decode or a direct
// caller can put into the parameter map.
func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// #endregion game-action

// #region speak-action

// SpeakAction is an utterance command. Structurally disjoint from
// GameAction: text and emotion are first-class fields, not parameters.
type SpeakAction struct {
	ActionType     ActionType `json:"action_type"`
	Text           string     `json:"text"`
	Emotion        string     `json:"emotion"`
	TargetListener string     `json:"target_listener,omitempty"`
}

// Kind implements Action.
func (a SpeakAction) Kind() ActionType { return ActionSpeak }

// NewSpeakAction builds a Speak command, defaulting the emotion.
func NewSpeakAction(text, emotion, targetListener string) SpeakAction {
	if emotion == "" {
		emotion = DefaultEmotion
	}
	return SpeakAction{
		ActionType:     ActionSpeak,
		Text:           text,
		Emotion:        emotion,
		TargetListener: targetListener,
	}
}

// #endregion speak-action

// #region action-batch

// ActionBatch is the sole output contract to the transport layer: one
// batch per completed turn. An empty Actions list with Reasoning set
// signals full rejection.
type ActionBatch struct {
	AgentID   string   `json:"agent_id"`
	Actions   []Action `json:"actions"`
	Reasoning string   `json:"reasoning,omitempty"`
}

// UnmarshalJSON decodes the tagged union: an object with a "text" field
// and action_type "Speak" is a SpeakAction, everything else a GameAction.
func (b *ActionBatch) UnmarshalJSON(data []byte) error {
	var raw struct {
		AgentID   string            `json:"agent_id"`
		Actions   []json.RawMessage `json:"actions"`
		Reasoning string            `json:"reasoning"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.AgentID = raw.AgentID
	b.Reasoning = raw.Reasoning
	b.Actions = make([]Action, 0, len(raw.Actions))
	for i, msg := range raw.Actions {
		var probe struct {
			ActionType ActionType       `json:"action_type"`
			Text       *json.RawMessage `json:"text"`
		}
		if err := json.Unmarshal(msg, &probe); err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
		if probe.ActionType == ActionSpeak && probe.Text != nil {
			var speak SpeakAction
			if err := json.Unmarshal(msg, &speak); err != nil {
				return fmt.Errorf("action %d: %w", i, err)
			}
			if speak.Emotion == "" {
				speak.Emotion = DefaultEmotion
			}
			b.Actions = append(b.Actions, speak)
			continue
		}
		var game GameAction
		if err := json.Unmarshal(msg, &game); err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
		if !validActionTypes[game.ActionType] {
			return fmt.Errorf("action %d: invalid action_type %q", i, game.ActionType)
		}
		b.Actions = append(b.Actions, game)
	}
	return nil
}

// #endregion action-batch
