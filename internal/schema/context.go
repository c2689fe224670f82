package schema

import (
	"fmt"
)

// #region gesture

// GestureData is one recognized hand gesture fused into the turn input.
type GestureData struct {
	GestureType    string    `json:"gesture_type"`
	Hand           string    `json:"hand"`
	Confidence     float64   `json:"confidence"`
	TargetEntityID string    `json:"target_entity_id,omitempty"`
	Direction      *Vector3D `json:"direction,omitempty"`
	Location       *Vector3D `json:"location,omitempty"`
	HeldObjectID   string    `json:"held_object_id,omitempty"`
}

// #endregion gesture

// #region ges-prompt

// GesPrompt is the immutable voice+gesture snapshot for one turn.
// Exactly one GesPrompt triggers exactly one turn.
type GesPrompt struct {
	PlayerID          string        `json:"player_id"`
	VoiceTranscript   string        `json:"voice_transcript"`
	Gestures          []GestureData `json:"gestures,omitempty"`
	Timestamp         float64       `json:"timestamp"`
	LookingAtEntityID string        `json:"looking_at_entity_id,omitempty"`
	GameState         *GameState    `json:"game_state,omitempty"`
}

// Validate checks required fields and gesture geometry before any
// reasoning call runs. A bad prompt aborts the turn at the transport edge.
func (g *GesPrompt) Validate() error {
	if g.PlayerID == "" {
		return fmt.Errorf("ges prompt: player_id is required")
	}
	if g.VoiceTranscript == "" {
		return fmt.Errorf("ges prompt: voice_transcript is required")
	}
	for i, gesture := range g.Gestures {
		if gesture.GestureType == "" {
			return fmt.Errorf("ges prompt: gesture %d missing gesture_type", i)
		}
		if gesture.Confidence < 0 || gesture.Confidence > 1 {
			return fmt.Errorf("ges prompt: gesture %d confidence %v out of [0,1]", i, gesture.Confidence)
		}
		if gesture.Direction != nil {
			if err := gesture.Direction.Validate(); err != nil {
				return fmt.Errorf("ges prompt: gesture %d direction: %w", i, err)
			}
		}
		if gesture.Location != nil {
			if err := gesture.Location.Validate(); err != nil {
				return fmt.Errorf("ges prompt: gesture %d location: %w", i, err)
			}
		}
	}
	return nil
}

// #endregion ges-prompt

// #region intent

// Intent is the structured user intention produced exactly once per turn
// by the interface agent or the reflex matcher. Immutable after creation.
type Intent struct {
	ActionType      string  `json:"action_type"`
	TargetReference string  `json:"target_reference,omitempty"`
	RawQuery        string  `json:"raw_query,omitempty"`
	Confidence      float64 `json:"confidence"`
}

// #endregion intent
