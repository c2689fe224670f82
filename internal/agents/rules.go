package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/omniagent/cognition/internal/reason"
	"github.com/omniagent/cognition/internal/schema"
)

// #region system-prompt

const rulesSystemPrompt = `Role: Rules Agent

You are the authority on game rules.

Responsibilities:
Validate all numeric parameters proposed by other agents.
Apply clamping based on predefined rule limits.
Reject or correct invalid actions.
Map 'Intent' to specific 'GameAction' types.

Constraints:
Do not generate narrative text.
Do not decide intent or dialogue.
Output structured data only.`

// rulesAgentID tags batches produced by the rules step.
const rulesAgentID = "RulesAgent"

// RejectedPrefix marks the reasoning of a rejection batch. Kept on the
// wire for engine-side visibility; routing decisions use the typed
// outcome, never this string.
const RejectedPrefix = "REJECTED: "

// #endregion system-prompt

// #region schema

var gameActionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"action_type": map[string]any{
			"type": "string",
			"enum": []string{"Move", "Attack", "Interact", "Emote", "Speak"},
		},
		"target_id": map[string]any{"type": "string", "description": "entity id the action applies to"},
		"damage":    map[string]any{"type": "number", "description": "proposed damage for Attack actions"},
		"speed":     map[string]any{"type": "number", "description": "movement speed for Move actions"},
	},
	"required": []string{"action_type"},
}

// #endregion schema

// #region outcome

// Outcome is the tagged result of the rules step. The supervisor's
// fallback check matches on Rejected, not on reasoning text.
type Outcome struct {
	Batch    schema.ActionBatch
	Rejected bool
	Reason   string
}

// accepted wraps a constructed action into an accepted outcome.
func accepted(action schema.GameAction, intentType string) Outcome {
	return Outcome{
		Batch: schema.ActionBatch{
			AgentID:   rulesAgentID,
			Actions:   []schema.Action{action},
			Reasoning: fmt.Sprintf("Processed intent: %s", intentType),
		},
	}
}

// rejected produces an empty-actions batch carrying the rejection detail.
func rejected(reason string) Outcome {
	return Outcome{
		Batch: schema.ActionBatch{
			AgentID:   rulesAgentID,
			Actions:   []schema.Action{},
			Reasoning: RejectedPrefix + reason,
		},
		Rejected: true,
		Reason:   reason,
	}
}

// #endregion outcome

// #region rules-agent

// RulesAgent maps an Intent into a validated GameAction. World limits
// are given to the provider as context only; enforcement happens in the
// schema constructor, unconditionally.
type RulesAgent struct {
	provider  reason.Provider
	constants schema.WorldConstants
	log       *zap.Logger
}

// NewRulesAgent creates a rules agent with explicit world constants.
func NewRulesAgent(provider reason.Provider, constants schema.WorldConstants, log *zap.Logger) *RulesAgent {
	return &RulesAgent{provider: provider, constants: constants, log: log}
}

// #endregion rules-agent

// #region evaluate

// proposedAction is the raw provider response before schema validation.
type proposedAction struct {
	ActionType string   `json:"action_type"`
	TargetID   string   `json:"target_id"`
	Damage     *float64 `json:"damage"`
	Speed      *float64 `json:"speed"`
}

// Evaluate resolves the intent into zero or one GameAction. The
// provider always attempts construction; schema-level correction and
// rejection are the only enforcement. Provider or validation failure
// yields a rejected outcome, never an error.
func (a *RulesAgent) Evaluate(ctx context.Context, intent schema.Intent) Outcome {
	intentJSON, err := json.Marshal(intent)
	if err != nil {
		return rejected(fmt.Sprintf("Rule Processing Failed: %v", err))
	}

	user := fmt.Sprintf(`Incoming Intent: %s

World Constants:
MAX_DAMAGE = %.0f

Task:
Convert this Intent into a valid GameAction. Propose the parameters the
user asked for as-is; out-of-range values are corrected downstream.`,
		string(intentJSON), a.constants.MaxDamage)

	var proposed proposedAction
	err = reason.Decode(ctx, a.provider, reason.Request{
		System:      rulesSystemPrompt,
		User:        user,
		Schema:      gameActionSchema,
		Temperature: 0.0,
	}, &proposed)
	if err != nil {
		a.log.Warn("rules provider call failed", zap.Error(err))
		return rejected(fmt.Sprintf("Rule Processing Failed: %v", err))
	}

	params := map[string]any{}
	if proposed.Damage != nil {
		params["damage"] = *proposed.Damage
	}
	if proposed.Speed != nil {
		params["speed"] = *proposed.Speed
	}

	action, err := schema.NewGameAction(schema.ActionType(proposed.ActionType), proposed.TargetID, params, a.constants)
	if err != nil {
		a.log.Warn("rules action failed schema validation", zap.Error(err))
		return rejected(fmt.Sprintf("Schema Validation Failed - %v", err))
	}

	return accepted(action, intent.ActionType)
}

// #endregion evaluate
