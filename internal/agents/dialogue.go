package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/omniagent/cognition/internal/persona"
	"github.com/omniagent/cognition/internal/reason"
	"github.com/omniagent/cognition/internal/schema"
)

// #region system-prompt

const dialogueSystemPrompt = `Role: Dialogue Agent

You are responsible for generating communicative intent only.

Responsibilities:

Decide what the character wants to say.
Attach emotional context to speech.
Specify the intended listener if applicable.

Constraints:

Only produce SpeakAction proposals.
Do not reference game rules, limits, or engine behavior.
Do not output ActionBatch directly.

Output Format:

One SpeakAction proposal in structured JSON.
Ensure "action_type" is strictly "Speak".
Do not include narration or explanations.`

// #endregion system-prompt

// #region schema

var speakActionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"text":            map[string]any{"type": "string", "description": "the utterance"},
		"emotion":         map[string]any{"type": "string", "description": "emotional tone, e.g. Neutral, Happy, Wary"},
		"target_listener": map[string]any{"type": "string", "description": "entity id of the listener"},
	},
	"required": []string{"text"},
}

// #endregion schema

// #region dialogue-agent

// DialogueAgent generates the persona-conditioned spoken response.
// Dialogue must always produce some utterance: provider failure falls
// back to a neutral placeholder, only a missing persona fails the turn.
type DialogueAgent struct {
	provider    reason.Provider
	personas    *persona.Store
	personaName string
	log         *zap.Logger
}

// NewDialogueAgent creates a dialogue agent speaking as the named persona.
func NewDialogueAgent(provider reason.Provider, personas *persona.Store, personaName string, log *zap.Logger) *DialogueAgent {
	return &DialogueAgent{provider: provider, personas: personas, personaName: personaName, log: log}
}

// #endregion dialogue-agent

// #region respond

// Request carries what the dialogue step needs from the turn: the user's
// utterance (or a placeholder when absent) and, on fallback entry, the
// system note explaining the rejection.
type DialogueRequest struct {
	UserQuery    string
	FallbackNote string
}

// Respond produces an ActionBatch with exactly one SpeakAction, agent_id
// set to the persona name. Persona-load failure is the one fatal path.
func (a *DialogueAgent) Respond(ctx context.Context, req DialogueRequest) (schema.ActionBatch, error) {
	p, err := a.personas.Load(a.personaName)
	if err != nil {
		return schema.ActionBatch{}, fmt.Errorf("load persona: %w", err)
	}

	system := fmt.Sprintf(`%s

--- Persona Context ---
Name: %s
Role: %s
Traits: %s
Memory Summary: %s
Sentiment toward Player: %s`,
		dialogueSystemPrompt,
		p.Name, p.Role,
		strings.Join(p.Traits, ", "),
		strings.Join(p.MemorySummary.KeyEvents, "; "),
		p.MemorySummary.Sentiment)

	userQuery := req.UserQuery
	if userQuery == "" {
		userQuery = "..."
	}
	human := fmt.Sprintf("Player said: %q", userQuery)
	if req.FallbackNote != "" {
		human += fmt.Sprintf("\n[System Note]: The player's previous action was rejected. Reason: %s. Explain this in character.", req.FallbackNote)
	}

	var proposed struct {
		Text           string `json:"text"`
		Emotion        string `json:"emotion"`
		TargetListener string `json:"target_listener"`
	}
	err = reason.Decode(ctx, a.provider, reason.Request{
		System:      system,
		User:        human,
		Schema:      speakActionSchema,
		Temperature: 0.7,
	}, &proposed)

	var speak schema.SpeakAction
	if err != nil {
		a.log.Warn("dialogue provider call failed, falling back to neutral", zap.Error(err))
		speak = schema.NewSpeakAction("...", schema.DefaultEmotion, "")
	} else {
		speak = schema.NewSpeakAction(proposed.Text, proposed.Emotion, proposed.TargetListener)
	}

	return schema.ActionBatch{
		AgentID: p.Name,
		Actions: []schema.Action{speak},
	}, nil
}

// #endregion respond
