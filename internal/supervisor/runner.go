package supervisor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/omniagent/cognition/internal/agents"
	"github.com/omniagent/cognition/internal/schema"
)

// #region runner

// Runner drives one turn through the state machine: Interface →
// Supervisor → {Rules | Dialogue} → Supervisor → {Dialogue | End}. Each
// turn is a single linear sequence; exactly one provider call is
// outstanding at a time.
type Runner struct {
	iface    *agents.InterfaceAgent
	rules    *agents.RulesAgent
	dialogue *agents.DialogueAgent
	log      *zap.Logger
}

// NewRunner wires the three agents into a turn runner.
func NewRunner(iface *agents.InterfaceAgent, rules *agents.RulesAgent, dialogue *agents.DialogueAgent, log *zap.Logger) *Runner {
	return &Runner{iface: iface, rules: rules, dialogue: dialogue, log: log}
}

// #endregion runner

// #region run-turn

// RunTurn executes one complete turn for the given prompt. It returns the
// sole ActionBatch of the turn, or an error when the turn fails without a
// batch (missing persona, cancelled context). A terminated turn that
// produced no actions yields an empty batch with reasoning populated.
func (r *Runner) RunTurn(ctx context.Context, vr *schema.GesPrompt) (schema.ActionBatch, error) {
	state := TurnState{VRContext: vr, Speaker: SpeakerInterface}

	// Interface step. Spec: no context present terminates the turn.
	if vr == nil {
		return schema.ActionBatch{}, fmt.Errorf("no vr context for turn")
	}
	intent := r.iface.Resolve(ctx, vr)
	state = state.Apply(StateDelta{Intent: &intent, Speaker: SpeakerInterface, Next: SpeakerSupervisor})

	for {
		if err := ctx.Err(); err != nil {
			return schema.ActionBatch{}, fmt.Errorf("turn cancelled: %w", err)
		}

		delta := Route(state)
		state = state.Apply(delta)

		switch state.Next {

		case SpeakerRules:
			if state.Intent == nil {
				return r.finish(state)
			}
			outcome := r.rules.Evaluate(ctx, *state.Intent)
			r.log.Info("rules step finished",
				zap.Bool("rejected", outcome.Rejected),
				zap.String("reason", outcome.Reason))
			state = state.Apply(StateDelta{
				Outcome: &outcome,
				Batch:   &outcome.Batch,
				Speaker: SpeakerRules,
			})

		case SpeakerDialogue:
			req := agents.DialogueRequest{}
			if state.Intent != nil {
				req.UserQuery = state.Intent.RawQuery
			}
			if state.Speaker == SpeakerFallback && len(state.Messages) > 0 {
				req.FallbackNote = state.Messages[len(state.Messages)-1]
			}
			batch, err := r.dialogue.Respond(ctx, req)
			if err != nil {
				return schema.ActionBatch{}, fmt.Errorf("dialogue step: %w", err)
			}
			state = state.Apply(StateDelta{Batch: &batch, Speaker: SpeakerDialogue})

		case SpeakerEnd:
			return r.finish(state)

		default:
			return r.finish(state)
		}
	}
}

// finish emits the turn's batch. A turn that terminated without any
// batch reports an empty one with the termination reason, so the
// transport always has a valid contract object to send.
func (r *Runner) finish(state TurnState) (schema.ActionBatch, error) {
	if state.Batch != nil {
		return *state.Batch, nil
	}
	return schema.ActionBatch{
		AgentID:   string(SpeakerSupervisor),
		Actions:   []schema.Action{},
		Reasoning: "no action produced for this turn",
	}, nil
}

// #endregion run-turn
