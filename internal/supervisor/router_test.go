package supervisor

import (
	"testing"

	"github.com/omniagent/cognition/internal/agents"
	"github.com/omniagent/cognition/internal/schema"
)

func TestRouteActionableIntentGoesToRules(t *testing.T) {
	for _, actionType := range []string{"Attack", "Interact", "Move"} {
		s := TurnState{
			Speaker: SpeakerInterface,
			Intent:  &schema.Intent{ActionType: actionType, Confidence: 0.9},
		}
		d := Route(s)
		if d.Next != SpeakerRules {
			t.Fatalf("%s routed to %s, want Rules", actionType, d.Next)
		}
	}
}

func TestRouteConversationalIntentGoesToDialogue(t *testing.T) {
	for _, actionType := range []string{"Talk", "Wait", "Unknown", "Emote"} {
		s := TurnState{
			Speaker: SpeakerInterface,
			Intent:  &schema.Intent{ActionType: actionType},
		}
		d := Route(s)
		if d.Next != SpeakerDialogue {
			t.Fatalf("%s routed to %s, want Dialogue", actionType, d.Next)
		}
	}
}

func TestRouteMissingIntentEnds(t *testing.T) {
	d := Route(TurnState{Speaker: SpeakerInterface})
	if d.Next != SpeakerEnd {
		t.Fatalf("routed to %s, want End", d.Next)
	}
}

func TestRouteAcceptedRulesEnds(t *testing.T) {
	action, err := schema.NewGameAction(schema.ActionAttack, "npc-1", nil, schema.DefaultWorldConstants())
	if err != nil {
		t.Fatalf("build action: %v", err)
	}
	s := TurnState{
		Speaker: SpeakerRules,
		Outcome: &agents.Outcome{
			Batch: schema.ActionBatch{AgentID: "RulesAgent", Actions: []schema.Action{action}},
		},
	}
	d := Route(s)
	if d.Next != SpeakerEnd {
		t.Fatalf("routed to %s, want End", d.Next)
	}
	if len(d.Messages) != 0 {
		t.Fatalf("unexpected messages: %v", d.Messages)
	}
}

func TestRouteRejectedRulesFallsBack(t *testing.T) {
	s := TurnState{
		Speaker: SpeakerRules,
		Outcome: &agents.Outcome{Rejected: true, Reason: "validation failed"},
	}
	d := Route(s)
	if d.Next != SpeakerDialogue {
		t.Fatalf("routed to %s, want Dialogue", d.Next)
	}
	if d.Speaker != SpeakerFallback {
		t.Fatalf("speaker = %s, want Supervisor_Fallback", d.Speaker)
	}
	if len(d.Messages) != 1 {
		t.Fatalf("expected exactly one rejection note, got %v", d.Messages)
	}
}

func TestRouteEmptyActionsCountAsRejection(t *testing.T) {
	s := TurnState{
		Speaker: SpeakerRules,
		Outcome: &agents.Outcome{Batch: schema.ActionBatch{Actions: []schema.Action{}}},
	}
	d := Route(s)
	if d.Next != SpeakerDialogue || d.Speaker != SpeakerFallback {
		t.Fatalf("empty batch should fall back, got next=%s speaker=%s", d.Next, d.Speaker)
	}
}

func TestRouteMissingOutcomeCountsAsRejection(t *testing.T) {
	d := Route(TurnState{Speaker: SpeakerRules})
	if d.Next != SpeakerDialogue || d.Speaker != SpeakerFallback {
		t.Fatalf("nil outcome should fall back, got next=%s speaker=%s", d.Next, d.Speaker)
	}
}

func TestRouteDialogueEnds(t *testing.T) {
	d := Route(TurnState{Speaker: SpeakerDialogue})
	if d.Next != SpeakerEnd {
		t.Fatalf("routed to %s, want End", d.Next)
	}
}

func TestRouteUnknownSpeakerEnds(t *testing.T) {
	d := Route(TurnState{Speaker: "Mystery"})
	if d.Next != SpeakerEnd {
		t.Fatalf("routed to %s, want End", d.Next)
	}
}

func TestRouteIsDeterministic(t *testing.T) {
	s := TurnState{
		Speaker: SpeakerInterface,
		Intent:  &schema.Intent{ActionType: "Move", Confidence: 0.8},
	}
	first := Route(s)
	for i := 0; i < 10; i++ {
		if got := Route(s); got.Next != first.Next || got.Speaker != first.Speaker {
			t.Fatalf("routing diverged on iteration %d", i)
		}
	}
}

func TestApplyMergeSemantics(t *testing.T) {
	intent := &schema.Intent{ActionType: "Move"}
	s := TurnState{Speaker: SpeakerInterface, Messages: []string{"a"}}

	s = s.Apply(StateDelta{Intent: intent, Messages: []string{"b"}})
	if s.Intent != intent {
		t.Fatal("intent not applied")
	}
	if s.Speaker != SpeakerInterface {
		t.Fatal("empty speaker must not overwrite")
	}
	if len(s.Messages) != 2 || s.Messages[1] != "b" {
		t.Fatalf("messages = %v, want append", s.Messages)
	}

	// Later writer wins per field.
	other := &schema.Intent{ActionType: "Talk"}
	s = s.Apply(StateDelta{Intent: other, Speaker: SpeakerRules})
	if s.Intent != other || s.Speaker != SpeakerRules {
		t.Fatalf("last-writer-wins violated: %+v", s)
	}
}
