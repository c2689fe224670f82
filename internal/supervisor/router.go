package supervisor

// #region routing-table

// actionableIntents are routed to the rules step; everything else is
// conversational and goes to dialogue.
var actionableIntents = map[string]bool{
	"Attack":   true,
	"Interact": true,
	"Move":     true,
}

// rejectionNote is injected exactly once when a rules rejection falls
// back to dialogue.
const rejectionNote = "System: Action was rejected. Explain to user."

// #endregion routing-table

// #region route

// Route is the pure transition function, keyed by the current speaker.
// Unrecognized speakers terminate the turn.
func Route(s TurnState) StateDelta {
	switch s.Speaker {

	case SpeakerInterface:
		if s.Intent == nil {
			return StateDelta{Next: SpeakerEnd}
		}
		if actionableIntents[s.Intent.ActionType] {
			return StateDelta{Next: SpeakerRules, Speaker: SpeakerSupervisor}
		}
		return StateDelta{Next: SpeakerDialogue, Speaker: SpeakerSupervisor}

	case SpeakerRules:
		// Typed rejection check: a missing outcome counts as rejected.
		if s.Outcome == nil || s.Outcome.Rejected || len(s.Outcome.Batch.Actions) == 0 {
			return StateDelta{
				Next:     SpeakerDialogue,
				Speaker:  SpeakerFallback,
				Messages: []string{rejectionNote},
			}
		}
		return StateDelta{Next: SpeakerEnd}

	case SpeakerDialogue:
		return StateDelta{Next: SpeakerEnd}
	}

	return StateDelta{Next: SpeakerEnd}
}

// #endregion route
