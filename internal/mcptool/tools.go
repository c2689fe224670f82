// Package mcptool exposes engine capabilities as MCP tools and
// resources. External agents and debuggers use this surface to command
// the engine directly; every output passes the same schema validation as
// the reasoning pipeline.
package mcptool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/omniagent/cognition/internal/policy"
	"github.com/omniagent/cognition/internal/schema"
)

// #region speak-tool

// SpeakInput is the direct-speak command payload.
type SpeakInput struct {
	Text    string `json:"text" jsonschema:"utterance text"`
	Emotion string `json:"emotion,omitempty" jsonschema:"emotional tone, defaults to Neutral"`
}

// BatchResult carries a serialized ActionBatch back to the caller.
type BatchResult struct {
	Batch json.RawMessage `json:"batch" jsonschema:"the resulting ActionBatch"`
}

// SpeakTool defines the direct-speak MCP tool.
func SpeakTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "agent_speak",
		Description: "Directly commands the agent to speak via the engine. Useful for debugging or direct overrides.",
	}
}

// SpeakHandler builds a one-action batch from the direct-speak command.
func SpeakHandler() mcp.ToolHandlerFor[SpeakInput, BatchResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SpeakInput) (*mcp.CallToolResult, BatchResult, error) {
		speak := schema.NewSpeakAction(input.Text, input.Emotion, "")
		batch := schema.ActionBatch{
			AgentID:   "MCP_Tool_Override",
			Actions:   []schema.Action{speak},
			Reasoning: "Direct MCP Tool Call: agent_speak",
		}
		return marshalBatch(batch)
	}
}

// #endregion speak-tool

// #region move-tool

// MoveInput is the direct-move command payload.
type MoveInput struct {
	X float64 `json:"x" jsonschema:"target x coordinate"`
	Y float64 `json:"y" jsonschema:"target y coordinate"`
	Z float64 `json:"z" jsonschema:"target z coordinate"`
}

// MoveTool defines the direct-move MCP tool.
func MoveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "agent_move",
		Description: "Commands the agent to move to a specific location. Rejects non-finite coordinates.",
	}
}

// MoveHandler validates coordinates through Vector3D before any action
// is constructed, then builds a one-action batch.
func MoveHandler(constants schema.WorldConstants) mcp.ToolHandlerFor[MoveInput, BatchResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input MoveInput) (*mcp.CallToolResult, BatchResult, error) {
		target, err := schema.NewVector3D(input.X, input.Y, input.Z)
		if err != nil {
			return nil, BatchResult{}, fmt.Errorf("invalid coordinates: %w", err)
		}

		action, err := schema.NewGameAction(schema.ActionMove, "", map[string]any{
			"speed":           500,
			"target_location": target,
		}, constants)
		if err != nil {
			return nil, BatchResult{}, err
		}

		batch := schema.ActionBatch{
			AgentID:   "MCP_Tool_Maps",
			Actions:   []schema.Action{action},
			Reasoning: "Direct MCP Tool Call: agent_move",
		}
		return marshalBatch(batch)
	}
}

// #endregion move-tool

// #region policy-tool

// PolicyPatchInput is the behavior-policy override payload. Only the
// fields present overlay the target's active policy.
type PolicyPatchInput struct {
	TraceID       string   `json:"trace_id" jsonschema:"trace id for observability"`
	PolicyVersion int      `json:"policy_version" jsonschema:"monotonically increasing version"`
	IssuedAt      float64  `json:"issued_at" jsonschema:"server world time in seconds"`
	TTL           float64  `json:"ttl" jsonschema:"time to live in seconds"`
	TargetGUID    string   `json:"target_guid" jsonschema:"UUID of the target actor"`
	Aggression    *float64 `json:"aggression,omitempty" jsonschema:"0.0 to 1.0"`
	Fear          *float64 `json:"fear,omitempty" jsonschema:"0.0 to 1.0"`
	Vigilance     *float64 `json:"vigilance,omitempty" jsonschema:"0.0 to 1.0"`
	PolicyFlags   *int64   `json:"policy_flags,omitempty" jsonschema:"behavior flag bitmask"`
}

// PolicyPatchResult is the merged policy after the patch commits.
type PolicyPatchResult struct {
	Policy policy.BehaviorPolicy `json:"policy" jsonschema:"the merged active policy"`
}

// PolicyPatchTool defines the behavior-policy override MCP tool.
func PolicyPatchTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "policy_patch",
		Description: "Applies a short-term behavior policy patch to an actor's active policy.",
	}
}

// PolicyPatchHandler applies the patch through the policy store.
func PolicyPatchHandler(store *policy.Store) mcp.ToolHandlerFor[PolicyPatchInput, PolicyPatchResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input PolicyPatchInput) (*mcp.CallToolResult, PolicyPatchResult, error) {
		patch := policy.PatchPolicy{
			TraceID:       input.TraceID,
			PolicyVersion: input.PolicyVersion,
			IssuedAt:      input.IssuedAt,
			TTL:           input.TTL,
			TargetGUID:    input.TargetGUID,
			Aggression:    input.Aggression,
			Fear:          input.Fear,
			Vigilance:     input.Vigilance,
			PolicyFlags:   input.PolicyFlags,
		}
		merged, err := store.ApplyPatch(patch)
		if err != nil {
			return nil, PolicyPatchResult{}, fmt.Errorf("policy patch failed: %w", err)
		}
		return nil, PolicyPatchResult{Policy: merged}, nil
	}
}

// #endregion policy-tool

// #region player-resource

// PlayerStateResource defines the readable player-state MCP resource.
func PlayerStateResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "player_state",
		Title:       "Player State",
		Description: "Current player state snapshot",
		MIMEType:    "application/json",
		URI:         "game://state/player",
	}
}

// PlayerStateHandler serves the player state snapshot.
func PlayerStateHandler() mcp.ResourceHandler {
	return func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := PlayerStateResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/json",
					Text:     `{"health": 100, "inventory": []}`,
				},
			},
		}, nil
	}
}

// #endregion player-resource

// #region helpers

func marshalBatch(batch schema.ActionBatch) (*mcp.CallToolResult, BatchResult, error) {
	data, err := json.Marshal(batch)
	if err != nil {
		return nil, BatchResult{}, fmt.Errorf("marshal batch: %w", err)
	}
	return nil, BatchResult{Batch: data}, nil
}

// #endregion helpers
