package policy

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// #region behavior-policy

// BehaviorPolicy is the long-term behavior tuning record for one actor.
// Versions are ordered by PolicyVersion; traits live in [0,1].
type BehaviorPolicy struct {
	TraceID       string  `json:"trace_id"`
	PolicyVersion int     `json:"policy_version"`
	IssuedAt      float64 `json:"issued_at"`
	TTL           float64 `json:"ttl"`
	TargetGUID    string  `json:"target_guid"`
	BaseSeed      int64   `json:"base_seed"`
	Aggression    float64 `json:"aggression"`
	Fear          float64 `json:"fear"`
	Vigilance     float64 `json:"vigilance"`
	PolicyFlags   int64   `json:"policy_flags"`
}

// Validate checks the target GUID and clamps trait fields in place.
// Out-of-range traits are corrected, not rejected.
func (p *BehaviorPolicy) Validate() error {
	if _, err := uuid.Parse(p.TargetGUID); err != nil {
		return fmt.Errorf("target_guid must be a valid UUID: %w", err)
	}
	p.Aggression = clampTrait(p.Aggression)
	p.Fear = clampTrait(p.Fear)
	p.Vigilance = clampTrait(p.Vigilance)
	return nil
}

// Expired reports whether the policy's time-to-live has elapsed at now
// (server world time, seconds).
func (p BehaviorPolicy) Expired(now float64) bool {
	return p.IssuedAt+p.TTL < now
}

// #endregion behavior-policy

// #region patch-policy

// PatchPolicy is a short-term override. Only non-nil fields overlay the
// base policy; everything else retains the base value.
type PatchPolicy struct {
	TraceID       string   `json:"trace_id"`
	PolicyVersion int      `json:"policy_version"`
	IssuedAt      float64  `json:"issued_at"`
	TTL           float64  `json:"ttl"`
	TargetGUID    string   `json:"target_guid"`
	BaseSeed      *int64   `json:"base_seed,omitempty"`
	Aggression    *float64 `json:"aggression,omitempty"`
	Fear          *float64 `json:"fear,omitempty"`
	Vigilance     *float64 `json:"vigilance,omitempty"`
	PolicyFlags   *int64   `json:"policy_flags,omitempty"`
}

// Validate checks the target GUID and clamps any present trait overrides.
func (p *PatchPolicy) Validate() error {
	if _, err := uuid.Parse(p.TargetGUID); err != nil {
		return fmt.Errorf("target_guid must be a valid UUID: %w", err)
	}
	if p.Aggression != nil {
		*p.Aggression = clampTrait(*p.Aggression)
	}
	if p.Fear != nil {
		*p.Fear = clampTrait(*p.Fear)
	}
	if p.Vigilance != nil {
		*p.Vigilance = clampTrait(*p.Vigilance)
	}
	return nil
}

// #endregion patch-policy

// #region apply

// Apply overlays a patch onto a base policy and returns the merged
// record. Version ordering is monotonic: a patch older than the base is
// rejected. Target GUIDs must match.
func Apply(base BehaviorPolicy, patch PatchPolicy) (BehaviorPolicy, error) {
	if err := patch.Validate(); err != nil {
		return BehaviorPolicy{}, err
	}
	if patch.TargetGUID != base.TargetGUID {
		return BehaviorPolicy{}, fmt.Errorf("patch target %s does not match base target %s", patch.TargetGUID, base.TargetGUID)
	}
	if patch.PolicyVersion < base.PolicyVersion {
		return BehaviorPolicy{}, fmt.Errorf("patch version %d older than base version %d", patch.PolicyVersion, base.PolicyVersion)
	}

	merged := base
	merged.TraceID = patch.TraceID
	merged.PolicyVersion = patch.PolicyVersion
	merged.IssuedAt = patch.IssuedAt
	merged.TTL = patch.TTL
	if patch.BaseSeed != nil {
		merged.BaseSeed = *patch.BaseSeed
	}
	if patch.Aggression != nil {
		merged.Aggression = *patch.Aggression
	}
	if patch.Fear != nil {
		merged.Fear = *patch.Fear
	}
	if patch.Vigilance != nil {
		merged.Vigilance = *patch.Vigilance
	}
	if patch.PolicyFlags != nil {
		merged.PolicyFlags = *patch.PolicyFlags
	}
	return merged, nil
}

// #endregion apply

// #region helpers

func clampTrait(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// NowWorldSeconds is the default world clock: wall time in seconds.
func NowWorldSeconds() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

// #endregion helpers
