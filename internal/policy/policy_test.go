package policy

import (
	"testing"

	"github.com/google/uuid"
)

func basePolicy(target string) BehaviorPolicy {
	return BehaviorPolicy{
		TraceID:       "trace-base",
		PolicyVersion: 1,
		IssuedAt:      100,
		TTL:           600,
		TargetGUID:    target,
		BaseSeed:      42,
		Aggression:    0.5,
		Fear:          0.2,
		Vigilance:     0.7,
		PolicyFlags:   0,
	}
}

func TestValidateClampsTraits(t *testing.T) {
	p := basePolicy(uuid.NewString())
	p.Aggression = 1.8
	p.Fear = -0.3
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Aggression != 1 {
		t.Fatalf("aggression = %v, want 1", p.Aggression)
	}
	if p.Fear != 0 {
		t.Fatalf("fear = %v, want 0", p.Fear)
	}
}

func TestValidateRejectsBadGUID(t *testing.T) {
	p := basePolicy("not-a-guid")
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for malformed target_guid")
	}
}

func TestApplyPartialOverlay(t *testing.T) {
	target := uuid.NewString()
	base := basePolicy(target)

	aggr := 0.9
	patch := PatchPolicy{
		TraceID:       "trace-patch",
		PolicyVersion: 2,
		IssuedAt:      200,
		TTL:           60,
		TargetGUID:    target,
		Aggression:    &aggr,
	}

	merged, err := Apply(base, patch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged.Aggression != 0.9 {
		t.Fatalf("aggression = %v, want 0.9", merged.Aggression)
	}
	// Untouched traits keep base values.
	if merged.Fear != base.Fear || merged.Vigilance != base.Vigilance || merged.BaseSeed != base.BaseSeed {
		t.Fatalf("unpatched fields changed: %+v", merged)
	}
	if merged.PolicyVersion != 2 || merged.TraceID != "trace-patch" {
		t.Fatalf("patch metadata not taken: %+v", merged)
	}
}

func TestApplyRejectsVersionRegression(t *testing.T) {
	target := uuid.NewString()
	base := basePolicy(target)
	base.PolicyVersion = 5

	patch := PatchPolicy{TraceID: "t", PolicyVersion: 3, TargetGUID: target}
	if _, err := Apply(base, patch); err == nil {
		t.Fatal("expected error for version regression")
	}
}

func TestApplyRejectsTargetMismatch(t *testing.T) {
	base := basePolicy(uuid.NewString())
	patch := PatchPolicy{TraceID: "t", PolicyVersion: 2, TargetGUID: uuid.NewString()}
	if _, err := Apply(base, patch); err == nil {
		t.Fatal("expected error for target mismatch")
	}
}

func TestApplyClampsPatchTraits(t *testing.T) {
	target := uuid.NewString()
	base := basePolicy(target)

	fear := 2.5
	patch := PatchPolicy{TraceID: "t", PolicyVersion: 2, TargetGUID: target, Fear: &fear}
	merged, err := Apply(base, patch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged.Fear != 1 {
		t.Fatalf("fear = %v, want clamped to 1", merged.Fear)
	}
}

func TestExpired(t *testing.T) {
	p := basePolicy(uuid.NewString())
	// IssuedAt 100, TTL 600.
	if p.Expired(500) {
		t.Fatal("policy should still be live at 500")
	}
	if !p.Expired(701) {
		t.Fatal("policy should be expired at 701")
	}
}
