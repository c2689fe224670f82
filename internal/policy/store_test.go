package policy

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "policy.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStorePutBaseAndActive(t *testing.T) {
	store := newTestStore(t)
	target := uuid.NewString()

	if err := store.PutBase(basePolicy(target)); err != nil {
		t.Fatalf("put base: %v", err)
	}

	active, err := store.Active(target)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active.PolicyVersion != 1 || active.Aggression != 0.5 {
		t.Fatalf("unexpected active policy: %+v", active)
	}
}

func TestStoreRejectsVersionRegression(t *testing.T) {
	store := newTestStore(t)
	target := uuid.NewString()

	p := basePolicy(target)
	p.PolicyVersion = 5
	if err := store.PutBase(p); err != nil {
		t.Fatalf("put base: %v", err)
	}

	p.PolicyVersion = 3
	if err := store.PutBase(p); err == nil {
		t.Fatal("expected error for version regression")
	}
}

func TestStoreApplyPatchMovesActivePointer(t *testing.T) {
	store := newTestStore(t)
	target := uuid.NewString()

	if err := store.PutBase(basePolicy(target)); err != nil {
		t.Fatalf("put base: %v", err)
	}

	vig := 1.0
	patch := PatchPolicy{
		TraceID:       "trace-patch",
		PolicyVersion: 2,
		IssuedAt:      200,
		TTL:           60,
		TargetGUID:    target,
		Vigilance:     &vig,
	}
	merged, err := store.ApplyPatch(patch)
	if err != nil {
		t.Fatalf("apply patch: %v", err)
	}
	if merged.Vigilance != 1.0 {
		t.Fatalf("vigilance = %v, want 1.0", merged.Vigilance)
	}

	active, err := store.Active(target)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active.PolicyVersion != 2 {
		t.Fatalf("active version = %d, want 2", active.PolicyVersion)
	}

	history, err := store.History(target, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(history))
	}
	if history[0].PolicyVersion != 1 || history[1].PolicyVersion != 2 {
		t.Fatalf("history out of order: %+v", history)
	}
}

func TestStoreApplyPatchWithoutBaseFails(t *testing.T) {
	store := newTestStore(t)
	patch := PatchPolicy{TraceID: "t", PolicyVersion: 1, TargetGUID: uuid.NewString()}
	if _, err := store.ApplyPatch(patch); err == nil {
		t.Fatal("expected error when no base policy exists")
	}
}

func TestStorePruneExpired(t *testing.T) {
	store := newTestStore(t)
	target := uuid.NewString()

	p := basePolicy(target)
	p.IssuedAt = 100
	p.TTL = 50
	if err := store.PutBase(p); err != nil {
		t.Fatalf("put base: %v", err)
	}

	n, err := store.PruneExpired(200)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 1 {
		t.Fatalf("pruned %d, want 1", n)
	}

	if _, err := store.Active(target); err == nil {
		t.Fatal("expected no active policy after prune")
	}

	// Historical versions survive the prune.
	history, err := store.History(target, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected history to survive, got %d rows", len(history))
	}
}
