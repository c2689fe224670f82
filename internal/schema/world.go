package schema

// #region world-constants

// WorldConstants carries the numeric game limits enforced by action
// constructors. Threaded explicitly into whichever component needs it;
// there is no package-level constants table.
type WorldConstants struct {
	MaxDamage float64 `json:"MAX_DAMAGE"`
}

// DefaultWorldConstants returns the hardcoded fallback limits used when
// no constants file is available.
func DefaultWorldConstants() WorldConstants {
	return WorldConstants{MaxDamage: 100}
}

// #endregion world-constants

// #region entities

// Entity is one actor or object in the engine's world snapshot.
type Entity struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Location Vector3D `json:"location"`
	Rotation Vector3D `json:"rotation"`
	Tags     []string `json:"tags,omitempty"`
}

// GameState is the engine-side world snapshot attached to a turn.
// Optional context for reasoning; the core never mutates it.
type GameState struct {
	PlayerLocation Vector3D `json:"player_location"`
	NearbyEntities []Entity `json:"nearby_entities"`
	WorldTime      string   `json:"world_time"`
	Weather        string   `json:"weather"`
}

// #endregion entities
