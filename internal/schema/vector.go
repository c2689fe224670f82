package schema

import (
	"fmt"
	"math"
)

// #region vector

// Vector3D is a world-space coordinate triple. All components must be
// finite; the engine crashes on NaN geometry, so bad vectors are refused
// at construction rather than propagated.
type Vector3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewVector3D builds a vector, rejecting NaN and infinite components.
func NewVector3D(x, y, z float64) (Vector3D, error) {
	v := Vector3D{X: x, Y: y, Z: z}
	if err := v.Validate(); err != nil {
		return Vector3D{}, err
	}
	return v, nil
}

// Validate checks that every component is a finite number.
func (v Vector3D) Validate() error {
	for axis, c := range map[string]float64{"x": v.X, "y": v.Y, "z": v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("vector %s component must be finite, got %v", axis, c)
		}
	}
	return nil
}

// #endregion vector
