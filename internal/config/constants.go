package config

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/omniagent/cognition/internal/schema"
)

// #region world-constants

// LoadWorldConstants reads the world-constants file once at startup. A
// missing file is non-fatal and falls back to hardcoded defaults with a
// warning; a present-but-broken file is an error.
func LoadWorldConstants(path string, log *zap.Logger) (schema.WorldConstants, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("world constants file not found, using defaults", zap.String("path", path))
			return schema.DefaultWorldConstants(), nil
		}
		return schema.WorldConstants{}, fmt.Errorf("read world constants: %w", err)
	}

	wc := schema.DefaultWorldConstants()
	if err := json.Unmarshal(data, &wc); err != nil {
		return schema.WorldConstants{}, fmt.Errorf("parse world constants: %w", err)
	}
	return wc, nil
}

// #endregion world-constants
