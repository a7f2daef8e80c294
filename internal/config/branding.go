package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/atinyakov/yosso/internal/models"
)

const (
	// DefaultSystemName is the product name used when no branding config
	// is present.
	DefaultSystemName = "yoSSO"
	// DefaultTargetEnv is the environment label used when unset.
	DefaultTargetEnv = "dev"
)

// LoadBranding reads the branding configuration (system_name, target_env,
// base_color) from the JSON file at path. A missing file yields defaults;
// a malformed one is an error. Missing fields fall back to defaults.
func LoadBranding(path string) (*models.Branding, error) {
	branding := &models.Branding{
		SystemName: DefaultSystemName,
		TargetEnv:  DefaultTargetEnv,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return branding, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read branding config: %w", err)
	}

	if err := json.Unmarshal(data, branding); err != nil {
		return nil, fmt.Errorf("parse branding config: %w", err)
	}

	if branding.SystemName == "" {
		branding.SystemName = DefaultSystemName
	}
	if branding.TargetEnv == "" {
		branding.TargetEnv = DefaultTargetEnv
	}

	return branding, nil
}
