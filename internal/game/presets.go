package game

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var defaultPresets embed.FS

const DefaultPresetName = "casual"

// LoadPresets returns the embedded behavior catalog, merged with overrides
// from overridePath when non-empty. Override entries replace embedded ones
// keyed by preset name.
func LoadPresets(overridePath string) (map[string]Behavior, error) {
	raw, err := fs.ReadFile(defaultPresets, "presets.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded presets: %w", err)
	}
	presets := make(map[string]Behavior)
	if err := yaml.Unmarshal(raw, &presets); err != nil {
		return nil, fmt.Errorf("parse embedded presets: %w", err)
	}

	if strings.TrimSpace(overridePath) != "" {
		b, err := os.ReadFile(overridePath)
		if err != nil {
			return nil, fmt.Errorf("read preset overrides: %w", err)
		}
		overrides := make(map[string]Behavior)
		if err := yaml.Unmarshal(b, &overrides); err != nil {
			return nil, fmt.Errorf("parse preset overrides %s: %w", overridePath, err)
		}
		for name, behavior := range overrides {
			presets[name] = behavior
		}
	}

	for name, behavior := range presets {
		if err := validateBehavior(behavior); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return presets, nil
}

// PresetBehavior resolves one named preset from the catalog.
func PresetBehavior(presets map[string]Behavior, name string) (Behavior, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultPresetName
	}
	behavior, ok := presets[name]
	if !ok {
		return Behavior{}, fmt.Errorf("unknown bot preset %q", name)
	}
	return behavior, nil
}

func validateBehavior(b Behavior) error {
	for _, chance := range []float64{b.FinishChance, b.BlockChance, b.CenterChance, b.CornerChance} {
		if chance < 0 || chance > 1 {
			return fmt.Errorf("chance %v out of range [0,1]", chance)
		}
	}
	return nil
}
