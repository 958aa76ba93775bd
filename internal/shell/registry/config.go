package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/edgeforge/edgeforge/internal/core/domain"
)

// =============================================================================
// Deploy Config Loading
// =============================================================================

// LoadConfig reads and parses a deploy configuration file. JSON is the
// primary format; files with a .yaml or .yml extension are parsed as YAML.
//
// A missing file returns (nil, nil): absence is non-fatal and the caller
// decides what to do without one. A file that exists but cannot be parsed
// returns a *LoadError: a malformed configuration is a usage error and must
// not be silently ignored.
//
// The deploy configuration is parsed directly rather than through the app
// config machinery because domain identifiers contain dots, which collide
// with viper's key delimiter.
func LoadConfig(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &LoadError{Path: path, Message: "cannot read file", Err: err}
	}

	cfg, err := ParseConfig(data, isYAMLPath(path))
	if err != nil {
		return nil, &LoadError{Path: path, Message: err.Error(), Err: err}
	}
	return cfg, nil
}

// ParseConfig parses raw deploy-configuration bytes into a Config. The
// domains section is kept in its raw decoded shape; structural validation is
// the validator's job, not the parser's.
func ParseConfig(data []byte, asYAML bool) (*domain.Config, error) {
	raw := map[string]any{}
	if asYAML {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	cfg := &domain.Config{
		Domains:   raw["domains"],
		Overrides: map[string]map[string]any{},
	}

	if envs, ok := raw["environments"].(map[string]any); ok {
		cfg.Environments = envs
	}

	// Every remaining top-level mapping is a per-domain override block keyed
	// by the domain's own identifier.
	for key, value := range raw {
		if key == "domains" || key == "environments" {
			continue
		}
		if block, ok := value.(map[string]any); ok {
			cfg.Overrides[key] = block
		}
	}

	return cfg, nil
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
