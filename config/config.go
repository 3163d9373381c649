// Package config loads the application configuration from a yaml or json
// file with optional K_-prefixed environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/agromw/missiond/core/plan"
	"github.com/agromw/missiond/infra/archive"
	"github.com/agromw/missiond/infra/mqtt"
	"github.com/agromw/missiond/infra/rest"
)

type Config struct {
	MQTT            mqtt.Config     `json:"mqtt"`
	Clients         rest.Config     `json:"clients"`
	Dispatch        DispatchConfig  `json:"dispatch"`
	Archive         archive.Config  `json:"archive"`
	SysConfig       SysConfig       `json:"sysconfig"`
	Metrics         MetricsConfig   `json:"metrics"`
	API             APIConfig       `json:"api"`
	PrescriptionMap plan.MapConfig  `json:"prescription_map"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}

	cfg.MQTT.SetDefaults()
	cfg.Clients.SetDefaults()
	cfg.Dispatch.SetDefaults()
	cfg.Archive.SetDefaults()
	cfg.SysConfig.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.API.SetDefaults()
	cfg.PrescriptionMap.SetDefaults()

	if err := cfg.MQTT.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Clients.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Dispatch.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Archive.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.SysConfig.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.API.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
