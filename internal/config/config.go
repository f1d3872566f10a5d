/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type InteractionConfig struct {
	// DragThreshold is the distance a contact must strictly exceed before it becomes a drag.
	DragThreshold float64 `yaml:"drag_threshold"`
}

type PaletteConfig struct {
	BlockSpace        float64 `yaml:"block_space"`
	SeparatorSpace    float64 `yaml:"separator_space"`
	Padding           float64 `yaml:"padding"`
	ExtraRightPadding float64 `yaml:"extra_right_padding"` // room for the scrollbar
	OrderFile         string  `yaml:"order_file"`
}

type CatalogConfig struct {
	Path string `yaml:"path"` // SQLite file; empty means in-memory
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int               `yaml:"config_version"`
	Interaction   InteractionConfig `yaml:"interaction"`
	Palette       PaletteConfig     `yaml:"palette"`
	Catalog       CatalogConfig     `yaml:"catalog"`
	Logging       LoggingConfig     `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Interaction:   InteractionConfig{DragThreshold: 3},
		Palette: PaletteConfig{
			BlockSpace:        10,
			SeparatorSpace:    10,
			Padding:           10,
			ExtraRightPadding: 15,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvDragThreshold = "BCV_DRAG_THRESHOLD"
	EnvOrderFile     = "BCV_ORDER_FILE"
	EnvCatalogPath   = "BCV_CATALOG_PATH"
	EnvConfigFile    = "BCV_CONFIG"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "BCV_LOG_LEVEL"
	EnvLogFormat = "BCV_LOG_FORMAT"
	EnvLogSource = "BCV_LOG_SOURCE"
	EnvLogFile   = "BCV_LOG_FILE"
)

// ConfigPath returns the per-user config file path. BCV_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "BlockCanvas")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "BlockCanvas")
	default:
		base = filepath.Join(os.Getenv("HOME"), ".config", "blockcanvas")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
// A missing file is not an error; a malformed one is ignored the same way.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// mergeInto copies the non-zero values of src over dst. Tunables must stay positive,
// so zero or negative numbers in the file keep the defaults.
func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.Interaction.DragThreshold > 0 {
		dst.Interaction.DragThreshold = src.Interaction.DragThreshold
	}
	if src.Palette.BlockSpace > 0 {
		dst.Palette.BlockSpace = src.Palette.BlockSpace
	}
	if src.Palette.SeparatorSpace > 0 {
		dst.Palette.SeparatorSpace = src.Palette.SeparatorSpace
	}
	if src.Palette.Padding > 0 {
		dst.Palette.Padding = src.Palette.Padding
	}
	if src.Palette.ExtraRightPadding > 0 {
		dst.Palette.ExtraRightPadding = src.Palette.ExtraRightPadding
	}
	if strings.TrimSpace(src.Palette.OrderFile) != "" {
		dst.Palette.OrderFile = strings.TrimSpace(src.Palette.OrderFile)
	}
	if strings.TrimSpace(src.Catalog.Path) != "" {
		dst.Catalog.Path = strings.TrimSpace(src.Catalog.Path)
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvDragThreshold)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Interaction.DragThreshold = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvOrderFile)); v != "" {
		cfg.Palette.OrderFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCatalogPath)); v != "" {
		cfg.Catalog.Path = v
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	var env string
	switch key {
	case "interaction.drag_threshold":
		env = EnvDragThreshold
	case "palette.order_file":
		env = EnvOrderFile
	case "catalog.path":
		env = EnvCatalogPath
	case "logging.level":
		env = EnvLogLevel
	case "logging.format":
		env = EnvLogFormat
	case "logging.source":
		env = EnvLogSource
	case "logging.file":
		env = EnvLogFile
	default:
		return "", false
	}
	if os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}
