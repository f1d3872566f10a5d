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
	"os"
	"path/filepath"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigFile, path)
	for _, k := range []string{EnvDragThreshold, EnvOrderFile, EnvCatalogPath, EnvLogLevel, EnvLogFormat, EnvLogSource, EnvLogFile} {
		t.Setenv(k, "")
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Interaction.DragThreshold != 3 {
		t.Fatalf("DragThreshold = %v, want 3", cfg.Interaction.DragThreshold)
	}
	p := cfg.Palette
	if p.BlockSpace != 10 || p.SeparatorSpace != 10 || p.Padding != 10 || p.ExtraRightPadding != 15 {
		t.Fatalf("palette defaults mismatch: %+v", p)
	}
}

func TestLoadMergesFile(t *testing.T) {
	path := isolate(t)
	data := []byte("interaction:\n  drag_threshold: 5\npalette:\n  block_space: 4\n  order_file: order.yaml\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Interaction.DragThreshold != 5 || cfg.Palette.BlockSpace != 4 || cfg.Palette.OrderFile != "order.yaml" {
		t.Fatalf("file values not merged: %+v", cfg)
	}
	if cfg.Palette.SeparatorSpace != 10 {
		t.Fatalf("unset field lost its default: %+v", cfg.Palette)
	}
}

func TestMergeKeepsPositiveTunables(t *testing.T) {
	dst := Defaults()
	src := AppConfig{Palette: PaletteConfig{Padding: -1}}
	mergeInto(&dst, &src)
	if dst.Palette.Padding != 10 {
		t.Fatalf("negative padding should be ignored, got %v", dst.Palette.Padding)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "DEBUG"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/bcv.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/bcv.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvDragThreshold, "7.5")
	t.Setenv(EnvCatalogPath, "/tmp/catalog.sqlite")
	t.Setenv(EnvLogSource, "yes")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Interaction.DragThreshold != 7.5 || cfg.Catalog.Path != "/tmp/catalog.sqlite" || !cfg.Logging.Source {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if env, ok := EnvOverrideFor("interaction.drag_threshold"); !ok || env != EnvDragThreshold {
		t.Fatalf("EnvOverrideFor mismatch: %q %v", env, ok)
	}
	if _, ok := EnvOverrideFor("palette.padding"); ok {
		t.Fatalf("padding has no env override")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	isolate(t)
	cfg := Defaults()
	cfg.Palette.OrderFile = "blocks.toml"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Palette.OrderFile != "blocks.toml" {
		t.Fatalf("saved order file not loaded: %+v", got.Palette)
	}
}
