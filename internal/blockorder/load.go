/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package blockorder

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	applog "blockcanvas/internal/log"
)

//go:embed order.schema.json
var schemaJSON []byte

// ErrInvalidOrder is returned for documents that do not describe a valid order.
var ErrInvalidOrder = errors.New("invalid block order")

// Format selects the decoder for Parse.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported order file extension %q", filepath.Ext(path))
	}
}

// Load reads and parses the order file at path.
func Load(path string) (Order, error) {
	l := applog.WithOperation(applog.WithComponent("blockorder"), "load").With(slog.String("path", path))
	format, err := FormatFor(path)
	if err != nil {
		return Order{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Order{}, fmt.Errorf("read order file: %w", err)
	}
	o, err := Parse(data, format)
	if err != nil {
		l.Error("parse failed", slog.Any("err", err))
		return Order{}, err
	}
	l.Debug("order loaded", slog.Int("categories", len(o.Categories)), slog.Int("blocks", o.BlockCount()))
	return o, nil
}

// Parse decodes data, validates it against the order schema and converts it.
func Parse(data []byte, format Format) (Order, error) {
	var raw any
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	case FormatJSON:
		err = json.Unmarshal(data, &raw)
	case FormatTOML:
		var m map[string]any
		err = toml.Unmarshal(data, &m)
		raw = m
	default:
		return Order{}, fmt.Errorf("unknown order format %q", format)
	}
	if err != nil {
		return Order{}, fmt.Errorf("decode %s order: %w", format, err)
	}
	if err := Validate(raw); err != nil {
		return Order{}, err
	}
	return fromRaw(raw)
}

// Validate checks a generically decoded document against the order schema.
func Validate(raw any) error {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidOrder, strings.Join(msgs, "; "))
	}
	return nil
}

func fromRaw(raw any) (Order, error) {
	doc, _ := raw.(map[string]any)
	cats, _ := doc["categories"].([]any)
	o := Order{Categories: make([]Category, 0, len(cats))}
	seenCat := make(map[string]bool, len(cats))
	for _, rc := range cats {
		cm, _ := rc.(map[string]any)
		c := Category{ID: str(cm["id"]), Label: str(cm["label"])}
		if seenCat[c.ID] {
			return Order{}, fmt.Errorf("%w: duplicate category %q", ErrInvalidOrder, c.ID)
		}
		seenCat[c.ID] = true
		items, _ := cm["blocks"].([]any)
		seenOp := make(map[string]bool, len(items))
		for _, ri := range items {
			switch v := ri.(type) {
			case string:
				if !isSeparator(v) {
					return Order{}, fmt.Errorf("%w: unexpected item %q in category %q", ErrInvalidOrder, v, c.ID)
				}
				c.Items = append(c.Items, Separator())
			case map[string]any:
				it := Item{Opcode: str(v["opcode"]), Label: str(v["label"])}
				if seenOp[it.Opcode] {
					return Order{}, fmt.Errorf("%w: duplicate opcode %q in category %q", ErrInvalidOrder, it.Opcode, c.ID)
				}
				seenOp[it.Opcode] = true
				if tags, ok := v["filter"].([]any); ok {
					it.Filter = make([]string, 0, len(tags))
					for _, tag := range tags {
						it.Filter = append(it.Filter, str(tag))
					}
				}
				c.Items = append(c.Items, it)
			}
		}
		o.Categories = append(o.Categories, c)
	}
	return o, nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
