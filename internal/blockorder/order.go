/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package blockorder describes which blocks a palette shows and in what order:
// an ordered list of categories, each an ordered list of blocks and
// separators. Orders are usually loaded from YAML, JSON or TOML files and
// validated against an embedded JSON schema.
package blockorder

import "strings"

// Order is the declarative palette content.
type Order struct {
	Categories []Category
}

// Category is one palette section. Its ID doubles as the header ID.
type Category struct {
	ID    string
	Label string
	Items []Item
}

// Item is either a block template or a separator.
type Item struct {
	Separator bool
	Opcode    string
	Label     string
	Filter    []string
}

// SeparatorMarker is how separators are written in order files. Any string
// starting with '-' is accepted.
const SeparatorMarker = "-"

// Separator returns a separator item.
func Separator() Item { return Item{Separator: true} }

// Block returns a block item with optional filter tags.
func Block(opcode string, filter ...string) Item {
	return Item{Opcode: opcode, Filter: filter}
}

func isSeparator(s string) bool { return strings.HasPrefix(s, SeparatorMarker) }

// BlockCount returns the number of block items across all categories.
func (o Order) BlockCount() int {
	n := 0
	for _, c := range o.Categories {
		for _, it := range c.Items {
			if !it.Separator {
				n++
			}
		}
	}
	return n
}

// HeaderLabel is the category label, falling back to the ID.
func (c Category) HeaderLabel() string {
	if c.Label != "" {
		return c.Label
	}
	return c.ID
}
