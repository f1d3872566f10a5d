/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"blockcanvas/internal/blockorder"
)

func sampleOrder() blockorder.Order {
	return blockorder.Order{Categories: []blockorder.Category{
		{ID: "motion", Items: []blockorder.Item{
			blockorder.Block("move", "sprite"),
			blockorder.Separator(),
			{Opcode: "turn", Label: "turn right"},
		}},
		{ID: "looks", Items: []blockorder.Item{blockorder.Block("say", "sprite", "stage")}},
	}}
}

func TestImportAndLookup(t *testing.T) {
	ctx := context.Background()
	c, err := Open(ctx, "")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer c.Close()

	n, err := c.Import(ctx, sampleOrder())
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 rows, got %d", n)
	}
	if lbl, err := c.Label(ctx, "motion", "move"); err != nil || lbl != "move" {
		t.Fatalf("expected opcode as label, got %q, %v", lbl, err)
	}
	if lbl, err := c.Label(ctx, "motion", "turn"); err != nil || lbl != "turn right" {
		t.Fatalf("expected explicit label, got %q, %v", lbl, err)
	}
	d, err := c.Get(ctx, "looks", "say")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !reflect.DeepEqual(d.Tags, []string{"sprite", "stage"}) {
		t.Fatalf("unexpected tags: %v", d.Tags)
	}
	d, _ = c.Get(ctx, "motion", "turn")
	if d.Tags != nil {
		t.Fatalf("expected no tags, got %v", d.Tags)
	}
}

func TestMissingDefinition(t *testing.T) {
	ctx := context.Background()
	c, err := Open(ctx, "")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer c.Close()
	if _, err := c.Label(ctx, "motion", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestImportUpsertsAndListsInOrder(t *testing.T) {
	ctx := context.Background()
	c, err := Open(ctx, "")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer c.Close()
	if _, err := c.Import(ctx, sampleOrder()); err != nil {
		t.Fatalf("Import error: %v", err)
	}
	o := sampleOrder()
	o.Categories[0].Items[0].Label = "move steps"
	if _, err := c.Import(ctx, o); err != nil {
		t.Fatalf("re-Import error: %v", err)
	}
	all, err := c.List(ctx, "")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 definitions after upsert, got %d", len(all))
	}
	if all[0].Opcode != "move" || all[0].Label != "move steps" {
		t.Fatalf("unexpected first definition: %+v", all[0])
	}
	motion, err := c.List(ctx, "motion")
	if err != nil || len(motion) != 2 {
		t.Fatalf("expected 2 motion definitions, got %d, %v", len(motion), err)
	}
}

func TestFileCatalogPersistsAndMigrates(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "catalog.sqlite")
	c, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if err := c.Put(ctx, Definition{Category: "events", Opcode: "whenflag", Label: "when flag clicked"}); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if v, err := c.SchemaVersion(ctx); err != nil || v != schemaVersion {
		t.Fatalf("expected schema %d, got %d, %v", schemaVersion, v, err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	c, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer c.Close()
	if c.Path() != path {
		t.Fatalf("unexpected path %q", c.Path())
	}
	if lbl, err := c.Label(ctx, "events", "whenflag"); err != nil || lbl != "when flag clicked" {
		t.Fatalf("expected persisted label, got %q, %v", lbl, err)
	}
}
