/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package palette

import (
	"errors"
	"reflect"
	"testing"

	"blockcanvas/internal/blockorder"
	"blockcanvas/internal/geom"
	"blockcanvas/internal/stack"
)

type fakeBlock struct {
	stack.Base
	destroyed int
	clone     bool
}

func (b *fakeBlock) Kind() stack.Kind      { return stack.KindBlock }
func (b *fakeBlock) Destroy()              { b.destroyed++ }
func (b *fakeBlock) SetCloneOnDrag(v bool) { b.clone = v }
func (b *fakeBlock) CloneOnDrag() bool     { return b.clone }

type fakeFactory struct {
	size    geom.Size
	created map[BlockKey][]*fakeBlock
	fail    map[BlockKey]error
}

func newFakeFactory(w, h float64) *fakeFactory {
	return &fakeFactory{size: geom.Size{W: w, H: h}, created: map[BlockKey][]*fakeBlock{}, fail: map[BlockKey]error{}}
}

func (f *fakeFactory) CreateBlock(key BlockKey) (Block, error) {
	if err := f.fail[key]; err != nil {
		return nil, err
	}
	b := &fakeBlock{Base: stack.NewBase(key.String())}
	b.SetMeasurements(f.size)
	f.created[key] = append(f.created[key], b)
	return b, nil
}

func (f *fakeFactory) total() int {
	n := 0
	for _, bs := range f.created {
		n += len(bs)
	}
	return n
}

type fixedHeaders struct{ size geom.Size }

func (h fixedHeaders) MeasureHeader(hd *stack.Header) { hd.SetMeasurements(h.size) }

type countingHeaders struct{ calls int }

func (h *countingHeaders) MeasureHeader(*stack.Header) { h.calls++ }

func order(cats ...blockorder.Category) blockorder.Order {
	return blockorder.Order{Categories: cats}
}

func mustNew(t *testing.T, f Factory, o blockorder.Order, opts Options) *Palette {
	t.Helper()
	p, err := New(f, o, opts)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return p
}

func TestCategoryLayoutScenario(t *testing.T) {
	f := newFakeFactory(80, 30)
	o := order(blockorder.Category{ID: "cat1", Items: []blockorder.Item{
		blockorder.Block("a", "x"),
		blockorder.Separator(),
		blockorder.Block("b"),
	}})
	p := mustNew(t, f, o, Options{Headers: fixedHeaders{geom.Size{W: 60, H: 24}}})

	offsets := p.Stack().CategoryOffsets()
	if !reflect.DeepEqual(offsets, []stack.CategoryOffset{{ID: "cat1", Offset: 0}}) {
		t.Fatalf("unexpected offsets: %+v", offsets)
	}
	a, _ := p.Block(BlockKey{"cat1", "a"})
	b, _ := p.Block(BlockKey{"cat1", "b"})
	if a.Position().Y != 24 {
		t.Fatalf("expected a below the header at 24, got %v", a.Position().Y)
	}
	// a is a block, so the regular block gap precedes the separator.
	want := a.Position().Y + 30 + stack.DefaultBlockSpace + DefaultSeparatorSpace
	if b.Position().Y != want {
		t.Fatalf("expected b at %v, got %v", want, b.Position().Y)
	}
	size, _ := p.Stack().Measurements()
	if size != (geom.Size{W: 80, H: want + 30}) {
		t.Fatalf("unexpected aggregate: %+v", size)
	}
	if p.Stack().Position() != (geom.Pt{X: 10, Y: 10}) {
		t.Fatalf("expected list at padding, got %+v", p.Stack().Position())
	}
}

func TestNewBlocksAreCloneOnDrag(t *testing.T) {
	f := newFakeFactory(10, 10)
	mustNew(t, f, order(blockorder.Category{ID: "c", Items: []blockorder.Item{blockorder.Block("a")}}), Options{})
	if !f.created[BlockKey{"c", "a"}][0].clone {
		t.Fatalf("expected clone-on-drag")
	}
}

func TestFilterTruthTable(t *testing.T) {
	f := newFakeFactory(10, 10)
	o := order(blockorder.Category{ID: "c", Items: []blockorder.Item{
		blockorder.Block("ab", "A", "B"),
		blockorder.Block("free"),
	}})
	p := mustNew(t, f, o, Options{})
	ab, _ := p.Block(BlockKey{"c", "ab"})
	free, _ := p.Block(BlockKey{"c", "free"})

	cases := []struct {
		tags     []string
		abShown  bool
		freeShow bool
	}{
		{[]string{"A"}, true, true},
		{[]string{"A", "C"}, false, true},
		{nil, true, true},
		{[]string{"B", "A"}, true, true},
		{[]string{"C"}, false, true},
	}
	for _, c := range cases {
		p.Filter(c.tags...)
		if ab.Visible() != c.abShown || free.Visible() != c.freeShow {
			t.Fatalf("filter %v: ab=%v free=%v", c.tags, ab.Visible(), free.Visible())
		}
	}
}

func TestFilterRelaysOut(t *testing.T) {
	f := newFakeFactory(10, 20)
	o := order(blockorder.Category{ID: "c", Items: []blockorder.Item{
		blockorder.Block("x", "sprite"),
		blockorder.Block("y"),
	}})
	p := mustNew(t, f, o, Options{})
	y, _ := p.Block(BlockKey{"c", "y"})
	if y.Position().Y != 30 {
		t.Fatalf("expected y at 30, got %v", y.Position().Y)
	}
	p.Filter("stage")
	if y.Position().Y != 0 {
		t.Fatalf("expected y at 0 once x is hidden, got %v", y.Position().Y)
	}
	if got := p.Tags(); !reflect.DeepEqual(got, []string{"stage"}) {
		t.Fatalf("unexpected active tags %v", got)
	}
}

func TestRematerializeReusesAndDestroysOnce(t *testing.T) {
	f := newFakeFactory(10, 10)
	p := mustNew(t, f, order(blockorder.Category{ID: "c", Items: []blockorder.Item{
		blockorder.Block("x"), blockorder.Block("y"),
	}}), Options{})
	x := f.created[BlockKey{"c", "x"}][0]
	y := f.created[BlockKey{"c", "y"}][0]

	next := order(blockorder.Category{ID: "c", Items: []blockorder.Item{blockorder.Block("y"), blockorder.Block("z")}})
	if err := p.UpdateBlockOrder(next); err != nil {
		t.Fatalf("UpdateBlockOrder error: %v", err)
	}
	if x.destroyed != 1 {
		t.Fatalf("expected x destroyed once, got %d", x.destroyed)
	}
	if y.destroyed != 0 {
		t.Fatalf("expected y kept, destroyed %d times", y.destroyed)
	}
	if len(f.created[BlockKey{"c", "y"}]) != 1 {
		t.Fatalf("expected y not recreated")
	}
	if got, _ := p.Block(BlockKey{"c", "y"}); got != Block(y) {
		t.Fatalf("expected the same y instance")
	}
	if err := p.UpdateBlockOrder(next); err != nil {
		t.Fatalf("UpdateBlockOrder error: %v", err)
	}
	if x.destroyed != 1 || f.total() != 3 {
		t.Fatalf("expected no further churn, destroyed=%d created=%d", x.destroyed, f.total())
	}
	if !reflect.DeepEqual(p.Keys(), []BlockKey{{"c", "y"}, {"c", "z"}}) {
		t.Fatalf("unexpected keys %v", p.Keys())
	}
}

func TestSameOpcodeInTwoCategoriesIsTwoBlocks(t *testing.T) {
	f := newFakeFactory(10, 10)
	p := mustNew(t, f, order(
		blockorder.Category{ID: "a", Items: []blockorder.Item{blockorder.Block("go")}},
		blockorder.Category{ID: "b", Items: []blockorder.Item{blockorder.Block("go")}},
	), Options{})
	if len(p.Keys()) != 2 || f.total() != 2 {
		t.Fatalf("expected two distinct blocks, got keys=%v created=%d", p.Keys(), f.total())
	}
}

func TestFactoryErrorKeepsInventory(t *testing.T) {
	f := newFakeFactory(10, 10)
	p := mustNew(t, f, order(blockorder.Category{ID: "c", Items: []blockorder.Item{blockorder.Block("x")}}), Options{})
	x := f.created[BlockKey{"c", "x"}][0]
	boom := errors.New("boom")
	f.fail[BlockKey{"c", "bad"}] = boom

	err := p.UpdateBlockOrder(order(blockorder.Category{ID: "c", Items: []blockorder.Item{
		blockorder.Block("new"), blockorder.Block("bad"),
	}}))
	if err != boom {
		t.Fatalf("expected the factory error unchanged, got %v", err)
	}
	if x.destroyed != 0 {
		t.Fatalf("expected old block untouched")
	}
	if fresh := f.created[BlockKey{"c", "new"}][0]; fresh.destroyed != 1 {
		t.Fatalf("expected partially created block to be destroyed, got %d", fresh.destroyed)
	}
	if _, ok := p.Block(BlockKey{"c", "x"}); !ok || len(p.Keys()) != 1 {
		t.Fatalf("expected previous inventory, got %v", p.Keys())
	}
	if p.Stack().Len() != 2 {
		t.Fatalf("expected header and x still listed, got %d", p.Stack().Len())
	}
}

func TestFactoryErrorMeasuresNoHeaders(t *testing.T) {
	f := newFakeFactory(10, 10)
	hs := &countingHeaders{}
	p := mustNew(t, f, blockorder.Order{}, Options{Headers: hs})
	f.fail[BlockKey{"b", "bad"}] = errors.New("boom")
	err := p.UpdateBlockOrder(order(
		blockorder.Category{ID: "a", Items: []blockorder.Item{blockorder.Block("ok")}},
		blockorder.Category{ID: "b", Items: []blockorder.Item{blockorder.Block("bad")}},
	))
	if err == nil {
		t.Fatalf("expected error")
	}
	if hs.calls != 0 {
		t.Fatalf("headers of a failed update must not be measured, got %d", hs.calls)
	}
	if err := p.UpdateBlockOrder(order(blockorder.Category{ID: "a"})); err != nil {
		t.Fatalf("UpdateBlockOrder error: %v", err)
	}
	if hs.calls != 1 {
		t.Fatalf("expected one header measured, got %d", hs.calls)
	}
}

func TestEmptyFilterListCountsAsUntagged(t *testing.T) {
	f := newFakeFactory(10, 10)
	p := mustNew(t, f, order(blockorder.Category{ID: "c", Items: []blockorder.Item{
		{Opcode: "x", Filter: []string{}},
	}}), Options{})
	p.Filter("sprite")
	if b, _ := p.Block(BlockKey{"c", "x"}); !b.Visible() {
		t.Fatalf("a block with an empty filter list stays visible")
	}
}

func TestBlockKeysDoNotCollide(t *testing.T) {
	a := BlockKey{Category: "a.b", Opcode: "c"}
	b := BlockKey{Category: "a", Opcode: "b.c"}
	if a.String() == b.String() || DragKey(a) == DragKey(b) {
		t.Fatalf("keys collide: %q", a.String())
	}
	f := newFakeFactory(10, 10)
	p := mustNew(t, f, order(
		blockorder.Category{ID: "a.b", Items: []blockorder.Item{blockorder.Block("c")}},
		blockorder.Category{ID: "a", Items: []blockorder.Item{blockorder.Block("b.c")}},
	), Options{})
	seen := map[string]bool{}
	for _, c := range p.Stack().Components() {
		if seen[c.ID()] {
			t.Fatalf("duplicate component id %q", c.ID())
		}
		seen[c.ID()] = true
	}
	if len(p.Keys()) != 2 {
		t.Fatalf("expected two blocks, got %v", p.Keys())
	}
}

func TestNewFailsOnFactoryError(t *testing.T) {
	f := newFakeFactory(10, 10)
	f.fail[BlockKey{"c", "x"}] = errors.New("nope")
	if _, err := New(f, order(blockorder.Category{ID: "c", Items: []blockorder.Item{blockorder.Block("x")}}), Options{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	if o.BlockSpace != 10 || o.SeparatorSpace != 10 || o.Padding != 10 || o.ExtraRightPadding != 15 {
		t.Fatalf("unexpected defaults %+v", o)
	}
}
