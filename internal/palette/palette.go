/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package palette implements the block palette: a canvas holding a single
// stack of category headers, separators and block templates. The palette
// keeps block instances alive across order updates, filters them by tags and
// derives scroll bounds from the stack layout.
package palette

import (
	"fmt"
	"log/slog"
	"strconv"

	"blockcanvas/internal/blockorder"
	"blockcanvas/internal/canvas"
	"blockcanvas/internal/config"
	"blockcanvas/internal/event"
	"blockcanvas/internal/geom"
	"blockcanvas/internal/gesture"
	applog "blockcanvas/internal/log"
	"blockcanvas/internal/stack"
)

// BlockKey identifies a palette block: the category it appears in and its opcode.
type BlockKey struct {
	Category string
	Opcode   string
}

// String encodes the key as "<len(category)>:<category>.<opcode>". The
// length prefix keeps keys unambiguous when ids contain dots.
func (k BlockKey) String() string {
	return strconv.Itoa(len(k.Category)) + ":" + k.Category + "." + k.Opcode
}

// DragKey is the gesture handler key the palette registers for key.
func DragKey(key BlockKey) string { return "block:" + key.String() }

// Block is a block template shown in the palette.
type Block interface {
	stack.Component
	SetVisible(bool)
	// SetCloneOnDrag makes dragging the block produce a copy instead of moving it.
	SetCloneOnDrag(bool)
	CloneOnDrag() bool
	Destroy()
}

// Factory creates block instances.
type Factory interface {
	CreateBlock(key BlockKey) (Block, error)
}

// HeaderMeasurer measures category headers. Without one headers are
// measured at zero size.
type HeaderMeasurer interface {
	MeasureHeader(h *stack.Header)
}

// TargetRooter is implemented by factories whose blocks carry gesture
// targets. The palette hands over its canvas root before creating blocks,
// so block targets resolve to the palette's drag handlers.
type TargetRooter interface {
	SetTargetRoot(root *gesture.Node)
}

// BlockDrag describes a block dragged out of the palette. Block is the copy
// for clone-on-drag templates and the template itself otherwise. At is its
// position on the palette canvas when the contact lifted.
type BlockDrag struct {
	Key   BlockKey
	Block Block
	At    geom.Pt
}

// Connection is a place a dragged block could snap to.
type Connection struct {
	Block Block
	At    geom.Pt
}

// ScrollBounds is the scrollable range of the palette canvas.
type ScrollBounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Options tune the palette. Zero values pick the defaults.
type Options struct {
	BlockSpace        float64
	SeparatorSpace    float64
	Padding           float64
	ExtraRightPadding float64
	DragThreshold     float64
	Capturer          gesture.Capturer
	Headers           HeaderMeasurer
}

const (
	DefaultSeparatorSpace    = 10.0
	DefaultPadding           = 10.0
	DefaultExtraRightPadding = 15.0
)

// OptionsFromConfig maps the user configuration onto palette options.
func OptionsFromConfig(cfg config.AppConfig) Options {
	return Options{
		BlockSpace:        cfg.Palette.BlockSpace,
		SeparatorSpace:    cfg.Palette.SeparatorSpace,
		Padding:           cfg.Palette.Padding,
		ExtraRightPadding: cfg.Palette.ExtraRightPadding,
		DragThreshold:     cfg.Interaction.DragThreshold,
	}
}

func (o Options) withDefaults() Options {
	if o.BlockSpace <= 0 {
		o.BlockSpace = stack.DefaultBlockSpace
	}
	if o.SeparatorSpace <= 0 {
		o.SeparatorSpace = DefaultSeparatorSpace
	}
	if o.Padding <= 0 {
		o.Padding = DefaultPadding
	}
	if o.ExtraRightPadding <= 0 {
		o.ExtraRightPadding = DefaultExtraRightPadding
	}
	return o
}

// Palette is the palette controller.
type Palette struct {
	opts    Options
	factory Factory
	ws      *canvas.Workspace
	list    *stack.Stack

	order   blockorder.Order
	keys    []BlockKey
	blocks  map[BlockKey]Block
	filters map[BlockKey][]string
	tags    []string

	viewport    geom.Size
	hasViewport bool
	bounds      ScrollBounds
	hasBounds   bool
	boundsEv    event.Emitter[ScrollBounds]
	droppedEv   event.Emitter[BlockDrag]

	log *slog.Logger
}

// New creates a palette showing order and applies an empty filter.
func New(f Factory, order blockorder.Order, opts Options) (*Palette, error) {
	opts = opts.withDefaults()
	p := &Palette{
		opts:    opts,
		factory: f,
		ws:      canvas.New(canvas.Options{DragThreshold: opts.DragThreshold, Capturer: opts.Capturer}),
		list:    stack.New(opts.BlockSpace),
		blocks:  map[BlockKey]Block{},
		filters: map[BlockKey][]string{},
		log:     applog.WithComponent("palette"),
	}
	p.list.SetPosition(opts.Padding, opts.Padding)
	p.ws.Add(p.list)
	p.list.OnReposition(func(geom.Size) { p.RecalculateScrollBounds() })
	if r, ok := f.(TargetRooter); ok {
		r.SetTargetRoot(p.ws.Root())
	}
	if err := p.UpdateBlockOrder(order); err != nil {
		return nil, err
	}
	return p, nil
}

// Workspace is the canvas the palette lives on.
func (p *Palette) Workspace() *canvas.Workspace { return p.ws }

// Stack is the palette's block list.
func (p *Palette) Stack() *stack.Stack { return p.list }

// Order is the block order currently shown.
func (p *Palette) Order() blockorder.Order { return p.order }

// Keys returns the block keys in palette order.
func (p *Palette) Keys() []BlockKey { return append([]BlockKey(nil), p.keys...) }

// Block returns the instance shown for key.
func (p *Palette) Block(key BlockKey) (Block, bool) {
	b, ok := p.blocks[key]
	return b, ok
}

// UpdateBlockOrder rebuilds the palette contents from order. Blocks whose key
// is still present are reused as is; new ones come from the factory and are
// marked clone-on-drag; blocks no longer present are destroyed. When the
// factory fails the previous contents stay in place and its error is
// returned unchanged. The active filter is applied to the new contents.
func (p *Palette) UpdateBlockOrder(order blockorder.Order) error {
	l := applog.WithOperation(p.log, "update_block_order")
	old := p.blocks
	blocks := make(map[BlockKey]Block, order.BlockCount())
	filters := make(map[BlockKey][]string, order.BlockCount())
	var keys []BlockKey
	var components []stack.Component
	var headers []*stack.Header
	var created []Block

	for _, cat := range order.Categories {
		h := stack.NewHeader(cat.ID, cat.HeaderLabel())
		headers = append(headers, h)
		components = append(components, h)
		for i, it := range cat.Items {
			if it.Separator {
				id := fmt.Sprintf("sep:%d:%s.%d", len(cat.ID), cat.ID, i)
				components = append(components, stack.NewSpace(id, p.opts.SeparatorSpace))
				continue
			}
			key := BlockKey{Category: cat.ID, Opcode: it.Opcode}
			if _, dup := blocks[key]; dup {
				l.Warn("duplicate block skipped", slog.String("block", key.String()))
				continue
			}
			b, ok := old[key]
			if !ok {
				nb, err := p.factory.CreateBlock(key)
				if err != nil {
					for _, c := range created {
						c.Destroy()
					}
					l.Error("create block failed", slog.String("block", key.String()), slog.Any("err", err))
					return err
				}
				nb.SetCloneOnDrag(true)
				created = append(created, nb)
				b = nb
			}
			blocks[key] = b
			filters[key] = it.Filter
			keys = append(keys, key)
			components = append(components, b)
		}
	}

	// Headers are measured only once the new contents are certain.
	for _, h := range headers {
		if p.opts.Headers != nil {
			p.opts.Headers.MeasureHeader(h)
		} else {
			h.SetMeasurements(geom.Size{})
		}
	}
	reg := p.ws.Registry()
	destroyed := 0
	for key, b := range old {
		if _, keep := blocks[key]; !keep {
			reg.RemoveDrag(DragKey(key))
			b.Destroy()
			destroyed++
		}
	}
	for _, key := range keys {
		reg.OnDrag(DragKey(key), p.beginBlockDrag(key))
	}
	p.list.Clear()
	for _, c := range components {
		p.list.Add(c)
	}
	p.order = order
	p.keys = keys
	p.blocks = blocks
	p.filters = filters
	l.Debug("block order updated",
		slog.Int("blocks", len(blocks)),
		slog.Int("created", len(created)),
		slog.Int("destroyed", destroyed),
	)
	p.Filter(p.tags...)
	return nil
}

// Filter shows only blocks carrying every tag in tags. Blocks without tags
// are always shown, and an empty filter list in the order counts as no tags.
// No tags shows everything. The list is laid out again.
func (p *Palette) Filter(tags ...string) {
	p.tags = append([]string(nil), tags...)
	for key, b := range p.blocks {
		b.SetVisible(matches(p.filters[key], tags))
	}
	p.list.Resize()
}

// Tags returns the active filter.
func (p *Palette) Tags() []string { return append([]string(nil), p.tags...) }

func matches(assigned, requested []string) bool {
	if len(assigned) == 0 {
		return true
	}
	for _, want := range requested {
		found := false
		for _, have := range assigned {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Resize lays the list out again, e.g. after measurements arrived.
func (p *Palette) Resize() { p.list.Resize() }
