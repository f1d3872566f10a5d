/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package blocks is the reference block factory for the palette. Blocks take
// their labels from the catalog and are measured through a measure.Queue, so
// they join the layout once the host flushes the queue.
package blocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"blockcanvas/internal/catalog"
	"blockcanvas/internal/gesture"
	applog "blockcanvas/internal/log"
	"blockcanvas/internal/measure"
	"blockcanvas/internal/palette"
	"blockcanvas/internal/stack"
)

// Labeler resolves the display label of a block. *catalog.Catalog implements it.
type Labeler interface {
	Label(ctx context.Context, category, opcode string) (string, error)
}

var (
	// DefaultBlockStyle is the box around block labels.
	DefaultBlockStyle = measure.Style{Font: measure.FontSpec{Family: "sans", SizePt: 12}, PadX: 8, PadY: 8, MinWidth: 40, MinHeight: 40}
	// DefaultHeaderStyle is used for category headers.
	DefaultHeaderStyle = measure.Style{Font: measure.FontSpec{Family: "sans", SizePt: 12, Bold: true}, PadY: 4}
)

// Block is a palette block template.
type Block struct {
	stack.Base
	key         palette.BlockKey
	label       string
	cloneOnDrag bool
	destroyed   bool
	node        *gesture.Node
	factory     *Factory
}

func (b *Block) Kind() stack.Kind      { return stack.KindBlock }
func (b *Block) Key() palette.BlockKey { return b.key }
func (b *Block) Label() string         { return b.label }
func (b *Block) CloneOnDrag() bool     { return b.cloneOnDrag }
func (b *Block) SetCloneOnDrag(v bool) { b.cloneOnDrag = v }
func (b *Block) Destroyed() bool       { return b.destroyed }
func (b *Block) Target() *gesture.Node { return b.node }

// Destroy detaches the block from its gesture target and drops a pending
// measurement. Later calls do nothing.
func (b *Block) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.node.Unmark(gesture.MarkDrag)
	b.node.Unmark(gesture.MarkClick)
	b.factory.queue.Cancel(b)
	b.factory.live--
	b.factory.log.Debug("block destroyed", slog.String("block", b.key.String()))
}

// Factory creates blocks. It implements palette.Factory and palette.HeaderMeasurer.
type Factory struct {
	ctx    context.Context
	labels Labeler
	queue  *measure.Queue
	root   *gesture.Node
	live   int

	BlockStyle  measure.Style
	HeaderStyle measure.Style

	log *slog.Logger
}

// NewFactory returns a factory labelling blocks through labels (opcodes when
// nil) and measuring them through q. Block targets hang below root so drags
// that nobody handles fall through to it.
func NewFactory(ctx context.Context, labels Labeler, q *measure.Queue, root *gesture.Node) *Factory {
	if q == nil {
		q = measure.NewQueue(nil)
	}
	return &Factory{
		ctx:         ctx,
		labels:      labels,
		queue:       q,
		root:        root,
		BlockStyle:  DefaultBlockStyle,
		HeaderStyle: DefaultHeaderStyle,
		log:         applog.WithComponent("blocks"),
	}
}

// SetTargetRoot sets the parent of the gesture targets of blocks created
// from now on. The palette calls it with its canvas root.
func (f *Factory) SetTargetRoot(root *gesture.Node) { f.root = root }

// Queue is the measurement queue blocks are enqueued on.
func (f *Factory) Queue() *measure.Queue { return f.queue }

// Live returns the number of blocks created and not yet destroyed.
func (f *Factory) Live() int { return f.live }

// CreateBlock creates the block for key and schedules its measurement. Keys
// missing from the catalog are labelled with their opcode.
func (f *Factory) CreateBlock(key palette.BlockKey) (palette.Block, error) {
	label := key.Opcode
	if f.labels != nil {
		l, err := f.labels.Label(f.ctx, key.Category, key.Opcode)
		switch {
		case err == nil:
			label = l
		case errors.Is(err, catalog.ErrNotFound):
			f.log.Debug("block not in catalog", slog.String("block", key.String()))
		default:
			return nil, fmt.Errorf("label for %s: %w", key, err)
		}
	}
	b := &Block{
		Base:    stack.NewBase(key.String()),
		key:     key,
		label:   label,
		node:    gesture.NewNode(f.root).Mark(gesture.MarkDrag, palette.DragKey(key)),
		factory: f,
	}
	f.queue.Enqueue(b, label, f.BlockStyle)
	f.live++
	return b, nil
}

// MeasureHeader schedules the measurement of a category header.
func (f *Factory) MeasureHeader(h *stack.Header) {
	f.queue.Enqueue(h, h.Label, f.HeaderStyle)
}
