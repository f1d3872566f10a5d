/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package stack lays out an ordered list of components in a single column.
//
// Only visible, measured components take part. Each one is placed at x=0
// directly below the previous one, with an extra gap after every block.
// Category headers record where their category starts so a palette can
// scroll to it.
package stack

import (
	"log/slog"

	"blockcanvas/internal/event"
	"blockcanvas/internal/geom"
	applog "blockcanvas/internal/log"
)

// DefaultBlockSpace is the gap inserted after a block.
const DefaultBlockSpace = 10.0

// CategoryOffset is the vertical position of a category header.
type CategoryOffset struct {
	ID     string
	Offset float64
}

// Stack is a column of components. Its own position is where the column sits
// on its canvas; its measurements are the aggregate size of the last pass.
type Stack struct {
	Base
	blockSpace   float64
	components   []Component
	offsets      []CategoryOffset
	repositioned event.Emitter[geom.Size]
	log          *slog.Logger
}

// New creates an empty stack. A non-positive blockSpace selects DefaultBlockSpace.
func New(blockSpace float64) *Stack {
	if blockSpace <= 0 {
		blockSpace = DefaultBlockSpace
	}
	return &Stack{blockSpace: blockSpace, log: applog.WithComponent("stack")}
}

// Add appends c. The new component is laid out on the next Reposition.
func (s *Stack) Add(c Component) { s.components = append(s.components, c) }

// Clear removes all components. It does not destroy them.
func (s *Stack) Clear() { s.components = nil }

// Components returns the components in insertion order.
func (s *Stack) Components() []Component { return append([]Component(nil), s.components...) }

func (s *Stack) Len() int { return len(s.components) }

// CategoryOffsets returns the header offsets of the last pass, top to bottom.
func (s *Stack) CategoryOffsets() []CategoryOffset {
	return append([]CategoryOffset(nil), s.offsets...)
}

// OnReposition subscribes to the aggregate size emitted after every pass.
func (s *Stack) OnReposition(fn func(geom.Size)) (unsubscribe func()) {
	return s.repositioned.Subscribe(fn)
}

// Reposition places every visible, measured component and emits the
// aggregate size. Components added while the pass runs are left for the next one.
func (s *Stack) Reposition() {
	components := s.components
	var offsets []CategoryOffset
	var maxWidth, y float64
	var last Component
	deferred := 0
	for _, c := range components {
		if !c.Visible() {
			continue
		}
		size, ok := c.Measurements()
		if !ok {
			deferred++
			continue
		}
		if last != nil && last.Kind() == KindBlock {
			y += s.blockSpace
		}
		c.SetPosition(0, y)
		if c.Kind() == KindHeader {
			offsets = append(offsets, CategoryOffset{ID: c.ID(), Offset: y})
		}
		y += size.H
		if size.W > maxWidth {
			maxWidth = size.W
		}
		last = c
	}
	s.offsets = offsets
	s.SetMeasurements(geom.Size{W: maxWidth, H: y})
	if deferred > 0 {
		s.log.Debug("components awaiting measurement", slog.Int("count", deferred))
	}
	s.repositioned.Emit(s.size)
}

// Resize re-runs the layout after visibility or measurements changed.
func (s *Stack) Resize() { s.Reposition() }

// Destroy drops every component and the last layout. Subscriptions survive.
func (s *Stack) Destroy() {
	s.components = nil
	s.offsets = nil
	s.ClearMeasurements()
}
