/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package stack

import "blockcanvas/internal/geom"

// Kind distinguishes the components the layout treats specially.
type Kind int

const (
	// KindBlock is a draggable block template; a gap follows it.
	KindBlock Kind = iota
	// KindHeader starts a category and is recorded in the category offsets.
	KindHeader
	// KindSpace is a fixed-height separator.
	KindSpace
)

func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindHeader:
		return "header"
	case KindSpace:
		return "space"
	default:
		return "unknown"
	}
}

// Component is the capability set the layout needs from a visual item.
// Measurements reports ok=false until the item has been measured; such items
// are skipped by the layout and picked up by a later pass.
type Component interface {
	ID() string
	Kind() Kind
	Visible() bool
	Measurements() (geom.Size, bool)
	Position() geom.Pt
	SetPosition(x, y float64)
}

// Base holds the state shared by all components. Embed it and add Kind.
// New components are visible and unmeasured.
type Base struct {
	id       string
	pos      geom.Pt
	size     geom.Size
	measured bool
	hidden   bool
}

func NewBase(id string) Base { return Base{id: id} }

func (b *Base) ID() string               { return b.id }
func (b *Base) Position() geom.Pt        { return b.pos }
func (b *Base) SetPosition(x, y float64) { b.pos = geom.Pt{X: x, Y: y} }
func (b *Base) Visible() bool            { return !b.hidden }
func (b *Base) SetVisible(v bool)        { b.hidden = !v }

func (b *Base) Measurements() (geom.Size, bool) { return b.size, b.measured }

// SetMeasurements records the measured size and makes the component eligible for layout.
func (b *Base) SetMeasurements(s geom.Size) {
	b.size = s
	b.measured = true
}

// ClearMeasurements marks the component as needing a new measurement.
func (b *Base) ClearMeasurements() {
	b.size = geom.Size{}
	b.measured = false
}

// Header starts a category. Its ID is the category ID.
type Header struct {
	Base
	Label string
}

func NewHeader(categoryID, label string) *Header {
	return &Header{Base: NewBase(categoryID), Label: label}
}

func (h *Header) Kind() Kind         { return KindHeader }
func (h *Header) CategoryID() string { return h.id }

// Space is a separator of fixed height. It is measured from the start.
type Space struct {
	Base
}

func NewSpace(id string, height float64) *Space {
	s := &Space{Base: NewBase(id)}
	s.SetMeasurements(geom.Size{H: height})
	return s
}

func (s *Space) Kind() Kind { return KindSpace }
