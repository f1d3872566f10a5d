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
	"log/slog"

	"blockcanvas/internal/canvas"
	"blockcanvas/internal/geom"
)

// SetViewport records the visible size of the palette and recomputes the scroll bounds.
func (p *Palette) SetViewport(size geom.Size) {
	p.viewport = size
	p.hasViewport = true
	p.RecalculateScrollBounds()
}

// Viewport returns the last viewport size.
func (p *Palette) Viewport() (geom.Size, bool) { return p.viewport, p.hasViewport }

// RecalculateScrollBounds derives the scroll bounds from the list size and
// the viewport. The bottom leaves room to show the last category alone at
// the top of the viewport. Nothing happens until both are known.
func (p *Palette) RecalculateScrollBounds() {
	size, ok := p.list.Measurements()
	if !p.hasViewport || !ok {
		return
	}
	pad := 2*p.opts.Padding + p.opts.ExtraRightPadding
	bottom := p.viewport.H
	if offsets := p.list.CategoryOffsets(); len(offsets) > 0 {
		bottom = offsets[len(offsets)-1].Offset + p.viewport.H
	}
	p.bounds = ScrollBounds{
		MaxX: max(size.W+pad, p.viewport.W),
		MaxY: max(size.H+pad, bottom),
	}
	p.hasBounds = true
	p.boundsEv.Emit(p.bounds)
}

// ScrollBounds returns the last computed bounds.
func (p *Palette) ScrollBounds() (ScrollBounds, bool) { return p.bounds, p.hasBounds }

// OnScrollBounds subscribes to scroll bound changes.
func (p *Palette) OnScrollBounds(fn func(ScrollBounds)) (unsubscribe func()) {
	return p.boundsEv.Subscribe(fn)
}

// ClampScroll limits a scroll position so the viewport stays within the bounds.
func (p *Palette) ClampScroll(left, top float64) (float64, float64) {
	if !p.hasBounds {
		return left, top
	}
	b := p.bounds
	left = clamp(left, b.MinX, max(b.MinX, b.MaxX-p.viewport.W))
	top = clamp(top, b.MinY, max(b.MinY, b.MaxY-p.viewport.H))
	return left, top
}

func clamp(v, lo, hi float64) float64 { return min(max(v, lo), hi) }

// ScrollToCategory scrolls vertically so the header of category id is at
// the top of the viewport. It reports false for unknown or hidden categories.
func (p *Palette) ScrollToCategory(id string) bool {
	for _, off := range p.list.CategoryOffsets() {
		if off.ID != id {
			continue
		}
		t := p.ws.Transform()
		left, top := p.ClampScroll(t.Left, off.Offset)
		p.ws.ScrollTo(left, top)
		return true
	}
	p.log.Debug("scroll to unknown category", slog.String("category", id))
	return false
}

// AcceptDrop takes a script dropped on the palette. Dropping deletes it.
func (p *Palette) AcceptDrop(script canvas.Script, x, y float64) {
	p.log.Debug("script dropped on palette", slog.Float64("x", x), slog.Float64("y", y))
	script.Destroy()
}

// StackBlockConnections returns the stack connections blocks can snap to.
// Nothing snaps inside the palette.
func (p *Palette) StackBlockConnections() []Connection { return nil }

// ReporterConnections returns the reporter slots b could be dropped into.
func (p *Palette) ReporterConnections(b Block) []Connection { return nil }
