/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package canvas owns the pan/zoom state of one scripting surface and routes
// pointer contacts through a gesture recognizer. Dragging the empty canvas
// pans it; drags that start on a script go to that script's handler.
package canvas

import (
	"log/slog"

	"blockcanvas/internal/event"
	"blockcanvas/internal/geom"
	"blockcanvas/internal/gesture"
	applog "blockcanvas/internal/log"
)

// RootDragKey is the handler key under which the workspace registers panning.
const RootDragKey = "workspace.scroll"

// Transform is the pan/zoom state. Left/Top are the canvas coordinates shown at
// the viewport origin; Scale is always > 0.
type Transform struct {
	Left, Top float64
	Scale     float64
}

// Script is anything placed on the canvas that can be torn down.
type Script interface {
	Destroy()
}

// Options configure a Workspace. Zero values pick defaults.
type Options struct {
	DragThreshold float64
	Capturer      gesture.Capturer
	Registry      *gesture.Registry
}

// Workspace is a pannable, zoomable canvas holding scripts.
// Like the recognizer it drives, it expects to be used from one goroutine.
type Workspace struct {
	transform  Transform
	matrix     geom.Affine2D
	scripts    []Script
	root       *gesture.Node
	recognizer *gesture.Recognizer
	changed    event.Emitter[Transform]
	input      inputOverlay
	log        *slog.Logger
}

func New(opts Options) *Workspace {
	reg := opts.Registry
	if reg == nil {
		reg = gesture.NewRegistry()
	}
	w := &Workspace{
		transform: Transform{Scale: 1},
		matrix:    geom.Identity,
		root:      gesture.NewNode(nil).Mark(gesture.MarkDrag, RootDragKey),
		log:       applog.WithComponent("canvas"),
	}
	w.recognizer = gesture.NewRecognizer(reg,
		gesture.WithThreshold(opts.DragThreshold),
		gesture.WithCapturer(opts.Capturer),
	)
	reg.OnDrag(RootDragKey, w.beginScroll)
	return w
}

// Root is the target for contacts that hit no script. Script targets should be
// descendants of it so unhandled drags fall back to panning.
func (w *Workspace) Root() *gesture.Node { return w.root }

func (w *Workspace) Registry() *gesture.Registry { return w.recognizer.Registry() }

func (w *Workspace) Recognizer() *gesture.Recognizer { return w.recognizer }

// PointerDown starts a contact. A nil target means the bare canvas.
func (w *Workspace) PointerDown(id int, x, y float64, target gesture.Target) {
	if target == nil {
		target = w.root
	}
	w.recognizer.Down(id, x, y, target)
}

func (w *Workspace) PointerMove(id int, x, y float64) { w.recognizer.Move(id, x, y) }
func (w *Workspace) PointerUp(id int)                 { w.recognizer.Up(id) }
func (w *Workspace) PointerCancel(id int)             { w.recognizer.Cancel(id) }

// ScrollTo sets the pan offsets.
func (w *Workspace) ScrollTo(left, top float64) {
	w.transform.Left = left
	w.transform.Top = top
	w.updateTransformation()
}

// ZoomTo sets the zoom factor and leaves the pan offsets alone, so zooming is
// anchored at the canvas origin. Non-positive factors are ignored.
func (w *Workspace) ZoomTo(scale float64) {
	if scale <= 0 {
		w.log.Debug("ignoring non-positive zoom", slog.Float64("scale", scale))
		return
	}
	w.transform.Scale = scale
	w.updateTransformation()
}

// Transform returns a copy of the current pan/zoom state.
func (w *Workspace) Transform() Transform { return w.transform }

// Matrix maps canvas coordinates to viewport coordinates.
func (w *Workspace) Matrix() geom.Affine2D { return w.matrix }

func (w *Workspace) CanvasToScreen(p geom.Pt) geom.Pt { return w.matrix.Apply(p) }

func (w *Workspace) ScreenToCanvas(p geom.Pt) geom.Pt {
	inv, _ := w.matrix.Invert()
	return inv.Apply(p)
}

// OnTransform subscribes to pan/zoom changes.
func (w *Workspace) OnTransform(fn func(Transform)) (unsubscribe func()) {
	return w.changed.Subscribe(fn)
}

func (w *Workspace) updateTransformation() {
	t := w.transform
	w.matrix = geom.Scale(t.Scale, t.Scale).Mul(geom.Translate(-t.Left, -t.Top))
	w.changed.Emit(t)
}

// beginScroll pans by dragging. Pointer deltas are divided by the zoom so the
// content follows the pointer one to one.
func (w *Workspace) beginScroll(startX, startY float64) gesture.Drag {
	init := w.transform
	return gesture.Drag{
		Move: func(x, y float64) {
			scale := w.transform.Scale
			w.ScrollTo(
				init.Left+startX/init.Scale-x/scale,
				init.Top+startY/init.Scale-y/scale,
			)
		},
	}
}

// Add places a script on the canvas.
func (w *Workspace) Add(s Script) {
	w.scripts = append(w.scripts, s)
}

// Remove takes a script off the canvas without destroying it.
func (w *Workspace) Remove(s Script) bool {
	for i, cur := range w.scripts {
		if cur == s {
			w.scripts = append(w.scripts[:i], w.scripts[i+1:]...)
			return true
		}
	}
	return false
}

// Scripts returns the scripts in insertion order.
func (w *Workspace) Scripts() []Script {
	return append([]Script(nil), w.scripts...)
}
