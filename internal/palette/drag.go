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

	"blockcanvas/internal/geom"
	"blockcanvas/internal/gesture"
)

// OnBlockDrop subscribes to blocks dragged out of the palette. A copy that
// nobody receives is destroyed when its drag ends.
func (p *Palette) OnBlockDrop(fn func(BlockDrag)) (unsubscribe func()) {
	return p.droppedEv.Subscribe(fn)
}

// beginBlockDrag drags the block shown for key. Clone-on-drag templates stay
// in place and a fresh copy from the factory follows the pointer.
func (p *Palette) beginBlockDrag(key BlockKey) gesture.BeginFunc {
	return func(startX, startY float64) gesture.Drag {
		tmpl, ok := p.blocks[key]
		if !ok {
			return gesture.Drag{}
		}
		dragged, base := tmpl, tmpl.Position()
		clone := tmpl.CloneOnDrag()
		if clone {
			c, err := p.factory.CreateBlock(key)
			if err != nil {
				p.log.Error("clone block failed", slog.String("block", key.String()), slog.Any("err", err))
				return gesture.Drag{}
			}
			lp := p.list.Position()
			base = geom.Pt{X: lp.X + base.X, Y: lp.Y + base.Y}
			c.SetPosition(base.X, base.Y)
			dragged = c
		}
		return gesture.Drag{
			Move: func(x, y float64) {
				scale := p.ws.Transform().Scale
				dragged.SetPosition(base.X+(x-startX)/scale, base.Y+(y-startY)/scale)
			},
			End: func() {
				d := BlockDrag{Key: key, Block: dragged, At: dragged.Position()}
				if clone && p.droppedEv.Len() == 0 {
					dragged.Destroy()
				} else {
					p.droppedEv.Emit(d)
				}
				if !clone {
					p.list.Resize()
				}
			},
		}
	}
}
