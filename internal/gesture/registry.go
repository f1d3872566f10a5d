/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package gesture

// Drag is what a begin handler hands back: Move receives pointer positions for
// the rest of the gesture and End runs once when the contact lifts.
// Either may be nil.
type Drag struct {
	Move func(x, y float64)
	End  func()
}

// BeginFunc starts a drag from the position where the contact went down.
type BeginFunc func(startX, startY float64) Drag

// ClickFunc handles a click. It takes no arguments.
type ClickFunc func()

// Registry maps marker keys to drag and click handlers.
type Registry struct {
	drag  map[string]BeginFunc
	click map[string]ClickFunc
}

func NewRegistry() *Registry {
	return &Registry{drag: make(map[string]BeginFunc), click: make(map[string]ClickFunc)}
}

// OnDrag registers the begin handler for key, replacing any previous one.
func (r *Registry) OnDrag(key string, fn BeginFunc) { r.drag[key] = fn }

// OnClick registers the click handler for key, replacing any previous one.
func (r *Registry) OnClick(key string, fn ClickFunc) { r.click[key] = fn }

func (r *Registry) RemoveDrag(key string)  { delete(r.drag, key) }
func (r *Registry) RemoveClick(key string) { delete(r.click, key) }

func (r *Registry) dragHandler(key string) BeginFunc { return r.drag[key] }

func (r *Registry) clickHandler(key string) ClickFunc { return r.click[key] }
