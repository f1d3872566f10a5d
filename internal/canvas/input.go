/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package canvas

// inputOverlay is the single text field the canvas floats over a block
// while one of its inputs is edited.
type inputOverlay struct {
	showing bool
	value   string
	onInput func(string)
	onEnd   func(string)
}

// ShowInput opens the overlay. An input already showing is closed first,
// so its end callback runs before the new one takes over.
func (w *Workspace) ShowInput(initial string, onInput func(string), onEnd func(string)) {
	if w.input.showing {
		w.HideInput()
	}
	w.input = inputOverlay{showing: true, value: initial, onInput: onInput, onEnd: onEnd}
}

// SetInputValue records typed text and forwards it to the input listener.
func (w *Workspace) SetInputValue(v string) {
	if !w.input.showing {
		return
	}
	w.input.value = v
	if w.input.onInput != nil {
		w.input.onInput(v)
	}
}

// HideInput closes the overlay, calling the end callback once.
func (w *Workspace) HideInput() {
	end, v := w.input.onEnd, w.input.value
	w.input = inputOverlay{}
	if end != nil {
		end(v)
	}
}

func (w *Workspace) InputShowing() bool { return w.input.showing }

func (w *Workspace) InputValue() string { return w.input.value }
