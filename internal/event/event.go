/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package event provides small synchronous emitters used for the
// "reposition" and "scroll-bounds" notifications. Listeners run inline,
// in subscription order, on the goroutine that emits.
package event

// Emitter delivers values of type T to its listeners.
// The zero value is ready to use. It is not safe for concurrent use.
type Emitter[T any] struct {
	next      int
	listeners []listener[T]
}

type listener[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it again.
// Calling the returned function more than once is harmless.
func (e *Emitter[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	e.next++
	id := e.next
	e.listeners = append(e.listeners, listener[T]{id: id, fn: fn})
	return func() {
		for i, l := range e.listeners {
			if l.id == id {
				e.listeners = append(e.listeners[:i:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

// Emit calls every listener subscribed before the call started.
func (e *Emitter[T]) Emit(v T) {
	ls := e.listeners
	for _, l := range ls {
		l.fn(v)
	}
}

// Len returns the number of listeners.
func (e *Emitter[T]) Len() int { return len(e.listeners) }
