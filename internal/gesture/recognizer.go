/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package gesture turns raw pointer contacts into clicks and drags.
//
// Every contact gets its own session. A session starts Pending; once the
// pointer has moved strictly further than the drag threshold from where it
// went down it becomes Dragging and never goes back. Lifting the contact
// fires a click (Pending) or the drag's end callback (Dragging) and discards
// the session. Events for contacts without a session are ignored.
package gesture

import (
	"log/slog"

	"blockcanvas/internal/geom"
	applog "blockcanvas/internal/log"
)

// DefaultThreshold is the drag distance used when none is configured.
const DefaultThreshold = 3.0

// State is the per-session phase.
type State int

const (
	Pending State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "pending"
}

// Session is the bookkeeping for one contact.
type Session struct {
	Target         Target
	StartX, StartY float64
	State          State

	move     func(x, y float64)
	end      func()
	captured bool
}

// Capturer routes all further events of a contact to the recognizer's owner,
// e.g. by calling the platform's set/releasePointerCapture.
type Capturer interface {
	Capture(id int)
	Release(id int)
}

// Recognizer runs the click/drag state machine for one canvas.
// It is not safe for concurrent use; feed it from the UI event loop.
type Recognizer struct {
	reg       *Registry
	capture   Capturer
	threshold float64
	sessions  map[int]*Session
	log       *slog.Logger
}

type Option func(*Recognizer)

// WithThreshold sets the drag distance. Non-positive values keep the default.
func WithThreshold(d float64) Option {
	return func(r *Recognizer) {
		if d > 0 {
			r.threshold = d
		}
	}
}

// WithCapturer installs the input capture hook used when a drag starts.
func WithCapturer(c Capturer) Option { return func(r *Recognizer) { r.capture = c } }

func NewRecognizer(reg *Registry, opts ...Option) *Recognizer {
	if reg == nil {
		reg = NewRegistry()
	}
	r := &Recognizer{
		reg:       reg,
		threshold: DefaultThreshold,
		sessions:  make(map[int]*Session),
		log:       applog.WithComponent("gesture"),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Registry returns the handler registry the recognizer dispatches to.
func (r *Recognizer) Registry() *Registry { return r.reg }

// Threshold returns the configured drag distance.
func (r *Recognizer) Threshold() float64 { return r.threshold }

// Down opens a Pending session for id. A second Down for a live id is ignored.
func (r *Recognizer) Down(id int, x, y float64, target Target) {
	if _, ok := r.sessions[id]; ok {
		return
	}
	r.sessions[id] = &Session{Target: target, StartX: x, StartY: y, State: Pending}
}

// Move advances the session for id.
func (r *Recognizer) Move(id int, x, y float64) {
	s, ok := r.sessions[id]
	if !ok {
		return
	}
	if s.State == Dragging {
		if s.move != nil {
			s.move(x, y)
		}
		return
	}
	if !geom.DistSqExceeds(x-s.StartX, y-s.StartY, r.threshold) {
		return
	}
	s.State = Dragging
	key, found := closest(s.Target, MarkDrag)
	if !found {
		return
	}
	begin := r.reg.dragHandler(key)
	if begin == nil {
		r.log.Debug("drag source without handler", slog.String("key", key), slog.Int("pointer", id))
		return
	}
	d := begin(s.StartX, s.StartY)
	s.move, s.end = d.Move, d.End
	if r.capture != nil {
		r.capture.Capture(id)
		s.captured = true
	}
}

// Up finishes the session for id, firing the drag end or the click.
func (r *Recognizer) Up(id int) {
	s, ok := r.sessions[id]
	if !ok {
		return
	}
	r.discard(id, s)
	if s.State == Dragging {
		if s.end != nil {
			s.end()
		}
		return
	}
	key, found := closest(s.Target, MarkClick)
	if !found {
		return
	}
	if click := r.reg.clickHandler(key); click != nil {
		click()
	} else {
		r.log.Debug("click target without handler", slog.String("key", key), slog.Int("pointer", id))
	}
}

// Cancel ends the session for id without a click, e.g. when the platform
// cancels the contact or capture is lost. A running drag still gets its end
// callback so it can settle.
func (r *Recognizer) Cancel(id int) {
	s, ok := r.sessions[id]
	if !ok {
		return
	}
	r.discard(id, s)
	if s.State == Dragging && s.end != nil {
		s.end()
	}
}

// Session returns a copy of the live session for id.
func (r *Recognizer) Session(id int) (Session, bool) {
	s, ok := r.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Active returns the number of contacts currently down.
func (r *Recognizer) Active() int { return len(r.sessions) }

// discard drops the session before any callback runs, so a handler that
// starts a new contact with the same id is not clobbered.
func (r *Recognizer) discard(id int, s *Session) {
	delete(r.sessions, id)
	if s.captured && r.capture != nil {
		r.capture.Release(id)
	}
}

func closest(t Target, m Marker) (string, bool) {
	if t == nil {
		return "", false
	}
	return t.Closest(m)
}
