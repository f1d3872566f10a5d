/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package measure is the measuring process for stack components. Components
// are enqueued when they are created and receive their size when the host
// flushes the queue, typically once per frame. Until then the layout skips
// them.
package measure

import (
	"log/slog"

	"blockcanvas/internal/event"
	"blockcanvas/internal/geom"
	applog "blockcanvas/internal/log"
)

// Target receives a measured size.
type Target interface {
	SetMeasurements(geom.Size)
}

type job struct {
	target Target
	label  string
	style  Style
}

// Queue collects pending measurements.
type Queue struct {
	provider Provider
	pending  []job
	measured event.Emitter[int]
	log      *slog.Logger
}

// NewQueue returns a queue measuring with p (BasicProvider when nil).
func NewQueue(p Provider) *Queue {
	if p == nil {
		p = BasicProvider{}
	}
	return &Queue{provider: p, log: applog.WithComponent("measure")}
}

// Enqueue schedules t to be measured with label in style st.
func (q *Queue) Enqueue(t Target, label string, st Style) {
	q.pending = append(q.pending, job{target: t, label: label, style: st})
}

// Cancel drops the queued jobs for t and returns how many were dropped.
func (q *Queue) Cancel(t Target) int {
	kept := q.pending[:0:0]
	for _, j := range q.pending {
		if j.target != t {
			kept = append(kept, j)
		}
	}
	n := len(q.pending) - len(kept)
	q.pending = kept
	return n
}

// Pending returns the number of queued jobs.
func (q *Queue) Pending() int { return len(q.pending) }

// Flush measures every job queued before the call and then notifies
// listeners with the count. Jobs queued by listeners wait for the next Flush.
func (q *Queue) Flush() int {
	jobs := q.pending
	q.pending = nil
	for _, j := range jobs {
		j.target.SetMeasurements(LabelSize(q.provider, j.label, j.style))
	}
	if len(jobs) > 0 {
		q.log.Debug("measured components", slog.Int("count", len(jobs)))
		q.measured.Emit(len(jobs))
	}
	return len(jobs)
}

// OnMeasured subscribes to completed flushes.
func (q *Queue) OnMeasured(fn func(n int)) (unsubscribe func()) {
	return q.measured.Subscribe(fn)
}
