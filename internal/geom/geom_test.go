/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package geom

import "testing"

func TestRectContains(t *testing.T) {
	r := R(10, 20, 100, 50)
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{110, 70}) {
		t.Fatalf("expected edge points to be contained")
	}
	if r.Contains(Pt{9, 20}) {
		t.Fatalf("point left of rect should not be contained")
	}
	if s := r.Size(); s.W != 100 || s.H != 50 {
		t.Fatalf("unexpected size: %+v", s)
	}
}

func TestAffineMulApply(t *testing.T) {
	m := Translate(10, 5).Mul(Scale(2, 3))
	p := m.Apply(Pt{1, 1})
	if p.X != 12 || p.Y != 8 { // (1*2+10, 1*3+5)
		t.Fatalf("unexpected transform result: %+v", p)
	}
}

func TestAffineInvert(t *testing.T) {
	m := Scale(2, 2).Mul(Translate(-5, -7))
	inv, ok := m.Invert()
	if !ok {
		t.Fatalf("expected invertible matrix")
	}
	p := inv.Apply(m.Apply(Pt{3, 4}))
	if p.X != 3 || p.Y != 4 {
		t.Fatalf("round trip mismatch: %+v", p)
	}
	if _, ok := Scale(0, 1).Invert(); ok {
		t.Fatalf("singular matrix reported as invertible")
	}
}

func TestDistSqExceedsIsStrict(t *testing.T) {
	if DistSqExceeds(3, 0, 3) {
		t.Fatalf("distance equal to the limit must not exceed it")
	}
	if !DistSqExceeds(3, 0.01, 3) {
		t.Fatalf("distance just above the limit should exceed it")
	}
	if DistSqExceeds(-2, -2, 3) {
		t.Fatalf("(-2,-2) has length ~2.83 which is below 3")
	}
}
