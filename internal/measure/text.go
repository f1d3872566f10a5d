/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package measure

// Text metrics for block and header labels. Everything goes through Provider
// so tests and headless runs can use the fixed 7x13 face.

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"blockcanvas/internal/geom"
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string
	SizePt float64
	Bold   bool
}

// Metrics are the vertical font metrics in pixels.
type Metrics struct {
	Ascent, Descent, LineGap float64
}

// Provider maps a FontSpec to a concrete face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// BasicProvider always answers with basicfont.Face7x13, which makes
// measurements deterministic.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	m := f.Metrics()
	return f, Metrics{
		Ascent:  float64(m.Ascent.Round()),
		Descent: float64(m.Descent.Round()),
		LineGap: float64(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}

// Style pads a label into the box of a component.
type Style struct {
	Font      FontSpec
	PadX      float64
	PadY      float64
	MinWidth  float64
	MinHeight float64
}

// TextWidth returns the advance of s in whole pixels.
func TextWidth(p Provider, spec FontSpec, s string) float64 {
	if p == nil {
		p = BasicProvider{}
	}
	face, _ := p.Resolve(spec)
	d := &font.Drawer{Face: face}
	return float64(d.MeasureString(s).Ceil())
}

// LabelSize returns the box for a single-line label in the given style.
func LabelSize(p Provider, label string, st Style) geom.Size {
	if p == nil {
		p = BasicProvider{}
	}
	_, met := p.Resolve(st.Font)
	w := TextWidth(p, st.Font, label) + 2*st.PadX
	h := met.Ascent + met.Descent + 2*st.PadY
	return geom.Size{W: max(w, st.MinWidth), H: max(h, st.MinHeight)}
}
