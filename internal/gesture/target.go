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

// Marker names the role an ancestor plays for an interaction.
type Marker int

const (
	// MarkDrag marks a node whose registered begin handler starts drags.
	MarkDrag Marker = iota
	// MarkClick marks a node whose registered click handler receives clicks.
	MarkClick
)

func (m Marker) String() string {
	switch m {
	case MarkDrag:
		return "drag"
	case MarkClick:
		return "click"
	default:
		return "unknown"
	}
}

// Target is whatever was under the pointer when a contact started.
// Closest resolves the nearest ancestor (the target itself included) carrying
// marker m and returns the handler key stored on it.
type Target interface {
	Closest(m Marker) (key string, ok bool)
}

// Node is a minimal target tree with parent links, enough for hosts that do
// not have their own element hierarchy. The zero value is an unmarked root.
type Node struct {
	Parent *Node
	marks  map[Marker]string
}

// NewNode returns a node attached to parent (nil for a root).
func NewNode(parent *Node) *Node { return &Node{Parent: parent} }

// Mark tags the node with a handler key for m and returns the node for chaining.
func (n *Node) Mark(m Marker, key string) *Node {
	if n.marks == nil {
		n.marks = make(map[Marker]string, 2)
	}
	n.marks[m] = key
	return n
}

// Unmark removes the tag for m.
func (n *Node) Unmark(m Marker) { delete(n.marks, m) }

func (n *Node) Closest(m Marker) (string, bool) {
	for cur := n; cur != nil; cur = cur.Parent {
		if key, ok := cur.marks[m]; ok {
			return key, true
		}
	}
	return "", false
}
