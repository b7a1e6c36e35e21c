/*
NaiveSystems Analyze - A tool for static code analysis
Copyright (C) 2023  Naive Systems Ltd.

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package ast

// ParentMap maps every non-root node of a Tree to its parent. It is built by
// one traversal and never changes afterwards.
type ParentMap struct {
	parent []NodeID
	size   int
}

func BuildParentMap(t *Tree) *ParentMap {
	pm := &ParentMap{parent: make([]NodeID, len(t.Nodes))}
	for i := range pm.parent {
		pm.parent[i] = NoNode
	}
	var visit func(id NodeID)
	visit = func(id NodeID) {
		for _, c := range t.Nodes[id].Children {
			pm.parent[c] = id
			pm.size++
			visit(c)
		}
	}
	visit(t.Root)
	return pm
}

// Parent returns the parent of id; ok is false for the root and for nodes
// not reachable from it.
func (pm *ParentMap) Parent(id NodeID) (NodeID, bool) {
	if id < 0 || int(id) >= len(pm.parent) {
		return NoNode, false
	}
	p := pm.parent[id]
	return p, p != NoNode
}

// HasAncestor reports whether any proper ancestor of id has one of kinds.
func (pm *ParentMap) HasAncestor(t *Tree, id NodeID, kinds ...Kind) bool {
	cur, ok := pm.Parent(id)
	for ok {
		k := t.Nodes[cur].Kind
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
		cur, ok = pm.Parent(cur)
	}
	return false
}

// Len is the number of recorded child->parent pairs.
func (pm *ParentMap) Len() int {
	return pm.size
}
