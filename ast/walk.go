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

// Walk visits id and its subtree in preorder. When fn returns false the
// children of that node are skipped.
func Walk(t *Tree, id NodeID, fn func(id NodeID) bool) {
	if id == NoNode {
		return
	}
	if !fn(id) {
		return
	}
	for _, c := range t.Nodes[id].Children {
		Walk(t, c, fn)
	}
}

// Inspect is Walk with an exit callback, for visitors that keep a depth
// counter.
func Inspect(t *Tree, id NodeID, enter func(id NodeID) bool, exit func(id NodeID)) {
	if id == NoNode {
		return
	}
	if !enter(id) {
		return
	}
	for _, c := range t.Nodes[id].Children {
		Inspect(t, c, enter, exit)
	}
	if exit != nil {
		exit(id)
	}
}

// Collect returns every node of the given kinds under id, in preorder.
func Collect(t *Tree, id NodeID, kinds ...Kind) []NodeID {
	var found []NodeID
	Walk(t, id, func(n NodeID) bool {
		for _, k := range kinds {
			if t.Nodes[n].Kind == k {
				found = append(found, n)
				break
			}
		}
		return true
	})
	return found
}
