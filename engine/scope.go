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

// Package engine evaluates validated rules over one parsed translation unit.
package engine

import (
	"naive.systems/complyc/ast"
	"naive.systems/complyc/checkrule"
)

// Match is one node selected by a scope. IsStatic is only meaningful for
// the declaration scopes.
type Match struct {
	Node     ast.NodeID
	IsStatic bool
}

// structural scopes select nodes by kind alone.
var scopeKinds = map[checkrule.ScopeKind][]ast.Kind{
	checkrule.ScopeFunction:         {ast.FuncDef},
	checkrule.ScopeCallExpression:   {ast.Call},
	checkrule.ScopeIfStatement:      {ast.If},
	checkrule.ScopeLoopStatement:    {ast.For, ast.While},
	checkrule.ScopeSwitchStatement:  {ast.Switch},
	checkrule.ScopeStructDefinition: {ast.Struct},
	checkrule.ScopeEnumDefinition:   {ast.Enum},
	checkrule.ScopeEnumConstant:     {ast.Enumerator},
	checkrule.ScopeLiteral:          {ast.Constant},
}

// Resolve returns the nodes of t selected by scope in preorder. The result
// only depends on the tree, so repeated calls return the same list.
func Resolve(t *ast.Tree, scope checkrule.ScopeKind) []Match {
	switch scope {
	case checkrule.ScopeFile:
		return []Match{{Node: t.Root}}
	case checkrule.ScopeVariable, checkrule.ScopeStaticVariable, checkrule.ScopeGlobalVariable, checkrule.ScopeTypedef:
		return resolveDecls(t, scope)
	}
	var matches []Match
	for _, id := range ast.Collect(t, t.Root, scopeKinds[scope]...) {
		matches = append(matches, Match{Node: id})
	}
	return matches
}

func resolveDecls(t *ast.Tree, scope checkrule.ScopeKind) []Match {
	var matches []Match
	for _, id := range ast.Collect(t, t.Root, ast.Decl) {
		n := t.Node(id)
		isStatic := n.IsStatic()
		// typedef names are only seen by the typedef scope
		if n.IsTypedef() != (scope == checkrule.ScopeTypedef) {
			continue
		}
		switch scope {
		case checkrule.ScopeStaticVariable:
			if !isStatic {
				continue
			}
		case checkrule.ScopeGlobalVariable:
			if isStatic {
				continue
			}
		}
		matches = append(matches, Match{Node: id, IsStatic: isStatic})
	}
	return matches
}
