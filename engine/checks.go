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

package engine

import (
	"fmt"
	"strings"

	"naive.systems/complyc/ast"
	"naive.systems/complyc/checkrule"
	"naive.systems/complyc/results"
	"naive.systems/complyc/utils"
)

// headerLines is how many leading source lines file_header_contains searches.
const headerLines = 20

// nodeName is the declared name of n, or "" when it has none.
func nodeName(t *ast.Tree, id ast.NodeID) string {
	n := t.Node(id)
	switch n.Kind {
	case ast.FuncDef:
		return t.Node(t.Child(id, 0)).Name
	case ast.Decl, ast.Struct, ast.Union, ast.Enum, ast.Enumerator, ast.Identifier, ast.Label, ast.Goto:
		return n.Name
	}
	return ""
}

// funcType unwraps pointer and array layers of a Decl's type and returns
// the FuncDecl underneath, or NoNode for anything that is not a function.
func funcType(t *ast.Tree, decl ast.NodeID) ast.NodeID {
	cur := t.Child(decl, 0)
	for cur != ast.NoNode {
		switch t.Kind(cur) {
		case ast.FuncDecl:
			return cur
		case ast.PtrDecl, ast.ArrayDecl:
			cur = t.Child(cur, 0)
		default:
			return ast.NoNode
		}
	}
	return ast.NoNode
}

// isVoidParams reports whether params is the "(void)" list.
func isVoidParams(t *ast.Tree, params ast.NodeID) bool {
	children := t.Children(params)
	if len(children) != 1 || t.Kind(children[0]) != ast.Typename {
		return false
	}
	typ := t.Child(children[0], 0)
	if typ == ast.NoNode || t.Kind(typ) != ast.TypeDecl {
		return false
	}
	spec := t.Child(typ, 0)
	if spec == ast.NoNode || t.Kind(spec) != ast.IdentifierType {
		return false
	}
	names := t.Node(spec).Names
	return len(names) == 1 && names[0] == "void"
}

func (ctx *Context) violation(rule *checkrule.Rule, line int, format string, args ...any) []results.Violation {
	return []results.Violation{results.New(rule, ctx.File, line, fmt.Sprintf(format, args...))}
}

func (ctx *Context) checkNamePattern(rule *checkrule.Rule, p *checkrule.NamePatternParams, m Match) []results.Violation {
	name := nodeName(ctx.Tree, m.Node)
	if name == "" || p.Pattern.MatchString(name) {
		return nil
	}
	return ctx.violation(rule, ctx.Tree.Line(m.Node), "Name '%s' does not match pattern '%s'.", name, p.Source)
}

// checkGlobalNaming visits every file-scope declaration that is neither a
// function nor a typedef. Declarations inside functions, parameters and members are
// never looked at.
func (ctx *Context) checkGlobalNaming(rule *checkrule.Rule, p *checkrule.GlobalNamingParams, m Match) []results.Violation {
	t := ctx.Tree
	if m.Node != t.Root {
		return nil
	}
	var violations []results.Violation
	for _, decl := range ast.Collect(t, t.Root, ast.Decl) {
		if parent, _ := ctx.Parents.Parent(decl); parent != t.Root {
			continue
		}
		if funcType(t, decl) != ast.NoNode {
			continue
		}
		n := t.Node(decl)
		if n.Name == "" || n.IsTypedef() || (p.NonStaticOnly && n.IsStatic()) {
			continue
		}
		if !p.Pattern.MatchString(n.Name) {
			violations = append(violations, ctx.violation(rule, n.Line, "Global variable '%s' does not match pattern '%s'.", n.Name, p.Source)...)
		}
	}
	return violations
}

func (ctx *Context) checkMaxFunctionLength(rule *checkrule.Rule, p *checkrule.MaxFunctionLengthParams, m Match) []results.Violation {
	t := ctx.Tree
	if t.Kind(m.Node) != ast.FuncDef {
		return nil
	}
	start := t.Line(m.Node)
	if start == 0 {
		return nil
	}
	end := start
	// the body is the last child, after any K&R parameter declarations
	body := t.Child(m.Node, len(t.Children(m.Node))-1)
	if stmts := t.Children(body); len(stmts) > 0 {
		if last := t.Line(stmts[len(stmts)-1]); last != 0 {
			end = last
		}
	}
	length := end - start + 1
	if length <= p.MaxLines {
		return nil
	}
	return ctx.violation(rule, start, "Function '%s' has %d lines (max %d).", nodeName(t, m.Node), length, p.MaxLines)
}

func (ctx *Context) checkMaxParameterCount(rule *checkrule.Rule, p *checkrule.MaxParameterCountParams, m Match) []results.Violation {
	t := ctx.Tree
	if t.Kind(m.Node) != ast.FuncDef {
		return nil
	}
	fn := funcType(t, t.Child(m.Node, 0))
	if fn == ast.NoNode {
		return nil
	}
	params := t.Child(fn, 1)
	count := len(t.Children(params))
	if isVoidParams(t, params) {
		count = 0
	}
	if count <= p.MaxParameters {
		return nil
	}
	return ctx.violation(rule, t.Line(m.Node), "Function '%s' has %d parameters (max %d).", nodeName(t, m.Node), count, p.MaxParameters)
}

func (ctx *Context) checkForbiddenCalls(rule *checkrule.Rule, p *checkrule.ForbiddenCallsParams, m Match) []results.Violation {
	t := ctx.Tree
	if t.Kind(m.Node) != ast.Call {
		return nil
	}
	callee := t.Node(t.Child(m.Node, 0))
	if callee.Kind != ast.Identifier || !p.IsForbidden(callee.Name) {
		return nil
	}
	return ctx.violation(rule, t.Line(m.Node), "Call to forbidden function '%s'.", callee.Name)
}

func (ctx *Context) checkFileHeaderContains(rule *checkrule.Rule, p *checkrule.FileHeaderContainsParams, m Match) []results.Violation {
	header := ctx.Lines
	if len(header) > headerLines {
		header = header[:headerLines]
	}
	var missing []string
	for _, required := range p.RequiredLines {
		found := false
		for _, line := range header {
			if strings.Contains(line, required) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, required)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return ctx.violation(rule, 1, "File is missing header entries: %s.", strings.Join(missing, ", "))
}

// CyclomaticComplexity is 1 plus the number of If, For, While, Case and
// Default nodes under fn.
func CyclomaticComplexity(t *ast.Tree, fn ast.NodeID) int {
	return 1 + len(ast.Collect(t, fn, ast.If, ast.For, ast.While, ast.Case, ast.Default))
}

// NestingDepth is the deepest stack of If, For, While and Switch nodes
// under fn.
func NestingDepth(t *ast.Tree, fn ast.NodeID) int {
	depth, maxDepth := 0, 0
	nests := func(id ast.NodeID) bool {
		switch t.Kind(id) {
		case ast.If, ast.For, ast.While, ast.Switch:
			return true
		}
		return false
	}
	ast.Inspect(t, fn, func(id ast.NodeID) bool {
		if nests(id) {
			depth++
			maxDepth = utils.IntMax(maxDepth, depth)
		}
		return true
	}, func(id ast.NodeID) {
		if nests(id) {
			depth--
		}
	})
	return maxDepth
}

func (ctx *Context) checkCyclomaticComplexity(rule *checkrule.Rule, p *checkrule.CyclomaticComplexityParams, m Match) []results.Violation {
	t := ctx.Tree
	if t.Kind(m.Node) != ast.FuncDef {
		return nil
	}
	cc := CyclomaticComplexity(t, m.Node)
	if cc <= p.MaxCC {
		return nil
	}
	return ctx.violation(rule, t.Line(m.Node), "Function '%s' has CC=%d (max %d).", nodeName(t, m.Node), cc, p.MaxCC)
}

func (ctx *Context) checkMaxNestingDepth(rule *checkrule.Rule, p *checkrule.MaxNestingDepthParams, m Match) []results.Violation {
	t := ctx.Tree
	if t.Kind(m.Node) != ast.FuncDef {
		return nil
	}
	depth := NestingDepth(t, m.Node)
	if depth <= p.MaxDepth {
		return nil
	}
	return ctx.violation(rule, t.Line(m.Node), "Function '%s' nesting depth=%d (max %d).", nodeName(t, m.Node), depth, p.MaxDepth)
}

// checkMagicNumber flags one literal, or every literal of the file when the
// rule is file scoped.
func (ctx *Context) checkMagicNumber(rule *checkrule.Rule, p *checkrule.MagicNumberParams, m Match) []results.Violation {
	t := ctx.Tree
	var literals []ast.NodeID
	switch t.Kind(m.Node) {
	case ast.TranslationUnit:
		literals = ast.Collect(t, m.Node, ast.Constant)
	case ast.Constant:
		literals = []ast.NodeID{m.Node}
	default:
		return nil
	}
	var violations []results.Violation
	for _, id := range literals {
		value, ok := EffectiveValue(t, ctx.Parents, id)
		if !ok || p.IsIgnored(value) {
			continue
		}
		if p.AllowInEnum && ctx.Parents.HasAncestor(t, id, ast.Enum, ast.Enumerator) {
			continue
		}
		violations = append(violations, ctx.violation(rule, t.Line(id), "Magic number '%s' detected.", t.Node(id).Value)...)
	}
	return violations
}
