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
	"runtime/debug"

	"github.com/golang/glog"
	"naive.systems/complyc/ast"
	"naive.systems/complyc/checkrule"
	"naive.systems/complyc/results"
)

// Context is what a check sees besides its node and rule. It is shared by
// all checks of one file and not modified while they run.
type Context struct {
	File    string
	Lines   []string
	Tree    *ast.Tree
	Parents *ast.ParentMap
}

func NewContext(t *ast.Tree, file string, lines []string) *Context {
	return &Context{
		File:    file,
		Lines:   lines,
		Tree:    t,
		Parents: ast.BuildParentMap(t),
	}
}

// Run evaluates rules over t. Violations come in rule order, then in the
// preorder of the nodes each rule's scope selected.
func Run(t *ast.Tree, rules []*checkrule.Rule, file string, lines []string) []results.Violation {
	ctx := NewContext(t, file, lines)
	var all []results.Violation
	for _, rule := range rules {
		for _, m := range Resolve(t, rule.Scope) {
			all = append(all, ctx.Evaluate(rule, m)...)
		}
	}
	return all
}

// Evaluate runs the check of rule on one match. A panic inside the check is
// logged and yields no violations.
func (ctx *Context) Evaluate(rule *checkrule.Rule, m Match) (violations []results.Violation) {
	defer func() {
		if r := recover(); r != nil {
			glog.Errorf("Recovered in rule %s (%v) at %s:%d: %v\n%s",
				rule.ID, rule.Check, ctx.File, ctx.Tree.Line(m.Node), r, string(debug.Stack()))
			violations = nil
		}
	}()
	switch p := rule.Params.(type) {
	case *checkrule.NamePatternParams:
		return ctx.checkNamePattern(rule, p, m)
	case *checkrule.GlobalNamingParams:
		return ctx.checkGlobalNaming(rule, p, m)
	case *checkrule.MaxFunctionLengthParams:
		return ctx.checkMaxFunctionLength(rule, p, m)
	case *checkrule.MaxParameterCountParams:
		return ctx.checkMaxParameterCount(rule, p, m)
	case *checkrule.ForbiddenCallsParams:
		return ctx.checkForbiddenCalls(rule, p, m)
	case *checkrule.FileHeaderContainsParams:
		return ctx.checkFileHeaderContains(rule, p, m)
	case *checkrule.CyclomaticComplexityParams:
		return ctx.checkCyclomaticComplexity(rule, p, m)
	case *checkrule.MaxNestingDepthParams:
		return ctx.checkMaxNestingDepth(rule, p, m)
	case *checkrule.MagicNumberParams:
		return ctx.checkMagicNumber(rule, p, m)
	}
	panic(fmt.Sprintf("no check for parameters %T", rule.Params))
}
