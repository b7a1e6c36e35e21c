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

package cparser

import (
	"errors"
	"reflect"
	"testing"

	"naive.systems/complyc/ast"
)

func mustParse(t *testing.T, src string) *ast.Tree {
	t.Helper()
	tree, err := Parse(src, "test.c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tree
}

func kinds(tree *ast.Tree, ids []ast.NodeID) []ast.Kind {
	var out []ast.Kind
	for _, id := range ids {
		out = append(out, tree.Kind(id))
	}
	return out
}

// typeChain lists the kinds from a Decl's type child down to the type
// specifier.
func typeChain(tree *ast.Tree, decl ast.NodeID) []ast.Kind {
	var chain []ast.Kind
	cur := tree.Child(decl, 0)
	for cur != ast.NoNode {
		chain = append(chain, tree.Kind(cur))
		switch tree.Kind(cur) {
		case ast.TypeDecl, ast.PtrDecl, ast.ArrayDecl, ast.FuncDecl:
			cur = tree.Child(cur, 0)
		default:
			cur = ast.NoNode
		}
	}
	return chain
}

func TestParseTopLevel(t *testing.T) {
	tree := mustParse(t, `int g = 1;
static int helper(int a, int b)
{
    return a + b;
}
struct point { int x; int y; };
`)
	top := tree.Children(tree.Root)
	got := kinds(tree, top)
	expected := []ast.Kind{ast.Decl, ast.FuncDef, ast.Decl}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("unexpected result. got: %v. expected: %v.", got, expected)
	}

	g := tree.Node(top[0])
	if g.Name != "g" || g.Line != 1 || g.IsStatic() {
		t.Errorf("unexpected global decl %+v", g)
	}

	fd := top[1]
	if tree.Line(fd) != 2 {
		t.Errorf("unexpected FuncDef line. got: %v. expected: 2.", tree.Line(fd))
	}
	decl := tree.Node(tree.Child(fd, 0))
	if decl.Name != "helper" || !decl.IsStatic() {
		t.Errorf("unexpected function decl %+v", decl)
	}
	if tree.Kind(tree.Child(fd, 1)) != ast.Compound {
		t.Errorf("function body is %v", tree.Kind(tree.Child(fd, 1)))
	}

	st := tree.Child(top[2], 0)
	if tree.Kind(st) != ast.Struct || tree.Node(st).Name != "point" || len(tree.Children(st)) != 2 {
		t.Errorf("unexpected struct %+v", tree.Node(st))
	}
}

func TestParseDeclarators(t *testing.T) {
	for _, testCase := range [...]struct {
		src      string
		name     string
		expected []ast.Kind
	}{
		{"int x;", "x", []ast.Kind{ast.TypeDecl, ast.IdentifierType}},
		{"int *p;", "p", []ast.Kind{ast.PtrDecl, ast.TypeDecl, ast.IdentifierType}},
		{"int *a[3];", "a", []ast.Kind{ast.ArrayDecl, ast.PtrDecl, ast.TypeDecl, ast.IdentifierType}},
		{"int (*fp)(int);", "fp", []ast.Kind{ast.PtrDecl, ast.FuncDecl, ast.TypeDecl, ast.IdentifierType}},
		{"char *f(void);", "f", []ast.Kind{ast.FuncDecl, ast.PtrDecl, ast.TypeDecl, ast.IdentifierType}},
		{"struct s *sp;", "sp", []ast.Kind{ast.PtrDecl, ast.TypeDecl, ast.Struct}},
	} {
		t.Run(testCase.src, func(t *testing.T) {
			tree := mustParse(t, testCase.src)
			decl := tree.Child(tree.Root, 0)
			if tree.Node(decl).Name != testCase.name {
				t.Errorf("unexpected name. got: %v. expected: %v.", tree.Node(decl).Name, testCase.name)
			}
			got := typeChain(tree, decl)
			if !reflect.DeepEqual(got, testCase.expected) {
				t.Errorf("unexpected result for %v. got: %v. expected: %v.", testCase.src, got, testCase.expected)
			}
		})
	}
}

func TestParseTypedefNames(t *testing.T) {
	tree := mustParse(t, `typedef unsigned int u32;
typedef struct node { struct node *next; } node_t;
u32 count;
void f(void) { u32 local = (u32)count; node_t *n = 0; (void)n; (void)local; }
`)
	top := tree.Children(tree.Root)
	if len(top) != 4 {
		t.Fatalf("unexpected top-level count %d", len(top))
	}
	if !tree.Node(top[0]).IsTypedef() || tree.Node(top[0]).Name != "u32" {
		t.Errorf("unexpected typedef %+v", tree.Node(top[0]))
	}
	casts := ast.Collect(tree, tree.Root, ast.Cast)
	if len(casts) != 3 {
		t.Errorf("unexpected cast count. got: %v. expected: 3.", len(casts))
	}
}

func TestParseParamNamedLikeTypedef(t *testing.T) {
	tree := mustParse(t, `typedef int T;
int g(int T);
int h(T T) { return T; }
void k(void (*T)(int));
`)
	fns := ast.Collect(tree, tree.Root, ast.FuncDecl)
	if len(fns) != 4 {
		t.Fatalf("unexpected FuncDecl count. got: %v. expected: 4.", len(fns))
	}
	for _, fn := range fns[:3] {
		params := tree.Children(tree.Child(fn, 1))
		if len(params) != 1 || tree.Kind(params[0]) != ast.Decl || tree.Node(params[0]).Name != "T" {
			t.Errorf("unexpected parameter list %v", kinds(tree, params))
		}
	}
	ids := ast.Collect(tree, tree.Root, ast.Identifier)
	if len(ids) != 1 || tree.Node(ids[0]).Name != "T" {
		t.Errorf("return T should be an identifier expression")
	}
}

func TestParseLeavesNoOrphans(t *testing.T) {
	for _, src := range []string{
		"void f(int n) { for (int i = 0; i < n; i++) {} }",
		"void f(int n) { int i; for (i = 0; i < n; ) { i++; } }",
		"void f(void) { for (;;) { break; } }",
	} {
		tree := mustParse(t, src)
		pm := ast.BuildParentMap(tree)
		if pm.Len() != tree.Len()-1 {
			t.Errorf("unexpected parent map size for %v. got: %v. expected: %v.", src, pm.Len(), tree.Len()-1)
		}
	}
}

func TestParseMultipleDeclaratorsKeepSingleParent(t *testing.T) {
	tree := mustParse(t, "int a, *b, c[2];")
	decls := tree.Children(tree.Root)
	if len(decls) != 3 {
		t.Fatalf("unexpected decl count %d", len(decls))
	}
	seen := map[ast.NodeID]int{}
	ast.Walk(tree, tree.Root, func(id ast.NodeID) bool {
		for _, c := range tree.Children(id) {
			seen[c]++
		}
		return true
	})
	for id, n := range seen {
		if n != 1 {
			t.Errorf("node %d (%v) has %d parents", id, tree.Kind(id), n)
		}
	}
}

func TestParseStatements(t *testing.T) {
	tree := mustParse(t, `int f(int n)
{
    int i, s = 0;
    for (i = 0; i < n; i++) {
        if (i % 2) continue; else s += i;
    }
    while (n--) { s++; }
    do { s--; } while (s > 100);
    switch (n) {
    case 1: s = 1; break;
    default: break;
    }
out:
    goto out;
    return s;
}
`)
	count := func(k ast.Kind) int { return len(ast.Collect(tree, tree.Root, k)) }
	for _, testCase := range [...]struct {
		kind     ast.Kind
		expected int
	}{
		{ast.For, 1},
		{ast.If, 1},
		{ast.While, 1},
		{ast.DoWhile, 1},
		{ast.Switch, 1},
		{ast.Case, 1},
		{ast.Default, 1},
		{ast.Label, 1},
		{ast.Goto, 1},
		{ast.Return, 1},
		{ast.Continue, 1},
		{ast.Break, 2},
	} {
		if got := count(testCase.kind); got != testCase.expected {
			t.Errorf("unexpected %v count. got: %v. expected: %v.", testCase.kind, got, testCase.expected)
		}
	}
}

func TestParseExpressions(t *testing.T) {
	tree := mustParse(t, `void g(void)
{
    int x = 1 + 2 * 3;
    float y = 2.5f;
    const char *s = "ab" "cd";
    x = foo(x, sizeof(int), 'c');
    y = p->field.inner[4];
}
`)
	var consts []string
	for _, id := range ast.Collect(tree, tree.Root, ast.Constant) {
		consts = append(consts, tree.Node(id).Value)
	}
	expected := []string{"1", "2", "3", "2.5f", `"abcd"`, "'c'", "4"}
	if !reflect.DeepEqual(consts, expected) {
		t.Errorf("unexpected result. got: %v. expected: %v.", consts, expected)
	}

	// 1 + (2 * 3)
	bin := ast.Collect(tree, tree.Root, ast.BinaryOp)
	if len(bin) != 2 || tree.Node(bin[0]).Op != "+" || tree.Node(bin[1]).Op != "*" {
		t.Errorf("unexpected precedence: %v", bin)
	}

	calls := ast.Collect(tree, tree.Root, ast.Call)
	if len(calls) != 1 {
		t.Fatalf("unexpected call count %d", len(calls))
	}
	callee := tree.Node(tree.Child(calls[0], 0))
	if callee.Kind != ast.Identifier || callee.Name != "foo" {
		t.Errorf("unexpected callee %+v", callee)
	}
	if n := len(tree.Children(tree.Child(calls[0], 1))); n != 3 {
		t.Errorf("unexpected argument count %d", n)
	}
}

func TestParseLineNumbers(t *testing.T) {
	tree := mustParse(t, "\n\nint\nmain(void)\n{\n  return 0;\n}\n")
	fd := tree.Child(tree.Root, 0)
	if tree.Line(fd) != 4 {
		t.Errorf("unexpected FuncDef line. got: %v. expected: 4.", tree.Line(fd))
	}
	if decl := tree.Child(fd, 0); tree.Line(decl) != 4 {
		t.Errorf("unexpected Decl line. got: %v. expected: 4.", tree.Line(decl))
	}
	ret := ast.Collect(tree, tree.Root, ast.Return)
	if len(ret) != 1 || tree.Line(ret[0]) != 6 {
		t.Errorf("unexpected return line")
	}
}

func TestParseError(t *testing.T) {
	for _, src := range []string{
		"int f( {",
		"int x = ;",
		"void f(void) { return 1 }",
		"/* open",
	} {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src, "bad.c")
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if perr.File != "bad.c" || perr.Line < 1 {
				t.Errorf("unexpected error position %+v", perr)
			}
		})
	}
}
