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

// Package cparser turns preprocessed C text into an ast.Tree.
//
// It accepts the core C99 grammar (no preprocessor directives, no GNU
// extensions beyond skipping __attribute__ and __asm__ annotations) and
// tracks typedef names with block scoping so that declarations and casts
// over user types are recognised.
//
// Child layout of the produced nodes:
//
//	FuncDef          [Decl, Compound]
//	Decl             [type, init?, bitsize?]
//	TypeDecl         [IdentifierType|Struct|Union|Enum]   (Name = declared name)
//	PtrDecl          [type]
//	ArrayDecl        [type, dim?]
//	FuncDecl         [return type, ParamList]
//	ParamList        [Decl|Typename|EllipsisParam|Identifier...]
//	Typename         [type]
//	Struct, Union    [Decl...]                           (no children: reference)
//	Enum             [EnumeratorList]                    (no children: reference)
//	Enumerator       [value?]
//	If               [cond, then, else?]
//	For              [init, cond, next, body]            (EmptyStatement for gaps)
//	While, Switch    [cond, body]
//	DoWhile          [body, cond]
//	Case             [expr, stmt]
//	Default, Label   [stmt]
//	Return           [expr?]
//	Call             [callee, ExprList]
//	UnaryOp          [operand]                           (Op; "p++"/"p--" for postfix)
//	BinaryOp, Assignment [lhs, rhs]
//	TernaryOp        [cond, then, else]
//	Cast             [Typename, expr]
//	ArrayRef         [array, index]
//	StructRef        [expr, Identifier]                  (Op is "." or "->")
//	NamedInitializer [designator..., value]
//	CompoundLiteral  [Typename, InitList]
package cparser

import (
	"fmt"

	"naive.systems/complyc/ast"
)

// Error is a recoverable parse failure.
type Error struct {
	File string
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

type parser struct {
	toks   []token
	pos    int
	tree   *ast.Tree
	scopes []map[string]bool
	file   string
}

// bailout carries an *Error through panics inside the recursive descent.
type bailout struct{ err *Error }

// Parse parses src as a translation unit. filename is only used for error
// messages and ast.Tree.Filename.
func Parse(src, filename string) (tree *ast.Tree, err error) {
	toks, err := tokenize(src, filename)
	if err != nil {
		return nil, err
	}
	p := &parser{
		toks:   toks,
		tree:   ast.NewTree(filename),
		scopes: []map[string]bool{{}},
		file:   filename,
	}
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			tree, err = nil, b.err
		}
	}()
	p.translationUnit()
	return p.tree, nil
}

func (p *parser) errorf(format string, args ...any) {
	panic(bailout{&Error{File: p.file, Line: p.peek().line, Msg: fmt.Sprintf(format, args...)}})
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) peekN(n int) token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) is(text string) bool {
	t := p.peek()
	return (t.kind == tokPunct || t.kind == tokIdent) && t.text == text
}

func (p *parser) accept(text string) bool {
	if p.is(text) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(text string) token {
	if !p.is(text) {
		p.errorf("expected %q, found %s", text, p.peek())
	}
	return p.advance()
}

func (p *parser) expectIdent() token {
	t := p.peek()
	if t.kind != tokIdent || keywords[t.text] {
		p.errorf("expected identifier, found %s", t)
	}
	return p.advance()
}

func (p *parser) add(kind ast.Kind, line int, children ...ast.NodeID) ast.NodeID {
	id := p.tree.Add(ast.Node{Kind: kind, Line: line})
	for _, c := range children {
		p.tree.AppendChild(id, c)
	}
	return id
}

// Scopes.

func (p *parser) pushScope() {
	p.scopes = append(p.scopes, map[string]bool{})
}

func (p *parser) popScope() {
	p.scopes = p.scopes[:len(p.scopes)-1]
}

func (p *parser) declareName(name string, isTypedef bool) {
	if name == "" {
		return
	}
	p.scopes[len(p.scopes)-1][name] = isTypedef
}

func (p *parser) isTypedefName(name string) bool {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if td, ok := p.scopes[i][name]; ok {
			return td
		}
	}
	return false
}

// Top level.

func (p *parser) translationUnit() {
	root := p.tree.Root
	for p.peek().kind != tokEOF {
		if p.accept(";") {
			continue
		}
		if p.skipAsm() {
			continue
		}
		for _, id := range p.externalDeclaration() {
			p.tree.AppendChild(root, id)
		}
	}
}

func (p *parser) skipAsm() bool {
	if !p.is("__asm__") && !p.is("asm") && !p.is("__asm") {
		return false
	}
	p.advance()
	p.skipParens()
	p.accept(";")
	return true
}

func (p *parser) externalDeclaration() []ast.NodeID {
	start := p.peek()
	if !p.isDeclStart() && !(start.kind == tokIdent && !keywords[start.text]) {
		p.errorf("unexpected %s at file scope", start)
	}
	specs := p.declSpecs(true)
	if p.accept(";") {
		return []ast.NodeID{p.bareDecl(specs)}
	}
	first := p.declarator(false)
	if first.isFunction() && (p.is("{") || p.isDeclStart()) {
		return []ast.NodeID{p.funcDef(specs, first)}
	}
	return p.initDeclarators(specs, first)
}

// funcDef is placed on its declarator's line, so "static int\nfoo(void)"
// starts at foo.
func (p *parser) funcDef(specs declSpecs, d declarator) ast.NodeID {
	decl := p.makeDecl(specs, d, false)
	p.declareName(d.name, false)
	// K&R parameter declarations.
	var krDecls []ast.NodeID
	for p.isDeclStart() {
		krDecls = append(krDecls, p.declaration()...)
	}
	p.pushScope()
	for _, name := range d.ops[0].params {
		p.declareName(name, false)
	}
	body := p.compound()
	p.popScope()
	fd := p.add(ast.FuncDef, d.line, decl)
	for _, k := range krDecls {
		p.tree.AppendChild(fd, k)
	}
	p.tree.AppendChild(fd, body)
	return fd
}

// Declarations.

type declSpecs struct {
	storage  ast.Storage
	typeSpec ast.NodeID
	line     int
}

var keywords = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extern": true, "float": true, "for": true, "goto": true,
	"if": true, "inline": true, "int": true, "long": true, "register": true,
	"restrict": true, "return": true, "short": true, "signed": true,
	"sizeof": true, "static": true, "struct": true, "switch": true,
	"typedef": true, "union": true, "unsigned": true, "void": true,
	"volatile": true, "while": true, "_Bool": true, "_Complex": true,
	"_Noreturn": true, "_Thread_local": true, "_Atomic": true, "_Alignas": true,
	"_Alignof": true, "_Static_assert": true,
}

var typeSpecifierKeywords = map[string]bool{
	"void": true, "char": true, "short": true, "int": true, "long": true,
	"float": true, "double": true, "signed": true, "unsigned": true,
	"_Bool": true, "_Complex": true,
}

var qualifierKeywords = map[string]bool{
	"const": true, "volatile": true, "restrict": true, "_Atomic": true,
	"inline": true, "_Noreturn": true, "__inline": true, "__inline__": true,
	"__restrict": true, "__restrict__": true, "__volatile__": true,
	"__const": true, "__extension__": true,
}

var storageKeywords = map[string]ast.Storage{
	"typedef":       ast.StorageTypedef,
	"static":        ast.StorageStatic,
	"extern":        ast.StorageExtern,
	"auto":          ast.StorageOther,
	"register":      ast.StorageOther,
	"_Thread_local": ast.StorageOther,
}

func isAttribute(text string) bool {
	return text == "__attribute__" || text == "__attribute" || text == "__declspec"
}

func (p *parser) isDeclStart() bool {
	return p.isDeclStartAt(0)
}

func (p *parser) isDeclStartAt(n int) bool {
	t := p.peekN(n)
	if t.kind != tokIdent {
		return false
	}
	if typeSpecifierKeywords[t.text] || qualifierKeywords[t.text] || isAttribute(t.text) {
		return true
	}
	if _, ok := storageKeywords[t.text]; ok {
		return true
	}
	switch t.text {
	case "struct", "union", "enum", "_Alignas", "_Static_assert":
		return true
	}
	return !keywords[t.text] && p.isTypedefName(t.text)
}

// isTypeNameStart is isDeclStart without storage classes, for casts,
// sizeof and compound literals.
func (p *parser) isTypeNameStart(n int) bool {
	t := p.peekN(n)
	if _, ok := storageKeywords[t.text]; ok && t.kind == tokIdent {
		return false
	}
	return p.isDeclStartAt(n)
}

func (p *parser) skipParens() {
	p.expect("(")
	depth := 1
	for depth > 0 {
		t := p.advance()
		if t.kind == tokEOF {
			p.errorf("unbalanced parentheses")
		}
		if t.kind == tokPunct {
			switch t.text {
			case "(":
				depth++
			case ")":
				depth--
			}
		}
	}
}

func (p *parser) skipAttributes() {
	for isAttribute(p.peek().text) && p.peek().kind == tokIdent {
		p.advance()
		p.skipParens()
	}
}

// declSpecs parses declaration specifiers. When allowImplicitInt is set a
// missing type specifier defaults to int (old-style "static x;").
func (p *parser) declSpecs(allowImplicitInt bool) declSpecs {
	specs := declSpecs{typeSpec: ast.NoNode, line: p.peek().line}
	var names []string
	for {
		t := p.peek()
		if t.kind != tokIdent {
			break
		}
		if st, ok := storageKeywords[t.text]; ok {
			specs.storage |= st
			p.advance()
			continue
		}
		if qualifierKeywords[t.text] {
			p.advance()
			continue
		}
		if isAttribute(t.text) {
			p.skipAttributes()
			continue
		}
		if t.text == "_Alignas" {
			p.advance()
			p.skipParens()
			continue
		}
		if typeSpecifierKeywords[t.text] {
			names = append(names, t.text)
			p.advance()
			continue
		}
		if specs.typeSpec == ast.NoNode && len(names) == 0 {
			switch t.text {
			case "struct", "union":
				specs.typeSpec = p.structOrUnion()
				continue
			case "enum":
				specs.typeSpec = p.enum()
				continue
			}
			if !keywords[t.text] && p.isTypedefName(t.text) {
				names = append(names, t.text)
				p.advance()
				continue
			}
		}
		break
	}
	if specs.typeSpec == ast.NoNode {
		if len(names) == 0 {
			if !allowImplicitInt {
				p.errorf("expected type specifier, found %s", p.peek())
			}
			names = []string{"int"}
		}
		specs.typeSpec = p.tree.Add(ast.Node{Kind: ast.IdentifierType, Line: specs.line, Names: names})
	}
	return specs
}

// cloneSpec gives each declarator of "int a, b;" its own type node so that
// every node keeps exactly one parent. Aggregate bodies stay with the first
// declarator; later ones get a tag reference.
func (p *parser) cloneSpec(id ast.NodeID) ast.NodeID {
	n := p.tree.Node(id)
	clone := ast.Node{Kind: n.Kind, Line: n.Line, Name: n.Name}
	if n.Kind == ast.IdentifierType {
		clone.Names = append([]string(nil), n.Names...)
	}
	return p.tree.Add(clone)
}

func (p *parser) structOrUnion() ast.NodeID {
	kw := p.advance()
	kind := ast.Struct
	if kw.text == "union" {
		kind = ast.Union
	}
	p.skipAttributes()
	id := p.tree.Add(ast.Node{Kind: kind, Line: kw.line})
	if p.peek().kind == tokIdent && !p.is("{") {
		p.tree.Node(id).Name = p.expectIdent().text
	}
	if !p.accept("{") {
		if p.tree.Node(id).Name == "" {
			p.errorf("expected tag or member list after %s", kw.text)
		}
		return id
	}
	for !p.accept("}") {
		if p.accept(";") {
			continue
		}
		if p.is("_Static_assert") {
			p.staticAssert()
			continue
		}
		for _, m := range p.structDeclaration() {
			p.tree.AppendChild(id, m)
		}
	}
	p.skipAttributes()
	return id
}

func (p *parser) structDeclaration() []ast.NodeID {
	specs := p.declSpecs(false)
	if p.accept(";") {
		// Anonymous struct/union member.
		return []ast.NodeID{p.bareDecl(specs)}
	}
	var members []ast.NodeID
	first := true
	for {
		var d declarator
		if p.is(":") {
			d = declarator{line: p.peek().line}
		} else {
			d = p.declarator(false)
		}
		spec := specs.typeSpec
		if !first {
			spec = p.cloneSpec(spec)
		}
		first = false
		decl := p.buildDecl(specs.storage, spec, d)
		if p.accept(":") {
			p.tree.AppendChild(decl, p.conditional())
		}
		p.skipAttributes()
		members = append(members, decl)
		if !p.accept(",") {
			break
		}
	}
	p.expect(";")
	return members
}

func (p *parser) enum() ast.NodeID {
	kw := p.advance()
	p.skipAttributes()
	id := p.tree.Add(ast.Node{Kind: ast.Enum, Line: kw.line})
	if p.peek().kind == tokIdent && !p.is("{") {
		p.tree.Node(id).Name = p.expectIdent().text
	}
	if !p.is("{") {
		if p.tree.Node(id).Name == "" {
			p.errorf("expected tag or enumerator list after enum")
		}
		return id
	}
	list := p.add(ast.EnumeratorList, p.expect("{").line)
	for !p.accept("}") {
		name := p.expectIdent()
		e := p.tree.Add(ast.Node{Kind: ast.Enumerator, Line: name.line, Name: name.text})
		p.declareName(name.text, false)
		if p.accept("=") {
			p.tree.AppendChild(e, p.conditional())
		}
		p.tree.AppendChild(list, e)
		if !p.accept(",") {
			p.expect("}")
			break
		}
	}
	p.tree.AppendChild(id, list)
	return id
}

func (p *parser) staticAssert() {
	p.advance()
	p.skipParens()
	p.expect(";")
}

// declaration parses a block-scope or K&R parameter declaration.
func (p *parser) declaration() []ast.NodeID {
	if p.is("_Static_assert") {
		p.staticAssert()
		return nil
	}
	specs := p.declSpecs(true)
	if p.accept(";") {
		return []ast.NodeID{p.bareDecl(specs)}
	}
	return p.initDeclarators(specs, p.declarator(false))
}

func (p *parser) initDeclarators(specs declSpecs, first declarator) []ast.NodeID {
	var decls []ast.NodeID
	d := first
	spec := specs.typeSpec
	for {
		p.skipAsmLabel()
		p.skipAttributes()
		decl := p.buildDecl(specs.storage, spec, d)
		p.declareName(d.name, specs.storage&ast.StorageTypedef != 0)
		if p.accept("=") {
			p.tree.AppendChild(decl, p.initializer())
		}
		decls = append(decls, decl)
		if !p.accept(",") {
			break
		}
		spec = p.cloneSpec(specs.typeSpec)
		d = p.declarator(false)
	}
	p.expect(";")
	return decls
}

func (p *parser) skipAsmLabel() {
	if p.is("__asm__") || p.is("asm") || p.is("__asm") {
		p.advance()
		p.skipParens()
	}
}

// bareDecl is a declaration without declarator, e.g. "struct s { int a; };".
func (p *parser) bareDecl(specs declSpecs) ast.NodeID {
	decl := p.tree.Add(ast.Node{Kind: ast.Decl, Line: specs.line, Storage: specs.storage})
	p.tree.AppendChild(decl, specs.typeSpec)
	return decl
}

func (p *parser) makeDecl(specs declSpecs, d declarator, clone bool) ast.NodeID {
	spec := specs.typeSpec
	if clone {
		spec = p.cloneSpec(spec)
	}
	return p.buildDecl(specs.storage, spec, d)
}

func (p *parser) buildDecl(storage ast.Storage, spec ast.NodeID, d declarator) ast.NodeID {
	typ := p.buildType(spec, d)
	decl := p.tree.Add(ast.Node{Kind: ast.Decl, Line: d.line, Name: d.name, Storage: storage})
	p.tree.AppendChild(decl, typ)
	return decl
}

func (p *parser) initializer() ast.NodeID {
	if !p.is("{") {
		return p.assignment()
	}
	return p.initList()
}

func (p *parser) initList() ast.NodeID {
	list := p.add(ast.InitList, p.expect("{").line)
	for !p.accept("}") {
		var designators []ast.NodeID
		line := p.peek().line
		for p.is(".") || p.is("[") {
			if p.accept(".") {
				name := p.expectIdent()
				designators = append(designators, p.tree.Add(ast.Node{Kind: ast.Identifier, Line: name.line, Name: name.text}))
			} else {
				p.expect("[")
				designators = append(designators, p.conditional())
				p.expect("]")
			}
		}
		var item ast.NodeID
		if len(designators) > 0 {
			p.expect("=")
			item = p.add(ast.NamedInitializer, line, designators...)
			p.tree.AppendChild(item, p.initializer())
		} else {
			item = p.initializer()
		}
		p.tree.AppendChild(list, item)
		if !p.accept(",") {
			p.expect("}")
			break
		}
	}
	return list
}

// Declarators.

type derivation struct {
	kind   ast.Kind
	line   int
	child  ast.NodeID
	params []string
}

// declarator is the parsed shape of a (possibly abstract) declarator. ops
// lists derived types from the outermost one inwards, e.g. "*a[3]" is
// [ArrayDecl, PtrDecl].
type declarator struct {
	name string
	line int
	ops  []derivation
}

func (d declarator) isFunction() bool {
	return len(d.ops) > 0 && d.ops[0].kind == ast.FuncDecl
}

func (p *parser) declarator(abstract bool) declarator {
	p.skipAttributes()
	var ptrs []derivation
	for p.is("*") {
		t := p.advance()
		ptrs = append(ptrs, derivation{kind: ast.PtrDecl, line: t.line, child: ast.NoNode})
		for qualifierKeywords[p.peek().text] || isAttribute(p.peek().text) {
			if isAttribute(p.peek().text) {
				p.skipAttributes()
			} else {
				p.advance()
			}
		}
	}

	var d declarator
	var inner *declarator
	t := p.peek()
	switch {
	// The specifiers already hold the type here, so even a typedef name is
	// the declarator's own name, as in "int f(int T)".
	case t.kind == tokIdent && !keywords[t.text]:
		p.advance()
		d.name, d.line = t.text, t.line
	case p.is("(") && p.isNestedDeclarator(abstract):
		p.advance()
		nested := p.declarator(abstract)
		p.expect(")")
		inner = &nested
	default:
		if !abstract {
			p.errorf("expected declarator, found %s", t)
		}
		d.line = t.line
	}

	var suffixes []derivation
	for {
		if p.is("[") {
			line := p.advance().line
			for qualifierKeywords[p.peek().text] || p.is("static") {
				p.advance()
			}
			dim := ast.NoNode
			if p.is("*") && p.peekN(1).text == "]" {
				p.advance()
			} else if !p.is("]") {
				dim = p.assignment()
			}
			p.expect("]")
			suffixes = append(suffixes, derivation{kind: ast.ArrayDecl, line: line, child: dim})
			continue
		}
		if p.is("(") {
			line := p.advance().line
			params, names := p.paramList(line)
			p.expect(")")
			suffixes = append(suffixes, derivation{kind: ast.FuncDecl, line: line, child: params, params: names})
			continue
		}
		break
	}
	p.skipAttributes()

	if inner != nil {
		d.name, d.line = inner.name, inner.line
		d.ops = append(d.ops, inner.ops...)
	}
	d.ops = append(d.ops, suffixes...)
	for i := len(ptrs) - 1; i >= 0; i-- {
		d.ops = append(d.ops, ptrs[i])
	}
	if d.line == 0 {
		d.line = t.line
	}
	return d
}

// isNestedDeclarator decides whether "(" opens a parenthesized declarator
// rather than a parameter list of an abstract function declarator.
func (p *parser) isNestedDeclarator(abstract bool) bool {
	next := p.peekN(1)
	if !abstract {
		return true
	}
	if next.kind == tokPunct {
		return next.text == "*" || next.text == "(" || next.text == "["
	}
	if isAttribute(next.text) {
		return true
	}
	return false
}

func (p *parser) paramList(line int) (ast.NodeID, []string) {
	list := p.add(ast.ParamList, line)
	var names []string
	if p.is(")") {
		return list, nil
	}
	// K&R identifier list.
	if t := p.peek(); t.kind == tokIdent && !keywords[t.text] && !p.isTypedefName(t.text) {
		for {
			name := p.expectIdent()
			p.tree.AppendChild(list, p.tree.Add(ast.Node{Kind: ast.Identifier, Line: name.line, Name: name.text}))
			names = append(names, name.text)
			if !p.accept(",") {
				break
			}
		}
		return list, names
	}
	p.pushScope()
	defer p.popScope()
	for {
		if p.is("...") {
			t := p.advance()
			p.tree.AppendChild(list, p.add(ast.EllipsisParam, t.line))
			break
		}
		specs := p.declSpecs(false)
		d := p.declarator(true)
		var param ast.NodeID
		if d.name != "" {
			param = p.buildDecl(specs.storage, specs.typeSpec, d)
			p.declareName(d.name, false)
			names = append(names, d.name)
		} else {
			param = p.add(ast.Typename, specs.line, p.buildType(specs.typeSpec, d))
		}
		p.tree.AppendChild(list, param)
		if !p.accept(",") {
			break
		}
	}
	return list, names
}

// buildType materialises a declarator over its base type specifier.
func (p *parser) buildType(spec ast.NodeID, d declarator) ast.NodeID {
	typ := p.tree.Add(ast.Node{Kind: ast.TypeDecl, Line: d.line, Name: d.name})
	p.tree.AppendChild(typ, spec)
	for i := len(d.ops) - 1; i >= 0; i-- {
		op := d.ops[i]
		outer := p.tree.Add(ast.Node{Kind: op.kind, Line: op.line})
		p.tree.AppendChild(outer, typ)
		p.tree.AppendChild(outer, op.child)
		typ = outer
	}
	return typ
}

func (p *parser) typeName() ast.NodeID {
	specs := p.declSpecs(false)
	d := p.declarator(true)
	return p.add(ast.Typename, specs.line, p.buildType(specs.typeSpec, d))
}
