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

import "naive.systems/complyc/ast"

func (p *parser) compound() ast.NodeID {
	block := p.add(ast.Compound, p.expect("{").line)
	p.pushScope()
	defer p.popScope()
	for !p.accept("}") {
		if p.peek().kind == tokEOF {
			p.errorf("unexpected end of input in block")
		}
		if p.isBlockDecl() {
			for _, d := range p.declaration() {
				p.tree.AppendChild(block, d)
			}
			continue
		}
		p.tree.AppendChild(block, p.statement())
	}
	return block
}

// isBlockDecl is isDeclStart except for a typedef name used as a label.
func (p *parser) isBlockDecl() bool {
	if !p.isDeclStart() {
		return false
	}
	t := p.peek()
	if !keywords[t.text] && p.peekN(1).text == ":" && p.peekN(1).kind == tokPunct {
		return false
	}
	return true
}

func (p *parser) statement() ast.NodeID {
	t := p.peek()
	if t.kind == tokPunct {
		switch t.text {
		case "{":
			return p.compound()
		case ";":
			p.advance()
			return p.add(ast.EmptyStatement, t.line)
		}
	}
	if t.kind == tokIdent {
		switch t.text {
		case "if":
			p.advance()
			p.expect("(")
			cond := p.expression()
			p.expect(")")
			n := p.add(ast.If, t.line, cond, p.statement())
			if p.accept("else") {
				p.tree.AppendChild(n, p.statement())
			}
			return n
		case "switch":
			p.advance()
			p.expect("(")
			cond := p.expression()
			p.expect(")")
			return p.add(ast.Switch, t.line, cond, p.statement())
		case "while":
			p.advance()
			p.expect("(")
			cond := p.expression()
			p.expect(")")
			return p.add(ast.While, t.line, cond, p.statement())
		case "do":
			p.advance()
			body := p.statement()
			p.expect("while")
			p.expect("(")
			cond := p.expression()
			p.expect(")")
			p.expect(";")
			return p.add(ast.DoWhile, t.line, body, cond)
		case "for":
			return p.forStatement()
		case "return":
			p.advance()
			n := p.add(ast.Return, t.line)
			if !p.is(";") {
				p.tree.AppendChild(n, p.expression())
			}
			p.expect(";")
			return n
		case "break", "continue":
			p.advance()
			p.expect(";")
			if t.text == "break" {
				return p.add(ast.Break, t.line)
			}
			return p.add(ast.Continue, t.line)
		case "goto":
			p.advance()
			label := p.expectIdent()
			p.expect(";")
			return p.tree.Add(ast.Node{Kind: ast.Goto, Line: t.line, Name: label.text})
		case "case":
			p.advance()
			expr := p.conditional()
			p.expect(":")
			return p.add(ast.Case, t.line, expr, p.labeledBody())
		case "default":
			p.advance()
			p.expect(":")
			return p.add(ast.Default, t.line, p.labeledBody())
		case "__asm__", "asm", "__asm":
			p.advance()
			for qualifierKeywords[p.peek().text] || p.is("goto") {
				p.advance()
			}
			p.skipParens()
			p.expect(";")
			return p.add(ast.EmptyStatement, t.line)
		}
		if !keywords[t.text] && p.peekN(1).kind == tokPunct && p.peekN(1).text == ":" {
			p.advance()
			p.advance()
			n := p.tree.Add(ast.Node{Kind: ast.Label, Line: t.line, Name: t.text})
			p.tree.AppendChild(n, p.labeledBody())
			return n
		}
	}
	expr := p.expression()
	p.expect(";")
	return expr
}

// labeledBody is the statement after a label. A label right before "}" gets
// an empty statement, as compilers accept.
func (p *parser) labeledBody() ast.NodeID {
	if p.is("}") {
		return p.add(ast.EmptyStatement, p.peek().line)
	}
	if p.isBlockDecl() {
		line := p.peek().line
		return p.add(ast.DeclList, line, p.declaration()...)
	}
	return p.statement()
}

func (p *parser) forStatement() ast.NodeID {
	line := p.advance().line
	p.expect("(")
	p.pushScope()
	defer p.popScope()

	gap := func() ast.NodeID { return p.add(ast.EmptyStatement, p.peek().line) }
	var init ast.NodeID
	switch {
	case p.isDeclStart():
		declLine := p.peek().line
		init = p.add(ast.DeclList, declLine, p.declaration()...)
	case p.is(";"):
		init = gap()
		p.advance()
	default:
		init = p.expression()
		p.expect(";")
	}
	var cond ast.NodeID
	if p.is(";") {
		cond = gap()
	} else {
		cond = p.expression()
	}
	p.expect(";")
	var next ast.NodeID
	if p.is(")") {
		next = gap()
	} else {
		next = p.expression()
	}
	p.expect(")")
	return p.add(ast.For, line, init, cond, next, p.statement())
}
