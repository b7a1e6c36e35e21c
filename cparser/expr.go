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

var binaryPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

var assignmentOps = map[string]bool{
	"=": true, "*=": true, "/=": true, "%=": true, "+=": true, "-=": true,
	"<<=": true, ">>=": true, "&=": true, "^=": true, "|=": true,
}

// expression parses a comma expression. More than one operand yields an
// ExprList.
func (p *parser) expression() ast.NodeID {
	first := p.assignment()
	if !p.is(",") {
		return first
	}
	list := p.add(ast.ExprList, p.tree.Line(first), first)
	for p.accept(",") {
		p.tree.AppendChild(list, p.assignment())
	}
	return list
}

func (p *parser) assignment() ast.NodeID {
	lhs := p.conditional()
	t := p.peek()
	if t.kind == tokPunct && assignmentOps[t.text] {
		p.advance()
		rhs := p.assignment()
		n := p.tree.Add(ast.Node{Kind: ast.Assignment, Line: t.line, Op: t.text})
		p.tree.AppendChild(n, lhs)
		p.tree.AppendChild(n, rhs)
		return n
	}
	return lhs
}

func (p *parser) conditional() ast.NodeID {
	cond := p.binary(1)
	if !p.is("?") {
		return cond
	}
	line := p.advance().line
	then := p.expression()
	p.expect(":")
	return p.add(ast.TernaryOp, line, cond, then, p.conditional())
}

// binary is precedence climbing over the left-associative binary operators.
func (p *parser) binary(minPrec int) ast.NodeID {
	lhs := p.cast()
	for {
		t := p.peek()
		prec, ok := binaryPrecedence[t.text]
		if t.kind != tokPunct || !ok || prec < minPrec {
			return lhs
		}
		p.advance()
		rhs := p.binary(prec + 1)
		n := p.tree.Add(ast.Node{Kind: ast.BinaryOp, Line: t.line, Op: t.text})
		p.tree.AppendChild(n, lhs)
		p.tree.AppendChild(n, rhs)
		lhs = n
	}
}

func (p *parser) cast() ast.NodeID {
	if p.is("(") && p.isTypeNameStart(1) {
		line := p.advance().line
		tn := p.typeName()
		p.expect(")")
		if p.is("{") {
			lit := p.add(ast.CompoundLiteral, line, tn, p.initList())
			return p.postfix(lit)
		}
		return p.add(ast.Cast, line, tn, p.cast())
	}
	return p.unary()
}

func (p *parser) unary() ast.NodeID {
	t := p.peek()
	if t.kind == tokPunct {
		switch t.text {
		case "++", "--":
			p.advance()
			return p.unaryOp(t, p.unary())
		case "&", "*", "+", "-", "~", "!":
			p.advance()
			return p.unaryOp(t, p.cast())
		}
	}
	if t.kind == tokIdent {
		switch t.text {
		case "sizeof", "_Alignof", "__alignof__":
			p.advance()
			if p.is("(") && p.isTypeNameStart(1) {
				p.advance()
				tn := p.typeName()
				p.expect(")")
				return p.unaryOp(t, tn)
			}
			return p.unaryOp(t, p.unary())
		case "__extension__":
			p.advance()
			return p.cast()
		}
	}
	return p.postfix(p.primary())
}

func (p *parser) unaryOp(op token, operand ast.NodeID) ast.NodeID {
	n := p.tree.Add(ast.Node{Kind: ast.UnaryOp, Line: op.line, Op: op.text})
	p.tree.AppendChild(n, operand)
	return n
}

func (p *parser) postfix(expr ast.NodeID) ast.NodeID {
	for {
		t := p.peek()
		if t.kind != tokPunct {
			return expr
		}
		switch t.text {
		case "[":
			p.advance()
			idx := p.expression()
			p.expect("]")
			expr = p.add(ast.ArrayRef, t.line, expr, idx)
		case "(":
			p.advance()
			args := p.add(ast.ExprList, t.line)
			for !p.accept(")") {
				p.tree.AppendChild(args, p.assignment())
				if !p.accept(",") {
					p.expect(")")
					break
				}
			}
			expr = p.add(ast.Call, p.tree.Line(expr), expr, args)
		case ".", "->":
			p.advance()
			field := p.expectIdent()
			n := p.tree.Add(ast.Node{Kind: ast.StructRef, Line: t.line, Op: t.text})
			p.tree.AppendChild(n, expr)
			p.tree.AppendChild(n, p.tree.Add(ast.Node{Kind: ast.Identifier, Line: field.line, Name: field.text}))
			expr = n
		case "++", "--":
			p.advance()
			expr = p.unaryOp(token{kind: tokPunct, text: "p" + t.text, line: t.line}, expr)
		default:
			return expr
		}
	}
}

func (p *parser) primary() ast.NodeID {
	t := p.peek()
	switch t.kind {
	case tokIdent:
		if keywords[t.text] {
			p.errorf("unexpected %s in expression", t)
		}
		p.advance()
		return p.tree.Add(ast.Node{Kind: ast.Identifier, Line: t.line, Name: t.text})
	case tokInt, tokFloat, tokChar:
		p.advance()
		kind := ast.IntConst
		switch t.kind {
		case tokFloat:
			kind = ast.FloatConst
		case tokChar:
			kind = ast.CharConst
		}
		return p.tree.Add(ast.Node{Kind: ast.Constant, Line: t.line, Value: t.text, ConstKind: kind})
	case tokString:
		p.advance()
		value := t.text
		// Adjacent literals are concatenated into one constant.
		for p.peek().kind == tokString {
			next := p.advance().text
			value = value[:len(value)-1] + next[indexQuote(next)+1:]
		}
		return p.tree.Add(ast.Node{Kind: ast.Constant, Line: t.line, Value: value, ConstKind: ast.StringConst})
	case tokPunct:
		if t.text == "(" {
			p.advance()
			var inner ast.NodeID
			if p.is("{") {
				// GNU statement expression.
				inner = p.compound()
			} else {
				inner = p.expression()
			}
			p.expect(")")
			return inner
		}
	}
	p.errorf("unexpected %s in expression", t)
	return ast.NoNode
}

func indexQuote(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '"' {
			return i
		}
	}
	return 0
}
