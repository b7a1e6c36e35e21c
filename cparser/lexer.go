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
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokFloat
	tokChar
	tokString
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	line int
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.text)
}

// Longest punctuators first.
var punctuators = []string{
	"...", "<<=", ">>=",
	"->", "++", "--", "<<", ">>", "<=", ">=", "==", "!=", "&&", "||",
	"*=", "/=", "%=", "+=", "-=", "&=", "^=", "|=",
	"[", "]", "(", ")", "{", "}", ".", "&", "*", "+", "-", "~", "!",
	"/", "%", "<", ">", "^", "|", "?", ":", ";", "=", ",",
}

type lexer struct {
	src      string
	pos      int
	line     int
	filename string
}

func tokenize(src, filename string) ([]token, error) {
	lx := &lexer{src: src, line: 1, filename: filename}
	var toks []token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func (lx *lexer) errorf(format string, args ...any) error {
	return &Error{File: lx.filename, Line: lx.line, Msg: fmt.Sprintf(format, args...)}
}

func (lx *lexer) peekByte(off int) byte {
	if lx.pos+off < len(lx.src) {
		return lx.src[lx.pos+off]
	}
	return 0
}

func (lx *lexer) atLineStart() bool {
	for i := lx.pos - 1; i >= 0; i-- {
		switch lx.src[i] {
		case ' ', '\t', '\r', '\f', '\v':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

func (lx *lexer) skipSpaceAndComments() error {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '\n':
			lx.line++
			lx.pos++
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			lx.pos++
		case c == '\\' && lx.peekByte(1) == '\n':
			lx.line++
			lx.pos += 2
		case c == '/' && lx.peekByte(1) == '/':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
		case c == '/' && lx.peekByte(1) == '*':
			end := strings.Index(lx.src[lx.pos+2:], "*/")
			if end < 0 {
				return lx.errorf("unterminated comment")
			}
			body := lx.src[lx.pos : lx.pos+2+end+2]
			lx.line += strings.Count(body, "\n")
			lx.pos += len(body)
		case c == '#' && lx.atLineStart():
			// Stray directive or linemarker; the preprocessing step should
			// have removed it.
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
		default:
			return nil
		}
	}
	return nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (lx *lexer) next() (token, error) {
	if err := lx.skipSpaceAndComments(); err != nil {
		return token{}, err
	}
	if lx.pos >= len(lx.src) {
		return token{kind: tokEOF, line: lx.line}, nil
	}
	c := lx.src[lx.pos]
	line := lx.line

	// Encoding prefixes of character and string literals.
	if prefix := lx.literalPrefix(); prefix >= 0 {
		q := lx.src[lx.pos+prefix]
		start := lx.pos
		lx.pos += prefix
		if err := lx.quoted(q); err != nil {
			return token{}, err
		}
		kind := tokString
		if q == '\'' {
			kind = tokChar
		}
		return token{kind: kind, text: lx.src[start:lx.pos], line: line}, nil
	}

	switch {
	case isIdentStart(c):
		start := lx.pos
		for lx.pos < len(lx.src) && isIdentChar(lx.src[lx.pos]) {
			lx.pos++
		}
		return token{kind: tokIdent, text: lx.src[start:lx.pos], line: line}, nil
	case isDigit(c) || (c == '.' && isDigit(lx.peekByte(1))):
		return lx.number(), nil
	}

	for _, p := range punctuators {
		if strings.HasPrefix(lx.src[lx.pos:], p) {
			lx.pos += len(p)
			return token{kind: tokPunct, text: p, line: line}, nil
		}
	}
	return token{}, lx.errorf("unexpected character %q", c)
}

// literalPrefix returns the length of an encoding prefix (L, u, U, u8)
// directly followed by a quote, or -1.
func (lx *lexer) literalPrefix() int {
	for _, p := range []string{"", "u8", "L", "u", "U"} {
		if !strings.HasPrefix(lx.src[lx.pos:], p) {
			continue
		}
		q := lx.peekByte(len(p))
		if q == '"' || (q == '\'' && p != "u8") {
			return len(p)
		}
	}
	return -1
}

func (lx *lexer) quoted(q byte) error {
	lx.pos++
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch c {
		case '\\':
			if lx.peekByte(1) == '\n' {
				lx.line++
			}
			lx.pos += 2
			continue
		case '\n':
			return lx.errorf("newline in literal")
		case q:
			lx.pos++
			return nil
		}
		lx.pos++
	}
	return lx.errorf("unterminated literal")
}

func (lx *lexer) number() token {
	start := lx.pos
	line := lx.line
	isFloat := false
	hex := lx.src[lx.pos] == '0' && (lx.peekByte(1) == 'x' || lx.peekByte(1) == 'X')
	if hex {
		lx.pos += 2
	}
scan:
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case isDigit(c), hex && isHexDigit(c):
			lx.pos++
		case c == '.':
			isFloat = true
			lx.pos++
		case (!hex && (c == 'e' || c == 'E')) || (hex && (c == 'p' || c == 'P')):
			isFloat = true
			lx.pos++
			if lx.peekByte(0) == '+' || lx.peekByte(0) == '-' {
				lx.pos++
			}
		default:
			break scan
		}
	}
	// Suffix letters (u, l, f, ...) stay part of the token text.
	for lx.pos < len(lx.src) && isIdentChar(lx.src[lx.pos]) {
		lx.pos++
	}
	kind := tokInt
	if isFloat {
		kind = tokFloat
	}
	return token{kind: kind, text: lx.src[start:lx.pos], line: line}
}
