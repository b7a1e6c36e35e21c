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
	"regexp"
	"strconv"
	"strings"

	"naive.systems/complyc/ast"
)

var (
	intSuffix   = regexp.MustCompile(`[uUlL]+$`)
	floatSuffix = regexp.MustCompile(`[fFlL]$`)
)

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// ParseIntLiteral returns the value of a C integer literal. A leading-zero
// literal that is not valid octal, like "09", is read as decimal.
func ParseIntLiteral(tok string) (float64, bool) {
	s := intSuffix.ReplaceAllString(tok, "")
	var v uint64
	var err error
	switch {
	case strings.HasPrefix(strings.ToLower(s), "0x"):
		v, err = strconv.ParseUint(s[2:], 16, 64)
	case len(s) > 1 && s[0] == '0' && isDigits(s):
		v, err = strconv.ParseUint(s, 8, 64)
		if err != nil {
			v, err = strconv.ParseUint(s, 10, 64)
		}
	default:
		v, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return 0, false
	}
	return float64(v), true
}

// ParseFloatLiteral returns the value of a decimal C floating literal with
// at most one suffix letter. Hexadecimal floats are not evaluated.
func ParseFloatLiteral(tok string) (float64, bool) {
	s := floatSuffix.ReplaceAllString(tok, "")
	if strings.HasPrefix(strings.ToLower(s), "0x") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// EffectiveValue is the signed value of the numeric Constant id. A constant
// directly under a unary minus is negative. ok is false for character and
// string constants and for literals that do not parse.
func EffectiveValue(t *ast.Tree, pm *ast.ParentMap, id ast.NodeID) (value float64, ok bool) {
	n := t.Node(id)
	if n.Kind != ast.Constant {
		return 0, false
	}
	switch n.ConstKind {
	case ast.IntConst:
		value, ok = ParseIntLiteral(n.Value)
	case ast.FloatConst:
		value, ok = ParseFloatLiteral(n.Value)
	default:
		return 0, false
	}
	if !ok {
		return 0, false
	}
	if p, hasParent := pm.Parent(id); hasParent {
		if pn := t.Node(p); pn.Kind == ast.UnaryOp && pn.Op == "-" {
			value = -value
		}
	}
	return value, true
}
