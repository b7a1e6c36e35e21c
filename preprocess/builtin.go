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

package preprocess

import (
	"regexp"
	"strings"
)

// Line and block comments. Comment markers inside string or character
// literals are not told apart.
var commentPattern = regexp.MustCompile(`(?s)//[^\n]*|/\*.*?\*/`)

// typedefPrelude declares the fixed-width integer names and bool. It is kept
// on a single line and glued to the first source line so that every line
// number after it is unchanged.
const typedefPrelude = "typedef signed char int8_t; typedef unsigned char uint8_t; " +
	"typedef short int16_t; typedef unsigned short uint16_t; " +
	"typedef int int32_t; typedef unsigned int uint32_t; " +
	"typedef long long int64_t; typedef unsigned long long uint64_t; " +
	"typedef _Bool bool; "

// Builtin prepares code for parsing without any external tool: comments are
// stripped, directive lines are blanked and the typedef prelude is injected.
// The number of lines is preserved.
func Builtin(code string) string {
	return InjectTypedefs(StripDirectives(StripComments(code)))
}

// StripComments replaces every comment by the newlines it spanned, or by one
// space for a comment within a line.
func StripComments(code string) string {
	return commentPattern.ReplaceAllStringFunc(code, func(comment string) string {
		if n := strings.Count(comment, "\n"); n > 0 {
			return strings.Repeat("\n", n)
		}
		return " "
	})
}

// StripDirectives blanks every line whose first non-blank character is '#',
// together with the lines it continues onto through a trailing backslash.
func StripDirectives(code string) string {
	lines := strings.Split(code, "\n")
	continued := false
	for i, line := range lines {
		directive := continued || strings.HasPrefix(strings.TrimLeft(line, " \t\f\v"), "#")
		if !directive {
			continue
		}
		continued = strings.HasSuffix(strings.TrimRight(line, " \t\r"), "\\")
		lines[i] = ""
	}
	return strings.Join(lines, "\n")
}

func InjectTypedefs(code string) string {
	return typedefPrelude + code
}
