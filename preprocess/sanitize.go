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

	"golang.org/x/exp/slices"
)

// gnuTokens mark lines the parser cannot digest: compiler internals and the
// reserved spellings of GNU extensions.
var gnuTokens = []string{
	"__builtin_va_list",
	"__gnuc_va_list",
	"__va_list_tag",
	"__inline",
	"__inline__",
	"__forceinline",
	"__attribute__",
	"__attribute",
	"__restrict",
	"__restrict__",
	"__typeof",
	"__typeof__",
	"__extension__",
	"__label__",
	"__asm",
	"__asm__",
	"__declspec",
	"__int128",
	"__float128",
}

var (
	wordPattern      = regexp.MustCompile(`\b\w+\b`)
	builtinPattern   = regexp.MustCompile(`\b__builtin_\w*`)
	attributeStart   = regexp.MustCompile(`\b(?:__attribute__|__attribute|attribute)\s*\(\(`)
	reservedTypedef  = regexp.MustCompile(`^\s*typedef\b.*\b__\w+\s*(?:\[[^\]]*\]\s*)*;\s*$`)
	reservedAggStart = regexp.MustCompile(`^\s*(?:typedef\s+)?(?:struct|union)\s+__\w+`)
	reservedToken    = regexp.MustCompile(`\b__\w+\b`)
	danglingLine     = regexp.MustCompile(`^[\s(),;]*$`)
)

// Sanitize removes from preprocessor output what the parser cannot accept.
// It works line by line on patterns and may drop or keep an ordinary
// identifier that happens to look like a compiler internal.
func Sanitize(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	skipDepth := 0
	for _, line := range lines {
		if skipDepth > 0 {
			skipDepth += braceBalance(line)
			continue
		}
		if reservedAggStart.MatchString(line) {
			// struct __x { ... } spanning lines is dropped as a whole.
			skipDepth = braceBalance(line)
			if skipDepth < 0 {
				skipDepth = 0
			}
			continue
		}
		if reservedTypedef.MatchString(line) {
			continue
		}
		cleaned := stripAttributes(line)
		if hasGNUToken(cleaned) {
			continue
		}
		cleaned = reservedToken.ReplaceAllString(cleaned, "")
		if cleaned != line && danglingLine.MatchString(cleaned) {
			continue
		}
		kept = append(kept, cleaned)
	}
	return strings.Join(kept, "\n")
}

func hasGNUToken(line string) bool {
	if builtinPattern.MatchString(line) {
		return true
	}
	for _, w := range wordPattern.FindAllString(line, -1) {
		if slices.Contains(gnuTokens, w) {
			return true
		}
	}
	return false
}

// stripAttributes removes attribute((...)) annotations that open and close on
// the same line.
func stripAttributes(line string) string {
	for {
		loc := attributeStart.FindStringIndex(line)
		if loc == nil {
			return line
		}
		open := strings.Index(line[loc[0]:], "(") + loc[0]
		depth, end := 0, -1
		for i := open; i < len(line) && end < 0; i++ {
			switch line[i] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					end = i + 1
				}
			}
		}
		if end < 0 {
			return line
		}
		line = line[:loc[0]] + " " + line[end:]
	}
}

func braceBalance(line string) int {
	return strings.Count(line, "{") - strings.Count(line, "}")
}
