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

package results

import (
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/message"
)

// CodeFunc returns the source lines around line of file, or "" when they
// cannot be read.
type CodeFunc func(file string, line int) string

// PrintFileResults writes the per-file console listing. Snippets are added
// under each violation when code is not nil.
func PrintFileResults(w io.Writer, p *message.Printer, fr FileResults, code CodeFunc) {
	p.Fprintf(w, "\nFile: %s\n", fr.File)
	if len(fr.Violations) == 0 {
		p.Fprintf(w, "  No violations found ✅\n")
		return
	}
	for _, v := range fr.Violations {
		p.Fprintf(w, "  [%s] %s: %s\n", v.RuleID, v.Location(), v.Message)
		if code == nil || v.Line == nil {
			continue
		}
		snippet := strings.TrimRight(code(v.File, *v.Line), "\n")
		if snippet == "" {
			continue
		}
		for _, line := range strings.Split(snippet, "\n") {
			io.WriteString(w, "      "+line+"\n")
		}
	}
}

// PrintSummary writes the run summary block. It is printed even in quiet
// mode.
func PrintSummary(w io.Writer, p *message.Printer, s Summary) {
	p.Fprintf(w, "\n==================== Summary ====================\n")
	p.Fprintf(w, "Total files analyzed   : %d\n", s.TotalFiles)
	p.Fprintf(w, "Total violations found : %d\n", s.TotalViolations)
	if s.Clean() {
		p.Fprintf(w, "Overall status         : ✅ Clean (no violations)\n")
	} else {
		p.Fprintf(w, "Overall status         : ⚠️ Issues detected\n")
		p.Fprintf(w, "Violations by severity :\n")
		for _, c := range s.FoldedSeverities() {
			p.Fprintf(w, "  - %-11s : %d\n", capitalize(c.Severity), c.Count)
		}
	}
	p.Fprintf(w, "=================================================\n\n")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
