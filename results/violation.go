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

// Package results holds the violations found by the engine and writes them
// out as console text, JSON, binary and HTML reports.
package results

import (
	"strconv"
	"strings"

	"naive.systems/complyc/checkrule"
)

const UnspecifiedSeverity = "unspecified"

// Violation is one reported finding. It is a value; copies never alias.
type Violation struct {
	// ID is empty until AddID stamps the violation for a written report.
	ID        string
	RuleID    string
	Message   string
	File      string
	Line      *int
	Severity  string
	Reference string
}

// New builds the violation of rule at line of file. The rule guidance is
// appended to msg. A line below 1 is recorded as unknown.
func New(rule *checkrule.Rule, file string, line int, msg string) Violation {
	v := Violation{
		RuleID:    rule.ID,
		Message:   rule.Message(msg),
		File:      file,
		Severity:  rule.Severity,
		Reference: rule.Reference,
	}
	if line > 0 {
		v.Line = &line
	}
	return v
}

// LineNumber returns the line, or 0 when unknown.
func (v Violation) LineNumber() int {
	if v.Line == nil {
		return 0
	}
	return *v.Line
}

// Location is "line N", or "line ?" when the line is unknown.
func (v Violation) Location() string {
	if v.Line == nil {
		return "line ?"
	}
	return "line " + strconv.Itoa(*v.Line)
}

// SeverityLabel maps an empty severity to "unspecified".
func SeverityLabel(severity string) string {
	if severity == "" {
		return UnspecifiedSeverity
	}
	return severity
}

func severityClass(severity string) string {
	return "severity-" + strings.ToLower(SeverityLabel(severity))
}
