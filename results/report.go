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
	"sort"
	"strings"
)

type FileResults struct {
	File       string
	Violations []Violation
}

// Report is the outcome of one run, files in analysis order.
type Report struct {
	Files []FileResults
}

func (r *Report) Add(file string, violations []Violation) {
	r.Files = append(r.Files, FileResults{File: file, Violations: violations})
}

func (r *Report) TotalViolations() int {
	total := 0
	for _, fr := range r.Files {
		total += len(fr.Violations)
	}
	return total
}

type SeverityCount struct {
	Severity string
	Count    int
}

type Summary struct {
	TotalFiles      int
	TotalViolations int
	// BySeverity is in first-seen order. Severities are kept as written in
	// the rule document, empty ones counted as "unspecified".
	BySeverity []SeverityCount
}

func (r *Report) Summary() Summary {
	s := Summary{TotalFiles: len(r.Files)}
	index := map[string]int{}
	for _, fr := range r.Files {
		for _, v := range fr.Violations {
			s.TotalViolations++
			s.BySeverity = addSeverity(s.BySeverity, index, SeverityLabel(v.Severity), 1)
		}
	}
	return s
}

func (s Summary) Clean() bool {
	return s.TotalViolations == 0
}

// FoldedSeverities merges severities case-insensitively and sorts them by
// name, for the console summary.
func (s Summary) FoldedSeverities() []SeverityCount {
	var folded []SeverityCount
	index := map[string]int{}
	for _, c := range s.BySeverity {
		folded = addSeverity(folded, index, strings.ToLower(c.Severity), c.Count)
	}
	sort.Slice(folded, func(i, j int) bool {
		return folded[i].Severity < folded[j].Severity
	})
	return folded
}

func addSeverity(counts []SeverityCount, index map[string]int, severity string, n int) []SeverityCount {
	if i, ok := index[severity]; ok {
		counts[i].Count += n
		return counts
	}
	index[severity] = len(counts)
	return append(counts, SeverityCount{Severity: severity, Count: n})
}
