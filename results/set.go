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

type violationKey struct {
	file    string
	line    int
	message string
}

// ResultsSet collects the violations of one file, dropping any whose file,
// line and message were already added. It preserves adding order.
type ResultsSet struct {
	FileResults
	stored map[violationKey]struct{}
}

func NewResultsSet(file string) *ResultsSet {
	set := ResultsSet{FileResults: FileResults{File: file}}
	set.stored = make(map[violationKey]struct{})
	return &set
}

func (rs *ResultsSet) Add(v Violation) {
	key := violationKey{
		file:    v.File,
		line:    v.LineNumber(),
		message: v.Message,
	}
	if _, reported := rs.stored[key]; !reported {
		rs.stored[key] = struct{}{}
		rs.Violations = append(rs.Violations, v)
	}
}

func (rs *ResultsSet) AddList(violations []Violation) {
	for _, v := range violations {
		rs.Add(v)
	}
}
