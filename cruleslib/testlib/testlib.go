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

// Package testlib prepares rule fixture directories for tests. A fixture
// directory holds a rules.yaml and the C files it is checked against.
package testlib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"naive.systems/complyc/analyzer"
	"naive.systems/complyc/checkrule"
	"naive.systems/complyc/cruleslib/filter"
	"naive.systems/complyc/results"
)

const RulesFile = "rules.yaml"

// NewAnalyzer loads srcdir/rules.yaml. Fixtures always use the builtin
// preprocessor unless the rule document asks for gcc.
func NewAnalyzer(srcdir string) (*analyzer.Analyzer, error) {
	config, err := checkrule.LoadConfig(filepath.Join(srcdir, RulesFile))
	if err != nil {
		return nil, err
	}
	return analyzer.New(config, false, false)
}

// ListSources returns the C files directly under srcdir in name order.
func ListSources(srcdir string) ([]string, error) {
	entries, err := os.ReadDir(srcdir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !filter.IsCFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(srcdir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// RunCase analyzes every C file of srcdir. The first failing file stops the
// run. Paths in the report are relative to srcdir.
func RunCase(srcdir string) (*results.Report, error) {
	a, err := NewAnalyzer(srcdir)
	if err != nil {
		return nil, err
	}
	files, err := ListSources(srcdir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no C files in %s", srcdir)
	}
	report := &results.Report{}
	for _, file := range files {
		fr, err := a.AnalyzeFile(context.Background(), file)
		if err != nil {
			return nil, err
		}
		report.Add(fr.File, fr.Violations)
	}
	return report, ToRelPath(srcdir, report)
}

func ToRelPath(srcdir string, report *results.Report) error {
	for i := range report.Files {
		fr := &report.Files[i]
		rel, err := filepath.Rel(srcdir, fr.File)
		if err != nil {
			return err
		}
		fr.File = rel
		for j := range fr.Violations {
			fr.Violations[j].File = rel
		}
	}
	return nil
}
