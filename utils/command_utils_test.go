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

package utils

import (
	"os/exec"
	"reflect"
	"testing"
)

func TestGetCommandStdoutLines(t *testing.T) {
	got, err := GetCommandStdoutLines(exec.Command("printf", `a\nb\n`), t.TempDir())
	if err != nil {
		t.Fatalf("GetCommandStdoutLines: %v", err)
	}
	if expected := []string{"a", "b"}; !reflect.DeepEqual(got, expected) {
		t.Errorf("unexpected result. got: %v. expected: %v.", got, expected)
	}
	if _, err := GetCommandStdoutLines(exec.Command("false"), ""); err == nil {
		t.Error("expected an error for a failing command")
	}
}

func TestCompilerVersionPattern(t *testing.T) {
	for _, testCase := range [...]struct {
		output   string
		expected string
	}{
		{"gcc (GCC) 12.2.1 20221121 (Red Hat 12.2.1-4) Copyright (C) 2022", "12.2.1"},
		{"Apple clang version 14.0.3 (clang-1403.0.22.14.1)", "14.0.3"},
		{"cc (Ubuntu 11.4.0-1ubuntu1~22.04) 11.4.0", "11.4.0"},
	} {
		result := compilerVersionPattern.FindStringSubmatch(testCase.output)
		got := ""
		if result != nil {
			got = result[1]
			if got == "" {
				got = result[2]
			}
		}
		if got != testCase.expected {
			t.Errorf("unexpected result for %v. got: %v. expected: %v.", testCase.output, got, testCase.expected)
		}
	}
}
