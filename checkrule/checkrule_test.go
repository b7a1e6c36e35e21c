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

package checkrule

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleConfig = `
style:
  preprocessor: gcc
  compiler_flags: "-DDEBUG -I include"
  timeout_seconds: 5
rules:
  - id: FN_NAME
    scope: function
    check: regex
    pattern: "[a-z_]+"
    severity: minor
    guidance: Use snake_case.
  - id: GLOBALS
    scope: file
    check: global_naming
    pattern: "^g_[a-z]+$"
    non_static_only: true
  - id: FN_LEN
    scope: function
    check: max_function_length
  - id: PARAMS
    scope: function
    check: max_parameter_count
    max_parameters: 3
  - id: BANNED
    scope: call_expression
    check: forbidden_functions
    functions: [gets, strcpy]
  - id: HEADER
    check: file_header_contains
    required_lines: ["Copyright", "SPDX-License-Identifier"]
  - id: CC
    scope: function
    check: max_cyclomatic_complexity
    max_cc: 5
  - id: DEPTH
    scope: function
    check: max_nesting_depth
  - id: MAGIC
    scope: literal
    check: magic_number
    ignore_values: [0, 1, -1, 0.5, "0x10"]
    allow_in_enum: false
`

func TestParseConfig(t *testing.T) {
	config, err := ParseConfig([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Style.Preprocessor != "gcc" || config.Style.CompilerFlags != "-DDEBUG -I include" || config.Style.TimeoutSeconds != 5 {
		t.Errorf("unexpected style %+v", config.Style)
	}
	if len(config.Rules) != 9 {
		t.Fatalf("unexpected rule count %d", len(config.Rules))
	}

	var checks []CheckKind
	for _, r := range config.Rules {
		checks = append(checks, r.Check)
		if r.Params.Check() != r.Check {
			t.Errorf("rule %s has params of %v", r.ID, r.Params.Check())
		}
	}
	expected := []CheckKind{
		CheckNamePattern, CheckGlobalNaming, CheckMaxFunctionLength, CheckMaxParameterCount,
		CheckForbiddenCalls, CheckFileHeaderContains, CheckCyclomaticComplexity,
		CheckMaxNestingDepth, CheckMagicNumber,
	}
	if !reflect.DeepEqual(checks, expected) {
		t.Errorf("unexpected result. got: %v. expected: %v.", checks, expected)
	}

	if config.Rules[5].Scope != ScopeFile {
		t.Errorf("missing scope must default to file, got %v", config.Rules[5].Scope)
	}
	if p := config.Rules[1].Params.(*GlobalNamingParams); !p.NonStaticOnly {
		t.Errorf("non_static_only not read")
	}
	if p := config.Rules[2].Params.(*MaxFunctionLengthParams); p.MaxLines != DefaultMaxLines {
		t.Errorf("unexpected default max_lines %d", p.MaxLines)
	}
	if p := config.Rules[3].Params.(*MaxParameterCountParams); p.MaxParameters != 3 {
		t.Errorf("unexpected max_parameters %d", p.MaxParameters)
	}
	if p := config.Rules[4].Params.(*ForbiddenCallsParams); !p.IsForbidden("gets") || p.IsForbidden("puts") {
		t.Errorf("unexpected forbidden set %v", p.Functions)
	}
	if p := config.Rules[7].Params.(*MaxNestingDepthParams); p.MaxDepth != DefaultMaxDepth {
		t.Errorf("unexpected default max_depth %d", p.MaxDepth)
	}
	magic := config.Rules[8].Params.(*MagicNumberParams)
	if magic.AllowInEnum {
		t.Errorf("allow_in_enum not read")
	}
	if !reflect.DeepEqual(magic.IgnoreValues, []float64{0, 1, -1, 0.5, 16}) {
		t.Errorf("unexpected ignore values %v", magic.IgnoreValues)
	}
	if !magic.IsIgnored(1.0) || magic.IsIgnored(2) {
		t.Errorf("unexpected IsIgnored result")
	}
}

func TestNamePatternIsPrefixAnchored(t *testing.T) {
	re, err := compileNamePattern("g_[a-z]+")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, testCase := range [...]struct {
		name     string
		expected bool
	}{
		{"g_count", true},
		{"g_count2", true},
		{"my_g_count", false},
		{"G_count", false},
	} {
		if got := re.MatchString(testCase.name); got != testCase.expected {
			t.Errorf("unexpected result for %v. got: %v. expected: %v.", testCase.name, got, testCase.expected)
		}
	}
}

func TestParseConfigErrors(t *testing.T) {
	for _, testCase := range [...]struct {
		name string
		doc  string
	}{
		{"missing id", "rules:\n  - check: max_depth\n"},
		{"missing check", "rules:\n  - id: A\n"},
		{"unknown check", "rules:\n  - id: A\n    check: spelling\n"},
		{"unknown scope", "rules:\n  - id: A\n    scope: module\n    check: max_nesting_depth\n"},
		{"missing pattern", "rules:\n  - id: A\n    scope: function\n    check: name_pattern\n"},
		{"bad pattern", "rules:\n  - id: A\n    scope: function\n    check: name_pattern\n    pattern: \"(\"\n"},
		{"negative limit", "rules:\n  - id: A\n    scope: function\n    check: cyclomatic_complexity\n    max_cc: -1\n"},
		{"bad ignore value", "rules:\n  - id: A\n    check: magic_number\n    ignore_values: [abc]\n"},
		{"not yaml", "rules: [\n"},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(testCase.doc)); err == nil {
				t.Errorf("expected an error for %q", testCase.doc)
			}
		})
	}
}

func TestScopeAliases(t *testing.T) {
	for _, testCase := range [...]struct {
		in       string
		expected ScopeKind
	}{
		{"condition", ScopeIfStatement},
		{"if_statement", ScopeIfStatement},
		{"loop_statement", ScopeLoopStatement},
		{"for_statement", ScopeLoopStatement},
		{"while_statement", ScopeLoopStatement},
		{"", ScopeFile},
	} {
		got, err := ParseScope(testCase.in)
		if err != nil || got != testCase.expected {
			t.Errorf("unexpected result for %q. got: %v (%v). expected: %v.", testCase.in, got, err, testCase.expected)
		}
	}
	if ScopeIfStatement.String() != "if_statement" || CheckMagicNumber.String() != "magic_number" {
		t.Errorf("unexpected canonical names")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Style.Timeout().Seconds() != 5 {
		t.Errorf("unexpected timeout %v", config.Style.Timeout())
	}
	if _, err := LoadConfig(path + ".missing"); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestRuleMessage(t *testing.T) {
	r := &Rule{Check: CheckMagicNumber}
	if got := r.Message("Magic number '7' detected."); got != "Magic number '7' detected. Define a named constant." {
		t.Errorf("unexpected message %q", got)
	}
	r = &Rule{Check: CheckNamePattern}
	if got := r.Message("Name 'x' does not match pattern 'y'."); got != "Name 'x' does not match pattern 'y'." {
		t.Errorf("unexpected message %q", got)
	}
}
