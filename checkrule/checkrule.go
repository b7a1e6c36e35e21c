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

// Package checkrule holds the validated rule model. Rules are read from the
// YAML rule document once and are read-only afterwards.
package checkrule

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/exp/slices"
)

type ScopeKind int

const (
	ScopeFile ScopeKind = iota
	ScopeFunction
	ScopeVariable
	ScopeStaticVariable
	ScopeGlobalVariable
	ScopeTypedef
	ScopeCallExpression
	ScopeIfStatement
	ScopeLoopStatement
	ScopeSwitchStatement
	ScopeStructDefinition
	ScopeEnumDefinition
	ScopeEnumConstant
	ScopeLiteral
)

var scopeNames = map[string]ScopeKind{
	"file":              ScopeFile,
	"function":          ScopeFunction,
	"variable":          ScopeVariable,
	"static_variable":   ScopeStaticVariable,
	"global_variable":   ScopeGlobalVariable,
	"typedef":           ScopeTypedef,
	"call_expression":   ScopeCallExpression,
	"if_statement":      ScopeIfStatement,
	"condition":         ScopeIfStatement,
	"loop_statement":    ScopeLoopStatement,
	"for_statement":     ScopeLoopStatement,
	"while_statement":   ScopeLoopStatement,
	"switch_statement":  ScopeSwitchStatement,
	"struct_definition": ScopeStructDefinition,
	"enum_definition":   ScopeEnumDefinition,
	"enum_constant":     ScopeEnumConstant,
	"literal":           ScopeLiteral,
}

func ParseScope(s string) (ScopeKind, error) {
	if s == "" {
		return ScopeFile, nil
	}
	scope, ok := scopeNames[s]
	if !ok {
		return ScopeFile, fmt.Errorf("unknown scope %q", s)
	}
	return scope, nil
}

var canonicalScopes = []string{
	ScopeFile:             "file",
	ScopeFunction:         "function",
	ScopeVariable:         "variable",
	ScopeStaticVariable:   "static_variable",
	ScopeGlobalVariable:   "global_variable",
	ScopeTypedef:          "typedef",
	ScopeCallExpression:   "call_expression",
	ScopeIfStatement:      "if_statement",
	ScopeLoopStatement:    "loop_statement",
	ScopeSwitchStatement:  "switch_statement",
	ScopeStructDefinition: "struct_definition",
	ScopeEnumDefinition:   "enum_definition",
	ScopeEnumConstant:     "enum_constant",
	ScopeLiteral:          "literal",
}

func (s ScopeKind) String() string {
	if s >= 0 && int(s) < len(canonicalScopes) {
		return canonicalScopes[s]
	}
	return fmt.Sprintf("ScopeKind(%d)", int(s))
}

type CheckKind int

const (
	CheckNamePattern CheckKind = iota
	CheckGlobalNaming
	CheckMaxFunctionLength
	CheckMaxParameterCount
	CheckForbiddenCalls
	CheckFileHeaderContains
	CheckCyclomaticComplexity
	CheckMaxNestingDepth
	CheckMagicNumber
)

var checkNames = []string{
	CheckNamePattern:          "name_pattern",
	CheckGlobalNaming:         "global_naming",
	CheckMaxFunctionLength:    "max_function_length",
	CheckMaxParameterCount:    "max_parameter_count",
	CheckForbiddenCalls:       "forbidden_calls",
	CheckFileHeaderContains:   "file_header_contains",
	CheckCyclomaticComplexity: "cyclomatic_complexity",
	CheckMaxNestingDepth:      "max_nesting_depth",
	CheckMagicNumber:          "magic_number",
}

// Older rule files use these names.
var checkAliases = map[string]CheckKind{
	"regex":                     CheckNamePattern,
	"forbidden_functions":       CheckForbiddenCalls,
	"max_cyclomatic_complexity": CheckCyclomaticComplexity,
}

func ParseCheck(s string) (CheckKind, error) {
	if i := slices.Index(checkNames, s); i >= 0 {
		return CheckKind(i), nil
	}
	if kind, ok := checkAliases[s]; ok {
		return kind, nil
	}
	return 0, fmt.Errorf("unknown check %q", s)
}

func (c CheckKind) String() string {
	if c >= 0 && int(c) < len(checkNames) {
		return checkNames[c]
	}
	return fmt.Sprintf("CheckKind(%d)", int(c))
}

const (
	DefaultMaxLines      = 40
	DefaultMaxParameters = 6
	DefaultMaxCC         = 10
	DefaultMaxDepth      = 4
	DefaultMagicGuidance = "Define a named constant."
)

// Params is the typed parameter set of one check kind.
type Params interface {
	Check() CheckKind
}

type NamePatternParams struct {
	Pattern *regexp.Regexp
	Source  string
}

type GlobalNamingParams struct {
	Pattern *regexp.Regexp
	Source  string
	// NonStaticOnly skips file-scope declarations with static storage.
	NonStaticOnly bool
}

type MaxFunctionLengthParams struct {
	MaxLines int
}

type MaxParameterCountParams struct {
	MaxParameters int
}

type ForbiddenCallsParams struct {
	Functions []string
}

type FileHeaderContainsParams struct {
	RequiredLines []string
}

type CyclomaticComplexityParams struct {
	MaxCC int
}

type MaxNestingDepthParams struct {
	MaxDepth int
}

type MagicNumberParams struct {
	IgnoreValues []float64
	AllowInEnum  bool
}

func (*NamePatternParams) Check() CheckKind          { return CheckNamePattern }
func (*GlobalNamingParams) Check() CheckKind         { return CheckGlobalNaming }
func (*MaxFunctionLengthParams) Check() CheckKind    { return CheckMaxFunctionLength }
func (*MaxParameterCountParams) Check() CheckKind    { return CheckMaxParameterCount }
func (*ForbiddenCallsParams) Check() CheckKind       { return CheckForbiddenCalls }
func (*FileHeaderContainsParams) Check() CheckKind   { return CheckFileHeaderContains }
func (*CyclomaticComplexityParams) Check() CheckKind { return CheckCyclomaticComplexity }
func (*MaxNestingDepthParams) Check() CheckKind      { return CheckMaxNestingDepth }
func (*MagicNumberParams) Check() CheckKind          { return CheckMagicNumber }

func (p *ForbiddenCallsParams) IsForbidden(name string) bool {
	return slices.Contains(p.Functions, name)
}

// IsIgnored reports whether v is in the ignore list. Integers and floats
// compare by value, so 1 matches both "1" and "1.0".
func (p *MagicNumberParams) IsIgnored(v float64) bool {
	return slices.Contains(p.IgnoreValues, v)
}

type Rule struct {
	ID        string
	Scope     ScopeKind
	Check     CheckKind
	Severity  string
	Reference string
	Guidance  string
	Params    Params
}

// Message appends the rule guidance to msg.
func (r *Rule) Message(msg string) string {
	guidance := r.Guidance
	if guidance == "" && r.Check == CheckMagicNumber {
		guidance = DefaultMagicGuidance
	}
	return strings.TrimSpace(msg + " " + guidance)
}

// compileNamePattern anchors pattern at the start of the name only, so a
// pattern without "$" accepts any suffix.
func compileNamePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, fmt.Errorf("missing pattern")
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %v", pattern, err)
	}
	return re, nil
}
