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
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
	"gopkg.in/yaml.v2"
)

// Style is the "style" section of the rule document.
type Style struct {
	Preprocessor   string `yaml:"preprocessor"`
	Charset        string `yaml:"charset"`
	Compiler       string `yaml:"compiler"`
	CompilerFlags  string `yaml:"compiler_flags"`
	IncludeDir     string `yaml:"include_dir"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (s Style) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

type Config struct {
	Style Style
	Rules []*Rule
}

type rawConfig struct {
	Style Style     `yaml:"style"`
	Rules []rawRule `yaml:"rules"`
}

// rawRule is one rule record as written in YAML. Check-specific keys are
// only meaningful for their check.
type rawRule struct {
	ID            string        `yaml:"id"`
	Scope         string        `yaml:"scope"`
	Check         string        `yaml:"check"`
	Severity      string        `yaml:"severity"`
	Reference     string        `yaml:"reference"`
	Guidance      string        `yaml:"guidance"`
	Pattern       string        `yaml:"pattern"`
	NonStaticOnly bool          `yaml:"non_static_only"`
	MaxLines      *int          `yaml:"max_lines"`
	MaxParameters *int          `yaml:"max_parameters"`
	Functions     []string      `yaml:"functions"`
	RequiredLines []string      `yaml:"required_lines"`
	MaxCC         *int          `yaml:"max_cc"`
	MaxDepth      *int          `yaml:"max_depth"`
	IgnoreValues  []interface{} `yaml:"ignore_values"`
	AllowInEnum   *bool         `yaml:"allow_in_enum"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("checkrule.LoadConfig: %v", err)
	}
	config, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("checkrule.LoadConfig %s: %v", path, err)
	}
	glog.Infof("loaded %d rules from %s", len(config.Rules), path)
	return config, nil
}

func ParseConfig(data []byte) (*Config, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal: %v", err)
	}
	if raw.Style.TimeoutSeconds < 0 {
		return nil, fmt.Errorf("style.timeout_seconds must not be negative")
	}
	config := &Config{Style: raw.Style}
	seen := make(map[string]bool)
	for i, r := range raw.Rules {
		rule, err := makeRule(r)
		if err != nil {
			return nil, fmt.Errorf("rule #%d (%s): %v", i+1, r.ID, err)
		}
		if seen[rule.ID] {
			glog.Warningf("duplicate rule id %s", rule.ID)
		}
		seen[rule.ID] = true
		config.Rules = append(config.Rules, rule)
	}
	return config, nil
}

func makeRule(r rawRule) (*Rule, error) {
	if r.ID == "" {
		return nil, fmt.Errorf("missing id")
	}
	if r.Check == "" {
		return nil, fmt.Errorf("missing check")
	}
	scope, err := ParseScope(r.Scope)
	if err != nil {
		return nil, err
	}
	check, err := ParseCheck(r.Check)
	if err != nil {
		return nil, err
	}
	rule := &Rule{
		ID:        r.ID,
		Scope:     scope,
		Check:     check,
		Severity:  r.Severity,
		Reference: r.Reference,
		Guidance:  r.Guidance,
	}
	switch check {
	case CheckNamePattern:
		re, err := compileNamePattern(r.Pattern)
		if err != nil {
			return nil, err
		}
		rule.Params = &NamePatternParams{Pattern: re, Source: r.Pattern}
	case CheckGlobalNaming:
		re, err := compileNamePattern(r.Pattern)
		if err != nil {
			return nil, err
		}
		rule.Params = &GlobalNamingParams{Pattern: re, Source: r.Pattern, NonStaticOnly: r.NonStaticOnly}
	case CheckMaxFunctionLength:
		n, err := limit("max_lines", r.MaxLines, DefaultMaxLines)
		if err != nil {
			return nil, err
		}
		rule.Params = &MaxFunctionLengthParams{MaxLines: n}
	case CheckMaxParameterCount:
		n, err := limit("max_parameters", r.MaxParameters, DefaultMaxParameters)
		if err != nil {
			return nil, err
		}
		rule.Params = &MaxParameterCountParams{MaxParameters: n}
	case CheckForbiddenCalls:
		rule.Params = &ForbiddenCallsParams{Functions: r.Functions}
	case CheckFileHeaderContains:
		rule.Params = &FileHeaderContainsParams{RequiredLines: r.RequiredLines}
	case CheckCyclomaticComplexity:
		n, err := limit("max_cc", r.MaxCC, DefaultMaxCC)
		if err != nil {
			return nil, err
		}
		rule.Params = &CyclomaticComplexityParams{MaxCC: n}
	case CheckMaxNestingDepth:
		n, err := limit("max_depth", r.MaxDepth, DefaultMaxDepth)
		if err != nil {
			return nil, err
		}
		rule.Params = &MaxNestingDepthParams{MaxDepth: n}
	case CheckMagicNumber:
		values, err := ignoreValues(r.IgnoreValues)
		if err != nil {
			return nil, err
		}
		allow := true
		if r.AllowInEnum != nil {
			allow = *r.AllowInEnum
		}
		rule.Params = &MagicNumberParams{IgnoreValues: values, AllowInEnum: allow}
	}
	return rule, nil
}

func limit(key string, value *int, def int) (int, error) {
	if value == nil {
		return def, nil
	}
	if *value < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %d", key, *value)
	}
	return *value, nil
}

// ignoreValues accepts YAML integers, floats and numeric strings
// (including hexadecimal ones such as "0xFF").
func ignoreValues(raw []interface{}) ([]float64, error) {
	values := make([]float64, 0, len(raw))
	for _, v := range raw {
		switch n := v.(type) {
		case int:
			values = append(values, float64(n))
		case int64:
			values = append(values, float64(n))
		case uint64:
			values = append(values, float64(n))
		case float64:
			values = append(values, n)
		case string:
			s := strings.TrimSpace(n)
			if i, err := strconv.ParseInt(s, 0, 64); err == nil {
				values = append(values, float64(i))
				continue
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("ignore_values: %q is not a number", n)
			}
			values = append(values, f)
		default:
			return nil, fmt.Errorf("ignore_values: %v is not a number", v)
		}
	}
	return values, nil
}
