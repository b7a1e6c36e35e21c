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

// Package preprocess turns raw C source into text the parser accepts, either
// with a built-in strip-and-inject pass or with the system C preprocessor.
// Both modes leave no directive lines behind.
package preprocess

import (
	"context"
	"fmt"
	"strings"
)

type Mode int

const (
	ModeBuiltin Mode = iota
	ModeExternal
)

func (m Mode) String() string {
	if m == ModeExternal {
		return "gcc"
	}
	return "builtin"
}

// Describe is the operator-facing name of the mode.
func (m Mode) Describe() string {
	if m == ModeExternal {
		return "GCC (-E -P)"
	}
	return "builtin regex stripper"
}

// ParseMode reads the style.preprocessor setting. An empty value selects the
// builtin mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "builtin":
		return ModeBuiltin, nil
	case "gcc", "external":
		return ModeExternal, nil
	}
	return ModeBuiltin, fmt.Errorf("unknown preprocessor %q, want builtin or gcc", s)
}

// ResolveMode applies the command-line overrides; useGCC wins over noGCC.
func ResolveMode(configured Mode, useGCC, noGCC bool) Mode {
	switch {
	case useGCC:
		return ModeExternal
	case noGCC:
		return ModeBuiltin
	}
	return configured
}

type Options struct {
	Mode     Mode
	External ExternalOptions
}

// Run preprocesses one file. code is the decoded content of path; the
// external mode reads path itself.
func Run(ctx context.Context, path, code string, opts Options) (string, error) {
	if opts.Mode == ModeExternal {
		return External(ctx, path, opts.External)
	}
	return Builtin(code), nil
}
