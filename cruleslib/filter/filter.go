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

/*
This package should not import any other complyc packages to
avoid recursive import.
*/
package filter

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/golang/glog"
)

var KSupportSuffixs = []string{"c", "h"}

func IsCFile(path string) bool {
	for _, suffix := range KSupportSuffixs {
		if strings.HasSuffix(path, "."+suffix) {
			return true
		}
	}
	return false
}

// MatchIgnorePatterns reports whether path matches any of the doublestar
// patterns. Malformed patterns are logged and never match.
func MatchIgnorePatterns(path string, patterns []string) bool {
	path = filepath.ToSlash(filepath.Clean(path))
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			glog.Error("malformed ignore pattern ", pattern)
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// SelectFiles drops the paths matching an ignore pattern and keeps the rest
// in order. Files without a C suffix are kept with a warning.
func SelectFiles(paths []string, ignorePatterns []string) []string {
	selected := make([]string, 0, len(paths))
	for _, path := range paths {
		if MatchIgnorePatterns(path, ignorePatterns) {
			glog.Infof("skipping %s: matches an ignore pattern", path)
			continue
		}
		if !IsCFile(path) {
			glog.Warningf("%s does not look like a C file", path)
		}
		selected = append(selected, path)
	}
	return selected
}

// ValidatePatterns returns the patterns doublestar cannot parse.
func ValidatePatterns(patterns []string) []string {
	var invalid []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			invalid = append(invalid, pattern)
		}
	}
	return invalid
}
