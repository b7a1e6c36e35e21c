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

package options

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
	"naive.systems/complyc/cruleslib/filter"
	"naive.systems/complyc/cruleslib/i18n"
)

// CheckOptions validates the parsed flags together with the positional
// file arguments.
func CheckOptions(sharedOptions *SharedOptions, files []string) error {
	if sharedOptions.GetRules() == "" {
		return fmt.Errorf("-rules is required")
	}
	if len(files) == 0 {
		return fmt.Errorf("no C source files given")
	}
	if !i18n.IsSupported(sharedOptions.GetLang()) {
		return fmt.Errorf("unsupported language: %v", sharedOptions.GetLang())
	}
	if invalid := filter.ValidatePatterns(sharedOptions.GetIgnorePatterns()); len(invalid) > 0 {
		return fmt.Errorf("malformed ignore patterns: %s", strings.Join(invalid, ", "))
	}
	if sharedOptions.GetUseGCC() && sharedOptions.GetNoGCC() {
		glog.Warning("both -use_gcc and -no_gcc given, -use_gcc wins")
	}
	return nil
}
