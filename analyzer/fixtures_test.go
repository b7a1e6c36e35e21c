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

package analyzer_test

import (
	"testing"

	"naive.systems/complyc/sdk/testcase"
)

func TestFixtures(t *testing.T) {
	for _, dirname := range []string{"testdata/metrics", "testdata/naming"} {
		t.Run(dirname, func(t *testing.T) {
			tc := testcase.New(t, dirname)
			tc.ExpectOK(tc.Run())
		})
	}
}

// expected.json of testdata/ignored lists the literal that ignore_values
// suppresses, so the analysis must not reproduce it.
func TestFixtureIgnoredValues(t *testing.T) {
	tc := testcase.New(t, "testdata/ignored")
	tc.ExpectFailure(tc.Run())
}

func TestFixtureParseError(t *testing.T) {
	tc := testcase.New(t, "testdata/parse_error")
	tc.ExpectError(tc.Run())
}
