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

package testcase

import (
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"naive.systems/complyc/cruleslib/testlib"
	"naive.systems/complyc/results"
)

const ExpectedFile = "expected.json"

type TestCase struct {
	t      *testing.T
	Srcdir string
}

func New(t *testing.T, dirname string) TestCase {
	srcdir, err := filepath.Abs(dirname)
	if err != nil {
		t.Fatalf("filepath.Abs(%s): %v", dirname, err)
	}
	return TestCase{t, srcdir}
}

// Run analyzes the fixture with its own rule document.
func (tc *TestCase) Run() (*results.Report, error) {
	return testlib.RunCase(tc.Srcdir)
}

func (tc *TestCase) expectedEquals(actual *results.Report) bool {
	path := filepath.Join(tc.Srcdir, ExpectedFile)
	bytes, err := os.ReadFile(path)
	if err != nil {
		tc.t.Fatalf("os.ReadFile(%s): %v", path, err)
	}
	expected := &structpb.Struct{}
	err = protojson.Unmarshal(bytes, expected)
	if err != nil {
		tc.t.Fatalf("protojson.Unmarshal(%s): %v", path, err)
	}
	actualDoc, err := results.ToStruct(actual)
	if err != nil {
		tc.t.Fatalf("results.ToStruct: %v", err)
	}
	return proto.Equal(expected, actualDoc)
}

func (tc *TestCase) dumpReport(report *results.Report) {
	bytes, err := results.MarshalJSON(report)
	if err == nil {
		tc.t.Log(string(bytes))
	} else {
		tc.t.Errorf("results.MarshalJSON: %v", err)
	}
}

func (tc *TestCase) ExpectOK(actual *results.Report, err error) {
	if err != nil {
		tc.t.Fatalf("analysis returned error: %v", err)
	}
	if !tc.expectedEquals(actual) {
		tc.dumpReport(actual)
		tc.t.Fatal("analysis is expected to match " + ExpectedFile)
	}
}

func (tc *TestCase) ExpectFailure(actual *results.Report, err error) {
	if err != nil {
		tc.t.Fatalf("analysis returned error: %v", err)
	}
	if tc.expectedEquals(actual) {
		tc.dumpReport(actual)
		tc.t.Fatal("analysis is expected to differ from " + ExpectedFile)
	}
}

func (tc *TestCase) ExpectError(_ *results.Report, err error) {
	if err == nil {
		tc.t.Fatal("analysis is expected to return an error")
	}
	tc.t.Logf("analysis returned error: %v", err)
}
