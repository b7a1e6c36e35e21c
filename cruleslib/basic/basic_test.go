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

package basic

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"
	"time"
)

func TestGetPercentString(t *testing.T) {
	for _, testCase := range [...]struct {
		v1, v2   int
		expected string
	}{
		{1, 3, "33%"},
		{3, 3, "100%"},
		{0, 0, "100%"},
	} {
		if got := GetPercentString(testCase.v1, testCase.v2); got != testCase.expected {
			t.Errorf("unexpected result for %v/%v. got: %v. expected: %v.", testCase.v1, testCase.v2, got, testCase.expected)
		}
	}
}

func TestFormatTimeDuration(t *testing.T) {
	for _, testCase := range [...]struct {
		d        time.Duration
		expected string
	}{
		{2 * time.Second, "2s"},
		{1500 * time.Millisecond, "1.5s"},
		{1230 * time.Millisecond, "1.23s"},
	} {
		if got := FormatTimeDuration(testCase.d); got != testCase.expected {
			t.Errorf("unexpected result for %v. got: %v. expected: %v.", testCase.d, got, testCase.expected)
		}
	}
}

func TestRunCaptured(t *testing.T) {
	out, err := RunCaptured(context.Background(), time.Minute, "sh", "-c", "echo out; echo err >&2")
	if err != nil {
		t.Fatalf("RunCaptured: %v", err)
	}
	if string(out.Stdout) != "out\n" || string(out.Stderr) != "err\n" {
		t.Errorf("unexpected streams %q %q", out.Stdout, out.Stderr)
	}

	_, err = RunCaptured(context.Background(), time.Minute, "sh", "-c", "exit 3")
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 3 {
		t.Errorf("expected exit status 3, got %v", err)
	}

	_, err = RunCaptured(context.Background(), 100*time.Millisecond, "sleep", "5")
	if !errors.Is(err, ErrTimedOut) {
		t.Errorf("expected a timeout, got %v", err)
	}
}

func TestRunCapturedKillsChildren(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs /bin/sh")
	}
	// sh forks sleep instead of exec'ing it, so the grandchild holds the
	// output pipes after sh itself is killed.
	start := time.Now()
	_, err := RunCaptured(context.Background(), 100*time.Millisecond, "sh", "-c", "sleep 5; echo done")
	elapsed := time.Since(start)
	if !errors.Is(err, ErrTimedOut) {
		t.Errorf("expected a timeout, got %v", err)
	}
	if elapsed >= waitDelay {
		t.Errorf("RunCaptured returned after %v, the process group was not killed", elapsed)
	}
}
