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

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "main.c")
	other := filepath.Join(dir, "notes.txt")
	for _, path := range []string{watched, other} {
		if err := os.WriteFile(path, []byte("int x;\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan string, 10)
	done := make(chan error, 1)
	go func() {
		done <- watchFiles(ctx, []string{watched}, 150*time.Millisecond, func(changed string) {
			changes <- changed
		})
	}()

	// give the watcher time to register the directory
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(other, []byte("ignored\n"), 0644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(watched, []byte("int y;\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case changed := <-changes:
		if filepath.Base(changed) != "main.c" {
			t.Errorf("unexpected changed file %s", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no re-run after the watched file changed")
	}
	select {
	case changed := <-changes:
		t.Errorf("burst of writes must re-run once, got another run for %s", changed)
	case <-time.After(500 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watchFiles: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watchFiles did not return after cancel")
	}
}

func TestWatchFilesMissingDir(t *testing.T) {
	err := watchFiles(context.Background(), []string{filepath.Join(t.TempDir(), "gone", "a.c")}, time.Millisecond, func(string) {})
	if err == nil {
		t.Error("expected an error for a missing directory")
	}
}
