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

package preprocess

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/google/shlex"
	"naive.systems/complyc/cruleslib/basic"
	"naive.systems/complyc/utils"
)

const (
	DefaultCompiler = "gcc"
	DefaultTimeout  = 60 * time.Second
)

//go:embed all:fake_libc
var fakeLibc embed.FS

type ExternalOptions struct {
	// Compiler driver used as "<Compiler> -E -P". Defaults to gcc.
	Compiler string
	// Flags is a shell-quoted string of extra arguments, e.g. "-DDEBUG -I inc".
	Flags string
	// IncludeDir replaces the bundled stand-in system headers.
	IncludeDir string
	Timeout    time.Duration
}

// ToolNotFoundError means the external preprocessor is not installed.
type ToolNotFoundError struct {
	Tool string
	Err  error
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("C preprocessor %q not found (%v); install it, point style.compiler at it, or use the builtin preprocessor with -no_gcc", e.Tool, e.Err)
}

func (e *ToolNotFoundError) Unwrap() error {
	return e.Err
}

// ToolFailedError means the external preprocessor ran and failed or timed out.
type ToolFailedError struct {
	Command string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *ToolFailedError) Error() string {
	return fmt.Sprintf("executing %s: %v\nstdout:\n%s\nstderr:\n%s", e.Command, e.Err, e.Stdout, e.Stderr)
}

func (e *ToolFailedError) Unwrap() error {
	return e.Err
}

// External runs the C preprocessor on path and returns its output with the
// typedef prelude injected and sanitized.
func External(ctx context.Context, path string, opts ExternalOptions) (string, error) {
	compiler := opts.Compiler
	if compiler == "" {
		compiler = DefaultCompiler
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	bin, err := utils.ResolveBinaryPath(compiler)
	if err != nil {
		return "", &ToolNotFoundError{Tool: compiler, Err: err}
	}
	flags, err := shlex.Split(opts.Flags)
	if err != nil {
		return "", fmt.Errorf("preprocess.External: invalid compiler flags %q: %v", opts.Flags, err)
	}

	includeDir := opts.IncludeDir
	if includeDir == "" {
		includeDir, err = materializeHeaders()
		if err != nil {
			return "", err
		}
		defer os.RemoveAll(includeDir)
	}

	out, err := os.CreateTemp("", "complyc-*.i")
	if err != nil {
		return "", fmt.Errorf("os.CreateTemp: %v", err)
	}
	outPath := out.Name()
	defer os.Remove(outPath)
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %v", outPath, err)
	}

	args := []string{"-E", "-P", "-I", includeDir}
	args = append(args, flags...)
	args = append(args, path, "-o", outPath)
	captured, err := basic.RunCaptured(ctx, timeout, bin, args...)
	if err != nil {
		return "", &ToolFailedError{
			Command: bin + " " + strings.Join(args, " "),
			Stdout:  string(captured.Stdout),
			Stderr:  string(captured.Stderr),
			Err:     err,
		}
	}
	if len(captured.Stderr) > 0 {
		glog.Warningf("%s preprocessing %s reported:\n%s", compiler, path, captured.Stderr)
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile: %v", err)
	}
	// Line numbers are already lost with -P, so the prelude gets a line of
	// its own and cannot be dropped together with a sanitized first line.
	return Sanitize(InjectTypedefs("\n" + string(content))), nil
}

// materializeHeaders copies the embedded stand-in headers into a fresh
// temporary directory. The caller removes it.
func materializeHeaders() (string, error) {
	dir, err := os.MkdirTemp("", "complyc-include-")
	if err != nil {
		return "", fmt.Errorf("os.MkdirTemp: %v", err)
	}
	err = fs.WalkDir(fakeLibc, "fake_libc", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fakeLibc.ReadFile(path)
		if err != nil {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(path, "fake_libc/")))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		return os.WriteFile(target, data, 0644)
	})
	if err != nil {
		os.RemoveAll(dir)
		return "", fmt.Errorf("writing bundled headers: %v", err)
	}
	return dir, nil
}
