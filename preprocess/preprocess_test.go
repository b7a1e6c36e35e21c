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
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"naive.systems/complyc/cparser"
	"naive.systems/complyc/cruleslib/basic"
)

const sample = `#include <stdint.h>
#define MAX(a, b) \
    ((a) > (b) ? (a) : (b))
/* block
   comment */
uint8_t counter; // trailing
int main(void)
{
    return 0; /* inline */
}
`

func TestBuiltinKeepsLineNumbers(t *testing.T) {
	out := Builtin(sample)
	if got, expected := strings.Count(out, "\n"), strings.Count(sample, "\n"); got != expected {
		t.Fatalf("unexpected line count. got: %v. expected: %v.", got, expected)
	}
	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[0], "typedef signed char int8_t;") {
		t.Errorf("typedef prelude missing from first line: %q", lines[0])
	}
	for i, line := range lines {
		if strings.Contains(line, "#") || strings.Contains(line, "comment") || strings.Contains(line, "MAX") {
			t.Errorf("line %d still has preprocessor or comment text: %q", i+1, line)
		}
	}
	if strings.TrimSpace(lines[5]) != "uint8_t counter;" {
		t.Errorf("unexpected line 6: %q", lines[5])
	}

	tree, err := cparser.Parse(out, "sample.c")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var mainLine int
	for _, id := range tree.Children(tree.Root) {
		if tree.Node(tree.Child(id, 0)).Name == "main" {
			mainLine = tree.Line(id)
		}
	}
	if mainLine != 7 {
		t.Errorf("unexpected line of main. got: %v. expected: 7.", mainLine)
	}
}

func TestStripComments(t *testing.T) {
	for _, testCase := range [...]struct {
		name     string
		in       string
		expected string
	}{
		{"line", "a; // x\nb;", "a;  \nb;"},
		{"block", "a/**/b", "a b"},
		{"multiline", "a /* 1\n2\n3 */ b", "a \n\n b"},
		// Comment markers inside literals are not special-cased.
		{"in string", `s = "http://x";`, `s = "http: `},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			if got := StripComments(testCase.in); got != testCase.expected {
				t.Errorf("unexpected result for %q. got: %q. expected: %q.", testCase.in, got, testCase.expected)
			}
		})
	}
}

func TestStripDirectives(t *testing.T) {
	in := "  # define A \\\n   1 \\\n   2\nint x;\n#pragma once\n"
	expected := "\n\n\nint x;\n\n"
	if got := StripDirectives(in); got != expected {
		t.Errorf("unexpected result. got: %q. expected: %q.", got, expected)
	}
}

func TestSanitize(t *testing.T) {
	for _, testCase := range [...]struct {
		name     string
		in       string
		expected string
	}{
		{
			name:     "builtin va list",
			in:       "typedef __builtin_va_list __gnuc_va_list;\nint x;",
			expected: "int x;",
		},
		{
			name:     "inline attribute",
			in:       "int f(void) __attribute__((noreturn));\nint y;",
			expected: "int f(void)  ;\nint y;",
		},
		{
			name:     "reserved struct",
			in:       "struct __pthread {\n  int a;\n} ;\nint z;",
			expected: "int z;",
		},
		{
			name:     "reserved typedef",
			in:       "typedef unsigned int __u32;\nunsigned v;",
			expected: "unsigned v;",
		},
		{
			name:     "restrict line",
			in:       "char *strcpy(char *__restrict d, const char *s);\nint w;",
			expected: "int w;",
		},
		{
			name:     "leftover token",
			in:       "extern int __const_marker x;\n__nothrow\n);",
			expected: "extern int  x;\n);",
		},
		{
			name:     "plain code untouched",
			in:       "int main(void)\n{\n    return 0;\n}",
			expected: "int main(void)\n{\n    return 0;\n}",
		},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			if got := Sanitize(testCase.in); got != testCase.expected {
				t.Errorf("unexpected result. got: %q. expected: %q.", got, testCase.expected)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	for _, testCase := range [...]struct {
		in       string
		expected Mode
		wantErr  bool
	}{
		{"", ModeBuiltin, false},
		{"builtin", ModeBuiltin, false},
		{"GCC", ModeExternal, false},
		{"clang-tidy", ModeBuiltin, true},
	} {
		got, err := ParseMode(testCase.in)
		if (err != nil) != testCase.wantErr || got != testCase.expected {
			t.Errorf("unexpected result for %q. got: %v, %v. expected: %v.", testCase.in, got, err, testCase.expected)
		}
	}
	if ResolveMode(ModeBuiltin, true, true) != ModeExternal {
		t.Errorf("-use_gcc must win")
	}
	if ResolveMode(ModeExternal, false, true) != ModeBuiltin {
		t.Errorf("-no_gcc must override the configured mode")
	}
	if ResolveMode(ModeExternal, false, false) != ModeExternal {
		t.Errorf("configured mode must be kept without overrides")
	}
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

// The fake compiler copies the input to the -o target, dropping directives,
// and echoes the include directory it got so the test can check it.
const fakeCompiler = `in=""; out=""; prev=""; inc=""
for a in "$@"; do
  if [ "$prev" = "-o" ]; then out="$a"; fi
  if [ "$prev" = "-I" ]; then inc="$a"; fi
  case "$a" in *.c) in="$a";; esac
  prev="$a"
done
[ -f "$inc/stdint.h" ] || { echo "missing headers in $inc" >&2; exit 2; }
grep -v '^#' "$in" > "$out"
`

func TestExternal(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs /bin/sh")
	}
	work := t.TempDir()
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	src := filepath.Join(work, "input.c")
	if err := os.WriteFile(src, []byte("#include <stdint.h>\nstatic int __attribute__((unused)) x;\nint y;\n"), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	compiler := writeScript(t, work, "fakecc", fakeCompiler)

	out, err := External(context.Background(), src, ExternalOptions{Compiler: compiler, Flags: `-DNAME="a b"`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, typedefPrelude) {
		t.Errorf("typedef prelude missing: %q", out)
	}
	if strings.Contains(out, "__attribute__") || !strings.Contains(out, "int y;") {
		t.Errorf("unexpected sanitized output: %q", out)
	}
	if _, err := cparser.Parse(out, src); err != nil {
		t.Errorf("sanitized output does not parse: %v", err)
	}
	assertEmptyDir(t, tmp)
}

func TestExternalFailures(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs /bin/sh")
	}
	work := t.TempDir()
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)
	src := filepath.Join(work, "input.c")
	if err := os.WriteFile(src, []byte("int x;\n"), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("not found", func(t *testing.T) {
		_, err := External(context.Background(), src, ExternalOptions{Compiler: "complyc-no-such-cc"})
		var notFound *ToolNotFoundError
		if !errors.As(err, &notFound) || notFound.Tool != "complyc-no-such-cc" {
			t.Errorf("expected ToolNotFoundError, got %v", err)
		}
	})

	t.Run("exit status", func(t *testing.T) {
		compiler := writeScript(t, work, "badcc", "echo out; echo boom >&2; exit 3\n")
		_, err := External(context.Background(), src, ExternalOptions{Compiler: compiler})
		var failed *ToolFailedError
		if !errors.As(err, &failed) {
			t.Fatalf("expected ToolFailedError, got %v", err)
		}
		if !strings.Contains(failed.Stderr, "boom") || !strings.Contains(failed.Stdout, "out") || !strings.Contains(failed.Command, src) {
			t.Errorf("unexpected failure detail %+v", failed)
		}
		assertEmptyDir(t, tmp)
	})

	t.Run("timeout", func(t *testing.T) {
		// Like gcc driving cc1, the script waits on a child of its own.
		compiler := writeScript(t, work, "slowcc", "sleep 5\n")
		start := time.Now()
		_, err := External(context.Background(), src, ExternalOptions{Compiler: compiler, Timeout: 100 * time.Millisecond})
		var failed *ToolFailedError
		if !errors.As(err, &failed) || !errors.Is(err, basic.ErrTimedOut) {
			t.Errorf("expected timeout failure, got %v", err)
		}
		if elapsed := time.Since(start); elapsed > 2*time.Second {
			t.Errorf("timeout not enforced, External returned after %v", elapsed)
		}
		assertEmptyDir(t, tmp)
	})

	t.Run("bad flags", func(t *testing.T) {
		compiler := writeScript(t, work, "okcc", fakeCompiler)
		if _, err := External(context.Background(), src, ExternalOptions{Compiler: compiler, Flags: `-D"unterminated`}); err == nil {
			t.Errorf("expected an error for unbalanced quotes")
		}
	})
}

func TestMaterializeHeaders(t *testing.T) {
	dir, err := materializeHeaders()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.RemoveAll(dir)
	for _, name := range []string{"_fake_defines.h", "_fake_typedefs.h", "stdio.h", "unistd.h", "sys/types.h", "sys/stat.h", "netinet/in.h"} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name))); err != nil {
			t.Errorf("bundled header %s missing: %v", name, err)
		}
	}
}

func TestExternalSystemHeaders(t *testing.T) {
	if _, err := exec.LookPath(DefaultCompiler); err != nil {
		t.Skipf("%s not installed", DefaultCompiler)
	}
	work := t.TempDir()
	for _, testCase := range [...]struct {
		header string
		use    string
	}{
		{"stdio.h", "FILE *fp;"},
		{"ctype.h", ""},
		{"sys/types.h", "off_t offset; pid_t child;"},
		{"unistd.h", "ssize_t n;"},
		{"fcntl.h", "struct flock lock;"},
		{"sys/stat.h", "struct stat st;"},
		{"pthread.h", "pthread_mutex_t lock = PTHREAD_MUTEX_INITIALIZER;"},
		{"sys/time.h", "struct timeval tv;"},
		{"sys/socket.h", "socklen_t len;"},
		{"netinet/in.h", "struct sockaddr_in addr;"},
		{"arpa/inet.h", ""},
		{"dirent.h", "DIR *dir;"},
		{"signal.h", "sig_atomic_t flag;"},
		{"semaphore.h", "sem_t sem;"},
		{"poll.h", "struct pollfd fds[2];"},
	} {
		t.Run(testCase.header, func(t *testing.T) {
			src := filepath.Join(work, strings.NewReplacer("/", "_", ".", "_").Replace(testCase.header)+".c")
			code := "#include <" + testCase.header + ">\n" + testCase.use + "\nint g_x;\nint main(void){return 0;}\n"
			if err := os.WriteFile(src, []byte(code), 0644); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			out, err := External(context.Background(), src, ExternalOptions{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, err := cparser.Parse(out, src); err != nil {
				t.Errorf("preprocessed %s does not parse: %v", testCase.header, err)
			}
		})
	}
}
