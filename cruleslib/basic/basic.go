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
This package should not import any other complyc packages to avoid
recursive import.
*/
package basic

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/text/message"
)

// ErrTimedOut is wrapped by RunCaptured when the deadline kills the command.
var ErrTimedOut = errors.New("timed out")

// waitDelay bounds how long RunCaptured keeps reading the output pipes after
// the command was killed, in case a grandchild still holds them.
const waitDelay = time.Second

func PrintfWithTimeStamp(format string, arg ...any) {
	prefix := fmt.Sprintf("%v ", time.Now().Format("2006-01-02 15:04:05"))
	message := fmt.Sprintf(prefix+format, arg...)
	fmt.Println(message)
	glog.Info(message)
}

func GetPercentString(v1, v2 int) string {
	if v2 == 0 {
		return "100%"
	}
	percent := (int)((v1 * 100) / v2)
	return fmt.Sprintf("%d%%", percent)
}

func FormatTimeDuration(d time.Duration) string {
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond
	if ms == 0 {
		return fmt.Sprintf("%ds", s)
	}
	for ms%10 == 0 {
		ms = ms / 10
	}
	return fmt.Sprintf("%d.%ds", s, ms)
}

// print checking process serialized, goroutine safe
type CheckingProcessPrinter struct {
	mutex       sync.Mutex
	startedAt   time.Time
	timeElapsed map[string]time.Time
	started     int
	finished    int
	total       int
}

func NewCheckingProcessPrinter(total int) *CheckingProcessPrinter {
	return &CheckingProcessPrinter{
		total:       total,
		timeElapsed: make(map[string]time.Time),
		startedAt:   time.Now(),
	}
}

// Called before analyzing a file
func (c *CheckingProcessPrinter) StartAnalyzeTask(fileName string, printer *message.Printer) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.started++
	PrintfWithTimeStamp(printer.Sprintf("Start analyzing %s (%v/%v)", fileName, c.started, c.total))
	c.timeElapsed[fileName] = time.Now()
}

// Called after a file is analyzed
func (c *CheckingProcessPrinter) FinishAnalyzeTask(fileName string, violations int, printer *message.Printer) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	elapsed := time.Since(c.timeElapsed[fileName])
	c.finished++
	PrintfWithTimeStamp(printer.Sprintf("Analysis of %s completed with %v violations (%s, %v/%v) [%s]",
		fileName, violations, GetPercentString(c.finished, c.total), c.finished, c.total, FormatTimeDuration(elapsed)))
}

func (c *CheckingProcessPrinter) GetStartedAt() time.Time {
	return c.startedAt
}

// CapturedOutput keeps the two streams of a finished command apart.
type CapturedOutput struct {
	Stdout []byte
	Stderr []byte
}

// RunCaptured runs name with args and waits at most timeout for it. The
// command runs in its own process group, which is killed as a whole once the
// deadline passes; the returned error then wraps ErrTimedOut. A non-zero exit is reported as *exec.ExitError, the streams
// are returned in both cases.
func RunCaptured(ctx context.Context, timeout time.Duration, name string, args ...string) (CapturedOutput, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	killProcessGroupOnCancel(cmd)
	glog.Info("executing: ", cmd.String())
	err := cmd.Run()
	out := CapturedOutput{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return out, fmt.Errorf("%s %w: over %v", name, ErrTimedOut, timeout)
	}
	return out, err
}
