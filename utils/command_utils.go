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

package utils

import (
	"bufio"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/golang/glog"
)

// Returns the lines of stdout of a command as string.
func GetCommandStdoutLines(cmd *exec.Cmd, workingDir string) ([]string, error) {
	var stdLogs []string
	if workingDir != "" {
		cmd.Dir = workingDir
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("cmd.StdoutPipe: %v", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("cmd.Start: %v", err)
	}
	in := bufio.NewScanner(stdout)
	for in.Scan() {
		stdLogs = append(stdLogs, in.Text())
	}
	if err := in.Err(); err != nil {
		return stdLogs, fmt.Errorf("bufio.NewScanner: %v", err)
	}
	if err := cmd.Wait(); err != nil {
		return stdLogs, fmt.Errorf("cmd.Wait: %v", err)
	}
	return stdLogs, nil
}

var compilerVersionPattern = regexp.MustCompile(`(?:gcc|clang|cc)(?: \([^)]*\))? version ([^\s]+)|\) ([0-9]+\.[0-9.]+)`)

// GetCompilerVersion returns the version reported by "<compilerBin> --version",
// or "" when it cannot be determined.
func GetCompilerVersion(compilerBin string) string {
	stdoutLines, err := GetCommandStdoutLines(exec.Command(compilerBin, "--version"), "")
	if err != nil {
		glog.Errorf("GetCommandStdoutLines: %v", err)
		return ""
	}
	result := compilerVersionPattern.FindStringSubmatch(strings.Join(stdoutLines, " "))
	if result == nil {
		return ""
	}
	if result[1] != "" {
		return result[1]
	}
	return result[2]
}
