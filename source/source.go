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

// Package source reads C source files, decoding them from the configured
// charset into UTF-8.
package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Text is the decoded content of one source file. It is read once and not
// modified afterwards.
type Text struct {
	Path  string
	Code  string
	Lines []string
}

func isUTF8(charset string) bool {
	switch strings.ToLower(charset) {
	case "", "utf8", "utf-8":
		return true
	}
	return false
}

// decode converts b from charset to UTF-8. Unknown charsets are read as
// UTF-8.
func decode(b []byte, charset string) string {
	if isUTF8(charset) {
		return string(b)
	}
	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		glog.Warningf("ianaindex.MIME.Encoding(%s): %v, the charset is considered as UTF-8", charset, err)
		return string(b)
	}
	if e == nil {
		glog.Warningf("charset %s not supported, the charset is considered as UTF-8", charset)
		return string(b)
	}
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(b), e.NewDecoder()))
	if err != nil {
		glog.Warningf("failed to decode %s content, the charset is considered as UTF-8: %v", charset, err)
		return string(b)
	}
	return string(decoded)
}

// Read loads path and splits it into lines without their terminators.
func Read(path, charset string) (*Text, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source.Read: %v", err)
	}
	code := decode(b, charset)
	lines := strings.Split(strings.ReplaceAll(code, "\r\n", "\n"), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return &Text{Path: path, Code: code, Lines: lines}, nil
}

// GetCode returns lineNumber and the two lines around it on each side,
// the reported line marked with ">".
func GetCode(path string, lineNumber int, charset string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lower := lineNumber - 2
	upper := lineNumber + 2
	lineCount := 0
	var output strings.Builder
	for scanner.Scan() {
		lineCount++
		if lineCount < lower {
			continue
		} else if lineCount > upper {
			break
		}
		text := decode(scanner.Bytes(), charset)
		if lineCount == lineNumber {
			fmt.Fprintf(&output, "> %d| %s\n", lineCount, text)
		} else {
			fmt.Fprintf(&output, "%d| %s\n", lineCount, text)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return output.String(), nil
}
