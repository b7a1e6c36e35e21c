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

// Package stats writes the run metadata files next to the results: lines of
// code, progress and violation counts per severity.
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/golang/glog"
	"github.com/hhatto/gocloc"
	"naive.systems/complyc/atomic"
	"naive.systems/complyc/cruleslib/filter"
	"naive.systems/complyc/results"
)

const (
	LOCFile      = "loc.nsa_metadata"
	ProgressFile = "progress.nsa_metadata"
	SeverityFile = "severity_stats.nsa_metadata"
)

// analysis stages
const (
	PP    int = iota // Pre-processing
	PARSE            // Parsing
	AC               // Analysis check
	END
)

var countLangs = []string{"C", "C Header"}

type Progress struct {
	StageID   int       `json:"stage_id"`
	DoneRatio string    `json:"done_ratio"`
	StartedAt time.Time `json:"started_at"`
}

type LineCount struct {
	Code  int
	Files int
}

// CountCodeLines counts the code lines (no blanks, no comments) of the C
// sources under paths. Paths may be files or directories; files matching an
// ignore pattern are left out.
func CountCodeLines(paths []string, ignorePatterns []string) (LineCount, error) {
	clocOpts := gocloc.NewClocOptions()
	languages := gocloc.NewDefinedLanguages()
	for _, lang := range countLangs {
		if _, exists := languages.Langs[lang]; exists {
			clocOpts.IncludeLangs[lang] = struct{}{}
		}
	}
	processor := gocloc.NewProcessor(languages, clocOpts)
	result, err := processor.Analyze(paths)
	if err != nil {
		return LineCount{}, fmt.Errorf("gocloc: %v", err)
	}
	var count LineCount
	for _, file := range result.Files {
		if filter.MatchIgnorePatterns(file.Name, ignorePatterns) {
			continue
		}
		count.Code += int(file.Code)
		count.Files++
	}
	return count, nil
}

func WriteLOC(resultDir string, linesCounter int) {
	path := filepath.Join(resultDir, LOCFile)
	err := atomic.Write(path, []byte(strconv.Itoa(linesCounter)))
	if err != nil {
		glog.Errorf("failed to write to file %s: %v", path, err)
	}
}

func WriteProgress(resultDir string, stageID int, doneRatio string, startedAt time.Time) {
	// skip writing it if resultDir does not exist
	_, err := os.Stat(resultDir)
	if os.IsNotExist(err) {
		glog.Warningf("result dir %s does not exist", resultDir)
		return
	}
	path := filepath.Join(resultDir, ProgressFile)
	progress, err := json.Marshal(Progress{StageID: stageID, DoneRatio: doneRatio, StartedAt: startedAt})
	if err != nil {
		glog.Errorf("failed to marshal json stageID %d and doneRatio %s: %v", stageID, doneRatio, err)
		return
	}
	err = atomic.Write(path, progress)
	if err != nil {
		glog.Errorf("failed to write to file %s: %v", path, err)
	}
}

// GetSeverityCountBytes encodes the folded severity counts as a JSON object
// keyed by lowercase severity.
func GetSeverityCountBytes(summary results.Summary) ([]byte, error) {
	cnt := make(map[string]int)
	for _, sc := range summary.FoldedSeverities() {
		cnt[sc.Severity] = sc.Count
	}
	statsBytes, err := json.Marshal(cnt)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %v", err)
	}
	return statsBytes, nil
}

func CountSeverityAndWrite(summary results.Summary, resultDir string) {
	statsBytes, err := GetSeverityCountBytes(summary)
	if err != nil {
		glog.Errorf("failed to get severity count bytes: %v", err)
		return
	}
	statsFile := filepath.Join(resultDir, SeverityFile)
	err = atomic.Write(statsFile, statsBytes)
	if err != nil {
		glog.Errorf("failed to write to file %s: %v", statsFile, err)
	}
}
