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

// Package analyzer runs the rule set over C files: read, preprocess, parse,
// evaluate. Files are processed one after another.
package analyzer

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/golang/glog"
	"golang.org/x/text/message"
	"naive.systems/complyc/checkrule"
	"naive.systems/complyc/cparser"
	"naive.systems/complyc/cruleslib/basic"
	"naive.systems/complyc/cruleslib/stats"
	"naive.systems/complyc/engine"
	"naive.systems/complyc/preprocess"
	"naive.systems/complyc/results"
	"naive.systems/complyc/source"
)

type Analyzer struct {
	Config     *checkrule.Config
	Preprocess preprocess.Options
	// Dedupe drops repeated (file, line, message) violations of a file.
	Dedupe bool
}

// New resolves the preprocessing mode from the style section and the
// command-line overrides.
func New(config *checkrule.Config, useGCC, noGCC bool) (*Analyzer, error) {
	mode, err := preprocess.ParseMode(config.Style.Preprocessor)
	if err != nil {
		return nil, fmt.Errorf("analyzer.New: %v", err)
	}
	return &Analyzer{
		Config: config,
		Preprocess: preprocess.Options{
			Mode: preprocess.ResolveMode(mode, useGCC, noGCC),
			External: preprocess.ExternalOptions{
				Compiler:   config.Style.Compiler,
				Flags:      config.Style.CompilerFlags,
				IncludeDir: config.Style.IncludeDir,
				Timeout:    config.Style.Timeout(),
			},
		},
	}, nil
}

func (a *Analyzer) Mode() preprocess.Mode {
	return a.Preprocess.Mode
}

// AnalyzeFile runs the whole pipeline on one file. Tool, read and parse
// failures are returned; check faults are contained by the engine.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (results.FileResults, error) {
	text, err := source.Read(path, a.Config.Style.Charset)
	if err != nil {
		return results.FileResults{}, err
	}
	code, err := preprocess.Run(ctx, path, text.Code, a.Preprocess)
	if err != nil {
		return results.FileResults{}, err
	}
	tree, err := cparser.Parse(code, path)
	if err != nil {
		return results.FileResults{}, err
	}
	violations := engine.Run(tree, a.Config.Rules, path, text.Lines)
	glog.Infof("%s: %d nodes, %d violations", path, len(tree.Nodes), len(violations))
	if !a.Dedupe {
		return results.FileResults{File: path, Violations: violations}, nil
	}
	set := results.NewResultsSet(path)
	set.AddList(violations)
	return set.FileResults, nil
}

type RunOptions struct {
	Out     io.Writer
	Printer *message.Printer
	// Quiet suppresses the per-file listing.
	Quiet         bool
	ShowCode      bool
	CheckProgress bool
	// ResultsDir receives progress metadata when not empty.
	ResultsDir string
}

// Failure is a file the pipeline could not get through.
type Failure struct {
	File string
	Err  error
}

// Run analyzes files in order. Files that fail are reported on Out and left
// out of the report.
func (a *Analyzer) Run(ctx context.Context, files []string, opts RunOptions) (*results.Report, []Failure) {
	report := &results.Report{}
	var failures []Failure
	progress := basic.NewCheckingProcessPrinter(len(files))
	var code results.CodeFunc
	if opts.ShowCode {
		code = a.codeAround
	}
	for i, file := range files {
		if opts.CheckProgress {
			progress.StartAnalyzeTask(file, opts.Printer)
		}
		fr, err := a.AnalyzeFile(ctx, file)
		if err != nil {
			glog.Errorf("analyzing %s: %v", file, err)
			opts.Printer.Fprintf(opts.Out, "[ComplyC] Failed to analyze %s: %v\n", file, err)
			failures = append(failures, Failure{File: file, Err: err})
		} else {
			report.Add(fr.File, fr.Violations)
			if !opts.Quiet {
				results.PrintFileResults(opts.Out, opts.Printer, fr, code)
			}
		}
		if opts.CheckProgress {
			progress.FinishAnalyzeTask(file, len(fr.Violations), opts.Printer)
		}
		if opts.ResultsDir != "" {
			stats.WriteProgress(opts.ResultsDir, stats.AC, basic.GetPercentString(i+1, len(files)), progress.GetStartedAt())
		}
	}
	if opts.ResultsDir != "" {
		stats.WriteProgress(opts.ResultsDir, stats.END, "100%", progress.GetStartedAt())
	}
	return report, failures
}

func (a *Analyzer) codeAround(file string, line int) string {
	code, err := source.GetCode(file, line, a.Config.Style.Charset)
	if err != nil {
		glog.Warningf("source.GetCode(%s, %d): %v", file, line, err)
		return ""
	}
	return code
}

// ReportTag names a run after its files: the single basename, or all of
// them joined with "_And_".
func ReportTag(files []string) string {
	tag := ""
	for i, f := range files {
		base := filepath.Base(f)
		if i > 0 {
			tag += "_And_"
		}
		tag += base[:len(base)-len(filepath.Ext(base))]
	}
	return tag
}

func MakeTimestamp(t time.Time) string {
	return t.Format("20060102_150405")
}
