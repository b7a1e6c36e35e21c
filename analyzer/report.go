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

package analyzer

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/golang/glog"
	"golang.org/x/text/message"
	"naive.systems/complyc/cruleslib/stats"
	"naive.systems/complyc/results"
	"naive.systems/complyc/utils"
)

const ResultsFile = "results"

type ReportOptions struct {
	Out     io.Writer
	Printer *message.Printer
	// JSONReport and HTMLReport are explicit paths. When both are empty,
	// timestamped reports are written to ReportsDir.
	JSONReport   string
	HTMLReport   string
	ReportsDir   string
	CleanReports bool
	// ResultsDir receives the binary results and run metadata when not
	// empty.
	ResultsDir string
	// LinesOfCode is written as metadata; negative means unknown.
	LinesOfCode int
	Now         time.Time
}

// ReportPaths returns the JSON and HTML report paths. Defaults are only
// used when neither path is given.
func ReportPaths(files []string, opts ReportOptions) (string, string) {
	if opts.JSONReport != "" || opts.HTMLReport != "" {
		return opts.JSONReport, opts.HTMLReport
	}
	name := fmt.Sprintf("complyc_report_%s_%s", ReportTag(files), MakeTimestamp(opts.Now))
	return filepath.Join(opts.ReportsDir, name+".json"), filepath.Join(opts.ReportsDir, name+".html")
}

// WriteReports writes every report the options ask for.
func WriteReports(report *results.Report, files []string, opts ReportOptions) error {
	if err := utils.EnsureDir(opts.ReportsDir); err != nil {
		return fmt.Errorf("analyzer.WriteReports: %v", err)
	}
	if opts.CleanReports {
		if err := utils.CleanReportsDir(opts.ReportsDir, nil); err != nil {
			opts.Printer.Fprintf(opts.Out, "[ComplyC] Could not delete %s: %v\n", opts.ReportsDir, err)
		} else {
			opts.Printer.Fprintf(opts.Out, "[ComplyC] Cleaned %s folder\n", filepath.ToSlash(opts.ReportsDir)+"/")
		}
	}

	results.AddID(report)
	jsonPath, htmlPath := ReportPaths(files, opts)
	if jsonPath != "" {
		if err := results.WriteJSONResults(report, jsonPath); err != nil {
			return err
		}
		opts.Printer.Fprintf(opts.Out, "[ComplyC] JSON report written to %s\n", jsonPath)
	}
	if htmlPath != "" {
		if err := results.WriteHTMLReport(report, htmlPath); err != nil {
			return err
		}
		opts.Printer.Fprintf(opts.Out, "[ComplyC] HTML report written to %s\n", htmlPath)
	}

	if opts.ResultsDir == "" {
		return nil
	}
	if err := utils.EnsureDir(opts.ResultsDir); err != nil {
		return fmt.Errorf("analyzer.WriteReports: %v", err)
	}
	resultsPath := filepath.Join(opts.ResultsDir, ResultsFile)
	if err := results.WriteResults(report, resultsPath); err != nil {
		return err
	}
	opts.Printer.Fprintf(opts.Out, "[ComplyC] Results written to %s\n", resultsPath)
	if opts.LinesOfCode >= 0 {
		stats.WriteLOC(opts.ResultsDir, opts.LinesOfCode)
	}
	stats.CountSeverityAndWrite(report.Summary(), opts.ResultsDir)
	glog.Infof("metadata written to %s", opts.ResultsDir)
	return nil
}
