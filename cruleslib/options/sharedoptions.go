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

package options

import (
	"flag"
)

type ArrayFlags []string

func (i *ArrayFlags) String() string {
	return "array flags"
}

func (i *ArrayFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}

type SharedOptions struct {
	CheckProgress  *bool
	CleanReports   *bool
	DebugMode      *bool
	Dedupe         *bool
	HTMLReport     *string
	IgnorePatterns ArrayFlags
	JSONReport     *string
	Lang           *string
	NoGCC          *bool
	Quiet          *bool
	ReportsDir     *string
	ResultsDir     *string
	Rules          *string
	ShowCode       *bool
	UseGCC         *bool
	Watch          *bool
}

func (s SharedOptions) GetCheckProgress() bool {
	return *s.CheckProgress
}

func (s SharedOptions) GetCleanReports() bool {
	return *s.CleanReports
}

func (s SharedOptions) GetDebugMode() bool {
	return *s.DebugMode
}

func (s SharedOptions) GetDedupe() bool {
	return *s.Dedupe
}

func (s SharedOptions) GetHTMLReport() string {
	return *s.HTMLReport
}

func (s SharedOptions) GetIgnorePatterns() ArrayFlags {
	return s.IgnorePatterns
}

func (s SharedOptions) GetJSONReport() string {
	return *s.JSONReport
}

func (s SharedOptions) GetLang() string {
	return *s.Lang
}

func (s SharedOptions) GetNoGCC() bool {
	return *s.NoGCC
}

func (s SharedOptions) GetQuiet() bool {
	return *s.Quiet
}

func (s SharedOptions) GetReportsDir() string {
	return *s.ReportsDir
}

func (s SharedOptions) GetResultsDir() string {
	return *s.ResultsDir
}

func (s SharedOptions) GetRules() string {
	return *s.Rules
}

func (s SharedOptions) GetShowCode() bool {
	return *s.ShowCode
}

func (s SharedOptions) GetUseGCC() bool {
	return *s.UseGCC
}

func (s SharedOptions) GetWatch() bool {
	return *s.Watch
}

type DefaultOptionValues struct {
	CheckProgress  bool
	CleanReports   bool
	DebugMode      bool
	Dedupe         bool
	HTMLReport     string
	IgnorePatterns ArrayFlags
	JSONReport     string
	Lang           string
	NoGCC          bool
	Quiet          bool
	ReportsDir     string
	ResultsDir     string
	Rules          string
	ShowCode       bool
	UseGCC         bool
	Watch          bool
}

var Defaults = DefaultOptionValues{
	CheckProgress:  false,
	CleanReports:   false,
	DebugMode:      false,
	Dedupe:         false,
	HTMLReport:     "",
	IgnorePatterns: nil,
	JSONReport:     "",
	Lang:           "en",
	NoGCC:          false,
	Quiet:          false,
	ReportsDir:     "reports",
	ResultsDir:     "",
	Rules:          "",
	ShowCode:       false,
	UseGCC:         false,
	Watch:          false,
}

// NewSharedOptions registers the flags on fs. Pass flag.CommandLine from
// main.
func NewSharedOptions(fs *flag.FlagSet) *SharedOptions {
	option := &SharedOptions{}

	option.CheckProgress = fs.Bool("check_progress", Defaults.CheckProgress, "Show the checking progress")
	option.CleanReports = fs.Bool("clean_reports", Defaults.CleanReports, "Delete all existing files inside the reports folder before generating new reports")
	option.DebugMode = fs.Bool("debug_mode", Defaults.DebugMode, "Whether to display error information")
	option.Dedupe = fs.Bool("dedupe", Defaults.Dedupe, "Report identical violations (same file, line and message) only once")
	option.HTMLReport = fs.String("html_report", Defaults.HTMLReport, "Path to write HTML report (optional)")
	option.JSONReport = fs.String("json_report", Defaults.JSONReport, "Path to write JSON report (optional)")
	option.Lang = fs.String("lang", Defaults.Lang, "Language of the console output. Support en and zh")
	option.NoGCC = fs.Bool("no_gcc", Defaults.NoGCC, "Force use of builtin regex preprocessor (overrides YAML)")
	option.Quiet = fs.Bool("quiet", Defaults.Quiet, "Suppress detailed per-file violation output (summary only)")
	option.ReportsDir = fs.String("reports_dir", Defaults.ReportsDir, "Directory of the timestamped default reports")
	option.ResultsDir = fs.String("results_dir", Defaults.ResultsDir, "Directory of the binary results file and run metadata (optional)")
	option.Rules = fs.String("rules", Defaults.Rules, "Path to YAML rules file")
	option.ShowCode = fs.Bool("show_code", Defaults.ShowCode, "Print the code around each violation")
	option.UseGCC = fs.Bool("use_gcc", Defaults.UseGCC, "Force use of GCC (-E -P) as a preprocessor (overrides YAML)")
	option.Watch = fs.Bool("watch", Defaults.Watch, "Re-run the analysis whenever one of the files changes")

	option.IgnorePatterns = append(option.IgnorePatterns, Defaults.IgnorePatterns...)
	fs.Var(&option.IgnorePatterns, "ignore_pattern", "Doublestar file pattern that will be ignored, repeatable")

	return option
}
