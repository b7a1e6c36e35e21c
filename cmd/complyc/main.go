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
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/golang/glog"
	"golang.org/x/text/message"
	"naive.systems/complyc/analyzer"
	"naive.systems/complyc/checkrule"
	"naive.systems/complyc/cruleslib/filter"
	"naive.systems/complyc/cruleslib/i18n"
	"naive.systems/complyc/cruleslib/options"
	"naive.systems/complyc/cruleslib/stats"
	"naive.systems/complyc/preprocess"
	"naive.systems/complyc/results"
	"naive.systems/complyc/utils"
)

const watchDebounce = 300 * time.Millisecond

func main() {
	sharedOptions := options.NewSharedOptions(flag.CommandLine)
	flag.Parse()
	defer glog.Flush()

	// Do not call any logging functions of glog before this part.
	printer := i18n.GetPrinter(sharedOptions.GetLang())

	resultsDir := sharedOptions.GetResultsDir()
	if resultsDir != "" {
		err := utils.EnsureDir(resultsDir)
		if err != nil {
			glog.Fatalf("failed to create result dir: %v", err)
		}
		logDir := flag.Lookup("log_dir")
		if logDir.Value.String() == "" {
			err := flag.Set("log_dir", filepath.Join(resultsDir, "logs"))
			if err != nil {
				glog.Fatalf("failed to set default log_dir: %v", err)
			}
		}
		err = utils.EnsureDir(logDir.Value.String())
		if err != nil {
			glog.Fatalf("failed to create log dir: %v", err)
		}
	}

	if !sharedOptions.GetDebugMode() {
		err := flag.Set("stderrthreshold", "FATAL")
		if err != nil {
			glog.Fatalf("failed to set default stderrthreshold: %v", err)
		}
	}

	files := flag.Args()
	if err := options.CheckOptions(sharedOptions, files); err != nil {
		glog.Fatalf("options.CheckOptions: %v", err)
	}

	config, err := checkrule.LoadConfig(sharedOptions.GetRules())
	if err != nil {
		glog.Fatalf("checkrule.LoadConfig: %v", err)
	}
	a, err := analyzer.New(config, sharedOptions.GetUseGCC(), sharedOptions.GetNoGCC())
	if err != nil {
		glog.Fatalf("analyzer.New: %v", err)
	}
	a.Dedupe = sharedOptions.GetDedupe()
	printer.Printf("[ComplyC] Preprocessor mode: %s\n", printer.Sprintf(a.Mode().Describe()))
	if a.Mode() == preprocess.ModeExternal {
		compiler := a.Preprocess.External.Compiler
		if compiler == "" {
			compiler = preprocess.DefaultCompiler
		}
		glog.Infof("preprocessor %s version %q", compiler, utils.GetCompilerVersion(compiler))
	}

	files = filter.SelectFiles(files, sharedOptions.GetIgnorePatterns())
	glog.Infof("analyzing %d files with %d rules", len(files), len(config.Rules))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ok := runOnce(ctx, a, files, sharedOptions, printer)
	if sharedOptions.GetWatch() {
		printer.Printf("[ComplyC] Watching %d files for changes\n", len(files))
		err := watchFiles(ctx, files, watchDebounce, func(changed string) {
			printer.Printf("[ComplyC] %s changed, re-running analysis\n", changed)
			runOnce(ctx, a, files, sharedOptions, printer)
		})
		if err != nil {
			glog.Fatalf("watchFiles: %v", err)
		}
		return
	}
	if !ok {
		stop()
		glog.Flush()
		os.Exit(1)
	}
}

// runOnce analyzes files, prints the summary and writes the reports. It
// returns false when a file could not be analyzed or a report could not be
// written; violations alone never fail a run.
func runOnce(ctx context.Context, a *analyzer.Analyzer, files []string, sharedOptions *options.SharedOptions, printer *message.Printer) bool {
	report, failures := a.Run(ctx, files, analyzer.RunOptions{
		Out:           os.Stdout,
		Printer:       printer,
		Quiet:         sharedOptions.GetQuiet(),
		ShowCode:      sharedOptions.GetShowCode(),
		CheckProgress: sharedOptions.GetCheckProgress(),
		ResultsDir:    sharedOptions.GetResultsDir(),
	})
	results.PrintSummary(os.Stdout, printer, report.Summary())

	linesOfCode := -1
	if sharedOptions.GetCheckProgress() || sharedOptions.GetResultsDir() != "" {
		count, err := stats.CountCodeLines(files, nil)
		if err != nil {
			glog.Errorf("stats.CountCodeLines: %v", err)
		} else {
			linesOfCode = count.Code
			if sharedOptions.GetCheckProgress() {
				printer.Printf("Lines of code          : %d (%d files)\n", count.Code, count.Files)
			}
		}
	}

	err := analyzer.WriteReports(report, files, analyzer.ReportOptions{
		Out:          os.Stdout,
		Printer:      printer,
		JSONReport:   sharedOptions.GetJSONReport(),
		HTMLReport:   sharedOptions.GetHTMLReport(),
		ReportsDir:   sharedOptions.GetReportsDir(),
		CleanReports: sharedOptions.GetCleanReports(),
		ResultsDir:   sharedOptions.GetResultsDir(),
		LinesOfCode:  linesOfCode,
		Now:          time.Now(),
	})
	if err != nil {
		glog.Errorf("analyzer.WriteReports: %v", err)
		return false
	}
	return len(failures) == 0
}
