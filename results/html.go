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

package results

import (
	"fmt"
	"html/template"
	"io"
	"strconv"

	"naive.systems/complyc/atomic"
)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"severityClass": severityClass,
	"severityLabel": SeverityLabel,
	"lineText": func(line *int) string {
		if line == nil {
			return ""
		}
		return strconv.Itoa(*line)
	},
}).Parse(`<!DOCTYPE html>
<html><head><meta charset='UTF-8'>
<title>ComplyC Report</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; }
h1, h2 { color: #333; }
.summary-table, .violations-table {
  border-collapse: collapse;
  margin-bottom: 20px;
  width: 100%;
}
.summary-table th, .summary-table td,
.violations-table th, .violations-table td {
  border: 1px solid #ccc;
  padding: 6px 8px;
  font-size: 14px;
}
.violations-table th {
  background-color: #f2f2f2;
}
.severity-critical { color: #b30000; font-weight: bold; }
.severity-major { color: #cc6600; font-weight: bold; }
.severity-minor { color: #666600; }
.severity-unspecified { color: #555; }
.file-header { background: #e9f0fb; padding: 8px; margin-top: 20px; border-left: 4px solid #4a78c2; }
</style>
</head><body>
<h1>ComplyC – Coding Style Report</h1>
<h2>Summary</h2>
<table class='summary-table'>
<tr><th>Total files</th><td>{{.Summary.TotalFiles}}</td></tr>
<tr><th>Total violations</th><td>{{.Summary.TotalViolations}}</td></tr>
<tr><th>Violations by severity</th><td><ul>
{{- range .Summary.BySeverity}}
<li class='{{severityClass .Severity}}'>{{.Severity}}: {{.Count}}</li>
{{- end}}
</ul></td></tr>
</table>
{{- range .Files}}
<div class='file-header'><h2>File: {{.File}}</h2>
<p>Total violations: {{len .Violations}}</p></div>
{{- if not .Violations}}
<p>No violations ✅</p>
{{- else}}
<table class='violations-table'>
<tr><th>Line</th><th>Rule ID</th><th>Severity</th><th>Message</th><th>Reference</th></tr>
{{- range .Violations}}
<tr><td>{{lineText .Line}}</td><td>{{.RuleID}}</td><td class='{{severityClass .Severity}}'>{{severityLabel .Severity}}</td><td>{{.Message}}</td><td>{{.Reference}}</td></tr>
{{- end}}
</table>
{{- end}}
{{- end}}
</body></html>
`))

type htmlPage struct {
	Summary Summary
	Files   []FileResults
}

// RenderHTML writes the self-contained HTML page of the report to w.
func RenderHTML(w io.Writer, report *Report) error {
	return reportTemplate.Execute(w, htmlPage{Summary: report.Summary(), Files: report.Files})
}

func WriteHTMLReport(report *Report, reportPath string) error {
	err := atomic.WriteFunc(reportPath, func(w io.Writer) error {
		return RenderHTML(w, report)
	})
	if err != nil {
		return fmt.Errorf("results.WriteHTMLReport: %v", err)
	}
	return nil
}
