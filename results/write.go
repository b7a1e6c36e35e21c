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
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"naive.systems/complyc/atomic"
)

// AddID stamps every violation of the report with a fresh random id.
func AddID(report *Report) {
	for i := range report.Files {
		violations := report.Files[i].Violations
		for j := range violations {
			id, err := uuid.NewRandom()
			if err != nil {
				// the report stays usable without ids
				glog.Warningf("uuid.NewRandom: %v", err)
				continue
			}
			violations[j].ID = id.String()
		}
	}
}

func optional(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func (v Violation) fields() map[string]interface{} {
	fields := map[string]interface{}{
		"rule_id":   v.RuleID,
		"message":   v.Message,
		"file":      v.File,
		"line":      nil,
		"severity":  optional(v.Severity),
		"reference": optional(v.Reference),
	}
	if v.Line != nil {
		fields["line"] = *v.Line
	}
	if v.ID != "" {
		fields["id"] = v.ID
	}
	return fields
}

// ToStruct converts the report to the document shared by the JSON and the
// binary results file:
//
//	{files: [{file, violations: [...]}],
//	 summary: {total_files, total_violations, by_severity}}
func ToStruct(report *Report) (*structpb.Struct, error) {
	files := make([]interface{}, 0, len(report.Files))
	for _, fr := range report.Files {
		violations := make([]interface{}, 0, len(fr.Violations))
		for _, v := range fr.Violations {
			violations = append(violations, v.fields())
		}
		files = append(files, map[string]interface{}{
			"file":       fr.File,
			"violations": violations,
		})
	}
	summary := report.Summary()
	bySeverity := map[string]interface{}{}
	for _, c := range summary.BySeverity {
		bySeverity[c.Severity] = c.Count
	}
	doc, err := structpb.NewStruct(map[string]interface{}{
		"files": files,
		"summary": map[string]interface{}{
			"total_files":      summary.TotalFiles,
			"total_violations": summary.TotalViolations,
			"by_severity":      bySeverity,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("structpb.NewStruct: %v", err)
	}
	return doc, nil
}

// MarshalJSON returns the report document indented by two spaces.
func MarshalJSON(report *Report) ([]byte, error) {
	doc, err := ToStruct(report)
	if err != nil {
		return nil, err
	}
	options := protojson.MarshalOptions{
		UseProtoNames: true,
	}
	out, err := options.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("protojson.Marshal: %v", err)
	}
	var rawMessage json.RawMessage = out
	outWithIndent, err := json.MarshalIndent(rawMessage, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json.MarshalIndent: %v", err)
	}
	return outWithIndent, nil
}

func WriteJSONResults(report *Report, resultsPath string) error {
	out, err := MarshalJSON(report)
	if err != nil {
		return fmt.Errorf("results.WriteJSONResults: %v", err)
	}
	if err := atomic.Write(resultsPath, out); err != nil {
		return fmt.Errorf("results.WriteJSONResults: %v", err)
	}
	return nil
}

// WriteResults writes the report document in protobuf wire format.
func WriteResults(report *Report, resultsPath string) error {
	doc, err := ToStruct(report)
	if err != nil {
		return fmt.Errorf("results.WriteResults: %v", err)
	}
	out, err := proto.Marshal(doc)
	if err != nil {
		return fmt.Errorf("proto.Marshal: %v", err)
	}
	if err := atomic.Write(resultsPath, out); err != nil {
		return fmt.Errorf("results.WriteResults: %v", err)
	}
	return nil
}

// ReadResults loads a file written by WriteResults.
func ReadResults(resultsPath string) (*structpb.Struct, error) {
	in, err := os.ReadFile(resultsPath)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %v", err)
	}
	doc := &structpb.Struct{}
	if err := proto.Unmarshal(in, doc); err != nil {
		return nil, fmt.Errorf("proto.Unmarshal: %v", err)
	}
	return doc, nil
}
