// Package processing parses uploaded assignment files into response
// rows and groups them by question.
package processing

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one parsed record: a single student's answer to a question.
type Row struct {
	StudentID    string `json:"student_id"`
	StudentName  string `json:"student_name"`
	QuestionID   string `json:"question_id"`
	QuestionText string `json:"question"`
	Answer       string `json:"answer"`
}

// RequiredColumns are the columns every upload must carry.
var RequiredColumns = []string{"student_id", "student_name", "question_id", "question", "answer"}

func missingColumnsError(kind string) error {
	return fmt.Errorf("%s must contain columns: %s", kind, strings.Join(RequiredColumns, ", "))
}

// ParseFile dispatches on the file extension. Supported: .csv, .json,
// .xlsx. Uploads that parse to zero usable rows are rejected so a
// doomed analysis is never started.
func ParseFile(filename string, r io.Reader) ([]Row, error) {
	var rows []Row
	var err error
	switch {
	case strings.HasSuffix(filename, ".csv"):
		rows, err = ParseCSV(r)
	case strings.HasSuffix(filename, ".json"):
		rows, err = ParseJSON(r)
	case strings.HasSuffix(filename, ".xlsx"):
		rows, err = ParseExcel(r)
	default:
		return nil, fmt.Errorf("invalid file format: please upload CSV, JSON or Excel (.xlsx) files")
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("file contains no responses with answers")
	}
	return rows, nil
}

// FormatFromFilename returns the storage format label for a supported
// upload, or an empty string.
func FormatFromFilename(filename string) string {
	for _, ext := range []string{"csv", "json", "xlsx"} {
		if strings.HasSuffix(filename, "."+ext) {
			return ext
		}
	}
	return ""
}

// ParseCSV reads a CSV upload. The header row must contain the
// required columns; rows with empty answers are skipped.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("uploaded CSV file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("invalid CSV file: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range RequiredColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, missingColumnsError("CSV")
		}
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid CSV file: %w", err)
		}

		field := func(col string) string {
			idx := colIdx[col]
			if idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		if field("answer") == "" {
			continue
		}

		rows = append(rows, Row{
			StudentID:    field("student_id"),
			StudentName:  field("student_name"),
			QuestionID:   field("question_id"),
			QuestionText: field("question"),
			Answer:       field("answer"),
		})
	}

	return rows, nil
}

// ParseJSON reads a JSON upload: a list of objects carrying the
// required keys.
func ParseJSON(r io.Reader) ([]Row, error) {
	var raw []map[string]any
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		if _, ok := err.(*json.UnmarshalTypeError); ok {
			return nil, fmt.Errorf("JSON must be a list of objects")
		}
		return nil, fmt.Errorf("invalid JSON file")
	}

	var rows []Row
	for _, item := range raw {
		for _, key := range RequiredColumns {
			if _, ok := item[key]; !ok {
				return nil, missingColumnsError("each JSON object")
			}
		}

		field := func(key string) string {
			return strings.TrimSpace(fmt.Sprintf("%v", item[key]))
		}

		if field("answer") == "" {
			continue
		}

		rows = append(rows, Row{
			StudentID:    field("student_id"),
			StudentName:  field("student_name"),
			QuestionID:   field("question_id"),
			QuestionText: field("question"),
			Answer:       field("answer"),
		})
	}

	return rows, nil
}

// ParseExcel reads an .xlsx upload. The first sheet is used; headers
// are matched case-insensitively and rows with empty answers are
// skipped.
func ParseExcel(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("invalid Excel file: no sheets found")
	}

	records, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("invalid Excel file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("uploaded Excel file is empty")
	}

	colIdx := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		if name != "" {
			colIdx[strings.ToLower(strings.TrimSpace(name))] = i
		}
	}
	for _, col := range RequiredColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, missingColumnsError("Excel")
		}
	}

	var rows []Row
	for _, record := range records[1:] {
		empty := true
		for _, cell := range record {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		field := func(col string) string {
			idx := colIdx[col]
			if idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		if field("answer") == "" {
			continue
		}

		rows = append(rows, Row{
			StudentID:    field("student_id"),
			StudentName:  field("student_name"),
			QuestionID:   field("question_id"),
			QuestionText: field("question"),
			Answer:       field("answer"),
		})
	}

	return rows, nil
}
