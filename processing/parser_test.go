package processing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	csv := `student_id,student_name,question_id,question,answer
S1,Ada,Q1,What is gravity?,A force that attracts objects
S2,Ben,Q1,What is gravity?,Things fall down
S2,Ben,Q2,Define velocity,Speed with direction
S3,Cara,Q2,Define velocity,
`

	rows, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 3, "row with empty answer should be skipped")

	assert.Equal(t, "S1", rows[0].StudentID)
	assert.Equal(t, "Ada", rows[0].StudentName)
	assert.Equal(t, "Q1", rows[0].QuestionID)
	assert.Equal(t, "What is gravity?", rows[0].QuestionText)
	assert.Equal(t, "A force that attracts objects", rows[0].Answer)
	assert.Equal(t, "Q2", rows[2].QuestionID)
}

func TestParseCSVHeaderCaseInsensitive(t *testing.T) {
	csv := `Student_ID,Student_Name,Question_ID,Question,Answer
S1,Ada,Q1,What is gravity?,A force
`

	rows, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "S1", rows[0].StudentID)
}

func TestParseCSVEmpty(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestParseCSVMissingColumns(t *testing.T) {
	csv := `student_id,answer
S1,A force
`

	_, err := ParseCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must contain columns")
}

func TestParseJSON(t *testing.T) {
	data := `[
		{"student_id": "S1", "student_name": "Ada", "question_id": "Q1", "question": "What is gravity?", "answer": "A force"},
		{"student_id": "S2", "student_name": "Ben", "question_id": "Q1", "question": "What is gravity?", "answer": ""}
	]`

	rows, err := ParseJSON(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1, "empty answers should be skipped")
	assert.Equal(t, "Ada", rows[0].StudentName)
}

func TestParseJSONNotAList(t *testing.T) {
	_, err := ParseJSON(strings.NewReader(`{"student_id": "S1"}`))
	require.Error(t, err)
	assert.Equal(t, "JSON must be a list of objects", err.Error())
}

func TestParseJSONInvalid(t *testing.T) {
	_, err := ParseJSON(strings.NewReader(`not json at all`))
	require.Error(t, err)
	assert.Equal(t, "invalid JSON file", err.Error())
}

func TestParseJSONMissingKeys(t *testing.T) {
	_, err := ParseJSON(strings.NewReader(`[{"student_id": "S1", "answer": "A force"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must contain columns")
}

func TestParseExcel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	headers := []string{"student_id", "student_name", "question_id", "question", "answer"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, h))
	}
	values := [][]string{
		{"S1", "Ada", "Q1", "What is gravity?", "A force that attracts objects"},
		{"S2", "Ben", "Q1", "What is gravity?", ""},
	}
	for r, record := range values {
		for c, v := range record {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := ParseExcel(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 1, "empty answers should be skipped")
	assert.Equal(t, "S1", rows[0].StudentID)
	assert.Equal(t, "A force that attracts objects", rows[0].Answer)
}

func TestParseFileUnsupportedExtension(t *testing.T) {
	_, err := ParseFile("grades.pdf", strings.NewReader("data"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file format")
}

func TestParseFileRejectsZeroUsableRows(t *testing.T) {
	t.Run("header-only CSV", func(t *testing.T) {
		csv := "student_id,student_name,question_id,question,answer\n"
		_, err := ParseFile("grades.csv", strings.NewReader(csv))
		require.Error(t, err)
		assert.Equal(t, "file contains no responses with answers", err.Error())
	})

	t.Run("every answer empty", func(t *testing.T) {
		csv := `student_id,student_name,question_id,question,answer
S1,Ada,Q1,What is gravity?,
S2,Ben,Q1,What is gravity?,
`
		_, err := ParseFile("grades.csv", strings.NewReader(csv))
		require.Error(t, err)
		assert.Equal(t, "file contains no responses with answers", err.Error())
	})

	t.Run("empty JSON list", func(t *testing.T) {
		_, err := ParseFile("grades.json", strings.NewReader("[]"))
		require.Error(t, err)
		assert.Equal(t, "file contains no responses with answers", err.Error())
	})
}

func TestFormatFromFilename(t *testing.T) {
	assert.Equal(t, "csv", FormatFromFilename("grades.csv"))
	assert.Equal(t, "json", FormatFromFilename("grades.json"))
	assert.Equal(t, "xlsx", FormatFromFilename("grades.xlsx"))
	assert.Equal(t, "", FormatFromFilename("grades.pdf"))
}
