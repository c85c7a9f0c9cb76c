package processing

import "sort"

// Grouped holds upload rows bucketed by question ID. Row order within
// a question follows the upload order.
type Grouped map[string][]Row

// GroupByQuestion buckets rows by their question ID.
func GroupByQuestion(rows []Row) Grouped {
	grouped := make(Grouped)
	for _, row := range rows {
		grouped[row.QuestionID] = append(grouped[row.QuestionID], row)
	}
	return grouped
}

// QuestionIDs returns the group's question IDs in sorted order so
// callers iterate deterministically.
func (g Grouped) QuestionIDs() []string {
	ids := make([]string, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Answers returns the answer texts for one question, in upload order.
func (g Grouped) Answers(questionID string) []string {
	rows := g[questionID]
	answers := make([]string, len(rows))
	for i, row := range rows {
		answers[i] = row.Answer
	}
	return answers
}

// Students collapses rows into per-student records: the student's
// name and their answers keyed by question ID.
func Students(rows []Row) map[string]*StudentRecord {
	students := make(map[string]*StudentRecord)
	for _, row := range rows {
		rec, ok := students[row.StudentID]
		if !ok {
			rec = &StudentRecord{
				StudentID:   row.StudentID,
				StudentName: row.StudentName,
				Answers:     make(map[string]string),
			}
			students[row.StudentID] = rec
		}
		rec.Answers[row.QuestionID] = row.Answer
	}
	return students
}

// StudentRecord is one student's answers across an assignment.
type StudentRecord struct {
	StudentID   string            `json:"student_id"`
	StudentName string            `json:"student_name"`
	Answers     map[string]string `json:"answers"`
}
