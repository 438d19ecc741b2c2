package dataset

import (
	"fmt"

	"uclevr/internal/program"
)

// Question is a dataset question with its functional program.
type Question struct {
	QuestionIndex int             `json:"question_index"`
	Image         string          `json:"image"`
	Program       program.Program `json:"program"`
	Answer        Answer          `json:"answer"`
}

// QuestionFile is the top-level layout of a questions file.
type QuestionFile struct {
	Questions []Question `json:"questions"`
}

// LoadQuestions reads a questions file. Duplicate question indices are rejected.
func LoadQuestions(path string) ([]Question, error) {
	var file QuestionFile
	if err := readJSON(path, &file); err != nil {
		return nil, err
	}
	seen := make(map[int]struct{}, len(file.Questions))
	for i, q := range file.Questions {
		if _, exists := seen[q.QuestionIndex]; exists {
			return nil, fmt.Errorf("parse %s: questions[%d]: duplicate question_index %d", path, i, q.QuestionIndex)
		}
		seen[q.QuestionIndex] = struct{}{}
	}
	return file.Questions, nil
}
