package dataset

import "fmt"

// Prediction is a model answer for one question.
type Prediction struct {
	QuestionIndex int    `json:"question_index"`
	Answer        Answer `json:"answer"`
}

// LoadPredictions reads a JSON list of predictions. A question may be
// predicted at most once.
func LoadPredictions(path string) ([]Prediction, error) {
	var predictions []Prediction
	if err := readJSON(path, &predictions); err != nil {
		return nil, err
	}
	seen := make(map[int]struct{}, len(predictions))
	for i, p := range predictions {
		if _, exists := seen[p.QuestionIndex]; exists {
			return nil, fmt.Errorf("parse %s: predictions[%d]: duplicate question_index %d", path, i, p.QuestionIndex)
		}
		seen[p.QuestionIndex] = struct{}{}
	}
	return predictions, nil
}
