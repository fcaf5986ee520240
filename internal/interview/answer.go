// Package interview scores a candidate's interview answers and describes the
// outcome in a short narrative.
package interview

import (
	"encoding/json"
)

// Difficulty is the tier of an interview question.
type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// UnmarshalJSON accepts any JSON value. Anything that is not a string becomes
// the empty difficulty, which is weighted as Easy.
func (d *Difficulty) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*d = ""
		return nil
	}
	*d = Difficulty(s)
	return nil
}

// AnswerRecord is one answered, skipped or timed-out question as reported by
// the client. It is untrusted input.
type AnswerRecord struct {
	Question   string     `json:"question,omitempty"`
	Difficulty Difficulty `json:"difficulty"`
	Answer     *string    `json:"answer"`
	Attended   bool       `json:"attended"`
	Reason     string     `json:"reason,omitempty"`
}

// UnmarshalJSON decodes a record field by field so that a malformed field
// degrades to its zero value instead of rejecting the whole answer list.
func (a *AnswerRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*a = AnswerRecord{}
	if v, ok := raw["difficulty"]; ok {
		_ = a.Difficulty.UnmarshalJSON(v)
	}
	if v, ok := raw["answer"]; ok {
		var s *string
		if json.Unmarshal(v, &s) == nil {
			a.Answer = s
		}
	}
	if v, ok := raw["attended"]; ok {
		_ = json.Unmarshal(v, &a.Attended)
	}
	if v, ok := raw["question"]; ok {
		_ = json.Unmarshal(v, &a.Question)
	}
	if v, ok := raw["reason"]; ok {
		_ = json.Unmarshal(v, &a.Reason)
	}
	return nil
}
