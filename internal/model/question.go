package model

// Question is a question bank entry as persisted by the store
type Question struct {
	ID               string   `json:"id,omitempty" bson:"id,omitempty"`
	Prompt           string   `json:"prompt" bson:"prompt"`
	CorrectAnswer    string   `json:"correctAnswer" bson:"correctAnswer"`
	IncorrectAnswers []string `json:"incorrectAnswers" bson:"incorrectAnswers"`
	Image            string   `json:"image,omitempty" bson:"image,omitempty"`
}

// QuestionBank is the on-disk shape of the question file
type QuestionBank struct {
	Questions []Question `json:"questions" bson:"questions"`
}

// SanitizedQuestion is the client view of a question: answers are shuffled
// and carry no marker of which one is correct
type SanitizedQuestion struct {
	ID      string   `json:"id,omitempty"`
	Prompt  string   `json:"prompt"`
	Answers []string `json:"answers"`
	Image   string   `json:"image,omitempty"`
}

// AllAnswers returns the incorrect answers followed by the correct one.
// The returned slice is a fresh copy.
func (q *Question) AllAnswers() []string {
	answers := make([]string, 0, len(q.IncorrectAnswers)+1)
	answers = append(answers, q.IncorrectAnswers...)
	return append(answers, q.CorrectAnswer)
}

// Clone returns a deep copy
func (q Question) Clone() Question {
	q.IncorrectAnswers = append([]string(nil), q.IncorrectAnswers...)
	return q
}
