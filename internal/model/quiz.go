package model

// Quiz is the process-lifetime quiz definition. It is loaded once at startup
// and never mutated afterward.
type Quiz struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Question is a single quiz question. Correct holds the answer key value and
// is compared positionally against submitted answers.
type Question struct {
	Prompt  string        `json:"prompt"`
	Options []interface{} `json:"options,omitempty"`
	Correct interface{}   `json:"correct"`
}

// QuestionPublic is the client-facing projection of a Question with the
// answer key redacted.
type QuestionPublic struct {
	Prompt  string        `json:"prompt"`
	Options []interface{} `json:"options,omitempty"`
}

// QuizPublic is the client-facing quiz payload served to the front end.
type QuizPublic struct {
	Title     string           `json:"title"`
	Questions []QuestionPublic `json:"questions"`
}

// Public returns the quiz definition stripped of answer keys.
func (q *Quiz) Public() QuizPublic {
	questions := make([]QuestionPublic, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = QuestionPublic{
			Prompt:  question.Prompt,
			Options: question.Options,
		}
	}
	return QuizPublic{Title: q.Title, Questions: questions}
}

// SubmitRequest is the payload for a quiz submission.
type SubmitRequest struct {
	Name    string        `json:"name" binding:"required,max=200"`
	Answers []interface{} `json:"answers" binding:"required"`
}

// SubmitResponse is the result payload for a graded submission.
type SubmitResponse struct {
	Success  bool   `json:"success"`
	Perfect  bool   `json:"perfect"`
	Score    int    `json:"score"`
	Total    int    `json:"total"`
	Message  string `json:"message"`
	FileHash string `json:"file_hash,omitempty"`
}

// GradeResult is the outcome of grading a submission against the answer key.
type GradeResult struct {
	Correct int
	Total   int
	Perfect bool
}
