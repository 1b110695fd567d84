package service

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/NTBooks/solquiz/internal/model"
)

// defaultQuiz is served when no quiz file is configured or loadable.
var defaultQuiz = model.Quiz{
	Title: "Solana Trivia",
	Questions: []model.Question{
		{
			Prompt:  "What is 3 + 5?",
			Options: []interface{}{float64(6), float64(7), float64(8), float64(9)},
			Correct: float64(8),
		},
		{
			Prompt:  "What is 12 + 7?",
			Options: []interface{}{float64(17), float64(18), float64(19), float64(20)},
			Correct: float64(19),
		},
		{
			Prompt:  "What is 8 x 5?",
			Options: []interface{}{float64(35), float64(40), float64(45), float64(48)},
			Correct: float64(40),
		},
	},
}

// QuizService holds the immutable process-lifetime quiz and grades
// submissions against it.
type QuizService struct {
	quiz model.Quiz
	log  zerolog.Logger
}

// NewQuizService loads the quiz definition from path. A missing or invalid
// file is not fatal: the built-in demo quiz is used instead.
func NewQuizService(path string, log zerolog.Logger) *QuizService {
	s := &QuizService{
		quiz: defaultQuiz,
		log:  log.With().Str("component", "quiz_service").Logger(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("Quiz file not readable, using built-in quiz")
		return s
	}

	var quiz model.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("Quiz file invalid, using built-in quiz")
		return s
	}

	s.quiz = quiz
	s.log.Info().Str("title", quiz.Title).Int("questions", len(quiz.Questions)).Msg("Quiz loaded")
	return s
}

// Quiz returns the loaded quiz definition.
func (s *QuizService) Quiz() *model.Quiz {
	return &s.quiz
}

// QuestionCount returns the number of questions in the loaded quiz.
func (s *QuizService) QuestionCount() int {
	return len(s.quiz.Questions)
}

// Grade compares answers positionally against the answer key. No partial
// credit, no reordering, no fuzzy matching. The caller must have already
// verified that len(answers) equals the question count; an empty quiz
// degenerately grades as perfect with 0/0.
func (s *QuizService) Grade(answers []interface{}) model.GradeResult {
	total := len(s.quiz.Questions)
	correct := 0
	for i, q := range s.quiz.Questions {
		if i < len(answers) && answerEqual(answers[i], q.Correct) {
			correct++
		}
	}
	return model.GradeResult{
		Correct: correct,
		Total:   total,
		Perfect: correct == total,
	}
}

// answerEqual compares a submitted answer to an answer key value. Both sides
// come from JSON, so numbers are float64; a numeric string submission is also
// accepted for a numeric key since HTML form values arrive as strings.
func answerEqual(got, want interface{}) bool {
	switch w := want.(type) {
	case float64:
		switch g := got.(type) {
		case float64:
			return g == w
		case string:
			parsed, err := strconv.ParseFloat(g, 64)
			return err == nil && parsed == w
		}
		return false
	case string:
		g, ok := got.(string)
		return ok && g == w
	case bool:
		g, ok := got.(bool)
		return ok && g == w
	case nil:
		return got == nil
	}
	return false
}
