package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NTBooks/solquiz/internal/model"
	"github.com/NTBooks/solquiz/internal/response"
	"github.com/NTBooks/solquiz/internal/service"
	"github.com/NTBooks/solquiz/internal/validator"
	"github.com/NTBooks/solquiz/internal/webhook"
)

// QuizHandler handles the quiz definition and submission endpoints.
type QuizHandler struct {
	quizService *service.QuizService
	certService *service.CertificateService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService, certService *service.CertificateService) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		certService: certService,
	}
}

// GetQuiz godoc
// GET /api/v1/quiz
// Returns the quiz definition with answer keys redacted.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	response.Success(c, http.StatusOK, h.quizService.Quiz().Public())
}

// Submit godoc
// POST /api/v1/submit
// Grades a submission. A perfect score triggers the certificate pipeline and
// the resulting content hash is included in the response.
func (h *QuizHandler) Submit(c *gin.Context) {
	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	name := service.Sanitize(req.Name)
	if name == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrNameRequired)
		return
	}
	if len(req.Answers) != h.quizService.QuestionCount() {
		response.Fail(c, http.StatusBadRequest, response.ErrAnswerCount)
		return
	}

	result := h.quizService.Grade(req.Answers)
	if !result.Perfect {
		response.Success(c, http.StatusOK, model.SubmitResponse{
			Success: true,
			Perfect: false,
			Score:   result.Correct,
			Total:   result.Total,
			Message: fmt.Sprintf("You scored %d/%d. A perfect score earns a certificate — try again!", result.Correct, result.Total),
		})
		return
	}

	hash, err := h.certService.Generate(c.Request.Context(), name, h.quizService.Quiz().Title)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRenderTimeout):
			response.FailWithMessage(c, http.StatusInternalServerError, response.ErrRenderTimeout, err.Error())
		case errors.Is(err, service.ErrRenderFailed):
			response.FailWithMessage(c, http.StatusInternalServerError, response.ErrRenderFailed, err.Error())
		case errors.Is(err, webhook.ErrUpload):
			response.FailWithMessage(c, http.StatusInternalServerError, response.ErrUploadFailed, err.Error())
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, model.SubmitResponse{
		Success:  true,
		Perfect:  true,
		Score:    result.Correct,
		Total:    result.Total,
		Message:  fmt.Sprintf("Perfect score, %s! Your certificate is on its way to the chain.", name),
		FileHash: hash,
	})
}
