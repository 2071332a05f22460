package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lamim/horrorforge/internal/config"
	"github.com/lamim/horrorforge/internal/story"
	"github.com/lamim/horrorforge/pkg/models"
)

const (
	// MissingInputWarning is shown when either text field is left empty
	MissingInputWarning = "Please fill in both Character Name and Situation to generate a story."

	codeInvalidRequest = "INVALID_REQUEST"
	codeRemoteFailure  = "REMOTE_SERVICE_ERROR"
	codeQuotaExceeded  = "QUOTA_EXCEEDED"
	codeInternal       = "INTERNAL_ERROR"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type storyForm struct {
	CharacterName string `form:"character_name"`
	Situation     string `form:"situation"`
	Lines         string `form:"lines"`
}

type createStoryRequest struct {
	CharacterName string `json:"character_name"`
	Situation     string `json:"situation"`
	Lines         *int   `json:"lines"`
}

type createStoryResponse struct {
	Story     string `json:"story"`
	Model     string `json:"model"`
	RequestID string `json:"request_id"`
}

// pageData feeds index.html
type pageData struct {
	CharacterName string
	Situation     string
	Lines         int
	MaxLines      int
	Warning       string
	Error         string
	Story         string
}

// StoryHandler serves the form page and the JSON API
type StoryHandler struct {
	submitter story.Submitter
	limits    config.StoryConfig
}

// NewStoryHandler creates a story handler
func NewStoryHandler(submitter story.Submitter, limits config.StoryConfig) *StoryHandler {
	return &StoryHandler{submitter: submitter, limits: limits}
}

// Index renders the empty form
func (h *StoryHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, indexTemplate, h.page(storyForm{}))
}

// Generate handles the form submission
func (h *StoryHandler) Generate(c *gin.Context) {
	var form storyForm
	if err := c.ShouldBind(&form); err != nil {
		data := h.page(form)
		data.Warning = err.Error()
		c.HTML(http.StatusBadRequest, indexTemplate, data)
		return
	}

	data := h.page(form)

	if strings.TrimSpace(form.CharacterName) == "" || strings.TrimSpace(form.Situation) == "" {
		data.Warning = MissingInputWarning
		c.HTML(http.StatusUnprocessableEntity, indexTemplate, data)
		return
	}

	lines, err := h.parseLines(form.Lines)
	if err != nil {
		data.Warning = err.Error()
		c.HTML(http.StatusUnprocessableEntity, indexTemplate, data)
		return
	}

	req := models.StoryRequest{
		CharacterName: form.CharacterName,
		Situation:     form.Situation,
		LineCount:     lines,
	}
	if err := story.Validate(req, h.limits); err != nil {
		data.Warning = err.Error()
		c.HTML(http.StatusUnprocessableEntity, indexTemplate, data)
		return
	}

	resp, err := h.submitter.Submit(c.Request.Context(), req)
	if err != nil {
		status, _, message := describeError(err)
		if status == http.StatusUnprocessableEntity {
			data.Warning = message
		} else {
			data.Error = "An error occurred: " + message
		}
		c.HTML(status, indexTemplate, data)
		return
	}

	data.Story = resp.Text
	c.HTML(http.StatusOK, indexTemplate, data)
}

// CreateStory is the JSON variant of Generate
func (h *StoryHandler) CreateStory(c *gin.Context) {
	var body createStoryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: codeInvalidRequest, Message: err.Error()})
		return
	}

	req := models.StoryRequest{
		CharacterName: body.CharacterName,
		Situation:     body.Situation,
		LineCount:     h.limits.DefaultLines,
	}
	if body.Lines != nil {
		req.LineCount = *body.Lines
	}

	if err := story.Validate(req, h.limits); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Code: codeInvalidRequest, Message: err.Error()})
		return
	}

	resp, err := h.submitter.Submit(c.Request.Context(), req)
	if err != nil {
		status, code, message := describeError(err)
		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
		}
		c.JSON(status, errorBody{Code: code, Message: message})
		return
	}

	c.JSON(http.StatusOK, createStoryResponse{
		Story:     resp.Text,
		Model:     resp.Model,
		RequestID: c.GetString(requestIDKey),
	})
}

// Health reports liveness
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *StoryHandler) page(form storyForm) pageData {
	lines := h.limits.DefaultLines
	if n, err := strconv.Atoi(strings.TrimSpace(form.Lines)); err == nil {
		lines = n
	}
	return pageData{
		CharacterName: form.CharacterName,
		Situation:     form.Situation,
		Lines:         lines,
		MaxLines:      h.limits.MaxLines,
	}
}

// parseLines treats an empty field as the default line count
func (h *StoryHandler) parseLines(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return h.limits.DefaultLines, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &story.ValidationError{Field: "lines", Message: "must be a whole number"}
	}
	return n, nil
}

// describeError maps a Submit error to an HTTP status, an API error code and
// user-facing text
func describeError(err error) (int, string, string) {
	if story.IsValidation(err) {
		return http.StatusUnprocessableEntity, codeInvalidRequest, err.Error()
	}
	var rErr *story.RemoteServiceError
	if errors.As(err, &rErr) {
		if rErr.StatusCode() == http.StatusTooManyRequests {
			return http.StatusBadGateway, codeQuotaExceeded, "quota exceeded: " + rErr.Err.Error()
		}
		return http.StatusBadGateway, codeRemoteFailure, rErr.Err.Error()
	}
	return http.StatusInternalServerError, codeInternal, err.Error()
}
