package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/homeroomapp/homeroom/internal/models"
)

// ParseLesson decodes the model's reply into a lesson. Models frequently
// wrap JSON in markdown fences despite instructions, so fences are
// tolerated. Fails with *ParseError when the content is not decodable or
// required top-level fields are missing.
func ParseLesson(content string) (*models.Lesson, error) {
	trimmed := stripFences(content)

	var lesson models.Lesson
	if err := json.Unmarshal([]byte(trimmed), &lesson); err != nil {
		return nil, &ParseError{Err: err}
	}

	if lesson.Title == "" {
		return nil, &ParseError{Err: fmt.Errorf("missing required field %q", "title")}
	}
	if lesson.GradeLevel == "" {
		return nil, &ParseError{Err: fmt.Errorf("missing required field %q", "grade_level")}
	}
	if lesson.Subject == "" {
		return nil, &ParseError{Err: fmt.Errorf("missing required field %q", "subject")}
	}

	return &lesson, nil
}

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)

	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}
