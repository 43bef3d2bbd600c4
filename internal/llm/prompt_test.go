package llm

import (
	"strings"
	"testing"
)

func TestBuildLessonPrompt(t *testing.T) {
	prompt := BuildLessonPrompt("Math", "Algebra I", "5th")

	for _, want := range []string{"Math", "Algebra I", "5th", `"interactive_data"`, `"multiple-choice"`, `"reflection"`, `"grade_level"`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("lesson prompt missing %q", want)
		}
	}
}

func TestBuildLessonPrompt_OptionalFields(t *testing.T) {
	prompt := BuildLessonPrompt("Science", "", "")

	if !strings.Contains(prompt, "Science") {
		t.Error("prompt missing subject")
	}
	if strings.Contains(prompt, "course") && strings.Contains(prompt, `""`) {
		t.Error("empty course name should not be interpolated")
	}
}

func TestBuildLessonPrompt_InterpolatesVerbatim(t *testing.T) {
	// Caller-supplied text is embedded unmodified; no escaping is applied.
	prompt := BuildLessonPrompt(`History "and" more`, "", "")

	if !strings.Contains(prompt, `History "and" more`) {
		t.Error("subject should be interpolated verbatim")
	}
}

func TestBuildTutorSystemPrompt(t *testing.T) {
	prompt := BuildTutorSystemPrompt("Maya", "3rd", "reading")

	for _, want := range []string{"Maya", "3rd", "reading", "Never reveal an answer", safeRefusal} {
		if !strings.Contains(prompt, want) {
			t.Errorf("tutor prompt missing %q", want)
		}
	}
}

func TestBuildTutorSystemPrompt_NoSubject(t *testing.T) {
	prompt := BuildTutorSystemPrompt("Sam", "7th", "")

	if strings.Contains(prompt, ", with .") {
		t.Error("empty subject should not leave a dangling clause")
	}
	if !strings.Contains(prompt, safeRefusal) {
		t.Error("tutor prompt missing safe-refusal sentence")
	}
}
