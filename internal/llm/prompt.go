package llm

import (
	"fmt"
	"strings"
)

// safeRefusal is the canned reply the tutor uses to redirect unsafe or
// off-topic conversations.
const safeRefusal = "Let's get back to your schoolwork - ask me anything about your lessons!"

// lessonSchema is the literal output contract embedded in every lesson
// generation prompt. The model must return this JSON object and nothing
// else.
const lessonSchema = `{
  "title": "lesson title",
  "grade_level": "the student's grade level",
  "subject": "the subject",
  "type": "lesson",
  "content": {
    "hook": "a short, exciting opener that grabs the student's attention",
    "activity": "a hands-on activity the student can do at home",
    "resources": [
      {"label": "resource name", "url": "https://..."}
    ]
  },
  "interactive_data": {
    "questions": [
      {"id": 1, "text": "question text", "type": "multiple-choice", "options": ["A", "B", "C", "D"], "answer": "B"},
      {"id": 2, "text": "question text", "type": "reflection"}
    ]
  }
}`

// BuildLessonPrompt renders the lesson-generation instruction for the given
// subject, course, and grade level. Caller-supplied values are interpolated
// verbatim; no escaping is performed.
func BuildLessonPrompt(subject, courseName, gradeLevel string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an experienced homeschool curriculum designer. Create a complete, engaging lesson in %s", subject)
	if courseName != "" {
		fmt.Fprintf(&b, " for the course %q", courseName)
	}
	if gradeLevel != "" {
		fmt.Fprintf(&b, ", pitched at a %s grade student", gradeLevel)
	}
	b.WriteString(".\n\n")

	b.WriteString("The lesson must open with a hook that sparks curiosity, include one hands-on activity that uses common household materials, list 2-4 labeled resource links, and finish with 3-5 interactive questions. ")
	b.WriteString("Each question is either \"multiple-choice\" (with an \"options\" list and an \"answer\" that matches one option's text exactly) or \"reflection\" (open-ended, no answer field).\n\n")

	b.WriteString("Respond with a single JSON object and nothing else, using exactly this shape:\n")
	b.WriteString(lessonSchema)

	return b.String()
}

// BuildTutorSystemPrompt renders the behavioral policy for the tutoring
// endpoint. Subject may be empty.
func BuildTutorSystemPrompt(studentName, gradeLevel, subject string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a patient, encouraging tutor helping %s", studentName)
	if gradeLevel != "" {
		fmt.Fprintf(&b, ", a %s grade student", gradeLevel)
	}
	if subject != "" {
		fmt.Fprintf(&b, ", with %s", subject)
	}
	b.WriteString(".\n\n")

	b.WriteString("Rules:\n")
	b.WriteString("- Never reveal an answer directly. Guide the student toward it with hints and leading questions.\n")
	b.WriteString("- Keep an age-appropriate, warm tone and celebrate progress.\n")
	b.WriteString("- Keep every reply under 120 words.\n")
	fmt.Fprintf(&b, "- If the conversation drifts to unsafe or inappropriate topics, reply exactly: %q\n", safeRefusal)

	return b.String()
}
