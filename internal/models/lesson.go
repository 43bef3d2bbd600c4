package models

import "time"

// Question types a generated lesson may contain.
const (
	QuestionMultipleChoice = "multiple-choice"
	QuestionReflection     = "reflection"
)

// Lesson is the structured result of a generation request. The field names
// mirror the JSON contract the model is instructed to produce.
type Lesson struct {
	Title           string          `json:"title"`
	GradeLevel      string          `json:"grade_level"`
	Subject         string          `json:"subject"`
	Type            string          `json:"type"`
	Content         LessonContent   `json:"content"`
	InteractiveData InteractiveData `json:"interactive_data"`
}

// LessonContent holds the narrative parts of a lesson.
type LessonContent struct {
	Hook      string     `json:"hook"`
	Activity  string     `json:"activity"`
	Resources []Resource `json:"resources"`
}

// Resource is a labeled link to supporting material.
type Resource struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// InteractiveData holds the ordered question list for the lesson player.
type InteractiveData struct {
	Questions []Question `json:"questions"`
}

// Question is a single interactive item. Multiple-choice questions carry an
// options list and an answer that must equal one option's text exactly;
// reflection questions have no scored answer.
type Question struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
	Answer  string   `json:"answer,omitempty"`
}

// LessonRecord is a generated lesson as stored in the lessons collection.
type LessonRecord struct {
	ID         string    `json:"id,omitempty"`
	Child      string    `json:"child"`
	Title      string    `json:"title"`
	Subject    string    `json:"subject"`
	GradeLevel string    `json:"grade_level"`
	Data       Lesson    `json:"data"`
	Created    time.Time `json:"created,omitempty"`
}
