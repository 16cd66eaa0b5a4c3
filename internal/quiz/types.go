// Package quiz implements the quiz core: question generation, the session
// state machine, and the engine that ties them to the atlas and the progress
// store.
package quiz

import (
	"time"

	"github.com/geoespana/geoquiz/internal/atlas"
	"github.com/geoespana/geoquiz/internal/geo"
)

// Mode selects how a session is scored and presented.
type Mode string

const (
	ModePractice  Mode = "practice" // no scoring
	ModeQuiz      Mode = "quiz"
	ModeChallenge Mode = "challenge"
	ModeStudy     Mode = "study"
)

// QuestionType is the kind of question posed.
type QuestionType string

const (
	MultipleChoice   QuestionType = "multiple-choice"
	PointAndIdentify QuestionType = "point-and-identify"
	NameThatPlace    QuestionType = "name-that-place"
)

// AllQuestionTypes returns every question kind.
func AllQuestionTypes() []QuestionType {
	return []QuestionType{MultipleChoice, PointAndIdentify, NameThatPlace}
}

// Difficulty ranges from 1 (easy) to 5 (expert).
type Difficulty int

// Question is generated from a location and owned by the session for its
// lifetime. CorrectAnswer is always a location ID, whatever the question
// type. Options is set for multiple choice only.
type Question struct {
	ID            string         `json:"id"`
	Category      atlas.Category `json:"category"`
	Type          QuestionType   `json:"type"`
	Prompt        string         `json:"prompt"`
	PromptES      string         `json:"promptEs"`
	CorrectAnswer string         `json:"correctAnswer"`
	Options       []string       `json:"options,omitempty"`
	Difficulty    Difficulty     `json:"difficulty"`
	Hint          string         `json:"hint"`
	HintES        string         `json:"hintEs"`
	Coordinates   geo.Point      `json:"coordinates"`
	ZoomLevel     int            `json:"zoomLevel"`
	Tolerance     float64        `json:"tolerance"`
}

// Answer records one submitted response. Created once per non-skipped
// submission and never mutated.
type Answer struct {
	QuestionID    string        `json:"questionId"`
	UserAnswer    string        `json:"userAnswer"`
	CorrectAnswer string        `json:"correctAnswer"`
	Correct       bool          `json:"isCorrect"`
	TimeTaken     time.Duration `json:"timeTaken"`
	Timestamp     time.Time     `json:"timestamp"`
}

// Settings configures a session. TimeLimit of zero means no per-question
// limit; the limit is a UI feature and is not enforced by the session.
type Settings struct {
	QuestionCount int
	TimeLimit     time.Duration
	EnableHints   bool
	EnableSounds  bool
	EnableHaptics bool
	Difficulty    Difficulty
}

// DefaultSettings returns the session defaults.
func DefaultSettings() Settings {
	return Settings{
		QuestionCount: 10,
		TimeLimit:     0,
		EnableHints:   true,
		EnableSounds:  false,
		EnableHaptics: true,
		Difficulty:    2,
	}
}

// SettingsPatch is a partial settings override; nil fields keep the current
// value.
type SettingsPatch struct {
	QuestionCount *int
	TimeLimit     *time.Duration
	EnableHints   *bool
	EnableSounds  *bool
	EnableHaptics *bool
	Difficulty    *Difficulty
}

// Apply merges a patch over s and returns the result.
func (s Settings) Apply(p *SettingsPatch) Settings {
	if p == nil {
		return s
	}
	if p.QuestionCount != nil {
		s.QuestionCount = *p.QuestionCount
	}
	if p.TimeLimit != nil {
		s.TimeLimit = *p.TimeLimit
	}
	if p.EnableHints != nil {
		s.EnableHints = *p.EnableHints
	}
	if p.EnableSounds != nil {
		s.EnableSounds = *p.EnableSounds
	}
	if p.EnableHaptics != nil {
		s.EnableHaptics = *p.EnableHaptics
	}
	if p.Difficulty != nil {
		s.Difficulty = *p.Difficulty
	}
	return s
}
