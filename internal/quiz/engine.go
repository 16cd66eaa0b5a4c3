package quiz

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/geoespana/geoquiz/internal/atlas"
	"github.com/geoespana/geoquiz/internal/geo"
	"github.com/geoespana/geoquiz/internal/progress"
)

// EngineConfig holds dependencies for the quiz engine.
type EngineConfig struct {
	Atlas         *atlas.Loader
	Progress      *progress.Store
	Generator     *Generator // nil for a time-seeded generator
	Events        EventLogger
	QuestionTypes []QuestionType // defaults to all three kinds
}

// Engine drives one quiz at a time: it generates questions from the atlas,
// runs the session state machine, validates coordinate answers against
// location data, and flushes results into the progress store when a session
// completes. The session itself never touches the atlas or storage; that
// layering matches the original app, where tolerance validation lived
// outside the state store.
type Engine struct {
	atlas         *atlas.Loader
	progress      *progress.Store
	generator     *Generator
	events        EventLogger
	questionTypes []QuestionType

	session *Session
	flushed bool
}

// NewEngine creates a quiz engine.
func NewEngine(cfg EngineConfig) *Engine {
	gen := cfg.Generator
	if gen == nil {
		gen = NewGenerator(nil)
	}
	events := cfg.Events
	if events == nil {
		events = NopEventLogger{}
	}
	types := cfg.QuestionTypes
	if len(types) == 0 {
		types = AllQuestionTypes()
	}
	return &Engine{
		atlas:         cfg.Atlas,
		progress:      cfg.Progress,
		generator:     gen,
		events:        events,
		questionTypes: types,
		session:       NewSession(),
	}
}

// Session exposes the underlying state machine for read access.
func (e *Engine) Session() *Session { return e.session }

// StartQuiz generates a question set for the category and starts a session.
// A category with no locations yields an empty session that completes on the
// first Next call; that is a valid, silent outcome.
func (e *Engine) StartQuiz(category atlas.Category, mode Mode, patch *SettingsPatch) {
	settings := DefaultSettings().Apply(patch)

	// Difficulty ramps by position unless the caller pinned one explicitly.
	var difficulty Difficulty
	if patch != nil && patch.Difficulty != nil {
		difficulty = *patch.Difficulty
	}
	questions := e.generator.Questions(e.atlas.All(), category, e.questionTypes, settings.QuestionCount, difficulty)

	e.session.Start(category, mode, questions, patch)
	e.flushed = false

	slog.Info("quiz started",
		"session_id", e.session.ID(),
		"category", category,
		"mode", mode,
		"questions", len(questions),
	)
	e.logEvent(EventQuizStarted, map[string]any{
		"mode":      string(mode),
		"questions": len(questions),
	})
}

// AnswerLocation submits a location-ID answer (multiple choice taps).
func (e *Engine) AnswerLocation(_ context.Context, locationID string) bool {
	correct := e.session.AnswerID(locationID)
	e.logAnswer(locationID, correct)
	return correct
}

// AnswerName submits a typed name, resolving it through the atlas with
// accent-insensitive matching. An unrecognized name is submitted as-is and
// scored incorrect by the session.
func (e *Engine) AnswerName(_ context.Context, name string) bool {
	value := name
	if loc, ok := e.atlas.Match(name); ok {
		value = loc.ID
	}
	correct := e.session.AnswerID(value)
	e.logAnswer(value, correct)
	return correct
}

// AnswerCoordinates submits a map tap for a point-and-identify question.
// Tolerance validation happens here, where location data is available; the
// session only records the verdict. The tap is stored as the JSON encoding
// of the [lon, lat] pair.
func (e *Engine) AnswerCoordinates(_ context.Context, point geo.Point) bool {
	q := e.session.CurrentQuestion()
	if q == nil {
		return false
	}

	valid := false
	if loc, ok := e.atlas.ByID(q.CorrectAnswer); ok {
		valid = geo.ValidatePoint(point, loc.Coordinates, string(loc.Type), q.Tolerance)
	}

	serialized, err := json.Marshal(point)
	if err != nil {
		serialized = []byte("[]")
	}

	correct := e.session.Answer(AnswerInput{Value: string(serialized), Validated: &valid})
	e.logAnswer(string(serialized), correct)
	return correct
}

// NextQuestion advances the session, flushing progress if it completed.
func (e *Engine) NextQuestion(ctx context.Context) {
	e.session.Next()
	e.maybeFinish(ctx)
}

// SkipQuestion skips the current question (streak break, no answer record).
func (e *Engine) SkipQuestion(ctx context.Context) {
	q := e.session.CurrentQuestion()
	e.session.Skip()
	if q != nil {
		e.logEvent(EventQuestionSkipped, map[string]any{"question_id": q.ID})
	}
	e.maybeFinish(ctx)
}

// EndQuiz ends the session early and flushes progress.
func (e *Engine) EndQuiz(ctx context.Context) {
	e.session.End()
	e.maybeFinish(ctx)
}

// Reset restores the idle state without recording anything.
func (e *Engine) Reset() {
	e.session.Reset()
	e.flushed = false
}

// maybeFinish records a completed session into the progress store exactly
// once. Sessions with no recorded answers (all skipped, or never started)
// leave progress untouched, matching the original app.
func (e *Engine) maybeFinish(ctx context.Context) {
	if e.flushed || !e.session.IsComplete() {
		return
	}
	e.flushed = true

	answers := e.session.Answers()
	e.logEvent(EventQuizCompleted, map[string]any{
		"score":       e.session.Score(),
		"answers":     len(answers),
		"correct":     e.session.CorrectCount(),
		"best_streak": e.session.BestStreak(),
	})

	if len(answers) == 0 || e.progress == nil {
		return
	}

	e.progress.UpdateFromQuiz(ctx,
		e.session.Category(),
		e.session.Score(),
		e.session.QuestionCount(),
		e.session.CorrectCount(),
	)
	e.progress.UpdateStudyStreak(ctx)

	slog.Info("quiz completed",
		"session_id", e.session.ID(),
		"score", e.session.Score(),
		"accuracy", e.session.Accuracy(),
	)
}

func (e *Engine) logAnswer(value string, correct bool) {
	if !e.session.IsActive() && !e.session.IsComplete() {
		return
	}
	e.logEvent(EventAnswerSubmitted, map[string]any{
		"answer":  value,
		"correct": correct,
		"streak":  e.session.Streak(),
	})
}

func (e *Engine) logEvent(eventType string, data map[string]any) {
	err := e.events.LogEvent(Event{
		SessionID: e.session.ID(),
		Category:  string(e.session.Category()),
		EventType: eventType,
		Data:      data,
	})
	if err != nil {
		slog.Warn("event logging failed", "type", eventType, "error", err)
	}
}
