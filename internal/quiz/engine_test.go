package quiz_test

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/geoespana/geoquiz/internal/atlas"
	"github.com/geoespana/geoquiz/internal/geo"
	"github.com/geoespana/geoquiz/internal/platform/storage"
	"github.com/geoespana/geoquiz/internal/progress"
	"github.com/geoespana/geoquiz/internal/quiz"
)

func testAtlas(t *testing.T) *atlas.Loader {
	t.Helper()
	dir := t.TempDir()
	data := `
locations:
  - id: madrid
    name: Madrid
    name_es: Madrid
    type: city
    coordinates: [-3.7038, 40.4168]
    region: comunidad-de-madrid
  - id: barcelona
    name: Barcelona
    name_es: Barcelona
    type: city
    coordinates: [2.1734, 41.3851]
    region: cataluna
    aliases: [BCN]
  - id: sevilla
    name: Seville
    name_es: Sevilla
    type: city
    coordinates: [-5.9845, 37.3891]
  - id: valencia
    name: Valencia
    name_es: Valencia
    type: city
    coordinates: [-0.3763, 39.4699]
  - id: ebro
    name: Ebro
    name_es: Ebro
    type: river
    coordinates: [0.87, 40.72]
`
	if err := os.WriteFile(filepath.Join(dir, "spain.yaml"), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	loader, err := atlas.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	return loader
}

func newTestEngine(t *testing.T) (*quiz.Engine, *progress.Store, *quiz.MemoryEventLogger) {
	t.Helper()
	st := progress.NewStore(storage.NewMemoryStore())
	st.Load(context.Background())
	events := quiz.NewMemoryEventLogger()

	engine := quiz.NewEngine(quiz.EngineConfig{
		Atlas:         testAtlas(t),
		Progress:      st,
		Generator:     quiz.NewGenerator(rand.New(rand.NewSource(1))),
		Events:        events,
		QuestionTypes: []quiz.QuestionType{quiz.MultipleChoice},
	})
	return engine, st, events
}

func TestEngine_StartQuiz(t *testing.T) {
	engine, _, events := newTestEngine(t)

	count := 3
	engine.StartQuiz(atlas.CategoryCities, quiz.ModeQuiz, &quiz.SettingsPatch{QuestionCount: &count})

	s := engine.Session()
	if !s.IsActive() {
		t.Fatal("session not active after StartQuiz")
	}
	if s.QuestionCount() != 3 {
		t.Errorf("QuestionCount = %d, want 3", s.QuestionCount())
	}
	if s.Category() != atlas.CategoryCities {
		t.Errorf("Category = %q, want cities", s.Category())
	}

	logged := events.Events()
	if len(logged) != 1 || logged[0].EventType != quiz.EventQuizStarted {
		t.Errorf("events = %+v, want one quiz_started", logged)
	}
}

func TestEngine_StartQuiz_EmptyCategory(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	engine.StartQuiz(atlas.CategoryLakes, quiz.ModeQuiz, nil)

	s := engine.Session()
	if !s.IsActive() {
		t.Error("an empty category still starts a session")
	}
	if s.QuestionCount() != 0 {
		t.Errorf("QuestionCount = %d, want 0", s.QuestionCount())
	}
}

func TestEngine_AnswerLocation(t *testing.T) {
	engine, _, events := newTestEngine(t)
	ctx := context.Background()

	engine.StartQuiz(atlas.CategoryCities, quiz.ModeQuiz, nil)
	q := engine.Session().CurrentQuestion()

	if !engine.AnswerLocation(ctx, q.CorrectAnswer) {
		t.Error("correct ID reported incorrect")
	}
	if engine.AnswerLocation(ctx, "nowhere") {
		t.Error("unknown ID reported correct")
	}

	var submitted int
	for _, e := range events.Events() {
		if e.EventType == quiz.EventAnswerSubmitted {
			submitted++
		}
	}
	if submitted != 2 {
		t.Errorf("answer_submitted events = %d, want 2", submitted)
	}
}

func TestEngine_AnswerName(t *testing.T) {
	tests := []struct {
		name  string
		typed func(correctID string) string
		want  bool
	}{
		{"exact-id-name", func(id string) string {
			switch id {
			case "madrid":
				return "Madrid"
			case "barcelona":
				return "Barcelona"
			case "sevilla":
				return "Seville"
			case "valencia":
				return "Valencia"
			}
			return id
		}, true},
		{"unknown-name", func(string) string { return "Atlantis" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _, _ := newTestEngine(t)
			engine.StartQuiz(atlas.CategoryCities, quiz.ModeQuiz, nil)

			q := engine.Session().CurrentQuestion()
			got := engine.AnswerName(context.Background(), tt.typed(q.CorrectAnswer))
			if got != tt.want {
				t.Errorf("AnswerName() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEngine_AnswerName_AccentInsensitive(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	engine.StartQuiz(atlas.CategoryCities, quiz.ModeQuiz, nil)

	q := engine.Session().CurrentQuestion()
	if q.CorrectAnswer != "sevilla" {
		// Walk until sevilla comes up; the seeded shuffle makes this stable
		// but not position-dependent.
		for engine.Session().IsActive() && engine.Session().CurrentQuestion().CorrectAnswer != "sevilla" {
			engine.SkipQuestion(context.Background())
		}
	}
	if !engine.Session().IsActive() {
		t.Skip("sevilla not in this question set")
	}

	if !engine.AnswerName(context.Background(), "sevílla") {
		t.Error("accented spelling should match through normalization")
	}
}

func TestEngine_AnswerCoordinates(t *testing.T) {
	madrid := geo.Point{-3.7038, 40.4168}
	toledo := geo.Point{-4.0273, 39.8628} // ~72km away, outside city tolerance

	tests := []struct {
		name string
		tap  geo.Point
		want bool
	}{
		{"exact-tap", madrid, true},
		{"nearby-tap", geo.Point{-3.70, 40.50}, true},
		{"far-tap", toledo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := quiz.NewEngine(quiz.EngineConfig{
				Atlas:         testAtlas(t),
				Generator:     quiz.NewGenerator(rand.New(rand.NewSource(1))),
				QuestionTypes: []quiz.QuestionType{quiz.PointAndIdentify},
			})

			engine.StartQuiz(atlas.CategoryCities, quiz.ModeQuiz, nil)
			for engine.Session().IsActive() && engine.Session().CurrentQuestion().CorrectAnswer != "madrid" {
				engine.SkipQuestion(context.Background())
			}
			if !engine.Session().IsActive() {
				t.Skip("madrid not in this question set")
			}

			if got := engine.AnswerCoordinates(context.Background(), tt.tap); got != tt.want {
				t.Errorf("AnswerCoordinates(%v) = %v, want %v", tt.tap, got, tt.want)
			}
		})
	}
}

func TestEngine_AnswerCoordinates_NoActiveQuestion(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	if engine.AnswerCoordinates(context.Background(), geo.Point{0, 0}) {
		t.Error("AnswerCoordinates with no session should return false")
	}
}

func TestEngine_CompletionFlushesProgress(t *testing.T) {
	engine, st, events := newTestEngine(t)
	ctx := context.Background()

	count := 2
	engine.StartQuiz(atlas.CategoryCities, quiz.ModeQuiz, &quiz.SettingsPatch{QuestionCount: &count})

	engine.AnswerLocation(ctx, engine.Session().CurrentQuestion().CorrectAnswer)
	engine.NextQuestion(ctx)
	engine.AnswerLocation(ctx, "wrong")
	engine.NextQuestion(ctx)

	if !engine.Session().IsComplete() {
		t.Fatal("session not complete")
	}

	p := st.Progress()
	if p.TotalQuizzes != 1 {
		t.Errorf("TotalQuizzes = %d, want 1", p.TotalQuizzes)
	}
	if p.TotalQuestions != 2 {
		t.Errorf("TotalQuestions = %d, want 2", p.TotalQuestions)
	}
	if p.CorrectAnswers != 1 {
		t.Errorf("CorrectAnswers = %d, want 1", p.CorrectAnswers)
	}
	if p.StudyStreak != 1 {
		t.Errorf("StudyStreak = %d, want 1 after first completed quiz", p.StudyStreak)
	}

	var completed int
	for _, e := range events.Events() {
		if e.EventType == quiz.EventQuizCompleted {
			completed++
		}
	}
	if completed != 1 {
		t.Errorf("quiz_completed events = %d, want 1", completed)
	}
}

func TestEngine_CompletionFlushOnce(t *testing.T) {
	engine, st, _ := newTestEngine(t)
	ctx := context.Background()

	count := 1
	engine.StartQuiz(atlas.CategoryCities, quiz.ModeQuiz, &quiz.SettingsPatch{QuestionCount: &count})
	engine.AnswerLocation(ctx, engine.Session().CurrentQuestion().CorrectAnswer)
	engine.NextQuestion(ctx)

	// Redundant end calls after completion must not double-count.
	engine.EndQuiz(ctx)
	engine.NextQuestion(ctx)

	if got := st.Progress().TotalQuizzes; got != 1 {
		t.Errorf("TotalQuizzes = %d after redundant end calls, want 1", got)
	}
}

func TestEngine_AllSkippedLeavesProgressUntouched(t *testing.T) {
	engine, st, _ := newTestEngine(t)
	ctx := context.Background()

	count := 2
	engine.StartQuiz(atlas.CategoryCities, quiz.ModeQuiz, &quiz.SettingsPatch{QuestionCount: &count})
	engine.SkipQuestion(ctx)
	engine.SkipQuestion(ctx)

	if !engine.Session().IsComplete() {
		t.Fatal("session not complete after skipping everything")
	}
	if got := st.Progress().TotalQuizzes; got != 0 {
		t.Errorf("TotalQuizzes = %d, want 0 when no answers were recorded", got)
	}
}

func TestEngine_EndQuizEarly(t *testing.T) {
	engine, st, _ := newTestEngine(t)
	ctx := context.Background()

	engine.StartQuiz(atlas.CategoryCities, quiz.ModeQuiz, nil)
	engine.AnswerLocation(ctx, engine.Session().CurrentQuestion().CorrectAnswer)
	engine.EndQuiz(ctx)

	if !engine.Session().IsComplete() {
		t.Error("EndQuiz should complete the session")
	}
	if got := st.Progress().TotalQuizzes; got != 1 {
		t.Errorf("TotalQuizzes = %d after early end with answers, want 1", got)
	}
}

func TestEngine_Reset(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	engine.StartQuiz(atlas.CategoryCities, quiz.ModeQuiz, nil)
	engine.Reset()

	if engine.Session().IsActive() || engine.Session().IsComplete() {
		t.Error("Reset should return the engine to idle")
	}

	// Reusable after a reset.
	engine.StartQuiz(atlas.CategoryRivers, quiz.ModeQuiz, nil)
	if !engine.Session().IsActive() {
		t.Error("engine not reusable after Reset")
	}
}

func TestEngine_NilProgressStore(t *testing.T) {
	engine := quiz.NewEngine(quiz.EngineConfig{
		Atlas:         testAtlas(t),
		Generator:     quiz.NewGenerator(rand.New(rand.NewSource(1))),
		QuestionTypes: []quiz.QuestionType{quiz.MultipleChoice},
	})
	ctx := context.Background()

	count := 1
	engine.StartQuiz(atlas.CategoryCities, quiz.ModeQuiz, &quiz.SettingsPatch{QuestionCount: &count})
	engine.AnswerLocation(ctx, "anything")
	engine.NextQuestion(ctx)

	if !engine.Session().IsComplete() {
		t.Error("engine without a progress store should still complete sessions")
	}
}
