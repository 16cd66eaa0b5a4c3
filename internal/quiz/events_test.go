package quiz_test

import (
	"testing"

	"github.com/geoespana/geoquiz/internal/quiz"
)

func TestMemoryEventLogger(t *testing.T) {
	l := quiz.NewMemoryEventLogger()

	err := l.LogEvent(quiz.Event{
		SessionID: "quiz-1",
		EventType: quiz.EventQuizStarted,
		Data:      map[string]any{"mode": "quiz"},
	})
	if err != nil {
		t.Fatalf("LogEvent() error = %v", err)
	}

	events := l.Events()
	if len(events) != 1 {
		t.Fatalf("Events() = %d, want 1", len(events))
	}
	if events[0].EventType != quiz.EventQuizStarted {
		t.Errorf("EventType = %q, want quiz_started", events[0].EventType)
	}
	if events[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not defaulted")
	}
}

func TestMemoryEventLogger_RequiresType(t *testing.T) {
	l := quiz.NewMemoryEventLogger()

	if err := l.LogEvent(quiz.Event{SessionID: "quiz-1"}); err == nil {
		t.Error("LogEvent() with empty event_type should fail")
	}
	if len(l.Events()) != 0 {
		t.Error("rejected event should not be stored")
	}
}

func TestMemoryEventLogger_EventsReturnsCopy(t *testing.T) {
	l := quiz.NewMemoryEventLogger()
	l.LogEvent(quiz.Event{SessionID: "quiz-1", EventType: quiz.EventQuizCompleted})

	events := l.Events()
	events[0].EventType = "mutated"

	if got := l.Events()[0].EventType; got != quiz.EventQuizCompleted {
		t.Errorf("EventType = %q after caller mutation, want quiz_completed", got)
	}
}
