package quiz

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/geoespana/geoquiz/internal/atlas"
)

// Session is the quiz state machine. It owns the active question list,
// score, streaks, and answer history. Invalid invocations (answering with no
// active quiz, advancing after completion) are silent no-ops returning a
// default value; callers gate on IsActive/IsComplete themselves.
//
// A session is a plain service object: construct one per consumer, not a
// process-wide global. It is not safe for concurrent use; all mutation is
// expected to happen on a single event loop.
type Session struct {
	id           string
	category     atlas.Category
	mode         Mode
	questions    []Question
	currentIndex int
	score        int
	answers      []Answer
	startTime    time.Time
	endTime      time.Time
	active       bool
	streak       int
	bestStreak   int

	questionStart time.Time
	settings      Settings

	now func() time.Time
}

// NewSession creates an idle session.
func NewSession() *Session {
	return &Session{settings: DefaultSettings(), now: time.Now}
}

// SetClock replaces the session's time source. Tests use this to make
// elapsed-time and bonus computation deterministic.
func (s *Session) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Start begins a new session, discarding any previous state. It always
// succeeds; the patch is merged over the default settings.
func (s *Session) Start(category atlas.Category, mode Mode, questions []Question, patch *SettingsPatch) {
	now := s.now()
	s.id = "quiz-" + uuid.NewString()
	s.category = category
	s.mode = mode
	s.questions = questions
	s.currentIndex = 0
	s.score = 0
	s.answers = nil
	s.startTime = now
	s.endTime = time.Time{}
	s.active = true
	s.streak = 0
	s.bestStreak = 0
	s.questionStart = now
	s.settings = DefaultSettings().Apply(patch)
}

// AnswerInput carries one submission. Value is the serialized answer: a
// location ID, or the JSON encoding of a [lon, lat] pair for map taps.
// TimeTaken of zero means "compute from the question start time". Validated
// carries a pre-computed correctness verdict for point-and-identify
// questions, since tolerance validation needs location data the session does
// not hold.
type AnswerInput struct {
	Value     string
	TimeTaken time.Duration
	Validated *bool
}

// Answer submits a response to the current question and reports whether it
// was correct. Scoring is skipped in practice mode. The answer record is
// appended even when incorrect; the caller advances with Next.
func (s *Session) Answer(in AnswerInput) bool {
	if !s.active || len(s.questions) == 0 {
		return false
	}
	if s.currentIndex >= len(s.questions) {
		return false
	}
	q := s.questions[s.currentIndex]

	taken := in.TimeTaken
	if taken == 0 && !s.questionStart.IsZero() {
		taken = s.now().Sub(s.questionStart)
	}

	var correct bool
	if q.Type == PointAndIdentify && in.Validated != nil {
		correct = *in.Validated
	} else {
		correct = in.Value == q.CorrectAnswer
	}

	points := 0
	if s.mode != ModePractice && correct {
		base := 10 * (float64(q.Difficulty) / 2)
		streakBonus := 0
		if s.streak > 0 {
			streakBonus = s.streak * 2
			if streakBonus > 10 {
				streakBonus = 10
			}
		}
		points = int(math.Round(base + float64(timeBonus(taken, q.Difficulty)) + float64(streakBonus)))
	}

	s.answers = append(s.answers, Answer{
		QuestionID:    q.ID,
		UserAnswer:    in.Value,
		CorrectAnswer: q.CorrectAnswer,
		Correct:       correct,
		TimeTaken:     taken,
		Timestamp:     s.now(),
	})
	s.score += points
	if correct {
		s.streak++
	} else {
		s.streak = 0
	}
	if s.streak > s.bestStreak {
		s.bestStreak = s.streak
	}

	return correct
}

// AnswerID submits a location-ID answer with auto-computed timing.
func (s *Session) AnswerID(locationID string) bool {
	return s.Answer(AnswerInput{Value: locationID})
}

// Next advances to the next question, ending the session when the list is
// exhausted.
func (s *Session) Next() {
	if !s.active {
		return
	}
	s.currentIndex++
	if s.currentIndex >= len(s.questions) {
		s.End()
		return
	}
	s.questionStart = s.now()
}

// Skip breaks the streak without recording an answer, then advances.
func (s *Session) Skip() {
	if !s.active {
		return
	}
	s.streak = 0
	s.Next()
}

// End closes the session. No-op if already inactive.
func (s *Session) End() {
	if !s.active {
		return
	}
	s.active = false
	s.endTime = s.now()
}

// Reset restores the idle state unconditionally.
func (s *Session) Reset() {
	clock := s.now
	*s = Session{settings: DefaultSettings(), now: clock}
}

// UpdateSettings merges a patch over the current settings.
func (s *Session) UpdateSettings(patch *SettingsPatch) {
	s.settings = s.settings.Apply(patch)
}

// CurrentQuestion returns the active question, or nil when the session is
// inactive or the index is out of range.
func (s *Session) CurrentQuestion() *Question {
	if !s.active || len(s.questions) == 0 || s.currentIndex >= len(s.questions) {
		return nil
	}
	q := s.questions[s.currentIndex]
	return &q
}

// Progress returns the percentage of the quiz reached, 0-100.
func (s *Session) Progress() int {
	if len(s.questions) == 0 {
		return 0
	}
	return int(math.Round(float64(s.currentIndex+1) / float64(len(s.questions)) * 100))
}

// Accuracy returns the percentage of recorded answers that were correct.
func (s *Session) Accuracy() int {
	if len(s.answers) == 0 {
		return 0
	}
	correct := 0
	for _, a := range s.answers {
		if a.Correct {
			correct++
		}
	}
	return int(math.Round(float64(correct) / float64(len(s.answers)) * 100))
}

// TimeElapsed returns the wall time spent in the session, using the end time
// once the session completes.
func (s *Session) TimeElapsed() time.Duration {
	if s.startTime.IsZero() {
		return 0
	}
	end := s.endTime
	if end.IsZero() {
		end = s.now()
	}
	return end.Sub(s.startTime)
}

// IsComplete reports whether the session ran and ended.
func (s *Session) IsComplete() bool {
	return !s.active && !s.endTime.IsZero()
}

// IsActive reports whether a session is in progress.
func (s *Session) IsActive() bool { return s.active }

// ID returns the session identifier, empty when idle.
func (s *Session) ID() string { return s.id }

// Category returns the session's quiz category.
func (s *Session) Category() atlas.Category { return s.category }

// Mode returns the session mode.
func (s *Session) Mode() Mode { return s.mode }

// Score returns the cumulative score.
func (s *Session) Score() int { return s.score }

// Streak returns the current run of consecutive correct answers.
func (s *Session) Streak() int { return s.streak }

// BestStreak returns the best streak observed this session.
func (s *Session) BestStreak() int { return s.bestStreak }

// CurrentIndex returns the zero-based index of the current question.
func (s *Session) CurrentIndex() int { return s.currentIndex }

// QuestionCount returns the number of questions in the session.
func (s *Session) QuestionCount() int { return len(s.questions) }

// Answers returns a copy of the answer history.
func (s *Session) Answers() []Answer {
	return append([]Answer(nil), s.answers...)
}

// CorrectCount returns the number of correct answers recorded.
func (s *Session) CorrectCount() int {
	n := 0
	for _, a := range s.answers {
		if a.Correct {
			n++
		}
	}
	return n
}

// Settings returns the session's effective settings.
func (s *Session) Settings() Settings { return s.settings }

// timeBonus rewards fast answers relative to a per-difficulty budget.
func timeBonus(taken time.Duration, difficulty Difficulty) int {
	budget := 60 * time.Second
	switch difficulty {
	case 1:
		budget = 30 * time.Second
	case 2:
		budget = 45 * time.Second
	case 3:
		budget = 60 * time.Second
	case 4:
		budget = 75 * time.Second
	case 5:
		budget = 90 * time.Second
	}

	switch {
	case taken <= budget/3:
		return 5
	case taken <= budget/2:
		return 3
	case taken <= budget:
		return 1
	default:
		return 0
	}
}
