package progress

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/geoespana/geoquiz/internal/atlas"
	"github.com/geoespana/geoquiz/internal/platform/storage"
)

// StorageKey is the fixed key of the persisted progress document.
const StorageKey = "@spain_geography_progress"

const dayMillis = 24 * 60 * 60 * 1000

// Store owns the user's progress document. Construct one per process and
// pass it by reference; each mutation persists immediately. Storage failures
// are logged and masked — they never abort a quiz session.
type Store struct {
	storage  storage.Store
	progress *UserProgress
	now      func() time.Time
}

// NewStore creates a progress store over the given blob storage.
func NewStore(s storage.Store) *Store {
	return &Store{storage: s, now: time.Now}
}

// SetClock replaces the time source, used by study-streak tests.
func (st *Store) SetClock(now func() time.Time) {
	if now != nil {
		st.now = now
	}
}

// Load reads the persisted document, falling back to the zeroed default on
// a missing key or a read/decode failure. A fresh default is persisted
// immediately so the document exists from first launch.
func (st *Store) Load(ctx context.Context) {
	data, err := st.storage.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("loading progress", "error", err)
		}
		st.progress = newUserProgress()
		st.Save(ctx)
		return
	}

	var p UserProgress
	if err := json.Unmarshal(data, &p); err != nil {
		slog.Error("decoding progress, resetting to defaults", "error", err)
		st.progress = newUserProgress()
		st.Save(ctx)
		return
	}
	if p.CategoryStats == nil {
		p.CategoryStats = newUserProgress().CategoryStats
	}
	if p.Achievements == nil {
		p.Achievements = []string{}
	}
	st.progress = &p
}

// Save persists the full current document. Failures are logged, not
// returned; the in-memory state stays authoritative.
func (st *Store) Save(ctx context.Context) {
	if st.progress == nil {
		return
	}
	data, err := json.Marshal(st.progress)
	if err != nil {
		slog.Error("encoding progress", "error", err)
		return
	}
	if err := st.storage.Set(ctx, StorageKey, data); err != nil {
		slog.Error("saving progress", "error", err)
	}
}

// UpdateFromQuiz folds one completed quiz into the category and overall
// aggregates, evaluates achievements, and persists.
func (st *Store) UpdateFromQuiz(ctx context.Context, category atlas.Category, score, totalQuestions, correctAnswers int) {
	if st.progress == nil {
		return
	}
	p := st.progress

	cs := p.CategoryStats[category]
	cs.QuizzesCompleted++
	cs.QuestionsAnswered += totalQuestions
	cs.CorrectAnswers += correctAnswers
	if cs.QuestionsAnswered > 0 {
		cs.Accuracy = float64(cs.CorrectAnswers) / float64(cs.QuestionsAnswered) * 100
	}
	if score > cs.BestScore {
		cs.BestScore = score
	}
	n := cs.QuizzesCompleted
	cs.AverageScore = (cs.AverageScore*float64(n-1) + float64(score)) / float64(n)
	p.CategoryStats[category] = cs

	p.TotalQuizzes++
	p.TotalQuestions += totalQuestions
	p.CorrectAnswers += correctAnswers
	if p.TotalQuestions > 0 {
		p.Accuracy = float64(p.CorrectAnswers) / float64(p.TotalQuestions) * 100
	}
	if score > p.BestScore {
		p.BestScore = score
	}

	st.unlockAchievements(quizResult{
		score:          score,
		totalQuestions: totalQuestions,
		correctAnswers: correctAnswers,
	})

	st.Save(ctx)
}

// UpdateStudyStreak applies the day-boundary rule: same day keeps the
// streak, a one-day gap increments it, anything else resets to 1. The "day"
// here is a fixed 24 h window from the stored millisecond timestamp, not a
// calendar day, so DST shifts can miscount — kept as-is from the original
// app.
func (st *Store) UpdateStudyStreak(ctx context.Context) {
	if st.progress == nil {
		return
	}
	p := st.progress

	now := st.now().UnixMilli()
	switch {
	case p.LastStudyDate == 0:
		p.StudyStreak = 1
	default:
		days := (now - p.LastStudyDate) / dayMillis
		switch days {
		case 0:
			// Same day; streak unchanged.
		case 1:
			p.StudyStreak++
		default:
			p.StudyStreak = 1
		}
	}
	p.LastStudyDate = now

	st.unlockAchievements(quizResult{streakOnly: true})

	st.Save(ctx)
}

// Reset deletes the persisted document and reinitializes to defaults.
func (st *Store) Reset(ctx context.Context) {
	if err := st.storage.Delete(ctx, StorageKey); err != nil {
		slog.Error("deleting progress", "error", err)
	}
	st.progress = newUserProgress()
	st.Save(ctx)
}

// CategoryStats returns a copy of one category's stats, or nil when no
// progress has been loaded.
func (st *Store) CategoryStats(category atlas.Category) *CategoryStats {
	if st.progress == nil {
		return nil
	}
	cs, ok := st.progress.CategoryStats[category]
	if !ok {
		return nil
	}
	return &cs
}

// Progress returns a snapshot of the current document, or nil before Load.
func (st *Store) Progress() *UserProgress {
	if st.progress == nil {
		return nil
	}
	snapshot := *st.progress
	snapshot.CategoryStats = make(map[atlas.Category]CategoryStats, len(st.progress.CategoryStats))
	for c, cs := range st.progress.CategoryStats {
		snapshot.CategoryStats[c] = cs
	}
	snapshot.Achievements = append([]string(nil), st.progress.Achievements...)
	return &snapshot
}
