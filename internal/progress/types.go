// Package progress aggregates completed-quiz results into long-lived
// statistics and persists them as a single JSON document in blob storage.
package progress

import "github.com/geoespana/geoquiz/internal/atlas"

// CategoryStats holds the per-category aggregates. Accuracy is a percentage
// recomputed on every update; AverageScore is a running mean over completed
// quizzes.
type CategoryStats struct {
	QuizzesCompleted  int     `json:"quizzesCompleted"`
	QuestionsAnswered int     `json:"questionsAnswered"`
	CorrectAnswers    int     `json:"correctAnswers"`
	Accuracy          float64 `json:"accuracy"`
	BestScore         int     `json:"bestScore"`
	AverageScore      float64 `json:"averageScore"`
}

// UserProgress is the persisted progress document. LastStudyDate is epoch
// milliseconds, 0 meaning never.
type UserProgress struct {
	TotalQuizzes   int                              `json:"totalQuizzes"`
	TotalQuestions int                              `json:"totalQuestions"`
	CorrectAnswers int                              `json:"correctAnswers"`
	Accuracy       float64                          `json:"accuracy"`
	BestScore      int                              `json:"bestScore"`
	CategoryStats  map[atlas.Category]CategoryStats `json:"categoryStats"`
	Achievements   []string                         `json:"achievements"`
	StudyStreak    int                              `json:"studyStreak"`
	LastStudyDate  int64                            `json:"lastStudyDate"`
}

// newUserProgress returns the all-zero default with every category
// pre-populated.
func newUserProgress() *UserProgress {
	stats := make(map[atlas.Category]CategoryStats, len(atlas.Categories()))
	for _, c := range atlas.Categories() {
		stats[c] = CategoryStats{}
	}
	return &UserProgress{
		CategoryStats: stats,
		Achievements:  []string{},
	}
}
