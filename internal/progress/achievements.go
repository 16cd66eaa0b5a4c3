package progress

// Achievement describes one unlockable badge.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
}

// AchievementCatalog lists every badge the app can award.
var AchievementCatalog = []Achievement{
	{ID: "first-quiz", Name: "First Steps", Description: "Complete your first quiz", Icon: "flag"},
	{ID: "perfect-quiz", Name: "Flawless", Description: "Answer every question in a quiz correctly", Icon: "star"},
	{ID: "high-score-100", Name: "Century", Description: "Score 100 points or more in a single quiz", Icon: "trophy"},
	{ID: "century-club", Name: "Century Club", Description: "Answer 100 questions", Icon: "medal"},
	{ID: "all-rounder", Name: "All-Rounder", Description: "Complete a quiz in every category", Icon: "globe"},
	{ID: "week-streak", Name: "Dedicated", Description: "Study seven days in a row", Icon: "fire"},
}

// quizResult carries the just-completed quiz figures into achievement
// checks. streakOnly marks a study-streak update with no quiz attached.
type quizResult struct {
	score          int
	totalQuestions int
	correctAnswers int
	streakOnly     bool
}

func (st *Store) unlockAchievements(r quizResult) {
	p := st.progress

	if !r.streakOnly {
		if p.TotalQuizzes >= 1 {
			st.unlock("first-quiz")
		}
		if r.totalQuestions > 0 && r.correctAnswers == r.totalQuestions {
			st.unlock("perfect-quiz")
		}
		if r.score >= 100 {
			st.unlock("high-score-100")
		}
		if p.TotalQuestions >= 100 {
			st.unlock("century-club")
		}
		allCategories := true
		for _, cs := range p.CategoryStats {
			if cs.QuizzesCompleted == 0 {
				allCategories = false
				break
			}
		}
		if allCategories && len(p.CategoryStats) > 0 {
			st.unlock("all-rounder")
		}
	}

	if p.StudyStreak >= 7 {
		st.unlock("week-streak")
	}
}

func (st *Store) unlock(id string) {
	for _, have := range st.progress.Achievements {
		if have == id {
			return
		}
	}
	st.progress.Achievements = append(st.progress.Achievements, id)
}
