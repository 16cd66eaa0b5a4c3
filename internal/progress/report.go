package progress

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/geoespana/geoquiz/internal/atlas"
)

// WriteReport exports the current progress to an .xlsx workbook with an
// overview sheet and a per-category sheet. Returns an error if no progress
// has been loaded.
func (st *Store) WriteReport(path string) error {
	p := st.Progress()
	if p == nil {
		return fmt.Errorf("no progress loaded")
	}

	f := excelize.NewFile()
	defer f.Close()

	const overview = "Overview"
	if err := f.SetSheetName("Sheet1", overview); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := []struct {
		label string
		value any
	}{
		{"Total quizzes", p.TotalQuizzes},
		{"Total questions", p.TotalQuestions},
		{"Correct answers", p.CorrectAnswers},
		{"Accuracy (%)", round1(p.Accuracy)},
		{"Best score", p.BestScore},
		{"Study streak (days)", p.StudyStreak},
		{"Achievements", len(p.Achievements)},
	}
	for i, r := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetCellValue(overview, cell, r.label); err != nil {
			return fmt.Errorf("write overview: %w", err)
		}
		cell = fmt.Sprintf("B%d", i+1)
		if err := f.SetCellValue(overview, cell, r.value); err != nil {
			return fmt.Errorf("write overview: %w", err)
		}
	}

	const categories = "Categories"
	if _, err := f.NewSheet(categories); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	header := []string{"Category", "Quizzes", "Questions", "Correct", "Accuracy (%)", "Best score", "Average score"}
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(categories, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, c := range atlas.Categories() {
		cs := p.CategoryStats[c]
		values := []any{string(c), cs.QuizzesCompleted, cs.QuestionsAnswered, cs.CorrectAnswers, round1(cs.Accuracy), cs.BestScore, round1(cs.AverageScore)}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(categories, cell, v); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
