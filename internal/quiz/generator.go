package quiz

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/geoespana/geoquiz/internal/atlas"
)

// Generator builds questions from atlas locations. The random source is
// injected so tests can fix the seed; production callers pass nil for a
// time-seeded source.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator. A nil rng is seeded from the clock.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// QuestionFromLocation builds one question for a location. For multiple
// choice, pool supplies the distractor candidates; a small category yields
// fewer than four options.
func (g *Generator) QuestionFromLocation(loc atlas.Location, category atlas.Category, qt QuestionType, difficulty Difficulty, pool []atlas.Location) Question {
	q := Question{
		ID:            fmt.Sprintf("q-%s-%s", loc.ID, uuid.NewString()),
		Category:      category,
		Type:          qt,
		CorrectAnswer: loc.ID,
		Difficulty:    difficulty,
		Coordinates:   loc.Coordinates,
		ZoomLevel:     zoomForCategory(category),
		Tolerance:     toleranceForCategory(category),
	}

	region := loc.Region
	if region == "" {
		region = "Spain"
	}
	regionES := loc.Region
	if regionES == "" {
		regionES = "España"
	}
	nameES := loc.NameES
	if nameES == "" {
		nameES = loc.Name
	}

	switch qt {
	case MultipleChoice:
		q.Prompt = fmt.Sprintf("Where is %s located?", loc.Name)
		q.PromptES = fmt.Sprintf("¿Dónde está %s?", nameES)
		q.Hint = fmt.Sprintf("It's in %s", region)
		q.Options = g.multipleChoiceOptions(loc, pool, category)
	case PointAndIdentify:
		adjective := loc.Region
		if adjective == "" {
			adjective = "Spanish"
		}
		q.Prompt = fmt.Sprintf("Tap on the map where %s is located", loc.Name)
		q.PromptES = fmt.Sprintf("Toca en el mapa dónde está %s", nameES)
		q.Hint = fmt.Sprintf("It's in the %s region", adjective)
	case NameThatPlace:
		q.Prompt = "What is the name of this location?"
		q.PromptES = "¿Cuál es el nombre de este lugar?"
		q.Hint = fmt.Sprintf("It's located in %s", region)
	}

	q.HintES = fmt.Sprintf("Está en %s", regionES)

	return q
}

// multipleChoiceOptions picks up to three random distractors from the same
// category and shuffles the correct answer in among them.
func (g *Generator) multipleChoiceOptions(correct atlas.Location, pool []atlas.Location, category atlas.Category) []string {
	var candidates []string
	for _, loc := range pool {
		if loc.ID == correct.ID || atlas.CategoryOf(loc) != category {
			continue
		}
		candidates = append(candidates, loc.ID)
	}

	g.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if len(candidates) > 3 {
		candidates = candidates[:3]
	}

	options := append(candidates, correct.ID)
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// Questions generates up to count questions for a category. The matching
// locations are shuffled and taken in order; fewer matches than count is a
// valid, silent outcome and an empty pool yields an empty slice. A
// difficulty of zero assigns difficulty progressively by shuffled position.
func (g *Generator) Questions(locations []atlas.Location, category atlas.Category, types []QuestionType, count int, difficulty Difficulty) []Question {
	var pool []atlas.Location
	for _, loc := range locations {
		if atlas.CategoryOf(loc) == category {
			pool = append(pool, loc)
		}
	}
	if len(pool) == 0 || len(types) == 0 || count <= 0 {
		return nil
	}

	g.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	n := count
	if len(pool) < n {
		n = len(pool)
	}

	questions := make([]Question, 0, n)
	for i := 0; i < n; i++ {
		qt := types[g.rng.Intn(len(types))]
		d := difficulty
		if d == 0 {
			d = difficultyForIndex(i, len(pool))
		}
		questions = append(questions, g.QuestionFromLocation(pool[i], category, qt, d, pool))
	}

	return questions
}

// difficultyForIndex ramps difficulty by position in the shuffled order:
// 30% easy, 30% medium, 20% hard, 15% very hard, 5% expert.
func difficultyForIndex(index, total int) Difficulty {
	progress := float64(index) / float64(total)
	switch {
	case progress < 0.3:
		return 1
	case progress < 0.6:
		return 2
	case progress < 0.8:
		return 3
	case progress < 0.95:
		return 4
	default:
		return 5
	}
}

func zoomForCategory(category atlas.Category) int {
	switch category {
	case atlas.CategoryRegions:
		return 7
	case atlas.CategoryProvinces:
		return 8
	case atlas.CategoryCities:
		return 10
	case atlas.CategoryMunicipalities:
		return 12
	case atlas.CategoryRivers, atlas.CategoryMountainRanges:
		return 7
	case atlas.CategoryMountains, atlas.CategoryLakes:
		return 9
	default:
		return 7
	}
}

func toleranceForCategory(category atlas.Category) float64 {
	switch category {
	case atlas.CategoryRegions:
		return 100000
	case atlas.CategoryProvinces:
		return 75000
	case atlas.CategoryCities:
		return 50000
	case atlas.CategoryMunicipalities:
		return 25000
	case atlas.CategoryRivers:
		return 10000
	case atlas.CategoryMountainRanges:
		return 50000
	case atlas.CategoryMountains:
		return 5000
	case atlas.CategoryLakes:
		return 30000
	default:
		return 50000
	}
}
