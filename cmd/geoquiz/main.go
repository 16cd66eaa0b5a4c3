package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geoespana/geoquiz/internal/atlas"
	"github.com/geoespana/geoquiz/internal/platform/config"
	"github.com/geoespana/geoquiz/internal/platform/storage"
	"github.com/geoespana/geoquiz/internal/progress"
	"github.com/geoespana/geoquiz/internal/quiz"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(newLogHandler(cfg.Log))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:]); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string) error {
	cmd := "play"
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	store, pool, closeStore, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer closeStore()

	events, err := newEventLogger(ctx, cfg, pool)
	if err != nil {
		return fmt.Errorf("creating event logger: %w", err)
	}

	progressStore := progress.NewStore(store)
	progressStore.Load(ctx)

	switch cmd {
	case "play":
		return runPlay(ctx, cfg, progressStore, events, args)
	case "stats":
		return runStats(os.Stdout, progressStore)
	case "export":
		return runExport(progressStore, args)
	case "reset":
		progressStore.Reset(ctx)
		fmt.Println("Progress reset.")
		return nil
	case "help":
		printUsage(os.Stdout)
		return nil
	default:
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// openStorage builds the configured persistence backend. The pool is non-nil
// only for the postgres backend, so other consumers (the event logger) can
// share the connection. The returned close function is a no-op for backends
// without connections.
func openStorage(ctx context.Context, cfg *config.Config) (storage.Store, *pgxpool.Pool, func(), error) {
	switch cfg.Storage.Backend {
	case "redis":
		store, err := storage.NewRedisStore(ctx, cfg.Cache.URL)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, nil, func() { _ = store.Close() }, nil
	case "postgres":
		pool, err := storage.NewPostgresPool(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return nil, nil, nil, err
		}
		store, err := storage.NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return store, pool, func() { store.Close() }, nil
	default:
		store, err := storage.NewFileStore(cfg.Storage.FileDir)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, nil, func() {}, nil
	}
}

// newEventLogger builds the analytics logger. Events require the postgres
// backend (enforced by config.Validate); everything else gets the no-op
// logger.
func newEventLogger(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (quiz.EventLogger, error) {
	if !cfg.Quiz.EnableEvents || pool == nil {
		return quiz.NopEventLogger{}, nil
	}
	return quiz.NewPostgresEventLogger(ctx, pool)
}

func runPlay(ctx context.Context, cfg *config.Config, progressStore *progress.Store, events quiz.EventLogger, args []string) error {
	category := atlas.CategoryCities
	if len(args) > 0 {
		category = atlas.Category(args[0])
	}
	if !validCategory(category) {
		return fmt.Errorf("unknown category %q (valid: %s)", category, categoryList())
	}

	mode := quiz.ModeQuiz
	if len(args) > 1 {
		mode = quiz.Mode(args[1])
	}

	loader, err := atlas.NewLoader(cfg.Data.Dir)
	if err != nil {
		return err
	}
	if loader.Len() == 0 {
		return fmt.Errorf("no locations found under %s", cfg.Data.Dir)
	}

	engine := quiz.NewEngine(quiz.EngineConfig{
		Atlas:    loader,
		Progress: progressStore,
		Events:   events,
	})

	count := cfg.Quiz.QuestionCount
	engine.StartQuiz(category, mode, &quiz.SettingsPatch{QuestionCount: &count})
	if engine.Session().QuestionCount() == 0 {
		return fmt.Errorf("no questions available for category %q", category)
	}

	return playLoop(ctx, engine, os.Stdin, os.Stdout)
}

// playLoop runs the interactive question prompt until the session completes
// or input ends. Reader and writer are parameters so tests can drive it.
func playLoop(ctx context.Context, engine *quiz.Engine, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	session := engine.Session()

	for session.IsActive() {
		select {
		case <-ctx.Done():
			engine.EndQuiz(context.Background())
			fmt.Fprintln(out, "\nQuiz interrupted.")
			return nil
		default:
		}

		q := session.CurrentQuestion()
		if q == nil {
			break
		}

		fmt.Fprintf(out, "\n[%d/%d] %s\n", session.CurrentIndex()+1, session.QuestionCount(), q.Prompt)
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
		}
		fmt.Fprint(out, "> ")

		if !scanner.Scan() {
			engine.EndQuiz(ctx)
			break
		}
		input := strings.TrimSpace(scanner.Text())

		switch input {
		case "":
			continue
		case "skip":
			engine.SkipQuestion(ctx)
			continue
		case "quit":
			engine.EndQuiz(ctx)
		default:
			answer := resolveOption(q, input)
			if engine.AnswerName(ctx, answer) {
				fmt.Fprintf(out, "Correct! Score: %d, streak: %d\n", session.Score(), session.Streak())
			} else {
				fmt.Fprintf(out, "Wrong. The answer was %s.\n", q.CorrectAnswer)
			}
			engine.NextQuestion(ctx)
		}
	}

	fmt.Fprintf(out, "\nFinal score: %d (%d%% accuracy, best streak %d)\n",
		session.Score(), session.Accuracy(), session.BestStreak())
	return scanner.Err()
}

// resolveOption maps a numeric choice onto the question's options; anything
// else is treated as a typed name.
func resolveOption(q *quiz.Question, input string) string {
	if len(q.Options) == 0 {
		return input
	}
	var n int
	if _, err := fmt.Sscanf(input, "%d", &n); err != nil {
		return input
	}
	if n < 1 || n > len(q.Options) {
		return input
	}
	return q.Options[n-1]
}

func runStats(out io.Writer, progressStore *progress.Store) error {
	p := progressStore.Progress()
	if p == nil {
		return fmt.Errorf("no progress loaded")
	}

	fmt.Fprintf(out, "Quizzes completed: %d\n", p.TotalQuizzes)
	fmt.Fprintf(out, "Questions answered: %d\n", p.TotalQuestions)
	fmt.Fprintf(out, "Overall accuracy: %.1f%%\n", p.Accuracy)
	fmt.Fprintf(out, "Best score: %d\n", p.BestScore)
	fmt.Fprintf(out, "Study streak: %d days\n", p.StudyStreak)
	fmt.Fprintf(out, "Achievements: %d\n", len(p.Achievements))

	for _, c := range atlas.Categories() {
		cs := p.CategoryStats[c]
		if cs.QuizzesCompleted == 0 {
			continue
		}
		fmt.Fprintf(out, "  %-20s %d quizzes, %.1f%% accuracy, best %d\n",
			c, cs.QuizzesCompleted, cs.Accuracy, cs.BestScore)
	}
	return nil
}

func runExport(progressStore *progress.Store, args []string) error {
	path := "geoquiz-report.xlsx"
	if len(args) > 0 {
		path = args[0]
	}
	if err := progressStore.WriteReport(path); err != nil {
		return err
	}
	fmt.Printf("Report written to %s\n", path)
	return nil
}

func newLogHandler(cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if cfg.Format == "text" {
		return slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.NewJSONHandler(os.Stderr, opts)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func validCategory(c atlas.Category) bool {
	for _, known := range atlas.Categories() {
		if c == known {
			return true
		}
	}
	return false
}

func categoryList() string {
	categories := atlas.Categories()
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func printUsage(out io.Writer) {
	fmt.Fprintf(out, `Usage: geoquiz <command> [args]

Commands:
  play [category] [mode]   start a quiz (default: cities, quiz mode)
  stats                    show progress statistics
  export [path]            write an .xlsx progress report
  reset                    clear all saved progress
  help                     show this message

Categories: %s
Modes: practice, quiz, challenge, study
`, categoryList())
}
