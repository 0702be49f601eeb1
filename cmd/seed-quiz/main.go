package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/doerhub/doerhub-backend/internal/config"
	"github.com/doerhub/doerhub-backend/internal/database"
	"github.com/doerhub/doerhub-backend/internal/logger"
	"github.com/doerhub/doerhub-backend/internal/model"
	"github.com/doerhub/doerhub-backend/internal/repository"
	"github.com/doerhub/doerhub-backend/internal/scoring"
	"github.com/google/uuid"
)

// questionFile is one entry of the seed JSON.
type questionFile struct {
	Prompt           string             `json:"prompt"`
	Options          []model.QuizOption `json:"options"`
	CorrectOptionIDs []int              `json:"correct_option_ids"`
}

func main() {
	var path string
	var keep bool
	flag.StringVar(&path, "file", "quiz.json", "Path to the quiz questions JSON file")
	flag.BoolVar(&keep, "keep", false, "Keep existing active questions instead of replacing them")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, "")

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("Failed to open quiz file")
	}
	questions, err := loadQuestions(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("Invalid quiz file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	quizRepo := repository.NewQuizRepository(pool)

	if !keep {
		if err := quizRepo.DeactivateAllQuestions(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to deactivate existing questions")
		}
	}

	n, err := quizRepo.CreateQuestions(ctx, questions)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to insert questions")
	}

	fmt.Printf("Seeded %d quiz questions from %s\n", n, path)
}

// loadQuestions decodes and validates the seed file. Every question needs a
// prompt, at least two options with unique ids and at least one correct
// option that refers to one of them.
func loadQuestions(r io.Reader) ([]model.QuizQuestion, error) {
	var entries []questionFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(entries) == 0 {
		return nil, errors.New("no questions in file")
	}

	questions := make([]model.QuizQuestion, 0, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.Prompt) == "" {
			return nil, fmt.Errorf("question %d: prompt is required", i+1)
		}
		if len(e.Options) < 2 {
			return nil, fmt.Errorf("question %d: needs at least two options", i+1)
		}
		seen := make(map[int]struct{}, len(e.Options))
		for _, o := range e.Options {
			if _, dup := seen[o.ID]; dup {
				return nil, fmt.Errorf("question %d: duplicate option id %d", i+1, o.ID)
			}
			seen[o.ID] = struct{}{}
		}

		q := model.QuizQuestion{
			ID:               uuid.New(),
			Prompt:           strings.TrimSpace(e.Prompt),
			Options:          e.Options,
			CorrectOptionIDs: e.CorrectOptionIDs,
			OrderNum:         i + 1,
		}
		if err := scoring.ValidateQuestion(q); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}
