package quiz

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrInvalidSubmission marks scoring requests the caller must fix:
// missing answers, unknown question ids or unknown option keys.
var ErrInvalidSubmission = errors.New("invalid quiz submission")

const defaultAssessmentLimit = 20

// Service scores questionnaires and records the results
type Service struct {
	repo *Repository
	log  zerolog.Logger
}

// NewService creates a new quiz service
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("service", "quiz").Logger(),
	}
}

// Questions returns the questionnaire without the scoring weights.
func (s *Service) Questions() []Question {
	out := make([]Question, len(questions))
	for i, q := range questions {
		options := make([]QuestionOption, len(q.Options))
		for j, o := range q.Options {
			options[j] = QuestionOption{Key: o.Key, Text: o.Text}
		}
		out[i] = Question{ID: q.ID, Text: q.Text, Options: options}
	}
	return out
}

// Score evaluates a full set of answers, persists the assessment and
// returns it with its interpretation. Every question must be answered
// with one of its own option keys.
func (s *Service) Score(answers map[int]string) (*ScoreResult, error) {
	if len(answers) == 0 {
		return nil, fmt.Errorf("no answers given: %w", ErrInvalidSubmission)
	}

	byID := make(map[int]question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	for id := range answers {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("unknown question id %d: %w", id, ErrInvalidSubmission)
		}
	}

	total := 0
	for _, q := range questions {
		key, ok := answers[q.ID]
		if !ok {
			return nil, fmt.Errorf("question %d is unanswered: %w", q.ID, ErrInvalidSubmission)
		}
		score, ok := optionScore(q, key)
		if !ok {
			return nil, fmt.Errorf("question %d has no option %q: %w", q.ID, key, ErrInvalidSubmission)
		}
		total += score
	}

	band := bandFor(total)
	assessment := Assessment{
		ID:        uuid.New().String(),
		Score:     total,
		Band:      band,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.repo.Insert(assessment); err != nil {
		return nil, err
	}

	s.log.Info().Str("id", assessment.ID).Int("score", total).Str("band", band).Msg("assessment scored")

	return &ScoreResult{
		ID:          assessment.ID,
		Score:       assessment.Score,
		Band:        assessment.Band,
		Description: descriptionFor(band),
		CreatedAt:   assessment.CreatedAt,
	}, nil
}

// Assessments lists recent results, newest first.
func (s *Service) Assessments(limit int) ([]Assessment, error) {
	if limit <= 0 {
		limit = defaultAssessmentLimit
	}
	return s.repo.ListRecent(limit)
}

func optionScore(q question, key string) (int, bool) {
	for _, o := range q.Options {
		if o.Key == key {
			return o.Score, true
		}
	}
	return 0, false
}
