// Package quiz scores the risk tolerance questionnaire and keeps past
// assessments.
package quiz

// Tolerance bands by total score.
const (
	BandLow      = "LOW"
	BandModerate = "MODERATE"
	BandHigh     = "HIGH"
)

// QuestionOption is one selectable answer as presented to clients.
// Scores stay server-side.
type QuestionOption struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Question is one questionnaire item as presented to clients
type Question struct {
	ID      int              `json:"id"`
	Text    string           `json:"text"`
	Options []QuestionOption `json:"options"`
}

// Assessment is one persisted quiz result
type Assessment struct {
	ID        string `json:"id"`
	Score     int    `json:"score"`
	Band      string `json:"band"`
	CreatedAt string `json:"created_at"`
}

// ScoreResult is the scoring response: the persisted assessment plus
// the band interpretation text.
type ScoreResult struct {
	ID          string `json:"id"`
	Score       int    `json:"score"`
	Band        string `json:"band"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// bandFor maps a total score to its tolerance band.
func bandFor(score int) string {
	switch {
	case score <= 18:
		return BandLow
	case score <= 32:
		return BandModerate
	default:
		return BandHigh
	}
}

// descriptionFor returns the interpretation text of a band.
func descriptionFor(band string) string {
	switch band {
	case BandLow:
		return "You prefer stability and security over potential high returns."
	case BandModerate:
		return "You're comfortable with some risk for reasonable gains."
	default:
		return "You're willing to accept substantial risk for potentially higher rewards."
	}
}
