package model

// ScoreSnapshot is the live scorer's provisional output. Value is always in
// [0, 100] and a multiple of 5. It is derived state and never persisted.
type ScoreSnapshot struct {
	Value        int     `json:"value"`
	WordCount    int     `json:"wordCount"`
	BaseScore    float64 `json:"baseScore"`
	TimeBonus    float64 `json:"timeBonus"`
	QualityBonus float64 `json:"qualityBonus"`
}

// FeedbackSource marks which path produced a report.
type FeedbackSource string

const (
	FeedbackSourceRemote        FeedbackSource = "remote"
	FeedbackSourceLocalFallback FeedbackSource = "local-fallback"
)

// Grade is the medal tier shown with a report. Tiers are monotonic in the
// star rating.
type Grade string

const (
	GradeBronze   Grade = "bronze"
	GradeSilver   Grade = "silver"
	GradeGold     Grade = "gold"
	GradePlatinum Grade = "platinum"
)

// GradeForStars maps a star rating (1-5) to its grade tier.
func GradeForStars(stars int) Grade {
	switch {
	case stars >= 5:
		return GradePlatinum
	case stars == 4:
		return GradeGold
	case stars == 3:
		return GradeSilver
	default:
		return GradeBronze
	}
}

// Subscores break the total down by evaluation axis, each in [0, 100].
type Subscores struct {
	Accuracy     int `json:"accuracy"`
	Clarity      int `json:"clarity"`
	Completeness int `json:"completeness"`
	Examples     int `json:"examples"`
}

// FeedbackReport is the terminal artifact of a submitted attempt. It is
// created exactly once per submission and is immutable afterwards.
type FeedbackReport struct {
	TotalScore         int            `json:"totalScore"`
	StarRating         int            `json:"starRating"`
	Grade              Grade          `json:"grade"`
	Subscores          Subscores      `json:"subscores"`
	Strengths          []string       `json:"strengths"`
	ImprovementExample string         `json:"improvementExample"`
	FollowUpQuestion   string         `json:"followUpQuestion"`
	ExperienceGained   int            `json:"experienceGained"`
	TimeSpentSeconds   int            `json:"timeSpentSeconds"`
	Source             FeedbackSource `json:"source"`
}
