package model

import "time"

// Difficulty is the catalog difficulty tier of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is one interview question from the catalog. IDs are stable
// human-readable slugs like "react-001"; drafts and attempts key off them.
type Question struct {
	ID           string     `json:"id" bson:"_id"`
	Category     string     `json:"category" bson:"category"`
	Title        string     `json:"title" bson:"title"`
	Prompt       string     `json:"prompt" bson:"prompt"`
	Difficulty   Difficulty `json:"difficulty" bson:"difficulty"`
	Tags         []string   `json:"tags,omitempty" bson:"tags,omitempty"`
	ExpectedTime string     `json:"expectedTime,omitempty" bson:"expectedTime,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updatedAt"`
}
