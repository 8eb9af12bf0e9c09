package board

import "errors"

var ErrNotFound = errors.New("board not found")

const (
	DefaultRecentLimit  = 3
	DefaultSuggestLimit = 10
	MaxListLimit        = 100
)

// Summary is a read-only projection of the questions sharing one board slug.
type Summary struct {
	Slug          string `json:"slug" example:"general"`
	QuestionCount int64  `json:"question_count" example:"12"`
	TotalVotes    int64  `json:"total_votes" example:"40"`
}

type BoardListResponse struct {
	Boards []Summary `json:"boards"`
}

type SlugListResponse struct {
	Boards []string `json:"boards"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
