package question

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("question not found")
	ErrInvalidBoard    = errors.New("invalid board slug")
	ErrInvalidContent  = errors.New("invalid question content")
	ErrInvalidVote     = errors.New("invalid vote")
	ErrUnknownStrategy = errors.New("unknown search strategy")
)

const (
	EventQuestionCreated = "question_created"
	EventQuestionVoted   = "question_voted"
)

type Question struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	BoardSlug string    `json:"board_slug" gorm:"column:board_slug;size:64;not null;index:idx_questions_board_votes,priority:1"`
	Content   string    `json:"content" gorm:"not null"`
	Votes     int64     `json:"votes" gorm:"not null;default:0;index:idx_questions_board_votes,priority:2"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`
}

func (q *Question) SearchText() string {
	return q.Content
}

type CreateQuestionRequest struct {
	Content string `json:"content" binding:"required" example:"How do I deploy this?"`
}

type CreateQuestionResponse struct {
	ID     uint64 `json:"id" example:"1"`
	Status string `json:"status" example:"success"`
}

// VoteRequest carries an optional direction ("up" or "down") and an optional amount.
type VoteRequest struct {
	Direction string `json:"direction,omitempty" example:"up"`
	Amount    *int   `json:"amount,omitempty" example:"1"`
}

type VoteResponse struct {
	ID    uint64 `json:"id" example:"1"`
	Votes int64  `json:"votes" example:"2"`
}

type SearchParams struct {
	Query    string
	Limit    int
	Strategy string
}

type ErrorResponse struct {
	Error string `json:"error" example:"question not found"`
}
