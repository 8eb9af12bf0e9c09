package question

import (
	"fmt"
	"strings"
)

const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// VotePolicy turns a vote request into a signed delta:
// sign(direction) * min(amount, MaxAmount) * multiplier(board).
type VotePolicy struct {
	MaxAmount   int
	Multipliers map[string]int
}

func DefaultVotePolicy() VotePolicy {
	return VotePolicy{
		MaxAmount:   100,
		Multipliers: map[string]int{"testing": 20},
	}
}

func (p VotePolicy) Delta(board string, req VoteRequest) (int64, error) {
	var sign int64
	switch strings.ToLower(strings.TrimSpace(req.Direction)) {
	case "", DirectionUp:
		sign = 1
	case DirectionDown:
		sign = -1
	default:
		return 0, fmt.Errorf("%w: direction must be %q or %q", ErrInvalidVote, DirectionUp, DirectionDown)
	}

	amount := 1
	if req.Amount != nil {
		amount = *req.Amount
	}
	if amount <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidVote, amount)
	}
	if p.MaxAmount > 0 && amount > p.MaxAmount {
		amount = p.MaxAmount
	}

	return sign * int64(amount) * int64(p.multiplier(board)), nil
}

func (p VotePolicy) multiplier(board string) int {
	if m, ok := p.Multipliers[board]; ok && m > 0 {
		return m
	}
	return 1
}
