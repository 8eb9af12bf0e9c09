// Package ranking orders question-like records against a free-text query.
//
// A record matches when the lower-cased query is a substring of its lower-cased
// search text (score 1.0), or when the Ratcliff/Obershelp similarity ratio of the
// two strings is above the acceptance threshold (score = ratio). Everything else
// is dropped. Matches are returned best first; records with equal scores keep
// the order they had in the input, so a listing that arrives ordered by votes
// and recency degrades gracefully to that order.
//
// Basic usage:
//
//	questions, _ := repo.ListByBoard(ctx, "general")
//	top := ranking.Rank("deploy", questions, ranking.WithLimit(20))
//
// An empty query is a passthrough: Rank returns the candidates untouched.
//
// Rank is a pure function. It never mutates its input and is safe to call from
// any number of goroutines.
package ranking
