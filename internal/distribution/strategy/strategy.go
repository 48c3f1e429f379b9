// Package strategy implements the pure partner-selection strategies used by
// lead distribution. Strategies operate on a neutral Candidate type so the
// same logic serves both category partners and marketplace contractors.
package strategy

import (
	"time"

	"github.com/google/uuid"
)

// Name identifies a selection strategy.
type Name string

const (
	RoundRobin   Name = "round_robin"
	Score        Name = "score"
	PriorityList Name = "priority_list"
)

func Valid(n Name) bool {
	return n == RoundRobin || n == Score || n == PriorityList
}

// Candidate is one selectable routing destination.
type Candidate struct {
	ID             uuid.UUID
	Rating         float64
	ConversionRate float64
	Priority       int
	LastAssignedAt *time.Time
}

// Weights are the score strategy coefficients.
type Weights struct {
	Rating     float64
	Conversion float64
	Priority   float64
}

// DefaultWeights are used when a rule carries no weights of its own.
var DefaultWeights = Weights{Rating: 0.3, Conversion: 0.4, Priority: 0.1}

// Zero reports whether no weight is set; such a rule falls back to defaults.
func (w Weights) Zero() bool {
	return w.Rating == 0 && w.Conversion == 0 && w.Priority == 0
}

// Select picks a candidate using the named strategy. Unknown or empty strategy
// names degrade to round-robin, as does a score rule with unusable weights.
// Returns false when there are no candidates.
func Select(name Name, candidates []Candidate, weights Weights) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}

	switch name {
	case Score:
		if weights.Zero() {
			weights = DefaultWeights
		}
		return selectByScore(candidates, weights), true
	case PriorityList:
		return selectByPriority(candidates), true
	default:
		return selectRoundRobin(candidates), true
	}
}

// selectRoundRobin picks the candidate assigned longest ago. A candidate that
// was never assigned wins over any that was. Ties break on priority.
func selectRoundRobin(candidates []Candidate) Candidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if olderAssignment(c, best) {
			best = c
		}
	}
	return best
}

func olderAssignment(a, b Candidate) bool {
	switch {
	case a.LastAssignedAt == nil && b.LastAssignedAt == nil:
		return a.Priority < b.Priority
	case a.LastAssignedAt == nil:
		return true
	case b.LastAssignedAt == nil:
		return false
	case a.LastAssignedAt.Equal(*b.LastAssignedAt):
		return a.Priority < b.Priority
	default:
		return a.LastAssignedAt.Before(*b.LastAssignedAt)
	}
}

// selectByScore picks the highest-scoring candidate. Priority contributes
// inversely: priority 0 scores 1.0, priority 9 scores 0.1. Ties break toward
// the older assignment so the pool still rotates.
func selectByScore(candidates []Candidate, w Weights) Candidate {
	best := candidates[0]
	bestScore := score(best, w)
	for _, c := range candidates[1:] {
		s := score(c, w)
		if s > bestScore || (s == bestScore && olderAssignment(c, best)) {
			best = c
			bestScore = s
		}
	}
	return best
}

func score(c Candidate, w Weights) float64 {
	priorityScore := 1.0 / (1.0 + float64(c.Priority))
	return w.Rating*c.Rating + w.Conversion*c.ConversionRate + w.Priority*priorityScore
}

// selectByPriority picks the lowest priority number; candidates sharing that
// priority rotate round-robin.
func selectByPriority(candidates []Candidate) Candidate {
	top := candidates[0].Priority
	for _, c := range candidates[1:] {
		if c.Priority < top {
			top = c.Priority
		}
	}

	var tier []Candidate
	for _, c := range candidates {
		if c.Priority == top {
			tier = append(tier, c)
		}
	}
	return selectRoundRobin(tier)
}
