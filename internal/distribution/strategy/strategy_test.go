package strategy

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func ts(minutesAgo int) *time.Time {
	t := time.Now().Add(-time.Duration(minutesAgo) * time.Minute)
	return &t
}

func TestSelectReturnsFalseOnEmptyPool(t *testing.T) {
	if _, ok := Select(RoundRobin, nil, Weights{}); ok {
		t.Fatal("expected no selection from empty pool")
	}
}

func TestRoundRobinPrefersNeverAssigned(t *testing.T) {
	fresh := Candidate{ID: uuid.New()}
	stale := Candidate{ID: uuid.New(), LastAssignedAt: ts(600)}

	got, ok := Select(RoundRobin, []Candidate{stale, fresh}, Weights{})
	if !ok || got.ID != fresh.ID {
		t.Errorf("expected never-assigned candidate, got %v", got.ID)
	}
}

func TestRoundRobinPicksOldestAssignment(t *testing.T) {
	recent := Candidate{ID: uuid.New(), LastAssignedAt: ts(5)}
	old := Candidate{ID: uuid.New(), LastAssignedAt: ts(120)}
	older := Candidate{ID: uuid.New(), LastAssignedAt: ts(300)}

	got, _ := Select(RoundRobin, []Candidate{recent, old, older}, Weights{})
	if got.ID != older.ID {
		t.Errorf("expected oldest assignment to win, got %v", got.ID)
	}
}

func TestScoreUsesDefaultWeightsWhenUnset(t *testing.T) {
	// Rating spans 0..5 while conversion spans 0..1, so with the default
	// weights a top rating outweighs a strong conversion rate.
	rated := Candidate{ID: uuid.New(), Rating: 5.0, ConversionRate: 0.1, Priority: 0}
	converter := Candidate{ID: uuid.New(), Rating: 3.0, ConversionRate: 0.9, Priority: 0}

	// 0.3*5 + 0.4*0.1 + 0.1*1 = 1.64 vs 0.3*3 + 0.4*0.9 + 0.1*1 = 1.36
	got, _ := Select(Score, []Candidate{rated, converter}, Weights{})
	if got.ID != rated.ID {
		t.Errorf("expected higher default-weight score to win, got %v", got.ID)
	}
}

func TestScoreHonorsCustomWeights(t *testing.T) {
	rated := Candidate{ID: uuid.New(), Rating: 5.0, ConversionRate: 0.1}
	converter := Candidate{ID: uuid.New(), Rating: 1.0, ConversionRate: 0.9}

	got, _ := Select(Score, []Candidate{rated, converter}, Weights{Conversion: 1.0})
	if got.ID != converter.ID {
		t.Errorf("conversion-only weights should favor the converter, got %v", got.ID)
	}
}

func TestScoreTieBreaksTowardOlderAssignment(t *testing.T) {
	a := Candidate{ID: uuid.New(), Rating: 4.0, LastAssignedAt: ts(10)}
	b := Candidate{ID: uuid.New(), Rating: 4.0, LastAssignedAt: ts(500)}

	got, _ := Select(Score, []Candidate{a, b}, Weights{})
	if got.ID != b.ID {
		t.Errorf("score tie should rotate toward oldest assignment, got %v", got.ID)
	}
}

func TestPriorityListPicksTopTierThenRotates(t *testing.T) {
	backup := Candidate{ID: uuid.New(), Priority: 5}
	primaryBusy := Candidate{ID: uuid.New(), Priority: 1, LastAssignedAt: ts(5)}
	primaryIdle := Candidate{ID: uuid.New(), Priority: 1, LastAssignedAt: ts(200)}

	got, _ := Select(PriorityList, []Candidate{backup, primaryBusy, primaryIdle}, Weights{})
	if got.ID != primaryIdle.ID {
		t.Errorf("expected idle top-priority candidate, got %v", got.ID)
	}
}

func TestUnknownStrategyFallsBackToRoundRobin(t *testing.T) {
	never := Candidate{ID: uuid.New()}
	assigned := Candidate{ID: uuid.New(), LastAssignedAt: ts(1)}

	got, ok := Select(Name("weighted_lottery"), []Candidate{assigned, never}, Weights{})
	if !ok || got.ID != never.ID {
		t.Errorf("unknown strategy should behave like round-robin, got %v", got.ID)
	}
}
