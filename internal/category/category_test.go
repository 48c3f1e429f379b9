package category

import "testing"

func TestAllContainsTwelveCategories(t *testing.T) {
	keys := All()
	if len(keys) != 12 {
		t.Fatalf("expected 12 categories, got %d", len(keys))
	}

	seen := make(map[Key]bool, len(keys))
	for _, key := range keys {
		if !IsValid(key) {
			t.Errorf("All() returned invalid key %q", key)
		}
		if seen[key] {
			t.Errorf("duplicate key %q", key)
		}
		seen[key] = true
	}
}

func TestIsValidRejectsUnknownKey(t *testing.T) {
	if IsValid("roof_repair") {
		t.Error("IsValid should reject unknown category keys")
	}
	if !IsValid(Solar) {
		t.Error("IsValid should accept solar")
	}
}

func TestMatchIssues(t *testing.T) {
	issues := []string{
		"Roof shingles curling at south slope",
		"Water heater past expected service life",
		"GFCI outlet not tripping in bathroom",
		"Evidence of termite tubes at foundation",
	}

	tests := []struct {
		key  Key
		want int
	}{
		{Solar, 1},
		{HomeWarranty, 1},
		{PestControl, 1},
		{MovingCompanies, 0},
		{InsuranceLife, 0},
	}

	for _, tc := range tests {
		got := MatchIssues(tc.key, issues)
		if len(got) != tc.want {
			t.Errorf("MatchIssues(%q) matched %d issues, want %d: %v", tc.key, len(got), tc.want, got)
		}
	}
}

func TestMatchIssuesIsCaseInsensitive(t *testing.T) {
	got := MatchIssues(PestControl, []string{"TERMITE damage in crawlspace"})
	if len(got) != 1 {
		t.Fatalf("expected case-insensitive match, got %v", got)
	}
}
