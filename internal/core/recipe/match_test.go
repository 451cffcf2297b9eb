package recipe

import (
	"testing"
)

func TestMatchScore(t *testing.T) {
	t.Run("no required ingredients scores zero", func(t *testing.T) {
		if got := MatchScore(nil, []string{"Tomato"}); got != 0.0 {
			t.Errorf("expected 0.0, got %v", got)
		}
	})

	t.Run("full match scores one", func(t *testing.T) {
		required := []Ingredient{{Name: "Tomato"}, {Name: "Basil"}}
		if got := MatchScore(required, []string{"tomato", "basil", "flour"}); got != 1.0 {
			t.Errorf("expected 1.0, got %v", got)
		}
	})

	t.Run("substring matches in both directions", func(t *testing.T) {
		// "cherry tomato" 包含 "tomato"，"egg" 被 "eggplant" 包含
		required := []Ingredient{{Name: "Tomato"}, {Name: "Eggplant"}}
		available := []string{"Cherry Tomato", "Egg"}
		if got := MatchScore(required, available); got != 1.0 {
			t.Errorf("expected 1.0, got %v", got)
		}
	})

	t.Run("partial match is the matched fraction", func(t *testing.T) {
		required := []Ingredient{{Name: "Tomato"}, {Name: "Basil"}, {Name: "Flour"}, {Name: "Salt"}}
		if got := MatchScore(required, []string{"tomato"}); got != 0.25 {
			t.Errorf("expected 0.25, got %v", got)
		}
	})

	t.Run("no available ingredients scores zero", func(t *testing.T) {
		required := []Ingredient{{Name: "Tomato"}}
		if got := MatchScore(required, nil); got != 0.0 {
			t.Errorf("expected 0.0, got %v", got)
		}
	})
}

func TestParseTimeToMinutes(t *testing.T) {
	cases := []struct {
		input string
		want  int
	}{
		{"15 minutes", 15},
		{"1 hour", 60},
		{"2 hours", 120},
		{"45 min", 45},
		{"20", 20},
		{"a while", 30},
		{"", 30},
	}

	for _, tc := range cases {
		if got := parseTimeToMinutes(tc.input); got != tc.want {
			t.Errorf("parseTimeToMinutes(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}
