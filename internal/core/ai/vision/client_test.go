package vision

import (
	"testing"
)

func TestParseIngredients(t *testing.T) {
	t.Run("parses a valid array with surrounding text", func(t *testing.T) {
		content := "Here are the ingredients I found:\n" +
			`[{"name": "Tomato", "quantity": "3 pieces", "estimatedExpiration": "5 days", "confidence": 0.95},` +
			`{"name": "Milk", "quantity": "1 liter", "estimatedExpiration": "1 week", "confidence": 0.88}]` +
			"\nLet me know if you need more detail."

		got, err := ParseIngredients(content)
		if err != nil {
			t.Fatalf("ParseIngredients returned error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 ingredients, got %d", len(got))
		}
		if got[0].Name != "Tomato" || got[0].Quantity != "3 pieces" {
			t.Errorf("unexpected first ingredient: %+v", got[0])
		}
		if got[1].EstimatedExpiration != "1 week" || got[1].Confidence != 0.88 {
			t.Errorf("unexpected second ingredient: %+v", got[1])
		}
	})

	t.Run("skips items with missing fields", func(t *testing.T) {
		content := `[{"name": "Tomato", "quantity": "3 pieces", "estimatedExpiration": "5 days", "confidence": 0.9},` +
			`{"name": "Broken"},` +
			`{"quantity": "2 pieces", "estimatedExpiration": "3 days", "confidence": 0.5}]`

		got, err := ParseIngredients(content)
		if err != nil {
			t.Fatalf("ParseIngredients returned error: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected 1 valid ingredient, got %d", len(got))
		}
		if got[0].Name != "Tomato" {
			t.Errorf("expected Tomato, got %q", got[0].Name)
		}
	})

	t.Run("integer confidence is accepted", func(t *testing.T) {
		content := `[{"name": "Egg", "quantity": "12 pieces", "estimatedExpiration": "3 weeks", "confidence": 1}]`

		got, err := ParseIngredients(content)
		if err != nil {
			t.Fatalf("ParseIngredients returned error: %v", err)
		}
		if len(got) != 1 || got[0].Confidence != 1.0 {
			t.Errorf("unexpected ingredients: %+v", got)
		}
	})

	t.Run("empty array yields no ingredients", func(t *testing.T) {
		got, err := ParseIngredients("[]")
		if err != nil {
			t.Fatalf("ParseIngredients returned error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no ingredients, got %d", len(got))
		}
	})

	t.Run("no array returns error", func(t *testing.T) {
		if _, err := ParseIngredients("I could not identify any food."); err == nil {
			t.Error("expected error for content without a JSON array")
		}
	})
}
