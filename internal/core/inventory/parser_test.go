package inventory

import "testing"

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantAmount float64
		wantUnit   string
	}{
		{"simple pieces", "3 pieces", 3.0, "pieces"},
		{"decimal cups", "2.5 cups", 2.5, "cups"},
		{"empty string defaults", "", 1.0, "pieces"},
		{"whitespace only", "   ", 1.0, "pieces"},
		{"no number keeps unit", "half container", 1.0, "containers"},
		{"bare unit word", "pieces", 1.0, "pieces"},
		{"range takes first number", "2 to 3 pieces", 2.0, "pieces"},
		{"item maps to pieces", "4 items", 4.0, "pieces"},
		{"bottle", "1 bottle", 1.0, "bottles"},
		{"box maps to containers", "2 boxes", 2.0, "containers"},
		{"pound maps to lbs", "1.5 pounds", 1.5, "lbs"},
		{"lb abbreviation", "2 lbs", 2.0, "lbs"},
		{"kg", "1 kg", 1.0, "kg"},
		{"carton", "1 carton", 1.0, "cartons"},
		{"loaf", "1 loaf", 1.0, "loaves"},
		{"loaves plural", "2 loaves", 2.0, "loaves"},
		{"block", "1 block", 1.0, "blocks"},
		{"unknown unit defaults to pieces", "3 zorbs", 3.0, "pieces"},
		{"uppercase unit", "2 CUPS", 2.0, "cups"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, unit := ParseQuantity(tt.input)
			if amount != tt.wantAmount {
				t.Errorf("amount = %v, want %v", amount, tt.wantAmount)
			}
			if unit != tt.wantUnit {
				t.Errorf("unit = %q, want %q", unit, tt.wantUnit)
			}
			if amount < 0 {
				t.Errorf("amount %v is negative", amount)
			}
			if unit == "" {
				t.Error("unit is empty")
			}
		})
	}
}

func TestParseExpiration(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantDays    int
		wantForever bool
	}{
		{"days", "3 days", 3, false},
		{"single day", "1 day", 1, false},
		{"weeks multiply by seven", "2 weeks", 14, false},
		{"months multiply by thirty", "1 month", 30, false},
		{"never is non-perishable", "never", 0, true},
		{"indefinite is non-perishable", "indefinite", 0, true},
		{"permanent is non-perishable", "keeps permanently", 0, true},
		{"bare weeks uses unit default", "weeks", 7, false},
		{"bare month uses unit default", "month", 30, false},
		{"bare day uses unit default", "day", 7, false},
		{"empty defaults to a week", "", 7, false},
		{"unrecognized defaults to a week", "soonish", 7, false},
		{"uppercase", "2 WEEKS", 14, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, forever := ParseExpiration(tt.input)
			if forever != tt.wantForever {
				t.Fatalf("nonPerishable = %v, want %v", forever, tt.wantForever)
			}
			if !forever && days != tt.wantDays {
				t.Errorf("days = %v, want %v", days, tt.wantDays)
			}
			if days < 0 {
				t.Errorf("days %v is negative", days)
			}
		})
	}
}
