package types

import "testing"

func validDef() *LocationDefinition {
	return &LocationDefinition{
		LocationID:    "pantry",
		DisplayName:   "Pantry",
		Columns:       []string{"item", "amount"},
		DisplayLabels: []string{"Item", "Amount"},
	}
}

func TestLocationDefinition_Validate(t *testing.T) {
	if err := validDef().Validate(); err != nil {
		t.Fatalf("valid definition rejected: %v", err)
	}
}

func TestLocationDefinition_Validate_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*LocationDefinition)
		want   error
	}{
		{"empty display name", func(d *LocationDefinition) { d.DisplayName = "" }, ErrInvalidDefinition},
		{"no columns", func(d *LocationDefinition) { d.Columns = nil; d.DisplayLabels = nil }, ErrInvalidDefinition},
		{"mismatched labels", func(d *LocationDefinition) { d.DisplayLabels = []string{"Item"} }, ErrInvalidDefinition},
		{"duplicate column", func(d *LocationDefinition) {
			d.Columns = []string{"item", "item"}
			d.DisplayLabels = []string{"Item", "Item"}
		}, ErrInvalidDefinition},
		{"bad location id", func(d *LocationDefinition) { d.LocationID = "pantry; DROP TABLE x" }, ErrInvalidIdentifier},
		{"bad column key", func(d *LocationDefinition) { d.Columns = []string{"item", `am"ount`} }, ErrInvalidIdentifier},
		{"digit-leading column", func(d *LocationDefinition) { d.Columns = []string{"item", "2nd"} }, ErrInvalidIdentifier},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDef()
			tc.mutate(d)
			if err := d.Validate(); err != tc.want {
				t.Errorf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestValidateIdentifier(t *testing.T) {
	good := []string{"item", "date_of_purchase", "_private", "Table", "a1"}
	for _, name := range good {
		if err := ValidateIdentifier(name); err != nil {
			t.Errorf("ValidateIdentifier(%q) = %v, want nil", name, err)
		}
	}
	bad := []string{"", "1st", "item name", "item-name", "item;", `it"em`, "item'", "naïve"}
	for _, name := range bad {
		if err := ValidateIdentifier(name); err != ErrInvalidIdentifier {
			t.Errorf("ValidateIdentifier(%q) = %v, want ErrInvalidIdentifier", name, err)
		}
	}
}

func TestValidateColumns(t *testing.T) {
	if err := ValidateColumns([]string{"item"}, []string{"Item"}); err != nil {
		t.Fatalf("valid columns rejected: %v", err)
	}
	if err := ValidateColumns(nil, nil); err != ErrInvalidDefinition {
		t.Errorf("empty columns: got %v, want ErrInvalidDefinition", err)
	}
	if err := ValidateColumns([]string{"item"}, []string{"Item", "Extra"}); err != ErrInvalidDefinition {
		t.Errorf("mismatched labels: got %v, want ErrInvalidDefinition", err)
	}
}
