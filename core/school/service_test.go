package school

import (
	"testing"

	"github.com/fredgona305-cmyk/kjs/core"
)

func TestParseMarks(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantErr bool
	}{
		{name: "integer", raw: "85", want: 85},
		{name: "decimal", raw: "72.5", want: 72.5},
		{name: "zero", raw: "0", want: 0},
		{name: "full marks", raw: "100", want: 100},
		{name: "padded", raw: " 64 ", want: 64},
		{name: "negative", raw: "-1", wantErr: true},
		{name: "over 100", raw: "100.1", wantErr: true},
		{name: "not a number", raw: "ninety", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMarks(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMarks(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err != nil {
				if _, ok := err.(*core.ValidationError); !ok {
					t.Errorf("ParseMarks(%q) error is not a ValidationError", tt.raw)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseMarks(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTermKey(t *testing.T) {
	if got, want := TermKey("Term 2", "End Term"), "Term 2 - End Term"; got != want {
		t.Errorf("TermKey() = %q, want %q", got, want)
	}
}

func TestNewAssignmentValidate(t *testing.T) {
	v := NewValidators()

	na := NewAssignment{Teacher: "Mr. Kamau", Subject: "Mathematics", Grade: "Grade 3", Class: "East"}
	if err := na.Validate(v); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	incomplete := NewAssignment{Teacher: "Mr. Kamau", Subject: "", Grade: "Grade 3", Class: "East"}
	err := incomplete.Validate(v)
	if err == nil {
		t.Fatal("Validate() error = nil, want rejection")
	}
	vErr, ok := err.(*core.ValidationError)
	if !ok || vErr.Err != ErrInvalidAssignment {
		t.Errorf("Validate() error = %v, want wrapped %v", err, ErrInvalidAssignment)
	}

	badGrade := NewAssignment{Teacher: "Mr. Kamau", Subject: "Mathematics", Grade: "Form 1", Class: "East"}
	if err := badGrade.Validate(v); err == nil {
		t.Error("Validate() accepted an unknown grade level")
	}
}
