package school

import "testing"

func TestGradeFromMarks(t *testing.T) {
	tests := []struct {
		name  string
		marks float64
		want  string
	}{
		{name: "top score", marks: 100, want: GradeEE1},
		{name: "lower EE1 bound", marks: 90, want: GradeEE1},
		{name: "just below EE1", marks: 89.99, want: GradeEE2},
		{name: "lower EE2 bound", marks: 80, want: GradeEE2},
		{name: "ME1", marks: 75, want: GradeME1},
		{name: "lower ME2 bound", marks: 60, want: GradeME2},
		{name: "AE1", marks: 52.4, want: GradeAE1},
		{name: "lower AE2 bound", marks: 40, want: GradeAE2},
		{name: "just below AE2", marks: 39.9, want: GradeBE},
		{name: "zero", marks: 0, want: GradeBE},
		{name: "negative", marks: -5, want: GradeBE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GradeFromMarks(tt.marks); got != tt.want {
				t.Errorf("GradeFromMarks(%v) = %v, want %v", tt.marks, got, tt.want)
			}
		})
	}
}

func TestCommentForMarks(t *testing.T) {
	tests := []struct {
		name  string
		marks float64
		want  string
	}{
		{name: "excellent", marks: 95, want: "Excellent performance! Keep it up."},
		{name: "very good", marks: 80, want: "Very good work. Aim higher."},
		{name: "good", marks: 70, want: "Good effort. Can improve."},
		{name: "fair", marks: 64.5, want: "Fair performance. Needs more practice."},
		{name: "approaching", marks: 50, want: "Approaching expectations. Keep trying."},
		{name: "below average", marks: 40, want: "Below average. Needs support."},
		{name: "lowest band", marks: 12, want: "Needs significant improvement. Extra help recommended."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CommentForMarks(tt.marks); got != tt.want {
				t.Errorf("CommentForMarks(%v) = %q, want %q", tt.marks, got, tt.want)
			}
		})
	}
}
