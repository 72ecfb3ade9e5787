package school

// CBC competency-level codes, highest band first.
const (
	GradeEE1 = "EE1" // Exceeding Expectations
	GradeEE2 = "EE2"
	GradeME1 = "ME1" // Meeting Expectations
	GradeME2 = "ME2"
	GradeAE1 = "AE1" // Approaching Expectations
	GradeAE2 = "AE2"
	GradeBE  = "BE" // Below Expectations
)

// GradeFromMarks maps a numeric mark to its CBC competency-level code.
// The seven bands partition the whole number line; anything below 40
// (including negative or defaulted-to-zero input) is BE.
func GradeFromMarks(marks float64) string {
	switch {
	case marks >= 90:
		return GradeEE1
	case marks >= 80:
		return GradeEE2
	case marks >= 70:
		return GradeME1
	case marks >= 60:
		return GradeME2
	case marks >= 50:
		return GradeAE1
	case marks >= 40:
		return GradeAE2
	default:
		return GradeBE
	}
}

// CommentForMarks produces the report narrative comment for a mark.
// It bands at the same cut points as GradeFromMarks but is a separate
// table serving a different output; the two must not be merged.
func CommentForMarks(marks float64) string {
	switch {
	case marks >= 90:
		return "Excellent performance! Keep it up."
	case marks >= 80:
		return "Very good work. Aim higher."
	case marks >= 70:
		return "Good effort. Can improve."
	case marks >= 60:
		return "Fair performance. Needs more practice."
	case marks >= 50:
		return "Approaching expectations. Keep trying."
	case marks >= 40:
		return "Below average. Needs support."
	default:
		return "Needs significant improvement. Extra help recommended."
	}
}
