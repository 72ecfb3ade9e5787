package school

import (
	"regexp"
	"sort"

	"github.com/fredgona305-cmyk/kjs/core"
)

var parentheticalRegex = regexp.MustCompile(`\s*\([^)]*\)`)

type (
	// SubjectResult is one line of a report card's academic table.
	SubjectResult struct {
		Subject string  `json:"subject"`
		OutOf   float64 `json:"outOf"`
		Score   float64 `json:"score"`
		Grade   string  `json:"grade"`
		Comment string  `json:"comment"`
	}

	// ReportCard is one student's structured end-of-term report, ready for
	// any renderer.
	ReportCard struct {
		Student  Student `json:"student"`
		Term     string  `json:"term"`
		ExamType string  `json:"examType"`
		Year     string  `json:"year"`

		Results       []SubjectResult `json:"results"`
		Total         float64         `json:"total"`
		TotalPossible float64         `json:"totalPossible"`

		ClassPosition int `json:"classPosition"`
		ClassSize     int `json:"classSize"`
		GradePosition int `json:"gradePosition"`
		GradeSize     int `json:"gradeSize"`

		// Improve lists the subjects graded AE2 or BE, or carries the
		// all-well message when there are none.
		Improve []string `json:"improve"`

		Attitude       string `json:"attitude"`
		Responsibility string `json:"responsibility"`
		Teamwork       string `json:"teamwork"`
		Remark         string `json:"remark"`

		Headteacher string `json:"headteacher"`
	}

	// ReportCardInput carries the request for one report card, including
	// the teacher-supplied behavioural ratings and optional comment.
	ReportCardInput struct {
		AssessmentNo   string `json:"assessmentNo" validate:"required"`
		Term           string `json:"term" validate:"required,termlabel"`
		ExamType       string `json:"examType" validate:"required,examtype"`
		Year           string `json:"year" validate:"required"`
		Attitude       string `json:"attitude"`
		Responsibility string `json:"responsibility"`
		Teamwork       string `json:"teamwork"`
		Comment        string `json:"comment"`
	}
)

func (in *ReportCardInput) Validate(v *Validators) error {
	in.AssessmentNo = core.CleanString(in.AssessmentNo)
	in.Comment = core.CleanString(in.Comment)
	return v.Validate.Struct(in)
}

// AllWellMessage substitutes for an empty improvement list.
const AllWellMessage = "All subjects are progressing well."

// GenerateReportCard composes the report card for the student holding the
// given assessment number.
//
// Grade-level ranking sums each classmate's own-class assessments while
// comparing across every section of the grade; the cross-class detail is
// deliberate. The fallback remark bands the raw total (a sum across
// subjects, usually > 100) on the single-subject comment bands, exactly as
// the original does.
func (snap Snapshot) GenerateReportCard(in ReportCardInput) (*ReportCard, error) {
	student, ok := snap.studentByAssessmentNo(in.AssessmentNo)
	if !ok {
		return nil, ErrStudentNotFound
	}

	termKey := TermKey(in.Term, in.ExamType)

	var results []SubjectResult
	var improve []string
	var total float64
	for _, a := range snap.Assessments {
		if a.Student != student.Name || a.Class != student.Class || a.Term != termKey {
			continue
		}
		total += a.Marks
		grade := GradeFromMarks(a.Marks)
		subject := core.CleanString(parentheticalRegex.ReplaceAllString(a.Subject, ""))
		if grade == GradeAE2 || grade == GradeBE {
			improve = append(improve, subject)
		}
		results = append(results, SubjectResult{
			Subject: subject,
			OutOf:   100,
			Score:   a.Marks,
			Grade:   grade,
			Comment: CommentForMarks(a.Marks),
		})
	}
	if len(improve) == 0 {
		improve = []string{AllWellMessage}
	}

	var classmates, grademates []Student
	for _, st := range snap.Students {
		if st.Grade == student.Grade {
			grademates = append(grademates, st)
			if st.Class == student.Class {
				classmates = append(classmates, st)
			}
		}
	}
	classPos := snap.rankAmong(classmates, student.Name, termKey)
	gradePos := snap.rankAmong(grademates, student.Name, termKey)

	remark := in.Comment
	if remark == "" {
		remark = CommentForMarks(total)
	}

	htName := "Not Set"
	if snap.Headteacher != nil {
		htName = snap.Headteacher.Name
	}

	return &ReportCard{
		Student:        student,
		Term:           in.Term,
		ExamType:       in.ExamType,
		Year:           in.Year,
		Results:        results,
		Total:          total,
		TotalPossible:  100 * float64(len(results)),
		ClassPosition:  classPos,
		ClassSize:      len(classmates),
		GradePosition:  gradePos,
		GradeSize:      len(grademates),
		Improve:        improve,
		Attitude:       in.Attitude,
		Responsibility: in.Responsibility,
		Teamwork:       in.Teamwork,
		Remark:         remark,
		Headteacher:    htName,
	}, nil
}

func (snap Snapshot) studentByAssessmentNo(assessmentNo string) (Student, bool) {
	for _, st := range snap.Students {
		if st.AssessmentNo == assessmentNo {
			return st, true
		}
	}
	return Student{}, false
}

// termTotal sums every assessment a student has in a cycle, matched
// against the student's own section.
func (snap Snapshot) termTotal(st Student, termKey string) float64 {
	var total float64
	for _, a := range snap.Assessments {
		if a.Student == st.Name && a.Class == st.Class && a.Term == termKey {
			total += a.Marks
		}
	}
	return total
}

// rankAmong returns the 1-based position of the named student in the
// cohort after a stable descending sort on term totals. Tied students keep
// enrollment order, so ties rank ordinally.
func (snap Snapshot) rankAmong(cohort []Student, name, termKey string) int {
	type scored struct {
		name  string
		total float64
	}
	scores := make([]scored, 0, len(cohort))
	for _, st := range cohort {
		scores = append(scores, scored{name: st.Name, total: snap.termTotal(st, termKey)})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].total > scores[j].total })
	for i, s := range scores {
		if s.name == name {
			return i + 1
		}
	}
	return 0
}
