package school

import (
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
)

type (
	// MarkListRow is one student's line on a mark list. Scores is parallel
	// to the report's Subjects.
	MarkListRow struct {
		Position     int       `json:"position"`
		AssessmentNo string    `json:"assessmentNo"`
		Name         string    `json:"name"`
		Gender       string    `json:"gender"`
		Scores       []float64 `json:"scores"`
		Total        float64   `json:"total"`
		Mean         float64   `json:"mean"`
		Grade        string    `json:"grade"`
	}

	// MarkListReport is the tabular mark list for one class and assessment
	// cycle, ready for any renderer.
	MarkListReport struct {
		Class    string        `json:"class"`
		Term     string        `json:"term"`
		ExamType string        `json:"examType"`
		Year     string        `json:"year"`
		Subjects []string      `json:"subjects"`
		Headers  []string      `json:"headers"`
		Rows     []MarkListRow `json:"rows"`
		Mean     float64       `json:"mean"`
	}
)

// GenerateMarkList builds the mark list for a full class label
// ("Grade 3 East") and one assessment cycle.
//
// A student with no assessment for a subject scores 0; the zero is a
// deliberate default that weighs on totals, not a "missing" marker.
// Students tied on total keep enrollment order (stable sort) and still
// receive distinct ordinal positions.
func (snap Snapshot) GenerateMarkList(class, term, examType, year string) (*MarkListReport, error) {
	grade, section := SplitClassLabel(class)

	var students []Student
	for _, st := range snap.Students {
		if st.Grade == grade && st.Class == section {
			students = append(students, st)
		}
	}
	if len(students) == 0 {
		return nil, ErrEmptyClass
	}

	subjects := snap.SubjectsForGrade(grade)
	termKey := TermKey(term, examType)

	rows := make([]MarkListRow, 0, len(students))
	means := make([]float64, 0, len(students))
	for _, st := range students {
		scores := make([]float64, len(subjects))
		var total float64
		for i, subj := range subjects {
			scores[i] = snap.findScore(st.Name, section, subj, termKey)
			total += scores[i]
		}
		var mean float64
		if len(subjects) > 0 {
			mean = round1(total / float64(len(subjects)))
		}
		means = append(means, mean)
		rows = append(rows, MarkListRow{
			AssessmentNo: st.AssessmentNo,
			Name:         st.Name,
			Gender:       st.Gender,
			Scores:       scores,
			Total:        total,
			Mean:         mean,
			// the original grades the raw total on the single-subject
			// bands; preserved
			Grade: GradeFromMarks(total),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Total > rows[j].Total })
	for i := range rows {
		rows[i].Position = i + 1
	}

	var cohortMean float64
	if m, err := stats.Mean(means); err == nil {
		cohortMean = round1(m)
	}

	return &MarkListReport{
		Class:    class,
		Term:     term,
		ExamType: examType,
		Year:     year,
		Subjects: subjects,
		Headers:  snap.subjectHeaders(subjects),
		Rows:     rows,
		Mean:     cohortMean,
	}, nil
}

// findScore returns the first matching assessment's marks, or 0.
func (snap Snapshot) findScore(student, section, subject, termKey string) float64 {
	for _, a := range snap.Assessments {
		if a.Student == student && a.Class == section && a.Subject == subject && a.Term == termKey {
			return a.Marks
		}
	}
	return 0
}

// subjectHeaders returns the short column header for each subject: its
// configured initial, else the first word truncated to 3 characters,
// upper-cased.
func (snap Snapshot) subjectHeaders(subjects []string) []string {
	headers := make([]string, len(subjects))
	for i, name := range subjects {
		if subj, ok := snap.SubjectByName(name); ok && subj.Initial != "" {
			headers[i] = subj.Initial
			continue
		}
		word := strings.SplitN(name, " ", 2)[0]
		if len(word) > 3 {
			word = word[:3]
		}
		headers[i] = strings.ToUpper(word)
	}
	return headers
}

func round1(val float64) float64 {
	rounded, err := stats.Round(val, 1)
	if err != nil {
		return 0
	}
	return rounded
}
