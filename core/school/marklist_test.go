package school

import (
	"reflect"
	"testing"
)

func markListSnapshot() Snapshot {
	return Snapshot{
		Students: []Student{
			{ID: 1, Name: "Amina Yusuf", AssessmentNo: "KPS001", Gender: "Female", Grade: "Grade 3", Class: "East"},
			{ID: 2, Name: "Brian Otieno", AssessmentNo: "KPS002", Gender: "Male", Grade: "Grade 3", Class: "East"},
			{ID: 3, Name: "Cynthia Wambui", AssessmentNo: "KPS003", Gender: "Female", Grade: "Grade 3", Class: "East"},
			{ID: 4, Name: "David Kiprop", AssessmentNo: "KPS004", Gender: "Male", Grade: "Grade 3", Class: "West"},
		},
		SubjectsLP: []Subject{
			{ID: 1, Name: "Mathematics", Code: "MAT", Initial: "MATH"},
			{ID: 2, Name: "English", Code: "ENG"},
		},
		Assignments: []Assignment{
			{ID: 1, Teacher: "Mr. Kamau", Subject: "Mathematics", Grade: "Grade 3", Class: "East"},
			{ID: 2, Teacher: "Ms. Njeri", Subject: "English", Grade: "Grade 3", Class: "East"},
		},
		Assessments: []Assessment{
			{ID: 1, Student: "Amina Yusuf", AssessmentNo: "KPS001", Class: "East", Subject: "Mathematics", Marks: 80, Term: "Term 1 - Opener"},
			{ID: 2, Student: "Amina Yusuf", AssessmentNo: "KPS001", Class: "East", Subject: "English", Marks: 70, Term: "Term 1 - Opener"},
			{ID: 3, Student: "Brian Otieno", AssessmentNo: "KPS002", Class: "East", Subject: "Mathematics", Marks: 90, Term: "Term 1 - Opener"},
			// Brian has no English mark: defaults to 0.
			{ID: 4, Student: "Cynthia Wambui", AssessmentNo: "KPS003", Class: "East", Subject: "Mathematics", Marks: 75, Term: "Term 1 - Opener"},
			{ID: 5, Student: "Cynthia Wambui", AssessmentNo: "KPS003", Class: "East", Subject: "English", Marks: 75, Term: "Term 1 - Opener"},
			// different cycle, must not leak in
			{ID: 6, Student: "Amina Yusuf", AssessmentNo: "KPS001", Class: "East", Subject: "Mathematics", Marks: 10, Term: "Term 1 - Mid Term"},
		},
	}
}

func TestGenerateMarkList(t *testing.T) {
	snap := markListSnapshot()

	rpt, err := snap.GenerateMarkList("Grade 3 East", "Term 1", "Opener", "2026")
	if err != nil {
		t.Fatalf("GenerateMarkList() error = %v", err)
	}

	if want := []string{"Mathematics", "English"}; !reflect.DeepEqual(rpt.Subjects, want) {
		t.Errorf("Subjects = %v, want %v", rpt.Subjects, want)
	}
	// "MATH" comes from the configured initial, "ENG" from truncation.
	if want := []string{"MATH", "ENG"}; !reflect.DeepEqual(rpt.Headers, want) {
		t.Errorf("Headers = %v, want %v", rpt.Headers, want)
	}

	if len(rpt.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want 3", len(rpt.Rows))
	}

	// descending by total: Amina 150, Cynthia 150 (tied, enrollment order
	// breaks the tie), Brian 90
	wantOrder := []struct {
		pos   int
		name  string
		total float64
		mean  float64
		grade string
	}{
		{1, "Amina Yusuf", 150, 75, GradeEE1},
		{2, "Cynthia Wambui", 150, 75, GradeEE1},
		{3, "Brian Otieno", 90, 45, GradeEE1},
	}
	for i, want := range wantOrder {
		row := rpt.Rows[i]
		if row.Position != want.pos || row.Name != want.name || row.Total != want.total || row.Mean != want.mean || row.Grade != want.grade {
			t.Errorf("Rows[%d] = {%d %s %v %v %s}, want %+v", i, row.Position, row.Name, row.Total, row.Mean, row.Grade, want)
		}
	}

	if !reflect.DeepEqual(rpt.Rows[1].Scores, []float64{75, 75}) {
		t.Errorf("Cynthia's Scores = %v, want [75 75]", rpt.Rows[1].Scores)
	}
	if !reflect.DeepEqual(rpt.Rows[2].Scores, []float64{90, 0}) {
		t.Errorf("Brian's Scores = %v, want [90 0]", rpt.Rows[2].Scores)
	}

	// cohort mean of means: (75 + 45 + 75) / 3 = 65
	if rpt.Mean != 65 {
		t.Errorf("Mean = %v, want 65", rpt.Mean)
	}
}

func TestGenerateMarkListEmptyClass(t *testing.T) {
	snap := markListSnapshot()

	if _, err := snap.GenerateMarkList("Grade 5 South", "Term 1", "Opener", "2026"); err != ErrEmptyClass {
		t.Errorf("GenerateMarkList() error = %v, want %v", err, ErrEmptyClass)
	}
}

func TestGenerateMarkListIgnoresOtherSections(t *testing.T) {
	snap := markListSnapshot()

	rpt, err := snap.GenerateMarkList("Grade 3 East", "Term 1", "Opener", "2026")
	if err != nil {
		t.Fatalf("GenerateMarkList() error = %v", err)
	}
	for _, row := range rpt.Rows {
		if row.Name == "David Kiprop" {
			t.Error("Grade 3 West student appeared on the Grade 3 East mark list")
		}
	}
}

func TestSubjectHeadersFallback(t *testing.T) {
	snap := Snapshot{
		SubjectsLP: []Subject{
			{ID: 1, Name: "Environmental Activities"},
			{ID: 2, Name: "Art"},
		},
	}

	got := snap.subjectHeaders([]string{"Environmental Activities", "Art", "Unknown Subject"})
	if want := []string{"ENV", "ART", "UNK"}; !reflect.DeepEqual(got, want) {
		t.Errorf("subjectHeaders() = %v, want %v", got, want)
	}
}

func TestSplitClassLabel(t *testing.T) {
	tests := []struct {
		label       string
		wantGrade   string
		wantSection string
	}{
		{label: "Grade 3 East", wantGrade: "Grade 3", wantSection: "East"},
		{label: " Grade 6 South", wantGrade: "Grade 6", wantSection: "South"},
		{label: "Grade 1", wantGrade: "Grade 1", wantSection: ""},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			grade, section := SplitClassLabel(tt.label)
			if grade != tt.wantGrade || section != tt.wantSection {
				t.Errorf("SplitClassLabel(%q) = (%q, %q), want (%q, %q)",
					tt.label, grade, section, tt.wantGrade, tt.wantSection)
			}
		})
	}
}
