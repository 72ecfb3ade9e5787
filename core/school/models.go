package school

import (
	"strings"

	"github.com/fredgona305-cmyk/kjs/core"
)

// Curriculum identifies one of the two disjoint subject collections.
type Curriculum string

const (
	LowerPrimary Curriculum = "lp"
	UpperPrimary Curriculum = "up"
)

var (
	// GradeLevels are the school year levels, in order.
	GradeLevels = []string{"Grade 1", "Grade 2", "Grade 3", "Grade 4", "Grade 5", "Grade 6"}

	// ClassSections are the named class streams within each grade.
	ClassSections = []string{"East", "West", "South"}

	TermLabels = []string{"Term 1", "Term 2", "Term 3"}
	ExamTypes  = []string{"Opener", "Mid Term", "End Term"}

	Genders = []string{"Male", "Female"}
)

// TermKey builds the composite key identifying one assessment cycle,
// e.g. "Term 2 - End Term". Assessments are always filtered on the
// composite, never on its halves.
func TermKey(term, examType string) string {
	return term + " - " + examType
}

// SplitClassLabel splits a full class label ("Grade 3 East") into its
// grade level ("Grade 3") and section ("East"). The grade level is the
// first two tokens of the label.
func SplitClassLabel(label string) (grade, section string) {
	parts := strings.SplitN(strings.TrimSpace(label), " ", 3)
	if len(parts) < 3 {
		return strings.Join(parts, " "), ""
	}
	return parts[0] + " " + parts[1], parts[2]
}

// GradeOrder returns the index of a grade level in GradeLevels, or -1.
func GradeOrder(grade string) int {
	for i, g := range GradeLevels {
		if g == grade {
			return i
		}
	}
	return -1
}

type Teacher struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Gender  string `json:"gender"`
	TSC     string `json:"tsc"`
	IDNo    string `json:"idNo"`
	Contact string `json:"contact"`
}

// Headteacher is a singleton record; at most one exists at a time.
type Headteacher struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	TSC     string `json:"tsc"`
	IDNo    string `json:"idNo"`
	Contact string `json:"contact"`
}

type Student struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	AssessmentNo string `json:"assessmentNo"`
	Gender       string `json:"gender"`
	Grade        string `json:"grade"`
	Class        string `json:"class"` // section only, e.g. "East"
}

// ClassLabel returns the full class label, e.g. "Grade 3 East".
func (s Student) ClassLabel() string {
	return s.Grade + " " + s.Class
}

type Subject struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	Initial string `json:"initial"`
}

// Assignment says: this teacher teaches this subject to this grade+section.
// Teacher and subject are referenced by name; renaming either orphans the
// assignment (no cascade, same as deletion).
type Assignment struct {
	ID      int    `json:"id"`
	Teacher string `json:"teacher"`
	Subject string `json:"subject"`
	Grade   string `json:"grade"`
	Class   string `json:"class"`
}

// Assessment is one student's mark for one subject in one assessment cycle.
// Nothing enforces one row per (student, subject, term); lookups take the
// first match.
type Assessment struct {
	ID           int     `json:"id"`
	Student      string  `json:"student"`
	AssessmentNo string  `json:"assessmentNo"`
	Gender       string  `json:"gender"`
	Class        string  `json:"class"` // section only
	Subject      string  `json:"subject"`
	Marks        float64 `json:"marks"`
	Term         string  `json:"term"` // composite, see TermKey
}

// MarksList is a saved-report registry entry. It is created explicitly;
// mark-list generation does not register one.
type MarksList struct {
	ID      int    `json:"id"`
	Class   string `json:"class"`
	Subject string `json:"subject"`
	Term    string `json:"term"`
}

type TimetableEntry struct {
	ID      int    `json:"id"`
	Class   string `json:"class"`
	Day     string `json:"day"`
	Period  string `json:"period"`
	Subject string `json:"subject"`
	Teacher string `json:"teacher"`
}

// Snapshot is a point-in-time copy of every collection. The aggregators
// are pure functions over a Snapshot so they stay safely callable under
// concurrent requests.
type Snapshot struct {
	Teachers    []Teacher
	Headteacher *Headteacher
	Students    []Student
	SubjectsLP  []Subject
	SubjectsUP  []Subject
	Assignments []Assignment
	Assessments []Assessment
	MarksLists  []MarksList
	Timetable   []TimetableEntry
}

// SubjectByName looks a subject up by name across both curricula,
// lower primary first.
func (snap Snapshot) SubjectByName(name string) (Subject, bool) {
	for _, s := range snap.SubjectsLP {
		if s.Name == name {
			return s, true
		}
	}
	for _, s := range snap.SubjectsUP {
		if s.Name == name {
			return s, true
		}
	}
	return Subject{}, false
}

// NewTeacher contains information needed to register a Teacher.
type NewTeacher struct {
	Name    string `json:"name" validate:"required"`
	Gender  string `json:"gender" validate:"omitempty,gender"`
	TSC     string `json:"tsc" validate:"required"`
	IDNo    string `json:"idNo" validate:"required"`
	Contact string `json:"contact"`
}

func (nt *NewTeacher) Validate(v *Validators) error {
	nt.Name = core.CleanString(nt.Name)
	nt.TSC = core.CleanString(nt.TSC)
	nt.IDNo = core.CleanString(nt.IDNo)
	nt.Contact = core.CleanString(nt.Contact)
	return v.Validate.Struct(nt)
}

// UpdateTeacher defines what may be modified on an existing Teacher.
// Empty fields keep their current value.
type UpdateTeacher struct {
	Name    string `json:"name"`
	Gender  string `json:"gender" validate:"omitempty,gender"`
	TSC     string `json:"tsc"`
	IDNo    string `json:"idNo"`
	Contact string `json:"contact"`
}

func (ut *UpdateTeacher) Validate(orig Teacher, v *Validators) error {
	if ut.Name = core.CleanString(ut.Name); ut.Name == "" {
		ut.Name = orig.Name
	}
	if ut.Gender == "" {
		ut.Gender = orig.Gender
	}
	if ut.TSC = core.CleanString(ut.TSC); ut.TSC == "" {
		ut.TSC = orig.TSC
	}
	if ut.IDNo = core.CleanString(ut.IDNo); ut.IDNo == "" {
		ut.IDNo = orig.IDNo
	}
	if ut.Contact = core.CleanString(ut.Contact); ut.Contact == "" {
		ut.Contact = orig.Contact
	}
	return v.Validate.Struct(ut)
}

// NewHeadteacher contains information needed to set the Headteacher.
type NewHeadteacher struct {
	Name    string `json:"name" validate:"required"`
	TSC     string `json:"tsc" validate:"required"`
	IDNo    string `json:"idNo" validate:"required"`
	Contact string `json:"contact" validate:"required"`
}

func (nh *NewHeadteacher) Validate(v *Validators) error {
	nh.Name = core.CleanString(nh.Name)
	nh.TSC = core.CleanString(nh.TSC)
	nh.IDNo = core.CleanString(nh.IDNo)
	nh.Contact = core.CleanString(nh.Contact)
	return v.Validate.Struct(nh)
}

// NewStudent contains information needed to enroll a Student.
type NewStudent struct {
	Name         string `json:"name" validate:"required"`
	AssessmentNo string `json:"assessmentNo" validate:"required"`
	Gender       string `json:"gender" validate:"omitempty,gender"`
	Grade        string `json:"grade" validate:"required,gradelevel"`
	Class        string `json:"class" validate:"required,classsection"`
}

func (ns *NewStudent) Validate(v *Validators) error {
	ns.Name = core.CleanString(ns.Name)
	ns.AssessmentNo = core.CleanString(ns.AssessmentNo)
	return v.Validate.Struct(ns)
}

// UpdateStudent defines what may be modified on an existing Student.
// Empty fields keep their current value.
type UpdateStudent struct {
	Name         string `json:"name"`
	AssessmentNo string `json:"assessmentNo"`
	Gender       string `json:"gender" validate:"omitempty,gender"`
	Grade        string `json:"grade" validate:"omitempty,gradelevel"`
	Class        string `json:"class" validate:"omitempty,classsection"`
}

func (us *UpdateStudent) Validate(orig Student, v *Validators) error {
	if us.Name = core.CleanString(us.Name); us.Name == "" {
		us.Name = orig.Name
	}
	if us.AssessmentNo = core.CleanString(us.AssessmentNo); us.AssessmentNo == "" {
		us.AssessmentNo = orig.AssessmentNo
	}
	if us.Gender == "" {
		us.Gender = orig.Gender
	}
	if us.Grade == "" {
		us.Grade = orig.Grade
	}
	if us.Class == "" {
		us.Class = orig.Class
	}
	return v.Validate.Struct(us)
}

// NewSubject contains information needed to add a Subject to a curriculum.
type NewSubject struct {
	Name    string `json:"name" validate:"required"`
	Code    string `json:"code" validate:"required"`
	Initial string `json:"initial" validate:"required"`
}

func (nsj *NewSubject) Validate(v *Validators) error {
	nsj.Name = core.CleanString(nsj.Name)
	nsj.Code = core.CleanString(nsj.Code)
	nsj.Initial = core.CleanString(nsj.Initial)
	return v.Validate.Struct(nsj)
}

// UpdateSubject defines what may be modified on an existing Subject.
// Empty fields keep their current value.
type UpdateSubject struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Initial string `json:"initial"`
}

func (usj *UpdateSubject) Validate(orig Subject, v *Validators) error {
	if usj.Name = core.CleanString(usj.Name); usj.Name == "" {
		usj.Name = orig.Name
	}
	if usj.Code = core.CleanString(usj.Code); usj.Code == "" {
		usj.Code = orig.Code
	}
	if usj.Initial = core.CleanString(usj.Initial); usj.Initial == "" {
		usj.Initial = orig.Initial
	}
	return v.Validate.Struct(usj)
}

// NewAssignment contains information needed to assign a subject to a teacher.
// No assignment may be created with an empty field; partial records are
// rejected, not inserted.
type NewAssignment struct {
	Teacher string `json:"teacher" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Grade   string `json:"grade" validate:"required,gradelevel"`
	Class   string `json:"class" validate:"required,classsection"`
}

func (na *NewAssignment) Validate(v *Validators) error {
	na.Teacher = core.CleanString(na.Teacher)
	na.Subject = core.CleanString(na.Subject)
	if err := v.Validate.Struct(na); err != nil {
		return core.NewValidationError(ErrInvalidAssignment)
	}
	return nil
}

// NewAssessment contains information needed to record a single mark.
// Marks arrive as a numeric string and are validated to [0, 100].
type NewAssessment struct {
	Student      string `json:"student" validate:"required"`
	AssessmentNo string `json:"assessmentNo" validate:"required"`
	Gender       string `json:"gender" validate:"omitempty,gender"`
	Class        string `json:"class" validate:"required,classsection"`
	Subject      string `json:"subject" validate:"required"`
	Marks        string `json:"marks" validate:"required"`
	Term         string `json:"term" validate:"required,termlabel"`
	ExamType     string `json:"examType" validate:"required,examtype"`
}

func (na *NewAssessment) Validate(v *Validators) error {
	na.Student = core.CleanString(na.Student)
	na.AssessmentNo = core.CleanString(na.AssessmentNo)
	na.Subject = core.CleanString(na.Subject)
	na.Marks = core.CleanString(na.Marks)
	return v.Validate.Struct(na)
}

// MarkEntry is one student's mark within a bulk marks entry.
type MarkEntry struct {
	AssessmentNo string `json:"assessmentNo" validate:"required"`
	Marks        string `json:"marks" validate:"required"`
}

// MarksEntry is a teacher's bulk save of one subject's marks for one
// assessment cycle. The whole batch is rejected when any mark is invalid.
type MarksEntry struct {
	Subject  string      `json:"subject" validate:"required"`
	Term     string      `json:"term" validate:"required,termlabel"`
	ExamType string      `json:"examType" validate:"required,examtype"`
	Entries  []MarkEntry `json:"entries" validate:"required,min=1,dive"`
}

func (me *MarksEntry) Validate(v *Validators) error {
	me.Subject = core.CleanString(me.Subject)
	for i := range me.Entries {
		me.Entries[i].AssessmentNo = core.CleanString(me.Entries[i].AssessmentNo)
		me.Entries[i].Marks = core.CleanString(me.Entries[i].Marks)
	}
	return v.Validate.Struct(me)
}

// NewMarksList contains information needed to register a saved mark list.
type NewMarksList struct {
	Class   string `json:"class" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Term    string `json:"term" validate:"required"`
}

func (nm *NewMarksList) Validate(v *Validators) error {
	nm.Class = core.CleanString(nm.Class)
	nm.Subject = core.CleanString(nm.Subject)
	nm.Term = core.CleanString(nm.Term)
	return v.Validate.Struct(nm)
}

// NewTimetableEntry contains information needed to add a timetable slot.
type NewTimetableEntry struct {
	Class   string `json:"class" validate:"required"`
	Day     string `json:"day" validate:"required"`
	Period  string `json:"period" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Teacher string `json:"teacher" validate:"required"`
}

func (nt *NewTimetableEntry) Validate(v *Validators) error {
	nt.Class = core.CleanString(nt.Class)
	nt.Day = core.CleanString(nt.Day)
	nt.Period = core.CleanString(nt.Period)
	nt.Subject = core.CleanString(nt.Subject)
	nt.Teacher = core.CleanString(nt.Teacher)
	return v.Validate.Struct(nt)
}

// StudentFilter narrows student listings. Fields AND together.
type StudentFilter struct {
	Grade  string `query:"grade"`
	Class  string `query:"class"`
	Search string `query:"search"`
}

func (f *StudentFilter) IsEmpty() bool {
	return f.Grade == "" && f.Class == "" && f.Search == ""
}

func (f *StudentFilter) Clean() {
	f.Search = core.CleanString(f.Search)
}

// AssessmentFilter narrows assessment listings; Search does a
// case-insensitive match on assessment number or student name.
type AssessmentFilter struct {
	Search string `query:"search"`
}
