package school

import (
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strconv"
	"strings"

	"github.com/fredgona305-cmyk/kjs/core"
)

var (
	// errors
	ErrNotFound           = errors.New("record not found")
	ErrTSCExists          = errors.New("a teacher with this TSC number already exists")
	ErrAssessmentNoExists = errors.New("a student with this assessment number already exists")
	ErrSubjectExists      = errors.New("a subject with this name already exists")
	ErrHeadteacherNotSet  = errors.New("headteacher is not set")
	ErrStudentNotFound    = errors.New("student not found")
	ErrEmptyClass         = errors.New("no students found in this class")
	ErrInvalidAssignment  = errors.New("assignment fields are incomplete")
	ErrInvalidMarks       = errors.New("marks must be a number between 0 and 100")
	ErrNotInScope         = errors.New("student is not assigned to this teacher for this subject")
)

type (
	Repository interface {
		CheckTeacherUniqueness(tsc string, excluded ...Teacher) error
		CreateTeacher(t Teacher) (Teacher, error)
		QueryAllTeachers() ([]Teacher, error)
		GetTeacherByID(id int) (Teacher, error)
		GetTeacherByTSC(tsc string) (Teacher, error)
		UpdateTeacher(t Teacher) (Teacher, error)
		DeleteTeacher(id int) error

		GetHeadteacher() (Headteacher, error)
		SetHeadteacher(h Headteacher) (Headteacher, error)

		CheckStudentUniqueness(assessmentNo string, excluded ...Student) error
		CreateStudent(s Student) (Student, error)
		QueryAllStudents() ([]Student, error)
		GetStudentByID(id int) (Student, error)
		GetStudentByAssessmentNo(assessmentNo string) (Student, error)
		// FilterStudents applies AND operation on available StudentFilter fields.
		// StudentFilter.Search does a case-insensitive match on one of
		// Student.Name or Student.AssessmentNo.
		FilterStudents(filter StudentFilter) ([]Student, error)
		UpdateStudent(s Student) (Student, error)
		DeleteStudent(id int) error

		CheckSubjectUniqueness(cur Curriculum, name string, excluded ...Subject) error
		CreateSubject(cur Curriculum, s Subject) (Subject, error)
		QueryAllSubjects(cur Curriculum) ([]Subject, error)
		GetSubjectByID(cur Curriculum, id int) (Subject, error)
		UpdateSubject(cur Curriculum, s Subject) (Subject, error)
		DeleteSubject(cur Curriculum, id int) error

		CreateAssignment(a Assignment) (Assignment, error)
		QueryAllAssignments() ([]Assignment, error)
		GetAssignmentByID(id int) (Assignment, error)
		DeleteAssignment(id int) error

		CreateAssessment(a Assessment) (Assessment, error)
		QueryAllAssessments() ([]Assessment, error)
		GetAssessmentByID(id int) (Assessment, error)
		// FilterAssessments does a case-insensitive match on one of
		// Assessment.AssessmentNo or Assessment.Student.
		FilterAssessments(filter AssessmentFilter) ([]Assessment, error)
		DeleteAssessment(id int) error

		CreateMarksList(m MarksList) (MarksList, error)
		QueryAllMarksLists() ([]MarksList, error)
		DeleteMarksList(id int) error

		CreateTimetableEntry(t TimetableEntry) (TimetableEntry, error)
		QueryAllTimetable() ([]TimetableEntry, error)
		DeleteTimetableEntry(id int) error

		Snapshot() (Snapshot, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, conf: conf}
}

// ------------------------------------------------------------------ teachers

func (svc *Service) checkTeacherUniqueness(tsc string, excl ...Teacher) error {
	if err := svc.repo.CheckTeacherUniqueness(tsc, excl...); err != nil {
		if err == ErrTSCExists {
			return core.NewValidationError(err, core.FieldError{Field: "tsc", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) CreateTeacher(nt NewTeacher) (Teacher, error) {
	if err := svc.checkTeacherUniqueness(nt.TSC); err != nil {
		return Teacher{}, err
	}
	return svc.repo.CreateTeacher(Teacher{
		Name:    nt.Name,
		Gender:  nt.Gender,
		TSC:     nt.TSC,
		IDNo:    nt.IDNo,
		Contact: nt.Contact,
	})
}

func (svc *Service) QueryAllTeachers() ([]Teacher, error) {
	return svc.repo.QueryAllTeachers()
}

func (svc *Service) GetTeacherByID(id int) (Teacher, error) {
	return svc.repo.GetTeacherByID(id)
}

// UpdateTeacher applies an update in place. Renaming a teacher does not
// cascade to assignments or timetable entries; records referencing the old
// name orphan.
func (svc *Service) UpdateTeacher(orig Teacher, ut UpdateTeacher) (Teacher, error) {
	if err := svc.checkTeacherUniqueness(ut.TSC, orig); err != nil {
		return Teacher{}, err
	}
	orig.Name = ut.Name
	orig.Gender = ut.Gender
	orig.TSC = ut.TSC
	orig.IDNo = ut.IDNo
	orig.Contact = ut.Contact
	return svc.repo.UpdateTeacher(orig)
}

func (svc *Service) DeleteTeacher(id int) error {
	return svc.repo.DeleteTeacher(id)
}

// AuthenticateTeacher matches a TSC number and national ID pair against the
// teacher roll.
func (svc *Service) AuthenticateTeacher(tsc, idNo string) (Teacher, error) {
	t, err := svc.repo.GetTeacherByTSC(core.CleanString(tsc))
	if err != nil {
		return Teacher{}, err
	}
	if t.IDNo != core.CleanString(idNo) {
		return Teacher{}, ErrNotFound
	}
	return t, nil
}

// --------------------------------------------------------------- headteacher

func (svc *Service) GetHeadteacher() (Headteacher, error) {
	return svc.repo.GetHeadteacher()
}

// SetHeadteacher installs or replaces the singleton headteacher record.
func (svc *Service) SetHeadteacher(nh NewHeadteacher) (Headteacher, error) {
	return svc.repo.SetHeadteacher(Headteacher{
		Name:    nh.Name,
		TSC:     nh.TSC,
		IDNo:    nh.IDNo,
		Contact: nh.Contact,
	})
}

func (svc *Service) AuthenticateHeadteacher(tsc, idNo string) (Headteacher, error) {
	h, err := svc.repo.GetHeadteacher()
	if err != nil {
		return Headteacher{}, err
	}
	if h.TSC != core.CleanString(tsc) || h.IDNo != core.CleanString(idNo) {
		return Headteacher{}, ErrNotFound
	}
	return h, nil
}

// ------------------------------------------------------------------ students

func (svc *Service) checkStudentUniqueness(assessmentNo string, excl ...Student) error {
	if err := svc.repo.CheckStudentUniqueness(assessmentNo, excl...); err != nil {
		if err == ErrAssessmentNoExists {
			return core.NewValidationError(err, core.FieldError{Field: "assessmentNo", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) CreateStudent(ns NewStudent) (Student, error) {
	if err := svc.checkStudentUniqueness(ns.AssessmentNo); err != nil {
		return Student{}, err
	}
	return svc.repo.CreateStudent(Student{
		Name:         ns.Name,
		AssessmentNo: ns.AssessmentNo,
		Gender:       ns.Gender,
		Grade:        ns.Grade,
		Class:        ns.Class,
	})
}

// QueryAllStudents returns the roll sorted by grade level then name.
func (svc *Service) QueryAllStudents() ([]Student, error) {
	students, err := svc.repo.QueryAllStudents()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(students, func(i, j int) bool {
		oi, oj := GradeOrder(students[i].Grade), GradeOrder(students[j].Grade)
		if oi != oj {
			return oi < oj
		}
		return students[i].Name < students[j].Name
	})
	return students, nil
}

func (svc *Service) GetStudentByID(id int) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

func (svc *Service) GetStudentByAssessmentNo(assessmentNo string) (Student, error) {
	return svc.repo.GetStudentByAssessmentNo(core.CleanString(assessmentNo))
}

func (svc *Service) FilterStudents(filter StudentFilter) ([]Student, error) {
	filter.Clean()
	return svc.repo.FilterStudents(filter)
}

// UpdateStudent applies an update in place. Past assessments keep the old
// name and assessment number; they are not rewritten.
func (svc *Service) UpdateStudent(orig Student, us UpdateStudent) (Student, error) {
	if err := svc.checkStudentUniqueness(us.AssessmentNo, orig); err != nil {
		return Student{}, err
	}
	orig.Name = us.Name
	orig.AssessmentNo = us.AssessmentNo
	orig.Gender = us.Gender
	orig.Grade = us.Grade
	orig.Class = us.Class
	return svc.repo.UpdateStudent(orig)
}

// DeleteStudent removes the enrollment record only. The student's
// assessments survive as orphans and still weigh on classmates' rankings.
func (svc *Service) DeleteStudent(id int) error {
	return svc.repo.DeleteStudent(id)
}

// ------------------------------------------------------------------ subjects

func (svc *Service) checkSubjectUniqueness(cur Curriculum, name string, excl ...Subject) error {
	if err := svc.repo.CheckSubjectUniqueness(cur, name, excl...); err != nil {
		if err == ErrSubjectExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) CreateSubject(cur Curriculum, nsj NewSubject) (Subject, error) {
	if err := svc.checkSubjectUniqueness(cur, nsj.Name); err != nil {
		return Subject{}, err
	}
	return svc.repo.CreateSubject(cur, Subject{
		Name:    nsj.Name,
		Code:    nsj.Code,
		Initial: nsj.Initial,
	})
}

func (svc *Service) QueryAllSubjects(cur Curriculum) ([]Subject, error) {
	return svc.repo.QueryAllSubjects(cur)
}

func (svc *Service) GetSubjectByID(cur Curriculum, id int) (Subject, error) {
	return svc.repo.GetSubjectByID(cur, id)
}

func (svc *Service) UpdateSubject(cur Curriculum, orig Subject, usj UpdateSubject) (Subject, error) {
	if err := svc.checkSubjectUniqueness(cur, usj.Name, orig); err != nil {
		return Subject{}, err
	}
	orig.Name = usj.Name
	orig.Code = usj.Code
	orig.Initial = usj.Initial
	return svc.repo.UpdateSubject(cur, orig)
}

func (svc *Service) DeleteSubject(cur Curriculum, id int) error {
	return svc.repo.DeleteSubject(cur, id)
}

// --------------------------------------------------------------- assignments

func (svc *Service) CreateAssignment(na NewAssignment) (Assignment, error) {
	return svc.repo.CreateAssignment(Assignment{
		Teacher: na.Teacher,
		Subject: na.Subject,
		Grade:   na.Grade,
		Class:   na.Class,
	})
}

func (svc *Service) QueryAllAssignments() ([]Assignment, error) {
	return svc.repo.QueryAllAssignments()
}

func (svc *Service) DeleteAssignment(id int) error {
	return svc.repo.DeleteAssignment(id)
}

// SubjectsForTeacher and ClassesForTeacher drive the marks-entry screens.

func (svc *Service) SubjectsForTeacher(teacher string) ([]string, error) {
	snap, err := svc.repo.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.SubjectsForTeacher(teacher), nil
}

func (svc *Service) ClassesForTeacher(teacher string) ([]string, error) {
	snap, err := svc.repo.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.ClassesForTeacher(teacher), nil
}

func (svc *Service) StudentsForTeacherSubject(teacher, subject string) ([]Student, error) {
	snap, err := svc.repo.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.StudentsForTeacherSubject(teacher, subject), nil
}

// --------------------------------------------------------------- assessments

// ParseMarks validates a raw marks string into a score in [0, 100].
func ParseMarks(raw string) (float64, error) {
	marks, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || marks < 0 || marks > 100 {
		return 0, core.NewValidationError(ErrInvalidMarks, core.FieldError{Field: "marks", Error: ErrInvalidMarks.Error()})
	}
	return marks, nil
}

func (svc *Service) CreateAssessment(na NewAssessment) (Assessment, error) {
	marks, err := ParseMarks(na.Marks)
	if err != nil {
		return Assessment{}, err
	}
	return svc.repo.CreateAssessment(Assessment{
		Student:      na.Student,
		AssessmentNo: na.AssessmentNo,
		Gender:       na.Gender,
		Class:        na.Class,
		Subject:      na.Subject,
		Marks:        marks,
		Term:         TermKey(na.Term, na.ExamType),
	})
}

// RecordMarks saves a teacher's bulk marks entry for one subject and cycle.
// Every mark is parsed and every student scope-checked before anything is
// written; an invalid entry rejects the whole batch.
func (svc *Service) RecordMarks(teacher string, me MarksEntry) ([]Assessment, error) {
	snap, err := svc.repo.Snapshot()
	if err != nil {
		return nil, err
	}

	assessments := make([]Assessment, 0, len(me.Entries))
	termKey := TermKey(me.Term, me.ExamType)
	for _, entry := range me.Entries {
		marks, err := ParseMarks(entry.Marks)
		if err != nil {
			return nil, err
		}
		st, ok := snap.studentByAssessmentNo(entry.AssessmentNo)
		if !ok {
			return nil, ErrStudentNotFound
		}
		if !snap.InTeacherScope(teacher, me.Subject, st) {
			return nil, ErrNotInScope
		}
		assessments = append(assessments, Assessment{
			Student:      st.Name,
			AssessmentNo: st.AssessmentNo,
			Gender:       st.Gender,
			Class:        st.Class,
			Subject:      me.Subject,
			Marks:        marks,
			Term:         termKey,
		})
	}

	saved := make([]Assessment, 0, len(assessments))
	for _, a := range assessments {
		created, err := svc.repo.CreateAssessment(a)
		if err != nil {
			return nil, err
		}
		saved = append(saved, created)
	}
	return saved, nil
}

func (svc *Service) QueryAllAssessments() ([]Assessment, error) {
	return svc.repo.QueryAllAssessments()
}

func (svc *Service) FilterAssessments(filter AssessmentFilter) ([]Assessment, error) {
	filter.Search = core.CleanString(filter.Search)
	return svc.repo.FilterAssessments(filter)
}

func (svc *Service) DeleteAssessment(id int) error {
	return svc.repo.DeleteAssessment(id)
}

// --------------------------------------------------------------- marks lists

func (svc *Service) CreateMarksList(nm NewMarksList) (MarksList, error) {
	return svc.repo.CreateMarksList(MarksList{
		Class:   nm.Class,
		Subject: nm.Subject,
		Term:    nm.Term,
	})
}

func (svc *Service) QueryAllMarksLists() ([]MarksList, error) {
	return svc.repo.QueryAllMarksLists()
}

func (svc *Service) DeleteMarksList(id int) error {
	return svc.repo.DeleteMarksList(id)
}

// ----------------------------------------------------------------- timetable

func (svc *Service) CreateTimetableEntry(nt NewTimetableEntry) (TimetableEntry, error) {
	return svc.repo.CreateTimetableEntry(TimetableEntry{
		Class:   nt.Class,
		Day:     nt.Day,
		Period:  nt.Period,
		Subject: nt.Subject,
		Teacher: nt.Teacher,
	})
}

func (svc *Service) QueryAllTimetable() ([]TimetableEntry, error) {
	return svc.repo.QueryAllTimetable()
}

// TimetableForClass filters the timetable on the full class label.
func (svc *Service) TimetableForClass(class string) ([]TimetableEntry, error) {
	entries, err := svc.repo.QueryAllTimetable()
	if err != nil {
		return nil, err
	}
	var filtered []TimetableEntry
	for _, e := range entries {
		if e.Class == class {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func (svc *Service) DeleteTimetableEntry(id int) error {
	return svc.repo.DeleteTimetableEntry(id)
}

// ------------------------------------------------------------------- reports

func (svc *Service) MarkList(class, term, examType, year string) (*MarkListReport, error) {
	snap, err := svc.repo.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.GenerateMarkList(class, term, examType, year)
}

func (svc *Service) ReportCard(in ReportCardInput) (*ReportCard, error) {
	snap, err := svc.repo.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.GenerateReportCard(in)
}

// SendImprovementReport emails a guardian the subjects needing attention
// from a freshly generated report card.
func (svc *Service) SendImprovementReport(in ReportCardInput, to mail.Address) (*ReportCard, error) {
	rc, err := svc.ReportCard(in)
	if err != nil {
		return nil, err
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Dear Parent/Guardian of %s,\n\n", rc.Student.Name)
	fmt.Fprintf(&body, "%s - %s report, %s %s (%s):\n\n", svc.conf.SchoolName, rc.Student.ClassLabel(), rc.Term, rc.ExamType, rc.Year)
	if len(rc.Improve) == 1 && rc.Improve[0] == AllWellMessage {
		body.WriteString(AllWellMessage + "\n")
	} else {
		body.WriteString("Subjects needing attention:\n")
		for _, subj := range rc.Improve {
			fmt.Fprintf(&body, "  - %s\n", subj)
		}
	}
	fmt.Fprintf(&body, "\nClass position: %d of %d\n", rc.ClassPosition, rc.ClassSize)
	fmt.Fprintf(&body, "Remark: %s\n", rc.Remark)

	subject := fmt.Sprintf("%s: %s %s report for %s", svc.conf.SchoolName, rc.Term, rc.ExamType, rc.Student.Name)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{to},
		Subject: subject,
		Body:    body.String(),
	})
	return rc, nil
}
