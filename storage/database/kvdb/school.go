package kvdb

import (
	"strings"

	"github.com/fredgona305-cmyk/kjs/core/school"
)

type schoolRepository struct {
	db *DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) school.Repository {
	return &schoolRepository{db: db}
}

// ------------------------------------------------------------------ teachers

func (repo *schoolRepository) CheckTeacherUniqueness(tsc string, excluded ...school.Teacher) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, t := range repo.db.teachers {
		if t.TSC == tsc && !teacherExcluded(t, excluded) {
			return school.ErrTSCExists
		}
	}
	return nil
}

func teacherExcluded(t school.Teacher, excluded []school.Teacher) bool {
	for _, e := range excluded {
		if e.ID == t.ID {
			return true
		}
	}
	return false
}

func (repo *schoolRepository) CreateTeacher(t school.Teacher) (school.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	t.ID = repo.db.allocID(keyTeachers)
	repo.db.teachers = append(repo.db.teachers, t)
	return t, repo.db.persist(keyTeachers, repo.db.teachers)
}

func (repo *schoolRepository) QueryAllTeachers() ([]school.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return append([]school.Teacher(nil), repo.db.teachers...), nil
}

func (repo *schoolRepository) GetTeacherByID(id int) (school.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, t := range repo.db.teachers {
		if t.ID == id {
			return t, nil
		}
	}
	return school.Teacher{}, school.ErrNotFound
}

func (repo *schoolRepository) GetTeacherByTSC(tsc string) (school.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, t := range repo.db.teachers {
		if t.TSC == tsc {
			return t, nil
		}
	}
	return school.Teacher{}, school.ErrNotFound
}

func (repo *schoolRepository) UpdateTeacher(t school.Teacher) (school.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i := range repo.db.teachers {
		if repo.db.teachers[i].ID == t.ID {
			repo.db.teachers[i] = t
			return t, repo.db.persist(keyTeachers, repo.db.teachers)
		}
	}
	return school.Teacher{}, school.ErrNotFound
}

func (repo *schoolRepository) DeleteTeacher(id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i := range repo.db.teachers {
		if repo.db.teachers[i].ID == id {
			repo.db.teachers = append(repo.db.teachers[:i], repo.db.teachers[i+1:]...)
			return repo.db.persist(keyTeachers, repo.db.teachers)
		}
	}
	return school.ErrNotFound
}

// --------------------------------------------------------------- headteacher

func (repo *schoolRepository) GetHeadteacher() (school.Headteacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if repo.db.headteacher == nil {
		return school.Headteacher{}, school.ErrHeadteacherNotSet
	}
	return *repo.db.headteacher, nil
}

func (repo *schoolRepository) SetHeadteacher(h school.Headteacher) (school.Headteacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.db.headteacher != nil {
		h.ID = repo.db.headteacher.ID
	} else {
		h.ID = repo.db.allocID(keyHeadteacher)
	}
	repo.db.headteacher = &h
	return h, repo.db.persist(keyHeadteacher, repo.db.headteacher)
}

// ------------------------------------------------------------------ students

func (repo *schoolRepository) CheckStudentUniqueness(assessmentNo string, excluded ...school.Student) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.db.students {
		if s.AssessmentNo == assessmentNo && !studentExcluded(s, excluded) {
			return school.ErrAssessmentNoExists
		}
	}
	return nil
}

func studentExcluded(s school.Student, excluded []school.Student) bool {
	for _, e := range excluded {
		if e.ID == s.ID {
			return true
		}
	}
	return false
}

func (repo *schoolRepository) CreateStudent(s school.Student) (school.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	s.ID = repo.db.allocID(keyStudents)
	repo.db.students = append(repo.db.students, s)
	return s, repo.db.persist(keyStudents, repo.db.students)
}

func (repo *schoolRepository) QueryAllStudents() ([]school.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return append([]school.Student(nil), repo.db.students...), nil
}

func (repo *schoolRepository) GetStudentByID(id int) (school.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.db.students {
		if s.ID == id {
			return s, nil
		}
	}
	return school.Student{}, school.ErrNotFound
}

func (repo *schoolRepository) GetStudentByAssessmentNo(assessmentNo string) (school.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.db.students {
		if s.AssessmentNo == assessmentNo {
			return s, nil
		}
	}
	return school.Student{}, school.ErrNotFound
}

func (repo *schoolRepository) FilterStudents(filter school.StudentFilter) ([]school.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var filtered []school.Student
	search := strings.ToLower(filter.Search)
	for _, s := range repo.db.students {
		if filter.Grade != "" && s.Grade != filter.Grade {
			continue
		}
		if filter.Class != "" && s.Class != filter.Class {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(s.Name), search) &&
			!strings.Contains(strings.ToLower(s.AssessmentNo), search) {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered, nil
}

func (repo *schoolRepository) UpdateStudent(s school.Student) (school.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i := range repo.db.students {
		if repo.db.students[i].ID == s.ID {
			repo.db.students[i] = s
			return s, repo.db.persist(keyStudents, repo.db.students)
		}
	}
	return school.Student{}, school.ErrNotFound
}

func (repo *schoolRepository) DeleteStudent(id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i := range repo.db.students {
		if repo.db.students[i].ID == id {
			repo.db.students = append(repo.db.students[:i], repo.db.students[i+1:]...)
			return repo.db.persist(keyStudents, repo.db.students)
		}
	}
	return school.ErrNotFound
}

// ------------------------------------------------------------------ subjects

func (repo *schoolRepository) subjects(cur school.Curriculum) *[]school.Subject {
	if cur == school.UpperPrimary {
		return &repo.db.subjectsUP
	}
	return &repo.db.subjectsLP
}

func subjectKey(cur school.Curriculum) string {
	if cur == school.UpperPrimary {
		return keySubjectsUP
	}
	return keySubjectsLP
}

func (repo *schoolRepository) CheckSubjectUniqueness(cur school.Curriculum, name string, excluded ...school.Subject) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range *repo.subjects(cur) {
		if !strings.EqualFold(s.Name, name) {
			continue
		}
		isExcluded := false
		for _, e := range excluded {
			if e.ID == s.ID {
				isExcluded = true
				break
			}
		}
		if !isExcluded {
			return school.ErrSubjectExists
		}
	}
	return nil
}

func (repo *schoolRepository) CreateSubject(cur school.Curriculum, s school.Subject) (school.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := subjectKey(cur)
	s.ID = repo.db.allocID(key)
	tbl := repo.subjects(cur)
	*tbl = append(*tbl, s)
	return s, repo.db.persist(key, *tbl)
}

func (repo *schoolRepository) QueryAllSubjects(cur school.Curriculum) ([]school.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return append([]school.Subject(nil), *repo.subjects(cur)...), nil
}

func (repo *schoolRepository) GetSubjectByID(cur school.Curriculum, id int) (school.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range *repo.subjects(cur) {
		if s.ID == id {
			return s, nil
		}
	}
	return school.Subject{}, school.ErrNotFound
}

func (repo *schoolRepository) UpdateSubject(cur school.Curriculum, s school.Subject) (school.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	tbl := repo.subjects(cur)
	for i := range *tbl {
		if (*tbl)[i].ID == s.ID {
			(*tbl)[i] = s
			return s, repo.db.persist(subjectKey(cur), *tbl)
		}
	}
	return school.Subject{}, school.ErrNotFound
}

func (repo *schoolRepository) DeleteSubject(cur school.Curriculum, id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	tbl := repo.subjects(cur)
	for i := range *tbl {
		if (*tbl)[i].ID == id {
			*tbl = append((*tbl)[:i], (*tbl)[i+1:]...)
			return repo.db.persist(subjectKey(cur), *tbl)
		}
	}
	return school.ErrNotFound
}

// --------------------------------------------------------------- assignments

func (repo *schoolRepository) CreateAssignment(a school.Assignment) (school.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	a.ID = repo.db.allocID(keyAssignments)
	repo.db.assignments = append(repo.db.assignments, a)
	return a, repo.db.persist(keyAssignments, repo.db.assignments)
}

func (repo *schoolRepository) QueryAllAssignments() ([]school.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return append([]school.Assignment(nil), repo.db.assignments...), nil
}

func (repo *schoolRepository) GetAssignmentByID(id int) (school.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, a := range repo.db.assignments {
		if a.ID == id {
			return a, nil
		}
	}
	return school.Assignment{}, school.ErrNotFound
}

func (repo *schoolRepository) DeleteAssignment(id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i := range repo.db.assignments {
		if repo.db.assignments[i].ID == id {
			repo.db.assignments = append(repo.db.assignments[:i], repo.db.assignments[i+1:]...)
			return repo.db.persist(keyAssignments, repo.db.assignments)
		}
	}
	return school.ErrNotFound
}

// --------------------------------------------------------------- assessments

func (repo *schoolRepository) CreateAssessment(a school.Assessment) (school.Assessment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	a.ID = repo.db.allocID(keyAssessments)
	repo.db.assessments = append(repo.db.assessments, a)
	return a, repo.db.persist(keyAssessments, repo.db.assessments)
}

func (repo *schoolRepository) QueryAllAssessments() ([]school.Assessment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return append([]school.Assessment(nil), repo.db.assessments...), nil
}

func (repo *schoolRepository) GetAssessmentByID(id int) (school.Assessment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, a := range repo.db.assessments {
		if a.ID == id {
			return a, nil
		}
	}
	return school.Assessment{}, school.ErrNotFound
}

func (repo *schoolRepository) FilterAssessments(filter school.AssessmentFilter) ([]school.Assessment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter.Search == "" {
		return append([]school.Assessment(nil), repo.db.assessments...), nil
	}

	var filtered []school.Assessment
	search := strings.ToLower(filter.Search)
	for _, a := range repo.db.assessments {
		if strings.Contains(strings.ToLower(a.AssessmentNo), search) ||
			strings.Contains(strings.ToLower(a.Student), search) {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

func (repo *schoolRepository) DeleteAssessment(id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i := range repo.db.assessments {
		if repo.db.assessments[i].ID == id {
			repo.db.assessments = append(repo.db.assessments[:i], repo.db.assessments[i+1:]...)
			return repo.db.persist(keyAssessments, repo.db.assessments)
		}
	}
	return school.ErrNotFound
}

// --------------------------------------------------------------- marks lists

func (repo *schoolRepository) CreateMarksList(m school.MarksList) (school.MarksList, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	m.ID = repo.db.allocID(keyMarksLists)
	repo.db.marksLists = append(repo.db.marksLists, m)
	return m, repo.db.persist(keyMarksLists, repo.db.marksLists)
}

func (repo *schoolRepository) QueryAllMarksLists() ([]school.MarksList, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return append([]school.MarksList(nil), repo.db.marksLists...), nil
}

func (repo *schoolRepository) DeleteMarksList(id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i := range repo.db.marksLists {
		if repo.db.marksLists[i].ID == id {
			repo.db.marksLists = append(repo.db.marksLists[:i], repo.db.marksLists[i+1:]...)
			return repo.db.persist(keyMarksLists, repo.db.marksLists)
		}
	}
	return school.ErrNotFound
}

// ----------------------------------------------------------------- timetable

func (repo *schoolRepository) CreateTimetableEntry(t school.TimetableEntry) (school.TimetableEntry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	t.ID = repo.db.allocID(keyTimetable)
	repo.db.timetable = append(repo.db.timetable, t)
	return t, repo.db.persist(keyTimetable, repo.db.timetable)
}

func (repo *schoolRepository) QueryAllTimetable() ([]school.TimetableEntry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return append([]school.TimetableEntry(nil), repo.db.timetable...), nil
}

func (repo *schoolRepository) DeleteTimetableEntry(id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i := range repo.db.timetable {
		if repo.db.timetable[i].ID == id {
			repo.db.timetable = append(repo.db.timetable[:i], repo.db.timetable[i+1:]...)
			return repo.db.persist(keyTimetable, repo.db.timetable)
		}
	}
	return school.ErrNotFound
}

// ------------------------------------------------------------------ snapshot

func (repo *schoolRepository) Snapshot() (school.Snapshot, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	snap := school.Snapshot{
		Teachers:    append([]school.Teacher(nil), repo.db.teachers...),
		Students:    append([]school.Student(nil), repo.db.students...),
		SubjectsLP:  append([]school.Subject(nil), repo.db.subjectsLP...),
		SubjectsUP:  append([]school.Subject(nil), repo.db.subjectsUP...),
		Assignments: append([]school.Assignment(nil), repo.db.assignments...),
		Assessments: append([]school.Assessment(nil), repo.db.assessments...),
		MarksLists:  append([]school.MarksList(nil), repo.db.marksLists...),
		Timetable:   append([]school.TimetableEntry(nil), repo.db.timetable...),
	}
	if repo.db.headteacher != nil {
		ht := *repo.db.headteacher
		snap.Headteacher = &ht
	}
	return snap, nil
}
