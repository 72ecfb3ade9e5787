package school

// The assignment index: scope queries derived from the assignment
// collection. All matching is on denormalized names, so a renamed teacher
// or subject simply drops out of scope (historical references orphan).

// SubjectsForGrade returns the unique subject names taught anywhere within
// a grade, across all sections and teachers, in first-occurrence order.
func (snap Snapshot) SubjectsForGrade(grade string) []string {
	seen := make(map[string]bool)
	var subjects []string
	for _, a := range snap.Assignments {
		if a.Grade != grade || seen[a.Subject] {
			continue
		}
		seen[a.Subject] = true
		subjects = append(subjects, a.Subject)
	}
	return subjects
}

// SubjectsForTeacher returns the unique subject names a teacher is
// assigned, in first-occurrence order.
func (snap Snapshot) SubjectsForTeacher(teacher string) []string {
	seen := make(map[string]bool)
	var subjects []string
	for _, a := range snap.Assignments {
		if a.Teacher != teacher || seen[a.Subject] {
			continue
		}
		seen[a.Subject] = true
		subjects = append(subjects, a.Subject)
	}
	return subjects
}

// ClassesForTeacher returns the unique full class labels ("Grade 3 East")
// a teacher is assigned to, in first-occurrence order.
func (snap Snapshot) ClassesForTeacher(teacher string) []string {
	seen := make(map[string]bool)
	var classes []string
	for _, a := range snap.Assignments {
		label := a.Grade + " " + a.Class
		if a.Teacher != teacher || seen[label] {
			continue
		}
		seen[label] = true
		classes = append(classes, label)
	}
	return classes
}

// InTeacherScope reports whether a student is in scope for a
// (teacher, subject) pair: some assignment must match the teacher, the
// subject, and the student's grade and section.
func (snap Snapshot) InTeacherScope(teacher, subject string, st Student) bool {
	for _, a := range snap.Assignments {
		if a.Teacher == teacher && a.Subject == subject && a.Grade == st.Grade && a.Class == st.Class {
			return true
		}
	}
	return false
}

// StudentsForTeacherSubject returns the students a teacher may enter
// marks for in a subject, in enrollment order.
func (snap Snapshot) StudentsForTeacherSubject(teacher, subject string) []Student {
	var students []Student
	for _, st := range snap.Students {
		if snap.InTeacherScope(teacher, subject, st) {
			students = append(students, st)
		}
	}
	return students
}
