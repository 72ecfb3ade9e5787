// Package kvdb implements the school repository on a key-value store.
// Every collection lives in memory and is flushed wholesale to its key on
// each mutation, so the store always holds a consistent copy.
package kvdb

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/fredgona305-cmyk/kjs/core/school"
	"github.com/fredgona305-cmyk/kjs/storage/kv"
)

// collection keys; the cbc_ prefix is shared with earlier deployments so
// existing data loads as-is.
const (
	keyTeachers    = "cbc_teachers"
	keyHeadteacher = "cbc_headteacher"
	keyStudents    = "cbc_students"
	keySubjectsLP  = "cbc_subjects_lp"
	keySubjectsUP  = "cbc_subjects_up"
	keyAssignments = "cbc_assignments"
	keyAssessments = "cbc_assessments"
	keyMarksLists  = "cbc_marks_lists"
	keyTimetable   = "cbc_timetable"
)

var collectionKeys = []string{
	keyTeachers, keyHeadteacher, keyStudents, keySubjectsLP, keySubjectsUP,
	keyAssignments, keyAssessments, keyMarksLists, keyTimetable,
}

type DB struct {
	sync.RWMutex
	store kv.Store

	teachers    []school.Teacher
	headteacher *school.Headteacher
	students    []school.Student
	subjectsLP  []school.Subject
	subjectsUP  []school.Subject
	assignments []school.Assignment
	assessments []school.Assessment
	marksLists  []school.MarksList
	timetable   []school.TimetableEntry

	// nextID holds the last ID handed out per collection key. IDs only
	// ever grow; a deleted record's ID is never reissued.
	nextID map[string]int
}

func Open(store kv.Store) (*DB, error) {
	db := &DB{store: store, nextID: make(map[string]int)}

	loads := []struct {
		key  string
		dest interface{}
	}{
		{keyTeachers, &db.teachers},
		{keyHeadteacher, &db.headteacher},
		{keyStudents, &db.students},
		{keySubjectsLP, &db.subjectsLP},
		{keySubjectsUP, &db.subjectsUP},
		{keyAssignments, &db.assignments},
		{keyAssessments, &db.assessments},
		{keyMarksLists, &db.marksLists},
		{keyTimetable, &db.timetable},
	}
	for _, l := range loads {
		data, err := store.Load(l.key)
		if err == kv.ErrKeyNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, l.dest); err != nil {
			return nil, errors.Wrapf(err, "decoding %s", l.key)
		}
	}

	db.seedIDs()
	return db, nil
}

func (db *DB) Close() error { return db.store.Close() }

func (db *DB) seedIDs() {
	max := func(key string, id int) {
		if id > db.nextID[key] {
			db.nextID[key] = id
		}
	}
	for _, t := range db.teachers {
		max(keyTeachers, t.ID)
	}
	for _, s := range db.students {
		max(keyStudents, s.ID)
	}
	for _, s := range db.subjectsLP {
		max(keySubjectsLP, s.ID)
	}
	for _, s := range db.subjectsUP {
		max(keySubjectsUP, s.ID)
	}
	for _, a := range db.assignments {
		max(keyAssignments, a.ID)
	}
	for _, a := range db.assessments {
		max(keyAssessments, a.ID)
	}
	for _, m := range db.marksLists {
		max(keyMarksLists, m.ID)
	}
	for _, t := range db.timetable {
		max(keyTimetable, t.ID)
	}
	if db.headteacher != nil {
		max(keyHeadteacher, db.headteacher.ID)
	}
}

// allocID must be called with the write lock held.
func (db *DB) allocID(key string) int {
	db.nextID[key]++
	return db.nextID[key]
}

// persist must be called with the write lock held.
func (db *DB) persist(key string, val interface{}) error {
	data, err := json.Marshal(val)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", key)
	}
	return db.store.Save(key, data)
}

// Dump serializes every collection into a single backup document.
func (db *DB) Dump() ([]byte, error) {
	db.RLock()
	defer db.RUnlock()

	doc := make(map[string]json.RawMessage, len(collectionKeys))
	dump := func(key string, val interface{}) error {
		data, err := json.Marshal(val)
		if err != nil {
			return errors.Wrapf(err, "encoding %s", key)
		}
		doc[key] = data
		return nil
	}
	for _, d := range []struct {
		key string
		val interface{}
	}{
		{keyTeachers, db.teachers},
		{keyHeadteacher, db.headteacher},
		{keyStudents, db.students},
		{keySubjectsLP, db.subjectsLP},
		{keySubjectsUP, db.subjectsUP},
		{keyAssignments, db.assignments},
		{keyAssessments, db.assessments},
		{keyMarksLists, db.marksLists},
		{keyTimetable, db.timetable},
	} {
		if err := dump(d.key, d.val); err != nil {
			return nil, err
		}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Restore replaces every collection with the contents of a backup
// document and persists the result. Keys absent from the document reset
// to empty.
func (db *DB) Restore(backup []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(backup, &doc); err != nil {
		return errors.Wrap(err, "decoding backup")
	}

	db.Lock()
	defer db.Unlock()

	db.teachers = nil
	db.headteacher = nil
	db.students = nil
	db.subjectsLP = nil
	db.subjectsUP = nil
	db.assignments = nil
	db.assessments = nil
	db.marksLists = nil
	db.timetable = nil

	for _, l := range []struct {
		key  string
		dest interface{}
	}{
		{keyTeachers, &db.teachers},
		{keyHeadteacher, &db.headteacher},
		{keyStudents, &db.students},
		{keySubjectsLP, &db.subjectsLP},
		{keySubjectsUP, &db.subjectsUP},
		{keyAssignments, &db.assignments},
		{keyAssessments, &db.assessments},
		{keyMarksLists, &db.marksLists},
		{keyTimetable, &db.timetable},
	} {
		if raw, ok := doc[l.key]; ok {
			if err := json.Unmarshal(raw, l.dest); err != nil {
				return errors.Wrapf(err, "decoding %s", l.key)
			}
		}
		if err := db.persist(l.key, l.dest); err != nil {
			return err
		}
	}

	db.nextID = make(map[string]int)
	db.seedIDs()
	return nil
}
