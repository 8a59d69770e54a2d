// Package inmemdb provides in-memory repository implementations used by
// tests and local development. The tables live behind one mutex; grade
// updates therefore serialize per process the way the postgres
// implementation serializes per row.
package inmemdb

import (
	"sync"

	"github.com/univxyz/transkrip/core/course"
	"github.com/univxyz/transkrip/core/grade"
	"github.com/univxyz/transkrip/core/staff"
	"github.com/univxyz/transkrip/core/student"
)

type DB struct {
	mutex    sync.RWMutex
	students map[string]*student.Student
	courses  map[string]*course.Course
	grades   map[int]*grade.Record
	history  []grade.ChangeEntry
	staff    map[string]*staff.Staff
	gradePK  int
}

func New() *DB {
	return &DB{
		students: make(map[string]*student.Student),
		courses:  make(map[string]*course.Course),
		grades:   make(map[int]*grade.Record),
		staff:    make(map[string]*staff.Staff),
	}
}

// Reset empties all tables; tests call it between cases.
func (db *DB) Reset() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.students = make(map[string]*student.Student)
	db.courses = make(map[string]*course.Course)
	db.grades = make(map[int]*grade.Record)
	db.staff = make(map[string]*staff.Staff)
	db.history = nil
	db.gradePK = 0
}
