// Package grade implements the grade aggregation engine: grade entry with
// business-rule validation and audit, semester GPA (IPS), cumulative GPA
// (IPK), graduation predicates, statistics and transcript assembly.
package grade

import (
	"time"
)

// Letter is a letter grade on the A-E scale.
type Letter string

const (
	LetterA Letter = "A"
	LetterB Letter = "B"
	LetterC Letter = "C"
	LetterD Letter = "D"
	LetterE Letter = "E"
)

// The letter/numeric mapping is an exact table, never a formula.
var (
	letterPoints = map[Letter]float64{
		LetterA: 4.0,
		LetterB: 3.0,
		LetterC: 2.0,
		LetterD: 1.0,
		LetterE: 0.0,
	}
	pointsLetter = map[float64]Letter{
		4.0: LetterA,
		3.0: LetterB,
		2.0: LetterC,
		1.0: LetterD,
		0.0: LetterE,
	}
)

func (l Letter) Valid() bool {
	_, ok := letterPoints[l]
	return ok
}

// Points converts the letter to its numeric grade. Invalid letters map to 0.0;
// they never reach storage because submissions are validated first.
func (l Letter) Points() float64 {
	return letterPoints[l]
}

// LetterFromPoints converts a numeric grade back to its letter.
// Values outside the table map to E.
func LetterFromPoints(points float64) Letter {
	if l, ok := pointsLetter[points]; ok {
		return l
	}
	return LetterE
}

// PassingPoints is the minimum numeric grade that passes a course (letter D).
const PassingPoints = 1.0

// IsPassed reports whether a numeric grade passes. E (0.0) is the only
// failing grade. IPS, IPK and statistics all share this predicate.
func IsPassed(points float64) bool {
	return points >= PassingPoints
}

// Record is one active grade for a (student, course, semester) triple.
// CourseName and SKS are denormalized from the course reference data.
type Record struct {
	ID         int       `json:"grade_id"`
	NIM        string    `json:"nim"`
	CourseCode string    `json:"course_code"`
	CourseName string    `json:"course_name"`
	SKS        int       `json:"sks"`
	Semester   int       `json:"semester"`
	Letter     Letter    `json:"letter_grade"`
	Points     float64   `json:"numeric_grade"`
	Attendance float64   `json:"presence_percentage"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

func (r Record) Passed() bool {
	return IsPassed(r.Points)
}

// ChangeEntry is an immutable audit record of a grade overwrite. It is
// appended only when an existing Record is updated, never on first insert.
type ChangeEntry struct {
	ID        string    `json:"history_id"`
	GradeID   int       `json:"grade_id"`
	OldLetter Letter    `json:"old_letter_grade"`
	OldPoints float64   `json:"old_numeric_grade"`
	NewLetter Letter    `json:"new_letter_grade"`
	NewPoints float64   `json:"new_numeric_grade"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"` // UTC
	Reason    string    `json:"reason"`
}

// AuditRow is a ChangeEntry joined with student and course identity for
// reporting.
type AuditRow struct {
	ID          string    `json:"history_id"`
	NIM         string    `json:"nim"`
	StudentName string    `json:"name"`
	CourseName  string    `json:"course_name"`
	OldPoints   float64   `json:"old_numeric_grade"`
	NewPoints   float64   `json:"new_numeric_grade"`
	ChangedBy   string    `json:"changed_by"`
	ChangedAt   time.Time `json:"changed_at"`
	Reason      string    `json:"reason"`
}

// SemesterSummary is one transcript line: a semester's records with its IPS
// and the credit total of passed courses. Derived, never persisted.
type SemesterSummary struct {
	Semester int      `json:"semester"`
	IPS      float64  `json:"ips"`
	TotalSKS int      `json:"total_sks"`
	Courses  []Record `json:"courses"`
}

// SemesterDetail expands a SemesterSummary with failure counts and the plain
// average for the semester overview screen.
type SemesterDetail struct {
	Semester      int      `json:"semester"`
	Courses       []Record `json:"courses"`
	IPS           float64  `json:"ips"`
	TotalSKS      int      `json:"total_sks"`
	PassedSKS     int      `json:"passed_sks"`
	FailedCourses int      `json:"failed_courses"`
	AverageGrade  float64  `json:"average_grade"`
}

// Statistics aggregates a student's full record set. Unlike IPK it counts
// every attempt of a retaken course separately.
type Statistics struct {
	TotalCourses  int     `json:"total_courses"`
	PassedCourses int     `json:"passed_courses"`
	FailedCourses int     `json:"failed_courses"`
	TotalSKS      int     `json:"total_sks"`
	PassedSKS     int     `json:"passed_sks"`
	AverageGrade  float64 `json:"average_grade"`
}

// SubmitResult reports the outcome of a grade submission.
type SubmitResult struct {
	Record  Record `json:"record"`
	Updated bool   `json:"updated"`
}
