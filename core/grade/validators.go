package grade

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/univxyz/transkrip/core"
)

// MinAttendance is the attendance gate: below it a grade may not be entered
// at all, regardless of its value. Exactly 75.0 is allowed.
const MinAttendance = 75.0

// DefaultAttendance is assumed when a submission omits the percentage.
const DefaultAttendance = 75.0

var (
	errAttendanceBelowMin   = errors.New("attendance below 75% threshold")
	errInvalidLetter        = errors.New("invalid letter grade")
	errAttendanceOutOfRange = errors.New("attendance percentage out of range")
	errSemesterNotPositive  = errors.New("term must be positive")
)

// ValidateSubmission checks the grade entry business rules. The rule order is
// contractual: the first broken rule wins, so an attendance of -5 is rejected
// for the threshold, not the range. Pure; no I/O.
func ValidateSubmission(letter Letter, attendance float64, semester int) error {
	if attendance < MinAttendance {
		return core.NewValidationError(errAttendanceBelowMin,
			core.FieldError{Field: "presence_percentage", Error: errAttendanceBelowMin.Error()})
	}
	if !letter.Valid() {
		return core.NewValidationError(errInvalidLetter,
			core.FieldError{Field: "letter_grade", Error: errInvalidLetter.Error()})
	}
	if attendance < 0 || attendance > 100 {
		return core.NewValidationError(errAttendanceOutOfRange,
			core.FieldError{Field: "presence_percentage", Error: errAttendanceOutOfRange.Error()})
	}
	if semester < 1 {
		return core.NewValidationError(errSemesterNotPositive,
			core.FieldError{Field: "semester", Error: errSemesterNotPositive.Error()})
	}
	return nil
}

// NewGrade contains information needed to submit a grade.
type NewGrade struct {
	NIM        string   `json:"nim" validate:"required,nim"`
	CourseCode string   `json:"course_code" validate:"required,coursecode"`
	Semester   int      `json:"semester"`
	Letter     Letter   `json:"letter_grade"`
	Attendance *float64 `json:"presence_percentage"`
}

// AttendanceOrDefault returns the submitted percentage, or DefaultAttendance
// when none was given.
func (ng *NewGrade) AttendanceOrDefault() float64 {
	if ng.Attendance == nil {
		return DefaultAttendance
	}
	return *ng.Attendance
}

func (ng *NewGrade) Validate(validate *validator.Validate) error {
	ng.NIM = core.CleanString(ng.NIM)
	ng.CourseCode = core.CleanString(ng.CourseCode, true /* upper */)
	ng.Letter = Letter(core.CleanString(string(ng.Letter), true /* upper */))

	if err := validate.Struct(ng); err != nil {
		return err
	}
	return ValidateSubmission(ng.Letter, ng.AttendanceOrDefault(), ng.Semester)
}
