// Package sqlxrepos implements the domain repositories on postgres via sqlx.
package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/univxyz/transkrip/core/grade"
)

type gradeRepository struct {
	db *sqlx.DB
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db *sqlx.DB) *gradeRepository {
	return &gradeRepository{db: db}
}

type gradeRow struct {
	ID         int       `db:"grade_id"`
	NIM        string    `db:"nim"`
	CourseCode string    `db:"course_code"`
	CourseName string    `db:"course_name"`
	SKS        int       `db:"sks"`
	Semester   int       `db:"semester"`
	Letter     string    `db:"letter_grade"`
	Points     float64   `db:"numeric_grade"`
	Attendance float64   `db:"presence_percentage"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r gradeRow) record() grade.Record {
	return grade.Record{
		ID:         r.ID,
		NIM:        r.NIM,
		CourseCode: r.CourseCode,
		CourseName: r.CourseName,
		SKS:        r.SKS,
		Semester:   r.Semester,
		Letter:     grade.Letter(r.Letter),
		Points:     r.Points,
		Attendance: r.Attendance,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type auditRow struct {
	ID          string    `db:"history_id"`
	NIM         string    `db:"nim"`
	StudentName string    `db:"name"`
	CourseName  string    `db:"course_name"`
	OldPoints   float64   `db:"old_numeric_grade"`
	NewPoints   float64   `db:"new_numeric_grade"`
	ChangedBy   string    `db:"changed_by"`
	ChangedAt   time.Time `db:"changed_at"`
	Reason      string    `db:"reason"`
}

// trapNoRowsErr maps psql "no rows" err to grade.ErrNotFound
func trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return grade.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

const selectRecord = `
SELECT g.grade_id, g.nim, g.course_code, c.course_name, c.sks, g.semester,
       g.letter_grade, g.numeric_grade, g.presence_percentage, g.created_at, g.updated_at
FROM grades g
         JOIN courses c ON g.course_code = c.course_code`

func (repo gradeRepository) GetRecord(ctx context.Context, nim, courseCode string, semester int) (grade.Record, error) {
	var row gradeRow
	q := selectRecord + " WHERE g.nim = $1 AND g.course_code = $2 AND g.semester = $3"
	if err := repo.db.GetContext(ctx, &row, q, nim, courseCode, semester); err != nil {
		return grade.Record{}, trapNoRowsErr(err, "getting grade")
	}
	return row.record(), nil
}

func (repo gradeRepository) ListRecords(ctx context.Context, nim string, semester ...int) ([]grade.Record, error) {
	var rows []gradeRow
	var err error
	if len(semester) > 0 {
		q := selectRecord + " WHERE g.nim = $1 AND g.semester = $2 ORDER BY g.semester, g.course_code"
		err = repo.db.SelectContext(ctx, &rows, q, nim, semester[0])
	} else {
		q := selectRecord + " WHERE g.nim = $1 ORDER BY g.semester, g.course_code"
		err = repo.db.SelectContext(ctx, &rows, q, nim)
	}
	if err != nil {
		return nil, errors.Wrap(err, "listing grades")
	}

	recs := make([]grade.Record, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, r.record())
	}
	return recs, nil
}

func (repo gradeRepository) CreateRecord(ctx context.Context, rec grade.Record) (grade.Record, error) {
	q := `INSERT INTO grades (nim, course_code, semester, letter_grade, numeric_grade, presence_percentage, created_at, updated_at)
          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := repo.db.ExecContext(ctx, q,
		rec.NIM, rec.CourseCode, rec.Semester, string(rec.Letter), rec.Points, rec.Attendance, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return grade.Record{}, errors.Wrap(err, "inserting grade")
	}
	return repo.GetRecord(ctx, rec.NIM, rec.CourseCode, rec.Semester)
}

// UpdateRecord overwrites the grade and appends the audit entry in one
// transaction. The prior values are read under FOR UPDATE so concurrent
// submissions for the same key serialize and the audit trail never loses a
// change.
func (repo gradeRepository) UpdateRecord(ctx context.Context, rec grade.Record, changedBy, reason string) (grade.Record, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return grade.Record{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var prior struct {
		ID     int     `db:"grade_id"`
		Letter string  `db:"letter_grade"`
		Points float64 `db:"numeric_grade"`
	}
	q := `SELECT grade_id, letter_grade, numeric_grade FROM grades
          WHERE nim = $1 AND course_code = $2 AND semester = $3 FOR UPDATE`
	if err = tx.GetContext(ctx, &prior, q, rec.NIM, rec.CourseCode, rec.Semester); err != nil {
		return grade.Record{}, trapNoRowsErr(err, "locking grade")
	}

	now := time.Now().UTC()
	q = `UPDATE grades SET letter_grade = $1, numeric_grade = $2, presence_percentage = $3, updated_at = $4
         WHERE grade_id = $5`
	if _, err = tx.ExecContext(ctx, q, string(rec.Letter), rec.Points, rec.Attendance, now, prior.ID); err != nil {
		return grade.Record{}, errors.Wrap(err, "updating grade")
	}

	q = `INSERT INTO grade_history (history_id, grade_id, old_letter_grade, old_numeric_grade,
                                    new_letter_grade, new_numeric_grade, changed_by, changed_at, reason)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = tx.ExecContext(ctx, q,
		uuid.New().String(), prior.ID, prior.Letter, prior.Points,
		string(rec.Letter), rec.Points, changedBy, now, reason)
	if err != nil {
		return grade.Record{}, errors.Wrap(err, "appending audit entry")
	}

	if err = tx.Commit(); err != nil {
		return grade.Record{}, errors.Wrap(err, "committing grade update")
	}
	return repo.GetRecord(ctx, rec.NIM, rec.CourseCode, rec.Semester)
}

func (repo gradeRepository) ListAuditHistory(ctx context.Context, nim string) ([]grade.AuditRow, error) {
	var rows []auditRow
	q := `SELECT history_id, nim, name, course_name, old_numeric_grade, new_numeric_grade, changed_by, changed_at, reason
          FROM grade_changes_summary WHERE nim = $1 ORDER BY changed_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, nim); err != nil {
		return nil, errors.Wrap(err, "listing audit history")
	}

	hist := make([]grade.AuditRow, 0, len(rows))
	for _, r := range rows {
		hist = append(hist, grade.AuditRow(r))
	}
	return hist, nil
}
