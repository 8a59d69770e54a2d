package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/univxyz/transkrip/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

type studentRow struct {
	NIM          string    `db:"nim"`
	Name         string    `db:"name"`
	ProgramStudy string    `db:"program_study"`
	BatchYear    int       `db:"batch_year"`
	Email        string    `db:"email"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r studentRow) student() student.Student {
	return student.Student(r)
}

func (repo studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	q := `INSERT INTO students (nim, name, program_study, batch_year, email, created_at)
          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := repo.db.ExecContext(ctx, q, std.NIM, std.Name, std.ProgramStudy, std.BatchYear, std.Email, std.CreatedAt)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo studentRepository) GetStudentByNIM(ctx context.Context, nim string) (student.Student, error) {
	var row studentRow
	q := `SELECT nim, name, program_study, batch_year, email, created_at FROM students WHERE nim = $1`
	if err := repo.db.GetContext(ctx, &row, q, nim); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return row.student(), nil
}

func (repo studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	var rows []studentRow
	q := `SELECT nim, name, program_study, batch_year, email, created_at FROM students ORDER BY nim`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "listing students")
	}

	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.student())
	}
	return students, nil
}
