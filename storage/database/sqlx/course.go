package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/univxyz/transkrip/core/course"
)

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

type courseRow struct {
	Code      string    `db:"course_code"`
	Name      string    `db:"course_name"`
	SKS       int       `db:"sks"`
	CreatedAt time.Time `db:"created_at"`
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	q := `INSERT INTO courses (course_code, course_name, sks, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := repo.db.ExecContext(ctx, q, crs.Code, crs.Name, crs.SKS, crs.CreatedAt); err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo courseRepository) GetCourseByCode(ctx context.Context, code string) (course.Course, error) {
	var row courseRow
	q := `SELECT course_code, course_name, sks, created_at FROM courses WHERE course_code = $1`
	if err := repo.db.GetContext(ctx, &row, q, code); err != nil {
		if err == sql.ErrNoRows {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, errors.Wrap(err, "getting course")
	}
	return course.Course(row), nil
}

func (repo courseRepository) QueryAllCourses(ctx context.Context) ([]course.Course, error) {
	var rows []courseRow
	q := `SELECT course_code, course_name, sks, created_at FROM courses ORDER BY course_code`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "listing courses")
	}

	courses := make([]course.Course, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, course.Course(r))
	}
	return courses, nil
}
