package sqlxrepos

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/univxyz/transkrip/core/course"
	"github.com/univxyz/transkrip/core/grade"
	"github.com/univxyz/transkrip/core/student"
)

func Test_gradeRepository_roundTrip(t *testing.T) {
	db := prepareDB(t)
	ctx := context.Background()

	stdRepo := NewStudentRepository(db)
	crsRepo := NewCourseRepository(db)
	repo := NewGradeRepository(db)

	now := time.Now().UTC().Truncate(time.Microsecond)
	_, err := stdRepo.CreateStudent(ctx, student.Student{
		NIM: "21001", Name: "ANDI WIJAYA", ProgramStudy: "Teknik Informatika", BatchYear: 2021, CreatedAt: now,
	})
	require.NoError(t, err)
	_, err = crsRepo.CreateCourse(ctx, course.Course{
		Code: "PBO101", Name: "Pemrograman Berorientasi Objek", SKS: 3, CreatedAt: now,
	})
	require.NoError(t, err)
	_, err = crsRepo.CreateCourse(ctx, course.Course{
		Code: "DBMS101", Name: "Basis Data", SKS: 3, CreatedAt: now,
	})
	require.NoError(t, err)

	_, err = repo.GetRecord(ctx, "21001", "PBO101", 1)
	assert.Equal(t, grade.ErrNotFound, err)

	created, err := repo.CreateRecord(ctx, grade.Record{
		NIM: "21001", CourseCode: "PBO101", Semester: 1,
		Letter: grade.LetterB, Points: 3.0, Attendance: 90,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, "Pemrograman Berorientasi Objek", created.CourseName) // joined from courses
	assert.Equal(t, 3, created.SKS)
	assert.Equal(t, grade.LetterB, created.Letter)

	_, err = repo.CreateRecord(ctx, grade.Record{
		NIM: "21001", CourseCode: "DBMS101", Semester: 2,
		Letter: grade.LetterC, Points: 2.0, Attendance: 80,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	all, err := repo.ListRecords(ctx, "21001")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "PBO101", all[0].CourseCode) // semester order

	sem2, err := repo.ListRecords(ctx, "21001", 2)
	require.NoError(t, err)
	require.Len(t, sem2, 1)
	assert.Equal(t, "DBMS101", sem2[0].CourseCode)

	updated, err := repo.UpdateRecord(ctx, grade.Record{
		NIM: "21001", CourseCode: "PBO101", Semester: 1,
		Letter: grade.LetterA, Points: 4.0, Attendance: 95,
	}, "registrar1", "grade updated")
	require.NoError(t, err)
	assert.Equal(t, grade.LetterA, updated.Letter)
	assert.Equal(t, 4.0, updated.Points)
	assert.Equal(t, created.ID, updated.ID)

	_, err = repo.UpdateRecord(ctx, grade.Record{
		NIM: "21001", CourseCode: "NET101", Semester: 1,
		Letter: grade.LetterA, Points: 4.0, Attendance: 95,
	}, "registrar1", "grade updated")
	assert.Equal(t, grade.ErrNotFound, err)

	hist, err := repo.ListAuditHistory(ctx, "21001")
	require.NoError(t, err)
	require.Len(t, hist, 1)
	entry := hist[0]
	assert.Equal(t, "ANDI WIJAYA", entry.StudentName)
	assert.Equal(t, "Pemrograman Berorientasi Objek", entry.CourseName)
	assert.Equal(t, 3.0, entry.OldPoints)
	assert.Equal(t, 4.0, entry.NewPoints)
	assert.Equal(t, "registrar1", entry.ChangedBy)
	assert.Equal(t, "grade updated", entry.Reason)
}
