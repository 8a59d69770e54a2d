package grade_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/univxyz/transkrip/core/course"
	"github.com/univxyz/transkrip/core/grade"
	"github.com/univxyz/transkrip/core/student"
	emailsvc "github.com/univxyz/transkrip/services/email"
	inmemdb "github.com/univxyz/transkrip/storage/database/inmem"
)

type fixture struct {
	svc         *grade.Service
	studentRepo student.Repository
	courseRepo  course.Repository
	gradeRepo   grade.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := inmemdb.New()
	f := &fixture{
		studentRepo: inmemdb.NewStudentRepository(db),
		courseRepo:  inmemdb.NewCourseRepository(db),
		gradeRepo:   inmemdb.NewGradeRepository(db),
	}
	f.svc = grade.NewService(f.gradeRepo, f.studentRepo, emailsvc.NewConsoleServiceMock())
	return f
}

func (f *fixture) addStudent(t *testing.T, nim, name string) {
	t.Helper()
	_, err := f.studentRepo.CreateStudent(context.Background(), student.Student{
		NIM: nim, Name: name, ProgramStudy: "Teknik Informatika", BatchYear: 2021, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
}

func (f *fixture) addCourse(t *testing.T, code, name string, sks int) {
	t.Helper()
	_, err := f.courseRepo.CreateCourse(context.Background(), course.Course{
		Code: code, Name: name, SKS: sks, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
}

func (f *fixture) submit(t *testing.T, nim, code string, semester int, letter grade.Letter) grade.SubmitResult {
	t.Helper()
	att := 90.0
	res, err := f.svc.Submit(context.Background(), grade.NewGrade{
		NIM: nim, CourseCode: code, Semester: semester, Letter: letter, Attendance: &att,
	}, "registrar1")
	require.NoError(t, err)
	return res
}

func (f *fixture) seedCatalog(t *testing.T) {
	t.Helper()
	f.addStudent(t, "21001", "MUHAMMAD SECHAN AURIEL")
	f.addCourse(t, "PBO101", "Pemrograman Berorientasi Objek", 3)
	f.addCourse(t, "DBMS101", "Sistem Basis Data", 3)
	f.addCourse(t, "WEB101", "Pengembangan Web", 4)
	f.addCourse(t, "ALSTD101", "Algoritma dan Struktur Data", 3)
}

func TestService_Submit_insert(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)

	att := 95.0
	res, err := f.svc.Submit(context.Background(), grade.NewGrade{
		NIM: "21001", CourseCode: "PBO101", Semester: 1, Letter: grade.LetterA, Attendance: &att,
	}, "registrar1")
	require.NoError(t, err)

	assert.False(t, res.Updated)
	assert.NotZero(t, res.Record.ID)
	assert.Equal(t, grade.LetterA, res.Record.Letter)
	assert.Equal(t, 4.0, res.Record.Points)
	assert.Equal(t, "Pemrograman Berorientasi Objek", res.Record.CourseName)
	assert.Equal(t, 3, res.Record.SKS)

	// a first insert leaves no audit trail
	hist, err := f.svc.AuditHistory(context.Background(), "21001")
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestService_Submit_update(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)
	f.submit(t, "21001", "PBO101", 1, grade.LetterB)

	res := f.submit(t, "21001", "PBO101", 1, grade.LetterA)
	assert.True(t, res.Updated)
	assert.Equal(t, grade.LetterA, res.Record.Letter)
	assert.Equal(t, 4.0, res.Record.Points)

	// the overwrite appended exactly one audit entry
	hist, err := f.svc.AuditHistory(context.Background(), "21001")
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, 3.0, hist[0].OldPoints)
	assert.Equal(t, 4.0, hist[0].NewPoints)
	assert.Equal(t, "registrar1", hist[0].ChangedBy)
	assert.Equal(t, "grade updated", hist[0].Reason)

	// the key still maps to a single record
	recs, err := f.svc.List(context.Background(), "21001")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestService_Submit_defaultsActorToSystem(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)
	f.submit(t, "21001", "PBO101", 1, grade.LetterB)

	att := 90.0
	_, err := f.svc.Submit(context.Background(), grade.NewGrade{
		NIM: "21001", CourseCode: "PBO101", Semester: 1, Letter: grade.LetterA, Attendance: &att,
	}, "")
	require.NoError(t, err)

	hist, err := f.svc.AuditHistory(context.Background(), "21001")
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "system", hist[0].ChangedBy)
}

func TestService_Submit_invalidLeavesRecordUntouched(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)
	f.submit(t, "21001", "PBO101", 1, grade.LetterA)

	att := 50.0
	_, err := f.svc.Submit(context.Background(), grade.NewGrade{
		NIM: "21001", CourseCode: "PBO101", Semester: 1, Letter: grade.LetterE, Attendance: &att,
	}, "registrar1")
	require.Error(t, err)

	rec, err := f.svc.Get(context.Background(), "21001", "PBO101", 1)
	require.NoError(t, err)
	assert.Equal(t, grade.LetterA, rec.Letter)

	hist, err := f.svc.AuditHistory(context.Background(), "21001")
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestService_CalculateIPS(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)

	// (4×3 + 4×3 + 3×4 + 4×3) / (3+3+4+3) = 52/13 = 4.0
	f.submit(t, "21001", "PBO101", 1, grade.LetterA)
	f.submit(t, "21001", "DBMS101", 1, grade.LetterA)
	f.submit(t, "21001", "WEB101", 1, grade.LetterB)
	f.submit(t, "21001", "ALSTD101", 1, grade.LetterA)

	ips, err := f.svc.CalculateIPS(context.Background(), "21001", 1)
	require.NoError(t, err)
	assert.Equal(t, 4.0, ips)
}

func TestService_CalculateIPS_noRecords(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)

	ips, err := f.svc.CalculateIPS(context.Background(), "21001", 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ips)
}

func TestService_CalculateIPS_failedCoursesExcluded(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)

	// the E removes both its points and its 4 SKS from the formula:
	// (4×3 + 2×3) / (3+3) = 3.0
	f.submit(t, "21001", "PBO101", 1, grade.LetterA)
	f.submit(t, "21001", "DBMS101", 1, grade.LetterC)
	f.submit(t, "21001", "WEB101", 1, grade.LetterE)

	ips, err := f.svc.CalculateIPS(context.Background(), "21001", 1)
	require.NoError(t, err)
	assert.Equal(t, 3.0, ips)
}

func TestService_CalculateIPS_allFailed(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)
	f.submit(t, "21001", "PBO101", 1, grade.LetterE)

	ips, err := f.svc.CalculateIPS(context.Background(), "21001", 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ips)
}

func TestService_CalculateIPK_retakeCountsOnce(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)

	// PBO101 was retaken; only the A counts toward the IPK:
	// (4×3 + 3×3) / (3+3) = 3.5
	f.submit(t, "21001", "PBO101", 1, grade.LetterC)
	f.submit(t, "21001", "DBMS101", 1, grade.LetterB)
	f.submit(t, "21001", "PBO101", 2, grade.LetterA)

	ipk, err := f.svc.CalculateIPK(context.Background(), "21001")
	require.NoError(t, err)
	assert.Equal(t, 3.5, ipk)
}

func TestService_CalculateIPK_failedRetakeIgnored(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)

	// the second attempt is worse; the B stays
	f.submit(t, "21001", "PBO101", 1, grade.LetterB)
	f.submit(t, "21001", "PBO101", 2, grade.LetterE)

	ipk, err := f.svc.CalculateIPK(context.Background(), "21001")
	require.NoError(t, err)
	assert.Equal(t, 3.0, ipk)
}

func TestService_Statistics_countsEveryAttempt(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)

	f.submit(t, "21001", "PBO101", 1, grade.LetterE)
	f.submit(t, "21001", "PBO101", 2, grade.LetterA) // retake
	f.submit(t, "21001", "DBMS101", 1, grade.LetterB)

	stats, err := f.svc.Statistics(context.Background(), "21001")
	require.NoError(t, err)
	assert.Equal(t, grade.Statistics{
		TotalCourses:  3,
		PassedCourses: 2,
		FailedCourses: 1,
		TotalSKS:      9,
		PassedSKS:     6,
		AverageGrade:  2.33, // (0+4+3)/3
	}, stats)
}

func TestService_Statistics_noRecords(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)

	stats, err := f.svc.Statistics(context.Background(), "21001")
	require.NoError(t, err)
	assert.Equal(t, grade.Statistics{}, stats)
}

func TestService_SemesterDetail(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)

	f.submit(t, "21001", "PBO101", 1, grade.LetterA)
	f.submit(t, "21001", "DBMS101", 1, grade.LetterC)
	f.submit(t, "21001", "WEB101", 1, grade.LetterE)

	detail, err := f.svc.SemesterDetail(context.Background(), "21001", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Semester)
	assert.Len(t, detail.Courses, 3)
	assert.Equal(t, 3.0, detail.IPS) // E excluded: (4×3+2×3)/6
	assert.Equal(t, 10, detail.TotalSKS)
	assert.Equal(t, 6, detail.PassedSKS)
	assert.Equal(t, 1, detail.FailedCourses)
	assert.Equal(t, 2.0, detail.AverageGrade) // plain mean over all 3
}

func TestService_List_orderedBySemesterThenCourse(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)

	f.submit(t, "21001", "WEB101", 2, grade.LetterB)
	f.submit(t, "21001", "PBO101", 1, grade.LetterA)
	f.submit(t, "21001", "DBMS101", 2, grade.LetterB)

	recs, err := f.svc.List(context.Background(), "21001")
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "PBO101", recs[0].CourseCode)
	assert.Equal(t, "DBMS101", recs[1].CourseCode)
	assert.Equal(t, "WEB101", recs[2].CourseCode)
}
