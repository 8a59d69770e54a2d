package grade

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/univxyz/transkrip/core"
	"github.com/univxyz/transkrip/core/student"
)

// ErrNotFound indicates no active Record for the requested key.
var ErrNotFound = errors.New("grade not found")

type (
	// Repository persists grade records and their audit trail.
	// ListRecords orders by (semester, course_code) ascending.
	// UpdateRecord must overwrite the record and append exactly one audit
	// entry in a single transaction, capturing the prior values under a lock
	// so concurrent submissions for the same key serialize.
	Repository interface {
		GetRecord(ctx context.Context, nim, courseCode string, semester int) (Record, error)
		ListRecords(ctx context.Context, nim string, semester ...int) ([]Record, error)
		CreateRecord(ctx context.Context, rec Record) (Record, error)
		UpdateRecord(ctx context.Context, rec Record, changedBy, reason string) (Record, error)
		ListAuditHistory(ctx context.Context, nim string) ([]AuditRow, error) // newest first
	}

	Service struct {
		repo     Repository
		students student.Repository
		mailSvc  core.EmailService
	}
)

func NewService(repo Repository, students student.Repository, mailSvc core.EmailService) *Service {
	return &Service{
		repo:     repo,
		students: students,
		mailSvc:  mailSvc,
	}
}

const updateReason = "grade updated"

// Submit runs the validated ingestion path: reject on a broken business rule,
// otherwise insert a new Record or overwrite the existing one for the
// (NIM, course, semester) key with an audit entry. actor identifies the
// caller on that entry.
func (svc *Service) Submit(ctx context.Context, ng NewGrade, actor string) (SubmitResult, error) {
	if err := ValidateSubmission(ng.Letter, ng.AttendanceOrDefault(), ng.Semester); err != nil {
		return SubmitResult{}, err
	}
	if actor == "" {
		actor = "system"
	}

	now := time.Now().UTC()
	rec := Record{
		NIM:        ng.NIM,
		CourseCode: ng.CourseCode,
		Semester:   ng.Semester,
		Letter:     ng.Letter,
		Points:     ng.Letter.Points(),
		Attendance: ng.AttendanceOrDefault(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	prior, err := svc.repo.GetRecord(ctx, ng.NIM, ng.CourseCode, ng.Semester)
	if err == ErrNotFound {
		created, err := svc.repo.CreateRecord(ctx, rec)
		if err != nil {
			return SubmitResult{}, errors.Wrap(err, "inserting grade")
		}
		return SubmitResult{Record: created}, nil
	}
	if err != nil {
		return SubmitResult{}, errors.Wrap(err, "checking existing grade")
	}

	rec.ID = prior.ID
	updated, err := svc.repo.UpdateRecord(ctx, rec, actor, updateReason)
	if err != nil {
		return SubmitResult{}, errors.Wrap(err, "updating grade")
	}
	svc.notifyGradeChange(ctx, prior, updated)
	return SubmitResult{Record: updated, Updated: true}, nil
}

// notifyGradeChange emails the student when an existing grade was overwritten.
// Best effort; students without a recorded email are skipped.
func (svc *Service) notifyGradeChange(ctx context.Context, prior, updated Record) {
	std, err := svc.students.GetStudentByNIM(ctx, updated.NIM)
	if err != nil || std.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: std.Name, Address: std.Email}},
		Subject: fmt.Sprintf("Perubahan nilai %s semester %d", updated.CourseCode, updated.Semester),
		Body: fmt.Sprintf(
			"Nilai mata kuliah %s (%s) semester %d berubah dari %s (%.1f) menjadi %s (%.1f).",
			updated.CourseName, updated.CourseCode, updated.Semester,
			prior.Letter, prior.Points, updated.Letter, updated.Points,
		),
	})
}

// Get returns one grade joined with its course name and SKS.
func (svc *Service) Get(ctx context.Context, nim, courseCode string, semester int) (Record, error) {
	return svc.repo.GetRecord(ctx, core.CleanString(nim), core.CleanString(courseCode, true), semester)
}

// List returns a student's records, optionally limited to one semester,
// ordered by (semester, course_code).
func (svc *Service) List(ctx context.Context, nim string, semester ...int) ([]Record, error) {
	return svc.repo.ListRecords(ctx, core.CleanString(nim), semester...)
}

// CalculateIPS computes the semester GPA: the credit-weighted average of
// passed courses in one semester. Failed courses contribute neither points
// nor credit weight. No records, or no passed records, yields exactly 0.0.
func (svc *Service) CalculateIPS(ctx context.Context, nim string, semester int) (float64, error) {
	recs, err := svc.repo.ListRecords(ctx, nim, semester)
	if err != nil {
		return 0, errors.Wrap(err, "listing semester grades")
	}
	return weightedAverage(recs), nil
}

// CalculateIPK computes the cumulative GPA over all semesters. A retaken
// course counts once, with its highest numeric grade.
func (svc *Service) CalculateIPK(ctx context.Context, nim string) (float64, error) {
	recs, err := svc.repo.ListRecords(ctx, nim)
	if err != nil {
		return 0, errors.Wrap(err, "listing grades")
	}
	return weightedAverage(dedupHighest(recs)), nil
}

// Statistics aggregates the raw record set: every attempt counts.
func (svc *Service) Statistics(ctx context.Context, nim string) (Statistics, error) {
	recs, err := svc.repo.ListRecords(ctx, nim)
	if err != nil {
		return Statistics{}, errors.Wrap(err, "listing grades")
	}

	stats := Statistics{TotalCourses: len(recs)}
	if len(recs) == 0 {
		return stats, nil
	}

	var pointsSum float64
	for _, r := range recs {
		stats.TotalSKS += r.SKS
		pointsSum += r.Points
		if r.Passed() {
			stats.PassedCourses++
			stats.PassedSKS += r.SKS
		}
	}
	stats.FailedCourses = stats.TotalCourses - stats.PassedCourses
	stats.AverageGrade = core.Round2(pointsSum / float64(len(recs)))
	return stats, nil
}

// SemesterDetail summarizes one semester for the overview screen.
func (svc *Service) SemesterDetail(ctx context.Context, nim string, semester int) (SemesterDetail, error) {
	recs, err := svc.repo.ListRecords(ctx, nim, semester)
	if err != nil {
		return SemesterDetail{}, errors.Wrap(err, "listing semester grades")
	}

	detail := SemesterDetail{
		Semester: semester,
		Courses:  recs,
		IPS:      weightedAverage(recs),
	}
	if len(recs) == 0 {
		return detail, nil
	}

	var pointsSum float64
	for _, r := range recs {
		detail.TotalSKS += r.SKS
		pointsSum += r.Points
		if r.Passed() {
			detail.PassedSKS += r.SKS
		} else {
			detail.FailedCourses++
		}
	}
	detail.AverageGrade = core.Round2(pointsSum / float64(len(recs)))
	return detail, nil
}

// AuditHistory returns the student's grade change trail, newest first.
func (svc *Service) AuditHistory(ctx context.Context, nim string) ([]AuditRow, error) {
	return svc.repo.ListAuditHistory(ctx, core.CleanString(nim))
}

// weightedAverage is the shared GPA formula: Σ(SKS × points) / Σ(SKS) over
// passed records, rounded to 2 decimals. An empty weight sum is 0.0, never an
// error.
func weightedAverage(recs []Record) float64 {
	var weighted float64
	var sks int
	for _, r := range recs {
		if r.Passed() {
			weighted += float64(r.SKS) * r.Points
			sks += r.SKS
		}
	}
	if sks == 0 {
		return 0.0
	}
	return core.Round2(weighted / float64(sks))
}

// dedupHighest keeps a single record per course code: the one with the
// highest numeric grade. On a tie the earlier record (semester order) stays;
// the numeric value is identical either way.
func dedupHighest(recs []Record) []Record {
	best := make(map[string]Record, len(recs))
	order := make([]string, 0, len(recs))
	for _, r := range recs {
		kept, ok := best[r.CourseCode]
		if !ok {
			best[r.CourseCode] = r
			order = append(order, r.CourseCode)
			continue
		}
		if r.Points > kept.Points {
			best[r.CourseCode] = r
		}
	}

	deduped := make([]Record, 0, len(best))
	for _, code := range order {
		deduped = append(deduped, best[code])
	}
	return deduped
}
