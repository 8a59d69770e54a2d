package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/univxyz/transkrip/core/grade"
)

type gradeRepository struct {
	db *DB
}

var _ grade.Repository = (*gradeRepository)(nil)

func NewGradeRepository(db *DB) *gradeRepository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) find(nim, courseCode string, semester int) *grade.Record {
	for _, rec := range repo.db.grades {
		if rec.NIM == nim && rec.CourseCode == courseCode && rec.Semester == semester {
			return rec
		}
	}
	return nil
}

func (repo *gradeRepository) GetRecord(ctx context.Context, nim, courseCode string, semester int) (grade.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if rec := repo.find(nim, courseCode, semester); rec != nil {
		return *rec, nil
	}
	return grade.Record{}, grade.ErrNotFound
}

func (repo *gradeRepository) ListRecords(ctx context.Context, nim string, semester ...int) ([]grade.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	recs := make([]grade.Record, 0, len(repo.db.grades))
	for _, rec := range repo.db.grades {
		if rec.NIM != nim {
			continue
		}
		if len(semester) > 0 && rec.Semester != semester[0] {
			continue
		}
		recs = append(recs, *rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Semester != recs[j].Semester {
			return recs[i].Semester < recs[j].Semester
		}
		return recs[i].CourseCode < recs[j].CourseCode
	})
	return recs, nil
}

// CreateRecord enforces the reference-data foreign keys the way postgres
// would, and denormalizes the course name and SKS onto the record.
func (repo *gradeRepository) CreateRecord(ctx context.Context, rec grade.Record) (grade.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.students[rec.NIM]; !ok {
		return grade.Record{}, errors.New("violates foreign key: unknown student")
	}
	crs, ok := repo.db.courses[rec.CourseCode]
	if !ok {
		return grade.Record{}, errors.New("violates foreign key: unknown course")
	}
	if repo.find(rec.NIM, rec.CourseCode, rec.Semester) != nil {
		return grade.Record{}, errors.New("violates unique constraint: grade exists")
	}

	repo.db.gradePK++
	rec.ID = repo.db.gradePK
	rec.CourseName = crs.Name
	rec.SKS = crs.SKS
	repo.db.grades[rec.ID] = &rec
	return rec, nil
}

func (repo *gradeRepository) UpdateRecord(ctx context.Context, rec grade.Record, changedBy, reason string) (grade.Record, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig := repo.find(rec.NIM, rec.CourseCode, rec.Semester)
	if orig == nil {
		return grade.Record{}, grade.ErrNotFound
	}

	now := time.Now().UTC()
	entry := grade.ChangeEntry{
		ID:        uuid.New().String(),
		GradeID:   orig.ID,
		OldLetter: orig.Letter,
		OldPoints: orig.Points,
		NewLetter: rec.Letter,
		NewPoints: rec.Points,
		ChangedBy: changedBy,
		ChangedAt: now,
		Reason:    reason,
	}

	orig.Letter = rec.Letter
	orig.Points = rec.Points
	orig.Attendance = rec.Attendance
	orig.UpdatedAt = now
	repo.db.history = append(repo.db.history, entry)
	return *orig, nil
}

func (repo *gradeRepository) ListAuditHistory(ctx context.Context, nim string) ([]grade.AuditRow, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rows := make([]grade.AuditRow, 0, len(repo.db.history))
	for _, entry := range repo.db.history {
		rec, ok := repo.db.grades[entry.GradeID]
		if !ok || rec.NIM != nim {
			continue
		}
		row := grade.AuditRow{
			ID:         entry.ID,
			NIM:        rec.NIM,
			CourseName: rec.CourseName,
			OldPoints:  entry.OldPoints,
			NewPoints:  entry.NewPoints,
			ChangedBy:  entry.ChangedBy,
			ChangedAt:  entry.ChangedAt,
			Reason:     entry.Reason,
		}
		if std, ok := repo.db.students[rec.NIM]; ok {
			row.StudentName = std.Name
		}
		rows = append(rows, row)
	}
	// newest first
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ChangedAt.After(rows[j].ChangedAt) })
	return rows, nil
}
