package grade

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/univxyz/transkrip/core/student"
)

// Transcript is the complete academic record handed to the document renderer.
// Semesters are ordered ascending; TotalSKS counts passed credits only.
type Transcript struct {
	Student       student.Student   `json:"student"`
	Semesters     []SemesterSummary `json:"semesters"`
	TotalSKS      int               `json:"total_sks"`
	IPK           float64           `json:"ipk"`
	Predicate     string            `json:"graduation_predicate"`
	SemesterCount int               `json:"number_of_semesters"`
}

// DocumentRenderer turns an assembled Transcript into a formatted document.
// It performs no aggregation of its own.
type DocumentRenderer interface {
	Render(t Transcript, printedAt time.Time) ([]byte, error)
}

// AssembleTranscript builds the full transcript for a student. Unknown
// students yield student.ErrNotFound; a known student with no grades yields a
// populated transcript with zero semesters and IPK 0.0.
func (svc *Service) AssembleTranscript(ctx context.Context, nim string) (Transcript, error) {
	std, err := svc.students.GetStudentByNIM(ctx, nim)
	if err != nil {
		if err == student.ErrNotFound {
			return Transcript{}, err
		}
		return Transcript{}, errors.Wrap(err, "looking up student")
	}

	recs, err := svc.repo.ListRecords(ctx, nim)
	if err != nil {
		return Transcript{}, errors.Wrap(err, "listing grades")
	}

	bySemester := make(map[int][]Record)
	for _, r := range recs {
		bySemester[r.Semester] = append(bySemester[r.Semester], r)
	}
	semesters := make([]int, 0, len(bySemester))
	for sem := range bySemester {
		semesters = append(semesters, sem)
	}
	sort.Ints(semesters)

	tr := Transcript{
		Student:       std,
		Semesters:     make([]SemesterSummary, 0, len(semesters)),
		SemesterCount: len(semesters),
	}
	for _, sem := range semesters {
		semRecs := bySemester[sem]
		summary := SemesterSummary{
			Semester: sem,
			IPS:      weightedAverage(semRecs),
			Courses:  semRecs,
		}
		for _, r := range semRecs {
			if r.Passed() {
				summary.TotalSKS += r.SKS
			}
		}
		tr.TotalSKS += summary.TotalSKS
		tr.Semesters = append(tr.Semesters, summary)
	}

	tr.IPK = weightedAverage(dedupHighest(recs))
	tr.Predicate = Classify(tr.IPK)
	return tr, nil
}
