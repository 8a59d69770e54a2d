package student

import (
	"context"
	"errors"
	"time"

	"github.com/univxyz/transkrip/core"
)

var (
	ErrNotFound  = errors.New("student not found")
	ErrNIMExists = errors.New("a student with this NIM already exists")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, std Student) (Student, error)
		GetStudentByNIM(ctx context.Context, nim string) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error) // ordered by NIM
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(ctx context.Context, nim string) error {
	_, err := svc.repo.GetStudentByNIM(ctx, nim)
	if err == nil {
		return core.NewValidationError(ErrNIMExists, core.FieldError{Field: "nim", Error: ErrNIMExists.Error()})
	}
	if err != ErrNotFound {
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	std := Student{
		NIM:          ns.NIM,
		Name:         ns.Name,
		ProgramStudy: ns.ProgramStudy,
		BatchYear:    ns.BatchYear,
		Email:        ns.Email,
		CreatedAt:    time.Now().UTC(),
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) GetByNIM(ctx context.Context, nim string) (Student, error) {
	return svc.repo.GetStudentByNIM(ctx, core.CleanString(nim))
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}
