package student

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/univxyz/transkrip/core"
)

// Student is a registered student. Identity fields are immutable once
// created; administrative corrections go through a separate path.
type Student struct {
	NIM          string    `json:"nim"`
	Name         string    `json:"name"`
	ProgramStudy string    `json:"program_study"`
	BatchYear    int       `json:"batch_year"`
	Email        string    `json:"email,omitempty"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	NIM          string `json:"nim" validate:"required,nim"`
	Name         string `json:"name" validate:"required"`
	ProgramStudy string `json:"program_study" validate:"required"`
	BatchYear    int    `json:"batch_year" validate:"required,min=1900"`
	Email        string `json:"email" validate:"omitempty,email"`
}

func (ns *NewStudent) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	ns.NIM = core.CleanString(ns.NIM)
	ns.Name = core.CleanString(ns.Name, true /* upper */)
	ns.ProgramStudy = core.CleanString(ns.ProgramStudy)
	ns.Email = core.CleanString(ns.Email)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkUniqueness(ctx, ns.NIM)
}
