package course

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/univxyz/transkrip/core"
)

// Course is immutable reference data. SKS is the course credit weight
// (Satuan Kredit Semester).
type Course struct {
	Code      string    `json:"course_code"`
	Name      string    `json:"course_name"`
	SKS       int       `json:"sks"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewCourse contains information needed to register a new Course.
type NewCourse struct {
	Code string `json:"course_code" validate:"required,coursecode"`
	Name string `json:"course_name" validate:"required"`
	SKS  int    `json:"sks" validate:"required,min=1"`
}

func (nc *NewCourse) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	nc.Code = core.CleanString(nc.Code, true /* upper */)
	nc.Name = core.CleanString(nc.Name)

	if err := validate.Struct(nc); err != nil {
		return err
	}
	return svc.checkUniqueness(ctx, nc.Code)
}
