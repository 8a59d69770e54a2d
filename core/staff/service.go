package staff

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/univxyz/transkrip/core"
)

var (
	ErrNotFound       = errors.New("staff not found")
	ErrUsernameExists = errors.New("a staff account with this username already exists")
)

type (
	Repository interface {
		CreateStaff(ctx context.Context, stf Staff) (Staff, error)
		GetStaffByUsername(ctx context.Context, username string) (Staff, error)
		SetLastLogin(ctx context.Context, id string, at time.Time) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(ctx context.Context, username string) error {
	_, err := svc.repo.GetStaffByUsername(ctx, username)
	if err == nil {
		return core.NewValidationError(ErrUsernameExists, core.FieldError{Field: "username", Error: ErrUsernameExists.Error()})
	}
	if err != ErrNotFound {
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewStaff) (Staff, error) {
	stf := Staff{
		ID:        uuid.New().String(),
		Name:      ns.Name,
		Username:  strings.ToLower(ns.Username),
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if err := stf.SetPassword(ns.Password); err != nil {
		return Staff{}, err
	}
	return svc.repo.CreateStaff(ctx, stf)
}

// Authenticate checks the credentials and records the login time.
// It returns ErrNotFound for an unknown username or a bad password so callers
// cannot tell the two apart.
func (svc *Service) Authenticate(ctx context.Context, username, password string) (Staff, error) {
	stf, err := svc.repo.GetStaffByUsername(ctx, strings.ToLower(core.CleanString(username)))
	if err != nil {
		return Staff{}, err
	}
	if !stf.IsActive {
		return Staff{}, ErrNotFound
	}
	if err := stf.CheckPassword(password); err != nil {
		return Staff{}, ErrNotFound
	}
	now := time.Now().UTC()
	if err := svc.repo.SetLastLogin(ctx, stf.ID, now); err != nil {
		return Staff{}, err
	}
	stf.LastLogin = now
	return stf, nil
}
