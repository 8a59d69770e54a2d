package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/univxyz/transkrip/core/staff"
)

type staffRepository struct {
	db *sqlx.DB
}

var _ staff.Repository = (*staffRepository)(nil)

func NewStaffRepository(db *sqlx.DB) *staffRepository {
	return &staffRepository{db: db}
}

type staffRow struct {
	ID           string       `db:"id"`
	Name         string       `db:"name"`
	Username     string       `db:"username"`
	IsActive     bool         `db:"is_active"`
	PasswordHash []byte       `db:"password_hash"`
	CreatedAt    time.Time    `db:"created_at"`
	LastLogin    sql.NullTime `db:"last_login"`
}

func (r staffRow) staff() staff.Staff {
	return staff.Staff{
		ID:           r.ID,
		Name:         r.Name,
		Username:     r.Username,
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		LastLogin:    r.LastLogin.Time,
	}
}

func (repo staffRepository) CreateStaff(ctx context.Context, stf staff.Staff) (staff.Staff, error) {
	q := `INSERT INTO staff (id, name, username, is_active, password_hash, created_at)
          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := repo.db.ExecContext(ctx, q, stf.ID, stf.Name, stf.Username, stf.IsActive, stf.PasswordHash, stf.CreatedAt)
	if err != nil {
		return staff.Staff{}, errors.Wrap(err, "inserting staff")
	}
	return stf, nil
}

func (repo staffRepository) GetStaffByUsername(ctx context.Context, username string) (staff.Staff, error) {
	var row staffRow
	q := `SELECT id, name, username, is_active, password_hash, created_at, last_login FROM staff WHERE username = $1`
	if err := repo.db.GetContext(ctx, &row, q, username); err != nil {
		if err == sql.ErrNoRows {
			return staff.Staff{}, staff.ErrNotFound
		}
		return staff.Staff{}, errors.Wrap(err, "getting staff")
	}
	return row.staff(), nil
}

func (repo staffRepository) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	if _, err := repo.db.ExecContext(ctx, `UPDATE staff SET last_login = $1 WHERE id = $2`, at, id); err != nil {
		return errors.Wrap(err, "updating last login")
	}
	return nil
}
