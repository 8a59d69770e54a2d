package inmemdb

import (
	"context"
	"time"

	"github.com/univxyz/transkrip/core/staff"
)

type staffRepository struct {
	db *DB
}

var _ staff.Repository = (*staffRepository)(nil)

func NewStaffRepository(db *DB) *staffRepository {
	return &staffRepository{db: db}
}

func (repo *staffRepository) CreateStaff(ctx context.Context, stf staff.Staff) (staff.Staff, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.staff[stf.Username]; ok {
		return staff.Staff{}, staff.ErrUsernameExists
	}
	repo.db.staff[stf.Username] = &stf
	return stf, nil
}

func (repo *staffRepository) GetStaffByUsername(ctx context.Context, username string) (staff.Staff, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if stf, ok := repo.db.staff[username]; ok {
		return *stf, nil
	}
	return staff.Staff{}, staff.ErrNotFound
}

func (repo *staffRepository) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, stf := range repo.db.staff {
		if stf.ID == id {
			stf.LastLogin = at
			return nil
		}
	}
	return staff.ErrNotFound
}
