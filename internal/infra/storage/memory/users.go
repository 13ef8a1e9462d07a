package memory

import (
	"context"

	"github.com/m04kA/PSY-AppointmentService/internal/domain"
	"github.com/m04kA/PSY-AppointmentService/internal/infra/storage/user"
)

// UserRepository справочник пользователей в памяти
type UserRepository struct {
	store *Store
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}
