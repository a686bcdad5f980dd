package memory

import (
	"context"

	"github.com/xiebiao/bookrental/internal/domain/user"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(ctx context.Context, u *user.User) error {
	return r.s.write(ctx, func() error {
		for _, existing := range r.s.users {
			if existing.Email == u.Email {
				return user.ErrEmailDuplicate
			}
		}
		u.ID = r.s.newID("users")
		r.s.users[u.ID] = cloneUser(u)
		return nil
	})
}

func (r *userRepo) FindByID(_ context.Context, id uint) (*user.User, error) {
	var found *user.User
	r.s.read(func() {
		if u, ok := r.s.users[id]; ok {
			found = cloneUser(u)
		}
	})
	if found == nil {
		return nil, user.ErrUserNotFound
	}
	return found, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	var found *user.User
	r.s.read(func() {
		for _, u := range r.s.users {
			if u.Email == email {
				found = cloneUser(u)
				return
			}
		}
	})
	if found == nil {
		return nil, user.ErrUserNotFound
	}
	return found, nil
}

func (r *userRepo) FindByIDs(_ context.Context, ids []uint) (map[uint]*user.User, error) {
	found := make(map[uint]*user.User, len(ids))
	r.s.read(func() {
		for _, id := range ids {
			if u, ok := r.s.users[id]; ok {
				found[id] = cloneUser(u)
			}
		}
	})
	return found, nil
}
