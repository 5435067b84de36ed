package memory

import (
	"context"

	"github.com/xiebiao/bookoutlet/internal/domain/contact"
	"github.com/xiebiao/bookoutlet/internal/domain/user"
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	defer r.s.lock(ctx)()

	for _, existing := range r.s.data.users {
		if existing.Email == u.Email {
			return apperrors.ErrEmailDuplicate
		}
	}

	u.ID = r.s.data.nextID("users")
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.s.now()
		u.UpdatedAt = u.CreatedAt
	}
	r.s.data.users[u.ID] = *u
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	defer r.s.lock(ctx)()

	u, ok := r.s.data.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	defer r.s.lock(ctx)()

	for _, u := range r.s.data.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

type profileRepository struct {
	s *Store
}

func (r *profileRepository) Create(ctx context.Context, p *user.Profile) error {
	defer r.s.lock(ctx)()

	for _, existing := range r.s.data.profiles {
		if existing.UserID == p.UserID {
			return apperrors.ErrConflict
		}
	}

	p.ID = r.s.data.nextID("user_profiles")
	r.s.data.profiles[p.ID] = *p
	return nil
}

func (r *profileRepository) FindByUserID(ctx context.Context, userID uint) (*user.Profile, error) {
	defer r.s.lock(ctx)()

	for _, p := range r.s.data.profiles {
		if p.UserID == userID {
			return &p, nil
		}
	}
	return nil, user.ErrProfileNotFound
}

func (r *profileRepository) Update(ctx context.Context, p *user.Profile) error {
	defer r.s.lock(ctx)()

	stored, ok := r.s.data.profiles[p.ID]
	if !ok {
		return user.ErrProfileNotFound
	}
	stored.Bio = p.Bio
	stored.Location = p.Location
	stored.FavoriteGenres = p.FavoriteGenres
	stored.BirthDate = p.BirthDate
	stored.UpdatedAt = p.UpdatedAt
	r.s.data.profiles[p.ID] = stored
	return nil
}

type contactRepository struct {
	s *Store
}

func (r *contactRepository) Create(ctx context.Context, m *contact.Message) error {
	defer r.s.lock(ctx)()

	m.ID = r.s.data.nextID("contact_messages")
	r.s.data.contacts[m.ID] = *m
	return nil
}
