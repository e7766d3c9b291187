package memory

import (
	"context"
	"sort"

	"gemtrader/internal/domain"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.s.userMu.Lock()
	defer r.s.userMu.Unlock()

	if _, taken := r.s.usernames[user.Username]; taken {
		return domain.Validation("Username already taken: %s", user.Username)
	}

	r.s.userSeq++
	user.ID = r.s.userSeq
	r.s.users[user.ID] = user.Clone()
	r.s.usernames[user.Username] = user.ID
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.userMu.RLock()
	defer r.s.userMu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, domain.NotFound(domain.EntityUser, id)
	}
	return user.Clone(), nil
}

func (r *userRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.userMu.RLock()
	defer r.s.userMu.RUnlock()

	id, ok := r.s.usernames[username]
	if !ok {
		return nil, domain.NotFound(domain.EntityUser, username)
	}
	return r.s.users[id].Clone(), nil
}

func (r *userRepository) GetAll(_ context.Context) ([]*domain.User, error) {
	r.s.userMu.RLock()
	defer r.s.userMu.RUnlock()

	users := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u.Clone())
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *userRepository) UpdateRanks(_ context.Context, ranks map[int64]int) error {
	r.s.userMu.Lock()
	defer r.s.userMu.Unlock()

	for id, rank := range ranks {
		if u, ok := r.s.users[id]; ok {
			u.Rank = rank
		}
	}
	return nil
}
