package inmem

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/Br01t/feedback-fort/core/user"
)

type userRepository struct {
	users    *userTable
	profiles *profileTable
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{users: db.user, profiles: db.profile}
}

func (repo *userRepository) CheckEmailUniqueness(_ context.Context, email string, excludedUsers ...user.User) error {
	repo.users.mutex.RLock()
	defer repo.users.mutex.RUnlock()
	return repo.checkEmail(email, excludedUsers...)
}

func (repo *userRepository) checkEmail(email string, excludedUsers ...user.User) error {
	for id, usr := range repo.users.table {
		if usr.Email != email {
			continue
		}
		excluded := false
		for _, ex := range excludedUsers {
			if ex.ID == id {
				excluded = true
				break
			}
		}
		if !excluded {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.users.mutex.Lock()
	defer repo.users.mutex.Unlock()

	if err := repo.checkEmail(usr.Email); err != nil {
		return user.User{}, err
	}
	if usr.ID == "" {
		usr.ID = uuid.NewString()
	}
	repo.users.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUser(_ context.Context, filter user.GetFilter) (user.User, error) {
	repo.users.mutex.RLock()
	defer repo.users.mutex.RUnlock()

	if filter.ID != "" {
		if usr, ok := repo.users.table[filter.ID]; ok {
			return *usr, nil
		}
		return user.User{}, user.ErrNotFound
	}
	if filter.Email != "" {
		for _, usr := range repo.users.table {
			if usr.Email == filter.Email {
				return *usr, nil
			}
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.users.mutex.Lock()
	defer repo.users.mutex.Unlock()

	if _, ok := repo.users.table[usr.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}
	if err := repo.checkEmail(usr.Email, usr); err != nil {
		return user.User{}, err
	}
	repo.users.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) SaveProfile(_ context.Context, p user.Profile) (user.Profile, error) {
	repo.profiles.mutex.Lock()
	defer repo.profiles.mutex.Unlock()

	repo.profiles.table[p.UserID] = &p
	return p, nil
}

func (repo *userRepository) GetProfile(_ context.Context, userID string) (user.Profile, error) {
	repo.profiles.mutex.RLock()
	defer repo.profiles.mutex.RUnlock()

	if p, ok := repo.profiles.table[userID]; ok {
		return *p, nil
	}
	return user.Profile{}, user.ErrNotFound
}

func (repo *userRepository) QueryProfiles(_ context.Context, filter user.QueryFilter) ([]user.Profile, error) {
	repo.profiles.mutex.RLock()
	defer repo.profiles.mutex.RUnlock()

	profiles := make([]user.Profile, 0, len(repo.profiles.table))
	for _, p := range repo.profiles.table {
		if filter.Match(*p) {
			profiles = append(profiles, *p)
		}
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.After(profiles[j].CreatedAt)
	})
	return profiles, nil
}
