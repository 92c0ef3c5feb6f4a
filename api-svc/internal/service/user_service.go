package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"foodzone/api-svc/internal/domain"
)

type UserService struct {
	repo  UserRepository
	cache RoleCache
	now   func() time.Time
}

// NewUserService wires the user repository. cache may be nil.
func NewUserService(repo UserRepository, cache RoleCache) *UserService {
	return &UserService{repo: repo, cache: cache, now: time.Now}
}

func (s *UserService) Register(ctx context.Context, req domain.NewUser) (*domain.User, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, domain.ErrMissingFields
	}

	_, err := s.repo.GetUser(req.Email)
	if err == nil {
		return nil, domain.ErrUserExists
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		Email:      req.Email,
		Name:       req.DisplayName,
		Photo:      req.PhotoURL,
		Role:       domain.RoleUser,
		CreatedAt:  now,
		LastSignIn: &now,
	}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(email string) (*domain.User, error) {
	return s.repo.GetUser(email)
}

func (s *UserService) ListExcept(email string) ([]domain.User, error) {
	return s.repo.ListUsersExcept(email)
}

// Role reads through the role cache. Cache failures fall back to the
// database.
func (s *UserService) Role(ctx context.Context, email string) (string, error) {
	if s.cache != nil {
		role, ok, err := s.cache.GetRole(ctx, email)
		if err != nil {
			log.Printf("[api-svc] role cache read %s: %v", email, err)
		} else if ok {
			return role, nil
		}
	}

	role, err := s.repo.GetRole(email)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.SetRole(ctx, email, role); err != nil {
			log.Printf("[api-svc] role cache write %s: %v", email, err)
		}
	}
	return role, nil
}

func (s *UserService) UpdateRole(ctx context.Context, email, role string) (*domain.User, error) {
	switch role {
	case domain.RoleAdmin, domain.RoleSeller, domain.RoleUser:
	default:
		return nil, domain.ErrMissingFields
	}

	user, err := s.repo.UpdateRole(email, role)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateRole(ctx, email); err != nil {
			log.Printf("[api-svc] role cache invalidate %s: %v", email, err)
		}
	}
	return user, nil
}

func (s *UserService) RequestSeller(email string) (bool, error) {
	status, err := s.repo.GetStatus(email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	if status == domain.StatusRequested {
		return true, nil
	}
	return false, s.repo.SetStatus(email, domain.StatusRequested)
}

func (s *UserService) UpdateProfile(email string, update domain.ProfileUpdate) (*domain.User, error) {
	return s.repo.UpdateProfile(email, update)
}

var _ UserServiceInterface = (*UserService)(nil)
