package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"workboard-service/logging"
	"workboard-service/models"
	"workboard-service/repositories"
	"workboard-service/store"
	"workboard-service/utils"
)

const currentUserKey = "currentUser"

// AuthService owns sign-up, the session lifecycle, and role assignment.
// The session is an explicit object created on sign-in and destroyed on
// sign-out, persisted under the currentUser key; there is no process-wide
// current-user singleton.
type AuthService struct {
	users *repositories.UserRepository
	store store.Store
	jwt   *JWTService

	mu          sync.Mutex
	subscribers []func()
}

func NewAuthService(users *repositories.UserRepository, s store.Store, jwt *JWTService) *AuthService {
	return &AuthService{users: users, store: s, jwt: jwt}
}

// Subscribe registers a hook fired after every successful sign-in and
// sign-out so dependent views can refresh.
func (s *AuthService) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *AuthService) notify() {
	s.mu.Lock()
	subscribers := make([]func(), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()
	for _, fn := range subscribers {
		fn()
	}
}

// SignUp registers the user and signs them straight in.
func (s *AuthService) SignUp(ctx context.Context, user models.User) (*models.Session, error) {
	if user.Username == "" || user.Email == "" || user.Password == "" {
		return nil, fmt.Errorf("username, email and password are required: %w", models.ErrValidation)
	}

	hashed, err := utils.HashPassword(user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	plain := user.Password
	user.Password = hashed
	user.CreatedAt = time.Now()

	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User '%s' registered", user.Username)

	return s.SignIn(ctx, user.Username, plain)
}

// SignIn verifies credentials, persists a fresh session and returns it.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (*models.Session, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, fmt.Errorf("invalid credentials for %q: %w", username, models.ErrValidation)
	}

	token, err := s.jwt.GenerateSessionToken(user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &models.Session{
		Username:   user.Username,
		Role:       user.Role,
		Token:      token,
		SignedInAt: time.Now(),
	}
	if err := store.SaveObject(ctx, s.store, currentUserKey, session); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: USER_SIGNED_IN, Description: User '%s' signed in", username)
	s.notify()
	return session, nil
}

// SignOut tears the session down. Signing out with no active session is a no-op.
func (s *AuthService) SignOut(ctx context.Context) error {
	if err := store.DeleteObject(ctx, s.store, currentUserKey); err != nil {
		return err
	}
	logging.Logger.Info("Event ID: USER_SIGNED_OUT, Description: Session cleared")
	s.notify()
	return nil
}

// CurrentSession loads the persisted session, or models.ErrNotFound when
// nobody is signed in.
func (s *AuthService) CurrentSession(ctx context.Context) (*models.Session, error) {
	var session models.Session
	if err := store.LoadObject(ctx, s.store, currentUserKey, &session); err != nil {
		return nil, err
	}
	if session.Username == "" {
		return nil, fmt.Errorf("no active session: %w", models.ErrNotFound)
	}
	return &session, nil
}

// IsAuthenticated reports whether a session exists.
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	_, err := s.CurrentSession(ctx)
	return err == nil
}

// SetUserRole assigns the creator/assignee role, mirroring the change into the
// active session when it belongs to the same user.
func (s *AuthService) SetUserRole(ctx context.Context, username string, role models.UserRole) error {
	if role != models.RoleCreator && role != models.RoleAssignee {
		return fmt.Errorf("unknown role %q: %w", role, models.ErrValidation)
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	user.Role = role
	if err := s.users.Update(ctx, *user); err != nil {
		return err
	}

	if session, err := s.CurrentSession(ctx); err == nil && session.Username == username {
		session.Role = role
		if err := store.SaveObject(ctx, s.store, currentUserKey, session); err != nil {
			return err
		}
	}
	return nil
}

// GetProfile returns the stored user without the password hash.
func (s *AuthService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// UpdateProfile edits the mutable profile fields; username stays fixed.
func (s *AuthService) UpdateProfile(ctx context.Context, profile models.User) error {
	user, err := s.users.GetByUsername(ctx, profile.Username)
	if err != nil {
		return err
	}
	if profile.Email != "" {
		user.Email = profile.Email
	}
	user.FullName = profile.FullName
	user.Department = profile.Department
	if profile.Avatar != "" {
		user.Avatar = profile.Avatar
	}
	return s.users.Update(ctx, *user)
}
