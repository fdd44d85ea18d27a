package services

import (
	"database/sql"
	"errors"

	"supplyhub/internal/domain"
	"supplyhub/internal/repos"
	"supplyhub/internal/validate"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = errors.New("invalid email or password")

type AuthService struct {
	Users *repos.UserRepo
}

// Register creates a new account. The role is fixed at creation and cannot
// change afterwards.
func (s *AuthService) Register(name, email, password, role string) (*domain.User, error) {
	name, ok := validate.PersonName(name)
	if !ok {
		return nil, domain.Errf(domain.KindValidation, "name must be 2-100 characters")
	}
	email, ok = validate.Email(email)
	if !ok {
		return nil, domain.Errf(domain.KindValidation, "invalid email address")
	}
	if !validate.Password(password) {
		return nil, domain.Errf(domain.KindValidation, "password must be at least 6 characters")
	}
	role, ok = validate.Role(role)
	if !ok {
		return nil, domain.Errf(domain.KindValidation, "role must be buyer or supplier")
	}

	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, domain.Errf(domain.KindValidation, "an account with this email already exists")
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := &domain.User{ID: uuid.NewString(), Email: email, Name: name, Hash: string(h), Role: role}
	if err := s.Users.Create(u); err != nil {
		// a concurrent registration can slip past the lookup above and land
		// on the unique email index instead
		if repos.IsUniqueViolation(err) {
			return nil, domain.Errf(domain.KindValidation, "an account with this email already exists")
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}
