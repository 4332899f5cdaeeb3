//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"dm-lab/auth"
	"dm-lab/domain"
	"dm-lab/errors"
	"dm-lab/repositories"
	"fmt"
	"strings"
)

type IAuthService interface {
	Register(username, knownAs, password string) (Account, error)
	Login(username, password string) (Account, error)
}

// Account is an authenticated user with a fresh session token.
type Account struct {
	User  domain.User
	Token string
}

type AuthService struct {
	userRepository repositories.IUserRepository
	tokens         *auth.TokenManager
}

func NewAuthService(repo repositories.IUserRepository, tokens *auth.TokenManager) IAuthService {
	return &AuthService{userRepository: repo, tokens: tokens}
}

// Register creates a member account. The username is stored lower-case and the
// display name defaults to it.
func (s *AuthService) Register(username, knownAs, password string) (Account, error) {
	username = domain.NormalizeUsername(username)
	knownAs = strings.TrimSpace(knownAs)
	if knownAs == "" {
		knownAs = username
	}

	// Business rules are checked before any expensive cryptographic operation
	if err := auth.ValidateRegister(auth.RegisterRequest{
		Username: username,
		KnownAs:  knownAs,
		Password: password,
	}); err != nil {
		return Account{}, err
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return Account{}, fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.userRepository.CreateUser(username, knownAs, hashedPassword)
	if err != nil {
		return Account{}, err // ErrUserAlreadyExists when the username is taken
	}
	return s.issue(user)
}

func (s *AuthService) Login(username, password string) (Account, error) {
	user, err := s.userRepository.GetUserByUsername(domain.NormalizeUsername(username))
	if err != nil {
		// Generic error to prevent user enumeration
		return Account{}, errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return Account{}, errors.ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *AuthService) issue(user domain.User) (Account, error) {
	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return Account{}, errors.ErrTokenGeneration
	}
	return Account{User: user, Token: token}, nil
}
