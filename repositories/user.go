//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"dm-lab/domain"
	apperrors "dm-lab/errors"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateUser(username, knownAs, hashedPassword string) (domain.User, error)
	GetUserByUsername(username string) (domain.User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// CreateUser persists a new member account under "user:{username}".
// The username must already be normalized; it is the lookup key.
func (u UserRepository) CreateUser(username, knownAs, hashedPassword string) (domain.User, error) {
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		KnownAs:      knownAs,
		PasswordHash: hashedPassword,
		Roles:        []string{domain.RoleMember},
		CreatedAt:    time.Now().UTC(),
	}

	err := u.db.Update(func(txn *badger.Txn) error {
		key := userKey(username)
		if _, err := txn.Get(key); err == nil {
			return apperrors.ErrUserAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, marshalUser(user))
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// GetUserByUsername returns ErrUserNotFound when no account exists.
func (u UserRepository) GetUserByUsername(username string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(username))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return apperrors.ErrUserNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			user, err = unmarshalUser(val)
			return err
		})
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func userKey(username string) []byte {
	return []byte(UserPrefix + username)
}
