package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tukio-app/tukio-api/internal/domain"
	"github.com/tukio-app/tukio-api/internal/repository"
)

type fakeUserRepo struct {
	users  map[uint]domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[uint]domain.User),
		nextID: 1,
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.User{}, repository.ErrUserEmailExists
		}
	}

	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user

	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

func TestAuthService_Signup(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	user, err := svc.Signup(context.Background(), domain.User{
		FirstName: "Wanjiku",
		LastName:  "Kamau",
		Email:     "wanjiku@example.com",
		Password:  "s3cret!",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "s3cret!", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret!")))
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.Signup(context.Background(), domain.User{Email: "wanjiku@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), domain.User{Email: "wanjiku@example.com", Password: "pw"})

	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestAuthService_Login(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	created, err := svc.Signup(context.Background(), domain.User{Email: "wanjiku@example.com", Password: "s3cret!"})
	require.NoError(t, err)

	user, err := svc.Login(context.Background(), "wanjiku@example.com", "s3cret!")

	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.Signup(context.Background(), domain.User{Email: "wanjiku@example.com", Password: "s3cret!"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "wanjiku@example.com", "wrong")

	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), "nobody@example.com", "pw")

	assert.ErrorIs(t, err, ErrUserNotFound)
}
