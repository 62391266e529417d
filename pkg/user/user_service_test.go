package user_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"resepku/domain"
	"resepku/entities"
	"resepku/pkg/jwt"
	"resepku/pkg/user"
)

type fakeS3 struct {
	deleted []string
}

func (f *fakeS3) UploadImage(_ context.Context, fileName, folder, _ string) (string, error) {
	return fmt.Sprintf("https://img.test/%s/%s.png", folder, fileName), nil
}

func (f *fakeS3) DeleteFile(_ context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func (f *fakeS3) GetObjectKeyFromLink(link string) string {
	return link
}

type fakeMailer struct {
	sentTo    []string
	lastToken string
}

func (f *fakeMailer) SendPasswordResetEmail(toEmail, token string) error {
	f.sentTo = append(f.sentTo, toEmail)
	f.lastToken = token
	return nil
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.User{}, &entities.Subscription{}))
	return db
}

func setupService(t *testing.T) (user.UserService, *gorm.DB, *fakeS3, *fakeMailer) {
	t.Helper()
	db := setupDB(t)
	s3 := &fakeS3{}
	mailer := &fakeMailer{}
	service := user.NewUserService(user.NewUserRepository(db), jwt.NewJWTService(), s3, mailer)
	return service, db, s3, mailer
}

func registerRequest(email string) domain.RegisterRequest {
	return domain.RegisterRequest{
		Email:     email,
		Username:  "vasya",
		FirstName: "Vasya",
		LastName:  "Pupkin",
		Password:  "Qwerty12345",
	}
}

func TestUserService_Register(t *testing.T) {
	service, db, _, _ := setupService(t)
	ctx := context.Background()

	created, err := service.Register(ctx, registerRequest("vasya@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "vasya@example.com", created.Email)
	assert.Equal(t, "vasya", created.Username)
	assert.NotEmpty(t, created.ID)

	// the stored password is hashed, never the raw value
	var stored entities.User
	require.NoError(t, db.First(&stored, "email = ?", "vasya@example.com").Error)
	assert.NotEqual(t, "Qwerty12345", stored.Password)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := service.Register(ctx, registerRequest("vasya@example.com"))
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyRegistered)
	})
}

func TestUserService_Login(t *testing.T) {
	service, _, _, _ := setupService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, registerRequest("vasya@example.com"))
	require.NoError(t, err)

	res, err := service.Login(ctx, domain.LoginRequest{Email: "vasya@example.com", Password: "Qwerty12345"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Login(ctx, domain.LoginRequest{Email: "vasya@example.com", Password: "nope"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := service.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "Qwerty12345"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestUserService_GetUserByID(t *testing.T) {
	service, db, _, _ := setupService(t)
	ctx := context.Background()

	created, err := service.Register(ctx, registerRequest("vasya@example.com"))
	require.NoError(t, err)

	other := entities.User{
		ID: uuid.New(), Email: "other@example.com", Username: "other",
		FirstName: "O", LastName: "T", Password: "x",
	}
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&entities.Subscription{
		ID: uuid.New(), UserID: other.ID, AuthorID: uuid.MustParse(created.ID),
	}).Error)

	t.Run("anonymous requester", func(t *testing.T) {
		profile, err := service.GetUserByID(ctx, created.ID, "")
		require.NoError(t, err)
		assert.Equal(t, "vasya", profile.Username)
		assert.False(t, profile.IsSubscribed)
	})

	t.Run("subscribed requester", func(t *testing.T) {
		profile, err := service.GetUserByID(ctx, created.ID, other.ID.String())
		require.NoError(t, err)
		assert.True(t, profile.IsSubscribed)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := service.GetUserByID(ctx, uuid.NewString(), "")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserService_SetPassword(t *testing.T) {
	service, _, _, _ := setupService(t)
	ctx := context.Background()

	created, err := service.Register(ctx, registerRequest("vasya@example.com"))
	require.NoError(t, err)

	err = service.SetPassword(ctx, domain.SetPasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "NewPass12345",
	}, created.ID)
	assert.ErrorIs(t, err, domain.ErrWrongPassword)

	require.NoError(t, service.SetPassword(ctx, domain.SetPasswordRequest{
		CurrentPassword: "Qwerty12345",
		NewPassword:     "NewPass12345",
	}, created.ID))

	_, err = service.Login(ctx, domain.LoginRequest{Email: "vasya@example.com", Password: "Qwerty12345"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = service.Login(ctx, domain.LoginRequest{Email: "vasya@example.com", Password: "NewPass12345"})
	assert.NoError(t, err)
}

func TestUserService_Avatar(t *testing.T) {
	service, _, s3, _ := setupService(t)
	ctx := context.Background()

	created, err := service.Register(ctx, registerRequest("vasya@example.com"))
	require.NoError(t, err)

	t.Run("delete before set", func(t *testing.T) {
		assert.ErrorIs(t, service.DeleteAvatar(ctx, created.ID), domain.ErrAvatarNotSet)
	})

	t.Run("empty payload", func(t *testing.T) {
		_, err := service.UpdateAvatar(ctx, domain.UpdateAvatarRequest{}, created.ID)
		assert.ErrorIs(t, err, domain.ErrAvatarRequired)
	})

	res, err := service.UpdateAvatar(ctx, domain.UpdateAvatarRequest{
		Avatar: "data:image/png;base64,aGk=",
	}, created.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Avatar)

	profile, err := service.GetUserByID(ctx, created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, res.Avatar, profile.Avatar)

	require.NoError(t, service.DeleteAvatar(ctx, created.ID))
	assert.NotEmpty(t, s3.deleted)

	profile, err = service.GetUserByID(ctx, created.ID, "")
	require.NoError(t, err)
	assert.Empty(t, profile.Avatar)
}

func TestUserService_PasswordReset(t *testing.T) {
	service, _, _, mailer := setupService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, registerRequest("vasya@example.com"))
	require.NoError(t, err)

	t.Run("unknown email", func(t *testing.T) {
		err := service.ForgotPassword(ctx, domain.ForgotPasswordRequest{Email: "nobody@example.com"})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	require.NoError(t, service.ForgotPassword(ctx, domain.ForgotPasswordRequest{Email: "vasya@example.com"}))
	require.Equal(t, []string{"vasya@example.com"}, mailer.sentTo)
	require.NotEmpty(t, mailer.lastToken)

	t.Run("garbage token", func(t *testing.T) {
		err := service.ResetPassword(ctx, domain.ResetPasswordRequest{Token: "garbage", NewPassword: "NewPass12345"})
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	require.NoError(t, service.ResetPassword(ctx, domain.ResetPasswordRequest{
		Token:       mailer.lastToken,
		NewPassword: "NewPass12345",
	}))

	_, err = service.Login(ctx, domain.LoginRequest{Email: "vasya@example.com", Password: "NewPass12345"})
	assert.NoError(t, err)
}

func TestUserService_GetUsers(t *testing.T) {
	service, db, _, _ := setupService(t)
	ctx := context.Background()

	for _, username := range []string{"anna", "boris", "clara"} {
		require.NoError(t, db.Create(&entities.User{
			ID: uuid.New(), Email: username + "@example.com", Username: username,
			FirstName: "F", LastName: "L", Password: "x",
		}).Error)
	}

	users, count, err := service.GetUsers(ctx, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	require.Len(t, users, 2)
	assert.Equal(t, "anna", users[0].Username)
	assert.Equal(t, "boris", users[1].Username)

	users, _, err = service.GetUsers(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "clara", users[0].Username)
}
