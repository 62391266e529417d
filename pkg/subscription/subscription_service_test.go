package subscription_test

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
	"resepku/pkg/subscription"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entities.User{},
		&entities.Subscription{},
		&entities.Recipe{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) entities.User {
	t.Helper()
	user := entities.User{
		ID: uuid.New(), Email: username + "@example.com", Username: username,
		FirstName: "F", LastName: "L", Password: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedRecipes(t *testing.T, db *gorm.DB, author entities.User, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, db.Create(&entities.Recipe{
			ID: uuid.New(), AuthorID: author.ID,
			Name: fmt.Sprintf("%s recipe %d", author.Username, i),
			Text: "t", CookingTime: 10,
		}).Error)
	}
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	db := setupDB(t)
	service := subscription.NewSubscriptionService(subscription.NewSubscriptionRepository(db))
	ctx := context.Background()

	follower := seedUser(t, db, "follower")
	author := seedUser(t, db, "author")
	seedRecipes(t, db, author, 3)

	res, err := service.Subscribe(ctx, follower.ID.String(), author.ID.String(), 0)
	require.NoError(t, err)
	assert.Equal(t, author.ID.String(), res.ID)
	assert.True(t, res.IsSubscribed)
	assert.EqualValues(t, 3, res.RecipesCount)

	t.Run("duplicate", func(t *testing.T) {
		_, err := service.Subscribe(ctx, follower.ID.String(), author.ID.String(), 0)
		assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)
	})

	t.Run("self", func(t *testing.T) {
		_, err := service.Subscribe(ctx, follower.ID.String(), follower.ID.String(), 0)
		assert.ErrorIs(t, err, domain.ErrSelfSubscription)
	})

	t.Run("unknown author", func(t *testing.T) {
		_, err := service.Subscribe(ctx, follower.ID.String(), uuid.NewString(), 0)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestSubscriptionService_Unsubscribe(t *testing.T) {
	db := setupDB(t)
	service := subscription.NewSubscriptionService(subscription.NewSubscriptionRepository(db))
	ctx := context.Background()

	follower := seedUser(t, db, "follower")
	author := seedUser(t, db, "author")

	_, err := service.Subscribe(ctx, follower.ID.String(), author.ID.String(), 0)
	require.NoError(t, err)

	require.NoError(t, service.Unsubscribe(ctx, follower.ID.String(), author.ID.String()))
	assert.ErrorIs(t, service.Unsubscribe(ctx, follower.ID.String(), author.ID.String()), domain.ErrNotSubscribed)
}

func TestSubscriptionService_GetSubscriptions(t *testing.T) {
	db := setupDB(t)
	service := subscription.NewSubscriptionService(subscription.NewSubscriptionRepository(db))
	ctx := context.Background()

	follower := seedUser(t, db, "follower")
	prolific := seedUser(t, db, "prolific")
	quiet := seedUser(t, db, "quiet")
	stranger := seedUser(t, db, "stranger")
	seedRecipes(t, db, prolific, 5)
	seedRecipes(t, db, stranger, 2)

	_, err := service.Subscribe(ctx, follower.ID.String(), prolific.ID.String(), 0)
	require.NoError(t, err)
	_, err = service.Subscribe(ctx, follower.ID.String(), quiet.ID.String(), 0)
	require.NoError(t, err)

	entries, count, err := service.GetSubscriptions(ctx, follower.ID.String(), 2, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	require.Len(t, entries, 2)

	byUsername := map[string]domain.SubscriptionResponse{}
	for _, entry := range entries {
		byUsername[entry.Username] = entry
	}

	// recipes are truncated to the requested limit, the count is not
	assert.Len(t, byUsername["prolific"].Recipes, 2)
	assert.EqualValues(t, 5, byUsername["prolific"].RecipesCount)
	assert.Empty(t, byUsername["quiet"].Recipes)
	assert.EqualValues(t, 0, byUsername["quiet"].RecipesCount)

	// authors the follower never subscribed to do not appear
	_, seen := byUsername["stranger"]
	assert.False(t, seen)
}
