package recipe_test

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
	"resepku/pkg/catalog"
	"resepku/pkg/recipe"
)

// fakeS3 records uploads and hands back deterministic links.
type fakeS3 struct {
	uploads int
	deleted []string
}

func (f *fakeS3) UploadImage(_ context.Context, fileName, folder, _ string) (string, error) {
	f.uploads++
	return fmt.Sprintf("https://img.test/%s/%s.png", folder, fileName), nil
}

func (f *fakeS3) DeleteFile(_ context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func (f *fakeS3) GetObjectKeyFromLink(link string) string {
	return link
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entities.User{},
		&entities.Subscription{},
		&entities.Tag{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.Favorite{},
		&entities.ShoppingCart{},
	))
	return db
}

type fixture struct {
	db      *gorm.DB
	service recipe.RecipeService
	s3      *fakeS3

	author       entities.User
	reader       entities.User
	tagBreakfast entities.Tag
	tagDinner    entities.Tag
	salt         entities.Ingredient
	flour        entities.Ingredient
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupDB(t)

	f := &fixture{
		db: db,
		s3: &fakeS3{},
		author: entities.User{
			ID: uuid.New(), Email: "author@example.com", Username: "author",
			FirstName: "Ann", LastName: "Author", Password: "x",
		},
		reader: entities.User{
			ID: uuid.New(), Email: "reader@example.com", Username: "reader",
			FirstName: "Rob", LastName: "Reader", Password: "x",
		},
		tagBreakfast: entities.Tag{ID: uuid.New(), Name: "Breakfast", Slug: "breakfast"},
		tagDinner:    entities.Tag{ID: uuid.New(), Name: "Dinner", Slug: "dinner"},
		salt:         entities.Ingredient{ID: uuid.New(), Name: "Salt", MeasurementUnit: "g"},
		flour:        entities.Ingredient{ID: uuid.New(), Name: "Flour", MeasurementUnit: "g"},
	}
	require.NoError(t, db.Create(&f.author).Error)
	require.NoError(t, db.Create(&f.reader).Error)
	require.NoError(t, db.Create(&f.tagBreakfast).Error)
	require.NoError(t, db.Create(&f.tagDinner).Error)
	require.NoError(t, db.Create(&f.salt).Error)
	require.NoError(t, db.Create(&f.flour).Error)

	recipeRepo := recipe.NewRecipeRepository(db)
	catalogRepo := catalog.NewCatalogRepository(db)
	f.service = recipe.NewRecipeService(recipeRepo, catalogRepo, f.s3, "https://resepku.test")
	return f
}

func (f *fixture) validCreateRequest() domain.CreateRecipeRequest {
	return domain.CreateRecipeRequest{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
		Image:       "data:image/png;base64,aGk=",
		Tags:        []string{f.tagBreakfast.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: f.salt.ID.String(), Amount: 5},
			{ID: f.flour.ID.String(), Amount: 200},
		},
	}
}

func TestRecipeService_CreateRecipe(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	res, err := f.service.CreateRecipe(ctx, f.validCreateRequest(), f.author.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", res.Name)
	assert.Equal(t, 20, res.CookingTime)
	assert.Equal(t, f.author.ID.String(), res.Author.ID)
	assert.False(t, res.IsFavorited)
	assert.False(t, res.IsInShoppingCart)

	// persisted sets exactly match the submitted sets
	require.Len(t, res.Tags, 1)
	assert.Equal(t, "breakfast", res.Tags[0].Slug)
	require.Len(t, res.Ingredients, 2)
	byName := map[string]int{}
	for _, ing := range res.Ingredients {
		byName[ing.Name] = ing.Amount
	}
	assert.Equal(t, 5, byName["Salt"])
	assert.Equal(t, 200, byName["Flour"])

	var rows int64
	f.db.Model(&entities.RecipeIngredient{}).Count(&rows)
	assert.EqualValues(t, 2, rows)
	assert.Equal(t, 1, f.s3.uploads)
}

func TestRecipeService_CreateRecipe_Validation(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	t.Run("empty tags", func(t *testing.T) {
		req := f.validCreateRequest()
		req.Tags = nil
		_, err := f.service.CreateRecipe(ctx, req, f.author.ID.String())
		assert.ErrorIs(t, err, domain.ErrTagsRequired)
	})

	t.Run("duplicate tags", func(t *testing.T) {
		req := f.validCreateRequest()
		req.Tags = []string{f.tagBreakfast.ID.String(), f.tagBreakfast.ID.String()}
		_, err := f.service.CreateRecipe(ctx, req, f.author.ID.String())
		assert.ErrorIs(t, err, domain.ErrTagsDuplicated)
	})

	t.Run("unknown tag", func(t *testing.T) {
		req := f.validCreateRequest()
		req.Tags = []string{uuid.NewString()}
		_, err := f.service.CreateRecipe(ctx, req, f.author.ID.String())
		assert.ErrorIs(t, err, domain.ErrTagNotFound)
	})

	t.Run("empty ingredients", func(t *testing.T) {
		req := f.validCreateRequest()
		req.Ingredients = nil
		_, err := f.service.CreateRecipe(ctx, req, f.author.ID.String())
		assert.ErrorIs(t, err, domain.ErrIngredientsRequired)
	})

	t.Run("duplicate ingredient ids regardless of amounts", func(t *testing.T) {
		req := f.validCreateRequest()
		req.Ingredients = []domain.RecipeIngredientRequest{
			{ID: f.salt.ID.String(), Amount: 5},
			{ID: f.salt.ID.String(), Amount: 10},
		}
		_, err := f.service.CreateRecipe(ctx, req, f.author.ID.String())
		assert.ErrorIs(t, err, domain.ErrIngredientsDuplicated)
	})

	t.Run("unknown ingredient", func(t *testing.T) {
		req := f.validCreateRequest()
		req.Ingredients = []domain.RecipeIngredientRequest{{ID: uuid.NewString(), Amount: 5}}
		_, err := f.service.CreateRecipe(ctx, req, f.author.ID.String())
		assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
	})

	t.Run("missing image", func(t *testing.T) {
		req := f.validCreateRequest()
		req.Image = ""
		_, err := f.service.CreateRecipe(ctx, req, f.author.ID.String())
		assert.ErrorIs(t, err, domain.ErrImageRequired)
	})

	t.Run("nothing persisted on failure", func(t *testing.T) {
		var recipes int64
		f.db.Model(&entities.Recipe{}).Count(&recipes)
		assert.EqualValues(t, 0, recipes)
		var rows int64
		f.db.Model(&entities.RecipeIngredient{}).Count(&rows)
		assert.EqualValues(t, 0, rows)
	})
}

func TestRecipeService_AmountBounds(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	cases := []struct {
		amount int
		ok     bool
	}{
		{-1, false},
		{0, false},
		{domain.AmountMin, true},
		{domain.AmountMax, true},
		{domain.AmountMax + 1, false},
	}

	for _, tc := range cases {
		req := f.validCreateRequest()
		req.Name = fmt.Sprintf("Recipe amount %d", tc.amount)
		req.Ingredients = []domain.RecipeIngredientRequest{{ID: f.salt.ID.String(), Amount: tc.amount}}

		_, err := f.service.CreateRecipe(ctx, req, f.author.ID.String())
		if tc.ok {
			assert.NoError(t, err, "amount %d", tc.amount)
		} else {
			assert.ErrorIs(t, err, domain.ErrAmountOutOfRange, "amount %d", tc.amount)
		}
	}
}

func TestRecipeService_CookingTimeBounds(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	for _, tc := range []struct {
		cookingTime int
		ok          bool
	}{
		{domain.CookingTimeMin - 1, false},
		{domain.CookingTimeMin, true},
		{domain.CookingTimeMax, true},
		{domain.CookingTimeMax + 1, false},
	} {
		req := f.validCreateRequest()
		req.Name = fmt.Sprintf("Recipe time %d", tc.cookingTime)
		req.CookingTime = tc.cookingTime

		_, err := f.service.CreateRecipe(ctx, req, f.author.ID.String())
		if tc.ok {
			assert.NoError(t, err, "cooking time %d", tc.cookingTime)
		} else {
			assert.ErrorIs(t, err, domain.ErrCookingTimeOutOfRange, "cooking time %d", tc.cookingTime)
		}
	}
}

func TestRecipeService_UpdateRecipe(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateRecipe(ctx, f.validCreateRequest(), f.author.ID.String())
	require.NoError(t, err)

	t.Run("non-author is rejected and recipe unchanged", func(t *testing.T) {
		_, err := f.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{Name: "Hijacked"}, f.reader.ID.String())
		assert.ErrorIs(t, err, domain.ErrNotRecipeAuthor)

		current, err := f.service.GetRecipeByID(ctx, created.ID, "")
		require.NoError(t, err)
		assert.Equal(t, "Pancakes", current.Name)
	})

	t.Run("ingredients and tags replaced wholesale", func(t *testing.T) {
		res, err := f.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{
			Name: "Flatbread",
			Tags: []string{f.tagDinner.ID.String()},
			Ingredients: []domain.RecipeIngredientRequest{
				{ID: f.flour.ID.String(), Amount: 300},
			},
		}, f.author.ID.String())
		require.NoError(t, err)

		assert.Equal(t, "Flatbread", res.Name)
		require.Len(t, res.Tags, 1)
		assert.Equal(t, "dinner", res.Tags[0].Slug)
		require.Len(t, res.Ingredients, 1)
		assert.Equal(t, "Flour", res.Ingredients[0].Name)
		assert.Equal(t, 300, res.Ingredients[0].Amount)

		var rows int64
		f.db.Model(&entities.RecipeIngredient{}).Count(&rows)
		assert.EqualValues(t, 1, rows)
	})

	t.Run("omitted sets are kept", func(t *testing.T) {
		res, err := f.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{Text: "Knead and bake."}, f.author.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "Knead and bake.", res.Text)
		assert.Len(t, res.Tags, 1)
		assert.Len(t, res.Ingredients, 1)
	})

	t.Run("invalid patch is rejected", func(t *testing.T) {
		_, err := f.service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{
			Ingredients: []domain.RecipeIngredientRequest{},
		}, f.author.ID.String())
		assert.ErrorIs(t, err, domain.ErrIngredientsRequired)
	})

	t.Run("unknown recipe", func(t *testing.T) {
		_, err := f.service.UpdateRecipe(ctx, uuid.NewString(), domain.UpdateRecipeRequest{}, f.author.ID.String())
		assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
	})
}

func TestRecipeService_DeleteRecipe_Cascades(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateRecipe(ctx, f.validCreateRequest(), f.author.ID.String())
	require.NoError(t, err)
	recipeID := uuid.MustParse(created.ID)

	require.NoError(t, f.db.Create(&entities.Favorite{ID: uuid.New(), UserID: f.reader.ID, RecipeID: recipeID}).Error)
	require.NoError(t, f.db.Create(&entities.ShoppingCart{ID: uuid.New(), UserID: f.reader.ID, RecipeID: recipeID}).Error)

	t.Run("non-author cannot delete", func(t *testing.T) {
		assert.ErrorIs(t, f.service.DeleteRecipe(ctx, created.ID, f.reader.ID.String()), domain.ErrNotRecipeAuthor)
	})

	require.NoError(t, f.service.DeleteRecipe(ctx, created.ID, f.author.ID.String()))

	_, err = f.service.GetRecipeByID(ctx, created.ID, "")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	for _, model := range []any{&entities.RecipeIngredient{}, &entities.Favorite{}, &entities.ShoppingCart{}} {
		var count int64
		f.db.Model(model).Where("recipe_id = ?", recipeID).Count(&count)
		assert.EqualValues(t, 0, count)
	}
	assert.NotEmpty(t, f.s3.deleted)
}

func TestRecipeService_GetRecipes_Filters(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	breakfast, err := f.service.CreateRecipe(ctx, f.validCreateRequest(), f.author.ID.String())
	require.NoError(t, err)

	dinnerReq := f.validCreateRequest()
	dinnerReq.Name = "Soup"
	dinnerReq.Tags = []string{f.tagDinner.ID.String()}
	dinner, err := f.service.CreateRecipe(ctx, dinnerReq, f.reader.ID.String())
	require.NoError(t, err)

	require.NoError(t, f.db.Create(&entities.Favorite{
		ID: uuid.New(), UserID: f.reader.ID, RecipeID: uuid.MustParse(breakfast.ID),
	}).Error)

	t.Run("by author", func(t *testing.T) {
		res, count, err := f.service.GetRecipes(ctx, domain.RecipeFilter{AuthorID: f.author.ID.String()})
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
		require.Len(t, res, 1)
		assert.Equal(t, breakfast.ID, res[0].ID)
	})

	t.Run("by tag slugs is a union", func(t *testing.T) {
		res, count, err := f.service.GetRecipes(ctx, domain.RecipeFilter{
			TagSlugs: []string{"breakfast", "dinner"},
		})
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
		require.Len(t, res, 2)

		ids := []string{res[0].ID, res[1].ID}
		assert.Contains(t, ids, breakfast.ID)
		assert.Contains(t, ids, dinner.ID)
	})

	t.Run("favorited only for the requester", func(t *testing.T) {
		res, count, err := f.service.GetRecipes(ctx, domain.RecipeFilter{
			Favorited:        true,
			RequestingUserID: f.reader.ID.String(),
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
		require.Len(t, res, 1)
		assert.Equal(t, breakfast.ID, res[0].ID)
		assert.True(t, res[0].IsFavorited)
	})

	t.Run("anonymous requester gets no annotations", func(t *testing.T) {
		res, _, err := f.service.GetRecipes(ctx, domain.RecipeFilter{})
		require.NoError(t, err)
		for _, entry := range res {
			assert.False(t, entry.IsFavorited)
			assert.False(t, entry.IsInShoppingCart)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		res, count, err := f.service.GetRecipes(ctx, domain.RecipeFilter{Page: 1, Limit: 1})
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
		assert.Len(t, res, 1)
	})
}

func TestRecipeService_GetShortLink(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	created, err := f.service.CreateRecipe(ctx, f.validCreateRequest(), f.author.ID.String())
	require.NoError(t, err)

	res, err := f.service.GetShortLink(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("https://resepku.test/api/v1/recipes/%s", created.ID), res.ShortLink)

	_, err = f.service.GetShortLink(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}
