package shoppinglist_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"resepku/domain"
	"resepku/entities"
	"resepku/pkg/collection"
	"resepku/pkg/shoppinglist"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entities.User{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.ShoppingCart{},
	))
	return db
}

type listFixture struct {
	db      *gorm.DB
	service shoppinglist.ShoppingListService
	user    entities.User
}

func setupListFixture(t *testing.T) *listFixture {
	t.Helper()
	db := setupDB(t)

	user := entities.User{
		ID: uuid.New(), Email: "cook@example.com", Username: "cook",
		FirstName: "C", LastName: "K", Password: "x",
	}
	require.NoError(t, db.Create(&user).Error)

	return &listFixture{
		db:      db,
		service: shoppinglist.NewShoppingListService(collection.NewCollectionRepository(db)),
		user:    user,
	}
}

func (f *listFixture) addRecipeToCart(t *testing.T, name string, ingredients map[*entities.Ingredient]int) {
	t.Helper()
	recipe := entities.Recipe{
		ID: uuid.New(), AuthorID: f.user.ID, Name: name,
		ImageURL: "https://img.test/r.png", Text: "t", CookingTime: 5,
	}
	require.NoError(t, f.db.Create(&recipe).Error)

	for ingredient, amount := range ingredients {
		require.NoError(t, f.db.Create(&entities.RecipeIngredient{
			ID: uuid.New(), RecipeID: recipe.ID, IngredientID: ingredient.ID, Amount: amount,
		}).Error)
	}

	require.NoError(t, f.db.Create(&entities.ShoppingCart{
		ID: uuid.New(), UserID: f.user.ID, RecipeID: recipe.ID, AddedAt: time.Now(),
	}).Error)
}

func (f *listFixture) ingredient(t *testing.T, name, unit string) *entities.Ingredient {
	t.Helper()
	ingredient := &entities.Ingredient{ID: uuid.New(), Name: name, MeasurementUnit: unit}
	require.NoError(t, f.db.Create(ingredient).Error)
	return ingredient
}

func TestShoppingListService_MergesByNameAndUnit(t *testing.T) {
	f := setupListFixture(t)

	salt := f.ingredient(t, "Salt", "g")
	f.addRecipeToCart(t, "Pancakes", map[*entities.Ingredient]int{salt: 5})
	f.addRecipeToCart(t, "Soup", map[*entities.Ingredient]int{salt: 10})

	document, err := f.service.Build(context.Background(), f.user.ID.String())
	require.NoError(t, err)

	// same (name, unit) across recipes collapses into one summed line
	assert.Equal(t, shoppinglist.Header+"\nSalt - 15 g\n", document)
}

func TestShoppingListService_SameNameDifferentUnitStaysSeparate(t *testing.T) {
	f := setupListFixture(t)

	saltGrams := f.ingredient(t, "Salt", "g")
	saltSpoons := f.ingredient(t, "Salt", "tbsp")
	f.addRecipeToCart(t, "Pancakes", map[*entities.Ingredient]int{saltGrams: 5, saltSpoons: 2})

	document, err := f.service.Build(context.Background(), f.user.ID.String())
	require.NoError(t, err)

	assert.Contains(t, document, "Salt - 5 g")
	assert.Contains(t, document, "Salt - 2 tbsp")
}

func TestShoppingListService_SortedByName(t *testing.T) {
	f := setupListFixture(t)

	flour := f.ingredient(t, "Flour", "g")
	apple := f.ingredient(t, "Apple", "pcs")
	f.addRecipeToCart(t, "Pie", map[*entities.Ingredient]int{flour: 200, apple: 3})

	document, err := f.service.Build(context.Background(), f.user.ID.String())
	require.NoError(t, err)

	assert.Equal(t, shoppinglist.Header+"\nApple - 3 pcs\nFlour - 200 g\n", document)
}

func TestShoppingListService_EmptyCart(t *testing.T) {
	f := setupListFixture(t)

	_, err := f.service.Build(context.Background(), f.user.ID.String())
	assert.ErrorIs(t, err, domain.ErrShoppingCartEmpty)
}
