package collection

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"resepku/entities"
)

type (
	CollectionRepository interface {
		GetRecipe(ctx context.Context, recipeID string) (*entities.Recipe, error)
		IsFavorited(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
		AddFavorite(ctx context.Context, favorite *entities.Favorite) error
		RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) (int64, error)
		IsInCart(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
		AddToCart(ctx context.Context, entry *entities.ShoppingCart) error
		RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) (int64, error)
		GetCartEntries(ctx context.Context, userID uuid.UUID) ([]entities.ShoppingCart, error)
	}

	collectionRepository struct {
		db *gorm.DB
	}
)

func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) GetRecipe(ctx context.Context, recipeID string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", recipeID).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *collectionRepository) IsFavorited(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *collectionRepository) AddFavorite(ctx context.Context, favorite *entities.Favorite) error {
	return r.db.WithContext(ctx).Create(favorite).Error
}

func (r *collectionRepository) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.Favorite{})
	return result.RowsAffected, result.Error
}

func (r *collectionRepository) IsInCart(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.ShoppingCart{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *collectionRepository) AddToCart(ctx context.Context, entry *entities.ShoppingCart) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *collectionRepository) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.ShoppingCart{})
	return result.RowsAffected, result.Error
}

func (r *collectionRepository) GetCartEntries(ctx context.Context, userID uuid.UUID) ([]entities.ShoppingCart, error) {
	var entries []entities.ShoppingCart
	if err := r.db.WithContext(ctx).
		Preload("Recipe.Ingredients.Ingredient").
		Where("user_id = ?", userID).
		Order("added_at").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
