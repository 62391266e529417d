package collection

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"resepku/domain"
	"resepku/entities"
)

type (
	CollectionService interface {
		Add(ctx context.Context, userID, recipeID string, kind domain.CollectionKind) (domain.RecipeSummary, error)
		Remove(ctx context.Context, userID, recipeID string, kind domain.CollectionKind) error
	}

	collectionService struct {
		collectionRepository CollectionRepository
	}
)

func NewCollectionService(collectionRepository CollectionRepository) CollectionService {
	return &collectionService{collectionRepository: collectionRepository}
}

func recipeSummary(recipe *entities.Recipe) domain.RecipeSummary {
	return domain.RecipeSummary{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}

// Add inserts a (user, recipe) membership row after an explicit existence
// check; a duplicate add is a conflict, not a silent no-op. The unique index
// on the pair backs the check against concurrent duplicates.
func (s *collectionService) Add(ctx context.Context, userID, recipeID string, kind domain.CollectionKind) (domain.RecipeSummary, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeSummary{}, domain.ErrParseUUID
	}

	recipe, err := s.collectionRepository.GetRecipe(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeSummary{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeSummary{}, err
	}

	switch kind {
	case domain.KindFavorite:
		exists, err := s.collectionRepository.IsFavorited(ctx, userUUID, recipe.ID)
		if err != nil {
			return domain.RecipeSummary{}, err
		}
		if exists {
			return domain.RecipeSummary{}, domain.ErrAlreadyFavorited
		}
		favorite := &entities.Favorite{
			ID:       uuid.New(),
			UserID:   userUUID,
			RecipeID: recipe.ID,
		}
		if err := s.collectionRepository.AddFavorite(ctx, favorite); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.RecipeSummary{}, domain.ErrAlreadyFavorited
			}
			return domain.RecipeSummary{}, err
		}
	case domain.KindShoppingCart:
		exists, err := s.collectionRepository.IsInCart(ctx, userUUID, recipe.ID)
		if err != nil {
			return domain.RecipeSummary{}, err
		}
		if exists {
			return domain.RecipeSummary{}, domain.ErrAlreadyInCart
		}
		entry := &entities.ShoppingCart{
			ID:       uuid.New(),
			UserID:   userUUID,
			RecipeID: recipe.ID,
			AddedAt:  time.Now(),
		}
		if err := s.collectionRepository.AddToCart(ctx, entry); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.RecipeSummary{}, domain.ErrAlreadyInCart
			}
			return domain.RecipeSummary{}, err
		}
	}

	return recipeSummary(recipe), nil
}

func (s *collectionService) Remove(ctx context.Context, userID, recipeID string, kind domain.CollectionKind) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	recipeUUID, err := uuid.Parse(recipeID)
	if err != nil {
		return domain.ErrRecipeNotFound
	}

	switch kind {
	case domain.KindFavorite:
		affected, err := s.collectionRepository.RemoveFavorite(ctx, userUUID, recipeUUID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrNotFavorited
		}
	case domain.KindShoppingCart:
		affected, err := s.collectionRepository.RemoveFromCart(ctx, userUUID, recipeUUID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrNotInCart
		}
	}

	return nil
}
