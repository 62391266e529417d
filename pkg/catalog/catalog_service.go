package catalog

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"resepku/domain"
	"resepku/entities"
	"resepku/internal/utils/cache"
)

const (
	cacheKeyTags        = "catalog:tags"
	cacheKeyIngredients = "catalog:ingredients"
	cacheTTL            = 15 * time.Minute
)

type (
	CatalogService interface {
		GetTags(ctx context.Context) ([]domain.TagResponse, error)
		GetTagByID(ctx context.Context, id string) (domain.TagResponse, error)
		GetIngredients(ctx context.Context, namePrefix string) ([]domain.IngredientResponse, error)
		GetIngredientByID(ctx context.Context, id string) (domain.IngredientResponse, error)
	}

	catalogService struct {
		catalogRepository CatalogRepository
		cache             cache.Store
	}
)

func NewCatalogService(catalogRepository CatalogRepository, cacheStore cache.Store) CatalogService {
	return &catalogService{
		catalogRepository: catalogRepository,
		cache:             cacheStore,
	}
}

func tagResponse(tag entities.Tag) domain.TagResponse {
	return domain.TagResponse{
		ID:   tag.ID.String(),
		Name: tag.Name,
		Slug: tag.Slug,
	}
}

func ingredientResponse(ingredient entities.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:              ingredient.ID.String(),
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}
}

func (s *catalogService) GetTags(ctx context.Context) ([]domain.TagResponse, error) {
	var cached []domain.TagResponse
	if s.cache.Get(ctx, cacheKeyTags, &cached) {
		return cached, nil
	}

	tags, err := s.catalogRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	response := make([]domain.TagResponse, 0, len(tags))
	for _, tag := range tags {
		response = append(response, tagResponse(tag))
	}

	s.cache.Set(ctx, cacheKeyTags, response, cacheTTL)
	return response, nil
}

func (s *catalogService) GetTagByID(ctx context.Context, id string) (domain.TagResponse, error) {
	tag, err := s.catalogRepository.GetTagByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.TagResponse{}, domain.ErrTagNotFound
		}
		return domain.TagResponse{}, err
	}
	return tagResponse(*tag), nil
}

func (s *catalogService) GetIngredients(ctx context.Context, namePrefix string) ([]domain.IngredientResponse, error) {
	// only the unfiltered list is worth caching
	if namePrefix == "" {
		var cached []domain.IngredientResponse
		if s.cache.Get(ctx, cacheKeyIngredients, &cached) {
			return cached, nil
		}
	}

	ingredients, err := s.catalogRepository.GetIngredients(ctx, namePrefix)
	if err != nil {
		return nil, err
	}

	response := make([]domain.IngredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		response = append(response, ingredientResponse(ingredient))
	}

	if namePrefix == "" {
		s.cache.Set(ctx, cacheKeyIngredients, response, cacheTTL)
	}
	return response, nil
}

func (s *catalogService) GetIngredientByID(ctx context.Context, id string) (domain.IngredientResponse, error) {
	ingredient, err := s.catalogRepository.GetIngredientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.IngredientResponse{}, domain.ErrIngredientNotFound
		}
		return domain.IngredientResponse{}, err
	}
	return ingredientResponse(*ingredient), nil
}
