package recipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"resepku/domain"
	"resepku/entities"
	"resepku/internal/utils/storage"
	"resepku/pkg/catalog"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID string, userID string) error
		GetRecipeByID(ctx context.Context, recipeID string, requesterID string) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter) ([]domain.RecipeResponse, int64, error)
		GetShortLink(ctx context.Context, recipeID string) (domain.ShortLinkResponse, error)
	}

	recipeService struct {
		recipeRepository  RecipeRepository
		catalogRepository catalog.CatalogRepository
		s3                storage.AwsS3
		appURL            string
	}
)

func NewRecipeService(recipeRepository RecipeRepository, catalogRepository catalog.CatalogRepository, s3 storage.AwsS3, appURL string) RecipeService {
	return &recipeService{
		recipeRepository:  recipeRepository,
		catalogRepository: catalogRepository,
		s3:                s3,
		appURL:            appURL,
	}
}

// parseTagIDs enforces the non-empty, no-duplicates contract and resolves
// every id against the catalog.
func (s *recipeService) parseTagIDs(ctx context.Context, raw []string) ([]uuid.UUID, []entities.Tag, error) {
	if len(raw) == 0 {
		return nil, nil, domain.ErrTagsRequired
	}

	seen := make(map[uuid.UUID]bool, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, nil, domain.ErrTagNotFound
		}
		if seen[id] {
			return nil, nil, domain.ErrTagsDuplicated
		}
		seen[id] = true
		ids = append(ids, id)
	}

	tags, err := s.catalogRepository.GetTagsByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	if len(tags) != len(ids) {
		return nil, nil, domain.ErrTagNotFound
	}

	return ids, tags, nil
}

func (s *recipeService) parseIngredients(ctx context.Context, recipeID uuid.UUID, raw []domain.RecipeIngredientRequest) ([]entities.RecipeIngredient, error) {
	if len(raw) == 0 {
		return nil, domain.ErrIngredientsRequired
	}

	seen := make(map[uuid.UUID]bool, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, entry := range raw {
		if entry.Amount < domain.AmountMin || entry.Amount > domain.AmountMax {
			return nil, domain.ErrAmountOutOfRange
		}
		id, err := uuid.Parse(entry.ID)
		if err != nil {
			return nil, domain.ErrIngredientNotFound
		}
		if seen[id] {
			return nil, domain.ErrIngredientsDuplicated
		}
		seen[id] = true
		ids = append(ids, id)
	}

	resolved, err := s.catalogRepository.GetIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(resolved) != len(ids) {
		return nil, domain.ErrIngredientNotFound
	}

	rows := make([]entities.RecipeIngredient, 0, len(raw))
	for _, entry := range raw {
		rows = append(rows, entities.RecipeIngredient{
			ID:           uuid.New(),
			RecipeID:     recipeID,
			IngredientID: uuid.MustParse(entry.ID),
			Amount:       entry.Amount,
		})
	}
	return rows, nil
}

func (s *recipeService) uploadImage(ctx context.Context, recipeID uuid.UUID, payload string) (string, error) {
	link, err := s.s3.UploadImage(ctx, fmt.Sprintf("recipe-%s", recipeID), "recipes", payload)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidDataURI) {
			return "", domain.ErrInvalidImageFormat
		}
		return "", err
	}
	return link, nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	authorID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	if req.CookingTime < domain.CookingTimeMin || req.CookingTime > domain.CookingTimeMax {
		return domain.RecipeResponse{}, domain.ErrCookingTimeOutOfRange
	}
	if req.Image == "" {
		return domain.RecipeResponse{}, domain.ErrImageRequired
	}

	tagIDs, _, err := s.parseTagIDs(ctx, req.Tags)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipeID := uuid.New()
	ingredients, err := s.parseIngredients(ctx, recipeID, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	imageURL, err := s.uploadImage(ctx, recipeID, req.Image)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		ID:          recipeID,
		AuthorID:    authorID,
		Name:        req.Name,
		ImageURL:    imageURL,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Ingredients: ingredients,
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe, tagIDs); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeByID(ctx, recipeID.String(), userID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	if recipe.AuthorID.String() != userID {
		return domain.RecipeResponse{}, domain.ErrNotRecipeAuthor
	}

	if req.Name != "" {
		recipe.Name = req.Name
	}
	if req.Text != "" {
		recipe.Text = req.Text
	}
	if req.CookingTime != 0 {
		if req.CookingTime < domain.CookingTimeMin || req.CookingTime > domain.CookingTimeMax {
			return domain.RecipeResponse{}, domain.ErrCookingTimeOutOfRange
		}
		recipe.CookingTime = req.CookingTime
	}

	var tagIDs []uuid.UUID
	if req.Tags != nil {
		tagIDs, _, err = s.parseTagIDs(ctx, req.Tags)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	var ingredients []entities.RecipeIngredient
	if req.Ingredients != nil {
		ingredients, err = s.parseIngredients(ctx, recipe.ID, req.Ingredients)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	if req.Image != "" {
		imageURL, err := s.uploadImage(ctx, recipe.ID, req.Image)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		recipe.ImageURL = imageURL
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, ingredients, tagIDs); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeByID(ctx, recipeID, userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID string, userID string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	if recipe.AuthorID.String() != userID {
		return domain.ErrNotRecipeAuthor
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, recipe.ID); err != nil {
		return err
	}

	if recipe.ImageURL != "" {
		if objectKey := s.s3.GetObjectKeyFromLink(recipe.ImageURL); objectKey != "" {
			_ = s.s3.DeleteFile(ctx, objectKey)
		}
	}
	return nil
}

func (s *recipeService) buildResponse(ctx context.Context, recipe *entities.Recipe, requesterID string, favorited, inCart bool) (domain.RecipeResponse, error) {
	author := domain.UserProfile{}
	if recipe.Author != nil {
		author = domain.UserProfile{
			ID:        recipe.Author.ID.String(),
			Email:     recipe.Author.Email,
			Username:  recipe.Author.Username,
			FirstName: recipe.Author.FirstName,
			LastName:  recipe.Author.LastName,
			Avatar:    recipe.Author.AvatarURL,
		}
		if requesterID != "" && requesterID != recipe.AuthorID.String() {
			requesterUUID, err := uuid.Parse(requesterID)
			if err == nil {
				subscribed, err := s.recipeRepository.IsSubscribed(ctx, requesterUUID, recipe.AuthorID)
				if err != nil {
					return domain.RecipeResponse{}, err
				}
				author.IsSubscribed = subscribed
			}
		}
	}

	tags := make([]domain.TagResponse, 0, len(recipe.Tags))
	for _, tag := range recipe.Tags {
		tags = append(tags, domain.TagResponse{
			ID:   tag.ID.String(),
			Name: tag.Name,
			Slug: tag.Slug,
		})
	}

	ingredients := make([]domain.RecipeIngredientResponse, 0, len(recipe.Ingredients))
	for _, row := range recipe.Ingredients {
		entry := domain.RecipeIngredientResponse{
			ID:     row.IngredientID.String(),
			Amount: row.Amount,
		}
		if row.Ingredient != nil {
			entry.Name = row.Ingredient.Name
			entry.MeasurementUnit = row.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, entry)
	}

	return domain.RecipeResponse{
		ID:               recipe.ID.String(),
		Author:           author,
		Tags:             tags,
		Ingredients:      ingredients,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             recipe.Name,
		Image:            recipe.ImageURL,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}, nil
}

func (s *recipeService) GetRecipeByID(ctx context.Context, recipeID string, requesterID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	favorited, inCart := false, false
	if requesterID != "" {
		requesterUUID, err := uuid.Parse(requesterID)
		if err == nil {
			favoritedSet, err := s.recipeRepository.GetFavoritedSet(ctx, requesterUUID, []uuid.UUID{recipe.ID})
			if err != nil {
				return domain.RecipeResponse{}, err
			}
			inCartSet, err := s.recipeRepository.GetInCartSet(ctx, requesterUUID, []uuid.UUID{recipe.ID})
			if err != nil {
				return domain.RecipeResponse{}, err
			}
			favorited = favoritedSet[recipe.ID]
			inCart = inCartSet[recipe.ID]
		}
	}

	return s.buildResponse(ctx, recipe, requesterID, favorited, inCart)
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter) ([]domain.RecipeResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = domain.DefaultPageSize
	}

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	favoritedSet := map[uuid.UUID]bool{}
	inCartSet := map[uuid.UUID]bool{}
	if filter.RequestingUserID != "" && len(recipes) > 0 {
		requesterUUID, err := uuid.Parse(filter.RequestingUserID)
		if err == nil {
			ids := make([]uuid.UUID, 0, len(recipes))
			for _, recipe := range recipes {
				ids = append(ids, recipe.ID)
			}
			if favoritedSet, err = s.recipeRepository.GetFavoritedSet(ctx, requesterUUID, ids); err != nil {
				return nil, 0, err
			}
			if inCartSet, err = s.recipeRepository.GetInCartSet(ctx, requesterUUID, ids); err != nil {
				return nil, 0, err
			}
		}
	}

	response := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		entry, err := s.buildResponse(ctx, recipe, filter.RequestingUserID, favoritedSet[recipe.ID], inCartSet[recipe.ID])
		if err != nil {
			return nil, 0, err
		}
		response = append(response, entry)
	}

	return response, count, nil
}

func (s *recipeService) GetShortLink(ctx context.Context, recipeID string) (domain.ShortLinkResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ShortLinkResponse{}, domain.ErrRecipeNotFound
		}
		return domain.ShortLinkResponse{}, err
	}

	return domain.ShortLinkResponse{
		ShortLink: fmt.Sprintf("%s/api/v1/recipes/%s", s.appURL, recipe.ID),
	}, nil
}
