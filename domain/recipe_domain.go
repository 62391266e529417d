package domain

import (
	"errors"
)

var (
	MessageSuccessGetRecipes   = "success get recipes"
	MessageSuccessGetRecipe    = "success get recipe detail"
	MessageSuccessCreateRecipe = "recipe created successfully"
	MessageSuccessUpdateRecipe = "recipe updated successfully"
	MessageSuccessDeleteRecipe = "recipe deleted successfully"
	MessageSuccessGetShortLink = "success get recipe link"

	MessageFailedGetRecipes   = "failed to get recipes"
	MessageFailedGetRecipe    = "failed to get recipe detail"
	MessageFailedCreateRecipe = "failed to create recipe"
	MessageFailedUpdateRecipe = "failed to update recipe"
	MessageFailedDeleteRecipe = "failed to delete recipe"
	MessageFailedGetShortLink = "failed to get recipe link"

	ErrRecipeNotFound        = errors.New("recipe not found")
	ErrNotRecipeAuthor       = errors.New("only the author may modify this recipe")
	ErrTagsRequired          = errors.New("tags must not be empty")
	ErrTagsDuplicated        = errors.New("tags must be unique")
	ErrIngredientsRequired   = errors.New("ingredients must not be empty")
	ErrIngredientsDuplicated = errors.New("ingredients must be unique")
	ErrAmountOutOfRange      = errors.New("ingredient amount is out of range")
	ErrCookingTimeOutOfRange = errors.New("cooking time is out of range")
	ErrImageRequired         = errors.New("image is required")
)

type (
	RecipeIngredientRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"required"`
	}

	CreateRecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=256"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required"`
		Image       string                    `json:"image" validate:"required"`
		Tags        []string                  `json:"tags" validate:"required"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required"`
	}

	// UpdateRecipeRequest is a partial patch: nil slices and zero scalars mean
	// "leave unchanged"; supplied tag and ingredient sets replace the old ones
	// wholesale.
	UpdateRecipeRequest struct {
		Name        string                    `json:"name"`
		Text        string                    `json:"text"`
		CookingTime int                       `json:"cooking_time"`
		Image       string                    `json:"image"`
		Tags        []string                  `json:"tags"`
		Ingredients []RecipeIngredientRequest `json:"ingredients"`
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID               string                     `json:"id"`
		Author           UserProfile                `json:"author"`
		Tags             []TagResponse              `json:"tags"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		Name             string                     `json:"name"`
		Image            string                     `json:"image,omitempty"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
	}

	// RecipeSummary is the short shape used by collections and subscriptions.
	RecipeSummary struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image,omitempty"`
		CookingTime int    `json:"cooking_time"`
	}

	RecipeFilter struct {
		AuthorID         string
		TagSlugs         []string
		Favorited        bool
		InShoppingCart   bool
		RequestingUserID string
		Page             int
		Limit            int
	}

	ShortLinkResponse struct {
		ShortLink string `json:"short-link"`
	}
)
