package shoppinglist

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"resepku/domain"
	"resepku/pkg/collection"
)

// Header is the first line of every generated shopping list document.
const Header = "Список покупок:"

type (
	ShoppingListService interface {
		Build(ctx context.Context, userID string) (string, error)
	}

	shoppingListService struct {
		collectionRepository collection.CollectionRepository
	}

	mergedIngredient struct {
		name   string
		unit   string
		amount int
	}
)

func NewShoppingListService(collectionRepository collection.CollectionRepository) ShoppingListService {
	return &shoppingListService{collectionRepository: collectionRepository}
}

// Build flattens every recipe in the user's cart into one list, merging
// ingredients by (name, measurement unit) and summing their amounts across
// recipes. Output is a plain text document, one ingredient per line.
func (s *shoppingListService) Build(ctx context.Context, userID string) (string, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return "", domain.ErrParseUUID
	}

	entries, err := s.collectionRepository.GetCartEntries(ctx, userUUID)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", domain.ErrShoppingCartEmpty
	}

	merged := make(map[string]*mergedIngredient)
	for _, entry := range entries {
		if entry.Recipe == nil {
			continue
		}
		for _, row := range entry.Recipe.Ingredients {
			if row.Ingredient == nil {
				continue
			}
			key := row.Ingredient.Name + "\x00" + row.Ingredient.MeasurementUnit
			if existing, ok := merged[key]; ok {
				existing.amount += row.Amount
				continue
			}
			merged[key] = &mergedIngredient{
				name:   row.Ingredient.Name,
				unit:   row.Ingredient.MeasurementUnit,
				amount: row.Amount,
			}
		}
	}

	lines := make([]*mergedIngredient, 0, len(merged))
	for _, ingredient := range merged {
		lines = append(lines, ingredient)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].name < lines[j].name })

	var builder strings.Builder
	builder.WriteString(Header)
	for _, ingredient := range lines {
		builder.WriteString(fmt.Sprintf("\n%s - %d %s", ingredient.name, ingredient.amount, ingredient.unit))
	}
	builder.WriteString("\n")

	return builder.String(), nil
}
