package handlers

import (
	"github.com/gofiber/fiber/v2"

	"resepku/domain"
	"resepku/internal/api/presenters"
	"resepku/pkg/collection"
	"resepku/pkg/shoppinglist"
)

type (
	CollectionHandler interface {
		AddFavorite(c *fiber.Ctx) error
		RemoveFavorite(c *fiber.Ctx) error
		AddToCart(c *fiber.Ctx) error
		RemoveFromCart(c *fiber.Ctx) error
		DownloadShoppingCart(c *fiber.Ctx) error
	}

	collectionHandler struct {
		collectionService   collection.CollectionService
		shoppingListService shoppinglist.ShoppingListService
	}
)

func NewCollectionHandler(collectionService collection.CollectionService, shoppingListService shoppinglist.ShoppingListService) CollectionHandler {
	return &collectionHandler{
		collectionService:   collectionService,
		shoppingListService: shoppingListService,
	}
}

func (h *collectionHandler) AddFavorite(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.collectionService.Add(c.Context(), userID, c.Params("id"), domain.KindFavorite)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedAddFavorite, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddFavorite)
}

func (h *collectionHandler) RemoveFavorite(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.collectionService.Remove(c.Context(), userID, c.Params("id"), domain.KindFavorite); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedRemoveFavorite, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRemoveFavorite)
}

func (h *collectionHandler) AddToCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.collectionService.Add(c.Context(), userID, c.Params("id"), domain.KindShoppingCart)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedAddToCart, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddToCart)
}

func (h *collectionHandler) RemoveFromCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.collectionService.Remove(c.Context(), userID, c.Params("id"), domain.KindShoppingCart); err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedRemoveFromCart, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRemoveFromCart)
}

// DownloadShoppingCart serves the merged shopping list as a plain text
// attachment.
func (h *collectionHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	document, err := h.shoppingListService.Build(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, errorStatus(err), domain.MessageFailedDownloadShopping, err)
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="shopping_list.txt"`)
	return c.SendString(document)
}
