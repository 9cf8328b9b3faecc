package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cookonomics/internal/model"
	"cookonomics/internal/service"
)

// ItemHandler handles item endpoints. Every route requires a current user.
type ItemHandler struct {
	itemService service.ItemService
}

// NewItemHandler creates a new item handler.
func NewItemHandler(itemService service.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// CreateItem godoc
// @Summary Create an item owned by the caller
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.NewItem true "Item fields"
// @Success 201 {object} model.Item
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /items [post]
func (h *ItemHandler) CreateItem(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var input model.NewItem
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	item, err := h.itemService.Create(c.Request().Context(), input, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// ListItems godoc
// @Summary List the caller's items
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Offset" default(0)
// @Param limit query int false "Page size" default(100)
// @Success 200 {array} model.Item
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /items [get]
func (h *ItemHandler) ListItems(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	skip, limit, err := pagination(c)
	if err != nil {
		return err
	}

	items, err := h.itemService.ListForUser(c.Request().Context(), user.ID, skip, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// GetItem godoc
// @Summary Get an item
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Success 200 {object} model.Item
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /items/{id} [get]
func (h *ItemHandler) GetItem(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	item, err := h.itemService.GetOwned(c.Request().Context(), id, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// UpdateItem godoc
// @Summary Partially update an item
// @Tags items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Param request body model.ItemPatch true "Fields to change"
// @Success 200 {object} model.Item
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /items/{id} [put]
func (h *ItemHandler) UpdateItem(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var patch model.ItemPatch
	if err := bindAndValidate(c, &patch); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.itemService.GetOwned(ctx, id, user.ID); err != nil {
		return err
	}
	item, err := h.itemService.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteItem godoc
// @Summary Delete an item
// @Tags items
// @Produce json
// @Security BearerAuth
// @Param id path int true "Item ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /items/{id} [delete]
func (h *ItemHandler) DeleteItem(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.itemService.GetOwned(ctx, id, user.ID); err != nil {
		return err
	}
	if err := h.itemService.Delete(ctx, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Item deleted successfully"})
}
