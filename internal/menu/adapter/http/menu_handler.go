package http

import (
	"bytes"
	"encoding/json"

	"menu-portal/internal/menu/domain/model"
	"menu-portal/internal/menu/usecase"
	"menu-portal/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
)

// ErrMsgItemsNotArray is returned when the POST body has no items array
const ErrMsgItemsNotArray = "Invalid request: items must be an array"

type saveMenuItemsRequest struct {
	Items json.RawMessage `json:"items"`
}

type listMenuItemsResponse struct {
	Items   []model.MenuItem `json:"items"`
	Warning string           `json:"warning,omitempty"`
}

type saveMenuItemsResponse struct {
	Success bool             `json:"success"`
	Items   []model.MenuItem `json:"items"`
}

// GetMenuItems returns the stored collection, or the defaults with an optional warning
func (h *HTTPHandler) GetMenuItems(c *fiber.Ctx) error {
	result := h.MenuUC.ListMenuItems(c.UserContext())

	items := result.Items
	if items == nil {
		items = []model.MenuItem{}
	}
	return c.JSON(listMenuItemsResponse{Items: items, Warning: result.Warning})
}

// SaveMenuItems replaces the whole collection with the items in the request body
func (h *HTTPHandler) SaveMenuItems(c *fiber.Ctx) error {
	log := h.Log.WithContext(c.UserContext())

	var req saveMenuItemsRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		log.Debugf("Failed to parse request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrMsgItemsNotArray})
	}

	raw := bytes.TrimSpace(req.Items)
	if len(raw) == 0 || raw[0] != '[' {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrMsgItemsNotArray})
	}

	items := make([]model.MenuItem, 0)
	if err := json.Unmarshal(raw, &items); err != nil {
		// an element that cannot be decoded into an item is a structural failure
		log.Debugf("Failed to decode menu items: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": usecase.ErrMsgInvalidItem})
	}

	saved, err := h.MenuUC.SaveMenuItems(c.UserContext(), items)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(saveMenuItemsResponse{Success: true, Items: saved})
}

func (h *HTTPHandler) writeError(c *fiber.Ctx, err error) error {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		h.Log.WithContext(c.UserContext()).Errorf("Unexpected error saving menu items: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": usecase.ErrMsgSaveFailed})
	}

	log := h.Log.WithContext(c.UserContext())
	switch {
	case errors.IsValidation(appErr):
		log.Debugf("Rejected menu items: %v", appErr)
	case errors.IsConfiguration(appErr), errors.IsAvailability(appErr):
		log.Warnf("Menu store cannot accept writes: %v", appErr)
	default:
		log.Errorf("Failed to save menu items: %v", appErr)
	}

	body := fiber.Map{"error": appErr.Message}
	if items, ok := appErr.Details[usecase.DetailItems]; ok {
		body["items"] = items
	}
	return c.Status(appErr.HTTPCode).JSON(body)
}
