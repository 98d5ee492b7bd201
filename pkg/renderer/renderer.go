package renderer

import (
	"celulas.app/pkg/flashmessages"

	"github.com/gofiber/fiber/v2"
)

const (
	FlashSuccessKeyView = "FlashSuccess"
	FlashErrorKeyView   = "FlashError"
)

// SetFlashMessages injeta as mensagens one-shot nos dados da view.
func SetFlashMessages(data fiber.Map, flash flashmessages.FlashData) {
	if flash.Success != "" {
		data[FlashSuccessKeyView] = flash.Success
	}
	if flash.Error != "" {
		data[FlashErrorKeyView] = flash.Error
	}
}

// Render renderiza view+layout com os locals de sessão já propagados.
func Render(c *fiber.Ctx, view, layout string, data fiber.Map, status ...int) error {
	if data == nil {
		data = fiber.Map{}
	}
	if _, ok := data["UserName"]; !ok {
		if name, okL := c.Locals("userName").(string); okL {
			data["UserName"] = name
		}
	}
	if _, ok := data["IsAdmin"]; !ok {
		if isAdmin, okL := c.Locals("isAdmin").(bool); okL {
			data["IsAdmin"] = isAdmin
		}
	}
	code := fiber.StatusOK
	if len(status) > 0 {
		code = status[0]
	}
	return c.Status(code).Render(view, data, layout)
}
