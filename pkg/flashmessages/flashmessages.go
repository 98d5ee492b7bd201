package flashmessages

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	FlashSuccessKey = "flash_success"
	FlashErrorKey   = "flash_error"
)

// FlashData carrega as mensagens de um redirect para a próxima renderização.
type FlashData struct {
	Success string
	Error   string
}

func store(c *fiber.Ctx) *session.Store {
	s, _ := c.Locals("session_store").(*session.Store)
	return s
}

// SetFlashMessage grava uma mensagem one-shot na sessão.
func SetFlashMessage(c *fiber.Ctx, key, message string) error {
	st := store(c)
	if st == nil {
		return nil
	}
	sess, err := st.Get(c)
	if err != nil {
		return err
	}
	sess.Set(key, message)
	return sess.Save()
}

// GetFlashMessages lê e remove as mensagens pendentes.
func GetFlashMessages(c *fiber.Ctx) (FlashData, error) {
	var data FlashData
	st := store(c)
	if st == nil {
		return data, nil
	}
	sess, err := st.Get(c)
	if err != nil {
		return data, err
	}
	if v, ok := sess.Get(FlashSuccessKey).(string); ok {
		data.Success = v
		sess.Delete(FlashSuccessKey)
	}
	if v, ok := sess.Get(FlashErrorKey).(string); ok {
		data.Error = v
		sess.Delete(FlashErrorKey)
	}
	return data, sess.Save()
}
