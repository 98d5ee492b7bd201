package main

import (
	"celulas.app/configs"
	"celulas.app/configs/configslog"
	"celulas.app/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"
)

func main() {
	configs.LoadEnv()
	configslog.InitLogger()
	defer configslog.SyncLogger()

	configs.InitDB()
	defer configs.CloseDB()

	engine := html.New("./views", ".html")

	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "layouts/painel_layout",
		// Comprovantes de pagamento chegam por multipart; 10 MB cobre o
		// limite de 5 MB por arquivo com folga para o restante do form.
		BodyLimit: 10 * 1024 * 1024,
	})

	routes.SetupRoutes(app)

	addr := ":" + configs.Env("APP_PORT", "3000")
	configslog.SLog.Infof("Servidor escutando em %s", addr)
	if err := app.Listen(addr); err != nil {
		configslog.Log.Fatal("Servidor encerrou com erro", zap.Error(err))
	}
}
