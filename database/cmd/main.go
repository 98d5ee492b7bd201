package main

import (
	"flag"

	"celulas.app/configs"
	"celulas.app/configs/configslog"
	"celulas.app/database"
)

func main() {
	configs.LoadEnv()
	configslog.InitLogger()
	defer configslog.SyncLogger()

	migrateFlag := flag.Bool("migrate", false, "Executa as migrações do banco de dados")
	seedFlag := flag.Bool("seed", false, "Executa os seeders do banco de dados")
	flag.Parse()

	configs.InitDB()
	defer configs.CloseDB()

	db := configs.GetDB()

	configslog.SLog.Info("Executando inicialização do banco de dados...")
	database.Initialize(db, *migrateFlag, *seedFlag)

	configslog.SLog.Info("Inicialização do banco de dados finalizada.")
}
