package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"rheuma-portal/internal/repositories"
	"rheuma-portal/migrations"
	"rheuma-portal/pkg/config"
	"rheuma-portal/pkg/database/postgresql"
	applogger "rheuma-portal/pkg/logger"
	"rheuma-portal/seeders"
)

func main() {
	runMigrate := flag.Bool("migrate", false, "Применить миграции перед наполнением")
	runAdmin := flag.Bool("admin", false, "Создать первого администратора (SEED_ADMIN_*)")
	flag.Parse()

	if !*runMigrate && !*runAdmin {
		log.Println("Не выбран ни один сидер для запуска.")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("Пример: go run ./seeders/cmd/seed -migrate -admin")
		return
	}

	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, "")
	defer logger.Sync()

	dbPool, err := postgresql.ConnectDB(cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal("Не удалось подключиться к БД", zap.Error(err))
	}
	defer dbPool.Close()

	if *runMigrate {
		if err := migrations.Up(dbPool); err != nil {
			logger.Fatal("Ошибка миграций", zap.Error(err))
		}
	}

	if *runAdmin {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		users := repositories.NewUserRepository(dbPool, logger)
		if _, err := seeders.SeedAdmin(ctx, users, cfg.Seeder, logger); err != nil {
			logger.Fatal("Ошибка создания администратора", zap.Error(err))
		}
	}

	logger.Info("Все указанные операции сидирования завершены")
}
