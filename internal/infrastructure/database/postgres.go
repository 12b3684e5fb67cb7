package database

import (
	"fmt"

	"github.com/shopbill/shopbill-api/internal/config"
	"github.com/shopbill/shopbill-api/internal/domain/entity"
	applog "github.com/shopbill/shopbill-api/pkg/logger"
	"github.com/shopbill/shopbill-api/pkg/utils"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	applog.Get().Info("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log := applog.Get()
	log.Info("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.Shop{},
		&entity.Invoice{},
		&entity.InvoiceItem{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations completed successfully")
	return nil
}

// SeedDefaultData creates the superuser account and a default shop when
// configured via ADMIN_LOGIN / ADMIN_PASSWORD environment variables.
func SeedDefaultData(db *gorm.DB) error {
	log := applog.Get()

	adminLogin := viper.GetString("ADMIN_LOGIN")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	if adminLogin == "" || adminPassword == "" {
		return nil
	}

	var existing entity.User
	if err := db.Where("login = ?", adminLogin).First(&existing).Error; err == nil {
		log.WithField("login", adminLogin).Info("Superuser already exists")
		return nil
	}

	hashed, err := utils.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := entity.User{
		Login:       adminLogin,
		Password:    hashed,
		IsActive:    true,
		IsSuperuser: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create superuser: %w", err)
	}

	shopName := viper.GetString("DEFAULT_SHOP_NAME")
	if shopName != "" {
		shop := entity.Shop{Name: shopName}
		if err := db.Create(&shop).Error; err != nil {
			log.WithError(err).Warn("Failed to create default shop")
			return nil
		}
		if err := db.Exec("INSERT INTO user_shops (user_id, shop_id) VALUES (?, ?)", admin.ID, shop.ID).Error; err != nil {
			log.WithError(err).Warn("Failed to enroll superuser in default shop")
		}
	}

	log.WithField("login", adminLogin).Info("Superuser created")
	return nil
}
