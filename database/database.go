package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"financeirox/config"
	"financeirox/logger"
	"financeirox/models"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Dialector escolhe o driver gorm a partir de database.driver
func Dialector(cfg config.DatabaseConfig, timezone string) (gorm.Dialector, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "mysql":
		dsn := cfg.DSN
		if dsn == "" {
			charset := cfg.Charset
			if charset == "" {
				charset = "utf8mb4"
			}
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
				cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, charset)
		}
		return gormmysql.Open(dsn), nil
	case "postgres", "postgresql":
		dsn := cfg.DSN
		if dsn == "" {
			sslmode := cfg.SSLMode
			if sslmode == "" {
				sslmode = "disable"
			}
			dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
				cfg.Host, cfg.Username, cfg.Password, cfg.DBName, cfg.Port, sslmode, timezone)
		}
		return postgres.Open(dsn), nil
	}
	return nil, fmt.Errorf("driver de banco não suportado: %q", cfg.Driver)
}

// Init abre a conexão, configura o pool e migra as tabelas
func Init(cfg *config.Config) error {
	dialector, err := Dialector(cfg.Database, cfg.Server.Timezone)
	if err != nil {
		return err
	}

	level := gormlogger.Warn
	if cfg.Server.Mode == "debug" {
		level = gormlogger.Info
	}
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return fmt.Errorf("falha ao conectar no banco: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	maxIdle, maxOpen := cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns
	if maxIdle <= 0 {
		maxIdle = 10
	}
	if maxOpen <= 0 {
		maxOpen = 100
	}
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)

	if err := Migrate(DB); err != nil {
		return fmt.Errorf("falha na migração: %w", err)
	}

	logger.Log.WithField("driver", cfg.Database.Driver).Info("banco de dados inicializado")
	return nil
}

// Migrate cria/atualiza as tabelas
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Transaction{},
		&models.IncomeSource{},
		&models.ExpenseCategory{},
	)
}

// SeedUserDefaults cria as fontes e categorias padrão de um usuário novo.
// Nomes já existentes são ignorados.
func SeedUserDefaults(db *gorm.DB, email string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		sources := models.DefaultIncomeSources(email)
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&sources).Error; err != nil {
			return fmt.Errorf("fontes padrão: %w", err)
		}
		categories := models.DefaultExpenseCategories(email)
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&categories).Error; err != nil {
			return fmt.Errorf("categorias padrão: %w", err)
		}
		return nil
	})
}

// IsDuplicateKey violação de unicidade no MySQL (1062) ou PostgreSQL (23505)
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// Ping verifica a conexão (usado por /api/db-health)
func Ping(ctx context.Context) error {
	if DB == nil {
		return errors.New("banco não inicializado")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close fecha o pool no shutdown
func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
