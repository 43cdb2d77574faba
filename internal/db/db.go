package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const mysqlScheme = "mysql://"

// openDialector picks mysql for a mysql:// DSN and sqlite for anything else.
func openDialector(dbAddress string) (gorm.Dialector, bool) {
	if strings.HasPrefix(dbAddress, mysqlScheme) {
		return mysql.Open(strings.TrimPrefix(dbAddress, mysqlScheme)), false
	}
	return sqlite.Open(sqliteDSN(dbAddress)), true
}

// sqliteDSN turns on foreign keys in the DSN. The pragma is per connection,
// so it has to apply to every connection the pool opens.
func sqliteDSN(dbAddress string) string {
	if strings.Contains(dbAddress, "_foreign_keys=") || strings.Contains(dbAddress, "_fk=") {
		return dbAddress
	}
	if strings.Contains(dbAddress, "?") {
		return dbAddress + "&_foreign_keys=on"
	}
	return dbAddress + "?_foreign_keys=on"
}

// checkForeignKeys fails when the connection it lands on has foreign keys off.
func checkForeignKeys(myDB *gorm.DB) error {
	var enabled int
	if err := myDB.Raw("PRAGMA foreign_keys").Scan(&enabled).Error; err != nil {
		return fmt.Errorf("failed to read foreign_keys pragma: %w", err)
	}
	if enabled != 1 {
		return fmt.Errorf("sqlite foreign keys are disabled")
	}
	return nil
}

func GetDB(dbAddress string, logger *slog.Logger) (*gorm.DB, error) {
	dialector, isSqlite := openDialector(dbAddress)

	myDB, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	if isSqlite {
		if err := checkForeignKeys(myDB); err != nil {
			return nil, err
		}
	}

	if err := Migrate(myDB); err != nil {
		return nil, err
	}

	logger.Info("connected to db", "sqlite", isSqlite)
	return myDB, nil
}

func Migrate(myDB *gorm.DB) error {
	for _, model := range Models() {
		if err := myDB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model: %w", err)
		}
	}
	return nil
}

func CloseDB(myDB *gorm.DB, logger *slog.Logger) {
	if myDB == nil {
		return
	}

	sqlDB, err := myDB.DB()
	if err != nil {
		logger.Error("failed to get db instance", "err", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("failed to close db", "err", err)
		return
	}

	logger.Info("db connection closed")
}

// ResetDB empties every table, children first.
func ResetDB(ctx context.Context, myDB *gorm.DB, logger *slog.Logger) error {
	logger.Warn("resetting db...")

	tables := []string{
		"tokens",
		"dashboard_charts",
		"follows",
		"chastity_sessions",
		"orgasms",
		"users",
	}

	for _, table := range tables {
		if err := gorm.G[any](myDB).Exec(ctx, "DELETE FROM "+table); err != nil {
			logger.Error("failed to reset table", "table", table, "err", err)
			return err
		}
	}

	logger.Info("db is reset")
	return nil
}
