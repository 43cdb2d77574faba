package testutil

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/paularynty/climaxlog/internal/config"
	model "github.com/paularynty/climaxlog/internal/db"
	"github.com/paularynty/climaxlog/internal/dependency"
	"github.com/paularynty/climaxlog/internal/enum"
)

const TestPassword = "pass123"

func NewTestConfig() *config.Config {
	return &config.Config{
		GinMode:                         "test",
		JwtSecret:                       "test-secret",
		UserTokenExpiry:                 3600,
		UserTokenAbsoluteExpiry:         2592000,
		RedisURL:                        "",
		IsRedisEnabled:                  false,
		FrontendUrls:                    []string{"http://localhost:5173"},
		DefaultTimezone:                 "UTC",
		OnlineWindowInSec:               120,
		FeedDefaultLimit:                50,
		RateLimiterDurationInSec:        60,
		RateLimiterRequestLimit:         1000,
		RateLimiterCleanupIntervalInSec: 300,
	}
}

func NewTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func NewTestDependency(cfg *config.Config, db *gorm.DB, redis *redis.Client, logger *slog.Logger) *dependency.Dependency {
	if cfg == nil {
		cfg = NewTestConfig()
	}
	if logger == nil {
		logger = NewTestLogger()
	}
	if redis != nil {
		cfg.IsRedisEnabled = true
		if cfg.RedisURL == "" {
			cfg.RedisURL = "redis://test"
		}
	}
	return dependency.NewDependency(cfg, db, redis, logger)
}

// NewTestDB opens a private in-memory sqlite database named after the test.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Sanitize test name for use as DB identifier
	dbName := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared&_busy_timeout=5000&_foreign_keys=on"

	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	db.Exec("PRAGMA foreign_keys = ON")

	if err := model.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	t.Cleanup(func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func NewTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	return client, mr
}

// NewTestDependencyWithDB wires a fresh sqlite database, and redis when withRedis is set.
func NewTestDependencyWithDB(t *testing.T, withRedis bool) *dependency.Dependency {
	t.Helper()

	db := NewTestDB(t)
	if !withRedis {
		return NewTestDependency(nil, db, nil, nil)
	}

	client, _ := NewTestRedis(t)
	return NewTestDependency(nil, db, client, nil)
}

// NewMiddlewareTestRouter mounts handlers in front of a 200 OK route at /middleware-test.
func NewMiddlewareTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(handlers...)
	r.Any("/middleware-test", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	return r
}

func CreateUser(t *testing.T, db *gorm.DB, username string) model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := model.User{
		Username:            username,
		PasswordHash:        string(hash),
		FirstDayOfWeek:      1,
		DefaultProfileChart: string(enum.ChartDailyHeatmap),
	}
	if err := gorm.G[model.User](db).Create(context.Background(), &user); err != nil {
		t.Fatalf("failed to create user, err: %v", err)
	}

	return user
}

func UpdateUser(t *testing.T, db *gorm.DB, userID uint, fields map[string]any) {
	t.Helper()

	if err := db.Model(&model.User{}).Where("id = ?", userID).Updates(fields).Error; err != nil {
		t.Fatalf("failed to update user, err: %v", err)
	}
}

func CreateOrgasm(t *testing.T, db *gorm.DB, userID uint, ts time.Time, orgasmType, partner string) model.Orgasm {
	t.Helper()

	ts = ts.UTC()
	orgasm := model.Orgasm{
		UserID:    userID,
		Timestamp: &ts,
		Type:      orgasmType,
		Partner:   partner,
	}
	if err := gorm.G[model.Orgasm](db).Create(context.Background(), &orgasm); err != nil {
		t.Fatalf("failed to create orgasm, err: %v", err)
	}

	return orgasm
}

func CreateSession(t *testing.T, db *gorm.DB, userID uint, start time.Time, end *time.Time) model.ChastitySession {
	t.Helper()

	session := model.ChastitySession{
		UserID:    userID,
		StartTime: start.UTC(),
	}
	if end != nil {
		utcEnd := end.UTC()
		session.EndTime = &utcEnd
	}
	if err := gorm.G[model.ChastitySession](db).Create(context.Background(), &session); err != nil {
		t.Fatalf("failed to create session, err: %v", err)
	}

	return session
}

func CreateFollow(t *testing.T, db *gorm.DB, followerID, followingID uint) {
	t.Helper()

	follow := model.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := gorm.G[model.Follow](db).Create(context.Background(), &follow); err != nil {
		t.Fatalf("failed to create follow, err: %v", err)
	}
}
