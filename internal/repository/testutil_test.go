package repository

import (
	"context"
	"testing"

	"yatube/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupDB 每个测试一个独立的内存库，外键约束打开，
// 这样 SET NULL / CHECK 这类存储层约束在测试里也生效
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	)
	if err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating user %s: %v", username, err)
	}
	return user
}

func createGroup(t *testing.T, db *gorm.DB, title, slug string) *models.Group {
	t.Helper()

	group := &models.Group{Title: title, Slug: slug, Description: title}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed creating group %s: %v", slug, err)
	}
	return group
}

func createPost(t *testing.T, db *gorm.DB, author *models.User, text string, groupID *uint) *models.Post {
	t.Helper()

	post := &models.Post{Text: text, AuthorID: author.ID, GroupID: groupID}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed creating post: %v", err)
	}
	return post
}

func ctxb() context.Context { return context.Background() }
