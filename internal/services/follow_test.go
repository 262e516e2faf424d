package services

import (
	"context"
	"errors"
	"testing"

	"yatube/internal/models"
	"yatube/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupFollowService(t *testing.T) (*FollowService, *gorm.DB) {
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

	if err := db.AutoMigrate(&models.User{}, &models.Follow{}); err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	service := NewFollowService(
		repository.NewUserRepository(db),
		repository.NewFollowRepository(db),
	)
	return service, db
}

func newUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{Username: username, Email: username + "@example.com", Password: "hashed"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating user %s: %v", username, err)
	}
	return user
}

func followCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	db.Model(&models.Follow{}).Count(&count)
	return count
}

func TestFollowIdempotent(t *testing.T) {
	service, db := setupFollowService(t)
	ctx := context.Background()

	user := newUser(t, db, "reader")
	newUser(t, db, "writer")

	if err := service.Follow(ctx, user, "writer"); err != nil {
		t.Fatalf("first follow failed: %v", err)
	}
	if err := service.Follow(ctx, user, "writer"); err != nil {
		t.Fatalf("repeated follow should succeed silently: %v", err)
	}
	if count := followCount(t, db); count != 1 {
		t.Errorf("expected exactly 1 follow row, got %d", count)
	}
}

func TestFollowSelfIsNoOp(t *testing.T) {
	service, db := setupFollowService(t)
	ctx := context.Background()

	user := newUser(t, db, "narcissus")

	// 自己关注自己静默忽略，不报错也不落库
	if err := service.Follow(ctx, user, "narcissus"); err != nil {
		t.Fatalf("self-follow should be a no-op, got: %v", err)
	}
	if count := followCount(t, db); count != 0 {
		t.Errorf("self-follow must not create a row, got %d", count)
	}
}

func TestFollowUnknownAuthor(t *testing.T) {
	service, db := setupFollowService(t)
	ctx := context.Background()

	user := newUser(t, db, "reader")

	err := service.Follow(ctx, user, "ghost")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := service.Unfollow(ctx, user, "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUnfollow(t *testing.T) {
	service, db := setupFollowService(t)
	ctx := context.Background()

	user := newUser(t, db, "reader")
	newUser(t, db, "writer")

	// 本就没关注：内部区分为 ErrNotFollowing，由 handler 决定呈现
	if err := service.Unfollow(ctx, user, "writer"); !errors.Is(err, ErrNotFollowing) {
		t.Errorf("expected ErrNotFollowing, got %v", err)
	}

	if err := service.Follow(ctx, user, "writer"); err != nil {
		t.Fatalf("follow failed: %v", err)
	}
	if err := service.Unfollow(ctx, user, "writer"); err != nil {
		t.Fatalf("unfollow failed: %v", err)
	}
	if count := followCount(t, db); count != 0 {
		t.Errorf("expected 0 follow rows after unfollow, got %d", count)
	}
}

func TestIsFollowing(t *testing.T) {
	service, db := setupFollowService(t)
	ctx := context.Background()

	viewer := newUser(t, db, "viewer")
	author := newUser(t, db, "author")

	// 未登录恒为 false
	following, err := service.IsFollowing(ctx, nil, author.ID)
	if err != nil || following {
		t.Errorf("IsFollowing(nil viewer) = %v (%v), want false", following, err)
	}

	// 看自己的主页恒为 false
	following, err = service.IsFollowing(ctx, author, author.ID)
	if err != nil || following {
		t.Errorf("IsFollowing(self) = %v (%v), want false", following, err)
	}

	following, err = service.IsFollowing(ctx, viewer, author.ID)
	if err != nil || following {
		t.Errorf("IsFollowing before follow = %v (%v), want false", following, err)
	}

	if err := service.Follow(ctx, viewer, "author"); err != nil {
		t.Fatalf("follow failed: %v", err)
	}
	following, err = service.IsFollowing(ctx, viewer, author.ID)
	if err != nil || !following {
		t.Errorf("IsFollowing after follow = %v (%v), want true", following, err)
	}
}
