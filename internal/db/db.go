package db

import (
	"log"

	"yatube/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Init(dsn string) (*gorm.DB, error) {
	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(database); err != nil {
		return nil, err
	}
	log.Println("Database migration completed")

	seedGroups(database)

	return database, nil
}

// Migrate 同步全部模型的表结构
func Migrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	)
}

func seedGroups(database *gorm.DB) {
	// 检查是否已有分组数据
	var count int64
	database.Model(&models.Group{}).Count(&count)
	if count > 0 {
		log.Println("Groups already seeded, skipping")
		return
	}

	// 创建预设分组
	groups := []models.Group{
		{Title: "技术", Slug: "tech", Description: "技术相关的记录和分享"},
		{Title: "生活", Slug: "life", Description: "生活日常、经验分享"},
		{Title: "随笔", Slug: "notes", Description: "随便写写"},
	}

	for _, group := range groups {
		if err := database.Create(&group).Error; err != nil {
			log.Printf("Failed to create group %s: %v", group.Slug, err)
		}
	}
	log.Println("Initial groups created successfully")
}
