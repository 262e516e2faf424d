package models

import (
	"time"
)

// Group 文章分组，由管理员预置，普通用户只能选择
type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Slug        string    `gorm:"uniqueIndex;size:400;not null" json:"slug"`
	Description string    `gorm:"size:400" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
