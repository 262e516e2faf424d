package models

import (
	"time"
)

// Follow 关注关系（user 关注 author）
// 复合唯一键 idx_follow_pair = (user_id, author_id)，避免重复关注；
// check 约束在存储层拒绝自己关注自己
type Follow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_follow_pair" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_follow_pair;check:chk_not_self_follow,user_id <> author_id" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	CreatedAt time.Time `json:"created_at"`
}
