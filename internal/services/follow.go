package services

import (
	"context"
	"errors"

	"yatube/internal/models"
	"yatube/internal/repository"
)

// ErrNotFollowing 取消关注时关注记录本就不存在
var ErrNotFollowing = errors.New("not following")

// FollowService 关注关系的业务入口。
// 关注是幂等的：重复关注不报错；并发下唯一键兜底，
// 冲突的插入被当作成功的无操作，不会冒泡给用户。
type FollowService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
}

func NewFollowService(users repository.UserRepository, follows repository.FollowRepository) *FollowService {
	return &FollowService{users: users, follows: follows}
}

// Follow user 关注 authorUsername 指定的作者。
// 自己关注自己按无操作处理（存储层 check 约束兜底）；
// 作者不存在返回 repository.ErrNotFound
func (s *FollowService) Follow(ctx context.Context, user *models.User, authorUsername string) error {
	author, err := s.users.GetByUsername(ctx, authorUsername)
	if err != nil {
		return err
	}
	if author.ID == user.ID {
		return nil
	}
	return s.follows.Create(ctx, user.ID, author.ID)
}

// Unfollow 取消关注。作者不存在返回 repository.ErrNotFound；
// 关注记录本就不存在返回 ErrNotFollowing，由调用方决定怎么呈现
func (s *FollowService) Unfollow(ctx context.Context, user *models.User, authorUsername string) error {
	author, err := s.users.GetByUsername(ctx, authorUsername)
	if err != nil {
		return err
	}
	deleted, err := s.follows.Delete(ctx, user.ID, author.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFollowing
	}
	return nil
}

// IsFollowing viewer 是否关注了 author。
// 未登录（viewer 为 nil）或看自己的主页时恒为 false
func (s *FollowService) IsFollowing(ctx context.Context, viewer *models.User, authorID uint) (bool, error) {
	if viewer == nil || viewer.ID == authorID {
		return false, nil
	}
	return s.follows.Exists(ctx, viewer.ID, authorID)
}
