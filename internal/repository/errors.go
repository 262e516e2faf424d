package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound 统一的未找到错误，屏蔽 gorm 细节
var ErrNotFound = errors.New("record not found")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
