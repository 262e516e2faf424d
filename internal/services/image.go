package services

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize 上传图片大小上限
const MaxImageSize = 10 << 20 // 10 MB

var (
	ErrImageTooLarge   = errors.New("image exceeds size limit")
	ErrInvalidImageExt = errors.New("invalid image type")
)

// ImageService 把上传的图片落盘到 <mediaDir>/posts/ 下，
// 返回存储在 Post.Image 上的相对路径 posts/<filename>
type ImageService struct {
	mediaDir string
}

func NewImageService(mediaDir string) *ImageService {
	return &ImageService{mediaDir: mediaDir}
}

func (s *ImageService) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > MaxImageSize {
		return "", ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !isValidImageExt(ext) {
		return "", ErrInvalidImageExt
	}

	dir := filepath.Join(s.mediaDir, "posts")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	// 随机文件名避免覆盖和路径注入
	filename := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}

	return "posts/" + filename, nil
}

func isValidImageExt(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}
