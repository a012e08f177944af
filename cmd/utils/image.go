package utils

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxImageSize = 10 << 20 // 10 MB
	PostImageDir = "posts"
	MediaPrefix  = "/media/"
)

var (
	ErrImageTooLarge = fmt.Errorf("file size exceeds maximum limit of %d MB", MaxImageSize/(1<<20))
	ErrImageType     = errors.New("upload a valid image: .jpg, .jpeg, .png, .gif or .webp")
	ErrImageContent  = errors.New("the uploaded file is not an image")
)

var validImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ImageStorage keeps uploaded images below Root (MEDIA_ROOT).
type ImageStorage struct {
	Root string
}

func NewImageStorage(root string) *ImageStorage {
	return &ImageStorage{Root: root}
}

// CheckImage validates size, extension and sniffed content type of an upload.
func CheckImage(file multipart.File, header *multipart.FileHeader) error {
	if header.Size > MaxImageSize {
		return ErrImageTooLarge
	}
	if !IsValidImageType(filepath.Ext(header.Filename)) {
		return ErrImageType
	}

	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind upload: %w", err)
	}
	if !strings.HasPrefix(http.DetectContentType(buf[:n]), "image/") {
		return ErrImageContent
	}
	return nil
}

func IsValidImageType(ext string) bool {
	return validImageTypes[strings.ToLower(ext)]
}

// Save stores an upload and returns its name relative to Root, e.g.
// "posts/20240101-<uuid>.gif".
func (s *ImageStorage) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if err := CheckImage(file, header); err != nil {
		return "", err
	}

	dir := filepath.Join(s.Root, PostImageDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	filename := fmt.Sprintf("%s-%s%s",
		time.Now().Format("20060102"),
		uuid.New().String(),
		ext,
	)

	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return path.Join(PostImageDir, filename), nil
}

// Delete removes a stored image. Missing files are not an error.
func (s *ImageStorage) Delete(name string) error {
	if name == "" {
		return nil
	}
	filePath := filepath.Join(s.Root, PostImageDir, filepath.Base(name))
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MediaURL maps a stored image name to the URL it is served from.
func MediaURL(name string) string {
	if name == "" {
		return ""
	}
	return MediaPrefix + name
}
