package infra

// Product image storage. Uploads are decoded, resized to fit 500x500 and
// re-encoded as JPEG quality 80, which keeps catalog images small enough to
// serve straight off disk.

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	imageMaxDim      = 500
	imageJPEGQuality = 80
)

// LocalImageStore saves product images under a directory served as /uploads.
type LocalImageStore struct {
	dir     string
	baseURL string
}

func NewLocalImageStore(dir, publicBaseURL string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("image store: create dir: %w", err)
	}
	return &LocalImageStore{dir: dir, baseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// Save resizes and stores the uploaded image, returning its public URL.
func (s *LocalImageStore) Save(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("image store: open upload: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("image store: decode: %w", err)
	}
	img = imaging.Fit(img, imageMaxDim, imageMaxDim, imaging.Lanczos)

	fileName := uuid.NewString() + ".jpg"
	path := filepath.Join(s.dir, fileName)
	if err := imaging.Save(img, path, imaging.JPEGQuality(imageJPEGQuality)); err != nil {
		return "", fmt.Errorf("image store: save: %w", err)
	}

	return s.baseURL + "/uploads/" + fileName, nil
}

// Remove deletes a previously stored image given its public URL. URLs that
// do not point into the store are ignored.
func (s *LocalImageStore) Remove(url string) error {
	idx := strings.LastIndex(url, "/uploads/")
	if idx < 0 {
		return nil
	}
	fileName := filepath.Base(url[idx+len("/uploads/"):])
	if fileName == "" || fileName == "." {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, fileName))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
