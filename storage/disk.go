package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"storefront-api/models"
)

// DiskStore writes images under <dir>/products and serves them through
// the /uploads static route.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	productsDir := filepath.Join(dir, "products")
	if err := os.MkdirAll(productsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(_ context.Context, filename, _ string, r io.Reader) (models.ProductImage, error) {
	name := uuid.NewString() + filepath.Ext(filename)
	path := filepath.Join(s.dir, "products", name)

	f, err := os.Create(path)
	if err != nil {
		return models.ProductImage{}, fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return models.ProductImage{}, fmt.Errorf("write image file: %w", err)
	}

	return models.ProductImage{
		PublicID: "products/" + name,
		URL:      "/uploads/products/" + name,
	}, nil
}

func (s *DiskStore) Delete(_ context.Context, ref models.ProductImage) error {
	if ref.PublicID == "" {
		return nil
	}
	path := filepath.Join(s.dir, filepath.FromSlash(ref.PublicID))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}
