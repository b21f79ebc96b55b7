package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront-api/models"
	"storefront-api/storage"
)

func TestDiskStore_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewDiskStore(dir)
	assert.NoError(t, err)

	image, err := store.Save(context.Background(), "photo.jpg", "image/jpeg", strings.NewReader("fake-jpeg-bytes"))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(image.URL, "/uploads/products/"))
	assert.True(t, strings.HasSuffix(image.PublicID, ".jpg"))

	path := filepath.Join(dir, filepath.FromSlash(image.PublicID))
	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "fake-jpeg-bytes", string(data))

	assert.NoError(t, store.Delete(context.Background(), image))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Deleting again is not an error.
	assert.NoError(t, store.Delete(context.Background(), image))
	assert.NoError(t, store.Delete(context.Background(), models.ProductImage{}))
}
