// Package storage abstracts where uploaded product images live. The
// backend is chosen once at startup from configuration: S3 when bucket
// credentials are present, GridFS when explicitly selected, local disk
// otherwise.
package storage

import (
	"context"
	"io"

	"go.mongodb.org/mongo-driver/mongo"

	"storefront-api/config"
	"storefront-api/models"
)

// Store saves an uploaded image and returns a stored reference, and can
// later delete the asset the reference points at.
type Store interface {
	Save(ctx context.Context, filename, contentType string, r io.Reader) (models.ProductImage, error)
	Delete(ctx context.Context, ref models.ProductImage) error
}

// Resolve picks the active backend. Mirrors the cloudinary-or-local
// selection of the original deployment: object storage wins when
// configured, the database-blob variant needs an explicit opt-in, and
// local disk is the fallback.
func Resolve(ctx context.Context, cfg *config.Config, db *mongo.Database) (Store, string, error) {
	switch {
	case cfg.StorageBackend == "s3" || (cfg.StorageBackend == "" && cfg.S3Bucket != "" && cfg.AWSAccessKey != ""):
		store, err := NewS3Store(ctx, cfg)
		if err != nil {
			return nil, "", err
		}
		return store, "s3", nil
	case cfg.StorageBackend == "gridfs":
		store, err := NewGridFSStore(db)
		if err != nil {
			return nil, "", err
		}
		return store, "gridfs", nil
	default:
		store, err := NewDiskStore(cfg.UploadsDir)
		if err != nil {
			return nil, "", err
		}
		return store, "disk", nil
	}
}
