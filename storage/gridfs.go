package storage

import (
	"context"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront-api/models"
)

// GridFSStore keeps image binaries inside MongoDB. The stored URL points
// at the blob-streaming route; PublicID is the GridFS file id.
type GridFSStore struct {
	bucket *gridfs.Bucket
}

func NewGridFSStore(db *mongo.Database) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("product_images"))
	if err != nil {
		return nil, fmt.Errorf("create gridfs bucket: %w", err)
	}
	return &GridFSStore{bucket: bucket}, nil
}

func (s *GridFSStore) Save(_ context.Context, filename, contentType string, r io.Reader) (models.ProductImage, error) {
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})
	fileID, err := s.bucket.UploadFromStream(filename, r, opts)
	if err != nil {
		return models.ProductImage{}, fmt.Errorf("gridfs upload: %w", err)
	}

	return models.ProductImage{
		PublicID: fileID.Hex(),
		URL:      "/api/products/" + fileID.Hex() + "/image",
	}, nil
}

func (s *GridFSStore) Delete(_ context.Context, ref models.ProductImage) error {
	if ref.PublicID == "" {
		return nil
	}
	fileID, err := primitive.ObjectIDFromHex(ref.PublicID)
	if err != nil {
		return fmt.Errorf("invalid gridfs file id %q: %w", ref.PublicID, err)
	}
	if err := s.bucket.Delete(fileID); err != nil && err != gridfs.ErrFileNotFound {
		return fmt.Errorf("gridfs delete: %w", err)
	}
	return nil
}

// Open streams a stored blob plus its content type for the image route.
func (s *GridFSStore) Open(_ context.Context, id string) (io.ReadCloser, string, error) {
	fileID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, "", fmt.Errorf("invalid gridfs file id %q: %w", id, err)
	}

	stream, err := s.bucket.OpenDownloadStream(fileID)
	if err != nil {
		return nil, "", fmt.Errorf("gridfs open: %w", err)
	}

	contentType := "application/octet-stream"
	if file := stream.GetFile(); file != nil && file.Metadata != nil {
		var meta struct {
			ContentType string `bson:"contentType"`
		}
		if err := bson.Unmarshal(file.Metadata, &meta); err == nil && meta.ContentType != "" {
			contentType = meta.ContentType
		}
	}

	return stream, contentType, nil
}
