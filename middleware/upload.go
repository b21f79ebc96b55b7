package middleware

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// MaxImageSize is the per-file upload limit.
	MaxImageSize = 20 << 20 // 20MB
	// MaxImages is the maximum number of files for the "images" field.
	MaxImages = 5

	ImageFileKey  = "uploadedImage"
	ImageFilesKey = "uploadedImages"
)

// SingleImage validates an optional "image" multipart field and stashes
// the file header in the context. Requests without a file pass through.
func SingleImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isMultipart(c) {
			c.Next()
			return
		}

		file, err := c.FormFile("image")
		if err == http.ErrMissingFile {
			c.Next()
			return
		}
		if err != nil {
			abortUpload(c, "Invalid image upload")
			return
		}

		if msg := validateImage(file); msg != "" {
			abortUpload(c, msg)
			return
		}

		c.Set(ImageFileKey, file)
		c.Next()
	}
}

// MultipleImages validates the "images" multipart field (max 5 files).
func MultipleImages() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isMultipart(c) {
			c.Next()
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			abortUpload(c, "Invalid image upload")
			return
		}

		files := form.File["images"]
		if len(files) == 0 {
			c.Next()
			return
		}
		if len(files) > MaxImages {
			abortUpload(c, "Too many files. Maximum is 5 images")
			return
		}
		for _, file := range files {
			if msg := validateImage(file); msg != "" {
				abortUpload(c, msg)
				return
			}
		}

		c.Set(ImageFilesKey, files)
		c.Next()
	}
}

// UploadedImage returns the validated single image header, if any.
func UploadedImage(c *gin.Context) *multipart.FileHeader {
	if v, ok := c.Get(ImageFileKey); ok {
		if fh, ok := v.(*multipart.FileHeader); ok {
			return fh
		}
	}
	return nil
}

// UploadedImages returns the validated image headers from a multi-file
// upload, if any.
func UploadedImages(c *gin.Context) []*multipart.FileHeader {
	if v, ok := c.Get(ImageFilesKey); ok {
		if files, ok := v.([]*multipart.FileHeader); ok {
			return files
		}
	}
	return nil
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/form-data")
}

func validateImage(file *multipart.FileHeader) string {
	if file.Size > MaxImageSize {
		return "File too large. Maximum size is 20MB"
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return "Only image files are allowed"
	}
	return ""
}

func abortUpload(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": message,
	})
}
