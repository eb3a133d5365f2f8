// Package handlers exposes the HTTP surface: auth and the two catalog
// creation endpoints that drive the asset commit pipeline.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutridry/storefront-backend/internal/auth"
	"github.com/nutridry/storefront-backend/internal/catalog"
	"github.com/nutridry/storefront-backend/internal/credentials"
	"github.com/nutridry/storefront-backend/internal/imagex"
	"github.com/nutridry/storefront-backend/internal/objectstore"
	"github.com/nutridry/storefront-backend/internal/recordstore"
	"github.com/nutridry/storefront-backend/internal/validation"
)

// SessionCookie carries the identity token issued at sign-in.
const SessionCookie = "aws-auth-session"

// HandlerConfig groups dependencies for the routes.
type HandlerConfig struct {
	Catalog *catalog.Service
	Auth    *auth.Service

	MaxCategoryImageBytes int64
	MaxProductImageBytes  int64
	GalleryLimit          int
}

// RegisterRoutes registers the auth and catalog routes.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	registerAuthRoutes(r, cfg, v)

	r.POST("/categories", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CreateCategoryRequest
		if err := validation.BindFormAndValidate(c, &req, v); err != nil {
			// BindFormAndValidate already wrote a 400
			return
		}

		img, ok := readImagePart(c, "image", cfg.MaxCategoryImageBytes)
		if !ok {
			return
		}

		cat, err := cfg.Catalog.CreateCategory(ctx, sessionToken(c), catalog.CategoryInput{
			CategoryName: req.CategoryName,
			Image:        img,
			ProductsID:   req.ProductsID,
		})
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusCreated, cat)
	})

	r.POST("/products", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CreateProductRequest
		if err := validation.BindFormAndValidate(c, &req, v); err != nil {
			return
		}

		mainImg, ok := readImagePart(c, "image", cfg.MaxProductImageBytes)
		if !ok {
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_multipart_form", "msg": err.Error()})
			return
		}
		galleryFiles := form.File["gallery"]
		limit := cfg.GalleryLimit
		if limit <= 0 {
			limit = catalog.DefaultGalleryLimit
		}
		if len(galleryFiles) > limit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "too_many_gallery_images", "limit": limit})
			return
		}

		gallery := make([][]byte, 0, len(galleryFiles))
		for _, fh := range galleryFiles {
			img, ok := readImageFile(c, fh, cfg.MaxProductImageBytes)
			if !ok {
				return
			}
			gallery = append(gallery, img)
		}

		p, err := cfg.Catalog.CreateProduct(ctx, sessionToken(c), catalog.ProductInput{
			Name:        req.Name,
			Form:        req.Form,
			Weight:      req.Weight,
			ActualPrice: req.ActualPrice,
			OfferPrice:  req.OfferPrice,
			Rating:      req.Rating,
			Ingredients: req.Ingredients,
			Description: req.Description,
			Highlights:  req.Highlights,
			MainImage:   mainImg,
			Gallery:     gallery,
		})
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusCreated, p)
	})
}

// sessionToken reads the identity token from the session cookie, falling
// back to a bearer Authorization header.
func sessionToken(c *gin.Context) string {
	if v, err := c.Cookie(SessionCookie); err == nil && v != "" {
		return v
	}
	const prefix = "Bearer "
	if h := c.GetHeader("Authorization"); len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

// readImagePart reads and pre-validates the named file part. On failure a
// 400 has been written and ok is false.
func readImagePart(c *gin.Context, name string, limit int64) ([]byte, bool) {
	fh, err := c.FormFile(name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_image", "field": name})
		return nil, false
	}
	return readImageFile(c, fh, limit)
}

func readImageFile(c *gin.Context, fh *multipart.FileHeader, limit int64) ([]byte, bool) {
	if fh.Size > limit {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "image_too_large",
			"file":  fh.Filename,
			"msg":   fmt.Sprintf("image exceeds the %d byte limit", limit),
		})
		return nil, false
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable_image", "file": fh.Filename})
		return nil, false
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil || int64(len(raw)) > limit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable_image", "file": fh.Filename})
		return nil, false
	}

	if ct := imagex.Sniff(raw); !imagex.Allowed(ct) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported_image_type", "type": ct})
		return nil, false
	}
	return raw, true
}

// writeError maps the pipeline error taxonomy onto HTTP statuses. No
// partial record ever reaches the client.
func writeError(c *gin.Context, err error) {
	var fed *credentials.FederationError

	switch {
	case errors.Is(err, credentials.ErrNoSession):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no_session"})
	case errors.As(err, &fed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "credential_exchange_failed"})
	case errors.Is(err, imagex.ErrTranscode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_image", "msg": err.Error()})
	case errors.Is(err, objectstore.ErrObjectTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_too_large"})
	case errors.Is(err, objectstore.ErrBucketNotFound):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage_misconfigured"})
	case errors.Is(err, objectstore.ErrTransient):
		c.JSON(http.StatusBadGateway, gin.H{"error": "upload_failed"})
	case errors.Is(err, recordstore.ErrWrite):
		c.JSON(http.StatusBadGateway, gin.H{"error": "record_write_failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
