// Package catalog implements the asset commit pipeline: acquire scoped
// credentials once, upload the operation's images, then write the catalog
// record. The two stores share no transaction, so a failed record write is
// compensated by best-effort deletes of every object uploaded in the same
// attempt.
package catalog

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nutridry/storefront-backend/internal/credentials"
	"github.com/nutridry/storefront-backend/internal/imagex"
	"github.com/nutridry/storefront-backend/internal/metrics"
	"github.com/nutridry/storefront-backend/internal/orphan"
)

// DefaultGalleryLimit caps concurrent gallery uploads, matching the UI's
// gallery size limit.
const DefaultGalleryLimit = 10

// CredentialBroker exchanges an identity token for operation-scoped
// credentials.
type CredentialBroker interface {
	Acquire(ctx context.Context, identityToken string) (credentials.ScopedCredentials, error)
}

// ObjectStore uploads and deletes image objects.
type ObjectStore interface {
	Put(ctx context.Context, creds credentials.ScopedCredentials, key string, body []byte, contentType string, public bool) (string, error)
	Delete(ctx context.Context, creds credentials.ScopedCredentials, key string) (bool, error)
}

// RecordStore writes one catalog record.
type RecordStore interface {
	Put(ctx context.Context, creds credentials.ScopedCredentials, table string, record any) error
}

// OrphanQueue receives keys whose compensating delete failed.
type OrphanQueue interface {
	Publish(ctx context.Context, msg orphan.Message) error
}

// MetricSink counts commit outcomes.
type MetricSink interface {
	Count(ctx context.Context, name string, n float64)
}

// Transcoder normalizes an uploaded image into the stored format.
type Transcoder func(raw []byte) ([]byte, error)

// Service orchestrates category and product creation.
type Service struct {
	Broker  CredentialBroker
	Objects ObjectStore
	Records RecordStore
	Orphans OrphanQueue // optional
	Metrics MetricSink  // optional

	Bucket          string
	CategoriesTable string
	ProductsTable   string
	GalleryLimit    int

	transcode Transcoder
	newID     func() string
}

// Deps groups the collaborators for NewService.
type Deps struct {
	Broker  CredentialBroker
	Objects ObjectStore
	Records RecordStore
	Orphans OrphanQueue
	Metrics MetricSink

	Bucket          string
	CategoriesTable string
	ProductsTable   string
}

// NewService returns a configured Service.
func NewService(d Deps) *Service {
	return &Service{
		Broker:          d.Broker,
		Objects:         d.Objects,
		Records:         d.Records,
		Orphans:         d.Orphans,
		Metrics:         d.Metrics,
		Bucket:          d.Bucket,
		CategoriesTable: d.CategoriesTable,
		ProductsTable:   d.ProductsTable,
		GalleryLimit:    DefaultGalleryLimit,
		transcode:       imagex.Transcode,
		newID:           uuid.NewString,
	}
}

// CreateCategory uploads the category image and writes the category
// record. If the record write fails after the upload succeeded, the
// uploaded object is deleted and the write error re-raised.
func (s *Service) CreateCategory(ctx context.Context, identityToken string, in CategoryInput) (*Category, error) {
	cat := &Category{
		ID:           s.newID(),
		CategoryName: in.CategoryName,
		ProductsID:   in.ProductsID,
	}

	creds, err := s.Broker.Acquire(ctx, identityToken)
	if err != nil {
		return nil, err
	}

	img, err := s.transcode(in.Image)
	if err != nil {
		return nil, err
	}

	key := CategoryImageKey(in.CategoryName)
	url, err := s.Objects.Put(ctx, creds, key, img, imagex.ContentType, true)
	if err != nil {
		// No record exists yet; the upload either left nothing behind or
		// an orphan the reaper cannot know about. Accepted risk.
		return nil, err
	}
	cat.ImgSrc = url

	if err := s.Records.Put(ctx, creds, s.CategoriesTable, cat); err != nil {
		log.Printf("category %s: record write failed, rolling back upload: %v", cat.ID, err)
		s.rollback(ctx, creds, []string{key})
		s.count(ctx, metrics.CommitRolledBack)
		return nil, err
	}

	s.count(ctx, metrics.CategoryCommitted)
	return cat, nil
}

// CreateProduct uploads the main image, fans out over the gallery images,
// and writes the product record only after every upload succeeded. Any
// failure after the first successful upload triggers compensating deletes
// for every key written in this attempt.
func (s *Service) CreateProduct(ctx context.Context, identityToken string, in ProductInput) (*Product, error) {
	p := &Product{
		ProductID:      s.newID(),
		OtherImgSrcSet: make([]string, len(in.Gallery)),
		Name:           in.Name,
		Form:           in.Form,
		Weight:         in.Weight,
		ActualPrice:    in.ActualPrice,
		OfferPrice:     in.OfferPrice,
		Rating:         in.Rating,
		Ingredients:    in.Ingredients,
		Description:    in.Description,
		Highlights:     in.Highlights,
	}

	creds, err := s.Broker.Acquire(ctx, identityToken)
	if err != nil {
		return nil, err
	}

	// uploaded collects every key successfully written in this attempt, so
	// rollback targets exactly those.
	var (
		mu       sync.Mutex
		uploaded []string
	)
	markUploaded := func(key string) {
		mu.Lock()
		uploaded = append(uploaded, key)
		mu.Unlock()
	}

	// Main image strictly precedes the record write; its URL is embedded
	// in the record.
	mainImg, err := s.transcode(in.MainImage)
	if err != nil {
		return nil, err
	}
	mainKey := ProductImageKey(in.Name)
	mainURL, err := s.Objects.Put(ctx, creds, mainKey, mainImg, imagex.ContentType, true)
	if err != nil {
		return nil, err
	}
	p.ImgSrc = mainURL
	markUploaded(mainKey)

	// Gallery fan-out: one task per image, results land in their input
	// slot regardless of completion order. First failure cancels the
	// siblings; the join below waits for all of them either way.
	limit := s.GalleryLimit
	if limit <= 0 {
		limit = DefaultGalleryLimit
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, raw := range in.Gallery {
		i, raw := i, raw
		g.Go(func() error {
			img, err := s.transcode(raw)
			if err != nil {
				return fmt.Errorf("gallery image %d: %w", i, err)
			}
			key := ProductGalleryKey(in.Name, i)
			url, err := s.Objects.Put(gctx, creds, key, img, imagex.ContentType, true)
			if err != nil {
				return fmt.Errorf("gallery image %d: %w", i, err)
			}
			markUploaded(key)
			p.OtherImgSrcSet[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// The record write must not be attempted after an upload failure.
		s.rollback(ctx, creds, uploaded)
		s.count(ctx, metrics.CommitRolledBack)
		return nil, err
	}

	if err := s.Records.Put(ctx, creds, s.ProductsTable, p); err != nil {
		log.Printf("product %s: record write failed, rolling back %d uploads: %v", p.ProductID, len(uploaded), err)
		s.rollback(ctx, creds, uploaded)
		s.count(ctx, metrics.CommitRolledBack)
		return nil, err
	}

	s.count(ctx, metrics.ProductCommitted)
	return p, nil
}

// rollback issues best-effort compensating deletes for keys. Every delete
// is attempted even if an earlier one fails; failures are logged and the
// key is enqueued for the orphan reaper. Runs on a context detached from
// caller cancellation so cleanup still happens when the caller is gone.
func (s *Service) rollback(ctx context.Context, creds credentials.ScopedCredentials, keys []string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if _, err := s.Objects.Delete(ctx, creds, key); err != nil {
			log.Printf("compensating delete of %q failed: %v", key, err)
			s.enqueueOrphan(ctx, key, err)
		}
	}
}

func (s *Service) enqueueOrphan(ctx context.Context, key string, cause error) {
	if s.Orphans == nil {
		return
	}
	msg := orphan.Message{
		Bucket: s.Bucket,
		Key:    key,
		Reason: cause.Error(),
	}
	if err := s.Orphans.Publish(ctx, msg); err != nil {
		log.Printf("enqueue orphan %q: %v", key, err)
		return
	}
	s.count(ctx, metrics.OrphanEnqueued)
}

func (s *Service) count(ctx context.Context, name string) {
	if s.Metrics == nil {
		return
	}
	s.Metrics.Count(ctx, name, 1)
}
