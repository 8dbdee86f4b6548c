package imagesvc

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ZeroFairy/kuenyawz-api/internal/entity"
	"github.com/ZeroFairy/kuenyawz-api/internal/runtime"
	logpkg "github.com/ZeroFairy/kuenyawz-api/pkg/log"
)

var (
	// ErrNotFound reports a missing image.
	ErrNotFound = errors.New("images: not found")
	// ErrInvalidInput reports a rejected upload.
	ErrInvalidInput = errors.New("images: invalid input")
	// ErrTooMany reports an upload past the per-product limit.
	ErrTooMany = errors.New("images: per-product limit reached")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var imagePrefix = []byte("product_image/")

// Catalog is the product lookup used to reject uploads for unknown
// products.
type Catalog interface {
	Get(ctx context.Context, id entity.ID) (*entity.Product, error)
}

// Service stores and serves product images.
type Service struct {
	rt      *runtime.Runtime
	catalog Catalog
	logger  logpkg.Logger

	// mu serializes uploads and deletes so the per-product count check and
	// the metadata write commit as one step.
	mu sync.Mutex
}

// New returns a Service using a default logger.
func New(rt *runtime.Runtime, catalog Catalog) *Service {
	return NewWithLogger(rt, catalog, logpkg.NewLogger().With(logpkg.Component("images")))
}

// NewWithLogger constructs the service with an injected logger.
func NewWithLogger(rt *runtime.Runtime, catalog Catalog, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewLogger().With(logpkg.Component("images"))
	}
	return &Service{rt: rt, catalog: catalog, logger: logger}
}

func appendID(k []byte, id entity.ID) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return append(k, b[:]...)
}

// productImagePrefix is product_image/<product_be8>/.
func productImagePrefix(productID entity.ID) []byte {
	k := appendID(append([]byte(nil), imagePrefix...), productID)
	return append(k, '/')
}

// imageKey is product_image/<product_be8>/<image_be8>.
func imageKey(productID, imageID entity.ID) []byte {
	return appendID(productImagePrefix(productID), imageID)
}

// Save validates the upload, writes the bytes under the upload directory
// and records the metadata. The stored filename is the generated key plus
// the original extension, so names never collide.
func (s *Service) Save(ctx context.Context, productID entity.ID, originalFilename string, r io.Reader) (*entity.ProductImage, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if !allowedExtensions[ext] {
		return nil, fmt.Errorf("%w: extension %q not allowed", ErrInvalidInput, ext)
	}
	if _, err := s.catalog.Get(ctx, productID); err != nil {
		return nil, fmt.Errorf("%w: product %s", ErrInvalidInput, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.List(ctx, productID)
	if err != nil {
		return nil, err
	}
	if limit := s.rt.Config().MaxImagesPerProduct; len(existing) >= limit {
		return nil, fmt.Errorf("%w: product %s already has %d images", ErrTooMany, productID, limit)
	}

	img := &entity.ProductImage{
		ProductID:        productID,
		OriginalFilename: filepath.Base(originalFilename),
	}
	img.Touch(time.Now())
	if err := s.rt.Assigner().Assign(img); err != nil {
		return nil, err
	}
	img.RelativePath = filepath.Join(productID.String(), img.ProductImageID.String()+ext)

	dst := filepath.Join(s.rt.UploadDir(), img.RelativePath)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(dst)
	if err != nil {
		return nil, err
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return nil, err
	}
	img.SizeBytes = n

	raw, err := json.Marshal(img)
	if err != nil {
		os.Remove(dst)
		return nil, err
	}
	if err := s.rt.DB().Set(imageKey(productID, img.ProductImageID), raw); err != nil {
		os.Remove(dst)
		return nil, err
	}
	s.logger.Info("image stored",
		logpkg.Str("product_id", productID.String()),
		logpkg.Str("image_id", img.ProductImageID.String()),
		logpkg.Int64("size_bytes", n),
	)
	return img, nil
}

// Get returns one image's metadata.
func (s *Service) Get(ctx context.Context, productID, imageID entity.ID) (*entity.ProductImage, error) {
	b, err := s.rt.DB().Get(imageKey(productID, imageID))
	if err != nil {
		return nil, ErrNotFound
	}
	var img entity.ProductImage
	if err := json.Unmarshal(b, &img); err != nil {
		return nil, err
	}
	return &img, nil
}

// Open returns a reader over the image bytes. The caller closes it.
func (s *Service) Open(ctx context.Context, productID, imageID entity.ID) (io.ReadCloser, *entity.ProductImage, error) {
	img, err := s.Get(ctx, productID, imageID)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(filepath.Join(s.rt.UploadDir(), img.RelativePath))
	if err != nil {
		return nil, nil, ErrNotFound
	}
	return f, img, nil
}

// List returns a product's images in upload order.
func (s *Service) List(ctx context.Context, productID entity.ID) ([]entity.ProductImage, error) {
	var out []entity.ProductImage
	err := s.rt.DB().ScanPrefix(productImagePrefix(productID), func(_, v []byte) bool {
		var img entity.ProductImage
		if json.Unmarshal(v, &img) == nil {
			out = append(out, img)
		}
		return true
	})
	return out, err
}

// Delete removes the metadata and the file. A missing file is not an
// error; the record is authoritative.
func (s *Service) Delete(ctx context.Context, productID, imageID entity.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, err := s.Get(ctx, productID, imageID)
	if err != nil {
		return err
	}
	if err := s.rt.DB().Delete(imageKey(productID, imageID)); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.rt.UploadDir(), img.RelativePath)); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("image file removal failed",
			logpkg.Str("path", img.RelativePath),
			logpkg.Err(err),
		)
	}
	return nil
}
