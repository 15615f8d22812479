package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // GIF decoder for transcoding
	_ "image/jpeg" // JPEG decoder for validation
	"image/png"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cotizador/backend/internal/domain/quotation"
	"github.com/cotizador/backend/internal/infrastructure/cache"
	"github.com/cotizador/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"  // BMP decoder for transcoding
	_ "golang.org/x/image/tiff" // TIFF decoder for transcoding
	_ "golang.org/x/image/webp" // WebP decoder for transcoding
	"golang.org/x/sync/errgroup"
)

// Image types understood by the PDF writer
const (
	ImageTypePNG  = "PNG"
	ImageTypeJPEG = "JPG"
)

// Image is a fetched asset ready to embed
type Image struct {
	Data   []byte
	Type   string
	Width  int
	Height int
}

// Assets holds the images of one document. Nil fields are unavailable.
type Assets struct {
	Logo      *Image
	Signature *Image
	// Degraded is set when a configured image could not be loaded
	Degraded bool
}

// Sizes returns the pixel sizes the planner needs
func (a Assets) Sizes() AssetSizes {
	var s AssetSizes
	if a.Logo != nil {
		s.LogoWidth, s.LogoHeight = a.Logo.Width, a.Logo.Height
	}
	if a.Signature != nil {
		s.SignatureWidth, s.SignatureHeight = a.Signature.Width, a.Signature.Height
	}
	return s
}

// AssetFetcher loads the images of a quotation
type AssetFetcher interface {
	FetchAssets(ctx context.Context, view *quotation.View) Assets
}

// ImageFetcher downloads logos and signatures over HTTP. Failures never
// escape: they are logged as degraded assets and reported as unavailable.
type ImageFetcher struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
	cache    cache.AssetCache
	cacheTTL time.Duration
	metrics  *telemetry.RenderMetrics
	logger   *zap.Logger
}

// ImageFetcherOption is a functional option for configuring ImageFetcher
type ImageFetcherOption func(*ImageFetcher)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(client *http.Client) ImageFetcherOption {
	return func(f *ImageFetcher) {
		f.client = client
	}
}

// WithFetchTimeout bounds each fetch
func WithFetchTimeout(d time.Duration) ImageFetcherOption {
	return func(f *ImageFetcher) {
		f.timeout = d
	}
}

// WithMaxImageBytes caps the accepted body size
func WithMaxImageBytes(n int64) ImageFetcherOption {
	return func(f *ImageFetcher) {
		f.maxBytes = n
	}
}

// WithAssetCache caches normalized images for ttl
func WithAssetCache(c cache.AssetCache, ttl time.Duration) ImageFetcherOption {
	return func(f *ImageFetcher) {
		f.cache = c
		f.cacheTTL = ttl
	}
}

// WithFetchMetrics records fetch outcomes
func WithFetchMetrics(m *telemetry.RenderMetrics) ImageFetcherOption {
	return func(f *ImageFetcher) {
		f.metrics = m
	}
}

// WithFetchLogger sets the logger for degraded assets
func WithFetchLogger(logger *zap.Logger) ImageFetcherOption {
	return func(f *ImageFetcher) {
		f.logger = logger
	}
}

// NewImageFetcher creates a fetcher with a 5s timeout and a 5MB limit
func NewImageFetcher(opts ...ImageFetcherOption) *ImageFetcher {
	f := &ImageFetcher{
		timeout:  5 * time.Second,
		maxBytes: 5 << 20,
		cache:    cache.NopAssetCache{},
		cacheTTL: 10 * time.Minute,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.timeout <= 0 {
		f.timeout = 5 * time.Second
	}
	if f.maxBytes <= 0 {
		f.maxBytes = 5 << 20
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: f.timeout}
	}
	if f.cache == nil {
		f.cache = cache.NopAssetCache{}
	}
	if f.logger == nil {
		f.logger = zap.NewNop()
	}
	return f
}

// FetchAssets loads the logo and the signature concurrently
func (f *ImageFetcher) FetchAssets(ctx context.Context, view *quotation.View) Assets {
	var (
		assets        Assets
		logoOK, sigOK bool
	)
	logoURL := view.Company.LogoURL
	sigURL := view.Company.Representative.SignatureURL

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		assets.Logo, logoOK = f.fetch(gctx, string(AssetLogo), logoURL)
		return nil
	})
	g.Go(func() error {
		assets.Signature, sigOK = f.fetch(gctx, string(AssetSignature), sigURL)
		return nil
	})
	_ = g.Wait()

	assets.Degraded = (logoURL != "" && !logoOK) || (sigURL != "" && !sigOK)
	return assets
}

// Fetch loads one image. It returns false for an empty URL and for every
// failure; it never returns an error.
func (f *ImageFetcher) Fetch(ctx context.Context, rawURL string) (*Image, bool) {
	return f.fetch(ctx, "image", rawURL)
}

func (f *ImageFetcher) fetch(ctx context.Context, asset, rawURL string) (*Image, bool) {
	if rawURL == "" {
		f.metrics.RecordImageFetch(ctx, asset, telemetry.FetchMissing)
		return nil, false
	}

	if data, ok, err := f.cache.Get(ctx, rawURL); err == nil && ok {
		if img, err := describe(data); err == nil {
			f.metrics.RecordImageFetch(ctx, asset, telemetry.FetchCacheHit)
			return img, true
		}
		_ = f.cache.Delete(ctx, rawURL)
	}

	img, err := f.download(ctx, rawURL)
	if err != nil {
		f.logger.Warn("Image asset unavailable",
			zap.String("code", ErrCodeDegradedAsset),
			zap.String("asset", asset),
			zap.String("url", rawURL),
			zap.Error(err),
		)
		f.metrics.RecordImageFetch(ctx, asset, telemetry.FetchFailed)
		return nil, false
	}

	if err := f.cache.Set(ctx, rawURL, img.Data, f.cacheTTL); err != nil {
		f.logger.Debug("Failed to cache image asset", zap.String("url", rawURL), zap.Error(err))
	}
	f.metrics.RecordImageFetch(ctx, asset, telemetry.FetchOK)
	return img, true
}

func (f *ImageFetcher) download(ctx context.Context, rawURL string) (*Image, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid image URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("unsupported image URL %q", rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("image request returned status %d", resp.StatusCode)
	}
	if resp.ContentLength > f.maxBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", f.maxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", f.maxBytes)
	}
	return Normalize(data)
}

var errNotImage = errors.New("data is not a decodable image")

// Normalize validates image bytes and converts them to a type the PDF
// writer embeds. JPEG and simple PNG pass through unchanged; GIF, WebP,
// BMP, TIFF and PNG variants the writer cannot parse become 8-bit PNG.
func Normalize(data []byte) (*Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNotImage, err)
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, errNotImage
	}

	switch {
	case format == "jpeg":
		return &Image{Data: data, Type: ImageTypeJPEG, Width: bounds.Dx(), Height: bounds.Dy()}, nil
	case format == "png" && embeddablePNG(data):
		return &Image{Data: data, Type: ImageTypePNG, Width: bounds.Dx(), Height: bounds.Dy()}, nil
	}

	rgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, fmt.Errorf("failed to transcode %s image: %w", format, err)
	}
	return &Image{Data: buf.Bytes(), Type: ImageTypePNG, Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

// embeddablePNG reports whether the IHDR chunk describes an image of at
// most 8 bits per channel without interlacing
func embeddablePNG(data []byte) bool {
	if len(data) < 29 {
		return false
	}
	bitDepth, interlace := data[24], data[28]
	return bitDepth <= 8 && interlace == 0
}

// describe rebuilds an Image from normalized bytes read back from the cache
func describe(data []byte) (*Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	switch format {
	case "jpeg":
		return &Image{Data: data, Type: ImageTypeJPEG, Width: cfg.Width, Height: cfg.Height}, nil
	case "png":
		return &Image{Data: data, Type: ImageTypePNG, Width: cfg.Width, Height: cfg.Height}, nil
	}
	return nil, fmt.Errorf("unexpected cached image format %q", format)
}
