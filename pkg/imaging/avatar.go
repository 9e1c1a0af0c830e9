package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// maxAvatarBytes caps avatar downloads; directory avatars are well under this.
const maxAvatarBytes = 5 << 20

// maxAvatarPixels bounds the declared image size accepted for decoding.
const maxAvatarPixels = 4096 * 4096

// DefaultAvatarHosts are the hosts the directory serves avatars from.
var DefaultAvatarHosts = []string{"avatars.githubusercontent.com"}

var (
	// ErrAvatarNotAllowed is returned for avatar URLs outside the https host allowlist.
	ErrAvatarNotAllowed = errors.New("avatar url is not on an allowed https host")
	// ErrImageTooLarge is returned when an image declares more pixels than maxAvatarPixels.
	ErrImageTooLarge = errors.New("image dimensions too large")
)

// Prober fetches avatars and checks that they decode. Only https URLs on the
// allowed hosts are requested, redirects included.
type Prober struct {
	client *http.Client
	hosts  map[string]struct{}
}

// NewProber builds a prober for allowedHosts, or DefaultAvatarHosts when none are given.
func NewProber(client *http.Client, allowedHosts ...string) *Prober {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if len(allowedHosts) == 0 {
		allowedHosts = DefaultAvatarHosts
	}

	p := &Prober{hosts: make(map[string]struct{}, len(allowedHosts))}
	for _, h := range allowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			p.hosts[h] = struct{}{}
		}
	}

	c := *client
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 5 {
			return errors.New("stopped after 5 redirects")
		}
		return p.Allowed(req.URL.String())
	}
	p.client = &c
	return p
}

// Allowed reports whether rawURL may be fetched.
func (p *Prober) Allowed(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "https" || u.User != nil {
		return ErrAvatarNotAllowed
	}
	if _, ok := p.hosts[strings.ToLower(u.Hostname())]; !ok {
		return ErrAvatarNotAllowed
	}
	return nil
}

// Probe returns an error when the avatar cannot be fetched or decoded.
func (p *Prober) Probe(ctx context.Context, rawURL string) error {
	data, err := p.Fetch(ctx, rawURL)
	if err != nil {
		return err
	}
	if _, format, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("decode avatar (format: %s): %w", format, err)
	}
	return nil
}

// Fetch downloads the avatar bytes.
func (p *Prober) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := p.Allowed(rawURL); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch avatar: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxAvatarBytes))
}

// Thumbnail scales an image so its longest side is at most maxDimension and encodes it as JPEG.
func Thumbnail(data []byte, maxDimension int, quality int) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxAvatarPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	newWidth, newHeight := width, height
	if width >= height && width > maxDimension {
		newWidth = maxDimension
		newHeight = int(float64(height) * float64(maxDimension) / float64(width))
	} else if height > width && height > maxDimension {
		newHeight = maxDimension
		newWidth = int(float64(width) * float64(maxDimension) / float64(height))
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
