package imaging

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProbe(t *testing.T) {
	good := pngBytes(t, 4, 4)
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/good.png":
			_, _ = w.Write(good)
		case "/garbage":
			_, _ = w.Write([]byte("<html>not an image</html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewProber(srv.Client(), "127.0.0.1")
	ctx := context.Background()

	assert.NoError(t, p.Probe(ctx, srv.URL+"/good.png"))
	assert.Error(t, p.Probe(ctx, srv.URL+"/garbage"))
	assert.Error(t, p.Probe(ctx, srv.URL+"/gone"))
}

func TestThumbnail(t *testing.T) {
	out, err := Thumbnail(pngBytes(t, 200, 100), 50, 80)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 50, cfg.Width)
	assert.Equal(t, 25, cfg.Height)
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	_, err := Thumbnail([]byte("nope"), 64, 80)
	assert.Error(t, err)
}

func TestAllowed(t *testing.T) {
	p := NewProber(nil)

	tests := []struct {
		url  string
		want bool
	}{
		{"https://avatars.githubusercontent.com/u/1?v=4", true},
		{"https://AVATARS.githubusercontent.com/u/1", true},
		{"http://avatars.githubusercontent.com/u/1", false},
		{"https://127.0.0.1:8080/admin/secret", false},
		{"https://avatars.githubusercontent.com.evil.example/u/1", false},
		{"https://user@avatars.githubusercontent.com/u/1", false},
		{"file:///etc/passwd", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := p.Allowed(tt.url)
			if tt.want {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrAvatarNotAllowed)
			}
		})
	}
}

func TestFetchRefusesDisallowedHostsWithoutRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	p := NewProber(srv.Client())
	_, err := p.Fetch(context.Background(), srv.URL+"/admin/secret")
	assert.ErrorIs(t, err, ErrAvatarNotAllowed)
	assert.Equal(t, int32(0), hits.Load())
}

func TestFetchRefusesRedirectToDisallowedHost(t *testing.T) {
	var internalHits atomic.Int32
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		internalHits.Add(1)
	}))
	defer internal.Close()

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, internal.URL+"/admin", http.StatusFound)
	}))
	defer srv.Close()

	p := NewProber(srv.Client(), "127.0.0.1")
	_, err := p.Fetch(context.Background(), srv.URL+"/avatar.png")
	assert.ErrorIs(t, err, ErrAvatarNotAllowed)
	assert.Equal(t, int32(0), internalHits.Load())
}

func TestThumbnailRejectsHugeDeclaredDimensions(t *testing.T) {
	data := pngBytes(t, 1, 1)
	// IHDR data sits at bytes 16..29, followed by its CRC over type and data.
	binary.BigEndian.PutUint32(data[16:20], 100000)
	binary.BigEndian.PutUint32(data[20:24], 100000)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))

	_, err := Thumbnail(data, 64, 80)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}
