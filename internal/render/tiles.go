package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // tile servers may answer with jpeg
	_ "image/png"
	"io"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"choromap/internal/scale"
)

// TilePixels is the edge length of a slippy-map tile.
const TilePixels = 256

// TileOptions configures a TileSource.
type TileOptions struct {
	URL          string // base URL; tiles live at {URL}/{z}/{x}/{y}.{Format}
	Format       string
	UserAgent    string
	Timeout      time.Duration
	RatePerSec   float64
	Concurrency  int
	CacheEntries int
	CacheTTL     time.Duration
}

// TileSource downloads raster tiles with a rate limit and an LRU cache.
type TileSource struct {
	client  *http.Client
	opts    TileOptions
	limiter *rate.Limiter
	cache   *TileCache
}

// NewTileSource fills unset options with conservative defaults.
func NewTileSource(opts TileOptions) *TileSource {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 4
	}
	if opts.Format == "" {
		opts.Format = "png"
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "choromap/1.0"
	}
	opts.URL = strings.TrimRight(opts.URL, "/")
	return &TileSource{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: opts.Concurrency,
				MaxConnsPerHost:     opts.Concurrency * 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.Concurrency),
		cache:   NewTileCache(opts.CacheEntries, opts.CacheTTL),
	}
}

// URL returns the address of tile t.
func (s *TileSource) URL(t maptile.Tile) string {
	return fmt.Sprintf("%s/%d/%d/%d.%s", s.opts.URL, t.Z, t.X, t.Y, s.opts.Format)
}

// Stats exposes the cache counters.
func (s *TileSource) Stats() CacheStats { return s.cache.Stats() }

// Fetch returns the decoded tile t.
func (s *TileSource) Fetch(ctx context.Context, t maptile.Tile) (image.Image, error) {
	data := s.cache.Get(t)
	if data != nil {
		return decodeTile(t, data)
	}
	data, err := s.download(ctx, t)
	if err != nil {
		return nil, err
	}
	img, err := decodeTile(t, data)
	if err != nil {
		return nil, err
	}
	s.cache.Put(t, data)
	return img, nil
}

func decodeTile(t maptile.Tile, data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrapf(err, "render: decode tile %s", tileKey(t))
	}
	return img, nil
}

func tileKey(t maptile.Tile) string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

func (s *TileSource) download(ctx context.Context, t maptile.Tile) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "render: tile rate limiter wait")
	}
	url := s.URL(t)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "render: create tile request")
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "render: GET %s", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("render: GET %s: status %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "render: read %s", url)
	}
	return data, nil
}

// FetchAll downloads tiles concurrently, at most Concurrency at a time. The
// first failure cancels the rest.
func (s *TileSource) FetchAll(ctx context.Context, tiles []maptile.Tile) (map[maptile.Tile]image.Image, error) {
	out := make(map[maptile.Tile]image.Image, len(tiles))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for _, t := range tiles {
		t := t
		g.Go(func() error {
			img, err := s.Fetch(gctx, t)
			if err != nil {
				return err
			}
			mu.Lock()
			out[t] = img
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// TileBackend draws a slippy-map raster under the regions.
type TileBackend struct {
	source   *TileSource
	maxZoom  maptile.Zoom
	maxTiles int
	dim      scale.Color
	dimBy    float64
}

// NewTileBackend renders tiles from source.
func NewTileBackend(source *TileSource) *TileBackend {
	return &TileBackend{
		source:   source,
		maxZoom:  18,
		maxTiles: 16,
		dim:      "#0b0f14",
		dimBy:    0.55,
	}
}

// Name implements Backend.
func (*TileBackend) Name() string { return BackendTiles }

// Projector implements Backend. Tiles are Web Mercator, so the overlay uses
// the same projection as the vector surface.
func (*TileBackend) Projector(bound orb.Bound, vp Viewport) *Projector {
	return NewMercatorProjector(bound, vp)
}

// Basemap implements Backend. It picks the zoom whose pixels best match the
// microgrid, stitches the covering tiles and downsamples them to one color
// per cell.
func (b *TileBackend) Basemap(ctx context.Context, proj *Projector, vp Viewport) (*Basemap, error) {
	if !vp.Valid() {
		return nil, nil
	}
	nw := clampPoint(proj.Unproject(0, 0))
	se := clampPoint(proj.Unproject(float64(vp.Width*2), float64(vp.Height*4)))

	z := b.zoomFor(nw, se, vp)
	minT, maxT := maptile.At(nw, z), maptile.At(se, z)
	for tileCount(minT, maxT) > b.maxTiles && z > 0 {
		z--
		minT, maxT = maptile.At(nw, z), maptile.At(se, z)
	}

	var tiles []maptile.Tile
	for y := minT.Y; y <= maxT.Y; y++ {
		for x := minT.X; x <= maxT.X; x++ {
			tiles = append(tiles, maptile.New(x, y, z))
		}
	}
	imgs, err := b.source.FetchAll(ctx, tiles)
	if err != nil {
		return nil, err
	}

	cols, rows := int(maxT.X-minT.X+1), int(maxT.Y-minT.Y+1)
	mosaic := image.NewRGBA(image.Rect(0, 0, cols*TilePixels, rows*TilePixels))
	for t, img := range imgs {
		at := image.Pt(int(t.X-minT.X)*TilePixels, int(t.Y-minT.Y)*TilePixels)
		draw.Draw(mosaic, image.Rectangle{Min: at, Max: at.Add(image.Pt(TilePixels, TilePixels))}, img, img.Bounds().Min, draw.Src)
	}

	// Mosaic pixels under the viewport corners.
	origin := orb.Point{float64(minT.X), float64(minT.Y)}
	fa, fb := maptile.Fraction(nw, z), maptile.Fraction(se, z)
	src := image.Rect(
		int(math.Floor((fa[0]-origin[0])*TilePixels)), int(math.Floor((fa[1]-origin[1])*TilePixels)),
		int(math.Ceil((fb[0]-origin[0])*TilePixels)), int(math.Ceil((fb[1]-origin[1])*TilePixels)),
	)
	dst := image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height))
	clipped := src.Intersect(mosaic.Bounds())
	if clipped.Empty() || src.Dx() == 0 || src.Dy() == 0 {
		return NewBasemap(vp.Width, vp.Height), nil
	}
	sx, sy := float64(vp.Width)/float64(src.Dx()), float64(vp.Height)/float64(src.Dy())
	target := image.Rect(
		int(float64(clipped.Min.X-src.Min.X)*sx), int(float64(clipped.Min.Y-src.Min.Y)*sy),
		int(math.Ceil(float64(clipped.Max.X-src.Min.X)*sx)), int(math.Ceil(float64(clipped.Max.Y-src.Min.Y)*sy)),
	)
	draw.ApproxBiLinear.Scale(dst, target, mosaic, clipped, draw.Src, nil)

	out := NewBasemap(vp.Width, vp.Height)
	for y := 0; y < vp.Height; y++ {
		for x := 0; x < vp.Width; x++ {
			c := dst.RGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			out.Set(x, y, b.shade(c))
		}
	}
	zap.L().Debug("basemap rendered",
		zap.Uint32("zoom", uint32(z)),
		zap.Int("tiles", len(tiles)),
		zap.Int64("cache_hits", b.source.Stats().Hits),
	)
	return out, nil
}

// zoomFor is the smallest zoom whose tiles have at least one pixel per
// micro-pixel across the viewport.
func (b *TileBackend) zoomFor(nw, se orb.Point, vp Viewport) maptile.Zoom {
	span := maptile.Fraction(se, 0)[0] - maptile.Fraction(nw, 0)[0]
	if span <= 0 {
		return 0
	}
	z := math.Ceil(math.Log2(float64(vp.Width*2) / (span * TilePixels)))
	if z < 0 {
		return 0
	}
	if z > float64(b.maxZoom) {
		return b.maxZoom
	}
	return maptile.Zoom(z)
}

// shade darkens a tile pixel so filled regions and strokes stay readable on
// top of it.
func (b *TileBackend) shade(c color.RGBA) scale.Color {
	cc, _ := colorful.MakeColor(c)
	return scale.Blend(scale.Color(cc.Hex()), b.dim, b.dimBy)
}

func tileCount(a, b maptile.Tile) int {
	return int(b.X-a.X+1) * int(b.Y-a.Y+1)
}

func clampPoint(p orb.Point) orb.Point {
	p[0] = math.Max(-180, math.Min(180-1e-9, p[0]))
	p[1] = math.Max(-maxMercatorLat, math.Min(maxMercatorLat, p[1]))
	return p
}
