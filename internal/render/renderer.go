// Package render draws photocards to PNG with a headless Chrome instance.
package render

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/gabriel-vasile/mimetype"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/osse101/PhotocardBot_Go/internal/domain"
	"github.com/osse101/PhotocardBot_Go/internal/logger"
)

//go:embed templates/card.html
var templateFS embed.FS

// Config controls the renderer
type Config struct {
	// ImageDir is the root that card image paths are resolved against.
	// Cards render without art when it is empty.
	ImageDir  string
	Timeout   time.Duration
	CacheSize int
	// ExecPath overrides the Chrome binary chromedp looks up
	ExecPath string
}

// captureFunc turns an html document into a PNG of the card element
type captureFunc func(ctx context.Context, html string) ([]byte, error)

type cacheKey struct {
	cardID int64
	slot   int
	serial string
}

// Renderer implements drop.Renderer on top of chromedp
type Renderer struct {
	tmpl    *template.Template
	images  fs.FS
	timeout time.Duration
	cache   *lru.Cache[cacheKey, []byte]
	capture captureFunc

	allocCtx context.Context
	cancel   context.CancelFunc
}

// New starts a browser allocator bound to ctx. Close releases it.
func New(ctx context.Context, config Config) (*Renderer, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(DefaultWidth+40, DefaultHeight+40),
		chromedp.Flag("hide-scrollbars", true),
	)
	if config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(config.ExecPath))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)

	r, err := newRenderer(config, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	r.allocCtx = allocCtx
	r.cancel = cancel
	r.capture = r.screenshot
	return r, nil
}

func newRenderer(config Config, capture captureFunc) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/"+templateName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse card template: %w", err)
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.CacheSize <= 0 {
		config.CacheSize = DefaultCacheSize
	}
	cache, err := lru.New[cacheKey, []byte](config.CacheSize)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		tmpl:    tmpl,
		timeout: config.Timeout,
		cache:   cache,
		capture: capture,
	}
	if config.ImageDir != "" {
		r.images = os.DirFS(config.ImageDir)
	}
	return r, nil
}

// Render returns the PNG for card. Results are cached per card, slot and serial.
func (r *Renderer) Render(ctx context.Context, card domain.Card, rc domain.RenderContext) ([]byte, error) {
	key := cacheKey{cardID: card.ID, slot: rc.Slot, serial: rc.Serial}
	if img, ok := r.cache.Get(key); ok {
		return img, nil
	}

	log := logger.FromContext(ctx)
	start := time.Now()

	doc, err := r.document(ctx, card, rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgTemplateFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	img, err := r.capture(ctx, doc)
	if err != nil {
		log.Warn(LogMsgRenderFailed, "card_id", card.ID, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrMsgCaptureFailed, err)
	}

	r.cache.Add(key, img)
	log.Debug(LogMsgRendered, "card_id", card.ID, "slot", rc.Slot, "bytes", len(img), "elapsed", time.Since(start))
	return img, nil
}

// Close shuts the browser down
func (r *Renderer) Close() {
	if r.cancel != nil {
		r.cancel()
	}
}

type cardData struct {
	Member string
	Group  string
	Era    string
	Number string
	Series string
	Rarity string
	Slot   int
	Serial string
	Color  template.CSS
	Image  template.URL
	Width  int
	Height int
}

func (r *Renderer) document(ctx context.Context, card domain.Card, rc domain.RenderContext) (string, error) {
	data := cardData{
		Member: card.Member,
		Group:  card.Group,
		Era:    card.Era,
		Number: card.Number,
		Series: card.Series,
		Rarity: card.Rarity.String(),
		Slot:   rc.Slot,
		Serial: rc.Serial,
		Color:  template.CSS(fmt.Sprintf("#%06x", RarityColor(card.Rarity))),
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
	if img, err := r.imageURL(card.ImagePath); err != nil {
		logger.FromContext(ctx).Warn(LogMsgImageMissing, "card_id", card.ID, "path", card.ImagePath, "error", err)
	} else {
		data.Image = img
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, templateName, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// imageURL inlines the card art as a data URL so the page needs no file access
func (r *Renderer) imageURL(path string) (template.URL, error) {
	if r.images == nil || path == "" {
		return "", nil
	}
	raw, err := fs.ReadFile(r.images, path)
	if err != nil {
		return "", err
	}
	mime := mimetype.Detect(raw)
	return template.URL("data:" + mime.String() + ";base64," + base64.StdEncoding.EncodeToString(raw)), nil
}

func (r *Renderer) screenshot(ctx context.Context, doc string) ([]byte, error) {
	tabCtx, cancel := chromedp.NewContext(r.allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var img []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("data:text/html,"+url.PathEscape(doc)),
		chromedp.WaitVisible(cardSelector, chromedp.ByQuery),
		chromedp.Sleep(settleDelay),
		chromedp.Screenshot(cardSelector, &img, chromedp.ByQuery),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return img, nil
}

// RarityColor returns the frame colour for a tier
func RarityColor(r domain.Rarity) int {
	switch r {
	case domain.RarityUncommon:
		return ColorUncommon
	case domain.RarityRare:
		return ColorRare
	case domain.RarityEpic:
		return ColorEpic
	case domain.RarityLegendary:
		return ColorLegendary
	default:
		return ColorCommon
	}
}
