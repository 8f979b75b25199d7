// Package preload warms the cover image cache before the gallery is
// reported ready.
package preload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/meur/gamelib/internal/models"
)

const (
	defaultConcurrency = 8
	defaultSettle      = 200 * time.Millisecond
	defaultTimeout     = 10 * time.Second
	defaultMaxBytes    = 5 << 20
)

// Options tune a Preloader; zero values select defaults
type Options struct {
	Concurrency int
	Settle      time.Duration
	Timeout     time.Duration
	MaxBytes    int64
	HTTPClient  *http.Client
}

// Preloader fetches every cover of a list into a Cache
type Preloader struct {
	client      *http.Client
	cache       *Cache
	logger      *zap.Logger
	concurrency int
	settle      time.Duration
	timeout     time.Duration
	maxBytes    int64

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
	ready  atomic.Bool
}

// New creates a Preloader writing into cache
func New(cache *Cache, opts Options, logger *zap.Logger) *Preloader {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.Settle < 0 {
		opts.Settle = 0
	} else if opts.Settle == 0 {
		opts.Settle = defaultSettle
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Preloader{
		client:      opts.HTTPClient,
		cache:       cache,
		logger:      logger,
		concurrency: opts.Concurrency,
		settle:      opts.Settle,
		timeout:     opts.Timeout,
		maxBytes:    opts.MaxBytes,
	}
}

// Ready reports whether a warm-up has completed. It stays true once set.
func (p *Preloader) Ready() bool {
	return p.ready.Load()
}

// Cache returns the cache the preloader fills
func (p *Preloader) Cache() *Cache {
	return p.cache
}

// Start warms games in the background, abandoning any warm-up still in
// flight. The ready flag flips after the settle delay unless the run was
// abandoned or the preloader closed.
func (p *Preloader) Start(games []models.Game) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	list := append([]models.Game(nil), games...)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.Warm(ctx, list)

		timer := time.NewTimer(p.settle)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if ctx.Err() == nil {
			p.ready.Store(true)
		}
	}()
}

// Close abandons the current warm-up and waits for it to exit
func (p *Preloader) Close() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// Warm fetches every cover once. It returns when every game has been tried;
// failures are logged and otherwise ignored.
func (p *Preloader) Warm(ctx context.Context, games []models.Game) {
	start := time.Now()
	ids := make(map[string]struct{}, len(games))

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for _, game := range games {
		ids[game.ID] = struct{}{}
		if game.CoverURL == "" {
			continue
		}
		game := game
		g.Go(func() error {
			p.warmOne(ctx, game)
			return nil
		})
	}
	g.Wait()

	if ctx.Err() == nil {
		p.cache.Retain(ids)
	}
	p.logger.Debug("cover warm-up finished",
		zap.Int("games", len(games)),
		zap.Int("cached", p.cache.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func (p *Preloader) warmOne(ctx context.Context, game models.Game) {
	if ctx.Err() != nil || p.cache.Has(game.ID, game.CoverURL) {
		return
	}

	// The probe only informs logging; the load is attempted either way.
	if err := p.probe(ctx, game.CoverURL); err != nil {
		p.logger.Debug("cover probe failed", zap.String("game_id", game.ID), zap.Error(err))
	}

	img, err := p.load(ctx, game.CoverURL)
	if err != nil {
		p.logger.Debug("cover load failed", zap.String("game_id", game.ID), zap.Error(err))
		return
	}
	p.cache.put(game.ID, img)
}

func (p *Preloader) probe(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("probe status %d", resp.StatusCode)
	}
	return nil
}

func (p *Preloader) load(ctx context.Context, url string) (Image, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Image{}, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return Image{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Image{}, fmt.Errorf("load status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBytes+1))
	if err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > p.maxBytes {
		return Image{}, fmt.Errorf("image exceeds %d bytes", p.maxBytes)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return Image{URL: url, ContentType: contentType, Data: data}, nil
}
