package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/meur/gamelib/internal/models"
)

// ErrNotFound is returned when no game matches an id or slug
var ErrNotFound = errors.New("game not found")

const (
	defaultRevalidate   = 60 * time.Second
	defaultFetchTimeout = 30 * time.Second
)

// Source provides catalog entries (the CMS or the local snapshot)
type Source interface {
	ListGames(ctx context.Context) ([]models.Game, error)
	GetGame(ctx context.Context, id string) (*models.Game, error)
}

// Warmer is notified with every new list of games
type Warmer interface {
	Start(games []models.Game)
}

// Service keeps a revalidating snapshot of the catalog
type Service struct {
	source     Source
	warmer     Warmer
	logger     *zap.Logger
	revalidate time.Duration
	timeout    time.Duration
	now        func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	lists     Lists
	fetchedAt time.Time
}

// NewService creates a catalog service. warmer may be nil.
func NewService(source Source, warmer Warmer, revalidate time.Duration, logger *zap.Logger) *Service {
	if revalidate <= 0 {
		revalidate = defaultRevalidate
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source:     source,
		warmer:     warmer,
		logger:     logger,
		revalidate: revalidate,
		timeout:    defaultFetchTimeout,
		now:        time.Now,
	}
}

// Lists returns the partitioned catalog, refetching it once the snapshot is
// stale. If ctx ends before the refetch does, the current snapshot is
// returned and the refetch carries on for later callers.
func (s *Service) Lists(ctx context.Context) Lists {
	if lists, ok := s.fresh(); ok {
		return lists
	}
	s.Refresh(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lists
}

func (s *Service) fresh() (Lists, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.fetchedAt.IsZero() && s.now().Sub(s.fetchedAt) < s.revalidate {
		return s.lists, true
	}
	return s.lists, false
}

// Refresh refetches the catalog now and returns the fetch error, if any.
// Concurrent calls share one fetch. The fetch does not inherit ctx's
// cancellation; ctx only bounds how long the caller waits.
func (s *Service) Refresh(ctx context.Context) error {
	ch := s.group.DoChan("refresh", func() (interface{}, error) {
		return nil, s.refresh(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// refresh fetches outside the lock and swaps the snapshot under it. An
// upstream failure empties the snapshot; a timeout or cancellation keeps
// the previous one.
func (s *Service) refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	games, err := s.source.ListGames(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("catalog fetch interrupted, keeping previous snapshot", zap.Error(err))
			return err
		}
		s.logger.Error("catalog fetch failed", zap.Error(err))
		s.mu.Lock()
		s.lists = Partition(nil)
		s.fetchedAt = s.now()
		s.mu.Unlock()
		return err
	}

	lists := Partition(games)
	s.mu.Lock()
	s.lists = lists
	s.fetchedAt = s.now()
	s.mu.Unlock()

	s.logger.Info("catalog refreshed",
		zap.Int("games", len(lists.All)),
		zap.Int("collection", len(lists.Collection)),
		zap.Int("wishlist", len(lists.Wishlist)),
		zap.Int("completed", len(lists.Completed)),
		zap.Int("friends", len(lists.Friends)),
	)
	if s.warmer != nil {
		s.warmer.Start(lists.All)
	}
	return nil
}

// Game fetches a single game by its CMS id
func (s *Service) Game(ctx context.Context, id string) (*models.Game, error) {
	game, err := s.source.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrNotFound
	}
	return game, nil
}

// GameBySlug resolves a slug by recomputing the slug of every title in list
// order. The first match wins.
func (s *Service) GameBySlug(ctx context.Context, slug string) (*models.Game, error) {
	for _, g := range s.Lists(ctx).All {
		if TitleToSlug(g.Title) == slug {
			game := g
			return &game, nil
		}
	}
	return nil, ErrNotFound
}

// Suggest returns up to limit slugs that fuzzily contain the given one
func (s *Service) Suggest(ctx context.Context, slug string, limit int) []string {
	all := s.Lists(ctx).All
	slugs := make([]string, len(all))
	for i, g := range all {
		slugs[i] = TitleToSlug(g.Title)
	}

	ranks := fuzzy.RankFindNormalizedFold(slug, slugs)
	sort.Sort(ranks)

	out := []string{}
	for _, r := range ranks {
		if len(out) == limit {
			break
		}
		out = append(out, r.Target)
	}
	return out
}
