package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/meur/gamelib/internal/models"
)

// Store handles all database operations
type Store struct {
	db *sql.DB
}

// New creates a new Store with SQLite
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs database migrations
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			platform TEXT,
			rating REAL,
			masterpiece INTEGER DEFAULT 0,
			category TEXT,
			friends TEXT,
			cover_url TEXT,
			article TEXT,
			review TEXT,
			external_links TEXT,
			video_reviews TEXT,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_games_title ON games(title)`,
		`CREATE TABLE IF NOT EXISTS view_state (
			session_id TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (session_id, key)
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// --- Games ---

const gameColumns = `id, title, platform, rating, masterpiece, category, friends,
	cover_url, article, review, external_links, video_reviews, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*models.Game, error) {
	var g models.Game
	var platform, category, friends, coverURL, article, review, links, videos sql.NullString
	var rating sql.NullFloat64

	err := row.Scan(&g.ID, &g.Title, &platform, &rating, &g.Masterpiece, &category, &friends,
		&coverURL, &article, &review, &links, &videos, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}

	g.Platform = platform.String
	g.Category = category.String
	g.CoverURL = coverURL.String
	g.Review = review.String
	if rating.Valid {
		r := rating.Float64
		g.Rating = &r
	}
	if article.Valid && article.String != "" {
		g.Article = json.RawMessage(article.String)
	}
	if err := decodeList(friends, &g.Friends); err != nil {
		return nil, fmt.Errorf("decode friends of game %s: %w", g.ID, err)
	}
	if err := decodeList(links, &g.ExternalLinks); err != nil {
		return nil, fmt.Errorf("decode external_links of game %s: %w", g.ID, err)
	}
	if err := decodeList(videos, &g.VideoReviews); err != nil {
		return nil, fmt.Errorf("decode video_reviews of game %s: %w", g.ID, err)
	}
	return &g, nil
}

// decodeList reads a JSON array column; NULL and empty mean no values
func decodeList(raw sql.NullString, dst *[]string) error {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw.String), dst)
}

// ListGames returns all games ordered by title
func (s *Store) ListGames(ctx context.Context) ([]models.Game, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+gameColumns+` FROM games ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	games := []models.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

// GetGame returns a game by ID, or nil when it does not exist
func (s *Store) GetGame(ctx context.Context, id string) (*models.Game, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = ?`, id)
	g, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game %s: %w", id, err)
	}
	return g, nil
}

// CreateGame inserts a game, assigning an ID when it has none
func (s *Store) CreateGame(ctx context.Context, g *models.Game) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if g.UpdatedAt.IsZero() {
		g.UpdatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO games (`+gameColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, gameArgs(g)...)
	if err != nil {
		return fmt.Errorf("insert game %s: %w", g.ID, err)
	}
	return nil
}

// AddGame stores a game submitted through the admin form
func (s *Store) AddGame(ctx context.Context, in models.GameCreate) (string, error) {
	g := &models.Game{
		Title:         in.Title,
		Platform:      in.Platform,
		Rating:        in.Rating,
		Masterpiece:   in.Masterpiece,
		Category:      in.Category,
		Friends:       in.Friends,
		CoverURL:      in.CoverURL,
		Review:        in.Review,
		ExternalLinks: in.ExternalLinks,
		VideoReviews:  in.VideoReviews,
	}
	if err := s.CreateGame(ctx, g); err != nil {
		return "", err
	}
	return g.ID, nil
}

// ReplaceGames swaps the whole snapshot for games in one transaction
func (s *Store) ReplaceGames(ctx context.Context, games []models.Game) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM games`); err != nil {
		return fmt.Errorf("clear games: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO games (`+gameColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range games {
		g := games[i]
		if g.ID == "" {
			g.ID = uuid.New().String()
		}
		if g.UpdatedAt.IsZero() {
			g.UpdatedAt = now
		}
		if _, err := stmt.ExecContext(ctx, gameArgs(&g)...); err != nil {
			return fmt.Errorf("insert game %s: %w", g.ID, err)
		}
	}

	return tx.Commit()
}

func gameArgs(g *models.Game) []any {
	friends, _ := json.Marshal(g.Friends)
	links, _ := json.Marshal(g.ExternalLinks)
	videos, _ := json.Marshal(g.VideoReviews)

	var rating any
	if g.Rating != nil {
		rating = *g.Rating
	}
	var article any
	if len(g.Article) > 0 {
		article = string(g.Article)
	}
	return []any{g.ID, g.Title, g.Platform, rating, g.Masterpiece, g.Category, string(friends),
		g.CoverURL, article, g.Review, string(links), string(videos), g.UpdatedAt}
}

// --- View state ---

// LoadViewState returns the persisted view state values of a session
func (s *Store) LoadViewState(ctx context.Context, sessionID string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM view_state WHERE session_id = ?`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query view state: %w", err)
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		values[k] = v
	}
	return values, rows.Err()
}

// SaveViewState upserts view state values of a session
func (s *Store) SaveViewState(ctx context.Context, sessionID string, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO view_state (session_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for k, v := range values {
		if _, err := stmt.ExecContext(ctx, sessionID, k, v, now); err != nil {
			return fmt.Errorf("save view state %s: %w", k, err)
		}
	}
	return tx.Commit()
}

// SessionKV binds a session's view state rows to the viewstate.KV shape
type SessionKV struct {
	store     *Store
	sessionID string
}

// ViewStateKV returns the KV for one session
func (s *Store) ViewStateKV(sessionID string) *SessionKV {
	return &SessionKV{store: s, sessionID: sessionID}
}

// Load implements viewstate.KV
func (kv *SessionKV) Load(ctx context.Context) (map[string]string, error) {
	return kv.store.LoadViewState(ctx, kv.sessionID)
}

// Save implements viewstate.KV
func (kv *SessionKV) Save(ctx context.Context, values map[string]string) error {
	return kv.store.SaveViewState(ctx, kv.sessionID, values)
}
