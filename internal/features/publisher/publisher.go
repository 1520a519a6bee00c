package publisher

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"content-review/internal/config"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Publisher is the external CMS collaborator invoked after an approval
// becomes terminal (auto or reviewer-driven) when auto-publish is on. It
// returns the id the CMS assigned to the published post.
type Publisher interface {
	Publish(ctx context.Context, contentID string, qualityScore float64) (string, error)
	Close() error
}

// NewPublisher returns a SQL-backed publisher when a CMS DSN is configured,
// otherwise a logging stub.
func NewPublisher(cfg *config.Config, logger *zap.Logger) (Publisher, error) {
	if cfg.CMSPublishDSN == "" {
		return &logPublisher{logger: logger}, nil
	}
	return newSQLPublisher(cfg.CMSPublishDSN)
}

type logPublisher struct {
	logger *zap.Logger
}

func (p *logPublisher) Publish(_ context.Context, contentID string, qualityScore float64) (string, error) {
	postID := fmt.Sprintf("local-%s-%d", contentID, time.Now().Unix())
	p.logger.Info("publish (no CMS configured)",
		zap.String("content_id", contentID),
		zap.Float64("quality_score", qualityScore),
		zap.String("post_id", postID))
	return postID, nil
}

func (p *logPublisher) Close() error { return nil }

// sqlPublisher inserts a published-post row into the host CMS's Postgres
// database.
type sqlPublisher struct {
	db *sql.DB
}

func newSQLPublisher(dsn string) (*sqlPublisher, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open CMS database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)

	return &sqlPublisher{db: db}, nil
}

func (p *sqlPublisher) Publish(ctx context.Context, contentID string, qualityScore float64) (string, error) {
	var postID string
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO published_posts (content_id, quality_score, published_at)
		 VALUES ($1, $2, $3) RETURNING id`,
		contentID, qualityScore, time.Now(),
	).Scan(&postID)
	if err != nil {
		return "", fmt.Errorf("failed to publish content %s: %w", contentID, err)
	}
	return postID, nil
}

func (p *sqlPublisher) Close() error {
	return p.db.Close()
}
