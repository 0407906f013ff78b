// Package importer pulls submissions from configured subreddits and seeds
// the post store with reddit-provenance posts. Votes and replies on
// imported posts are local; only the content and source attribution come
// from Reddit.
package importer

import (
	"context"
	"database/sql"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/highhandantidote/community/internal/db"
	"github.com/highhandantidote/community/internal/models"
	"github.com/highhandantidote/community/internal/utils"
	"github.com/highhandantidote/community/pkg/config"
	"github.com/highhandantidote/community/pkg/logging"
	"github.com/highhandantidote/community/pkg/telemetry"
)

// Importer runs the Reddit import job
type Importer struct {
	cfg    *config.ImporterConfig
	repo   *db.Repository
	client *Client
	logger *zap.Logger
	now    func() time.Time
}

// New creates a new importer
func New(cfg *config.ImporterConfig, repo *db.Repository) *Importer {
	return &Importer{
		cfg:    cfg,
		repo:   repo,
		client: NewClient(cfg),
		logger: logging.GetLogger().With(zap.String("component", "importer")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Run imports one batch from every configured subreddit, then either
// returns (run-once mode) or keeps polling on the fetch interval.
func (i *Importer) Run(ctx context.Context) error {
	subreddits := splitSubreddits(i.cfg.Subreddits)
	if len(subreddits) == 0 {
		return utils.InvalidInput("no subreddits configured")
	}

	interval := time.Duration(i.cfg.FetchInterval) * time.Second

	for {
		for _, subreddit := range subreddits {
			if err := i.importSubreddit(ctx, subreddit); err != nil {
				i.logger.Error("Subreddit import failed",
					zap.String("subreddit", subreddit),
					zap.Error(err))
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
		}

		if i.cfg.RunOnce {
			return nil
		}
	}
}

func (i *Importer) importSubreddit(ctx context.Context, subreddit string) error {
	ctx, span := telemetry.StartSpan(ctx, "importer.import_subreddit")
	defer span.End()

	fetched, _, err := i.client.FetchNew(ctx, subreddit, i.cfg.BatchSize, "")
	if err != nil {
		return err
	}

	imported := 0
	for _, rp := range fetched {
		created, err := i.importPost(ctx, rp)
		if err != nil {
			// Surface the failure but keep the batch going; each post is
			// its own transaction so nothing partial is left behind
			i.logger.Warn("Failed to import post",
				zap.String("external_id", rp.Name),
				zap.Error(err))
			continue
		}
		if created {
			imported++
		}
	}

	i.logger.Info("Subreddit import complete",
		zap.String("subreddit", subreddit),
		zap.Int("fetched", len(fetched)),
		zap.Int("imported", imported))

	return nil
}

// importPost creates one reddit-provenance post, skipping submissions that
// were already imported. Returns whether a row was created.
func (i *Importer) importPost(ctx context.Context, rp RedditPost) (bool, error) {
	if skipReason := screen(rp); skipReason != "" {
		i.logger.Debug("Skipping submission",
			zap.String("external_id", rp.Name),
			zap.String("reason", skipReason))
		return false, nil
	}

	postRepo := db.NewPostRepository(i.repo)

	existing, err := postRepo.GetByExternalID(ctx, rp.Name)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	post := mapPost(rp, i.now())
	if err := postRepo.Create(ctx, post); err != nil {
		return false, err
	}
	return true, nil
}

// screen returns a non-empty reason when a submission should not be
// imported.
func screen(rp RedditPost) string {
	if rp.Name == "" {
		return "missing fullname"
	}
	if strings.TrimSpace(rp.Title) == "" {
		return "empty title"
	}
	if rp.Stickied {
		return "stickied"
	}
	if rp.Author == "[deleted]" {
		return "deleted author"
	}
	return ""
}

// mapPost converts a Reddit submission into a post row with reddit
// provenance. Counters start at zero: engagement on imported posts is
// earned locally, not copied from Reddit.
func mapPost(rp RedditPost, now time.Time) *models.Post {
	title := truncateTitle(rp.Title, 255)

	createdAt := time.Unix(int64(rp.CreatedUTC), 0).UTC()
	if rp.CreatedUTC <= 0 || createdAt.After(now) {
		createdAt = now
	}

	return &models.Post{
		Title:          title,
		Body:           rp.SelfText,
		Source:         models.SourceReddit,
		ExternalID:     sql.NullString{String: rp.Name, Valid: true},
		ExternalAuthor: sql.NullString{String: rp.Author, Valid: true},
		SourceURL:      sql.NullString{String: "https://www.reddit.com" + rp.Permalink, Valid: true},
		ImportedAt:     sql.NullTime{Time: now, Valid: true},
		CreatedAt:      createdAt,
	}
}

// truncateTitle cuts a title down to at most max bytes without splitting a
// multibyte rune, so the result stays valid UTF-8 for storage.
func truncateTitle(title string, max int) string {
	if len(title) <= max {
		return title
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(title[cut]) {
		cut--
	}
	return title[:cut]
}

func splitSubreddits(raw string) []string {
	parts := strings.Split(raw, ",")
	subreddits := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			subreddits = append(subreddits, trimmed)
		}
	}
	return subreddits
}
