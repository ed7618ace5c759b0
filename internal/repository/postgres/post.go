// Package postgres implements post lookup against PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ignite/preview-resolver/internal/domain"
)

// PostRepo implements preview.PostLookup against PostgreSQL. Lookups see
// posts in every status; drafts are the point of a preview link.
type PostRepo struct{ db *sql.DB }

// NewPostRepo creates a Postgres-backed post repository.
func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{db: db} }

const selectPostByUUID = `
		SELECT id, uuid, type, status, visibility, email_only, slug, title,
		       COALESCE(meta_description,''), COALESCE(custom_excerpt,''),
		       format, COALESCE(html,''), COALESCE(markdown,''),
		       published_at, updated_at
		FROM posts
		WHERE uuid = $1`

const selectPostTiers = `
		SELECT t.id, t.slug, t.name, t.type
		FROM posts_tiers pt
		JOIN tiers t ON t.id = pt.tier_id
		WHERE pt.post_id = $1
		ORDER BY pt.sort_order, t.name`

// FindByUUID returns the post with the given preview UUID, or
// domain.ErrPostNotFound.
func (r *PostRepo) FindByUUID(ctx context.Context, uuid string) (*domain.Post, error) {
	p := &domain.Post{}
	var (
		postType, status, visibility, format string
		publishedAt                          sql.NullTime
		updatedAt                            time.Time
	)

	err := r.db.QueryRowContext(ctx, selectPostByUUID, uuid).Scan(
		&p.ID, &p.UUID, &postType, &status, &visibility, &p.EmailOnly, &p.Slug, &p.Title,
		&p.MetaDescription, &p.CustomExcerpt,
		&format, &p.HTML, &p.Markdown,
		&publishedAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post by uuid: %w", err)
	}

	p.Type = domain.PostType(postType)
	p.Status = domain.PostStatus(status)
	p.Visibility = domain.ParseVisibility(visibility)
	p.Format = domain.ContentFormat(format)
	p.UpdatedAt = updatedAt
	if publishedAt.Valid {
		t := publishedAt.Time
		p.PublishedAt = &t
	}

	if p.Visibility == domain.VisibilityTiers {
		tiers, err := r.tiersFor(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Tiers = tiers
	}
	return p, nil
}

func (r *PostRepo) tiersFor(ctx context.Context, postID string) ([]domain.Tier, error) {
	rows, err := r.db.QueryContext(ctx, selectPostTiers, postID)
	if err != nil {
		return nil, fmt.Errorf("list post tiers: %w", err)
	}
	defer rows.Close()

	var tiers []domain.Tier
	for rows.Next() {
		var t domain.Tier
		var tierType string
		if err := rows.Scan(&t.ID, &t.Slug, &t.Name, &tierType); err != nil {
			return nil, fmt.Errorf("scan post tier: %w", err)
		}
		t.Type = domain.TierType(tierType)
		tiers = append(tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate post tiers: %w", err)
	}
	return tiers, nil
}

// Ping reports whether the database is reachable.
func (r *PostRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
