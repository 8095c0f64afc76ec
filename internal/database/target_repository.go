package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mhellwig/forumpulse/internal/domain"
)

// TargetRepo implements domain.TargetRepository for posts and comments.
type TargetRepo struct {
	pool *pgxpool.Pool
}

func NewTargetRepo(pool *pgxpool.Pool) *TargetRepo {
	return &TargetRepo{pool: pool}
}

func (r *TargetRepo) GetTarget(ctx context.Context, ref domain.TargetRef) (*domain.Target, error) {
	if !ref.Type.Valid() {
		return nil, fmt.Errorf("invalid target type %q", ref.Type)
	}

	query := fmt.Sprintf(`
		SELECT user_id, like_count, dislike_count FROM %s WHERE id = $1
	`, counterTable(ref.Type))

	target := domain.Target{Ref: ref}
	err := r.pool.QueryRow(ctx, query, ref.ID).Scan(
		&target.OwnerUserID, &target.LikeCount, &target.DislikeCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTargetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get target %s: %w", ref, err)
	}
	return &target, nil
}
