package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mhellwig/forumpulse/internal/domain"
)

// reactionColumns must match the Scan order in scanReaction.
const reactionColumns = `id, user_id, target_type, target_id, kind, created_at, updated_at`

// ReactionRepo implements domain.ReactionRepository backed by PostgreSQL.
type ReactionRepo struct {
	pool *pgxpool.Pool
}

func NewReactionRepo(pool *pgxpool.Pool) *ReactionRepo {
	return &ReactionRepo{pool: pool}
}

func scanReaction(row pgx.Row) (*domain.Reaction, error) {
	var r domain.Reaction
	var kind int16
	err := row.Scan(
		&r.ID, &r.UserID, &r.Target.Type, &r.Target.ID,
		&kind, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Kind = domain.ReactionKind(kind)
	return &r, nil
}

// counterTable maps a target type to the table holding its counters.
// target.Type is validated before use, so the fmt.Sprintf below never
// interpolates caller input.
func counterTable(t domain.TargetType) string {
	if t == domain.TargetComment {
		return "comments"
	}
	return "posts"
}

// ApplyTransition reads the current reaction row under a row lock, resolves
// the transition, performs exactly one row mutation plus one relative counter
// update, and commits. Concurrent transitions for the same (user, target)
// serialize on the row lock; a racing first insert is caught by the unique
// index and reported as already-reacted.
func (r *ReactionRepo) ApplyTransition(ctx context.Context, userID int64, target domain.TargetRef, action domain.Action) (*domain.TransitionResult, error) {
	if !target.Type.Valid() {
		return nil, fmt.Errorf("invalid target type %q", target.Type)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	var reactionID int64
	current := domain.StateNone

	var kind int16
	err = tx.QueryRow(ctx, `
		SELECT id, kind FROM reactions
		WHERE user_id = $1 AND target_type = $2 AND target_id = $3
		FOR UPDATE
	`, userID, target.Type, target.ID).Scan(&reactionID, &kind)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// no existing reaction
	case err != nil:
		return nil, fmt.Errorf("failed to read reaction row: %w", err)
	default:
		current = domain.StateFromKind(domain.ReactionKind(kind))
	}

	tr, err := domain.Resolve(current, action)
	if err != nil {
		return nil, err
	}

	switch tr.Op {
	case domain.OpInsert:
		err = tx.QueryRow(ctx, `
			INSERT INTO reactions (user_id, target_type, target_id, kind)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, userID, target.Type, target.ID, int16(tr.Kind())).Scan(&reactionID)
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyReacted
		}
		if err != nil {
			return nil, fmt.Errorf("failed to insert reaction: %w", err)
		}
	case domain.OpUpdate:
		if _, err := tx.Exec(ctx, `
			UPDATE reactions SET kind = $1, updated_at = now() WHERE id = $2
		`, int16(tr.Kind()), reactionID); err != nil {
			return nil, fmt.Errorf("failed to update reaction kind: %w", err)
		}
	case domain.OpDelete:
		if _, err := tx.Exec(ctx, `DELETE FROM reactions WHERE id = $1`, reactionID); err != nil {
			return nil, fmt.Errorf("failed to delete reaction: %w", err)
		}
	}

	if err := adjustCounters(ctx, tx, target, tr.LikeDelta, tr.DislikeDelta); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &domain.TransitionResult{
		From:         current,
		To:           tr.Next,
		ReactionID:   reactionID,
		LikeDelta:    tr.LikeDelta,
		DislikeDelta: tr.DislikeDelta,
	}, nil
}

// adjustCounters applies a relative update evaluated by the store, never a
// read-modify-write from application memory.
func adjustCounters(ctx context.Context, tx pgx.Tx, target domain.TargetRef, likeDelta, dislikeDelta int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET like_count = like_count + $1, dislike_count = dislike_count + $2, updated_at = now()
		WHERE id = $3
	`, counterTable(target.Type))

	tag, err := tx.Exec(ctx, query, likeDelta, dislikeDelta, target.ID)
	if err != nil {
		return fmt.Errorf("failed to adjust counters for %s: %w", target, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTargetNotFound
	}
	return nil
}

func (r *ReactionRepo) GetReaction(ctx context.Context, userID int64, target domain.TargetRef) (*domain.Reaction, error) {
	reaction, err := scanReaction(r.pool.QueryRow(ctx, `
		SELECT `+reactionColumns+` FROM reactions
		WHERE user_id = $1 AND target_type = $2 AND target_id = $3
	`, userID, target.Type, target.ID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reaction: %w", err)
	}
	return reaction, nil
}

func (r *ReactionRepo) ListReactionsForTarget(ctx context.Context, target domain.TargetRef) ([]domain.Reaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reactionColumns+` FROM reactions
		WHERE target_type = $1 AND target_id = $2
	`, target.Type, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reactions for %s: %w", target, err)
	}
	defer rows.Close()

	return collectReactions(rows)
}

func (r *ReactionRepo) ListReactionsForUser(ctx context.Context, userID int64, targetType domain.TargetType, targetIDs []int64) ([]domain.Reaction, error) {
	if len(targetIDs) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+reactionColumns+` FROM reactions
		WHERE user_id = $1 AND target_type = $2 AND target_id = ANY($3)
	`, userID, targetType, targetIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list reactions for user %d: %w", userID, err)
	}
	defer rows.Close()

	return collectReactions(rows)
}

func collectReactions(rows pgx.Rows) ([]domain.Reaction, error) {
	var reactions []domain.Reaction
	for rows.Next() {
		reaction, err := scanReaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reaction row: %w", err)
		}
		reactions = append(reactions, *reaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reaction rows: %w", err)
	}
	return reactions, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
