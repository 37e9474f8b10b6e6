package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/enums"
	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/model"
)

type MembershipRepo struct {
	pool *pgxpool.Pool
}

func NewMembershipRepo(pool *pgxpool.Pool) *MembershipRepo {
	return &MembershipRepo{pool: pool}
}

// Insert adds a membership row. A unique-key conflict surfaces as an
// error the caller can classify with IsUniqueViolation; the acceptance
// flow treats that conflict as success.
func (r *MembershipRepo) Insert(ctx context.Context, m model.TeamMembership) error {
	if m.TeamID == "" || m.UserID == "" {
		return fmt.Errorf("invalid membership payload")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO team_memberships (
	team_id,
	user_id,
	role,
	joined_at
) VALUES ($1, $2, $3, NOW())
`, m.TeamID, m.UserID, string(m.Role)); err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}

	return nil
}

// Upsert writes a membership row idempotently, raising the stored role
// when the caller supplies one. Used by the creator self-heal path.
func (r *MembershipRepo) Upsert(ctx context.Context, m model.TeamMembership) error {
	if m.TeamID == "" || m.UserID == "" {
		return fmt.Errorf("invalid membership payload")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO team_memberships (
	team_id,
	user_id,
	role,
	joined_at
) VALUES ($1, $2, $3, NOW())
ON CONFLICT (team_id, user_id) DO UPDATE SET
	role = EXCLUDED.role
`, m.TeamID, m.UserID, string(m.Role)); err != nil {
		return fmt.Errorf("upsert membership: %w", err)
	}

	return nil
}

// RoleOf returns the stored role for the user in the team, with exists=false
// when no membership row is present.
func (r *MembershipRepo) RoleOf(ctx context.Context, teamID, userID string) (enums.MembershipRole, bool, error) {
	if teamID == "" || userID == "" {
		return "", false, fmt.Errorf("invalid membership lookup payload")
	}

	var role string
	err := r.pool.QueryRow(ctx, `
SELECT role
FROM team_memberships
WHERE team_id = $1 AND user_id = $2
`, teamID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("lookup membership role: %w", err)
	}

	return enums.MembershipRole(role), true, nil
}

func (r *MembershipRepo) Exists(ctx context.Context, teamID, userID string) (bool, error) {
	_, ok, err := r.RoleOf(ctx, teamID, userID)
	return ok, err
}
