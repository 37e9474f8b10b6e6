package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/model"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepo struct {
	pool *pgxpool.Pool
}

func NewTeamRepo(pool *pgxpool.Pool) *TeamRepo {
	return &TeamRepo{pool: pool}
}

func (r *TeamRepo) GetByID(ctx context.Context, teamID string) (model.Team, error) {
	if teamID == "" {
		return model.Team{}, fmt.Errorf("invalid team id")
	}

	var team model.Team
	err := r.pool.QueryRow(ctx, `
SELECT id, name, creator_id, created_at
FROM teams
WHERE id = $1
`, teamID).Scan(&team.ID, &team.Name, &team.CreatorID, &team.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Team{}, ErrTeamNotFound
		}
		return model.Team{}, fmt.Errorf("get team: %w", err)
	}

	return team, nil
}
