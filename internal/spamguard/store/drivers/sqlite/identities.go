package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/spamguard/internal/spamguard/domain"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/store"
	"github.com/aussiebroadwan/spamguard/internal/spamguard/store/drivers/sqlite/gen"
)

type identitiesRepo struct {
	q *gen.Queries
}

func (r *identitiesRepo) GetIdentityByID(ctx context.Context, id string) (domain.Identity, error) {
	row, err := r.q.GetIdentityByID(ctx, id)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return mapIdentity(row), nil
}

func (r *identitiesRepo) GetIdentityByEmail(ctx context.Context, email string) (domain.Identity, error) {
	row, err := r.q.GetIdentityByEmail(ctx, email)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	return mapIdentity(row), nil
}

func (r *identitiesRepo) CreateIdentity(ctx context.Context, i domain.Identity) error {
	err := r.q.CreateIdentity(ctx, gen.CreateIdentityParams{
		ID:           i.ID,
		Email:        i.Email,
		PasswordHash: i.PasswordHash,
		Role:         i.Role,
		CreatedAt:    toMillis(i.CreatedAt),
		LastLogin:    mapOptionalTime(i.LastLogin),
	})
	return mapConstraint(err)
}

func (r *identitiesRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	n, err := r.q.UpdateLastLogin(ctx, gen.UpdateLastLoginParams{
		LastLogin: mapOptionalTime(&at),
		ID:        id,
	})
	return requireAffected(n, err)
}

func (r *identitiesRepo) UpdatePasswordHash(ctx context.Context, id string, hash string) error {
	n, err := r.q.UpdatePasswordHash(ctx, gen.UpdatePasswordHashParams{
		PasswordHash: hash,
		ID:           id,
	})
	return requireAffected(n, err)
}

func (r *identitiesRepo) CountByRole(ctx context.Context, role string) (int, error) {
	n, err := r.q.CountIdentitiesByRole(ctx, role)
	return int(n), err
}

func requireAffected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
