package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/VrindaSoni2/hire.ai/internal/db/sqlc"
)

// ErrNotFound is returned when no active row matches.
var ErrNotFound = errors.New("not found")

type roleSkillStore interface {
	CreateRoleSkill(ctx context.Context, arg sqlcgen.CreateRoleSkillParams) (sqlcgen.CandidateRoleSkill, error)
	ListRoleSkills(ctx context.Context) ([]sqlcgen.CandidateRoleSkill, error)
	GetRoleSkill(ctx context.Context, id pgtype.UUID) (sqlcgen.CandidateRoleSkill, error)
	GetRoleSkillForUpdate(ctx context.Context, id pgtype.UUID) (sqlcgen.CandidateRoleSkill, error)
	UpdateRoleSkill(ctx context.Context, arg sqlcgen.UpdateRoleSkillParams) (sqlcgen.CandidateRoleSkill, error)
	SearchRoleSkillsBySkills(ctx context.Context, lowered []string) ([]sqlcgen.CandidateRoleSkill, error)
	ListRoleSkillsByCategory(ctx context.Context, category string) ([]sqlcgen.CandidateRoleSkill, error)
	ListDistinctSkills(ctx context.Context) ([]string, error)
	DeactivateRoleSkill(ctx context.Context, id pgtype.UUID) (int64, error)
}

// TxDB is a pgx connection source that can open transactions (*pgxpool.Pool).
type TxDB interface {
	sqlcgen.DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RoleSkillRepository exposes typed DB operations for the role/skill catalog.
type RoleSkillRepository struct {
	store roleSkillStore
	inTx  func(ctx context.Context, fn func(roleSkillStore) error) error
	mu    sync.Mutex
}

// NewRoleSkillRepository wraps a store without transactions. Modify calls are
// serialized in process.
func NewRoleSkillRepository(store roleSkillStore) *RoleSkillRepository {
	r := &RoleSkillRepository{store: store}
	r.inTx = func(_ context.Context, fn func(roleSkillStore) error) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		return fn(r.store)
	}
	return r
}

// NewPgRoleSkillRepository runs Modify in a database transaction holding a
// row lock, so concurrent writers to one entry apply in turn.
func NewPgRoleSkillRepository(db TxDB) *RoleSkillRepository {
	queries := sqlcgen.New(db)
	return &RoleSkillRepository{
		store: queries,
		inTx: func(ctx context.Context, fn func(roleSkillStore) error) error {
			return pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
				return fn(queries.WithTx(tx))
			})
		},
	}
}

func (r *RoleSkillRepository) Create(ctx context.Context, params sqlcgen.CreateRoleSkillParams) (sqlcgen.CandidateRoleSkill, error) {
	return r.store.CreateRoleSkill(ctx, params)
}

// List returns active rows, newest first.
func (r *RoleSkillRepository) List(ctx context.Context) ([]sqlcgen.CandidateRoleSkill, error) {
	return r.store.ListRoleSkills(ctx)
}

// GetByID fetches an active row or ErrNotFound.
func (r *RoleSkillRepository) GetByID(ctx context.Context, id uuid.UUID) (sqlcgen.CandidateRoleSkill, error) {
	row, err := r.store.GetRoleSkill(ctx, pgUUID(id))
	return row, notFound(err)
}

// Modify locks an active row and passes it to change. When change reports a
// write, the returned params are stored and the updated row is returned;
// otherwise the locked row is returned as read.
func (r *RoleSkillRepository) Modify(
	ctx context.Context,
	id uuid.UUID,
	change func(sqlcgen.CandidateRoleSkill) (sqlcgen.UpdateRoleSkillParams, bool, error),
) (sqlcgen.CandidateRoleSkill, error) {
	var out sqlcgen.CandidateRoleSkill
	err := r.inTx(ctx, func(store roleSkillStore) error {
		row, err := store.GetRoleSkillForUpdate(ctx, pgUUID(id))
		if err != nil {
			return notFound(err)
		}
		params, write, err := change(row)
		if err != nil {
			return err
		}
		if !write {
			out = row
			return nil
		}
		params.ID = row.ID
		out, err = store.UpdateRoleSkill(ctx, params)
		return notFound(err)
	})
	return out, err
}

// SearchBySkills matches rows sharing any skill, ignoring case.
func (r *RoleSkillRepository) SearchBySkills(ctx context.Context, skills []string) ([]sqlcgen.CandidateRoleSkill, error) {
	lowered := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			lowered = append(lowered, s)
		}
	}
	if len(lowered) == 0 {
		return nil, nil
	}
	return r.store.SearchRoleSkillsBySkills(ctx, lowered)
}

func (r *RoleSkillRepository) ListByCategory(ctx context.Context, category string) ([]sqlcgen.CandidateRoleSkill, error) {
	return r.store.ListRoleSkillsByCategory(ctx, category)
}

// DistinctSkills lists every skill used by an active row, sorted.
func (r *RoleSkillRepository) DistinctSkills(ctx context.Context) ([]string, error) {
	return r.store.ListDistinctSkills(ctx)
}

// Deactivate soft-deletes a row; ErrNotFound when nothing active matched.
func (r *RoleSkillRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	n, err := r.store.DeactivateRoleSkill(ctx, pgUUID(id))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
