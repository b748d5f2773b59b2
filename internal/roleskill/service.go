package roleskill

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/VrindaSoni2/hire.ai/internal/db/repository"
	sqlcgen "github.com/VrindaSoni2/hire.ai/internal/db/sqlc"
	"github.com/VrindaSoni2/hire.ai/internal/interview"
	"github.com/VrindaSoni2/hire.ai/internal/metrics"
)

// SkillCache stores the distinct skill list (implemented by Redis-backed Cache).
type SkillCache interface {
	Get(ctx context.Context) ([]string, error)
	Set(ctx context.Context, skills []string) error
	Invalidate(ctx context.Context) error
}

// Service implements catalog operations. Only active entries are visible.
type Service struct {
	repo   *repository.RoleSkillRepository
	cache  SkillCache
	logger zerolog.Logger
}

func NewService(repo *repository.RoleSkillRepository, cache SkillCache, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger.With().Str("component", "roleskill").Logger(),
	}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (RoleSkill, error) {
	role, skills, err := validate(in.Role, in.Skills)
	if err != nil {
		return RoleSkill{}, err
	}

	row, err := s.repo.Create(ctx, sqlcgen.CreateRoleSkillParams{
		Role:            role,
		Skills:          skills,
		Description:     text(in.Description),
		Category:        text(in.Category),
		ExperienceLevel: text(in.ExperienceLevel),
	})
	if err != nil {
		return RoleSkill{}, fmt.Errorf("create role skill: %w", err)
	}
	s.invalidate(ctx)
	return toDomain(row), nil
}

// List returns active entries, newest first.
func (s *Service) List(ctx context.Context) ([]RoleSkill, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list role skills: %w", err)
	}
	return toDomainList(rows), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (RoleSkill, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return RoleSkill{}, mapErr("get role skill", err)
	}
	return toDomain(row), nil
}

// Update applies the set fields of in to an active entry.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (RoleSkill, error) {
	return s.modify(ctx, id, func(rs *RoleSkill) (bool, error) {
		if in.Role != nil {
			rs.Role = *in.Role
		}
		if in.Skills != nil {
			rs.Skills = *in.Skills
		}
		if in.Description != nil {
			rs.Description = strings.TrimSpace(*in.Description)
		}
		if in.Category != nil {
			rs.Category = strings.TrimSpace(*in.Category)
		}
		if in.ExperienceLevel != nil {
			rs.ExperienceLevel = strings.TrimSpace(*in.ExperienceLevel)
		}
		return true, nil
	})
}

// AddSkill appends skill unless the entry already lists it (ignoring case).
func (s *Service) AddSkill(ctx context.Context, id uuid.UUID, skill string) (RoleSkill, error) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return RoleSkill{}, &FieldError{Field: "skill", Message: "skill is required"}
	}
	return s.modify(ctx, id, func(rs *RoleSkill) (bool, error) {
		if indexOf(rs.Skills, skill) >= 0 {
			return false, nil
		}
		rs.Skills = append(rs.Skills, skill)
		return true, nil
	})
}

// RemoveSkill drops skill (ignoring case). An entry keeps at least one skill.
func (s *Service) RemoveSkill(ctx context.Context, id uuid.UUID, skill string) (RoleSkill, error) {
	skill = strings.TrimSpace(skill)
	return s.modify(ctx, id, func(rs *RoleSkill) (bool, error) {
		i := indexOf(rs.Skills, skill)
		if i < 0 {
			return false, nil
		}
		if len(rs.Skills) == 1 {
			return false, &FieldError{Field: "skill", Message: "a role must keep at least one skill"}
		}
		rs.Skills = append(rs.Skills[:i:i], rs.Skills[i+1:]...)
		return true, nil
	})
}

// SearchBySkills returns entries sharing at least one of skills, ignoring case.
func (s *Service) SearchBySkills(ctx context.Context, skills []string) ([]RoleSkill, error) {
	if len(interview.NormalizeSkills(skills)) == 0 {
		return nil, &FieldError{Field: "skills", Message: "at least one skill is required"}
	}
	rows, err := s.repo.SearchBySkills(ctx, skills)
	if err != nil {
		return nil, fmt.Errorf("search role skills: %w", err)
	}
	return toDomainList(rows), nil
}

// AllSkills lists every distinct skill in the catalog, served from cache when warm.
func (s *Service) AllSkills(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			metrics.CatalogCacheLookups.WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).Msg("skill cache read failed")
		case cached != nil:
			metrics.CatalogCacheLookups.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.CatalogCacheLookups.WithLabelValues("miss").Inc()
		}
	}

	skills, err := s.repo.DistinctSkills(ctx)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	if skills == nil {
		skills = []string{}
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, skills); err != nil {
			s.logger.Warn().Err(err).Msg("skill cache write failed")
		}
	}
	return skills, nil
}

func (s *Service) ByCategory(ctx context.Context, category string) ([]RoleSkill, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, &FieldError{Field: "category", Message: "category is required"}
	}
	rows, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list role skills by category: %w", err)
	}
	return toDomainList(rows), nil
}

// Delete deactivates an entry; it disappears from every other operation.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return mapErr("delete role skill", err)
	}
	s.invalidate(ctx)
	return nil
}

// modify runs change against the locked row of an active entry and stores
// the validated result when change reports a write.
func (s *Service) modify(ctx context.Context, id uuid.UUID, change func(*RoleSkill) (bool, error)) (RoleSkill, error) {
	written := false
	row, err := s.repo.Modify(ctx, id, func(row sqlcgen.CandidateRoleSkill) (sqlcgen.UpdateRoleSkillParams, bool, error) {
		rs := toDomain(row)
		write, err := change(&rs)
		if err != nil || !write {
			return sqlcgen.UpdateRoleSkillParams{}, false, err
		}
		role, skills, err := validate(rs.Role, rs.Skills)
		if err != nil {
			return sqlcgen.UpdateRoleSkillParams{}, false, err
		}
		written = true
		return sqlcgen.UpdateRoleSkillParams{
			Role:            role,
			Skills:          skills,
			Description:     text(rs.Description),
			Category:        text(rs.Category),
			ExperienceLevel: text(rs.ExperienceLevel),
		}, true, nil
	})
	if err != nil {
		return RoleSkill{}, mapErr("update role skill", err)
	}
	if written {
		s.invalidate(ctx)
	}
	return toDomain(row), nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("skill cache invalidation failed")
	}
}

func validate(role string, skills []string) (string, []string, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return "", nil, &FieldError{Field: "role", Message: "role is required"}
	}
	skills = interview.NormalizeSkills(skills)
	if len(skills) == 0 {
		return "", nil, &FieldError{Field: "skills", Message: "at least one non-empty skill is required"}
	}
	return role, skills, nil
}

func indexOf(skills []string, skill string) int {
	for i, s := range skills {
		if strings.EqualFold(s, skill) {
			return i
		}
	}
	return -1
}

func mapErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, ErrInvalid) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func text(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	return pgtype.Text{String: s, Valid: s != ""}
}

func toDomain(row sqlcgen.CandidateRoleSkill) RoleSkill {
	skills := row.Skills
	if skills == nil {
		skills = []string{}
	}
	return RoleSkill{
		ID:              uuid.UUID(row.ID.Bytes),
		Role:            row.Role,
		Skills:          skills,
		Description:     row.Description.String,
		Category:        row.Category.String,
		ExperienceLevel: row.ExperienceLevel.String,
		IsActive:        row.IsActive,
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
}

func toDomainList(rows []sqlcgen.CandidateRoleSkill) []RoleSkill {
	out := make([]RoleSkill, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomain(row))
	}
	return out
}
