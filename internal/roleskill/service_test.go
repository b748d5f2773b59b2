package roleskill

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VrindaSoni2/hire.ai/internal/db/repository"
	sqlcgen "github.com/VrindaSoni2/hire.ai/internal/db/sqlc"
)

// memoryStore mimics the SQL queries over an in-memory table.
type memoryStore struct {
	mu    sync.Mutex
	rows  []sqlcgen.CandidateRoleSkill
	clock time.Time
	fail  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memoryStore) tick() pgtype.Timestamptz {
	m.clock = m.clock.Add(time.Second)
	return pgtype.Timestamptz{Time: m.clock, Valid: true}
}

func (m *memoryStore) CreateRoleSkill(_ context.Context, arg sqlcgen.CreateRoleSkillParams) (sqlcgen.CandidateRoleSkill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return sqlcgen.CandidateRoleSkill{}, m.fail
	}
	now := m.tick()
	row := sqlcgen.CandidateRoleSkill{
		ID:              pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Role:            arg.Role,
		Skills:          append([]string(nil), arg.Skills...),
		Description:     arg.Description,
		Category:        arg.Category,
		ExperienceLevel: arg.ExperienceLevel,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	m.rows = append(m.rows, row)
	return row, nil
}

func (m *memoryStore) active(keep func(sqlcgen.CandidateRoleSkill) bool) []sqlcgen.CandidateRoleSkill {
	var out []sqlcgen.CandidateRoleSkill
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].IsActive && keep(m.rows[i]) {
			out = append(out, m.rows[i])
		}
	}
	return out
}

func (m *memoryStore) ListRoleSkills(context.Context) ([]sqlcgen.CandidateRoleSkill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	return m.active(func(sqlcgen.CandidateRoleSkill) bool { return true }), nil
}

func (m *memoryStore) GetRoleSkill(_ context.Context, id pgtype.UUID) (sqlcgen.CandidateRoleSkill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.ID == id && row.IsActive {
			return row, nil
		}
	}
	return sqlcgen.CandidateRoleSkill{}, pgx.ErrNoRows
}

func (m *memoryStore) GetRoleSkillForUpdate(ctx context.Context, id pgtype.UUID) (sqlcgen.CandidateRoleSkill, error) {
	return m.GetRoleSkill(ctx, id)
}

func (m *memoryStore) UpdateRoleSkill(_ context.Context, arg sqlcgen.UpdateRoleSkillParams) (sqlcgen.CandidateRoleSkill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, row := range m.rows {
		if row.ID == arg.ID && row.IsActive {
			row.Role = arg.Role
			row.Skills = append([]string(nil), arg.Skills...)
			row.Description = arg.Description
			row.Category = arg.Category
			row.ExperienceLevel = arg.ExperienceLevel
			row.UpdatedAt = m.tick()
			m.rows[i] = row
			return row, nil
		}
	}
	return sqlcgen.CandidateRoleSkill{}, pgx.ErrNoRows
}

func (m *memoryStore) SearchRoleSkillsBySkills(_ context.Context, lowered []string) ([]sqlcgen.CandidateRoleSkill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active(func(row sqlcgen.CandidateRoleSkill) bool {
		for _, s := range row.Skills {
			for _, want := range lowered {
				if strings.ToLower(s) == want {
					return true
				}
			}
		}
		return false
	}), nil
}

func (m *memoryStore) ListRoleSkillsByCategory(_ context.Context, category string) ([]sqlcgen.CandidateRoleSkill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active(func(row sqlcgen.CandidateRoleSkill) bool {
		return strings.EqualFold(row.Category.String, category)
	}), nil
}

func (m *memoryStore) ListDistinctSkills(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	seen := map[string]bool{}
	var out []string
	for _, row := range m.active(func(sqlcgen.CandidateRoleSkill) bool { return true }) {
		for _, s := range row.Skills {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memoryStore) DeactivateRoleSkill(_ context.Context, id pgtype.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, row := range m.rows {
		if row.ID == id && row.IsActive {
			m.rows[i].IsActive = false
			return 1, nil
		}
	}
	return 0, nil
}

type memoryCache struct {
	mu          sync.Mutex
	skills      []string
	gets, sets  int
	invalidated int
}

func (c *memoryCache) Get(context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return c.skills, nil
}

func (c *memoryCache) Set(_ context.Context, skills []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.skills = skills
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.skills = nil
	return nil
}

func newTestService() (*Service, *memoryStore, *memoryCache) {
	store := newMemoryStore()
	cache := &memoryCache{}
	svc := NewService(repository.NewRoleSkillRepository(store), cache, zerolog.New(io.Discard))
	return svc, store, cache
}

func TestCreateNormalizesInput(t *testing.T) {
	svc, _, _ := newTestService()

	rs, err := svc.Create(context.Background(), CreateInput{
		Role:     "  Backend Engineer ",
		Skills:   []string{" Go", "go", "", "PostgreSQL"},
		Category: " engineering ",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, rs.ID)
	assert.Equal(t, "Backend Engineer", rs.Role)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, rs.Skills)
	assert.Equal(t, "engineering", rs.Category)
	assert.True(t, rs.IsActive)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateInput{Skills: []string{"Go"}})
	var field *FieldError
	require.ErrorAs(t, err, &field)
	assert.Equal(t, "role", field.Field)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.Create(context.Background(), CreateInput{Role: "QA", Skills: []string{" "}})
	require.ErrorAs(t, err, &field)
	assert.Equal(t, "skills", field.Field)
}

func TestListNewestFirstAndGet(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateInput{Role: "A", Skills: []string{"x"}})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateInput{Role: "B", Skills: []string{"y"}})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	got, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Role)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateAppliesOnlySetFields(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	rs, err := svc.Create(ctx, CreateInput{Role: "Data Engineer", Skills: []string{"Python"}, Category: "data"})
	require.NoError(t, err)

	level := "senior"
	updated, err := svc.Update(ctx, rs.ID, UpdateInput{ExperienceLevel: &level})
	require.NoError(t, err)
	assert.Equal(t, "Data Engineer", updated.Role)
	assert.Equal(t, []string{"Python"}, updated.Skills)
	assert.Equal(t, "data", updated.Category)
	assert.Equal(t, "senior", updated.ExperienceLevel)

	empty := []string{}
	_, err = svc.Update(ctx, rs.ID, UpdateInput{Skills: &empty})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = svc.Update(ctx, uuid.New(), UpdateInput{ExperienceLevel: &level})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddAndRemoveSkill(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	rs, err := svc.Create(ctx, CreateInput{Role: "Frontend", Skills: []string{"React"}})
	require.NoError(t, err)

	rs, err = svc.AddSkill(ctx, rs.ID, "TypeScript")
	require.NoError(t, err)
	assert.Equal(t, []string{"React", "TypeScript"}, rs.Skills)

	rs, err = svc.AddSkill(ctx, rs.ID, "typescript")
	require.NoError(t, err)
	assert.Equal(t, []string{"React", "TypeScript"}, rs.Skills, "adding an existing skill is a no-op")

	rs, err = svc.RemoveSkill(ctx, rs.ID, "REACT")
	require.NoError(t, err)
	assert.Equal(t, []string{"TypeScript"}, rs.Skills)

	_, err = svc.RemoveSkill(ctx, rs.ID, "TypeScript")
	assert.ErrorIs(t, err, ErrInvalid, "last skill cannot be removed")

	_, err = svc.AddSkill(ctx, rs.ID, "  ")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestConcurrentAddSkillKeepsEveryWrite(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	rs, err := svc.Create(ctx, CreateInput{Role: "Platform", Skills: []string{"Go"}})
	require.NoError(t, err)

	added := []string{"Kubernetes", "Terraform", "AWS", "Docker", "Helm", "Prometheus", "Linux", "Bash"}
	var wg sync.WaitGroup
	for _, skill := range added {
		wg.Add(1)
		go func(skill string) {
			defer wg.Done()
			_, err := svc.AddSkill(ctx, rs.ID, skill)
			assert.NoError(t, err)
		}(skill)
	}
	wg.Wait()

	got, err := svc.Get(ctx, rs.ID)
	require.NoError(t, err)
	assert.Len(t, got.Skills, len(added)+1)
	assert.ElementsMatch(t, append([]string{"Go"}, added...), got.Skills)
}

func TestNoOpSkillChangesKeepCache(t *testing.T) {
	svc, _, cache := newTestService()
	ctx := context.Background()
	rs, err := svc.Create(ctx, CreateInput{Role: "Frontend", Skills: []string{"React"}})
	require.NoError(t, err)
	before := cache.invalidated

	_, err = svc.AddSkill(ctx, rs.ID, "react")
	require.NoError(t, err)
	_, err = svc.RemoveSkill(ctx, rs.ID, "Vue")
	require.NoError(t, err)

	assert.Equal(t, before, cache.invalidated)

	_, err = svc.AddSkill(ctx, uuid.New(), "Go")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchAndCategory(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Create(ctx, CreateInput{Role: "Backend", Skills: []string{"Go", "SQL"}, Category: "Engineering"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Role: "Analyst", Skills: []string{"SQL", "Excel"}, Category: "Data"})
	require.NoError(t, err)

	found, err := svc.SearchBySkills(ctx, []string{"sql"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = svc.SearchBySkills(ctx, []string{"go", "rust"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Backend", found[0].Role)

	_, err = svc.SearchBySkills(ctx, []string{""})
	assert.ErrorIs(t, err, ErrInvalid)

	byCat, err := svc.ByCategory(ctx, "engineering")
	require.NoError(t, err)
	require.Len(t, byCat, 1)
	assert.Equal(t, "Backend", byCat[0].Role)
}

func TestAllSkillsCachedAndInvalidated(t *testing.T) {
	svc, store, cache := newTestService()
	ctx := context.Background()
	rs, err := svc.Create(ctx, CreateInput{Role: "Backend", Skills: []string{"Go", "SQL"}})
	require.NoError(t, err)

	skills, err := svc.AllSkills(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, skills)
	assert.Equal(t, 1, cache.sets)

	store.fail = errors.New("db down")
	skills, err = svc.AllSkills(ctx)
	require.NoError(t, err, "served from cache")
	assert.Equal(t, []string{"Go", "SQL"}, skills)
	store.fail = nil

	before := cache.invalidated
	_, err = svc.AddSkill(ctx, rs.ID, "Docker")
	require.NoError(t, err)
	assert.Equal(t, before+1, cache.invalidated)

	skills, err = svc.AllSkills(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Docker", "Go", "SQL"}, skills)
}

func TestAllSkillsEmptyCatalog(t *testing.T) {
	svc, _, _ := newTestService()

	skills, err := svc.AllSkills(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, skills)
	assert.Empty(t, skills)
}

func TestDeleteIsSoft(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	rs, err := svc.Create(ctx, CreateInput{Role: "Backend", Skills: []string{"Go"}})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, rs.ID))
	assert.ErrorIs(t, svc.Delete(ctx, rs.ID), ErrNotFound)

	_, err = svc.Get(ctx, rs.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	require.Len(t, store.rows, 1, "row is kept, only deactivated")
	assert.False(t, store.rows[0].IsActive)
}

func TestStoreErrorsAreWrapped(t *testing.T) {
	svc, store, _ := newTestService()
	store.fail = errors.New("db down")

	_, err := svc.List(context.Background())

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "db down")
}
