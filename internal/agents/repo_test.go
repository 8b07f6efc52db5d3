package agents

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/agentmart/agentmart-backend/pkg/db/models"
	"github.com/agentmart/agentmart-backend/pkg/enums"
	"github.com/agentmart/agentmart-backend/pkg/pagination"
)

func setupAgentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	agents := `
CREATE TABLE IF NOT EXISTS agents (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'draft',
  price TEXT NOT NULL DEFAULT '0',
  view_count INTEGER NOT NULL DEFAULT 0,
  purchase_count INTEGER NOT NULL DEFAULT 0,
  version INTEGER NOT NULL DEFAULT 1,
  thumbnail_url TEXT,
  seller_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(agents).Error)
	return db
}

func createAgent(t *testing.T, db *gorm.DB, slug string, status enums.AgentStatus, created time.Time) *models.Agent {
	t.Helper()

	agent := &models.Agent{
		ID:         uuid.New(),
		Slug:       slug,
		Title:      slug,
		Status:     status,
		Price:      decimal.NewFromInt(10),
		SellerID:   uuid.New(),
		CategoryID: uuid.New(),
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	require.NoError(t, db.Create(agent).Error)
	return agent
}

func TestListApprovedFiltersAndOrders(t *testing.T) {
	db := setupAgentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	createAgent(t, db, "oldest", enums.AgentStatusApproved, base)
	createAgent(t, db, "middle", enums.AgentStatusApproved, base.Add(time.Hour))
	createAgent(t, db, "newest", enums.AgentStatusApproved, base.Add(2*time.Hour))
	createAgent(t, db, "hidden-draft", enums.AgentStatusDraft, base.Add(3*time.Hour))
	createAgent(t, db, "hidden-rejected", enums.AgentStatusRejected, base.Add(4*time.Hour))

	rows, err := repo.ListApproved(ctx, ListFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "newest", rows[0].Slug)
	assert.Equal(t, "middle", rows[1].Slug)
	assert.Equal(t, "oldest", rows[2].Slug)
}

func TestListApprovedKeysetPagination(t *testing.T) {
	db := setupAgentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, slug := range []string{"one", "two", "three", "four"} {
		createAgent(t, db, slug, enums.AgentStatusApproved, base.Add(time.Duration(i)*time.Hour))
	}

	first, err := repo.ListApproved(ctx, ListFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "four", first[0].Slug)

	cursor := &pagination.Cursor{CreatedAt: first[1].CreatedAt, ID: first[1].ID}
	second, err := repo.ListApproved(ctx, ListFilter{Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "two", second[0].Slug)
	assert.Equal(t, "one", second[1].Slug)
}

func TestListApprovedCategoryFilter(t *testing.T) {
	db := setupAgentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	target := createAgent(t, db, "in-category", enums.AgentStatusApproved, base)
	createAgent(t, db, "other-category", enums.AgentStatusApproved, base.Add(time.Hour))

	rows, err := repo.ListApproved(ctx, ListFilter{Limit: 10, CategoryID: &target.CategoryID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "in-category", rows[0].Slug)
}

func TestIncrementViewCount(t *testing.T) {
	db := setupAgentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	agent := createAgent(t, db, "counted", enums.AgentStatusApproved, time.Now().UTC())

	require.NoError(t, repo.IncrementViewCount(ctx, agent.ID))
	require.NoError(t, repo.IncrementViewCount(ctx, agent.ID))

	got, err := repo.FindByID(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ViewCount)
	assert.Equal(t, int64(0), got.PurchaseCount)
}

func TestThumbnailBackfillQueries(t *testing.T) {
	db := setupAgentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	missing := createAgent(t, db, "missing-thumb", enums.AgentStatusApproved, base)
	filled := createAgent(t, db, "has-thumb", enums.AgentStatusApproved, base.Add(time.Hour))
	url := "https://cdn.example.com/has-thumb.png"
	require.NoError(t, repo.UpdateThumbnail(ctx, filled.ID, url))

	rows, err := repo.ListMissingThumbnails(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, missing.ID, rows[0].ID)

	require.NoError(t, repo.UpdateThumbnail(ctx, missing.ID, "https://cdn.example.com/missing-thumb.png"))
	rows, err = repo.ListMissingThumbnails(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
