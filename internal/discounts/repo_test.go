package discounts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/halisidigital/halisi-backend/pkg/db/models"
	"github.com/halisidigital/halisi-backend/pkg/enums"
)

func setupDiscountsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:discounts_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS discount_rules (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  kind TEXT NOT NULL,
  value INTEGER NOT NULL DEFAULT 0,
  min_cart_count INTEGER,
  free_count INTEGER,
  eligible_all INTEGER NOT NULL DEFAULT 1,
  eligible_ebook_ids TEXT NOT NULL DEFAULT '{}',
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	require.NoError(t, db.Exec("DELETE FROM discount_rules").Error)
	return db
}

func seedRule(t *testing.T, db *gorm.DB, name string, active bool, createdAt time.Time) *models.DiscountRule {
	t.Helper()

	rule := &models.DiscountRule{
		ID:              uuid.New(),
		Name:            name,
		Kind:            enums.DiscountKindPercentageOff,
		Value:           10,
		EligibleAll:     true,
		EligibleEbookID: pq.StringArray{},
		Active:          active,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
	require.NoError(t, db.Create(rule).Error)
	return rule
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupDiscountsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	min := 3
	free := 1
	rule := &models.DiscountRule{
		ID:              uuid.New(),
		Name:            "Buy 3 get cheapest free",
		Kind:            enums.DiscountKindBuyXGetYFree,
		Value:           100,
		MinCartCount:    &min,
		FreeCount:       &free,
		EligibleAll:     true,
		EligibleEbookID: pq.StringArray{},
		Active:          true,
	}
	require.NoError(t, repo.Create(ctx, rule))

	found, err := repo.FindByID(ctx, rule.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.DiscountKindBuyXGetYFree, found.Kind)
	require.NotNil(t, found.MinCartCount)
	assert.Equal(t, 3, *found.MinCartCount)
}

func TestRepositoryListActiveKeepsCreationOrder(t *testing.T) {
	db := setupDiscountsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	first := seedRule(t, db, "first", true, base)
	seedRule(t, db, "inactive", false, base.Add(time.Minute))
	second := seedRule(t, db, "second", true, base.Add(2*time.Minute))

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, first.ID, active[0].ID)
	assert.Equal(t, second.ID, active[1].ID)
}

func TestRepositoryDeleteNotFound(t *testing.T) {
	db := setupDiscountsTestDB(t)
	repo := NewRepository(db)

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
