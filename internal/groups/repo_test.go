package groups

import (
	"context"
	"fmt"
	"testing"

	"github.com/evergreenlabs/plantcare-backend/pkg/db/models"
	"github.com/evergreenlabs/plantcare-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupGroupsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	groupsTable := `
CREATE TABLE IF NOT EXISTS plant_groups (
  id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`
	membersTable := `
CREATE TABLE IF NOT EXISTS plant_group_members (
  id TEXT PRIMARY KEY,
  group_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'member',
  created_at DATETIME,
  UNIQUE (group_id, user_id)
);`
	plantsTable := `
CREATE TABLE IF NOT EXISTS plants (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  group_id TEXT,
  name TEXT NOT NULL,
  species TEXT,
  location TEXT,
  photo_url TEXT,
  acquired_at DATETIME,
  notes TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(groupsTable).Error)
	require.NoError(t, db.Exec(membersTable).Error)
	require.NoError(t, db.Exec(plantsTable).Error)
	return db
}

func seedGroup(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name string) *models.PlantGroup {
	t.Helper()
	group := &models.PlantGroup{ID: uuid.New(), OwnerID: ownerID, Name: name}
	require.NoError(t, db.Create(group).Error)
	member := &models.PlantGroupMember{
		ID:      uuid.New(),
		GroupID: group.ID,
		UserID:  ownerID,
		Role:    enums.GroupRoleOwner,
	}
	require.NoError(t, db.Create(member).Error)
	return group
}

func TestGroupRepositoryListByMember(t *testing.T) {
	db := setupGroupsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	member := uuid.New()
	group := seedGroup(t, db, owner, "Office")
	seedGroup(t, db, uuid.New(), "Elsewhere")

	require.NoError(t, repo.AddMember(ctx, &models.PlantGroupMember{
		ID:      uuid.New(),
		GroupID: group.ID,
		UserID:  member,
		Role:    enums.GroupRoleMember,
	}))

	rows, err := repo.ListByMember(ctx, member)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, group.ID, rows[0].ID)

	ownerRows, err := repo.ListByMember(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, ownerRows, 1)
}

func TestGroupRepositoryIsMember(t *testing.T) {
	db := setupGroupsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	group := seedGroup(t, db, owner, "Office")

	member, err := repo.IsMember(ctx, group.ID, owner)
	require.NoError(t, err)
	assert.True(t, member)

	member, err = repo.IsMember(ctx, group.ID, uuid.New())
	require.NoError(t, err)
	assert.False(t, member)
}

func TestGroupRepositoryDeleteDetachesPlants(t *testing.T) {
	db := setupGroupsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	group := seedGroup(t, db, owner, "Office")
	plant := &models.Plant{ID: uuid.New(), UserID: owner, GroupID: &group.ID, Name: "Fern"}
	require.NoError(t, db.Create(plant).Error)

	deleted, err := repo.Delete(ctx, group.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	var memberCount int64
	require.NoError(t, db.Model(&models.PlantGroupMember{}).Where("group_id = ?", group.ID).Count(&memberCount).Error)
	assert.Equal(t, int64(0), memberCount)

	var stored models.Plant
	require.NoError(t, db.First(&stored, "id = ?", plant.ID).Error)
	assert.Nil(t, stored.GroupID)
}

func TestGroupRepositoryRemoveMember(t *testing.T) {
	db := setupGroupsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	member := uuid.New()
	group := seedGroup(t, db, owner, "Office")
	require.NoError(t, repo.AddMember(ctx, &models.PlantGroupMember{
		ID:      uuid.New(),
		GroupID: group.ID,
		UserID:  member,
		Role:    enums.GroupRoleMember,
	}))

	removed, err := repo.RemoveMember(ctx, group.ID, member)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.RemoveMember(ctx, group.ID, member)
	require.NoError(t, err)
	assert.False(t, removed)
}
