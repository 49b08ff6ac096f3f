package plants

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

func setupPlantsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

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
	careTasks := `
CREATE TABLE IF NOT EXISTS care_tasks (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  plant_id TEXT NOT NULL,
  task_type TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT,
  frequency INTEGER NOT NULL,
  frequency_unit TEXT NOT NULL,
  next_due_at DATETIME,
  last_completed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(plantsTable).Error)
	require.NoError(t, db.Exec(careTasks).Error)
	return db
}

func seedPlant(t *testing.T, db *gorm.DB, userID uuid.UUID, name string) *models.Plant {
	t.Helper()
	plant := &models.Plant{ID: uuid.New(), UserID: userID, Name: name}
	require.NoError(t, db.Create(plant).Error)
	return plant
}

func TestPlantRepositoryListByUserOrdersByName(t *testing.T) {
	db := setupPlantsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	seedPlant(t, db, userID, "Monstera")
	seedPlant(t, db, userID, "Aloe")
	seedPlant(t, db, uuid.New(), "ZZ Plant")

	rows, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Aloe", rows[0].Name)
	assert.Equal(t, "Monstera", rows[1].Name)
}

func TestPlantRepositoryDeleteCascadesTasks(t *testing.T) {
	db := setupPlantsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	plant := seedPlant(t, db, userID, "Fern")

	task := &models.CareTask{
		ID:            uuid.New(),
		UserID:        userID,
		PlantID:       plant.ID,
		TaskType:      enums.TaskTypeWater,
		Title:         "Water",
		Frequency:     7,
		FrequencyUnit: enums.RecurrenceUnitDays,
	}
	require.NoError(t, db.Create(task).Error)

	deleted, err := repo.Delete(ctx, userID, plant.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	var taskCount int64
	require.NoError(t, db.Model(&models.CareTask{}).Where("plant_id = ?", plant.ID).Count(&taskCount).Error)
	assert.Equal(t, int64(0), taskCount)
}

func TestPlantRepositoryDeleteForeignOwner(t *testing.T) {
	db := setupPlantsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	plant := seedPlant(t, db, uuid.New(), "Fern")

	deleted, err := repo.Delete(ctx, uuid.New(), plant.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestPlantRepositoryListUserIDsWithPlants(t *testing.T) {
	db := setupPlantsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	seedPlant(t, db, owner, "Fern")
	seedPlant(t, db, owner, "Aloe")
	other := uuid.New()
	seedPlant(t, db, other, "Cactus")

	ids, err := repo.ListUserIDsWithPlants(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}
