package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"neurocrypt/src/database"
	"neurocrypt/src/model"
)

// SimulatorStateRepository handles persistence for per-user simulator snapshots.
// Each user owns at most one row; Save upserts on user_id.
type SimulatorStateRepository struct {
	db *gorm.DB
}

// NewSimulatorStateRepository creates a new repository instance using the main read/write database.
func NewSimulatorStateRepository() *SimulatorStateRepository {
	logger.WithField("component", "SimulatorStateRepository").
		Info("Creating new SimulatorStateRepository with MainDB")

	return &SimulatorStateRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *SimulatorStateRepository) WithDB(db *gorm.DB) *SimulatorStateRepository {
	return &SimulatorStateRepository{db: db}
}

// Get fetches the saved snapshot for a user. Returns (nil, nil) when the user
// has never saved state.
func (r *SimulatorStateRepository) Get(ctx context.Context, userID uint) (*model.SimulatorState, error) {
	var state model.SimulatorState
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.WithFields(map[string]interface{}{
			"repo":    "SimulatorStateRepository",
			"op":      "Get",
			"user_id": userID,
		}).WithError(err).Error("Failed to fetch simulator state")
		return nil, err
	}

	return &state, nil
}

// Save writes the snapshot for a user, replacing any previous one.
func (r *SimulatorStateRepository) Save(ctx context.Context, userID uint, stateJSON string) error {
	logger.WithFields(map[string]interface{}{
		"repo":    "SimulatorStateRepository",
		"op":      "Save",
		"user_id": userID,
		"bytes":   len(stateJSON),
	}).Debug("Saving simulator state")

	state := model.SimulatorState{
		UserID:    userID,
		StateJSON: stateJSON,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"state_json", "updated_at"}),
		}).
		Create(&state).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "SimulatorStateRepository",
			"op":      "Save",
			"user_id": userID,
		}).WithError(err).Error("Failed to save simulator state")
		return err
	}

	return nil
}

// Delete removes the snapshot for a user. Deleting a missing row is not an error.
func (r *SimulatorStateRepository) Delete(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.SimulatorState{}).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "SimulatorStateRepository",
			"op":      "Delete",
			"user_id": userID,
		}).WithError(err).Error("Failed to delete simulator state")
		return err
	}

	return nil
}

// ListAll returns every saved snapshot, oldest first. Used by the admin
// endpoints and the background refresher.
func (r *SimulatorStateRepository) ListAll(ctx context.Context) ([]model.SimulatorState, error) {
	var states []model.SimulatorState
	err := r.db.WithContext(ctx).
		Order("user_id ASC").
		Find(&states).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "SimulatorStateRepository",
			"op":   "ListAll",
		}).WithError(err).Error("Failed to list simulator states")
		return nil, err
	}

	return states, nil
}

// ClearAll wipes every saved snapshot.
func (r *SimulatorStateRepository) ClearAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&model.SimulatorState{})
	if result.Error != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "SimulatorStateRepository",
			"op":   "ClearAll",
		}).WithError(result.Error).Error("Failed to clear simulator states")
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
