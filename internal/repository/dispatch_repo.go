package repository

import (
	"time"

	"gorm.io/gorm"

	"faturadash/internal/models"
)

// DispatchRepository handles scheduled dispatch database operations.
type DispatchRepository struct {
	db *gorm.DB
}

func NewDispatchRepository(db *gorm.DB) *DispatchRepository {
	return &DispatchRepository{db: db}
}

// Create inserts a single dispatch row.
func (r *DispatchRepository) Create(d *models.ScheduledDispatch) error {
	return r.db.Create(d).Error
}

// CreateBatch inserts count copies of the base dispatch, each one offset by
// interval from the previous copy. All rows share the base's batch ID.
func (r *DispatchRepository) CreateBatch(base *models.ScheduledDispatch, count int, interval time.Duration) ([]models.ScheduledDispatch, error) {
	if count < 1 {
		count = 1
	}
	dispatches := make([]models.ScheduledDispatch, 0, count)
	for i := 0; i < count; i++ {
		d := *base
		d.ID = 0
		d.ScheduledTime = base.ScheduledTime.Add(time.Duration(i) * interval)
		dispatches = append(dispatches, d)
	}
	if err := r.db.Create(&dispatches).Error; err != nil {
		return nil, err
	}
	return dispatches, nil
}

// FindActive returns all active dispatches.
func (r *DispatchRepository) FindActive() ([]models.ScheduledDispatch, error) {
	var dispatches []models.ScheduledDispatch
	err := r.db.Where("is_active = ?", true).Find(&dispatches).Error
	return dispatches, err
}

// FindDue returns active dispatches whose scheduled time has passed.
// Rows come back in the store's natural order.
func (r *DispatchRepository) FindDue(now time.Time) ([]models.ScheduledDispatch, error) {
	var dispatches []models.ScheduledDispatch
	err := r.db.Where("is_active = ? AND scheduled_time <= ?", true, now).Find(&dispatches).Error
	return dispatches, err
}

// FindByID returns a dispatch by id.
func (r *DispatchRepository) FindByID(id uint) (*models.ScheduledDispatch, error) {
	var dispatch models.ScheduledDispatch
	if err := r.db.First(&dispatch, id).Error; err != nil {
		return nil, err
	}
	return &dispatch, nil
}

// UpdateExecution records the execution instant and, when nextTime is
// non-nil, moves scheduledTime forward to it.
func (r *DispatchRepository) UpdateExecution(id uint, executed time.Time, nextTime *time.Time) error {
	updates := map[string]interface{}{"last_executed": executed}
	if nextTime != nil {
		updates["scheduled_time"] = *nextTime
	}
	return r.db.Model(&models.ScheduledDispatch{}).Where("id = ?", id).Updates(updates).Error
}

// Toggle sets the active flag without touching any other field.
func (r *DispatchRepository) Toggle(id uint, active bool) error {
	return r.db.Model(&models.ScheduledDispatch{}).Where("id = ?", id).Update("is_active", active).Error
}

// Delete removes a dispatch. Deleting an unknown id is a no-op.
func (r *DispatchRepository) Delete(id uint) error {
	return r.db.Delete(&models.ScheduledDispatch{}, id).Error
}
