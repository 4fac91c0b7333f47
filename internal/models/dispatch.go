package models

import "time"

const (
	ScheduleOnce  = "once"
	ScheduleDaily = "daily"
)

// ScheduledDispatch maps to the `scheduled_dispatches` table.
// ScheduledTime always holds the next fire time: the scheduler advances it
// by 24h for daily rows and removes one-time rows after their single attempt.
type ScheduledDispatch struct {
	ID            uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UC            string     `gorm:"column:uc;size:255" json:"uc"`
	CpfCnpj       string     `gorm:"column:cpf_cnpj;size:18" json:"cpfCnpj"`
	BirthDate     string     `gorm:"column:birth_date;size:10" json:"birthDate"` // dd/mm/yyyy
	ScheduleType  string     `gorm:"column:schedule_type;size:10" json:"scheduleType"`
	ScheduledTime time.Time  `gorm:"column:scheduled_time;index" json:"scheduledTime"`
	LastExecuted  *time.Time `gorm:"column:last_executed" json:"lastExecuted"`
	IsActive      bool       `gorm:"column:is_active;index" json:"isActive"`
	BatchID       string     `gorm:"column:batch_id;size:36;index" json:"batchId"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (ScheduledDispatch) TableName() string {
	return "scheduled_dispatches"
}
