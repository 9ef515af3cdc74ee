package models

import "time"

// SearchRecord is a log entry for one completed pipeline run
type SearchRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SessionID   string    `gorm:"type:varchar(36);index:idx_search_records_session" json:"session_id"`
	Query       string    `gorm:"type:varchar(255);not null" json:"query"`
	Strategy    string    `gorm:"type:varchar(50);not null" json:"strategy"`
	ResultCount int       `gorm:"not null;default:0" json:"result_count"`
	DurationMs  int64     `gorm:"not null;default:0" json:"duration_ms"`
	ErrorText   *string   `gorm:"type:text" json:"error_text,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

// TableName specifies the table name for SearchRecord
func (SearchRecord) TableName() string {
	return "search_records"
}
