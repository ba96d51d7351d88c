package model

import (
	"time"

	"gorm.io/datatypes"
)

// RequestLog is a persisted record of one call against the development API.
type RequestLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	Method    string         `json:"method" gorm:"column:method;type:varchar(10)"`
	Path      string         `json:"path" gorm:"column:path;type:varchar(255);index"`
	Status    int            `json:"status" gorm:"column:status;index"`
	UserID    string         `json:"userId" gorm:"column:user_id;type:varchar(64);index"`
	IP        string         `json:"ip" gorm:"column:ip;type:varchar(45)"`
	UserAgent string         `json:"userAgent" gorm:"column:user_agent;type:varchar(512)"`
	Details   datatypes.JSON `json:"details" gorm:"column:details"`
}
