package domain

import "time"

// Note is a locally stored study note. Rich-text content is kept as the raw
// string the user entered.
type Note struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID   string    `gorm:"size:64;index;not null" json:"owner_id"`
	Title     string    `gorm:"size:256;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Setting is a single persisted client key/value pair.
type Setting struct {
	Key       string    `gorm:"primaryKey;column:setting_key;size:64" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string { return "client_settings" }
