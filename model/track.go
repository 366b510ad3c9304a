package model

import "time"

// Track is a durably stored copy of a catalog track. The primary key is the
// catalog's own composite id, so re-saving the same track is an upsert.
type Track struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Artist    string    `gorm:"size:255;not null" json:"artist"`
	Duration  int       `gorm:"not null;default:0" json:"duration"` // seconds
	MediaURL  string    `gorm:"size:1024" json:"mediaUrl"`
	ThumbURL  string    `gorm:"size:1024" json:"thumbUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Download records that a user fetched a track at least once.
type Download struct {
	UserID       int64     `gorm:"primaryKey" json:"userId"` // telegram user id
	TrackID      string    `gorm:"primaryKey;size:64" json:"trackId"`
	DownloadedAt time.Time `gorm:"autoCreateTime" json:"downloadedAt"`
}
