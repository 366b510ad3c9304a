package model

import "time"

// Collection is a user-defined named group of saved tracks.
// The name is unique per owner.
type Collection struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID   int64     `gorm:"not null;uniqueIndex:uq_owner_name,priority:1" json:"ownerId"`
	Name      string    `gorm:"size:50;not null;uniqueIndex:uq_owner_name,priority:2" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// CollectionTrack is the membership edge between a collection and a track.
type CollectionTrack struct {
	CollectionID int64     `gorm:"primaryKey" json:"collectionId"`
	TrackID      string    `gorm:"primaryKey;size:64" json:"trackId"`
	AddedAt      time.Time `gorm:"autoCreateTime" json:"addedAt"`
}

// CollectionSummary is a collection together with its track count,
// used for the /albums listing.
type CollectionSummary struct {
	Collection
	TrackCount int `json:"trackCount"`
}
