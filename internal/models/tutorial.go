package models

import "time"

type Tutorial struct {
	ID            string    `json:"id"`
	Title         string    `json:"title" binding:"required,max=200"`
	Description   string    `json:"description" binding:"max=4000"`
	VideoURL      string    `json:"video_url" binding:"omitempty,url"`
	DocumentURLs  []string  `json:"document_urls" binding:"omitempty,dive,url"`
	CoverImageURL string    `json:"cover_image_url" binding:"omitempty,url"`
	Category      string    `json:"category" binding:"max=80"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TutorialsMetadata is cached next to the tutorial list.
type TutorialsMetadata struct {
	Count     int       `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
	Stale     bool      `json:"stale"`
}
