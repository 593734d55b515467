// Package model defines the core data types for the gift card shop.
// Struct tags map fields to database columns (`db:"..."`, read by sqlx)
// and to the JSON bodies returned by the handlers (`json:"..."`).
package model

import "time"

// Card is a gift card on sale. Cards are created and restocked outside this
// service; the handlers only read them.
type Card struct {
	ID             int64  `db:"id" json:"id"`
	Amount         int    `db:"amount" json:"amount"`
	Price          int    `db:"price" json:"price"`
	Description    string `db:"description" json:"description"`
	AvailableCount int    `db:"available_count" json:"available_count"`
}

// GalleryPhoto is one uploaded image. FileKey is the object-store key and
// FileURL the public CDN address derived from it.
//
// UploadedAt is a pointer because the column is nullable: a nil value is
// serialized as JSON null.
type GalleryPhoto struct {
	ID         int64      `db:"id" json:"id"`
	FileKey    string     `db:"file_key" json:"file_key,omitempty"`
	FileURL    string     `db:"file_url" json:"url"`
	UploadedAt *time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// UploadResult is the body returned after a successful photo upload.
type UploadResult struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}
