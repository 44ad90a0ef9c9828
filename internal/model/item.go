package model

import "time"

// Item is a single inventory record. Quantity is not bounded; a zero or
// negative count is stored as given.
type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description,omitempty"`
	Barcode     string    `json:"barcode,omitempty"`
	ImagePath   string    `json:"image_path,omitempty"`
	AccountID   int64     `json:"account_id"`
	FolderID    int64     `json:"folder_id"`
	CreatedAt   time.Time `json:"created_at"`
}
