package model

import "time"

// Folder groups an account's items. Names are unique per account.
type Folder struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	AccountID int64     `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultFolderName is the folder that pre-folder items were moved into.
const DefaultFolderName = "General"
