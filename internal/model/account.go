package model

// Account is a registered user. Folders and items belong to exactly one account.
// Password material never leaves the store.
type Account struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	BusinessName string `json:"business_name"`
	SMSEnabled   bool   `json:"sms_enabled"`
	PhoneNumber  string `json:"phone_number,omitempty"`
}

// DefaultBusinessName is the business name given to new accounts.
const DefaultBusinessName = "My Inventory"
