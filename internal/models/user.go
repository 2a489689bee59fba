package models

// User is the client-facing projection of an identity provider record.
// Only these three fields ever leave the service.
type User struct {
	ID       string  `json:"id"`
	Username *string `json:"username"` // nil when the account has no username
	ImageURL string  `json:"imageUrl"`
}
