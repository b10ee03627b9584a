package creation

import "time"

// Draft is a build in progress owned by one account.
type Draft struct {
	ID        string    `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Build     Build     `json:"build"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
