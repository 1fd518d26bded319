package domain

// User is the public representation of an account returned by the user
// endpoints. Accounts are not persisted; the type documents the success
// shape of GET /users/{id}.
type User struct {
	ID   string `json:"id"   example:"42"`
	Name string `json:"name" example:"jane"`
}
