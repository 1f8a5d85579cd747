package model

// Admin is the operator authenticated by the admin API. There is a single
// admin configured from the environment, identified by email.
type Admin struct {
	Email string `json:"email"`
}
