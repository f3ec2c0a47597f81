// Package domain contains the core concepts of the pairing and messaging system.
package domain

// Profile is the public identity of a participant as the chat layer sees it.
// The identifier is issued by the identity collaborator; the core only reads
// and denormalizes it.
type Profile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
}
