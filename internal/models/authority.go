package models

import "fmt"

// AuthorityID - идентификатор экстренной службы
type AuthorityID string

const (
	AuthorityPolice    AuthorityID = "police"
	AuthorityAmbulance AuthorityID = "ambulance"
	AuthorityFire      AuthorityID = "fire"
	AuthorityDisaster  AuthorityID = "disaster"
)

type Authority struct {
	ID      AuthorityID `json:"id"`
	Name    string      `json:"name"`
	Contact string      `json:"contact"`
}

var authorityCatalog = []Authority{
	{ID: AuthorityPolice, Name: "Police Emergency", Contact: "119"},
	{ID: AuthorityAmbulance, Name: "Suwa Seriya Ambulance", Contact: "1990"},
	{ID: AuthorityFire, Name: "Fire & Rescue", Contact: "110"},
	{ID: AuthorityDisaster, Name: "Disaster Management Centre", Contact: "117"},
}

// Authorities возвращает копию справочника служб
func Authorities() []Authority {
	out := make([]Authority, len(authorityCatalog))
	copy(out, authorityCatalog)
	return out
}

// LookupAuthority ищет службу в справочнике
func LookupAuthority(id AuthorityID) (Authority, error) {
	for _, a := range authorityCatalog {
		if a.ID == id {
			return a, nil
		}
	}
	return Authority{}, fmt.Errorf("%w: unknown authority %q", ErrValidation, id)
}
