package proto

import "time"

// Presence is the transient state the registry holds for one participant
// in one room. It is superseded in place by later updates and discarded
// when the participant leaves.
type Presence struct {
	IdentityView
	LastInteracted time.Time `json:"last_interacted"`
}

func (p *Presence) Touch(at time.Time) { p.LastInteracted = at }
