package domain

// KeyDistribution maps each group member to the group key wrapped for them.
// It is created at group creation and regenerated wholesale at every
// rotation; the plaintext group key never appears in it.
type KeyDistribution map[Username]Envelope

// Group is the transport's view of a group: identifier, display name,
// current member list and the member whose keys produced the current key
// distribution (the creator, or the last member to rotate). It carries no
// key material.
type Group struct {
	ID          GroupID    `json:"id"`
	Name        string     `json:"name"`
	Members     []Username `json:"members"`
	Distributor Username   `json:"distributor"`
}
