package models

import "time"

// Group invariants, enforced by the group service on every mutation:
// CreatorUsername is always present in Members, Members carries no duplicates
// or empty entries, and Code is unique across all groups at creation time.
type Group struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	CreatorUsername string    `json:"creatorUsername"`
	Members         []string  `json:"members"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// HasMember reports whether username is in the member list.
func (g *Group) HasMember(username string) bool {
	for _, m := range g.Members {
		if m == username {
			return true
		}
	}
	return false
}

// GroupMember is a derived view materialized from Group.Members on demand.
// It is never persisted separately.
type GroupMember struct {
	Username  string    `json:"username"`
	GroupID   string    `json:"groupId"`
	IsCreator bool      `json:"isCreator"`
	JoinedAt  time.Time `json:"joinedAt"`
}
