package domain

import "time"

type GroupID string

// Group has exactly one admin plus editor and member sets. The admin is never
// present in either set; AddMember and AddEditor keep that invariant.
type Group struct {
	ID        GroupID             `json:"id"`
	Name      string              `json:"name"`
	AdminID   UserID              `json:"admin_id"`
	Editors   map[UserID]struct{} `json:"editors"`
	Members   map[UserID]struct{} `json:"members"`
	CreatedAt time.Time           `json:"created_at"`
}

func NewGroup(id GroupID, name string, admin UserID) *Group {
	return &Group{
		ID:        id,
		Name:      name,
		AdminID:   admin,
		Editors:   make(map[UserID]struct{}),
		Members:   make(map[UserID]struct{}),
		CreatedAt: time.Now(),
	}
}

// AddMember adds a user to the member set. Adding an existing member is a
// no-op; the admin is never added. Returns true when the set actually grew.
func (g *Group) AddMember(id UserID) bool {
	if id == g.AdminID {
		return false
	}
	if g.Members == nil {
		g.Members = make(map[UserID]struct{})
	}
	if _, ok := g.Members[id]; ok {
		return false
	}
	g.Members[id] = struct{}{}
	return true
}

func (g *Group) AddEditor(id UserID) bool {
	if id == g.AdminID {
		return false
	}
	if g.Editors == nil {
		g.Editors = make(map[UserID]struct{})
	}
	if _, ok := g.Editors[id]; ok {
		return false
	}
	g.Editors[id] = struct{}{}
	return true
}

func (g *Group) IsMember(id UserID) bool {
	_, ok := g.Members[id]
	return ok
}

// Clone returns a deep copy so repository callers never share set instances.
func (g *Group) Clone() *Group {
	cp := &Group{
		ID:        g.ID,
		Name:      g.Name,
		AdminID:   g.AdminID,
		Editors:   make(map[UserID]struct{}, len(g.Editors)),
		Members:   make(map[UserID]struct{}, len(g.Members)),
		CreatedAt: g.CreatedAt,
	}
	for id := range g.Editors {
		cp.Editors[id] = struct{}{}
	}
	for id := range g.Members {
		cp.Members[id] = struct{}{}
	}
	return cp
}
