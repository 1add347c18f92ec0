package app

import "minigold/internal/core"

// UserSession is returned by AuthenticateUser.
type UserSession struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Actor returns the audit identity of the session.
func (s *UserSession) Actor() core.Actor {
	return core.Actor{UserID: s.UserID, Role: s.Role}
}

// UserResult is the operator profile.
type UserResult struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// GridResult is a listing page in the shape data-table clients expect.
type GridResult struct {
	Draw            int            `json:"draw"`
	RecordsTotal    int64          `json:"recordsTotal"`
	RecordsFiltered int64          `json:"recordsFiltered"`
	Fields          []string       `json:"fields"`
	Data            []core.GridRow `json:"data"`
}
