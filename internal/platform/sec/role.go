// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// UserRole is the authorization tier stored on an account and carried in
// access tokens.
type UserRole string

const (
	RoleMember    UserRole = "member"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

// roleRank orders roles from least to most privileged. Unknown roles rank 0.
var roleRank = map[UserRole]int{
	RoleMember:    1,
	RoleModerator: 2,
	RoleAdmin:     3,
}

// AtLeast reports whether r grants everything target grants.
func (r UserRole) AtLeast(target UserRole) bool {
	return roleRank[r] >= roleRank[target]
}

func (r UserRole) IsValid() bool {
	return roleRank[r] > 0
}

func (r UserRole) String() string {
	return string(r)
}
