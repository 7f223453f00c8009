package models

import (
	"time"

	"gorm.io/gorm"
)

// Team member roles.
const (
	TeamRoleLeader = "leader"
	TeamRoleMember = "member"
)

// DefaultTeamSize is the member cap applied to new teams.
const DefaultTeamSize = 6

// Team is a player-formed squad. The leader manages the roster; open teams
// accept joins from anyone, closed teams only roster additions by the leader.
type Team struct {
	gorm.Model
	Name           string `gorm:"not null"`
	Slogan         string
	Game           string
	LogoURL        string
	LeaderID       uint `gorm:"index;not null"`
	OpenForPlayers bool `gorm:"default:true"`
	MaxMembers     int  `gorm:"default:6"`
}

// TeamMember links a user to a team. The unique index on UserID enforces
// one team per player at the data layer.
type TeamMember struct {
	ID       uint      `gorm:"primarykey"`
	TeamID   uint      `gorm:"index;not null"`
	UserID   uint      `gorm:"uniqueIndex:idx_team_member_user;not null"`
	Role     string    `gorm:"default:'member'"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}
