package optimizer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Role is a player category with its own quota in a roster
type Role string

const (
	RoleWicketKeeper Role = "WK"
	RoleBatter       Role = "BAT"
	RoleAllRounder   Role = "AR"
	RoleBowler       Role = "BOWL"
)

// DefaultRoleOrder is the order roles are filled in when a template does not name one
var DefaultRoleOrder = []Role{RoleWicketKeeper, RoleBatter, RoleAllRounder, RoleBowler}

var (
	ErrInvalidPlayer    = errors.New("invalid player")
	ErrUnknownTeam      = errors.New("player team is not part of the match")
	ErrPoolNotOrganized = errors.New("player pool must be organized before searching")
)

// ValidationError describes why a player was refused at ingestion
type ValidationError struct {
	Player string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Player == "" {
		return fmt.Sprintf("invalid player: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid player %q: %s %s", e.Player, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidPlayer
}

// ParseRole maps a role label to a Role, accepting any letter case
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !role.Valid() {
		return "", &ValidationError{Field: "role", Reason: fmt.Sprintf("%q is not one of WK, BAT, AR, BOWL", s)}
	}
	return role, nil
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleWicketKeeper, RoleBatter, RoleAllRounder, RoleBowler:
		return true
	}
	return false
}

// Player is a single draftable athlete. Values are never mutated after ingestion.
type Player struct {
	Role    Role    `json:"role" yaml:"role"`
	Team    string  `json:"team" yaml:"team"`
	Name    string  `json:"name" yaml:"name"`
	Credits float64 `json:"credits" yaml:"credits"`
	Points  float64 `json:"points" yaml:"points"`
}

// NewPlayer builds a validated player
func NewPlayer(role Role, team, name string, credits, points float64) (Player, error) {
	p := Player{
		Role:    role,
		Team:    strings.TrimSpace(team),
		Name:    strings.TrimSpace(name),
		Credits: credits,
		Points:  points,
	}
	if err := p.Validate(); err != nil {
		return Player{}, err
	}
	return p, nil
}

// Validate checks the fields the search relies on
func (p Player) Validate() error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !p.Role.Valid() {
		return &ValidationError{Player: p.Name, Field: "role", Reason: fmt.Sprintf("%q is not one of WK, BAT, AR, BOWL", p.Role)}
	}
	if p.Team == "" {
		return &ValidationError{Player: p.Name, Field: "team", Reason: "must not be empty"}
	}
	if math.IsNaN(p.Credits) || math.IsInf(p.Credits, 0) {
		return &ValidationError{Player: p.Name, Field: "credits", Reason: "must be a finite number"}
	}
	if p.Credits < 0 {
		return &ValidationError{Player: p.Name, Field: "credits", Reason: fmt.Sprintf("must not be negative, got %v", p.Credits)}
	}
	if math.IsNaN(p.Points) || math.IsInf(p.Points, 0) {
		return &ValidationError{Player: p.Name, Field: "points", Reason: "must be a finite number"}
	}
	return nil
}

// valueKey identifies a player by value, ignoring the name
func (p Player) valueKey() string {
	return string(p.Role) + "|" + p.Team + "|" +
		strconv.FormatFloat(p.Credits, 'g', -1, 64) + "|" +
		strconv.FormatFloat(p.Points, 'g', -1, 64)
}

func (p Player) String() string {
	return fmt.Sprintf("%s, %s, %s, %v, %v", p.Name, p.Role, p.Team, p.Credits, p.Points)
}
