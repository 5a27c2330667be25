// Package stats resolves effective success chances from player statistics,
// crew roles and situational modifiers.
//
// Every adjustment is a labelled Modifier so breakdown screens can show
// exactly what moved the number; the modifiers always sum to the total
// adjustment applied to the roll.
package stats

// Stat names a player attribute.
type Stat string

const (
	StatMuscle Stat = "muscle"
	StatBrains Stat = "brains"
	StatCharm  Stat = "charm"
)

// StatSpec is the display entry for a stat.
type StatSpec struct {
	Label string
	Icon  string
	Color string
}

var statSpecs = map[Stat]StatSpec{
	StatMuscle: {Label: "Muscle", Icon: "fist", Color: "#c0392b"},
	StatBrains: {Label: "Brains", Icon: "brain", Color: "#2980b9"},
	StatCharm:  {Label: "Charm", Icon: "smile", Color: "#8e44ad"},
}

// Stats lists every stat in display order.
func Stats() []Stat { return []Stat{StatMuscle, StatBrains, StatCharm} }

// Spec returns the display entry; ok is false for unknown stats.
func (s Stat) Spec() (StatSpec, bool) {
	spec, ok := statSpecs[s]
	return spec, ok
}

// Valid reports whether s is a known stat.
func (s Stat) Valid() bool {
	_, ok := statSpecs[s]
	return ok
}

// PlayerStats are read-only to the engine.
type PlayerStats struct {
	Muscle int `json:"muscle" yaml:"muscle"`
	Brains int `json:"brains" yaml:"brains"`
	Charm  int `json:"charm" yaml:"charm"`
}

// Get returns the value of s, 0 for unknown stats.
func (p PlayerStats) Get(s Stat) int {
	var v int
	switch s {
	case StatMuscle:
		v = p.Muscle
	case StatBrains:
		v = p.Brains
	case StatCharm:
		v = p.Charm
	}
	if v < 0 {
		return 0
	}
	return v
}

// Role is a crew specialty.
type Role string

const (
	RoleHacker      Role = "hacker"
	RoleDriver      Role = "driver"
	RoleEnforcer    Role = "enforcer"
	RoleFace        Role = "face"
	RoleLookout     Role = "lookout"
	RoleSafecracker Role = "safecracker"
)

// RoleSpec describes a role: the stat it supports and its display label.
type RoleSpec struct {
	Label string
	Stat  Stat
}

var roleSpecs = map[Role]RoleSpec{
	RoleHacker:      {Label: "Hacker", Stat: StatBrains},
	RoleDriver:      {Label: "Driver", Stat: StatBrains},
	RoleEnforcer:    {Label: "Enforcer", Stat: StatMuscle},
	RoleFace:        {Label: "Face", Stat: StatCharm},
	RoleLookout:     {Label: "Lookout", Stat: StatBrains},
	RoleSafecracker: {Label: "Safecracker", Stat: StatBrains},
}

// Spec returns the role entry; ok is false for unknown roles.
func (r Role) Spec() (RoleSpec, bool) {
	spec, ok := roleSpecs[r]
	return spec, ok
}

// CrewMember is one recruited crew member.
type CrewMember struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Role      Role   `json:"role" yaml:"role"`
	HitPoints int    `json:"hit_points" yaml:"hit_points"`
	Loyalty   int    `json:"loyalty" yaml:"loyalty"`
}

// Active reports whether the member can contribute role bonuses.
func (c CrewMember) Active() bool { return c.HitPoints > 0 }

// HasActiveRole reports whether any non-incapacitated member has role r.
func HasActiveRole(crew []CrewMember, r Role) bool {
	for _, c := range crew {
		if c.Role == r && c.Active() {
			return true
		}
	}
	return false
}

// Weather is the current city weather.
type Weather string

const (
	WeatherClear Weather = "clear"
	WeatherRain  Weather = "rain"
	WeatherFog   Weather = "fog"
	WeatherStorm Weather = "storm"
	WeatherSnow  Weather = "snow"
)

// Facility is an installed bonus source (prison tunnel, safehouse lab...).
type Facility string

const (
	FacilityTunnel     Facility = "tunnel"
	FacilityGarage     Facility = "garage"
	FacilityGym        Facility = "gym"
	FacilityServerRoom Facility = "server_room"
)

// Approach is a content-defined heist approach with a flat bonus.
type Approach struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
	Bonus int    `json:"bonus" yaml:"bonus"`
}

// Equipment adds a flat bonus to one action kind.
type Equipment struct {
	Name  string     `json:"name" yaml:"name"`
	Kind  ActionKind `json:"kind" yaml:"kind"`
	Bonus int        `json:"bonus" yaml:"bonus"`
}
