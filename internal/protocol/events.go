// Package protocol defines the typed events exchanged with the game server and
// the codecs that frame them on the wire.
package protocol

// Event type names as they appear in the envelope.
const (
	TypeGameState     = "game_state"
	TypePlayerHit     = "player_hit"
	TypePlayerRespawn = "player_respawn"
	TypePlayerKill    = "player_kill"
	TypePlayerStatus  = "player_status"
	TypePlayerJoined  = "player_joined"
	TypePlayerLeft    = "player_left"
	TypePlayerUpdate  = "player_update"
	TypePlayerShoot   = "player_shoot"
	TypePlayerMelee   = "player_melee"
	TypePlayerDied    = "player_died"
)

// Event is any message carried in an envelope.
type Event interface {
	EventType() string
}

// Inbound is an event delivered by the server to the client.
type Inbound interface {
	Event
	inbound()
}

// Outbound is an event emitted by the client to the server.
type Outbound interface {
	Event
	outbound()
}

// PlayerRecord is one player as reported in a snapshot.
type PlayerRecord struct {
	ID       string  `json:"id"`
	Username string  `json:"username,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Health   float64 `json:"health"`
	Weapon   string  `json:"weapon,omitempty"`
	Kills    int     `json:"kills"`
	Deaths   int     `json:"deaths"`
	Score    int     `json:"score"`
	Dead     bool    `json:"dead,omitempty"`

	Invulnerable bool `json:"invulnerable,omitempty"`
}

// ProjectileRecord is one server-confirmed projectile.
type ProjectileRecord struct {
	ID      string  `json:"id,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Angle   float64 `json:"angle"`
	Speed   float64 `json:"speed,omitempty"`
	Damage  float64 `json:"damage"`
	Shooter string  `json:"shooter"`
	Weapon  string  `json:"weapon,omitempty"`
	AgeMS   int     `json:"age_ms,omitempty"`
}

// ZoneRecord overrides the local safe-zone parameters.
type ZoneRecord struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Radius        float64 `json:"radius"`
	TargetRadius  float64 `json:"target_radius"`
	ShrinkPerTick float64 `json:"shrink_per_tick"`
	DamagePerTick float64 `json:"damage_per_tick"`
}

// GameState is the authoritative snapshot. Players, Bullets and Scores are
// replaced wholesale on receipt. Chat and Log are carried through untouched.
type GameState struct {
	Players map[string]PlayerRecord `json:"players"`
	Bullets []ProjectileRecord      `json:"bullets"`
	Scores  map[string]int          `json:"scores,omitempty"`
	Zone    *ZoneRecord             `json:"zone,omitempty"`
	Chat    any                     `json:"chat,omitempty"`
	Log     any                     `json:"log,omitempty"`
}

// PlayerHit is server-confirmed damage inbound, and a locally detected hit
// report outbound.
type PlayerHit struct {
	Damage   float64 `json:"damage"`
	Shooter  string  `json:"shooter"`
	TargetID string  `json:"target_id"`
	Weapon   string  `json:"weapon,omitempty"`
}

// PlayerRespawn resets the local player at the given position.
type PlayerRespawn struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlayerKill credits the local player with a kill.
type PlayerKill struct {
	Victim string `json:"victim,omitempty"`
}

// PlayerStatus grants timed modifiers to the local player. Zero durations
// leave the corresponding modifier untouched.
type PlayerStatus struct {
	SpeedMult      float64 `json:"speed_mult,omitempty"`
	SpeedMS        int     `json:"speed_ms,omitempty"`
	DamageMult     float64 `json:"damage_mult,omitempty"`
	DamageMS       int     `json:"damage_ms,omitempty"`
	InvulnerableMS int     `json:"invulnerable_ms,omitempty"`
}

// PlayerJoined announces a new player.
type PlayerJoined struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
}

// PlayerLeft announces a departed player.
type PlayerLeft struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
}

// PlayerUpdate is the throttled local player state report.
type PlayerUpdate struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Health   float64 `json:"health"`
	Weapon   string  `json:"weapon"`
}

// PlayerShoot is sent once per pellet.
type PlayerShoot struct {
	ID     string  `json:"id,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Angle  float64 `json:"angle"`
	Damage float64 `json:"damage"`
	Weapon string  `json:"weapon"`
}

// PlayerMelee is a melee swing for the server to resolve.
type PlayerMelee struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Range    float64 `json:"range"`
	Damage   float64 `json:"damage"`
}

// PlayerDied is sent once when local health reaches zero.
type PlayerDied struct{}

func (GameState) EventType() string     { return TypeGameState }
func (PlayerHit) EventType() string     { return TypePlayerHit }
func (PlayerRespawn) EventType() string { return TypePlayerRespawn }
func (PlayerKill) EventType() string    { return TypePlayerKill }
func (PlayerStatus) EventType() string  { return TypePlayerStatus }
func (PlayerJoined) EventType() string  { return TypePlayerJoined }
func (PlayerLeft) EventType() string    { return TypePlayerLeft }
func (PlayerUpdate) EventType() string  { return TypePlayerUpdate }
func (PlayerShoot) EventType() string   { return TypePlayerShoot }
func (PlayerMelee) EventType() string   { return TypePlayerMelee }
func (PlayerDied) EventType() string    { return TypePlayerDied }

func (GameState) inbound()     {}
func (PlayerHit) inbound()     {}
func (PlayerRespawn) inbound() {}
func (PlayerKill) inbound()    {}
func (PlayerStatus) inbound()  {}
func (PlayerJoined) inbound()  {}
func (PlayerLeft) inbound()    {}

func (PlayerHit) outbound()    {}
func (PlayerUpdate) outbound() {}
func (PlayerShoot) outbound()  {}
func (PlayerMelee) outbound()  {}
func (PlayerDied) outbound()   {}
