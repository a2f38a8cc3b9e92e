package arena

import (
	"maps"
	"slices"
	"time"

	"github.com/vovakirdan/tui-arena/internal/core"
	"github.com/vovakirdan/tui-arena/internal/protocol"
)

// RemotePlayer is another player as last reported by the server.
type RemotePlayer struct {
	ID           string
	Username     string
	Pos          core.Vec
	Rotation     float64
	Health       float64
	Weapon       string
	Kills        int
	Deaths       int
	Score        int
	Dead         bool
	Invulnerable bool
}

// Alive reports whether the remote player can be hit.
func (r *RemotePlayer) Alive() bool {
	return !r.Dead && r.Health > 0
}

// Store is the authoritative tier of the entity store. Everything in it is
// replaced wholesale by each snapshot. Predicted entities live in
// ProjectileSim and are only combined with this tier through Merge.
type Store struct {
	localID  string
	size     float64
	lifetime time.Duration

	remotes     map[string]*RemotePlayer
	order       []string
	projectiles []*Projectile
	retired     map[string]bool
	scores      map[string]int
	chat        any
	log         any
	snapshots   int
}

// NewStore creates an empty store. localID identifies the local player's
// record in snapshots; size is the player body size used for centres.
func NewStore(localID string, size float64, lifetime time.Duration) *Store {
	return &Store{
		localID:  localID,
		size:     size,
		lifetime: lifetime,
		remotes:  make(map[string]*RemotePlayer),
		retired:  make(map[string]bool),
		scores:   make(map[string]int),
	}
}

// ApplySnapshot replaces remote players, authoritative projectiles, scores
// and pass-through payloads. It returns the local player's record when the
// snapshot carries one.
//
// Authoritative projectiles with an id that was retired locally stay retired
// while later snapshots keep listing that id.
func (s *Store) ApplySnapshot(gs protocol.GameState, now time.Duration) *protocol.PlayerRecord {
	s.snapshots++

	for _, p := range s.projectiles {
		if !p.Alive() && p.ID != "" {
			s.retired[p.ID] = true
		}
	}

	var self *protocol.PlayerRecord
	remotes := make(map[string]*RemotePlayer, len(gs.Players))
	for key, rec := range gs.Players {
		id := rec.ID
		if id == "" {
			id = key
		}
		if id == s.localID {
			r := rec
			r.ID = id
			self = &r
			continue
		}
		remotes[id] = &RemotePlayer{
			ID:           id,
			Username:     rec.Username,
			Pos:          core.Vec{X: rec.X, Y: rec.Y},
			Rotation:     rec.Rotation,
			Health:       rec.Health,
			Weapon:       rec.Weapon,
			Kills:        rec.Kills,
			Deaths:       rec.Deaths,
			Score:        rec.Score,
			Dead:         rec.Dead,
			Invulnerable: rec.Invulnerable,
		}
	}
	s.remotes = remotes
	s.order = slices.Sorted(maps.Keys(remotes))

	listed := make(map[string]bool, len(gs.Bullets))
	projectiles := make([]*Projectile, 0, len(gs.Bullets))
	for _, rec := range gs.Bullets {
		if rec.ID != "" {
			listed[rec.ID] = true
			if s.retired[rec.ID] {
				continue
			}
		}
		p := &Projectile{
			ID:         rec.ID,
			Pos:        core.Vec{X: rec.X, Y: rec.Y},
			Angle:      rec.Angle,
			Speed:      rec.Speed,
			Damage:     rec.Damage,
			OwnerID:    rec.Shooter,
			Weapon:     rec.Weapon,
			CreatedAt:  now - time.Duration(rec.AgeMS)*time.Millisecond,
			Provenance: Authoritative,
		}
		if p.Expired(now, s.lifetime) {
			continue
		}
		projectiles = append(projectiles, p)
	}
	s.projectiles = projectiles

	for id := range s.retired {
		if !listed[id] {
			delete(s.retired, id)
		}
	}

	s.scores = maps.Clone(gs.Scores)
	if s.scores == nil {
		s.scores = make(map[string]int)
	}
	s.chat = gs.Chat
	s.log = gs.Log
	return self
}

// Expire retires authoritative projectiles that outlived lifetime.
func (s *Store) Expire(now time.Duration) {
	for _, p := range s.projectiles {
		if p.Alive() && p.Expired(now, s.lifetime) {
			p.Retire()
		}
	}
}

// Remotes returns remote players ordered by id.
func (s *Store) Remotes() []*RemotePlayer {
	out := make([]*RemotePlayer, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.remotes[id])
	}
	return out
}

// Remote returns a remote player by id.
func (s *Store) Remote(id string) (*RemotePlayer, bool) {
	r, ok := s.remotes[id]
	return r, ok
}

// RemoteCenter returns the body centre of a remote player.
func (s *Store) RemoteCenter(r *RemotePlayer) core.Vec {
	return core.Vec{X: r.Pos.X + s.size/2, Y: r.Pos.Y + s.size/2}
}

// Projectiles returns live authoritative projectiles.
func (s *Store) Projectiles() []*Projectile {
	out := make([]*Projectile, 0, len(s.projectiles))
	for _, p := range s.projectiles {
		if p.Alive() {
			out = append(out, p)
		}
	}
	return out
}

// Merge returns the collision set: live predicted projectiles first, then
// live authoritative ones, each in their own stable order.
func (s *Store) Merge(predicted []*Projectile) []*Projectile {
	out := make([]*Projectile, 0, len(predicted)+len(s.projectiles))
	for _, p := range predicted {
		if p.Alive() {
			out = append(out, p)
		}
	}
	return append(out, s.Projectiles()...)
}

// Scores returns a copy of the last score table.
func (s *Store) Scores() map[string]int {
	return maps.Clone(s.scores)
}

// Chat returns the opaque chat payload of the last snapshot.
func (s *Store) Chat() any { return s.chat }

// Log returns the opaque log payload of the last snapshot.
func (s *Store) Log() any { return s.log }

// Snapshots returns how many snapshots have been applied.
func (s *Store) Snapshots() int { return s.snapshots }
