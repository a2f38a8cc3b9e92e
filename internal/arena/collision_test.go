package arena

import (
	"testing"

	"github.com/vovakirdan/tui-arena/internal/core"
)

func TestCollisionWithinRadius(t *testing.T) {
	r := CollisionResolver{Radius: 20}
	targets := []Target{{ID: "me", Center: core.Vec{X: 116, Y: 116}, Local: true}}

	tests := []struct {
		name    string
		pos     core.Vec
		owner   string
		wantHit bool
	}{
		{"dead centre", core.Vec{X: 116, Y: 116}, "bot", true},
		{"just inside", core.Vec{X: 135.9, Y: 116}, "bot", true},
		{"exactly on radius", core.Vec{X: 136, Y: 116}, "bot", false},
		{"far away", core.Vec{X: 300, Y: 300}, "bot", false},
		{"own projectile", core.Vec{X: 116, Y: 116}, "me", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := &Projectile{Pos: tc.pos, OwnerID: tc.owner, Damage: 15, Weapon: "pistol"}
			hits := r.Resolve([]*Projectile{p}, targets, nil)

			if tc.wantHit {
				if len(hits) != 1 {
					t.Fatalf("got %d hits, expected 1", len(hits))
				}
				if p.Alive() {
					t.Error("hitting projectile should be retired")
				}
				h := hits[0]
				if h.Damage != 15 || h.ShooterID != tc.owner || h.TargetID != "me" || h.Weapon != "pistol" || !h.Local {
					t.Errorf("hit = %+v", h)
				}
			} else {
				if len(hits) != 0 {
					t.Errorf("got %d hits, expected none", len(hits))
				}
				if !p.Alive() {
					t.Error("missing projectile should survive")
				}
			}
		})
	}
}

func TestCollisionFirstTargetWins(t *testing.T) {
	r := CollisionResolver{Radius: 20}
	targets := []Target{
		{ID: "me", Center: core.Vec{X: 100, Y: 100}, Local: true},
		{ID: "alice", Center: core.Vec{X: 105, Y: 100}},
		{ID: "bob", Center: core.Vec{X: 95, Y: 100}},
	}
	p := &Projectile{Pos: core.Vec{X: 100, Y: 100}, OwnerID: "zed"}

	hits := r.Resolve([]*Projectile{p}, targets, nil)
	if len(hits) != 1 {
		t.Fatalf("got %d hits, expected exactly 1", len(hits))
	}
	if hits[0].TargetID != "me" {
		t.Errorf("TargetID = %q, expected the local player first", hits[0].TargetID)
	}

	p2 := &Projectile{Pos: core.Vec{X: 100, Y: 100}, OwnerID: "me"}
	hits = r.Resolve([]*Projectile{p2}, targets, nil)
	if len(hits) != 1 || hits[0].TargetID != "alice" {
		t.Errorf("own shot should skip self and hit alice, got %+v", hits)
	}
}

func TestCollisionSkipsRetired(t *testing.T) {
	r := CollisionResolver{Radius: 20}
	p := &Projectile{Pos: core.Vec{X: 0, Y: 0}, OwnerID: "x"}
	p.Retire()

	hits := r.Resolve([]*Projectile{p}, []Target{{ID: "me", Center: core.Vec{}}}, nil)
	if len(hits) != 0 {
		t.Errorf("retired projectile produced %d hits", len(hits))
	}
}

func TestCollisionRechecksHittable(t *testing.T) {
	r := CollisionResolver{Radius: 20}
	health := 20.0
	targets := []Target{{
		ID:       "me",
		Center:   core.Vec{X: 50, Y: 50},
		Local:    true,
		Hittable: func() bool { return health > 0 },
	}}
	var ps []*Projectile
	for range 3 {
		ps = append(ps, &Projectile{Pos: core.Vec{X: 50, Y: 50}, OwnerID: "bot", Damage: 15})
	}

	hits := r.Resolve(ps, targets, func(h HitEvent) { health -= h.Damage })
	if len(hits) != 2 {
		t.Fatalf("got %d hits, expected 2 (the second one kills)", len(hits))
	}
	if ps[0].Alive() || ps[1].Alive() {
		t.Error("the two hitting projectiles should be retired")
	}
	if !ps[2].Alive() {
		t.Error("projectile after the kill should survive")
	}
}
