package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/leap/components"
	"github.com/pthm-cable/leap/geom"
	"github.com/pthm-cable/leap/level"
)

// contactSkin is how far beyond its radius an agent still counts as touching
// a surface.
const contactSkin = 1.0

// ContactSystem resolves agents as circles against the level edges. It
// pushes them out of overlaps, removes velocity into surfaces and records
// the contact normal and grounded/walled flags steering reads.
type ContactSystem struct {
	filter ecs.Filter3[components.Position, components.Velocity, components.Body]
	lvl    *level.Level
}

// NewContactSystem creates a new contact system.
func NewContactSystem(w *ecs.World, lvl *level.Level) *ContactSystem {
	return &ContactSystem{
		filter: *ecs.NewFilter3[components.Position, components.Velocity, components.Body](w),
		lvl:    lvl,
	}
}

// Update runs the contact system.
func (s *ContactSystem) Update(w *ecs.World) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, body := query.Get()

		p, v := s.unTunnel(body.PrevPosition, pos.Vec(), vel.Vec(), body.Radius)
		p, v, normal := s.resolve(p, v, body.Radius)

		pos.X, pos.Y = p.X, p.Y
		vel.X, vel.Y = v.X, v.Y
		ApplyContact(body, normal)
	}
}

// ApplyContact stores a contact normal and derives the contact flags.
func ApplyContact(body *components.Body, normal r2.Vec) {
	body.Normal = normal
	body.Grounded = normal.Y > 0.5
	body.Walled = 0
	if math.Abs(normal.X) > 0.5 {
		body.Walled = int8(-geom.Sign(normal.X))
	}
	if body.Grounded {
		body.WallJumped = false
	}
}

// unTunnel handles moves that cross an edge outright in one tick: the agent
// is put back on the side it came from, one radius off the crossing point.
func (s *ContactSystem) unTunnel(prev, p, v r2.Vec, radius float64) (r2.Vec, r2.Vec) {
	if prev == p {
		return p, v
	}

	best := math.MaxFloat64
	var hitPoint, hitNormal r2.Vec
	s.lvl.EachEdge(func(_, _ int, a, b r2.Vec) bool {
		hit, ok := geom.SegmentIntersection(prev, p, a, b)
		if !ok {
			return true
		}
		if d := geom.DistSq(prev, hit); d < best {
			n := geom.Perp(geom.NormalizeOrZero(r2.Sub(b, a)))
			if r2.Dot(r2.Sub(prev, a), n) < 0 {
				n = r2.Scale(-1, n)
			}
			best, hitPoint, hitNormal = d, hit, n
		}
		return true
	})
	if best == math.MaxFloat64 || geom.IsZero(hitNormal) {
		return p, v
	}

	if vn := r2.Dot(v, hitNormal); vn < 0 {
		v = r2.Sub(v, r2.Scale(vn, hitNormal))
	}
	return r2.Add(hitPoint, r2.Scale(radius, hitNormal)), v
}

// resolve pushes a circle out of every edge it overlaps and returns the
// averaged normal of every edge within the contact skin.
func (s *ContactSystem) resolve(p, v r2.Vec, radius float64) (r2.Vec, r2.Vec, r2.Vec) {
	var sum r2.Vec
	s.lvl.EachEdge(func(_, _ int, a, b r2.Vec) bool {
		d := r2.Sub(p, geom.ClosestOnSegment(p, a, b))
		dist := r2.Norm(d)
		if dist == 0 || dist >= radius+contactSkin {
			return true
		}

		n := r2.Scale(1/dist, d)
		if dist < radius {
			p = r2.Add(p, r2.Scale(radius-dist, n))
		}
		if vn := r2.Dot(v, n); vn < 0 {
			v = r2.Sub(v, r2.Scale(vn, n))
		}
		sum = r2.Add(sum, n)
		return true
	})
	return p, v, geom.NormalizeOrZero(sum)
}
