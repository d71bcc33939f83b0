// Package catalog holds the static challenge templates and random selection
// constrained by the sensor families a device actually has.
package catalog

import (
	"math/rand"
	"time"

	"github.com/okian/romp/internal/domain/model"
)

// Catalog selects challenge templates at random from a fixed table.
type Catalog struct {
	rng *rand.Rand
}

// Option applies a configuration option to the Catalog.
type Option func(*Catalog)

// WithRand sets the random source. Tests pass a seeded source to make
// selection reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(c *Catalog) {
		if rng != nil {
			c.rng = rng
		}
	}
}

// New constructs a Catalog with default configuration.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // selection randomness, not security
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate picks one template uniformly among the kinds the availability
// permits, then uniformly among that kind's variants. With no sensors at
// all it returns the fixed shake fallback so the player always has
// something to attempt.
func (c *Catalog) Generate(avail model.Availability) model.Template {
	kinds := eligibleKinds(avail)
	if len(kinds) == 0 {
		return fallback
	}
	kind := kinds[c.rng.Intn(len(kinds))]
	variants := templates[kind]
	return variants[c.rng.Intn(len(variants))]
}

// eligibleKinds maps sensor availability to the challenge kinds that can be
// verified: RUN needs the accelerometer, ROTATE and TILT the gyroscope,
// DIRECTION the magnetometer.
func eligibleKinds(avail model.Availability) []model.Kind {
	kinds := make([]model.Kind, 0, 4)
	if avail.Accelerometer {
		kinds = append(kinds, model.KindRun)
	}
	if avail.Gyroscope {
		kinds = append(kinds, model.KindRotate, model.KindTilt)
	}
	if avail.Magnetometer {
		kinds = append(kinds, model.KindDirection)
	}
	return kinds
}
