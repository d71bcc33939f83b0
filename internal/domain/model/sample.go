// Package model contains domain models passed between layers.
package model

import "math"

// Vec3 is a single 3-axis sensor reading in the sensor's native unit.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Magnitude returns the Euclidean length of the vector.
func (v Vec3) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// SensorSample is the latest snapshot of all sensor families. Families that
// are unavailable on the device report the zero vector.
type SensorSample struct {
	Accelerometer Vec3 `json:"accelerometer"`
	Gyroscope     Vec3 `json:"gyroscope"`
	Magnetometer  Vec3 `json:"magnetometer"`
}

// Availability reports which sensor families the device currently exposes.
// Queried once per challenge generation, not per tick.
type Availability struct {
	Accelerometer bool `json:"accelerometer"`
	Gyroscope     bool `json:"gyroscope"`
	Magnetometer  bool `json:"magnetometer"`
}

// Any returns true if at least one sensor family is available.
func (a Availability) Any() bool {
	return a.Accelerometer || a.Gyroscope || a.Magnetometer
}
