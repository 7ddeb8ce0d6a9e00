/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func assertVecInDelta(t *testing.T, want, got r3.Vec, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta)
	assert.InDelta(t, want.Y, got.Y, delta)
	assert.InDelta(t, want.Z, got.Z, delta)
}

func TestRotate(t *testing.T) {
	x := r3.Vec{X: 1}
	z := r3.Vec{Z: 1}

	// A quarter turn about Z carries X onto Y.
	assertVecInDelta(t, r3.Vec{Y: 1}, Rotate(x, math.Pi/2, z), 1e-12)

	// A non-unit axis is normalized before rotating.
	assertVecInDelta(t, r3.Vec{Y: 1}, Rotate(x, math.Pi/2, r3.Scale(7, z)), 1e-12)
}

func TestGeodeticToECEFAnchors(t *testing.T) {
	// Equator at the prime meridian: on the semi-major axis.
	assertVecInDelta(t, r3.Vec{X: SemiMajorAxis},
		GeodeticToECEF(Geodetic{}), 1e-6)

	// Equator at 90 degrees east.
	assertVecInDelta(t, r3.Vec{Y: SemiMajorAxis},
		GeodeticToECEF(Geodetic{Lon: 90}), 1e-6)

	// North pole: on the semi-minor axis.
	assertVecInDelta(t, r3.Vec{Z: SemiMinorAxis},
		GeodeticToECEF(Geodetic{Lat: 90}), 1e-6)

	// Altitude displaces along the surface normal.
	up := GeodeticToECEF(Geodetic{Alt: 100})
	assert.InDelta(t, SemiMajorAxis+100, up.X, 1e-6)
}

func TestECEFToGeodeticEquator(t *testing.T) {
	g := ECEFToGeodetic(r3.Vec{X: SemiMajorAxis})
	assert.InDelta(t, 0, g.Lat, 1e-9)
	assert.InDelta(t, 0, g.Lon, 1e-9)
	assert.InDelta(t, 0, g.Alt, 1e-6)
}

func TestECEFToGeodeticRoundTrip(t *testing.T) {
	cases := []Geodetic{
		{Lat: 52.37, Lon: 4.89, Alt: 10},
		{Lat: -33.86, Lon: 151.21, Alt: 25},
		{Lat: 0.001, Lon: -179.99, Alt: 0},
		{Lat: 89.9, Lon: 45, Alt: 100},
		{Lat: -89.9, Lon: -45, Alt: 0},
	}
	for _, want := range cases {
		got := ECEFToGeodetic(GeodeticToECEF(want))
		assert.InDelta(t, want.Lat, got.Lat, 1e-6, "lat for %+v", want)
		assert.InDelta(t, want.Lon, got.Lon, 1e-6, "lon for %+v", want)
		assert.InDelta(t, want.Alt, got.Alt, 1e-2, "alt for %+v", want)
	}
}

func TestNEDAtOrigin(t *testing.T) {
	f := NED(0, 0)
	// At the equator and prime meridian north points along +Z, east
	// along +Y and down towards the Earth center along -X.
	assertVecInDelta(t, r3.Vec{Z: 1}, f.X, 1e-12)
	assertVecInDelta(t, r3.Vec{Y: 1}, f.Y, 1e-12)
	assertVecInDelta(t, r3.Vec{X: -1}, f.Z, 1e-12)
}

func TestNEDIsOrthonormal(t *testing.T) {
	f := NED(52.37, 4.89)
	assert.InDelta(t, 1, r3.Dot(f.X, f.X), 1e-12)
	assert.InDelta(t, 1, r3.Dot(f.Y, f.Y), 1e-12)
	assert.InDelta(t, 1, r3.Dot(f.Z, f.Z), 1e-12)
	assert.InDelta(t, 0, r3.Dot(f.X, f.Y), 1e-12)
	assert.InDelta(t, 0, r3.Dot(f.X, f.Z), 1e-12)
	assert.InDelta(t, 0, r3.Dot(f.Y, f.Z), 1e-12)
	// Right-handed: down is north cross east.
	assertVecInDelta(t, r3.Cross(f.X, f.Y), f.Z, 1e-12)
}

func TestEulerBetweenIdentity(t *testing.T) {
	e := EulerBetween(WorldFrame, WorldFrame)
	assert.InDelta(t, 0, e.Psi, 1e-12)
	assert.InDelta(t, 0, e.Theta, 1e-12)
	assert.InDelta(t, 0, e.Phi, 1e-12)
}

func TestRotateZYXDecomposes(t *testing.T) {
	want := Euler{Psi: 0.7, Theta: -0.3, Phi: 0.2}
	f := RotateZYX(WorldFrame, want)
	got := EulerBetween(WorldFrame, f)
	assert.InDelta(t, want.Psi, got.Psi, 1e-9)
	assert.InDelta(t, want.Theta, got.Theta, 1e-9)
	assert.InDelta(t, want.Phi, got.Phi, 1e-9)
}

func TestToWorldLevelAtOrigin(t *testing.T) {
	pos := Geodetic{}
	loc, _ := ToWorld(pos, Attitude{}, true)
	assertVecInDelta(t, r3.Vec{X: SemiMajorAxis}, loc, 1e-6)
}

func TestWorldRoundTrip(t *testing.T) {
	cases := []struct {
		pos Geodetic
		att Attitude
	}{
		{Geodetic{Lat: 52.37, Lon: 4.89, Alt: 0}, Attitude{Yaw: 45, Pitch: 5, Roll: -3}},
		{Geodetic{Lat: -10, Lon: 100, Alt: 15}, Attitude{Yaw: 271, Pitch: -2, Roll: 1}},
		{Geodetic{Lat: 0, Lon: 0, Alt: 0}, Attitude{Yaw: 90, Pitch: 0, Roll: 0}},
	}
	for _, c := range cases {
		loc, euler := ToWorld(c.pos, c.att, true)
		pos, att := FromWorld(loc, euler, true)
		assert.InDelta(t, c.pos.Lat, pos.Lat, 1e-6)
		assert.InDelta(t, c.pos.Lon, pos.Lon, 1e-6)
		assert.InDelta(t, c.pos.Alt, pos.Alt, 1e-2)
		// Yaw compares modulo a full turn.
		dyaw := math.Mod(c.att.Yaw-att.Yaw+540, 360) - 180
		assert.InDelta(t, 0, dyaw, 1e-6)
		assert.InDelta(t, c.att.Pitch, att.Pitch, 1e-6)
		assert.InDelta(t, c.att.Roll, att.Roll, 1e-6)
	}
}

func TestPointLocalToWorld(t *testing.T) {
	pos := Geodetic{}
	// With a level attitude at the origin, +z body (down) points along
	// -X world: a mast top 12 m above the keel reference moves +12 m in
	// world X when given as a -12 m down offset.
	p := PointLocalToWorld(pos, Attitude{}, r3.Vec{Z: -12}, true)
	assertVecInDelta(t, r3.Vec{X: SemiMajorAxis + 12}, p, 1e-6)

	// A bow offset at the origin points north, along +Z world.
	p = PointLocalToWorld(pos, Attitude{}, r3.Vec{X: 5}, true)
	assertVecInDelta(t, r3.Vec{X: SemiMajorAxis, Z: 5}, p, 1e-6)

	// Yawed 90 degrees the bow points east, along +Y world.
	p = PointLocalToWorld(pos, Attitude{Yaw: 90}, r3.Vec{X: 5}, true)
	assertVecInDelta(t, r3.Vec{X: SemiMajorAxis, Y: 5}, p, 1e-6)
}
