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

// Package geo converts between geodetic coordinates with local
// North-East-Down attitude and the DIS world frame: Earth-centered
// Earth-fixed Cartesian position plus a single Z-Y-X Euler triple
// relative to the Earth-centered axes.
//
// Rotation composition follows Koks, "Using Rotations to Build
// Aerospace Coordinate Systems" (DSTO, 2008).
package geo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// WGS84 ellipsoid semi-axes in meters.
const (
	SemiMajorAxis = 6378137.0
	SemiMinorAxis = 6356752.3142
)

const (
	// geodeticTolerance bounds the latitude change between successive
	// fixed-point iterations.
	geodeticTolerance = 1e-9
	// geodeticMaxIter caps the iteration so an unreachable tolerance
	// can not loop forever.
	geodeticMaxIter = 100
)

// Geodetic is a WGS84 position: latitude and longitude in degrees,
// altitude in meters.
type Geodetic struct {
	Lat float64
	Lon float64
	Alt float64
}

// Attitude is a body orientation relative to the local NED frame.
// Units are degrees or radians depending on the call site.
type Attitude struct {
	Yaw   float64
	Pitch float64
	Roll  float64
}

// Euler is a Z-Y-X rotation triple in radians.
type Euler struct {
	Psi   float64
	Theta float64
	Phi   float64
}

// Frame is a right-handed orthonormal basis expressed in ECEF
// coordinates.
type Frame struct {
	X, Y, Z r3.Vec
}

// WorldFrame is the ECEF basis itself.
var WorldFrame = Frame{
	X: r3.Vec{X: 1},
	Y: r3.Vec{Y: 1},
	Z: r3.Vec{Z: 1},
}

func deg2rad(deg float64) float64 { return deg * math.Pi / 180 }

func rad2deg(rad float64) float64 { return rad * 180 / math.Pi }

// Rotate rotates v about axis by angle radians using unit-quaternion
// conjugation. The axis need not be unit length: the rotation
// constructor normalizes it.
func Rotate(v r3.Vec, angle float64, axis r3.Vec) r3.Vec {
	return r3.NewRotation(angle, axis).Rotate(v)
}

// GeodeticToECEF converts a geodetic position to ECEF coordinates
// using the closed-form WGS84 formula.
func GeodeticToECEF(g Geodetic) r3.Vec {
	lat := deg2rad(g.Lat)
	lon := deg2rad(g.Lon)
	a, b := SemiMajorAxis, SemiMinorAxis
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)
	n := a / math.Sqrt(cosLat*cosLat+(b*b/(a*a))*sinLat*sinLat)
	m := b / math.Sqrt((a*a/(b*b))*cosLat*cosLat+sinLat*sinLat)
	return r3.Vec{
		X: (n + g.Alt) * cosLat * cosLon,
		Y: (n + g.Alt) * cosLat * sinLon,
		Z: (m + g.Alt) * sinLat,
	}
}

// ECEFToGeodetic converts ECEF coordinates back to a geodetic
// position. Longitude is direct; latitude is refined by fixed-point
// iteration until successive estimates differ by less than the
// tolerance, with a hard iteration cap; altitude follows algebraically
// from the converged latitude.
func ECEFToGeodetic(p r3.Vec) Geodetic {
	a, b := SemiMajorAxis, SemiMinorAxis
	x, y, z := p.X, p.Y, p.Z
	lon := math.Atan2(y, x)
	rho := math.Sqrt(x*x + y*y)

	var lat float64
	if z != 0 {
		lat = math.Atan((a * a * z) / (b * b * rho))
		prev := 90.0
		for i := 0; i < geodeticMaxIter && math.Abs(lat-prev) >= geodeticTolerance; i++ {
			prev = lat
			sinLat, cosLat := math.Sincos(lat)
			lat = math.Atan(a * a * sinLat * sinLat /
				(b*b*sinLat*cosLat + (rho*sinLat-z*cosLat)*
					math.Sqrt(a*a*cosLat*cosLat+b*b*sinLat*sinLat)))
		}
	}

	sinLat, cosLat := math.Sincos(lat)
	alt := rho/cosLat - a*a/math.Sqrt(a*a*cosLat*cosLat+b*b*sinLat*sinLat)
	return Geodetic{Lat: rad2deg(lat), Lon: rad2deg(lon), Alt: alt}
}

// NED returns the local North-East-Down frame at a geodetic point,
// built by rotating the ECEF basis by longitude about the polar axis
// and then by latitude about the resulting east axis.
func NED(lat, lon float64) Frame {
	pole := r3.Vec{Z: 1}
	east0 := r3.Vec{Y: 1}
	e := Rotate(east0, deg2rad(lon), pole)
	n := Rotate(pole, deg2rad(lat), r3.Scale(-1, e))
	return Frame{X: n, Y: e, Z: r3.Cross(n, e)}
}

// RotateZYX applies a yaw-pitch-roll rotation sequence to a frame:
// psi about Z, theta about the new Y, phi about the new X.
func RotateZYX(f Frame, e Euler) Frame {
	x1 := Rotate(f.X, e.Psi, f.Z)
	y1 := Rotate(f.Y, e.Psi, f.Z)
	x2 := Rotate(x1, e.Theta, y1)
	z2 := Rotate(f.Z, e.Theta, y1)
	y3 := Rotate(y1, e.Phi, x2)
	z3 := Rotate(z2, e.Phi, x2)
	return Frame{X: x2, Y: y3, Z: z3}
}

// EulerBetween decomposes the rotation carrying frame a onto frame b
// into aerospace Z-Y-X Euler angles. Near theta = ±90° yaw and roll
// are not separable; no gimbal-lock guard is applied.
func EulerBetween(a, b Frame) Euler {
	psi := math.Atan2(r3.Dot(b.X, a.Y), r3.Dot(b.X, a.X))
	theta := math.Atan2(-r3.Dot(b.X, a.Z),
		math.Sqrt(math.Pow(r3.Dot(b.X, a.X), 2)+math.Pow(r3.Dot(b.X, a.Y), 2)))
	y2 := Rotate(a.Y, psi, a.Z)
	z2 := Rotate(a.Z, theta, y2)
	phi := math.Atan2(r3.Dot(b.Y, z2), r3.Dot(b.Y, y2))
	return Euler{Psi: psi, Theta: theta, Phi: phi}
}

// ToWorld converts a geodetic position and NED-relative attitude to
// the DIS world frame. When degrees is true the attitude angles are
// taken as degrees.
func ToWorld(pos Geodetic, att Attitude, degrees bool) (r3.Vec, Euler) {
	e := attitudeToEuler(att, degrees)
	ned := NED(pos.Lat, pos.Lon)
	body := RotateZYX(ned, e)
	return GeodeticToECEF(pos), EulerBetween(WorldFrame, body)
}

// FromWorld is the inverse of ToWorld. When degrees is true the
// returned attitude angles are in degrees.
func FromWorld(p r3.Vec, e Euler, degrees bool) (Geodetic, Attitude) {
	g := ECEFToGeodetic(p)
	body := RotateZYX(WorldFrame, e)
	ned := NED(g.Lat, g.Lon)
	att := EulerBetween(ned, body)
	out := Attitude{Yaw: att.Psi, Pitch: att.Theta, Roll: att.Phi}
	if degrees {
		out = Attitude{Yaw: rad2deg(att.Psi), Pitch: rad2deg(att.Theta), Roll: rad2deg(att.Phi)}
	}
	return g, out
}

// PointLocalToWorld returns the world-frame position of a point given
// in an entity's body frame (+x bow, +y starboard, +z down), such as
// an antenna mount.
func PointLocalToWorld(pos Geodetic, att Attitude, offset r3.Vec, degrees bool) r3.Vec {
	e := attitudeToEuler(att, degrees)
	origin := GeodeticToECEF(pos)
	ned := NED(pos.Lat, pos.Lon)
	body := RotateZYX(ned, e)
	p := r3.Add(origin, r3.Scale(offset.X, body.X))
	p = r3.Add(p, r3.Scale(offset.Y, body.Y))
	return r3.Add(p, r3.Scale(offset.Z, body.Z))
}

func attitudeToEuler(att Attitude, degrees bool) Euler {
	if degrees {
		return Euler{Psi: deg2rad(att.Yaw), Theta: deg2rad(att.Pitch), Phi: deg2rad(att.Roll)}
	}
	return Euler{Psi: att.Yaw, Theta: att.Pitch, Phi: att.Roll}
}
