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

package gateway

// Appearance bit positions within the 32-bit entity appearance field.
// Bit N is the Nth symbol of the raw bit field, so bit 0 is the MSB of
// the first appearance byte on the wire.
const (
	appearancePowerDrivenBit = 12
	appearanceLightsBit      = 16 // bits 16-18, 3-bit light pattern
	appearanceShapesBit      = 24 // bits 24-26, 3-bit shape pattern
	appearanceDeckLightsBit  = 29
)

// powerDrivenUnderway is the navigation lights code mapped onto the
// power-driven-underway bit instead of the 3-bit pattern.
const powerDrivenUnderway = 8

func zeroBits(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}

func set3BitCode(bits []byte, at, code int) {
	for i := 0; i < 3; i++ {
		if code&(1<<uint(2-i)) != 0 {
			bits[at+i] = '1'
		}
	}
}

// appearanceField encodes navigation lights, deck lights and
// navigation shapes into the 32-bit appearance field. Light codes 1-7
// select the 3-bit pattern at bits 16-18, code 8 sets the
// power-driven-underway bit, code 0 leaves all bits clear. Shape codes
// 1-7 select the pattern at bits 24-26 analogously.
func appearanceField(navLights int, deckLights bool, navShapes int) (string, error) {
	if navLights < 0 || navLights > powerDrivenUnderway {
		return "", ErrInvalidEnum{What: "navigation lights", Value: navLights}
	}
	if navShapes < 0 || navShapes > 7 {
		return "", ErrInvalidEnum{What: "navigation shapes", Value: navShapes}
	}

	bits := []byte(zeroBits(32))
	switch {
	case navLights == powerDrivenUnderway:
		bits[appearancePowerDrivenBit] = '1'
	case navLights > 0:
		set3BitCode(bits, appearanceLightsBit, navLights)
	}
	if navShapes > 0 {
		set3BitCode(bits, appearanceShapesBit, navShapes)
	}
	if deckLights {
		bits[appearanceDeckLightsBit] = '1'
	}
	return string(bits), nil
}
