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

import (
	"emsn.eu/stm/go-dis/pkg/config"
	"emsn.eu/stm/go-dis/pkg/dis"
	"emsn.eu/stm/go-dis/pkg/geo"
	"emsn.eu/stm/go-dis/pkg/log"
)

// markingLength is the character capacity of the entity marking
// record.
const markingLength = 11

// deadReckoningHighSpeed is DRM(R,W) 4: high speed or maneuvering
// entity with extrapolation of orientation.
const deadReckoningHighSpeed uint64 = 4

// EntityState carries the domain parameters of one vessel state
// update. Position is geodetic WGS84, attitude is yaw/pitch/roll in
// degrees relative to local NED, velocities are body-frame m/s and
// turn rates rad/s.
type EntityState struct {
	EntityID  uint16
	Lat       float64
	Lon       float64
	Alt       float64
	Yaw       float64
	Pitch     float64
	Roll      float64
	U         float64
	V         float64
	W         float64
	YawRate   float64
	PitchRate float64
	RollRate  float64
	// Type keys into the configured entity type catalog.
	Type string
	// Marking identifies the vessel, at most 11 ASCII characters.
	Marking string
	// NavLights is the navigation lights code: 0 none, 1-7 light
	// patterns, 8 power-driven-underway.
	NavLights int
	// DeckLights switches the deck lights appearance bit.
	DeckLights bool
	// NavShapes is the navigation shapes code: 0 none, 1-7 patterns.
	NavShapes int
}

func entityTypeTree(t config.EntityType) dis.Tree {
	return dis.Tree{
		"entityKind":  uint64(t.EntityKind),
		"domain":      uint64(t.Domain),
		"country":     uint64(t.Country),
		"category":    uint64(t.Category),
		"subcategory": uint64(t.Subcategory),
		"specific":    uint64(t.Specific),
		"extra":       uint64(t.Extra),
	}
}

func markingCharacters(text string) ([]uint64, error) {
	if len(text) > markingLength {
		return nil, ErrTextTooLong{Text: text}
	}
	chars := make([]uint64, markingLength)
	for i := 0; i < len(text); i++ {
		chars[i] = uint64(text[i])
	}
	return chars, nil
}

// BuildEntityState assembles an Entity State PDU value tree.
func (g *Gateway) BuildEntityState(p EntityState) (dis.Tree, error) {
	entityType, ok := g.entityTypes[p.Type]
	if !ok {
		return nil, ErrUnknownEntityType{Key: p.Type}
	}
	characters, err := markingCharacters(p.Marking)
	if err != nil {
		return nil, err
	}
	appearance, err := appearanceField(p.NavLights, p.DeckLights, p.NavShapes)
	if err != nil {
		return nil, err
	}

	position := geo.Geodetic{Lat: p.Lat, Lon: p.Lon, Alt: p.Alt}
	attitude := geo.Attitude{Yaw: p.Yaw, Pitch: p.Pitch, Roll: p.Roll}
	location, euler := geo.ToWorld(position, attitude, true)

	return dis.Tree{
		"pduHeader": g.header(dis.PduTypeEntityState, dis.FamilyEntityInfo, EntityStateLength),
		"entityId":  g.entityId(p.EntityID),
		"forceId":   uint64(1),
		"numberOfArticulationParameters": uint64(0),
		"entityType":            entityTypeTree(entityType),
		"alternativeEntityType": entityTypeTree(entityType),
		"entityLinearVelocity": dis.Tree{
			"x": p.U,
			"y": p.V,
			"z": p.W,
		},
		"entityLocation": dis.Tree{
			"x": location.X,
			"y": location.Y,
			"z": location.Z,
		},
		"entityOrientation": dis.Tree{
			"psi":   euler.Psi,
			"theta": euler.Theta,
			"phi":   euler.Phi,
		},
		"entityAppearance": appearance,
		"deadReckoningParameters": dis.Tree{
			"deadReckoningAlgorithm": deadReckoningHighSpeed,
			// Zero indicates none.
			"otherParameters": zeroBits(120),
			"entityLinearAcceleration": dis.Tree{
				"x": float64(0),
				"y": float64(0),
				"z": float64(0),
			},
			"entityAngularVelocity": dis.Tree{
				"psi":   p.YawRate,
				"theta": p.PitchRate,
				"phi":   p.RollRate,
			},
		},
		"entityMarking": dis.Tree{
			"characterSet": uint64(1),
			"characters":   characters,
		},
		"capabilities": make([]bool, 32),
	}, nil
}

func (g *Gateway) SendEntityState(p EntityState) error {
	pdu, err := g.BuildEntityState(p)
	if err != nil {
		return err
	}
	if err := g.send(dis.PduTypeEntityState, pdu); err != nil {
		return err
	}
	log.Debug("Sent Entity State PDU for entity %d", p.EntityID)
	return nil
}
