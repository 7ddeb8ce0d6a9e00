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
	"gonum.org/v1/gonum/spatial/r3"

	"emsn.eu/stm/go-dis/pkg/dis"
	"emsn.eu/stm/go-dis/pkg/geo"
	"emsn.eu/stm/go-dis/pkg/log"
)

// channelFrequencies maps radio channel ids to their preassigned
// carrier frequencies in Hz: the maritime AIS channel assignments.
var channelFrequencies = map[int]uint64{
	1: 161975000,
	2: 162025000,
}

// aisBandwidth is the AIS channel bandwidth in Hz.
const aisBandwidth = 25000

// Frequency returns the preassigned carrier frequency for a radio
// channel id.
func Frequency(channel int) (uint64, error) {
	f, ok := channelFrequencies[channel]
	if !ok {
		return 0, ErrUnknownRadioChannel{Channel: channel}
	}
	return f, nil
}

// Transmitter carries the domain parameters of a radio transmitter
// update. The antenna offset is in the entity's body frame (+x bow,
// +y starboard, +z down, meters).
type Transmitter struct {
	EntityID uint16
	RadioID  uint16
	// Channel selects the preassigned carrier frequency.
	Channel       int
	Lat           float64
	Lon           float64
	Alt           float64
	Yaw           float64
	Pitch         float64
	Roll          float64
	AntennaOffset r3.Vec
	// TransmitState: 0 off, 1 on not transmitting, 2 on and
	// transmitting.
	TransmitState uint8
	// Power in watts.
	Power float64
}

// BuildTransmitter assembles a Transmitter PDU value tree. The
// antenna world position is the entity position displaced by the
// body-frame antenna offset.
func (g *Gateway) BuildTransmitter(p Transmitter) (dis.Tree, error) {
	frequency, err := Frequency(p.Channel)
	if err != nil {
		return nil, err
	}
	position := geo.Geodetic{Lat: p.Lat, Lon: p.Lon, Alt: p.Alt}
	attitude := geo.Attitude{Yaw: p.Yaw, Pitch: p.Pitch, Roll: p.Roll}
	antenna := geo.PointLocalToWorld(position, attitude, p.AntennaOffset, true)

	return dis.Tree{
		"pduHeader": g.header(dis.PduTypeTransmitter, dis.FamilyRadioComms, TransmitterLength),
		"entityId":  g.entityId(p.EntityID),
		"radioId":   uint64(p.RadioID),
		"radioEntityType": dis.Tree{
			"entityKind":          uint64(7),
			"domain":              uint64(3),
			"country":             uint64(0),
			"category":            uint64(0),
			"nomenclatureVersion": uint64(0),
			"nomenclature":        uint64(0),
		},
		"transmitState": uint64(p.TransmitState),
		"inputSource":   uint64(0),
		"padding":       zeroBits(16),
		"antennaLocation": dis.Tree{
			"x": antenna.X,
			"y": antenna.Y,
			"z": antenna.Z,
		},
		"relativeAntennaLocation": dis.Tree{
			"x": p.AntennaOffset.X,
			"y": p.AntennaOffset.Y,
			"z": p.AntennaOffset.Z,
		},
		"antennaPatternType":         uint64(0),
		"antennaPatternLength":       uint64(0),
		"frequency":                  frequency,
		"transmitFrequencyBandwidth": float64(aisBandwidth),
		"power":                      p.Power,
		"modulationType": dis.Tree{
			"spreadSpectrum": zeroBits(16),
			"major":          uint64(0),
			"detail":         uint64(0),
			"system":         uint64(0),
		},
		"cryptoSystem":                 uint64(0),
		"cryptoKeyId":                  uint64(0),
		"lengthOfModulationParameters": uint64(0),
		"padding2":                     zeroBits(24),
	}, nil
}

func (g *Gateway) SendTransmitter(p Transmitter) error {
	pdu, err := g.BuildTransmitter(p)
	if err != nil {
		return err
	}
	if err := g.send(dis.PduTypeTransmitter, pdu); err != nil {
		return err
	}
	log.Debug("Sent Transmitter PDU for entity %d radio %d", p.EntityID, p.RadioID)
	return nil
}

// Receiver carries the state of a radio receiver. ReceivedPower is in
// dBm; the transmitter identity names the strongest received source.
type Receiver struct {
	EntityID uint16
	RadioID  uint16
	// ReceiverState: 0 off, 2 on and receiving.
	ReceiverState      uint16
	ReceivedPower      float64
	TransmitterSite    uint16
	TransmitterApplic  uint16
	TransmitterEntity  uint16
	TransmitterRadioID uint16
}

// BuildReceiver assembles a Receiver PDU value tree. A thin
// constructor: no validation beyond what the codec enforces.
func (g *Gateway) BuildReceiver(p Receiver) dis.Tree {
	return dis.Tree{
		"pduHeader":     g.header(dis.PduTypeReceiver, dis.FamilyRadioComms, ReceiverLength),
		"entityId":      g.entityId(p.EntityID),
		"radioId":       uint64(p.RadioID),
		"receiverState": uint64(p.ReceiverState),
		"padding":       zeroBits(16),
		"receivedPower": p.ReceivedPower,
		"transmitterEntityId": dis.Tree{
			"site":        uint64(p.TransmitterSite),
			"application": uint64(p.TransmitterApplic),
			"entity":      uint64(p.TransmitterEntity),
		},
		"transmitterRadioId": uint64(p.TransmitterRadioID),
	}
}

func (g *Gateway) SendReceiver(p Receiver) error {
	if err := g.send(dis.PduTypeReceiver, g.BuildReceiver(p)); err != nil {
		return err
	}
	log.Debug("Sent Receiver PDU for entity %d radio %d", p.EntityID, p.RadioID)
	return nil
}

// Signal carries a raw radio payload. DataBits is the payload length
// in bits; zero means the full byte length of Data.
type Signal struct {
	EntityID       uint16
	RadioID        uint16
	EncodingScheme uint16
	TdlType        uint16
	SampleRate     uint32
	Samples        uint16
	Data           []byte
	DataBits       int
}

// BuildSignal assembles a Signal PDU value tree. A thin constructor:
// the payload travels verbatim after the fixed 36-byte part.
func (g *Gateway) BuildSignal(p Signal) dis.Tree {
	dataBits := p.DataBits
	if dataBits == 0 {
		dataBits = len(p.Data) * 8
	}
	return dis.Tree{
		"pduHeader":      g.header(dis.PduTypeSignal, dis.FamilyRadioComms, SignalBaseLength+len(p.Data)),
		"entityId":       g.entityId(p.EntityID),
		"radioId":        uint64(p.RadioID),
		"encodingScheme": uint64(p.EncodingScheme),
		"tdlType":        uint64(p.TdlType),
		"sampleRate":     uint64(p.SampleRate),
		"dataLength":     uint64(dataBits),
		"samples":        uint64(p.Samples),
		"padding":        zeroBits(32),
		"data":           p.Data,
	}
}

func (g *Gateway) SendSignal(p Signal) error {
	if err := g.send(dis.PduTypeSignal, g.BuildSignal(p)); err != nil {
		return err
	}
	log.Debug("Sent Signal PDU for entity %d radio %d", p.EntityID, p.RadioID)
	return nil
}
