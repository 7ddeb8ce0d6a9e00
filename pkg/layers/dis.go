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

// Package layers provides a gopacket layer for the DIS PDU header so
// the daemon can run inbound datagrams through a packet source.
package layers

import (
	"encoding/binary"
	"errors"

	"github.com/google/gopacket"
	gopacketlayers "github.com/google/gopacket/layers"

	"emsn.eu/stm/go-dis/pkg/dis"
)

const (
	// DISLayerNum identifies the layer to gopacket.
	DISLayerNum = 2478
)

// DISHeader is the fixed 12-byte PDU header.
type DISHeader struct {
	ProtocolVersion uint8
	ExerciseID      uint8
	PduType         dis.PduType
	ProtocolFamily  uint8
	Timestamp       uint32
	Length          uint16
	Padding         uint16
}

// DISLayer wraps a whole PDU datagram: the decoded header plus the
// remaining bytes as payload.
type DISLayer struct {
	gopacketlayers.BaseLayer
	DISHeader
}

var DISLayerType = gopacket.RegisterLayerType(DISLayerNum,
	gopacket.LayerTypeMetadata{Name: "DISLayerType", Decoder: gopacket.DecodeFunc(decodeDISLayer)})

func (l *DISLayer) LayerType() gopacket.LayerType {
	return DISLayerType
}

// SerializeHeader writes the 12 header bytes into buf.
func (l *DISLayer) SerializeHeader(buf []byte) {
	buf[0] = l.ProtocolVersion
	buf[1] = l.ExerciseID
	buf[2] = uint8(l.PduType)
	buf[3] = l.ProtocolFamily
	binary.BigEndian.PutUint32(buf[4:8], l.Timestamp)
	binary.BigEndian.PutUint16(buf[8:10], l.Length)
	binary.BigEndian.PutUint16(buf[10:12], l.Padding)
}

// SerializeTo serializes the header into bytes and writes the bytes to
// the SerializeBuffer. The payload is carried by the next layer.
func (l *DISLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	headerBytes, err := b.PrependBytes(dis.HeaderSize)
	if err != nil {
		return err
	}
	l.SerializeHeader(headerBytes)
	return nil
}

// DecodeFromBytes attempts to decode the byte slice as a DIS PDU.
func (l *DISLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < dis.HeaderSize {
		df.SetTruncated()
		return errors.New("DIS datagram shorter than the PDU header")
	}

	l.BaseLayer = gopacketlayers.BaseLayer{
		Contents: data[:dis.HeaderSize],
		Payload:  data[dis.HeaderSize:],
	}

	l.ProtocolVersion = data[0]
	l.ExerciseID = data[1]
	l.PduType = dis.PduType(data[2])
	l.ProtocolFamily = data[3]
	l.Timestamp = binary.BigEndian.Uint32(data[4:8])
	l.Length = binary.BigEndian.Uint16(data[8:10])
	l.Padding = binary.BigEndian.Uint16(data[10:12])
	return nil
}

// CanDecode returns the set of layer types that this DecodingLayer can
// decode.
func (l *DISLayer) CanDecode() gopacket.LayerClass {
	return DISLayerType
}

func (l *DISLayer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypePayload
}

func decodeDISLayer(data []byte, p gopacket.PacketBuilder) error {
	l := &DISLayer{}
	if err := l.DecodeFromBytes(data, p); err != nil {
		return err
	}
	p.AddLayer(l)
	return p.NextDecoder(l.NextLayerType())
}
