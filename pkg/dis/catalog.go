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

package dis

// PduType is the 8-bit PDU kind tag from the PDU header.
type PduType uint8

const (
	PduTypeEntityState PduType = 1
	PduTypeStart       PduType = 13
	PduTypeStop        PduType = 14
	PduTypeDataQuery   PduType = 18
	PduTypeData        PduType = 20
	PduTypeTransmitter PduType = 25
	PduTypeSignal      PduType = 26
	PduTypeReceiver    PduType = 27
)

// Protocol families carried in the PDU header.
const (
	FamilyEntityInfo uint64 = 1
	FamilyRadioComms uint64 = 4
	FamilySimMgmt    uint64 = 5
)

// ProtocolVersion is DIS protocol version 6 (IEEE 1278.1a-1998).
const ProtocolVersion uint64 = 6

// HeaderSize is the fixed PDU header size in bytes.
const HeaderSize = 12

func u8() *Scalar  { return &Scalar{Kind: Unsigned, Bits: 8} }
func u16() *Scalar { return &Scalar{Kind: Unsigned, Bits: 16} }
func u32() *Scalar { return &Scalar{Kind: Unsigned, Bits: 32} }
func u64() *Scalar { return &Scalar{Kind: Unsigned, Bits: 64} }
func i32() *Scalar { return &Scalar{Kind: Signed, Bits: 32} }
func f32() *Scalar { return &Scalar{Kind: Float, Bits: 32} }
func f64() *Scalar { return &Scalar{Kind: Float, Bits: 64} }

func bits(n int) *Scalar { return &Scalar{Kind: RawBits, Bits: n} }

// HeaderEncoding describes the 12-byte PDU header common to all PDUs.
var HeaderEncoding = &Composite{Fields: []Field{
	{"protocolVersion", u8()},
	{"exerciseId", u8()},
	{"pduType", u8()},
	{"protocolFamily", u8()},
	{"timestamp", u32()},
	{"length", u16()},
	{"padding", u16()},
}}

var entityIdEncoding = &Composite{Fields: []Field{
	{"site", u16()},
	{"application", u16()},
	{"entity", u16()},
}}

var entityTypeEncoding = &Composite{Fields: []Field{
	{"entityKind", u8()},
	{"domain", u8()},
	{"country", u16()},
	{"category", u8()},
	{"subcategory", u8()},
	{"specific", u8()},
	{"extra", u8()},
}}

var linearVector32Encoding = &Composite{Fields: []Field{
	{"x", f32()},
	{"y", f32()},
	{"z", f32()},
}}

var linearVector64Encoding = &Composite{Fields: []Field{
	{"x", f64()},
	{"y", f64()},
	{"z", f64()},
}}

var angularVector32Encoding = &Composite{Fields: []Field{
	{"psi", f32()},
	{"theta", f32()},
	{"phi", f32()},
}}

var deadReckoningEncoding = &Composite{Fields: []Field{
	{"deadReckoningAlgorithm", u8()},
	{"otherParameters", bits(120)},
	{"entityLinearAcceleration", linearVector32Encoding},
	{"entityAngularVelocity", angularVector32Encoding},
}}

var entityMarkingEncoding = &Composite{Fields: []Field{
	{"characterSet", u8()},
	{"characters", &Scalar{Kind: Unsigned, Bits: 8, Count: 11}},
}}

var clockTimeEncoding = &Composite{Fields: []Field{
	{"hour", i32()},
	{"timePastHour", u32()},
}}

// radioEntityTypeEncoding differs from the entity type record: the
// trailing three fields identify the radio nomenclature.
var radioEntityTypeEncoding = &Composite{Fields: []Field{
	{"entityKind", u8()},
	{"domain", u8()},
	{"country", u16()},
	{"category", u8()},
	{"nomenclatureVersion", u8()},
	{"nomenclature", u16()},
}}

var modulationTypeEncoding = &Composite{Fields: []Field{
	{"spreadSpectrum", bits(16)},
	{"major", u16()},
	{"detail", u16()},
	{"system", u16()},
}}

var entityStatePduEncoding = &Composite{Fields: []Field{
	{"pduHeader", HeaderEncoding},
	{"entityId", entityIdEncoding},
	{"forceId", u8()},
	{"numberOfArticulationParameters", u8()},
	{"entityType", entityTypeEncoding},
	{"alternativeEntityType", entityTypeEncoding},
	{"entityLinearVelocity", linearVector32Encoding},
	{"entityLocation", linearVector64Encoding},
	{"entityOrientation", angularVector32Encoding},
	{"entityAppearance", bits(32)},
	{"deadReckoningParameters", deadReckoningEncoding},
	{"entityMarking", entityMarkingEncoding},
	{"capabilities", &Scalar{Kind: BoolArray, Count: 32}},
}}

var startPduEncoding = &Composite{Fields: []Field{
	{"pduHeader", HeaderEncoding},
	{"originatingEntityId", entityIdEncoding},
	{"receivingEntityId", entityIdEncoding},
	{"realWorldTime", clockTimeEncoding},
	{"simulationTime", clockTimeEncoding},
	{"requestId", u32()},
}}

var stopPduEncoding = &Composite{Fields: []Field{
	{"pduHeader", HeaderEncoding},
	{"originatingEntityId", entityIdEncoding},
	{"receivingEntityId", entityIdEncoding},
	{"realWorldTime", clockTimeEncoding},
	{"reason", u8()},
	{"frozenBehavior", u8()},
	{"padding", bits(16)},
	{"requestId", u32()},
}}

// Radio communications family. The Python reference implementation
// never registered these; layouts follow IEEE 1278.1 with the byte
// counts fixed at 104, 36 and 36+payload.

var transmitterPduEncoding = &Composite{Fields: []Field{
	{"pduHeader", HeaderEncoding},
	{"entityId", entityIdEncoding},
	{"radioId", u16()},
	{"radioEntityType", radioEntityTypeEncoding},
	{"transmitState", u8()},
	{"inputSource", u8()},
	{"padding", bits(16)},
	{"antennaLocation", linearVector64Encoding},
	{"relativeAntennaLocation", linearVector32Encoding},
	{"antennaPatternType", u16()},
	{"antennaPatternLength", u16()},
	{"frequency", u64()},
	{"transmitFrequencyBandwidth", f32()},
	{"power", f32()},
	{"modulationType", modulationTypeEncoding},
	{"cryptoSystem", u16()},
	{"cryptoKeyId", u16()},
	{"lengthOfModulationParameters", u8()},
	{"padding2", bits(24)},
}}

var receiverPduEncoding = &Composite{Fields: []Field{
	{"pduHeader", HeaderEncoding},
	{"entityId", entityIdEncoding},
	{"radioId", u16()},
	{"receiverState", u16()},
	{"padding", bits(16)},
	{"receivedPower", f32()},
	{"transmitterEntityId", entityIdEncoding},
	{"transmitterRadioId", u16()},
}}

var signalPduEncoding = &Composite{Fields: []Field{
	{"pduHeader", HeaderEncoding},
	{"entityId", entityIdEncoding},
	{"radioId", u16()},
	{"encodingScheme", u16()},
	{"tdlType", u16()},
	{"sampleRate", u32()},
	{"dataLength", u16()},
	{"samples", u16()},
	{"padding", bits(32)},
	{"data", &Scalar{Kind: Bytes}},
}}

// pduEncodings maps PDU types to their descriptors. Immutable after
// init.
var pduEncodings = map[PduType]*Composite{
	PduTypeEntityState: entityStatePduEncoding,
	PduTypeStart:       startPduEncoding,
	PduTypeStop:        stopPduEncoding,
	PduTypeTransmitter: transmitterPduEncoding,
	PduTypeSignal:      signalPduEncoding,
	PduTypeReceiver:    receiverPduEncoding,
}

// Encoding returns the registered descriptor for a PDU type.
func Encoding(t PduType) (*Composite, bool) {
	enc, ok := pduEncodings[t]
	return enc, ok
}
