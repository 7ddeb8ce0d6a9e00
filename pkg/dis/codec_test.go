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

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headerTree(t PduType, family uint64, length int) Tree {
	return Tree{
		"protocolVersion": ProtocolVersion,
		"exerciseId":      uint64(3),
		"pduType":         uint64(t),
		"protocolFamily":  family,
		"timestamp":       uint64(123456),
		"length":          uint64(length),
		"padding":         uint64(0),
	}
}

func entityIdTree(site, application, entity uint64) Tree {
	return Tree{"site": site, "application": application, "entity": entity}
}

func clockTree(hour int64, past uint64) Tree {
	return Tree{"hour": hour, "timePastHour": past}
}

func startTree() Tree {
	return Tree{
		"pduHeader":           headerTree(PduTypeStart, FamilySimMgmt, 44),
		"originatingEntityId": entityIdTree(1, 1, 0),
		"receivingEntityId":   entityIdTree(65535, 65535, 65535),
		"realWorldTime":       clockTree(492192, 700000),
		"simulationTime":      clockTree(492192, 700002),
		"requestId":           uint64(7),
	}
}

func TestSerializeStart(t *testing.T) {
	data, err := Serialize(PduTypeStart, startTree())
	require.NoError(t, err)
	assert.Len(t, data, 44)

	// Header bytes are positional and big-endian.
	assert.Equal(t, byte(6), data[0])
	assert.Equal(t, byte(3), data[1])
	assert.Equal(t, byte(13), data[2])
	assert.Equal(t, byte(5), data[3])

	pdu, err := Deserialize(data)
	require.NoError(t, err)
	header := pdu["pduHeader"].(Tree)
	assert.Equal(t, uint64(13), header["pduType"])
	assert.Equal(t, uint64(44), header["length"])
	assert.Equal(t, Tree{"hour": int64(492192), "timePastHour": uint64(700000)},
		pdu["realWorldTime"])
	assert.Equal(t, uint64(7), pdu["requestId"])
}

func TestSerializeStop(t *testing.T) {
	pdu := Tree{
		"pduHeader":           headerTree(PduTypeStop, FamilySimMgmt, 40),
		"originatingEntityId": entityIdTree(1, 1, 0),
		"receivingEntityId":   entityIdTree(65535, 65535, 65535),
		"realWorldTime":       clockTree(-1, 5),
		"reason":              uint64(2),
		"frozenBehavior":      uint64(2),
		"padding":             "1111111111111111",
		"requestId":           uint64(9),
	}
	data, err := Serialize(PduTypeStop, pdu)
	require.NoError(t, err)
	assert.Len(t, data, 40)

	out, err := Deserialize(data)
	require.NoError(t, err)
	// Negative hour survives sign extension.
	assert.Equal(t, int64(-1), out["realWorldTime"].(Tree)["hour"])
	assert.Equal(t, "1111111111111111", out["padding"])
	assert.Equal(t, uint64(2), out["reason"])
}

func entityStateTree() Tree {
	characters := make([]uint64, 11)
	characters[0] = 'H'
	characters[1] = 'i'
	capabilities := make([]bool, 32)
	appearance := strings.Repeat("0", 16) + "001" + strings.Repeat("0", 13)
	return Tree{
		"pduHeader": headerTree(PduTypeEntityState, FamilyEntityInfo, 144),
		"entityId":  entityIdTree(1, 1, 5),
		"forceId":   uint64(1),
		"numberOfArticulationParameters": uint64(0),
		"entityType": Tree{
			"entityKind": uint64(1), "domain": uint64(3), "country": uint64(0),
			"category": uint64(61), "subcategory": uint64(2), "specific": uint64(1),
			"extra": uint64(0),
		},
		"alternativeEntityType": Tree{
			"entityKind": uint64(1), "domain": uint64(3), "country": uint64(0),
			"category": uint64(61), "subcategory": uint64(2), "specific": uint64(1),
			"extra": uint64(0),
		},
		"entityLinearVelocity": Tree{"x": 1.5, "y": -2.25, "z": 0.0},
		"entityLocation":       Tree{"x": 3899380.5, "y": 333459.25, "z": 5026965.125},
		"entityOrientation":    Tree{"psi": 0.5, "theta": -0.25, "phi": 0.125},
		"entityAppearance":     appearance,
		"deadReckoningParameters": Tree{
			"deadReckoningAlgorithm":   uint64(4),
			"otherParameters":          strings.Repeat("0", 120),
			"entityLinearAcceleration": Tree{"x": 0.0, "y": 0.0, "z": 0.0},
			"entityAngularVelocity":    Tree{"psi": 0.0, "theta": 0.0, "phi": 0.0},
		},
		"entityMarking": Tree{
			"characterSet": uint64(1),
			"characters":   characters,
		},
		"capabilities": capabilities,
	}
}

func TestSerializeEntityState(t *testing.T) {
	data, err := Serialize(PduTypeEntityState, entityStateTree())
	require.NoError(t, err)
	assert.Len(t, data, 144)

	out, err := Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, Tree{"x": 1.5, "y": -2.25, "z": 0.0}, out["entityLinearVelocity"])
	assert.Equal(t, Tree{"x": 3899380.5, "y": 333459.25, "z": 5026965.125}, out["entityLocation"])
	appearance := out["entityAppearance"].(string)
	assert.Equal(t, "001", appearance[16:19])
	marking := out["entityMarking"].(Tree)
	assert.Equal(t, uint64('H'), marking["characters"].([]uint64)[0])
	assert.Equal(t, make([]bool, 32), out["capabilities"])
}

func TestSerializeTransmitter(t *testing.T) {
	pdu := Tree{
		"pduHeader": headerTree(PduTypeTransmitter, FamilyRadioComms, 104),
		"entityId":  entityIdTree(1, 1, 5),
		"radioId":   uint64(1),
		"radioEntityType": Tree{
			"entityKind": uint64(7), "domain": uint64(3), "country": uint64(0),
			"category": uint64(0), "nomenclatureVersion": uint64(0), "nomenclature": uint64(0),
		},
		"transmitState":           uint64(2),
		"inputSource":             uint64(0),
		"padding":                 strings.Repeat("0", 16),
		"antennaLocation":         Tree{"x": 3899380.5, "y": 333459.25, "z": 5026965.125},
		"relativeAntennaLocation": Tree{"x": 0.0, "y": 0.0, "z": -12.5},
		"antennaPatternType":      uint64(0),
		"antennaPatternLength":    uint64(0),
		"frequency":               uint64(161975000),
		"transmitFrequencyBandwidth": 25000.0,
		"power":                      12.5,
		"modulationType": Tree{
			"spreadSpectrum": strings.Repeat("0", 16),
			"major":          uint64(0),
			"detail":         uint64(0),
			"system":         uint64(0),
		},
		"cryptoSystem":                 uint64(0),
		"cryptoKeyId":                  uint64(0),
		"lengthOfModulationParameters": uint64(0),
		"padding2":                     strings.Repeat("0", 24),
	}
	data, err := Serialize(PduTypeTransmitter, pdu)
	require.NoError(t, err)
	assert.Len(t, data, 104)

	out, err := Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(161975000), out["frequency"])
	assert.Equal(t, 25000.0, out["transmitFrequencyBandwidth"])
	assert.Equal(t, -12.5, out["relativeAntennaLocation"].(Tree)["z"])
}

func TestSerializeReceiver(t *testing.T) {
	pdu := Tree{
		"pduHeader":           headerTree(PduTypeReceiver, FamilyRadioComms, 36),
		"entityId":            entityIdTree(1, 1, 5),
		"radioId":             uint64(1),
		"receiverState":       uint64(2),
		"padding":             strings.Repeat("0", 16),
		"receivedPower":       -82.5,
		"transmitterEntityId": entityIdTree(2, 1, 9),
		"transmitterRadioId":  uint64(1),
	}
	data, err := Serialize(PduTypeReceiver, pdu)
	require.NoError(t, err)
	assert.Len(t, data, 36)

	out, err := Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, -82.5, out["receivedPower"])
	assert.Equal(t, uint64(9), out["transmitterEntityId"].(Tree)["entity"])
}

func TestSerializeSignal(t *testing.T) {
	payload := []byte{0xde, 0xad, 0xbe, 0xef, 0x01}
	pdu := Tree{
		"pduHeader":      headerTree(PduTypeSignal, FamilyRadioComms, 36+len(payload)),
		"entityId":       entityIdTree(1, 1, 5),
		"radioId":        uint64(1),
		"encodingScheme": uint64(0),
		"tdlType":        uint64(0),
		"sampleRate":     uint64(0),
		"dataLength":     uint64(len(payload) * 8),
		"samples":        uint64(0),
		"padding":        strings.Repeat("0", 32),
		"data":           payload,
	}
	data, err := Serialize(PduTypeSignal, pdu)
	require.NoError(t, err)
	assert.Len(t, data, 36+len(payload))

	out, err := Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, payload, out["data"])
	assert.Equal(t, uint64(40), out["dataLength"])
}

func TestSerializeUnknownType(t *testing.T) {
	_, err := Serialize(PduTypeData, Tree{})
	var unknownErr ErrUnknownPduType
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, PduTypeData, unknownErr.PduType)
}

func TestSerializeMissingField(t *testing.T) {
	pdu := startTree()
	delete(pdu, "requestId")
	_, err := Serialize(PduTypeStart, pdu)
	var fieldErr ErrFieldValue
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "requestId", fieldErr.Field)
}

func TestSerializeOutOfRange(t *testing.T) {
	pdu := startTree()
	pdu["originatingEntityId"].(Tree)["site"] = uint64(65536)
	_, err := Serialize(PduTypeStart, pdu)
	var fieldErr ErrFieldValue
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "originatingEntityId.site", fieldErr.Field)
}

func TestSerializeBadBitString(t *testing.T) {
	pdu := entityStateTree()
	pdu["entityAppearance"] = strings.Repeat("0", 31) + "2"
	_, err := Serialize(PduTypeEntityState, pdu)
	var fieldErr ErrFieldValue
	require.ErrorAs(t, err, &fieldErr)

	pdu["entityAppearance"] = "01"
	_, err = Serialize(PduTypeEntityState, pdu)
	require.ErrorAs(t, err, &fieldErr)
}

func TestDeserializeUnknownType(t *testing.T) {
	// A Data PDU has no registered descriptor: the header still decodes
	// and the body is ignored without error.
	data, err := Serialize(PduTypeStart, startTree())
	require.NoError(t, err)
	data[2] = byte(PduTypeData)

	pdu, err := Deserialize(data)
	require.NoError(t, err)
	assert.Len(t, pdu, 1)
	assert.Equal(t, uint64(PduTypeData), pdu["pduHeader"].(Tree)["pduType"])
}

func TestDeserializeTruncated(t *testing.T) {
	data, err := Serialize(PduTypeStart, startTree())
	require.NoError(t, err)

	_, err = Deserialize(data[:20])
	var truncErr ErrTruncated
	require.ErrorAs(t, err, &truncErr)

	_, err = Deserialize(data[:5])
	require.ErrorAs(t, err, &truncErr)
}
