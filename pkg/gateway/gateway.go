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

// Package gateway assembles and exchanges EMSN DIS PDUs: it maps
// domain parameters onto value trees, runs them through the codec and
// hands the bytes to the multicast transport. The gateway itself is
// connectionless; the request counter is its only mutable state and
// concurrent use of one Gateway requires external serialization.
package gateway

import (
	"time"

	"emsn.eu/stm/go-dis/pkg/config"
	"emsn.eu/stm/go-dis/pkg/dis"
	"emsn.eu/stm/go-dis/pkg/log"
)

// Entity identity wildcards (IEEE 1278.1 section 5.1.4).
const (
	NoSite      uint64 = 0
	NoApplic    uint64 = 0
	NoEntity    uint64 = 0
	AllSites    uint64 = 65535
	AllApplic   uint64 = 65535
	AllEntities uint64 = 65535
)

// PDU lengths in bytes as written into the header length field for
// the fixed-size kinds.
const (
	EntityStateLength = 144
	StartLength       = 44
	StopLength        = 40
	TransmitterLength = 104
	ReceiverLength    = 36
	SignalBaseLength  = 36
)

// Transport is the datagram transport the gateway owns. Send fans out
// to all joined groups; Receive reports ok=false on timeout, the
// normal empty outcome.
type Transport interface {
	Join(group string) error
	Send(data []byte) error
	Receive() ([]byte, bool, error)
	Close() error
}

type Gateway struct {
	siteID        uint16
	applicationID uint16
	exerciseID    uint8
	entityTypes   map[string]config.EntityType
	transport     Transport
	requests      uint32
}

func New(cfg *config.Config, transport Transport) *Gateway {
	return &Gateway{
		siteID:        cfg.SiteID,
		applicationID: cfg.ApplicationID,
		exerciseID:    cfg.ExerciseID,
		entityTypes:   cfg.EntityTypes,
		transport:     transport,
	}
}

// Requests returns the current request counter. It increments once per
// Start and once per Stop and is not persisted across restarts.
func (g *Gateway) Requests() uint32 {
	return g.requests
}

func (g *Gateway) Close() error {
	return g.transport.Close()
}

func (g *Gateway) header(t dis.PduType, family uint64, length int) dis.Tree {
	return dis.Tree{
		"protocolVersion": dis.ProtocolVersion,
		"exerciseId":      uint64(g.exerciseID),
		"pduType":         uint64(t),
		"protocolFamily":  family,
		"timestamp":       uint64(dis.Timestamp(time.Now())),
		"length":          uint64(length),
		"padding":         uint64(0),
	}
}

func (g *Gateway) managementEntityId() dis.Tree {
	return dis.Tree{
		"site":        uint64(g.siteID),
		"application": uint64(g.applicationID),
		"entity":      NoEntity,
	}
}

func (g *Gateway) entityId(entity uint16) dis.Tree {
	return dis.Tree{
		"site":        uint64(g.siteID),
		"application": uint64(g.applicationID),
		"entity":      uint64(entity),
	}
}

func wildcardEntityId() dis.Tree {
	return dis.Tree{
		"site":        AllSites,
		"application": AllApplic,
		"entity":      AllEntities,
	}
}

func clockTimeTree(ct dis.ClockTime) dis.Tree {
	return dis.Tree{
		"hour":         int64(ct.Hour),
		"timePastHour": uint64(ct.TimePastHour),
	}
}

// clockTimeFor resolves an optional zone-naive local datetime
// override; the empty string means the current clock.
func clockTimeFor(override string) (dis.ClockTime, error) {
	if override == "" {
		return dis.Now(), nil
	}
	return dis.LocalClockTime(override)
}

func (g *Gateway) send(t dis.PduType, pdu dis.Tree) error {
	data, err := dis.Serialize(t, pdu)
	if err != nil {
		return err
	}
	return g.transport.Send(data)
}

// BuildStart assembles a Start/Resume PDU broadcast to the wildcard
// entity identity. Empty time strings mean the current clock.
func (g *Gateway) BuildStart(realWorldTime, simulationTime string) (dis.Tree, error) {
	rwt, err := clockTimeFor(realWorldTime)
	if err != nil {
		return nil, err
	}
	st, err := clockTimeFor(simulationTime)
	if err != nil {
		return nil, err
	}
	g.requests++
	return dis.Tree{
		"pduHeader":           g.header(dis.PduTypeStart, dis.FamilySimMgmt, StartLength),
		"originatingEntityId": g.managementEntityId(),
		"receivingEntityId":   wildcardEntityId(),
		"realWorldTime":       clockTimeTree(rwt),
		"simulationTime":      clockTimeTree(st),
		"requestId":           uint64(g.requests),
	}, nil
}

func (g *Gateway) SendStart(realWorldTime, simulationTime string) error {
	pdu, err := g.BuildStart(realWorldTime, simulationTime)
	if err != nil {
		return err
	}
	if err := g.send(dis.PduTypeStart, pdu); err != nil {
		return err
	}
	log.Info("Sent Start/Resume PDU, request %d", g.requests)
	return nil
}

// BuildStop assembles a Stop/Freeze PDU. The 16 padding bits are all
// ones, as emitted by the reference implementation; the field is
// opaque on the wire.
func (g *Gateway) BuildStop() dis.Tree {
	g.requests++
	return dis.Tree{
		"pduHeader":           g.header(dis.PduTypeStop, dis.FamilySimMgmt, StopLength),
		"originatingEntityId": g.managementEntityId(),
		"receivingEntityId":   wildcardEntityId(),
		"realWorldTime":       clockTimeTree(dis.Now()),
		"reason":              uint64(2),
		"frozenBehavior":      uint64(2),
		"padding":             "1111111111111111",
		"requestId":           uint64(g.requests),
	}
}

func (g *Gateway) SendStop() error {
	if err := g.send(dis.PduTypeStop, g.BuildStop()); err != nil {
		return err
	}
	log.Info("Sent Stop/Freeze PDU, request %d", g.requests)
	return nil
}

// SendData is deliberately unsupported.
func (g *Gateway) SendData() error {
	return ErrNotImplemented{What: "Data"}
}

// SendDataQuery is deliberately unsupported.
func (g *Gateway) SendDataQuery() error {
	return ErrNotImplemented{What: "Data Query"}
}

// ReceivePDUs drains the transport until a receive times out and
// returns the decoded value trees. An empty slice is the normal
// nothing-arrived outcome.
func (g *Gateway) ReceivePDUs() ([]dis.Tree, error) {
	var pdus []dis.Tree
	for {
		data, ok, err := g.transport.Receive()
		if err != nil {
			return pdus, err
		}
		if !ok {
			return pdus, nil
		}
		pdu, err := dis.Deserialize(data)
		if err != nil {
			log.Warning("Dropping undecodable datagram: %s", err)
			continue
		}
		pdus = append(pdus, pdu)
	}
}
