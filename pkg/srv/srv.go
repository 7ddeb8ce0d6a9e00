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

// Package srv runs the gateway daemon: it joins the configured
// multicast groups, feeds inbound datagrams through a gopacket
// pipeline into the capture store, and exposes the send operations
// over a small HTTP API.
package srv

import (
	"context"
	"io"
	"net"
	"sync"

	"github.com/google/gopacket"
	"github.com/gorilla/mux"

	"emsn.eu/stm/go-dis/pkg/capture"
	"emsn.eu/stm/go-dis/pkg/config"
	"emsn.eu/stm/go-dis/pkg/gateway"
	"emsn.eu/stm/go-dis/pkg/layers"
	"emsn.eu/stm/go-dis/pkg/log"
	"emsn.eu/stm/go-dis/pkg/multicast"
)

// Transport is the datagram transport the daemon owns: the gateway
// send/receive surface plus peer-addressed reads for the capture
// pipeline.
type Transport interface {
	gateway.Transport
	ReceiveFrom() ([]byte, *net.UDPAddr, bool, error)
}

type InPacket struct {
	Data []byte
	gopacket.CaptureInfo
}

// GetAddrPort returns the UDPAddr of the peer that sent the packet.
func GetAddrPort(packet gopacket.Packet) (*net.UDPAddr, error) {
	meta := packet.Metadata()
	if len(meta.CaptureInfo.AncillaryData) >= 1 {
		ancillary := meta.CaptureInfo.AncillaryData[0]
		udpAddr, ok := ancillary.(*net.UDPAddr)
		if !ok {
			return nil, ErrGetAddr{}
		}
		return udpAddr, nil
	}
	return nil, ErrGetAddr{}
}

type Server struct {
	context.Context
	*config.Config
	Gateway *gateway.Gateway
	Store   *capture.Store
	Router  *mux.Router

	sock Transport
	// mu serializes send operations on the gateway; the gateway
	// itself leaves that to its caller.
	mu   sync.Mutex
	chIn chan InPacket
}

var _ Transport = &multicast.Socket{}

func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	log.Debug("Initializing gateway daemon: site %d application %d exercise %d",
		cfg.SiteID, cfg.ApplicationID, cfg.ExerciseID)

	sock, err := multicast.NewSocket(cfg.Transport)
	if err != nil {
		return nil, err
	}
	store, err := capture.NewStore(cfg.DBPath)
	if err != nil {
		sock.Close()
		return nil, err
	}

	return &Server{
		Context: ctx,
		Config:  cfg,
		Gateway: gateway.New(cfg, sock),
		Store:   store,
		sock:    sock,
		chIn:    make(chan InPacket),
	}, nil
}

// ReadPacketData reads the chIn channel and returns packet data and
// metadata. This method is from the PacketDataSource interface. A
// closed input queue reads as io.EOF so the packet source drains out.
func (s *Server) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	p, ok := <-s.chIn
	if !ok {
		return nil, gopacket.CaptureInfo{}, io.EOF
	}
	return p.Data, p.CaptureInfo, nil
}

// readLoop reads datagrams from the wire into the input queue until
// the context is canceled. Closing the queue on exit ends the decode
// loop behind it.
func (s *Server) readLoop() error {
	defer close(s.chIn)
	for {
		data, addr, ok, err := s.sock.ReceiveFrom()
		if err != nil {
			return err
		}
		if !ok {
			// Receive timeout, nothing arrived yet.
			select {
			case <-s.Context.Done():
				return s.Context.Err()
			default:
			}
			continue
		}
		p := InPacket{
			Data: data,
			CaptureInfo: gopacket.CaptureInfo{
				Length:        len(data),
				CaptureLength: len(data),
				AncillaryData: []interface{}{addr},
			},
		}
		select {
		case s.chIn <- p:
		case <-s.Context.Done():
			return s.Context.Err()
		}
	}
}

// decodeLoop decodes datagrams from the input queue and records them
// in the capture store. It returns when the queue is closed.
func (s *Server) decodeLoop() {
	source := gopacket.NewPacketSource(s, layers.DISLayerType)
	for packet := range source.Packets() {
		layer := packet.Layer(layers.DISLayerType)
		if layer == nil {
			log.Warning("Dropping datagram without a decodable PDU header")
			continue
		}
		l := layer.(*layers.DISLayer)
		if addr, err := GetAddrPort(packet); err == nil {
			log.Debug("PDU type %d from %s", l.PduType, addr)
		}
		raw := append(append([]byte(nil), l.Contents...), l.Payload...)
		if err := s.Store.Put(l.ExerciseID, raw); err != nil {
			log.Error("Error while recording PDU: %s", err)
		}
	}
}

func (s *Server) Run() error {
	defer s.Store.Close()
	defer s.Gateway.Close()

	errChan := make(chan error, 2)

	go func() {
		errChan <- s.readLoop()
	}()
	go s.decodeLoop()
	go func() {
		errChan <- s.StartApiServer()
	}()

	select {
	case <-s.Context.Done():
		return s.Context.Err()
	case err := <-errChan:
		return err
	}
}
