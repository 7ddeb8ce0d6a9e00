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

// Package multicast is the best-effort datagram transport of the
// gateway: one UDP socket joined to any number of multicast groups,
// fan-out send, timeout receive. No retransmission, no acknowledgement.
package multicast

import (
	"context"
	"fmt"
	"net"
	"syscall"
	"time"

	"golang.org/x/net/ipv4"

	"emsn.eu/stm/go-dis/pkg/config"
	"emsn.eu/stm/go-dis/pkg/log"
)

type Socket struct {
	conn    *net.UDPConn
	pconn   *ipv4.PacketConn
	port    int
	timeout time.Duration
	buffer  []byte
	groups  []net.IP
}

// NewSocket binds a reusable UDP socket on the configured port and
// joins the configured groups.
func NewSocket(cfg *config.TransportConfig) (*Socket, error) {
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var soErr error
			err := c.Control(func(fd uintptr) {
				soErr = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1)
			})
			if err != nil {
				return err
			}
			return soErr
		},
	}

	packetConn, err := lc.ListenPacket(context.Background(),
		"udp4", fmt.Sprintf("%s:%d", cfg.HostAddr, cfg.Port))
	if err != nil {
		return nil, err
	}
	conn := packetConn.(*net.UDPConn)

	s := &Socket{
		conn:    conn,
		pconn:   ipv4.NewPacketConn(conn),
		port:    cfg.Port,
		timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
		buffer:  make([]byte, cfg.BufSize),
	}
	for _, group := range cfg.Groups {
		if err := s.Join(group); err != nil {
			conn.Close()
			return nil, err
		}
	}
	return s, nil
}

// Join adds a membership to a multicast group. Subsequent sends fan
// out to all joined groups.
func (s *Socket) Join(group string) error {
	ip := net.ParseIP(group)
	if ip == nil || !ip.IsMulticast() {
		return ErrBadGroup{Group: group}
	}
	if err := s.pconn.JoinGroup(nil, &net.UDPAddr{IP: ip}); err != nil {
		return err
	}
	log.Debug("Joined multicast group %s", group)
	s.groups = append(s.groups, ip)
	return nil
}

// Send writes the datagram to every joined group. Either all groups
// are attempted or the first socket error aborts the fan-out.
func (s *Socket) Send(data []byte) error {
	for _, group := range s.groups {
		if _, err := s.conn.WriteToUDP(data, &net.UDPAddr{IP: group, Port: s.port}); err != nil {
			return err
		}
	}
	return nil
}

// Receive blocks up to the configured timeout. A timeout is the
// normal empty outcome on a best-effort transport and reports
// ok=false with a nil error.
func (s *Socket) Receive() ([]byte, bool, error) {
	if err := s.conn.SetReadDeadline(time.Now().Add(s.timeout)); err != nil {
		return nil, false, err
	}
	n, _, err := s.conn.ReadFromUDP(s.buffer)
	if err != nil {
		if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
			return nil, false, nil
		}
		return nil, false, err
	}
	data := make([]byte, n)
	copy(data, s.buffer[:n])
	return data, true, nil
}

// ReceiveFrom is Receive with the sender's address, for servers that
// track peers.
func (s *Socket) ReceiveFrom() ([]byte, *net.UDPAddr, bool, error) {
	if err := s.conn.SetReadDeadline(time.Now().Add(s.timeout)); err != nil {
		return nil, nil, false, err
	}
	n, addr, err := s.conn.ReadFromUDP(s.buffer)
	if err != nil {
		if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
			return nil, nil, false, nil
		}
		return nil, nil, false, err
	}
	data := make([]byte, n)
	copy(data, s.buffer[:n])
	return data, addr, true, nil
}

func (s *Socket) Close() error {
	return s.conn.Close()
}
