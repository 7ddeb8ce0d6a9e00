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

package srv

import (
	"context"
	"encoding/binary"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emsn.eu/stm/go-dis/pkg/capture"
	"emsn.eu/stm/go-dis/pkg/dis"
)

// fakeTransport replays queued datagrams and then reports timeouts.
type fakeTransport struct {
	queued [][]byte
	// repeat keeps replaying the last datagram instead of timing out.
	repeat bool
}

func (f *fakeTransport) Join(group string) error { return nil }
func (f *fakeTransport) Send(data []byte) error  { return nil }
func (f *fakeTransport) Close() error            { return nil }

func (f *fakeTransport) Receive() ([]byte, bool, error) {
	data, _, ok, err := f.ReceiveFrom()
	return data, ok, err
}

func (f *fakeTransport) ReceiveFrom() ([]byte, *net.UDPAddr, bool, error) {
	if len(f.queued) == 0 {
		return nil, nil, false, nil
	}
	data := f.queued[0]
	if !f.repeat {
		f.queued = f.queued[1:]
	}
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9999}
	return data, addr, true, nil
}

func datagram(t dis.PduType, exerciseID uint8) []byte {
	data := make([]byte, dis.HeaderSize)
	data[0] = 6
	data[1] = exerciseID
	data[2] = uint8(t)
	data[3] = 5
	binary.BigEndian.PutUint16(data[8:10], dis.HeaderSize)
	return data
}

func testStore(t *testing.T) *capture.Store {
	t.Helper()
	store, err := capture.NewStore(filepath.Join(t.TempDir(), "capture.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestReadLoopStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		Context: ctx,
		sock:    &fakeTransport{queued: [][]byte{datagram(dis.PduTypeStart, 1)}, repeat: true},
		chIn:    make(chan InPacket),
	}

	done := make(chan error, 1)
	go func() {
		done <- s.readLoop()
	}()

	// Nobody drains the input queue: the loop must still exit once the
	// context is canceled.
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("readLoop did not stop on context cancel")
	}
}

func TestReadLoopStopsOnCancelWhileIdle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		Context: ctx,
		sock:    &fakeTransport{},
		chIn:    make(chan InPacket),
	}

	done := make(chan error, 1)
	go func() {
		done <- s.readLoop()
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("readLoop did not stop on context cancel")
	}
}

func TestDecodeLoopRecordsAndDrains(t *testing.T) {
	s := &Server{
		Context: context.Background(),
		Store:   testStore(t),
		chIn:    make(chan InPacket),
	}

	done := make(chan struct{})
	go func() {
		s.decodeLoop()
		close(done)
	}()

	data := datagram(dis.PduTypeStart, 7)
	s.chIn <- InPacket{Data: data}
	// Undecodable noise is dropped, not fatal.
	s.chIn <- InPacket{Data: []byte{1, 2}}
	close(s.chIn)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("decodeLoop did not drain the closed input queue")
	}

	records, err := s.Store.List(7, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, dis.PduTypeStart, records[0].PduType)
	assert.Equal(t, data, records[0].Data)
}

func TestReadPacketDataCarriesAncillaryAddr(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	s := &Server{
		Context: ctx,
		sock: &fakeTransport{
			queued: [][]byte{datagram(dis.PduTypeStop, 1)},
		},
		chIn: make(chan InPacket),
	}
	go s.readLoop()

	data, ci, err := s.ReadPacketData()
	require.NoError(t, err)
	assert.Equal(t, uint8(dis.PduTypeStop), data[2])
	assert.Equal(t, len(data), ci.CaptureLength)
	require.Len(t, ci.AncillaryData, 1)
	addr := ci.AncillaryData[0].(*net.UDPAddr)
	assert.Equal(t, 9999, addr.Port)
}
