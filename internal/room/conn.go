package room

import (
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// readBufferSize matches the largest message a client may send in one recv.
const readBufferSize = 20480

// Conn wraps one accepted socket. The role label (Player1, spec_3, ...) is
// not stored here: it is derived on demand from current room membership.
type Conn struct {
	ID   string
	Addr string

	sock      net.Conn
	closeOnce sync.Once
	watchOnce sync.Once
}

func NewConn(sock net.Conn) *Conn {
	addr := ""
	if remote := sock.RemoteAddr(); remote != nil {
		addr = remote.String()
	}

	return &Conn{
		ID:   uuid.NewString(),
		Addr: addr,
		sock: sock,
	}
}

// Send writes one wire message. Messages carry no delimiter; each Send is
// intended to surface as one client recv.
func (that *Conn) Send(text string) error {
	if _, err := that.sock.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to send to %s: %w", that.Addr, err)
	}

	return nil
}

// ReadOnce performs a single blocking read. It is used for the handshake,
// before the connection is handed to a room and its read pump starts.
func (that *Conn) ReadOnce() (string, error) {
	buf := make([]byte, readBufferSize)

	n, err := that.sock.Read(buf)
	if err != nil {
		return "", fmt.Errorf("failed to read from %s: %w", that.Addr, err)
	}

	return strings.TrimSpace(string(buf[:n])), nil
}

func (that *Conn) Close() {
	that.closeOnce.Do(func() {
		_ = that.sock.Close()
	})
}

// Event is one read outcome delivered to the room's turn engine. A Closed
// event is the pump's final word for its connection.
type Event struct {
	Conn   *Conn
	Data   string
	Closed bool
}
