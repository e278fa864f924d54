package device

import (
	"fmt"
	"io"
	"net"
	"sort"

	"github.com/cwbudde/algo-ledviz/config"
)

// ArtNetPort is the UDP port Art-Net nodes listen on.
const ArtNetPort = 6454

const (
	artNetHeaderLen = 18
	artNetVersion   = 14
	opDMX           = 0x5000
	opSync          = 0x5200
)

var artNetID = []byte("Art-Net\x00")

// ArtNet sends groups as ArtDMX universes. Each position occupies three
// consecutive slots (R, G, B) starting at the group's Slot.
type ArtNet struct {
	conn      io.WriteCloser
	layout    Layout
	frames    map[uint16][]byte
	universes []uint16
	packet    []byte
	seq       uint8
	sync      bool
}

// DialArtNet opens a UDP socket to addr. A missing port defaults to 6454.
func DialArtNet(addr string, layout Layout, sync bool) (*ArtNet, error) {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, fmt.Sprint(ArtNetPort))
	}

	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial art-net node: %w", err)
	}

	return NewArtNet(conn, layout, sync)
}

// NewArtNet wraps an already connected packet writer.
func NewArtNet(conn io.WriteCloser, layout Layout, sync bool) (*ArtNet, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	a := &ArtNet{
		conn:   conn,
		layout: layout,
		frames: make(map[uint16][]byte),
		packet: make([]byte, artNetHeaderLen+dmxSlots),
		sync:   sync,
	}

	for _, g := range layout.Groups {
		if _, ok := a.frames[g.Universe]; !ok {
			a.frames[g.Universe] = make([]byte, dmxSlots)
			a.universes = append(a.universes, g.Universe)
		}
	}

	sort.Slice(a.universes, func(i, j int) bool { return a.universes[i] < a.universes[j] })

	return a, nil
}

// Lengths implements engine.Device.
func (a *ArtNet) Lengths() []int {
	return a.layout.Lengths()
}

// SetColors implements engine.Device.
func (a *ArtNet) SetColors(group int, colors []config.Color) error {
	if err := checkGroup(a.layout.Lengths(), group, len(colors)); err != nil {
		return err
	}

	g := a.layout.Groups[group]
	frame := a.frames[g.Universe][g.Slot:]

	for i, c := range colors {
		frame[3*i] = c.R
		frame[3*i+1] = c.G
		frame[3*i+2] = c.B
	}

	return nil
}

// Flush implements engine.Device.
func (a *ArtNet) Flush() error {
	a.seq++
	if a.seq == 0 {
		// Sequence 0 disables reordering on the node.
		a.seq = 1
	}

	for _, u := range a.universes {
		pkt := buildArtDMX(a.packet, a.seq, u, a.frames[u])
		if _, err := a.conn.Write(pkt); err != nil {
			return fmt.Errorf("send universe %d: %w", u, err)
		}
	}

	if a.sync {
		if _, err := a.conn.Write(buildArtSync()); err != nil {
			return fmt.Errorf("send sync: %w", err)
		}
	}

	return nil
}

// Close closes the socket.
func (a *ArtNet) Close() error {
	return a.conn.Close()
}

// buildArtDMX fills dst with an ArtDMX packet for universe carrying payload.
func buildArtDMX(dst []byte, seq uint8, universe uint16, payload []byte) []byte {
	n := len(payload)
	if n%2 == 1 {
		n++
	}

	pkt := dst[:artNetHeaderLen+n]
	copy(pkt, artNetID)
	pkt[8], pkt[9] = byte(opDMX&0xff), byte(opDMX>>8)
	pkt[10], pkt[11] = 0, artNetVersion
	pkt[12], pkt[13] = seq, 0
	pkt[14], pkt[15] = byte(universe&0xff), byte((universe>>8)&0x7f)
	pkt[16], pkt[17] = byte(n>>8), byte(n)
	copy(pkt[artNetHeaderLen:], payload)

	return pkt
}

func buildArtSync() []byte {
	pkt := make([]byte, 14)
	copy(pkt, artNetID)
	pkt[8], pkt[9] = byte(opSync&0xff), byte(opSync>>8)
	pkt[10], pkt[11] = 0, artNetVersion

	return pkt
}
