package loglite

import "encoding/binary"

// Wire constants for the EveLogLite viewer protocol. Every frame is a
// fixed 344-byte little-endian image of the viewer's C message struct:
// a uint32 message type, 4 bytes of alignment padding, then a union of
// the connection and text bodies.
const (
	// ProtocolVersion is the handshake version the viewer expects.
	ProtocolVersion = 2
	// DefaultPort is the viewer's listen port (0xcc9).
	DefaultPort = 3273

	messageSize = 344
	bodyOffset  = 8

	// maxTextLen is the largest text payload per frame; longer messages
	// are split across continuation frames.
	maxTextLen = 255
)

type messageType uint32

const (
	connectionMessage messageType = iota
	simpleMessage
	largeMessage
	continuationMessage
	continuationEndMessage
)

// Severity levels understood by the viewer.
type Severity uint32

const (
	SeverityInfo Severity = iota
	SeverityNotice
	SeverityWarning
	SeverityError
)

// Connection body layout, relative to bodyOffset:
//
//	+0   uint32    version
//	+8   int64     pid        (4 bytes of alignment padding before it)
//	+16  [32]byte  machine name, NUL terminated
//	+48  [260]byte executable path, NUL terminated
func encodeConnection(pid int64, machineName, executablePath string) []byte {
	buf := make([]byte, messageSize)
	binary.LittleEndian.PutUint32(buf[0:], uint32(connectionMessage))
	binary.LittleEndian.PutUint32(buf[bodyOffset+0:], ProtocolVersion)
	binary.LittleEndian.PutUint64(buf[bodyOffset+8:], uint64(pid))
	copyPadded(buf[bodyOffset+16:bodyOffset+48], machineName)
	copyPadded(buf[bodyOffset+48:bodyOffset+308], executablePath)
	return buf
}

// Text body layout, relative to bodyOffset:
//
//	+0   uint64    timestamp, milliseconds since the Unix epoch
//	+8   uint32    severity
//	+12  [32]byte  module, NUL terminated
//	+44  [32]byte  channel, NUL terminated
//	+76  [256]byte message, NUL terminated
func encodeText(mt messageType, timestampMS uint64, sev Severity, module, channel, text string) []byte {
	buf := make([]byte, messageSize)
	binary.LittleEndian.PutUint32(buf[0:], uint32(mt))
	binary.LittleEndian.PutUint64(buf[bodyOffset+0:], timestampMS)
	binary.LittleEndian.PutUint32(buf[bodyOffset+8:], uint32(sev))
	copyPadded(buf[bodyOffset+12:bodyOffset+44], module)
	copyPadded(buf[bodyOffset+44:bodyOffset+76], channel)
	copyPadded(buf[bodyOffset+76:bodyOffset+332], text)
	return buf
}

// copyPadded copies s into dst truncated to len(dst)-1 bytes so at least
// one trailing NUL always remains.
func copyPadded(dst []byte, s string) {
	if len(s) > len(dst)-1 {
		s = s[:len(dst)-1]
	}
	copy(dst, s)
}

// splitChunks cuts s into pieces of at most size bytes.
func splitChunks(s string, size int) []string {
	var chunks []string
	for len(s) > size {
		chunks = append(chunks, s[:size])
		s = s[size:]
	}
	return append(chunks, s)
}
