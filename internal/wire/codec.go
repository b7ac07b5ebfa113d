// Copyright (c) 2025 The Vigil Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"vigil.network/postchain/internal/chain"
)

// DecodeError is returned when a datagram cannot be decoded into a
// Message: malformed hex, an unknown tag byte, or a payload truncated
// relative to the variant's expected size. The policy for every
// DecodeError is to drop the datagram.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "wire: decode error: " + e.Reason
}

func decodeErrorf(format string, args ...interface{}) *DecodeError {
	return &DecodeError{Reason: fmt.Sprintf(format, args...)}
}

// payload sizes in bytes, tag byte excluded.
const (
	pingPayloadLen        = 0
	pongPayloadLen        = 0
	getTipPayloadLen      = 0
	requestPostPayloadLen = chainhash.HashSize
	sharePostPayloadLen   = chain.BodyWords*32 + 32 + 32
)

// Encode serializes m into its binary wire form and returns the
// hex-encoded datagram payload. Hex encoding of a whole number of bytes
// is always even length; padHexEven is kept as an explicit normalization
// step so the wire form stays even-length even if a future variant ever
// produces an odd nibble count.
func Encode(m Message) (string, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte(byte(m.tag()))

	switch v := m.(type) {
	case Ping:
	case Pong:
	case GetTip:
	case RequestPost:
		buf.Write(v.Hash[:])
	case SharePost:
		if err := writeSharePost(buf, &v); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("wire: encode: unknown message type %T", m)
	}

	return padHexEven(hex.EncodeToString(buf.Bytes())), nil
}

// padHexEven appends a trailing "0" nibble if s has odd length.
func padHexEven(s string) string {
	if len(s)%2 != 0 {
		return s + "0"
	}
	return s
}

// Decode parses the hex-encoded datagram payload s into a Message.
func Decode(s string) (Message, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, decodeErrorf("malformed hex: %v", err)
	}
	if len(raw) < 1 {
		return nil, decodeErrorf("empty datagram")
	}

	tag := Tag(raw[0])
	payload := raw[1:]

	switch tag {
	case TagPing:
		if len(payload) != pingPayloadLen {
			return nil, decodeErrorf("Ping: expected %d byte payload, got %d", pingPayloadLen, len(payload))
		}
		return Ping{}, nil
	case TagPong:
		if len(payload) != pongPayloadLen {
			return nil, decodeErrorf("Pong: expected %d byte payload, got %d", pongPayloadLen, len(payload))
		}
		return Pong{}, nil
	case TagGetTip:
		if len(payload) != getTipPayloadLen {
			return nil, decodeErrorf("GetTip: expected %d byte payload, got %d", getTipPayloadLen, len(payload))
		}
		return GetTip{}, nil
	case TagRequestPost:
		if len(payload) != requestPostPayloadLen {
			return nil, decodeErrorf("RequestPost: expected %d byte payload, got %d", requestPostPayloadLen, len(payload))
		}
		var h chainhash.Hash
		copy(h[:], payload)
		return RequestPost{Hash: h}, nil
	case TagSharePost:
		if len(payload) != sharePostPayloadLen {
			return nil, decodeErrorf("SharePost: expected %d byte payload, got %d", sharePostPayloadLen, len(payload))
		}
		p, err := readSharePost(payload)
		if err != nil {
			return nil, err
		}
		return SharePost{Post: *p}, nil
	default:
		return nil, decodeErrorf("unknown tag %d", tag)
	}
}

func writeSharePost(buf *bytes.Buffer, v *SharePost) error {
	for _, w := range v.Post.Body {
		buf.Write(w[:])
	}
	buf.Write(v.Post.Work[:])
	buf.Write(v.Post.Prev[:])
	return nil
}

func readSharePost(payload []byte) (*chain.Post, error) {
	p := &chain.Post{}
	off := 0
	for i := range p.Body {
		copy(p.Body[i][:], payload[off:off+32])
		off += 32
	}
	copy(p.Work[:], payload[off:off+32])
	off += 32
	copy(p.Prev[:], payload[off:off+32])
	return p, nil
}

// EncodeAddress renders an Address in its wire form: 4 octets followed by
// a 16-bit port in network byte order. The wire protocol's own messages
// never carry an Address, since UDP delivers the source endpoint out of
// band; this exists for callers that persist or log peer endpoints.
func EncodeAddress(a Address) []byte {
	buf := make([]byte, 6)
	copy(buf[0:4], a.IP[:])
	binary.BigEndian.PutUint16(buf[4:6], a.Port)
	return buf
}

// DecodeAddress parses the wire form produced by EncodeAddress.
func DecodeAddress(b []byte) (Address, error) {
	if len(b) != 6 {
		return Address{}, decodeErrorf("Address: expected 6 byte payload, got %d", len(b))
	}
	var a Address
	copy(a.IP[:], b[0:4])
	a.Port = binary.BigEndian.Uint16(b[4:6])
	return a, nil
}
