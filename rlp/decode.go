package rlp

import "math/big"

// Stream is a minimal forward-only RLP decoder, trimmed from
// wyf-ACCEPT-eth2030/pkg/rlp/decode.go to the shapes this module's own
// encoders produce: strings, lists, uint64s and big.Ints. It is used by
// this module's own golden-vector tests to round-trip what Encode
// produced, not to parse arbitrary untrusted RLP.
type Stream struct {
	data  []byte
	pos   int
	stack []int // end offsets of enclosing lists
}

// NewStream returns a Stream positioned at the start of data.
func NewStream(data []byte) *Stream {
	return &Stream{data: data}
}

func (s *Stream) limit() int {
	if len(s.stack) == 0 {
		return len(s.data)
	}
	return s.stack[len(s.stack)-1]
}

// List enters a list value, returning its payload length.
func (s *Stream) List() (int, error) {
	if s.pos >= s.limit() {
		return 0, ErrEOL
	}
	b := s.data[s.pos]
	switch {
	case b >= 0xf8:
		bl := int(b - 0xf7)
		n, err := s.readBigEndianLen(bl)
		if err != nil {
			return 0, err
		}
		s.stack = append(s.stack, s.pos+n)
		return n, nil
	case b >= 0xc0:
		n := int(b - 0xc0)
		s.pos++
		s.stack = append(s.stack, s.pos+n)
		return n, nil
	default:
		return 0, ErrExpectedList
	}
}

// ListEnd closes the current list, advancing past any unread payload.
func (s *Stream) ListEnd() error {
	if len(s.stack) == 0 {
		return ErrExpectedList
	}
	end := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.pos = end
	return nil
}

// AtListEnd reports whether the stream is positioned at the end of the
// current (innermost) list.
func (s *Stream) AtListEnd() bool {
	return s.pos >= s.limit()
}

// Bytes reads a string value.
func (s *Stream) Bytes() ([]byte, error) {
	if s.pos >= s.limit() {
		return nil, ErrEOL
	}
	b := s.data[s.pos]
	switch {
	case b < 0x80:
		s.pos++
		return []byte{b}, nil
	case b < 0xb8:
		n := int(b - 0x80)
		s.pos++
		if s.pos+n > s.limit() {
			return nil, ErrValueTooLarge
		}
		out := append([]byte(nil), s.data[s.pos:s.pos+n]...)
		s.pos += n
		return out, nil
	case b < 0xc0:
		bl := int(b - 0xb7)
		n, err := s.readBigEndianLen(bl)
		if err != nil {
			return nil, err
		}
		if s.pos+n > s.limit() {
			return nil, ErrValueTooLarge
		}
		out := append([]byte(nil), s.data[s.pos:s.pos+n]...)
		s.pos += n
		return out, nil
	default:
		return nil, ErrExpectedString
	}
}

// readBigEndianLen reads the bl-byte big-endian length prefix that
// follows a long string/list marker and advances past it.
func (s *Stream) readBigEndianLen(bl int) (int, error) {
	s.pos++
	if s.pos+bl > len(s.data) {
		return 0, ErrValueTooLarge
	}
	n := 0
	for i := 0; i < bl; i++ {
		n = n<<8 | int(s.data[s.pos+i])
	}
	s.pos += bl
	if bl > 1 && s.data[s.pos-bl] == 0 {
		return 0, ErrCanonSize
	}
	return n, nil
}

// Uint64 reads a string value and interprets it as a big-endian uint64.
func (s *Stream) Uint64() (uint64, error) {
	b, err := s.Bytes()
	if err != nil {
		return 0, err
	}
	if len(b) > 8 {
		return 0, ErrUint64Range
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

// BigInt reads a string value and interprets it as a big-endian big.Int.
func (s *Stream) BigInt() (*big.Int, error) {
	b, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}
