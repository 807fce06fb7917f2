// internal/cache/codec.go
//
// Binary encoding of a Table for the cache stores.
// Decoding validates magic, version, dimensions and a blake2b checksum;
// anything malformed is reported as ErrCorrupt so callers rebuild.

package cache

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/robalobadob/wordle/apps/go-solver/internal/feedback"
)

// Binary layout (little endian):
//
//	magic    [4]byte "WPAT"
//	version  uint8
//	length   uint8
//	answers  uint32
//	guesses  uint32
//	fp       [32]byte  vocabulary fingerprint
//	checksum [32]byte  blake2b-256 of the code payload
//	codes    answers*guesses uint16
const (
	codecVersion = 1
	headerSize   = 4 + 1 + 1 + 4 + 4 + blake2b.Size256 + blake2b.Size256
)

var magic = [4]byte{'W', 'P', 'A', 'T'}

// ErrCorrupt is returned when persisted bytes cannot be decoded into a Table.
var ErrCorrupt = errors.New("cache: corrupt pattern table")

// MarshalBinary encodes the table.
func (t *Table) MarshalBinary() ([]byte, error) {
	payload := make([]byte, 2*len(t.codes))
	for i, c := range t.codes {
		binary.LittleEndian.PutUint16(payload[2*i:], uint16(c))
	}
	sum := blake2b.Sum256(payload)

	var buf bytes.Buffer
	buf.Grow(headerSize + len(payload))
	buf.Write(magic[:])
	buf.WriteByte(codecVersion)
	buf.WriteByte(byte(t.length))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(t.answers))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(t.guesses))
	buf.Write(t.fp[:])
	buf.Write(sum[:])
	buf.Write(payload)
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes data produced by MarshalBinary. Any mismatch
// yields an error wrapping ErrCorrupt.
func (t *Table) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize {
		return fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorrupt, len(data))
	}
	if !bytes.Equal(data[:4], magic[:]) {
		return fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	if data[4] != codecVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrCorrupt, data[4])
	}
	length := int(data[5])
	if length == 0 || length > feedback.MaxLength {
		return fmt.Errorf("%w: word length %d", ErrCorrupt, length)
	}
	na := uint64(binary.LittleEndian.Uint32(data[6:]))
	ng := uint64(binary.LittleEndian.Uint32(data[10:]))

	var fp, sum [blake2b.Size256]byte
	copy(fp[:], data[14:14+blake2b.Size256])
	copy(sum[:], data[14+blake2b.Size256:headerSize])

	payload := data[headerSize:]
	if na*ng > uint64(len(payload))/2 || uint64(len(payload)) != 2*na*ng {
		return fmt.Errorf("%w: payload is %d bytes for %dx%d codes", ErrCorrupt, len(payload), na, ng)
	}
	answers, guesses := int(na), int(ng)
	if blake2b.Sum256(payload) != sum {
		return fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	space := feedback.Space(length)
	codes := make([]feedback.Code, answers*guesses)
	for i := range codes {
		c := binary.LittleEndian.Uint16(payload[2*i:])
		if int(c) >= space {
			return fmt.Errorf("%w: code %d out of range", ErrCorrupt, c)
		}
		codes[i] = feedback.Code(c)
	}

	*t = Table{length: length, answers: answers, guesses: guesses, fp: fp, codes: codes}
	return nil
}
