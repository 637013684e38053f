package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Size caps on declared frame lengths. A peer announcing more than this is
// treated as a protocol violation before any allocation happens.
const (
	MaxMessageSize = 100 << 20 // JSON frames
	MaxFileSize    = 512 << 20 // binary file-transfer frames
)

// ErrProtocolViolation marks framing or encoding failures that are fatal to
// the connection. A clean peer close at a frame boundary is io.EOF instead.
var ErrProtocolViolation = errors.New("protocol violation")

// WriteMessage frames v as [4-byte big-endian length][JSON payload]
func WriteMessage(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	if len(payload) > MaxMessageSize {
		return fmt.Errorf("%w: message of %d bytes exceeds cap", ErrProtocolViolation, len(payload))
	}

	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))
	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("write length prefix: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}

// ReadMessage reads one length-prefixed JSON frame into v.
//
// Returns io.EOF when the peer closed cleanly at a frame boundary. Any
// other failure (truncated prefix or payload, oversized declared length,
// undecodable JSON) wraps ErrProtocolViolation and the caller must tear
// the connection down.
func ReadMessage(r io.Reader, v any) error {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("%w: short length prefix: %v", ErrProtocolViolation, err)
	}

	length := binary.BigEndian.Uint32(prefix[:])
	if length > MaxMessageSize {
		return fmt.Errorf("%w: declared length %d exceeds cap %d", ErrProtocolViolation, length, MaxMessageSize)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return fmt.Errorf("%w: short payload: %v", ErrProtocolViolation, err)
	}

	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: decode payload: %v", ErrProtocolViolation, err)
	}
	return nil
}

// WriteRaw frames data as [8-byte big-endian length][raw bytes]. Used for
// the game-package transfer sub-protocol on the same connection.
func WriteRaw(w io.Writer, data []byte) error {
	if len(data) > MaxFileSize {
		return fmt.Errorf("%w: file of %d bytes exceeds cap", ErrProtocolViolation, len(data))
	}

	var prefix [8]byte
	binary.BigEndian.PutUint64(prefix[:], uint64(len(data)))
	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("write length prefix: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write file data: %w", err)
	}
	return nil
}

// ReadRaw reads one 8-byte length-prefixed binary frame
func ReadRaw(r io.Reader) ([]byte, error) {
	var prefix [8]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, fmt.Errorf("%w: short length prefix: %v", ErrProtocolViolation, err)
	}

	length := binary.BigEndian.Uint64(prefix[:])
	if length > MaxFileSize {
		return nil, fmt.Errorf("%w: declared length %d exceeds cap %d", ErrProtocolViolation, length, MaxFileSize)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("%w: short file data: %v", ErrProtocolViolation, err)
	}
	return data, nil
}
