package protocol

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/suite"
)

type FrameSuite struct {
	suite.Suite
}

func TestFrameSuite(t *testing.T) {
	suite.Run(t, new(FrameSuite))
}

func (s *FrameSuite) TestMessageRoundTrip() {
	var buf bytes.Buffer

	sent := map[string]any{"type": "LOGIN", "data": map[string]any{"username": "alice", "n": float64(7)}}
	s.Require().NoError(WriteMessage(&buf, sent))

	var got map[string]any
	s.Require().NoError(ReadMessage(&buf, &got))
	s.Equal(sent, got)
}

func (s *FrameSuite) TestMessageRoundTripEnvelope() {
	var buf bytes.Buffer

	req, err := NewRequest(TypeJoinRoom, JoinRoomRequest{RoomID: "ab12cd34"})
	s.Require().NoError(err)
	s.Require().NoError(WriteMessage(&buf, req))

	var got Request
	s.Require().NoError(ReadMessage(&buf, &got))
	s.Equal(TypeJoinRoom, got.Type)

	var payload JoinRoomRequest
	s.Require().NoError(got.Decode(&payload))
	s.Equal("ab12cd34", payload.RoomID)
}

func (s *FrameSuite) TestMultipleFramesInSequence() {
	var buf bytes.Buffer
	s.Require().NoError(WriteMessage(&buf, Error("first")))
	s.Require().NoError(WriteMessage(&buf, Error("second")))

	var first, second Response
	s.Require().NoError(ReadMessage(&buf, &first))
	s.Require().NoError(ReadMessage(&buf, &second))
	s.Equal("first", first.Message)
	s.Equal("second", second.Message)
}

func (s *FrameSuite) TestCleanCloseAtFrameBoundaryIsEOF() {
	var buf bytes.Buffer

	var got Response
	err := ReadMessage(&buf, &got)
	s.ErrorIs(err, io.EOF)
	s.NotErrorIs(err, ErrProtocolViolation)
}

func (s *FrameSuite) TestTruncatedPrefixIsViolation() {
	buf := bytes.NewBuffer([]byte{0x00, 0x00})

	var got Response
	s.ErrorIs(ReadMessage(buf, &got), ErrProtocolViolation)
}

func (s *FrameSuite) TestTruncatedPayloadIsViolation() {
	var buf bytes.Buffer
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], 64)
	buf.Write(prefix[:])
	buf.WriteString("{}")

	var got Response
	s.ErrorIs(ReadMessage(&buf, &got), ErrProtocolViolation)
}

func (s *FrameSuite) TestOversizedDeclaredLengthRejectedBeforeRead() {
	var buf bytes.Buffer
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], 500_000_000)
	buf.Write(prefix[:])

	var got Response
	s.ErrorIs(ReadMessage(&buf, &got), ErrProtocolViolation)
	// Nothing past the prefix was consumed
	s.Equal(0, buf.Len())
}

func (s *FrameSuite) TestUndecodablePayloadIsViolation() {
	var buf bytes.Buffer
	payload := []byte("not json at all")
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))
	buf.Write(prefix[:])
	buf.Write(payload)

	var got Response
	s.ErrorIs(ReadMessage(&buf, &got), ErrProtocolViolation)
}

func (s *FrameSuite) TestRawRoundTrip() {
	var buf bytes.Buffer

	data := bytes.Repeat([]byte{0xde, 0xad, 0xbe, 0xef}, 1024)
	s.Require().NoError(WriteRaw(&buf, data))

	got, err := ReadRaw(&buf)
	s.Require().NoError(err)
	s.Equal(data, got)
}

func (s *FrameSuite) TestRawEmptyPayload() {
	var buf bytes.Buffer
	s.Require().NoError(WriteRaw(&buf, nil))

	got, err := ReadRaw(&buf)
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *FrameSuite) TestRawOversizedDeclaredLengthRejected() {
	var buf bytes.Buffer
	var prefix [8]byte
	binary.BigEndian.PutUint64(prefix[:], MaxFileSize+1)
	buf.Write(prefix[:])

	_, err := ReadRaw(&buf)
	s.ErrorIs(err, ErrProtocolViolation)
}

func (s *FrameSuite) TestMixedModesOnOneStream() {
	var buf bytes.Buffer

	s.Require().NoError(WriteMessage(&buf, OK("ready to transfer", DownloadGameData{Name: "connect4", Version: "1.0.0", Size: 4})))
	s.Require().NoError(WriteRaw(&buf, []byte{1, 2, 3, 4}))
	s.Require().NoError(WriteMessage(&buf, OK("download complete", nil)))

	var ready Response
	s.Require().NoError(ReadMessage(&buf, &ready))
	s.True(ready.IsSuccess())

	data, err := ReadRaw(&buf)
	s.Require().NoError(err)
	s.Equal([]byte{1, 2, 3, 4}, data)

	var done Response
	s.Require().NoError(ReadMessage(&buf, &done))
	s.True(done.IsSuccess())
}
