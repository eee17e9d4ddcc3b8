package main

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func frame(msgID uint16, length uint16, data []byte) []byte {
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], length)
	copy(packet[4:], data)
	return packet
}

func TestDecode_HonorsDeclaredLength(t *testing.T) {
	payload := []byte(`[{"name":"Alice"}]`)
	// Trailing bytes past the declared length must not leak into the
	// payload.
	message := append(frame(msgTypeScoreboard, uint16(len(payload)), payload), 0xde, 0xad)

	msgID, data, ok := decode(message)
	if !ok {
		t.Fatal("Expected a valid packet")
	}
	if msgID != msgTypeScoreboard {
		t.Errorf("Expected msg id %d, got %d", msgTypeScoreboard, msgID)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("Expected payload %q, got %q", payload, data)
	}
}

func TestDecode_RejectsMalformedPackets(t *testing.T) {
	cases := [][]byte{
		nil,
		{0x01},
		{0x00, 0x01, 0x00},
		// Declared length exceeds the actual payload.
		frame(msgTypeGameEnd, 10, []byte("short")),
	}
	for _, message := range cases {
		if _, _, ok := decode(message); ok {
			t.Errorf("decode(% x) should reject the packet", message)
		}
	}
}
