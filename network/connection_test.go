package network

import (
	"math"
	"testing"
)

func TestSend_RejectsOversizedPayload(t *testing.T) {
	conn := NewWSConnection(nil)

	// The length field is two bytes; a larger payload must be rejected
	// before anything hits the wire.
	err := conn.Send(MsgTypeScoreboard, make([]byte, math.MaxUint16+1))
	if err != ErrPayloadTooLarge {
		t.Fatalf("Expected ErrPayloadTooLarge, got %v", err)
	}
}
