package amqp

import (
	"testing"
	"time"
)

func TestVehicleSyncMessageJSON(t *testing.T) {
	msg := NewVehicleSyncMessage("AB123CD", 7)
	if msg.Timestamp.IsZero() {
		t.Fatalf("timestamp not set")
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := VehicleSyncMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Plate != "AB123CD" || got.Version != 7 {
		t.Fatalf("round trip: got %+v", got)
	}
	if !got.Timestamp.Equal(msg.Timestamp.Truncate(time.Nanosecond)) {
		t.Fatalf("timestamp: got %v want %v", got.Timestamp, msg.Timestamp)
	}
}

func TestVehicleSyncMessageFromJSONInvalid(t *testing.T) {
	if _, err := VehicleSyncMessageFromJSON([]byte("not json")); err == nil {
		t.Fatalf("expected error")
	}
}
