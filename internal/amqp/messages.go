package amqp

import (
	"encoding/json"
	"time"
)

// VehicleSyncMessage asks the export worker to rebuild and re-export one
// vehicle's report bundle. It carries only the plate and version; the worker
// reads everything else from the database.
type VehicleSyncMessage struct {
	Plate     string    `json:"plate"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewVehicleSyncMessage creates a sync message for one vehicle.
func NewVehicleSyncMessage(plate string, version int64) *VehicleSyncMessage {
	return &VehicleSyncMessage{
		Plate:     plate,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *VehicleSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// VehicleSyncMessageFromJSON creates a message from JSON bytes.
func VehicleSyncMessageFromJSON(data []byte) (*VehicleSyncMessage, error) {
	var msg VehicleSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
