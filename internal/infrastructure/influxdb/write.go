package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names written by Plant Core.
const (
	MeasurementInventory = "plant_inventory"
	MeasurementRemoved   = "plant_removed"
)

// InventorySample is the state of one plant at the moment it changed.
// Nil fields are omitted from the point.
type InventorySample struct {
	PlantID           int64
	HasFruit          *bool
	Quantity          *int
	WateringFrequency *int
}

// WritePlantInventory records the current stock level of a plant.
//
// The point is tagged with plant_id and, when known, has_fruit. A sample
// with neither quantity nor watering frequency carries no fields and is
// skipped. The write is non-blocking; points are batched.
//
// Example:
//
//	client.WritePlantInventory(influxdb.InventorySample{PlantID: 7, Quantity: &qty})
func (c *Client) WritePlantInventory(s InventorySample) {
	tags := map[string]string{
		"plant_id": strconv.FormatInt(s.PlantID, 10),
	}
	if s.HasFruit != nil {
		tags["has_fruit"] = strconv.FormatBool(*s.HasFruit)
	}

	fields := map[string]interface{}{}
	if s.Quantity != nil {
		fields["quantity"] = *s.Quantity
	}
	if s.WateringFrequency != nil {
		fields["watering_frequency"] = *s.WateringFrequency
	}
	if len(fields) == 0 {
		return
	}

	c.WritePoint(MeasurementInventory, tags, fields)
}

// WritePlantRemoved records that a plant was deleted.
func (c *Client) WritePlantRemoved(plantID int64) {
	c.WritePoint(MeasurementRemoved,
		map[string]string{"plant_id": strconv.FormatInt(plantID, 10)},
		map[string]interface{}{"removed": true},
	)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Writes on a disconnected or closed client are dropped.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
