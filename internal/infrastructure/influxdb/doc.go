// Package influxdb records plant inventory history in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, batched writes and health monitoring.
//
// # Purpose
//
// Every create, update and delete made through the API writes one point so
// stock levels can be charted over time:
//   - plant_inventory: quantity and watering_frequency, tagged by plant_id and has_fruit
//   - plant_removed: one point per deleted plant
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WritePlantRemoved(42)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
//
// # Error Handling
//
// Writes are non-blocking and batch errors are delivered to the callback set
// with SetOnError. Connection and health check errors are returned directly.
package influxdb
