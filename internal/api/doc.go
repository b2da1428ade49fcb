// Package api implements the Plant Core HTTP REST API.
//
// This package provides:
//   - CRUD endpoints for plant records and the fixed plant searches
//   - A read endpoint for the audit trail of plant mutations
//   - Health and Prometheus metrics endpoints
//   - Middleware stack (request ID, logging, recovery, CORS, body limit, metrics)
//   - TLS support for production deployments
//
// # Routes
//
//	GET    /plants                 list every plant, ordered by id
//	POST   /plants                 create a plant (201)
//	GET    /plants/search          hasFruit / maxQuantity filters
//	GET    /plants/{id}            fetch one plant
//	PUT    /plants/{id}            merge a partial update into a plant
//	DELETE /plants/{id}            delete a plant, returning its last state
//	GET    /audit                  audit trail, most recent first
//	GET    /health                 liveness and plant count
//	GET    /metrics                Prometheus exposition
//
// # Side Effects
//
// A successful create, update or delete publishes an MQTT event, writes an
// InfluxDB point and queues an audit entry. Each of these is optional and
// best effort: a failure is logged and never changes the HTTP response.
//
// # Unknown IDs
//
// By default an unknown plant id answers 404. With api.not_found_as_null the
// server answers 200 instead: GET with an empty body, PUT and DELETE with a
// JSON null.
package api
