package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/nerrad567/plant-core/internal/audit"
	"github.com/nerrad567/plant-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/plant-core/internal/plant"
)

// eventNames maps audit actions to the MQTT event name.
var eventNames = map[string]string{
	audit.ActionCreate: "created",
	audit.ActionUpdate: "updated",
	audit.ActionDelete: "deleted",
}

// plantEvent is the MQTT payload published after a plant changes.
type plantEvent struct {
	Event     string      `json:"event"`
	PlantID   int64       `json:"plant_id"`
	Plant     plant.Plant `json:"plant"`
	Timestamp string      `json:"timestamp"`
}

// afterMutation runs the best-effort side effects of a successful mutation:
// metrics, the MQTT event, the inventory point and the audit entry.
// Nothing here can change the HTTP response.
func (s *Server) afterMutation(r *http.Request, action string, p *plant.Plant) {
	s.metrics.mutations.WithLabelValues(action).Inc()
	s.publishEvent(r, action, p)
	s.recordInventory(action, p)
	s.auditLog(action, "plant", strconv.FormatInt(p.ID, 10), plantDetails(p))
}

// publishEvent publishes the change on <prefix>/plant/<id>/<event>.
func (s *Server) publishEvent(r *http.Request, action string, p *plant.Plant) {
	if s.events == nil {
		return
	}

	event := eventNames[action]
	payload, err := json.Marshal(plantEvent{
		Event:     event,
		PlantID:   p.ID,
		Plant:     *p,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.logger.Warn("failed to encode plant event", "id", p.ID, "error", err)
		return
	}

	topic := s.topics.PlantEvent(p.ID, event)
	if err := s.events.Publish(topic, payload, s.qos, false); err != nil {
		s.logger.Warn("failed to publish plant event",
			"topic", topic,
			"error", err,
			"request_id", r.Context().Value(ctxKeyRequestID),
		)
	}
}

// recordInventory writes the plant's stock level, or a removal marker on delete.
func (s *Server) recordInventory(action string, p *plant.Plant) {
	if s.inventory == nil {
		return
	}
	if action == audit.ActionDelete {
		s.inventory.WritePlantRemoved(p.ID)
		return
	}
	s.inventory.WritePlantInventory(influxdb.InventorySample{
		PlantID:           p.ID,
		HasFruit:          p.HasFruit,
		Quantity:          p.Quantity,
		WateringFrequency: p.WateringFrequency,
	})
}

// plantDetails snapshots a plant for the audit trail.
func plantDetails(p *plant.Plant) map[string]any {
	return map[string]any{
		"name":              p.Name,
		"quantity":          p.Quantity,
		"wateringFrequency": p.WateringFrequency,
		"hasFruit":          p.HasFruit,
	}
}
