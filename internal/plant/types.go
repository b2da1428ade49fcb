package plant

// Plant is a stored plant record.
//
// ID is assigned by the repository on create and never changes. All other
// fields are optional: nil means "not set" and encodes as JSON null.
type Plant struct {
	ID                int64   `json:"id"`
	Name              *string `json:"name"`
	Quantity          *int    `json:"quantity"`
	WateringFrequency *int    `json:"wateringFrequency"` // days between watering
	HasFruit          *bool   `json:"hasFruit"`
}

// Apply merges a partial update into p.
//
// Each mutable field that is non-nil in patch overwrites the value in p;
// nil fields leave p unchanged. The ID is never touched.
func (p *Plant) Apply(patch Plant) {
	if patch.HasFruit != nil {
		p.HasFruit = patch.HasFruit
	}
	if patch.Quantity != nil {
		p.Quantity = patch.Quantity
	}
	if patch.Name != nil {
		p.Name = patch.Name
	}
	if patch.WateringFrequency != nil {
		p.WateringFrequency = patch.WateringFrequency
	}
}
