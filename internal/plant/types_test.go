package plant

import (
	"encoding/json"
	"testing"
)

func TestApply(t *testing.T) {
	p := Plant{ID: 1, Name: strPtr("Fern"), Quantity: intPtr(5), HasFruit: boolPtr(false), WateringFrequency: intPtr(3)}
	p.Apply(Plant{ID: 50, Quantity: intPtr(9)})

	if p.ID != 1 {
		t.Errorf("ID = %d, want 1", p.ID)
	}
	if *p.Quantity != 9 {
		t.Errorf("Quantity = %d, want 9", *p.Quantity)
	}
	if *p.Name != "Fern" || *p.HasFruit || *p.WateringFrequency != 3 {
		t.Errorf("untouched fields changed: %+v", p)
	}
}

func TestApply_AllFields(t *testing.T) {
	p := Plant{ID: 2}
	p.Apply(Plant{Name: strPtr("Lime"), Quantity: intPtr(1), WateringFrequency: intPtr(2), HasFruit: boolPtr(true)})

	if *p.Name != "Lime" || *p.Quantity != 1 || *p.WateringFrequency != 2 || !*p.HasFruit {
		t.Errorf("Apply() = %+v", p)
	}
}

func TestPlant_JSONNulls(t *testing.T) {
	b, err := json.Marshal(Plant{ID: 3, Name: strPtr("Sage")})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"id":3,"name":"Sage","quantity":null,"wateringFrequency":null,"hasFruit":null}`
	if string(b) != want {
		t.Errorf("Marshal() = %s, want %s", b, want)
	}
}
