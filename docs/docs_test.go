package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestDocumentDescribesEveryRoute(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("ReadDoc() error = %v", err)
	}

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("document is not valid json: %v", err)
	}

	routes := []struct{ method, path string }{
		{"get", "/health"},
		{"post", "/rides"},
		{"get", "/rides/open"},
		{"get", "/rides/{ride_id}"},
		{"post", "/rides/{ride_id}/accept"},
		{"post", "/rides/{ride_id}/start"},
		{"post", "/rides/{ride_id}/complete"},
		{"post", "/rides/{ride_id}/cancel"},
		{"post", "/rides/{ride_id}/location"},
		{"get", "/rides/{ride_id}/tracking"},
		{"get", "/passengers/{passenger_id}/rides"},
		{"get", "/drivers/{driver_id}/rides"},
		{"post", "/drivers"},
		{"get", "/drivers/{driver_id}"},
		{"get", "/admin/drivers"},
		{"put", "/admin/drivers/{driver_id}/approval"},
		{"post", "/admin/drivers/{driver_id}/reset"},
		{"get", "/admin/rides"},
	}
	for _, r := range routes {
		if _, ok := doc.Paths[r.path][r.method]; !ok {
			t.Errorf("%s %s is not documented", r.method, r.path)
		}
	}
}
