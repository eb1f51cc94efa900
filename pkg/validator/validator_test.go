package validator

import "testing"

type pingReq struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Speed     float64  `json:"speed_mps" validate:"gte=0"`
	Note      string   `json:"-"`
}

func ptr(f float64) *float64 { return &f }

func TestValidatorCheck(t *testing.T) {
	v := New()
	v.Check(true, "a", "never")
	v.Check(false, "b", "first")
	v.Check(false, "b", "second")

	if v.Valid() {
		t.Fatal("expected invalid")
	}
	if len(v.Errors) != 1 || v.Errors["b"] != "first" {
		t.Fatalf("unexpected errors: %v", v.Errors)
	}
}

func TestValidatorStruct(t *testing.T) {
	tests := []struct {
		name    string
		req     pingReq
		wantKey []string
	}{
		{
			name: "valid",
			req:  pingReq{Latitude: ptr(43.2), Longitude: ptr(76.9), Speed: 3},
		},
		{
			name:    "missing latitude",
			req:     pingReq{Longitude: ptr(76.9)},
			wantKey: []string{"latitude"},
		},
		{
			name:    "out of range and negative speed",
			req:     pingReq{Latitude: ptr(91), Longitude: ptr(181), Speed: -1},
			wantKey: []string{"latitude", "longitude", "speed_mps"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Struct(tt.req)

			if len(v.Errors) != len(tt.wantKey) {
				t.Fatalf("errors = %v, want keys %v", v.Errors, tt.wantKey)
			}
			for _, k := range tt.wantKey {
				if _, ok := v.Errors[k]; !ok {
					t.Errorf("missing error for %q in %v", k, v.Errors)
				}
			}
		})
	}
}

func TestHelpers(t *testing.T) {
	if !PermittedValue("PENDING", "PENDING", "APPROVED") {
		t.Error("PermittedValue should accept listed value")
	}
	if PermittedValue("x", "PENDING") {
		t.Error("PermittedValue should reject unlisted value")
	}
	if !Matches("driver@example.com", EmailRX) || Matches("not-an-email", EmailRX) {
		t.Error("EmailRX mismatch")
	}
	if !Unique([]string{"en", "ms"}) || Unique([]string{"en", "en"}) {
		t.Error("Unique mismatch")
	}
}

func TestSummary(t *testing.T) {
	v := New()
	v.AddError("page", "must be greater than zero")
	v.AddError("email", "must be a valid email address")

	want := "email: must be a valid email address; page: must be greater than zero"
	if got := v.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}
