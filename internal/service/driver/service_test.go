package driver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/okutransport/ride-coordinator/internal/adapter/memory"
	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
	"github.com/okutransport/ride-coordinator/pkg/logger"
	"github.com/okutransport/ride-coordinator/pkg/passhash"
	"github.com/okutransport/ride-coordinator/pkg/trm"
)

func validInput() models.RegisterDriverInput {
	return models.RegisterDriverInput{
		Email:           "  Siti@Example.com ",
		Password:        "correct horse",
		FullName:        "Siti Rahman",
		Phone:           "+60 12-345 6789",
		ICNumber:        "900101-14-5678",
		LicenseNumber:   "d1234567",
		VehicleType:     "wheelchair van",
		VehiclePlate:    "wxy 1234",
		ExperienceYears: 6,
		Languages:       []string{"ms", "en"},
		Documents: models.DriverDocuments{
			ICPhoto:      "doc-ic",
			Selfie:       "doc-selfie",
			LicensePhoto: "doc-license",
			VehiclePhoto: "doc-vehicle",
		},
	}
}

func newService() (*Service, *memory.DriverStore) {
	store := memory.NewDriverStore()
	return New(store, passhash.New(1000), trm.Nop{}, logger.Discard()), store
}

func TestRegister(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	d, err := svc.Register(ctx, validInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if d.ID != "siti@example.com" || d.ApprovalStatus != types.ApprovalPending {
		t.Errorf("driver = %s/%s", d.ID, d.ApprovalStatus)
	}
	if d.VehiclePlate != "WXY 1234" || d.LicenseNumber != "D1234567" {
		t.Errorf("plate/license not normalised: %q %q", d.VehiclePlate, d.LicenseNumber)
	}
	if ok, err := passhash.VerifyPassword("correct horse", d.PasswordHash); !ok || err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}

	got, err := svc.Get(ctx, "siti@example.com")
	if err != nil || got.FullName != "Siti Rahman" {
		t.Errorf("Get = %+v, %v", got, err)
	}
	if log := store.Approvals(d.ID); len(log) != 1 || log[0].To != types.ApprovalPending {
		t.Errorf("audit log = %+v", log)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, validInput()); err != nil {
		t.Fatal(err)
	}
	in := validInput()
	in.Email = "SITI@example.com"
	if _, err := svc.Register(ctx, in); !errors.Is(err, types.ErrConflict) {
		t.Errorf("err = %v, want conflict", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*models.RegisterDriverInput)
		field  string
	}{
		{"bad email", func(in *models.RegisterDriverInput) { in.Email = "siti" }, "email"},
		{"short password", func(in *models.RegisterDriverInput) { in.Password = "abc" }, "password"},
		{"no name", func(in *models.RegisterDriverInput) { in.FullName = " " }, "full_name"},
		{"bad phone", func(in *models.RegisterDriverInput) { in.Phone = "call me" }, "phone"},
		{"missing selfie", func(in *models.RegisterDriverInput) { in.Documents.Selfie = "" }, "documents"},
		{"duplicate language", func(in *models.RegisterDriverInput) { in.Languages = []string{"en", "en"} }, "languages"},
		{"negative experience", func(in *models.RegisterDriverInput) { in.ExperienceYears = -1 }, "experience_years"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService()
			in := validInput()
			tt.modify(&in)

			_, err := svc.Register(context.Background(), in)
			if !errors.Is(err, types.ErrValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err, tt.field)
			}
		})
	}
}

func TestGetUnknown(t *testing.T) {
	svc, _ := newService()
	if _, err := svc.Get(context.Background(), "nobody@example.com"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}
