package dto

import (
	"strings"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
	"github.com/okutransport/ride-coordinator/internal/service/driver"
	"github.com/okutransport/ride-coordinator/pkg/validator"
)

type RegisterDriverRequest struct {
	Email            string                  `json:"email"`
	Password         string                  `json:"password"`
	FullName         string                  `json:"full_name"`
	Phone            string                  `json:"phone"`
	ICNumber         string                  `json:"ic_number"`
	LicenseNumber    string                  `json:"license_number"`
	VehicleType      string                  `json:"vehicle_type"`
	VehiclePlate     string                  `json:"vehicle_plate"`
	Address          string                  `json:"address"`
	EmergencyContact models.EmergencyContact `json:"emergency_contact"`
	ExperienceYears  int                     `json:"experience_years"`
	Languages        []string                `json:"languages"`
	Availability     string                  `json:"availability"`
	Documents        models.DriverDocuments  `json:"documents"`
}

func (r *RegisterDriverRequest) Validate(v *validator.Validator) {
	driver.Validate(v, r.ToInput())
}

func (r *RegisterDriverRequest) ToInput() models.RegisterDriverInput {
	return models.RegisterDriverInput{
		Email:            strings.ToLower(strings.TrimSpace(r.Email)),
		Password:         r.Password,
		FullName:         r.FullName,
		Phone:            r.Phone,
		ICNumber:         r.ICNumber,
		LicenseNumber:    r.LicenseNumber,
		VehicleType:      r.VehicleType,
		VehiclePlate:     r.VehiclePlate,
		Address:          r.Address,
		EmergencyContact: r.EmergencyContact,
		ExperienceYears:  r.ExperienceYears,
		Languages:        r.Languages,
		Availability:     r.Availability,
		Documents:        r.Documents,
	}
}

type ApprovalRequest struct {
	Status types.ApprovalStatus `json:"status"`
}

func (r *ApprovalRequest) Validate(v *validator.Validator) {
	v.Check(r.Status != "", "status", "must be provided")
	v.Check(r.Status == "" || r.Status.IsValid(), "status", "must be one of PENDING, APPROVED or REJECTED")
}
