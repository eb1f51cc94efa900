package models

import (
	"time"

	"github.com/okutransport/ride-coordinator/internal/domain/types"
)

// Driver is a registered driver profile. ID is the verified e-mail address.
type Driver struct {
	ID               string               `json:"driver_id"`
	FullName         string               `json:"full_name"`
	Phone            string               `json:"phone"`
	ICNumber         string               `json:"ic_number"`
	LicenseNumber    string               `json:"license_number"`
	VehicleType      string               `json:"vehicle_type"`
	VehiclePlate     string               `json:"vehicle_plate"`
	Address          string               `json:"address"`
	EmergencyContact EmergencyContact     `json:"emergency_contact"`
	ExperienceYears  int                  `json:"experience_years"`
	Languages        []string             `json:"languages"`
	Availability     string               `json:"availability"`
	Documents        DriverDocuments      `json:"documents"`
	PasswordHash     string               `json:"-"`
	ApprovalStatus   types.ApprovalStatus `json:"approval_status"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

type EmergencyContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// DriverDocuments holds opaque handles of uploaded photos.
type DriverDocuments struct {
	ICPhoto      string `json:"ic_photo"`
	Selfie       string `json:"selfie"`
	LicensePhoto string `json:"license_photo"`
	VehiclePhoto string `json:"vehicle_photo"`
}

// Complete reports whether all four document handles are present.
func (d DriverDocuments) Complete() bool {
	return d.ICPhoto != "" && d.Selfie != "" && d.LicensePhoto != "" && d.VehiclePhoto != ""
}

// RegisterDriverInput is a driver sign-up request. Password is plaintext and
// never stored.
type RegisterDriverInput struct {
	Email            string
	Password         string
	FullName         string
	Phone            string
	ICNumber         string
	LicenseNumber    string
	VehicleType      string
	VehiclePlate     string
	Address          string
	EmergencyContact EmergencyContact
	ExperienceYears  int
	Languages        []string
	Availability     string
	Documents        DriverDocuments
}

// ApprovalEvent is handed to the notifier after a real approval change.
type ApprovalEvent struct {
	DriverID  string               `json:"driver_id"`
	FullName  string               `json:"full_name"`
	From      types.ApprovalStatus `json:"from"`
	To        types.ApprovalStatus `json:"to"`
	ChangedBy string               `json:"changed_by,omitempty"`
	ChangedAt time.Time            `json:"changed_at"`
}

// ApprovalResult is the outcome of an approval change.
type ApprovalResult struct {
	DriverID string               `json:"driver_id"`
	Status   types.ApprovalStatus `json:"status"`
	Changed  bool                 `json:"changed"`
	Warning  string               `json:"warning,omitempty"`
}
