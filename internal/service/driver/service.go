package driver

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/okutransport/ride-coordinator/internal/domain/models"
	"github.com/okutransport/ride-coordinator/internal/domain/types"
	"github.com/okutransport/ride-coordinator/pkg/logger"
	wrap "github.com/okutransport/ride-coordinator/pkg/logger/wrapper"
	"github.com/okutransport/ride-coordinator/pkg/trm"
	"github.com/okutransport/ride-coordinator/pkg/validator"
)

/*
Service registers drivers. New profiles start PENDING and stay unable to
accept rides until an admin approves them.
*/
type Service struct {
	drivers DriverRepo
	hasher  CredentialHasher
	trm     trm.TxManager
	l       logger.Logger

	now func() time.Time
}

func New(drivers DriverRepo, hasher CredentialHasher, trm trm.TxManager, l logger.Logger) *Service {
	return &Service{
		drivers: drivers,
		hasher:  hasher,
		trm:     trm,
		l:       l,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

const MinPasswordLength = 8

var validPhone = regexp.MustCompile(`^\+?[0-9][0-9 -]{6,18}$`)

// Validate checks a registration request.
func Validate(v *validator.Validator, in models.RegisterDriverInput) {
	v.Check(validator.Matches(in.Email, validator.EmailRX), "email", "must be a valid email address")
	v.Check(len(in.Password) >= MinPasswordLength, "password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	v.Check(strings.TrimSpace(in.FullName) != "", "full_name", "must be provided")
	v.Check(validPhone.MatchString(in.Phone), "phone", "must be a valid phone number")
	v.Check(strings.TrimSpace(in.ICNumber) != "", "ic_number", "must be provided")
	v.Check(strings.TrimSpace(in.LicenseNumber) != "", "license_number", "must be provided")
	v.Check(strings.TrimSpace(in.VehicleType) != "", "vehicle_type", "must be provided")
	v.Check(strings.TrimSpace(in.VehiclePlate) != "", "vehicle_plate", "must be provided")
	v.Check(in.ExperienceYears >= 0, "experience_years", "must not be negative")
	v.Check(validator.Unique(in.Languages), "languages", "must not contain duplicates")
	v.Check(in.Documents.Complete(), "documents", "ic_photo, selfie, license_photo and vehicle_photo are required")
	if in.EmergencyContact.Phone != "" {
		v.Check(validPhone.MatchString(in.EmergencyContact.Phone), "emergency_contact.phone", "must be a valid phone number")
	}
}

// Register creates a PENDING driver profile keyed by the e-mail address.
func (s *Service) Register(ctx context.Context, in models.RegisterDriverInput) (*models.Driver, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	ctx = wrap.WithAction(wrap.WithDriverID(ctx, in.Email), types.ActionDriverRegistered)

	v := validator.New()
	if Validate(v, in); !v.Valid() {
		return nil, wrap.Error(ctx, types.Validation("%s", v.Summary()))
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to hash password: %w", err))
	}

	now := s.now()
	driver := &models.Driver{
		ID:               in.Email,
		FullName:         strings.TrimSpace(in.FullName),
		Phone:            in.Phone,
		ICNumber:         strings.TrimSpace(in.ICNumber),
		LicenseNumber:    strings.ToUpper(strings.TrimSpace(in.LicenseNumber)),
		VehicleType:      strings.TrimSpace(in.VehicleType),
		VehiclePlate:     strings.ToUpper(strings.TrimSpace(in.VehiclePlate)),
		Address:          strings.TrimSpace(in.Address),
		EmergencyContact: in.EmergencyContact,
		ExperienceYears:  in.ExperienceYears,
		Languages:        in.Languages,
		Availability:     strings.TrimSpace(in.Availability),
		Documents:        in.Documents,
		PasswordHash:     hash,
		ApprovalStatus:   types.ApprovalPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = s.trm.Do(ctx, func(ctx context.Context) error {
		if err := s.drivers.Create(ctx, driver); err != nil {
			return err
		}
		return s.drivers.LogApproval(ctx, models.ApprovalEvent{
			DriverID:  driver.ID,
			FullName:  driver.FullName,
			To:        types.ApprovalPending,
			ChangedBy: driver.ID,
			ChangedAt: now,
		})
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	s.l.Info(ctx, "driver registered")
	return driver, nil
}

// Get returns a driver profile.
func (s *Service) Get(ctx context.Context, driverID string) (*models.Driver, error) {
	driver, err := s.drivers.Get(ctx, driverID)
	if err != nil {
		return nil, wrap.Error(wrap.WithDriverID(ctx, driverID), err)
	}
	return driver, nil
}
