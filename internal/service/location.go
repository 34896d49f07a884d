package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/food_orders/internal/models"
)

// LocationInput either names a saved location by ID or describes a new one.
type LocationInput struct {
	ID        *uuid.UUID
	Label     string
	Address   string
	City      string
	Lat       *float64
	Lng       *float64
	IsDefault bool
}

type LocationResolver struct{}

// Resolve returns the delivery location for the order and the address
// string snapshotted into it. A default location demotes all other
// locations of the user first.
func (LocationResolver) Resolve(ctx context.Context, tx Tx, userID uuid.UUID, in LocationInput) (*models.Location, string, error) {
	if in.ID != nil {
		return reuseLocation(ctx, tx, userID, *in.ID, in.IsDefault)
	}

	loc := &models.Location{
		UserID:    userID,
		Label:     strings.TrimSpace(in.Label),
		Address:   strings.TrimSpace(in.Address),
		City:      strings.TrimSpace(in.City),
		Lat:       in.Lat,
		Lng:       in.Lng,
		IsDefault: in.IsDefault,
	}
	if err := validateLocation(loc); err != nil {
		return nil, "", err
	}

	if loc.IsDefault {
		if err := tx.ClearDefaultLocations(ctx, userID); err != nil {
			return nil, "", err
		}
	}
	if err := tx.CreateLocation(ctx, loc); err != nil {
		return nil, "", err
	}

	return loc, formatAddress(loc), nil
}

func reuseLocation(ctx context.Context, tx Tx, userID, id uuid.UUID, makeDefault bool) (*models.Location, string, error) {
	loc, err := tx.GetLocation(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", fmt.Errorf("%w: location %s not found", ErrInvalidLocation, id)
		}
		return nil, "", err
	}

	if makeDefault && !loc.IsDefault {
		if err := tx.ClearDefaultLocations(ctx, userID); err != nil {
			return nil, "", err
		}
		if err := tx.MarkDefaultLocation(ctx, loc); err != nil {
			return nil, "", err
		}
	}

	return loc, formatAddress(loc), nil
}

func validateLocation(loc *models.Location) error {
	switch {
	case loc.Label == "":
		return fmt.Errorf("%w: label required", ErrInvalidLocation)
	case loc.Address == "":
		return fmt.Errorf("%w: address required", ErrInvalidLocation)
	case loc.City == "":
		return fmt.Errorf("%w: city required", ErrInvalidLocation)
	case (loc.Lat == nil) != (loc.Lng == nil):
		return fmt.Errorf("%w: lat and lng go together", ErrInvalidLocation)
	case loc.Lat != nil && (*loc.Lat < -90 || *loc.Lat > 90):
		return fmt.Errorf("%w: lat out of range", ErrInvalidLocation)
	case loc.Lng != nil && (*loc.Lng < -180 || *loc.Lng > 180):
		return fmt.Errorf("%w: lng out of range", ErrInvalidLocation)
	}
	return nil
}

func formatAddress(loc *models.Location) string {
	return loc.Address + ", " + loc.City
}
