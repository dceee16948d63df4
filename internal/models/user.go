package models

import (
	"matchos/internal/privacy"
	"time"
)

// GeoPoint is a GeoJSON point, longitude first.
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

type User struct {
	ID              string        `json:"id" bson:"_id"`
	Email           string        `json:"email" bson:"email"`
	PasswordHash    string        `json:"-" bson:"password_hash"`
	FullName        *string       `json:"full_name" bson:"full_name,omitempty"`
	Phone           *string       `json:"phone" bson:"phone,omitempty"`
	Role            privacy.Role  `json:"role" bson:"role"`
	PrivacyLevel    privacy.Level `json:"privacy_level" bson:"privacy_level"`
	ReputationScore float64       `json:"reputation_score" bson:"reputation_score"`
	WalletAddress   *string       `json:"wallet_address" bson:"wallet_address,omitempty"`
	PreciseLocation *GeoPoint     `json:"precise_location" bson:"precise_location,omitempty"`
	LocationZoneID  *string       `json:"location_zone_id" bson:"location_zone_id,omitempty"`
	Timezone        string        `json:"timezone" bson:"timezone"`
	Languages       []string      `json:"languages" bson:"languages"`
	Skills          []string      `json:"skills" bson:"skills"`
	Credits         int64         `json:"credits" bson:"credits"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" bson:"updated_at"`
}

const (
	DefaultReputation = 50.0
	DefaultTimezone   = "UTC"
)
