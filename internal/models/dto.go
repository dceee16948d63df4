package models

import "matchos/internal/privacy"

type RegisterRequest struct {
	Email    string       `json:"email"`
	Password string       `json:"password"`
	FullName string       `json:"full_name"`
	Role     privacy.Role `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

type UpdateProfileRequest struct {
	FullName       *string   `json:"full_name,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	WalletAddress  *string   `json:"wallet_address,omitempty"`
	LocationZoneID *string   `json:"location_zone_id,omitempty"`
	Timezone       *string   `json:"timezone,omitempty"`
	Skills         []string  `json:"skills,omitempty"`
	Languages      []string  `json:"languages,omitempty"`
	Location       *GeoPoint `json:"precise_location,omitempty"`
}

type UpdatePrivacyRequest struct {
	PrivacyLevel string `json:"privacy_level"`
}

type MintReputationRequest struct {
	WalletAddress string `json:"walletAddress"`
}

type ProviderSearchQuery struct {
	Skill    string `json:"skill"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

type ProviderSearchResult struct {
	Query      ProviderSearchQuery `json:"query"`
	Providers  []*User             `json:"providers"`
	TotalCount int64               `json:"totalCount"`
	PageCount  int                 `json:"pageCount"`
}
