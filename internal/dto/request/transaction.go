package request

import "time"

type CheckoutRequest struct {
	Type             string  `json:"type" validate:"required,oneof=product service subscription"`
	Currency         string  `json:"currency" validate:"required,len=3"`
	Amount           float64 `json:"amount" validate:"required,gt=0"`
	ExpiresInMinutes *int    `json:"expiresInMinutes,omitempty" validate:"omitempty,min=1,max=10080"`
}

type UpdateDeliveryStatusRequest struct {
	Status          string     `json:"status" validate:"required,oneof=in_progress delivered"`
	WebsiteURL      *string    `json:"websiteUrl,omitempty" validate:"omitempty,url"`
	DriveURL        *string    `json:"driveUrl,omitempty" validate:"omitempty,url"`
	TextDescription *string    `json:"textDescription,omitempty" validate:"omitempty,max=2000"`
	DomainName      *string    `json:"domainName,omitempty" validate:"omitempty,max=255"`
	DomainExpiredAt *time.Time `json:"domainExpiredAt,omitempty"`
	Notes           *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}
