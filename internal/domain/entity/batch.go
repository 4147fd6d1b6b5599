package entity

import "time"

// Batch lote de fabricación de un material.
type Batch struct {
	ID             int64      `json:"id"`
	Code           string     `json:"code"`
	ExpiredDate    *time.Time `json:"expired_date,omitempty"`
	ProductionDate *time.Time `json:"production_date,omitempty"`
	Manufacturer   string     `json:"manufacturer,omitempty"`
}
