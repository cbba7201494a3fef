package models

import "time"

// FabricType is master data naming a kind of fabric (e.g. "Nylon").
type FabricType struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:50;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the FabricType model.
func (FabricType) TableName() string {
	return "fabric_types"
}

// FabricStrength is master data naming a strength grade (e.g. "EP-200").
type FabricStrength struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:50;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the FabricStrength model.
func (FabricStrength) TableName() string {
	return "fabric_strengths"
}

// FabricWidth is master data holding a roll width value.
type FabricWidth struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Value     float64   `gorm:"uniqueIndex;not null" json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the FabricWidth model.
func (FabricWidth) TableName() string {
	return "fabric_widths"
}

// Fabric is one received fabric roll in the inventory.
// QRCode holds the public product URL the printed QR code points to.
type Fabric struct {
	ID               uint64         `gorm:"primaryKey" json:"id"`
	Date             time.Time      `gorm:"not null" json:"date"`
	FabricDate       string         `gorm:"size:10;not null" json:"fabricDate"`
	FabricCode       string         `gorm:"size:255;not null" json:"fabricCode"`
	FabricTypeID     uint64         `gorm:"not null;index" json:"fabricTypeId"`
	FabricType       FabricType     `gorm:"constraint:OnDelete:RESTRICT" json:"fabricType"`
	FabricStrengthID uint64         `gorm:"not null;index" json:"fabricStrengthId"`
	FabricStrength   FabricStrength `gorm:"constraint:OnDelete:RESTRICT" json:"fabricStrength"`
	FabricWidthID    uint64         `gorm:"not null;index" json:"fabricWidthId"`
	FabricWidth      FabricWidth    `gorm:"constraint:OnDelete:RESTRICT" json:"fabricWidth"`
	FabricLength     float64        `json:"fabricLength"`
	NameOfVendor     string         `gorm:"size:255;not null" json:"nameOfVendor"`
	GSMObserved      float64        `gorm:"column:gsm_observed" json:"gsmObserved"`
	NetWeight        float64        `json:"netWeight"`
	GSMCalculated    float64        `gorm:"column:gsm_calculated" json:"gsmCalculated"`
	QRCode           string         `gorm:"column:qr_code;size:512" json:"qrCode"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// TableName specifies the database table name for the Fabric model.
func (Fabric) TableName() string {
	return "fabrics"
}
