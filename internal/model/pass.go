package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PassType string

const (
	PassTypeEarlyLeave PassType = "EARLY_LEAVE"
	PassTypeOuting     PassType = "OUTING"
)

type PassStatus string

const (
	PassStatusPending  PassStatus = "PENDING"
	PassStatusApproved PassStatus = "APPROVED"
	PassStatusRejected PassStatus = "REJECTED"
	PassStatusExpired  PassStatus = "EXPIRED"
)

// Pass is a student's request for early leave or an outing. ExpiresAt is
// fixed at creation and never recomputed; the APPROVED→EXPIRED flip is
// reconciled lazily on read instead of by a background sweep.
type Pass struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	Type       PassType   `gorm:"not null" json:"type"`
	StartTime  time.Time  `gorm:"not null" json:"startTime"`
	ReturnTime *time.Time `gorm:"column:return_time" json:"returnTime,omitempty"`
	Reason     string     `gorm:"type:text;not null" json:"reason"`
	Status     PassStatus `gorm:"not null;default:PENDING" json:"status"`

	RejectReason string `gorm:"column:reject_reason" json:"rejectReason,omitempty"`

	StudentID string `gorm:"type:uuid;not null;index" json:"studentId"`
	Student   User   `gorm:"foreignKey:StudentID" json:"student"`
	TeacherID string `gorm:"type:uuid;not null;index" json:"teacherId"`
	Teacher   User   `gorm:"foreignKey:TeacherID" json:"teacher"`

	// QRCode is the rendered proof artifact (PNG data URL); QRCodeHash is
	// the 8-hex-char HMAC digest bound to this pass id.
	QRCode     string `gorm:"type:text" json:"qrCode,omitempty"`
	QRCodeHash string `gorm:"column:qr_code_hash" json:"-"`

	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Pass) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
