package dto

import (
	"time"

	"github.com/sunrinpass/server/internal/model"
)

type CreatePassRequest struct {
	Type       model.PassType `json:"type" binding:"required,oneof=EARLY_LEAVE OUTING"`
	StartTime  time.Time      `json:"startTime" binding:"required"`
	ReturnTime *time.Time     `json:"returnTime" binding:"omitempty"`
	Reason     string         `json:"reason" binding:"required"`
	TeacherID  string         `json:"teacherId" binding:"required,uuid"`
}

type ApprovePassRequest struct {
	Status       model.PassStatus `json:"status" binding:"required,oneof=APPROVED REJECTED"`
	RejectReason string           `json:"rejectReason" binding:"omitempty"`
}

type VerifyPassRequest struct {
	ID   string `json:"id" binding:"required,uuid"`
	Hash string `json:"hash" binding:"required,len=8,hexadecimal"`
}

type VerifyPassResponse struct {
	IsValid bool             `json:"isValid"`
	Status  model.PassStatus `json:"status"`
}

type PassPartyResponse struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type PassResponse struct {
	ID           string            `json:"id"`
	Type         model.PassType    `json:"type"`
	StartTime    time.Time         `json:"startTime"`
	ReturnTime   *time.Time        `json:"returnTime,omitempty"`
	ExpiresAt    time.Time         `json:"expiresAt"`
	Reason       string            `json:"reason"`
	RejectReason string            `json:"rejectReason,omitempty"`
	Status       model.PassStatus  `json:"status"`
	Student      PassPartyResponse `json:"student"`
	Teacher      PassPartyResponse `json:"teacher"`
	QRCode       string            `json:"qrCode,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}

func NewPassResponse(pass *model.Pass) PassResponse {
	return PassResponse{
		ID:           pass.ID,
		Type:         pass.Type,
		StartTime:    pass.StartTime,
		ReturnTime:   pass.ReturnTime,
		ExpiresAt:    pass.ExpiresAt,
		Reason:       pass.Reason,
		RejectReason: pass.RejectReason,
		Status:       pass.Status,
		Student: PassPartyResponse{
			FirstName: pass.Student.FirstName,
			LastName:  pass.Student.LastName,
		},
		Teacher: PassPartyResponse{
			FirstName: pass.Teacher.FirstName,
			LastName:  pass.Teacher.LastName,
		},
		QRCode:    pass.QRCode,
		CreatedAt: pass.CreatedAt,
	}
}

func NewPassListResponse(passes []model.Pass) []PassResponse {
	out := make([]PassResponse, 0, len(passes))
	for i := range passes {
		out = append(out, NewPassResponse(&passes[i]))
	}
	return out
}
