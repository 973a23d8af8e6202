package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InquiryStatus string

const (
	InquiryStatusNew       InquiryStatus = "new"
	InquiryStatusContacted InquiryStatus = "contacted"
	InquiryStatusClosed    InquiryStatus = "closed"
)

func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryStatusNew, InquiryStatusContacted, InquiryStatusClosed:
		return true
	}
	return false
}

const DefaultInquiryType = "general"

// Inquiry is a contact request from the public site. A nil PropertyID marks
// a general inquiry that is not tied to a listing.
type Inquiry struct {
	ID          string        `json:"id" gorm:"type:uuid;primaryKey"`
	PropertyID  *string       `json:"property_id" gorm:"type:uuid;index"`
	FullName    string        `json:"full_name" gorm:"not null"`
	Email       string        `json:"email" gorm:"not null"`
	Phone       string        `json:"phone,omitempty"`
	Message     string        `json:"message" gorm:"type:text;not null"`
	InquiryType string        `json:"inquiry_type"`
	Status      InquiryStatus `json:"status" gorm:"not null;index"`
	CreatedAt   time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (Inquiry) TableName() string {
	return "property_inquiries"
}

func (i *Inquiry) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// InquiryWithProperty is an inquiry as listed in the back-office.
type InquiryWithProperty struct {
	Inquiry
	Property *PropertySnapshot `json:"property"`
}
