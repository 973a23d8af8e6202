package repository

import (
	"context"
	"strings"
	"time"

	"mannadome_backend/internal/model"

	"gorm.io/gorm"
)

// InquiryInput is the public contact form payload. Any client supplied
// status is ignored.
type InquiryInput struct {
	PropertyID  *string `json:"property_id"`
	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Message     string  `json:"message"`
	InquiryType string  `json:"inquiry_type"`
}

type InquiryRepo struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewInquiryRepo(db *gorm.DB) *InquiryRepo {
	return &InquiryRepo{DB: db, Now: time.Now}
}

func (r *InquiryRepo) Create(ctx context.Context, in InquiryInput) (*model.Inquiry, error) {
	now := r.Now()
	inquiry := model.Inquiry{
		FullName:    strings.TrimSpace(in.FullName),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		Message:     strings.TrimSpace(in.Message),
		InquiryType: strings.ToLower(orDefault(in.InquiryType, model.DefaultInquiryType)),
		Status:      model.InquiryStatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	// an id that cannot name a listing makes this a general inquiry
	if in.PropertyID != nil {
		if id := strings.TrimSpace(*in.PropertyID); validID(id) {
			inquiry.PropertyID = &id
		}
	}

	if err := r.DB.WithContext(ctx).Create(&inquiry).Error; err != nil {
		return nil, dbError("create inquiry", err)
	}
	return &inquiry, nil
}

// List returns every inquiry newest first with the referenced listing's
// title and location attached. Listings are fetched in one query.
func (r *InquiryRepo) List(ctx context.Context) ([]model.InquiryWithProperty, error) {
	db := r.DB.WithContext(ctx)

	var inquiries []model.Inquiry
	if err := db.Order("created_at desc").Find(&inquiries).Error; err != nil {
		return nil, dbError("list inquiries", err)
	}

	seen := map[string]bool{}
	ids := []string{}
	for _, inq := range inquiries {
		if inq.PropertyID != nil && !seen[*inq.PropertyID] {
			seen[*inq.PropertyID] = true
			ids = append(ids, *inq.PropertyID)
		}
	}

	snapshots := map[string]*model.PropertySnapshot{}
	if len(ids) > 0 {
		var properties []model.Property
		if err := db.Select("id", "title", "location").Where("id IN ?", ids).Find(&properties).Error; err != nil {
			return nil, dbError("list inquiries", err)
		}
		for _, p := range properties {
			snapshots[p.ID] = &model.PropertySnapshot{Title: p.Title, Location: p.Location}
		}
	}

	out := make([]model.InquiryWithProperty, 0, len(inquiries))
	for _, inq := range inquiries {
		item := model.InquiryWithProperty{Inquiry: inq}
		if inq.PropertyID != nil {
			item.Property = snapshots[*inq.PropertyID]
		}
		out = append(out, item)
	}
	return out, nil
}

// ListSince returns inquiries created at or after since, oldest first.
func (r *InquiryRepo) ListSince(ctx context.Context, since time.Time) ([]model.Inquiry, error) {
	var inquiries []model.Inquiry
	if err := r.DB.WithContext(ctx).Where("created_at >= ?", since).Order("created_at asc").Find(&inquiries).Error; err != nil {
		return nil, dbError("list inquiries", err)
	}
	return inquiries, nil
}

func (r *InquiryRepo) Get(ctx context.Context, id string) (*model.Inquiry, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var inquiry model.Inquiry
	if err := r.DB.WithContext(ctx).First(&inquiry, "id = ?", id).Error; err != nil {
		return nil, dbError("get inquiry", err)
	}
	return &inquiry, nil
}

func (r *InquiryRepo) UpdateStatus(ctx context.Context, id string, status model.InquiryStatus) (*model.Inquiry, error) {
	status = model.InquiryStatus(strings.ToLower(strings.TrimSpace(string(status))))
	if !status.Valid() {
		return nil, invalid("status", "status must be one of new, contacted, closed")
	}
	if !validID(id) {
		return nil, ErrNotFound
	}

	db := r.DB.WithContext(ctx)
	var inquiry model.Inquiry
	if err := db.First(&inquiry, "id = ?", id).Error; err != nil {
		return nil, dbError("update inquiry", err)
	}

	if err := db.Model(&inquiry).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": r.Now(),
	}).Error; err != nil {
		return nil, dbError("update inquiry", err)
	}
	if err := db.First(&inquiry, "id = ?", id).Error; err != nil {
		return nil, dbError("update inquiry", err)
	}
	return &inquiry, nil
}

func (r *InquiryRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Inquiry{}).Error; err != nil {
		return dbError("delete inquiry", err)
	}
	return nil
}
