package repository

import (
	"context"
	"strings"
	"time"

	"mannadome_backend/internal/model"

	"gorm.io/gorm"
)

// TestimonialInput uses the canonical display name only. Legacy spellings are
// resolved before this point.
type TestimonialInput struct {
	Name     string
	Content  string
	Rating   *int
	Featured *bool
}

type TestimonialPatch struct {
	Name     *string
	Content  *string
	Rating   *int
	Featured *bool
}

type TestimonialRepo struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewTestimonialRepo(db *gorm.DB) *TestimonialRepo {
	return &TestimonialRepo{DB: db, Now: time.Now}
}

// List returns testimonials newest first. A nil featured applies no filter.
func (r *TestimonialRepo) List(ctx context.Context, featured *bool) ([]model.Testimonial, error) {
	query := r.DB.WithContext(ctx).Model(&model.Testimonial{})
	if featured != nil {
		query = query.Where("featured = ?", *featured)
	}

	testimonials := []model.Testimonial{}
	if err := query.Order("created_at desc").Find(&testimonials).Error; err != nil {
		return nil, dbError("list testimonials", err)
	}
	return testimonials, nil
}

func (r *TestimonialRepo) Get(ctx context.Context, id string) (*model.Testimonial, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var t model.Testimonial
	if err := r.DB.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, dbError("get testimonial", err)
	}
	return &t, nil
}

func (r *TestimonialRepo) Create(ctx context.Context, in TestimonialInput) (*model.Testimonial, error) {
	name := strings.TrimSpace(in.Name)
	content := strings.TrimSpace(in.Content)
	if name == "" {
		return nil, invalid("name", "name is required")
	}
	if content == "" {
		return nil, invalid("content", "content is required")
	}

	rating := model.DefaultRating
	if in.Rating != nil {
		rating = *in.Rating
	}
	if err := checkRating(rating); err != nil {
		return nil, err
	}

	now := r.Now()
	t := model.Testimonial{
		Name:      name,
		Content:   content,
		Rating:    rating,
		Featured:  in.Featured != nil && *in.Featured,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.DB.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, dbError("create testimonial", err)
	}
	return &t, nil
}

func (r *TestimonialRepo) Update(ctx context.Context, id string, patch TestimonialPatch) (*model.Testimonial, error) {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalid("name", "name cannot be empty")
		}
		updates["name"] = name
	}
	if patch.Content != nil {
		content := strings.TrimSpace(*patch.Content)
		if content == "" {
			return nil, invalid("content", "content cannot be empty")
		}
		updates["content"] = content
	}
	if patch.Rating != nil {
		if err := checkRating(*patch.Rating); err != nil {
			return nil, err
		}
		updates["rating"] = *patch.Rating
	}
	if patch.Featured != nil {
		updates["featured"] = *patch.Featured
	}

	if !validID(id) {
		return nil, ErrNotFound
	}

	db := r.DB.WithContext(ctx)
	var t model.Testimonial
	if err := db.First(&t, "id = ?", id).Error; err != nil {
		return nil, dbError("update testimonial", err)
	}

	updates["updated_at"] = r.Now()
	if err := db.Model(&t).Updates(updates).Error; err != nil {
		return nil, dbError("update testimonial", err)
	}
	if err := db.First(&t, "id = ?", id).Error; err != nil {
		return nil, dbError("update testimonial", err)
	}
	return &t, nil
}

func (r *TestimonialRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Testimonial{}).Error; err != nil {
		return dbError("delete testimonial", err)
	}
	return nil
}

func checkRating(rating int) error {
	if rating < model.MinRating || rating > model.MaxRating {
		return invalid("rating", "rating must be between %d and %d", model.MinRating, model.MaxRating)
	}
	return nil
}
