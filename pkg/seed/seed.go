package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"mannadome_backend/internal/identity"
	"mannadome_backend/internal/model"
	"mannadome_backend/internal/repository"

	"gorm.io/gorm"
)

// SeedAdmin makes sure the office account is on the allow-list and, when a
// password is given, that it can sign in.
func SeedAdmin(ctx context.Context, db *gorm.DB, ids *identity.Service, email, password string, log *slog.Logger) error {
	email = repository.NormalizeEmail(email)
	if email == "" {
		return errors.New("admin email is required")
	}

	admin := model.AdminUser{
		Email:    email,
		FullName: model.DefaultAgentName,
		Role:     model.RoleSuperAdmin,
		IsActive: true,
	}
	if err := db.WithContext(ctx).FirstOrCreate(&admin, model.AdminUser{Email: email}).Error; err != nil {
		return fmt.Errorf("seed admin %s: %w", email, err)
	}

	if password == "" {
		log.Info("admin seeded without identity", "email", email)
		return nil
	}

	_, _, err := ids.SignUp(ctx, email, password)
	switch {
	case errors.Is(err, identity.ErrEmailTaken):
		log.Info("admin identity already exists", "email", email)
	case err != nil:
		return fmt.Errorf("seed identity %s: %w", email, err)
	}
	if err := ids.Confirm(ctx, email); err != nil {
		return fmt.Errorf("confirm identity %s: %w", email, err)
	}

	log.Info("admin seeded", "email", email)
	return nil
}

var sampleTestimonials = []model.Testimonial{
	{
		Name:     "Kwame Asante",
		Content:  "Mannadome Estate helped me find the perfect commercial property for my business. Their professionalism and market knowledge are unmatched.",
		Rating:   5,
		Featured: true,
	},
	{
		Name:     "Akosua Mensah",
		Content:  "As a first-time homebuyer, I was nervous about the process. The team at Mannadome Estate guided me every step of the way.",
		Rating:   5,
		Featured: true,
	},
	{
		Name:     "Kofi Boateng",
		Content:  "Mannadome Estate consistently delivers quality properties with excellent returns. Their market analysis has been invaluable to my portfolio.",
		Rating:   5,
		Featured: true,
	},
	{
		Name:     "Ama Osei",
		Content:  "They found me a beautiful family home in East Legon within my budget. The entire team was patient and professional.",
		Rating:   5,
		Featured: false,
	},
}

// SeedTestimonials inserts the sample testimonials that are not there yet.
func SeedTestimonials(ctx context.Context, db *gorm.DB, log *slog.Logger) error {
	for _, t := range sampleTestimonials {
		t := t
		result := db.WithContext(ctx).FirstOrCreate(&t, model.Testimonial{Name: t.Name})
		if result.Error != nil {
			return fmt.Errorf("seed testimonial %s: %w", t.Name, result.Error)
		}
	}

	log.Info("testimonials seeded", "count", len(sampleTestimonials))
	return nil
}
