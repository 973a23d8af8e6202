package repository

import (
	"context"
	"time"

	"mannadome_backend/internal/model"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type StatsRepo struct {
	DB *gorm.DB
}

func NewStatsRepo(db *gorm.DB) *StatsRepo {
	return &StatsRepo{DB: db}
}

// Dashboard gathers the back-office counters. The queries run concurrently;
// the first failure cancels the rest.
func (r *StatsRepo) Dashboard(ctx context.Context, now time.Time) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	g, ctx := errgroup.WithContext(ctx)
	count := func(dst *int64, m interface{}, where string, args ...interface{}) {
		g.Go(func() error {
			q := r.DB.WithContext(ctx).Model(m)
			if where != "" {
				q = q.Where(where, args...)
			}
			return q.Count(dst).Error
		})
	}

	count(&stats.TotalProperties, &model.Property{}, "")
	count(&stats.AvailableProperties, &model.Property{}, "status = ?", model.PropertyStatusAvailable)
	count(&stats.PendingProperties, &model.Property{}, "status = ?", model.PropertyStatusPending)
	count(&stats.SoldProperties, &model.Property{}, "status = ?", model.PropertyStatusSold)
	count(&stats.FeaturedProperties, &model.Property{}, "featured = ?", true)
	count(&stats.TotalInquiries, &model.Inquiry{}, "")
	count(&stats.NewInquiries, &model.Inquiry{}, "created_at >= ?", monthStart)
	count(&stats.OpenInquiries, &model.Inquiry{}, "status = ?", model.InquiryStatusNew)
	count(&stats.TotalTestimonials, &model.Testimonial{}, "")
	g.Go(func() error {
		return r.DB.WithContext(ctx).Model(&model.Testimonial{}).
			Select("COALESCE(AVG(rating), 0)").Row().Scan(&stats.AverageRating)
	})

	if err := g.Wait(); err != nil {
		return nil, dbError("dashboard stats", err)
	}
	return &stats, nil
}
