package model

// DashboardStats back-office summary counters
type DashboardStats struct {
	TotalProperties     int64   `json:"total_properties"`
	AvailableProperties int64   `json:"available_properties"`
	PendingProperties   int64   `json:"pending_properties"`
	SoldProperties      int64   `json:"sold_properties"`
	FeaturedProperties  int64   `json:"featured_properties"`
	TotalInquiries      int64   `json:"total_inquiries"`
	NewInquiries        int64   `json:"new_inquiries"`  // created since the start of the month
	OpenInquiries       int64   `json:"open_inquiries"` // status "new"
	TotalTestimonials   int64   `json:"total_testimonials"`
	AverageRating       float64 `json:"average_rating"`
}

// Models lists every table owned by the application, in migration order.
func Models() []interface{} {
	return []interface{}{
		&Property{},
		&Inquiry{},
		&Testimonial{},
		&AdminUser{},
	}
}
