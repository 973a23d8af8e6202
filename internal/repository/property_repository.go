package repository

import (
	"context"
	"strings"
	"time"

	"mannadome_backend/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PropertyInput is the create payload. Every field is optional and decoding
// never fails on a mistyped value.
type PropertyInput struct {
	Title        FlexString `json:"title"`
	Description  FlexString `json:"description"`
	Price        FlexFloat  `json:"price"`
	Location     FlexString `json:"location"`
	PropertyType FlexString `json:"property_type"`
	Bedrooms     FlexInt    `json:"bedrooms"`
	Bathrooms    FlexInt    `json:"bathrooms"`
	SquareFeet   FlexInt    `json:"square_feet"`
	LotSize      FlexString `json:"lot_size"`
	YearBuilt    FlexInt    `json:"year_built"`
	Status       FlexString `json:"status"`
	Featured     FlexBool   `json:"featured"`
	Images       FlexList   `json:"images"`
	Amenities    FlexList   `json:"amenities"`
	AgentName    FlexString `json:"agent_name"`
	AgentPhone   FlexString `json:"agent_phone"`
	AgentEmail   FlexString `json:"agent_email"`
}

// PropertyPatch carries the fields of a partial update; nil means unchanged.
type PropertyPatch struct {
	Title        *string     `json:"title"`
	Description  *string     `json:"description"`
	Price        *FlexFloat  `json:"price"`
	Location     *string     `json:"location"`
	PropertyType *string     `json:"property_type"`
	Bedrooms     *FlexInt    `json:"bedrooms"`
	Bathrooms    *FlexInt    `json:"bathrooms"`
	SquareFeet   *FlexInt    `json:"square_feet"`
	LotSize      *FlexString `json:"lot_size"`
	YearBuilt    *FlexInt    `json:"year_built"`
	Status       *string     `json:"status"`
	Featured     *FlexBool   `json:"featured"`
	Images       *[]string   `json:"images"`
	Amenities    *[]string   `json:"amenities"`
	AgentName    *string     `json:"agent_name"`
	AgentPhone   *string     `json:"agent_phone"`
	AgentEmail   *string     `json:"agent_email"`
}

// PropertyFilter narrows List. Zero values are no-ops.
type PropertyFilter struct {
	Type     string
	MinPrice *float64
	MaxPrice *float64
	Bedrooms *int
	Location string
	Status   string
}

type PropertyRepo struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewPropertyRepo(db *gorm.DB) *PropertyRepo {
	return &PropertyRepo{DB: db, Now: time.Now}
}

func (r *PropertyRepo) List(ctx context.Context, f PropertyFilter) ([]model.Property, error) {
	query := r.DB.WithContext(ctx).Model(&model.Property{})

	if t := strings.ToLower(strings.TrimSpace(f.Type)); t != "" {
		query = query.Where("property_type = ?", t)
	}
	if f.MinPrice != nil {
		query = query.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("price <= ?", *f.MaxPrice)
	}
	if f.Bedrooms != nil {
		query = query.Where("bedrooms = ?", *f.Bedrooms)
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		query = query.Where(`LOWER(location) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(loc))+"%")
	}
	if s := strings.TrimSpace(f.Status); s != "" {
		query = query.Where("status = ?", s)
	}

	properties := []model.Property{}
	if err := query.Order("created_at desc").Find(&properties).Error; err != nil {
		return nil, dbError("list properties", err)
	}
	return properties, nil
}

func (r *PropertyRepo) Get(ctx context.Context, id string) (*model.Property, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var property model.Property
	if err := r.DB.WithContext(ctx).First(&property, "id = ?", id).Error; err != nil {
		return nil, dbError("get property", err)
	}
	return &property, nil
}

// Create never rejects a payload: missing fields take their defaults.
func (r *PropertyRepo) Create(ctx context.Context, in PropertyInput) (*model.Property, error) {
	property := in.toModel(r.Now())
	if err := r.DB.WithContext(ctx).Create(&property).Error; err != nil {
		return nil, dbError("create property", err)
	}
	return &property, nil
}

func (r *PropertyRepo) Update(ctx context.Context, id string, patch PropertyPatch) (*model.Property, error) {
	updates, err := patch.updates()
	if err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, ErrNotFound
	}

	db := r.DB.WithContext(ctx)
	var property model.Property
	if err := db.First(&property, "id = ?", id).Error; err != nil {
		return nil, dbError("update property", err)
	}

	updates["updated_at"] = r.Now()
	if err := db.Model(&property).Updates(updates).Error; err != nil {
		return nil, dbError("update property", err)
	}
	if err := db.First(&property, "id = ?", id).Error; err != nil {
		return nil, dbError("update property", err)
	}
	return &property, nil
}

// Delete does not report whether a row was removed.
func (r *PropertyRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	if err := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Property{}).Error; err != nil {
		return dbError("delete property", err)
	}
	return nil
}

func (in PropertyInput) toModel(now time.Time) model.Property {
	status := model.PropertyStatus(strings.ToLower(strings.TrimSpace(string(in.Status))))
	if !status.Valid() {
		status = model.PropertyStatusAvailable
	}

	yearBuilt := int(in.YearBuilt)
	if yearBuilt == 0 {
		yearBuilt = now.Year()
	}

	return model.Property{
		Title:        orDefault(string(in.Title), model.DefaultPropertyTitle),
		Description:  orDefault(string(in.Description), model.DefaultPropertyDescription),
		Price:        float64(in.Price),
		Location:     orDefault(string(in.Location), model.DefaultPropertyLocation),
		PropertyType: strings.ToLower(orDefault(string(in.PropertyType), model.DefaultPropertyType)),
		Bedrooms:     int(in.Bedrooms),
		Bathrooms:    int(in.Bathrooms),
		SquareFeet:   int(in.SquareFeet),
		LotSize:      orDefault(string(in.LotSize), model.DefaultLotSize),
		YearBuilt:    yearBuilt,
		Status:       status,
		Featured:     bool(in.Featured),
		Images:       imagesOrPlaceholder(in.Images),
		Amenities:    cleanList(in.Amenities),
		AgentName:    orDefault(string(in.AgentName), model.DefaultAgentName),
		AgentPhone:   orDefault(string(in.AgentPhone), model.DefaultAgentPhone),
		AgentEmail:   orDefault(string(in.AgentEmail), model.DefaultAgentEmail),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (p PropertyPatch) updates() (map[string]interface{}, error) {
	u := map[string]interface{}{}

	setString := func(col string, v *string) {
		if v != nil {
			u[col] = *v
		}
	}
	setInt := func(col string, v *FlexInt) {
		if v != nil {
			u[col] = int(*v)
		}
	}

	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return nil, invalid("title", "title cannot be empty")
		}
		u["title"] = *p.Title
	}
	setString("description", p.Description)
	setString("location", p.Location)
	setString("agent_name", p.AgentName)
	setString("agent_phone", p.AgentPhone)
	setString("agent_email", p.AgentEmail)
	if p.PropertyType != nil {
		u["property_type"] = strings.ToLower(strings.TrimSpace(*p.PropertyType))
	}
	if p.Price != nil {
		u["price"] = float64(*p.Price)
	}
	setInt("bedrooms", p.Bedrooms)
	setInt("bathrooms", p.Bathrooms)
	setInt("square_feet", p.SquareFeet)
	setInt("year_built", p.YearBuilt)
	if p.LotSize != nil {
		u["lot_size"] = string(*p.LotSize)
	}
	if p.Status != nil {
		status := model.PropertyStatus(strings.ToLower(strings.TrimSpace(*p.Status)))
		if !status.Valid() {
			return nil, invalid("status", "status must be one of available, pending, sold")
		}
		u["status"] = status
	}
	if p.Featured != nil {
		u["featured"] = bool(*p.Featured)
	}
	if p.Images != nil {
		u["images"] = imagesOrPlaceholder(*p.Images)
	}
	if p.Amenities != nil {
		u["amenities"] = cleanList(*p.Amenities)
	}
	return u, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

func cleanList(items []string) datatypes.JSONSlice[string] {
	out := datatypes.JSONSlice[string]{}
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func imagesOrPlaceholder(images []string) datatypes.JSONSlice[string] {
	out := cleanList(images)
	if len(out) == 0 {
		return datatypes.JSONSlice[string]{model.PlaceholderImage}
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
