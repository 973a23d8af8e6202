package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// failOnIDs makes db behave like postgres with uuid columns: any statement
// that binds one of ids fails with SQLSTATE 22P02. sqlite alone would
// quietly match nothing.
func failOnIDs(t *testing.T, db *gorm.DB, ids ...string) {
	t.Helper()

	check := func(tx *gorm.DB) {
		for _, v := range tx.Statement.Vars {
			s, ok := v.(string)
			if !ok {
				continue
			}
			for _, id := range ids {
				if s == id {
					tx.AddError(fmt.Errorf(`ERROR: invalid input syntax for type uuid: "%s" (SQLSTATE 22P02)`, id))
					return
				}
			}
		}
	}

	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:uuid_query", check))
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:uuid_update", check))
	require.NoError(t, db.Callback().Delete().After("gorm:delete").Register("test:uuid_delete", check))
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("test:uuid_create", check))
}

var malformedIDs = []string{"abc", "missing", "1", "{6f1c1e4e-8f5a-4d7b-9a51-0b8e1c2d3f4a}"}

func TestMalformedIDsAreNotFound(t *testing.T) {
	db := newTestDB(t)
	failOnIDs(t, db, malformedIDs...)
	ctx := context.Background()

	properties := &PropertyRepo{DB: db, Now: tick(testStart)}
	testimonials := &TestimonialRepo{DB: db, Now: tick(testStart)}
	inquiries := &InquiryRepo{DB: db, Now: tick(testStart)}

	title := "x"
	for _, id := range malformedIDs {
		_, err := properties.Get(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound, "get property %q", id)
		_, err = properties.Update(ctx, id, PropertyPatch{Title: &title})
		assert.ErrorIs(t, err, ErrNotFound, "update property %q", id)
		assert.NoError(t, properties.Delete(ctx, id), "delete property %q", id)

		_, err = testimonials.Get(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound, "get testimonial %q", id)
		_, err = testimonials.Update(ctx, id, TestimonialPatch{Name: &title})
		assert.ErrorIs(t, err, ErrNotFound, "update testimonial %q", id)
		assert.NoError(t, testimonials.Delete(ctx, id), "delete testimonial %q", id)

		_, err = inquiries.Get(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound, "get inquiry %q", id)
		_, err = inquiries.UpdateStatus(ctx, id, "contacted")
		assert.ErrorIs(t, err, ErrNotFound, "update inquiry %q", id)
		assert.NoError(t, inquiries.Delete(ctx, id), "delete inquiry %q", id)
	}
}

func TestInquiryWithMalformedPropertyIDIsGeneral(t *testing.T) {
	db := newTestDB(t)
	failOnIDs(t, db, "abc")
	r := &InquiryRepo{DB: db, Now: tick(testStart)}
	ctx := context.Background()

	bad := "abc"
	inq, err := r.Create(ctx, InquiryInput{PropertyID: &bad, FullName: "Yaw", Email: "yaw@x.com", Message: "Plots in Tema?"})
	require.NoError(t, err)
	assert.Nil(t, inq.PropertyID)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Property)
}

func TestFlexIntOutOfRange(t *testing.T) {
	in := decodeInput(t, `{"bedrooms": 1e30, "bathrooms": "-1e30", "square_feet": 1200.9}`)

	assert.Equal(t, FlexInt(0), in.Bedrooms)
	assert.Equal(t, FlexInt(0), in.Bathrooms)
	assert.Equal(t, FlexInt(1200), in.SquareFeet)
}
