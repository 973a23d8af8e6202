package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestimonialRepo(t *testing.T) *TestimonialRepo {
	r := NewTestimonialRepo(newTestDB(t))
	r.Now = tick(testStart)
	return r
}

func TestCreateTestimonialDefaults(t *testing.T) {
	r := newTestimonialRepo(t)

	created, err := r.Create(context.Background(), TestimonialInput{Name: "X", Content: "Y"})
	require.NoError(t, err)
	assert.Equal(t, 5, created.Rating)
	assert.False(t, created.Featured)

	list, err := r.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "X", list[0].Name)
}

func TestCreateTestimonialValidation(t *testing.T) {
	r := newTestimonialRepo(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		in    TestimonialInput
		field string
	}{
		{"missing name", TestimonialInput{Content: "Y"}, "name"},
		{"missing content", TestimonialInput{Name: "X", Content: " "}, "content"},
		{"rating too low", TestimonialInput{Name: "X", Content: "Y", Rating: intPtr(0)}, "rating"},
		{"rating too high", TestimonialInput{Name: "X", Content: "Y", Rating: intPtr(6)}, "rating"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Create(ctx, tc.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestListTestimonialsFeaturedFilter(t *testing.T) {
	r := newTestimonialRepo(t)
	ctx := context.Background()
	yes := true

	_, err := r.Create(ctx, TestimonialInput{Name: "A", Content: "a", Featured: &yes})
	require.NoError(t, err)
	_, err = r.Create(ctx, TestimonialInput{Name: "B", Content: "b"})
	require.NoError(t, err)

	all, err := r.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "B", all[0].Name)

	featured, err := r.List(ctx, &yes)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, "A", featured[0].Name)

	no := false
	plain, err := r.List(ctx, &no)
	require.NoError(t, err)
	require.Len(t, plain, 1)
	assert.Equal(t, "B", plain[0].Name)
}

func TestUpdateTestimonial(t *testing.T) {
	r := newTestimonialRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, TestimonialInput{Name: "A", Content: "a", Rating: intPtr(3)})
	require.NoError(t, err)

	name := "Ama"
	updated, err := r.Update(ctx, created.ID, TestimonialPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ama", updated.Name)
	assert.Equal(t, "a", updated.Content)
	assert.Equal(t, 3, updated.Rating)

	_, err = r.Update(ctx, created.ID, TestimonialPatch{Rating: intPtr(9)})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = r.Update(ctx, "missing", TestimonialPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.Delete(ctx, created.ID))
	require.NoError(t, r.Delete(ctx, created.ID))
}

func intPtr(v int) *int { return &v }
