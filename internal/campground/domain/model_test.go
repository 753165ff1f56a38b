package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCampground(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		c, err := NewCampground("user1", "  Forest Camp  ", " Yosemite, CA ", "Tall trees", 25.50)
		require.NoError(t, err)
		assert.Equal(t, "Forest Camp", c.Title)
		assert.Equal(t, "Yosemite, CA", c.Location)
		assert.Equal(t, "user1", c.AuthorID)
		assert.Equal(t, 25.50, c.Price)
		assert.Empty(t, c.Images)
		assert.Empty(t, c.ReviewIDs)
		assert.False(t, c.CreatedAt.IsZero())
		assert.Equal(t, c.CreatedAt, c.UpdatedAt)
	})

	t.Run("ZeroPriceAllowed", func(t *testing.T) {
		c, err := NewCampground("user1", "Free Camp", "Somewhere", "", 0)
		require.NoError(t, err)
		assert.Equal(t, float64(0), c.Price)
	})

	testCases := []struct {
		name     string
		authorID string
		title    string
		location string
		price    float64
	}{
		{"EmptyAuthor", "", "Title", "Location", 10},
		{"EmptyTitle", "user1", "   ", "Location", 10},
		{"EmptyLocation", "user1", "Title", "", 10},
		{"NegativePrice", "user1", "Title", "Location", -1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCampground(tc.authorID, tc.title, tc.location, "", tc.price)
			assert.Error(t, err)
		})
	}
}

func TestNewReview(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		r, err := NewReview("camp1", "user1", " Great spot ", 5)
		require.NoError(t, err)
		assert.Equal(t, "camp1", r.CampgroundID)
		assert.Equal(t, "user1", r.AuthorID)
		assert.Equal(t, "Great spot", r.Body)
		assert.Equal(t, int32(5), r.Rating)
	})

	testCases := []struct {
		name         string
		campgroundID string
		authorID     string
		body         string
		rating       int32
	}{
		{"EmptyCampground", "", "user1", "Body", 3},
		{"EmptyAuthor", "camp1", "", "Body", 3},
		{"BlankBody", "camp1", "user1", "  ", 3},
		{"RatingTooLow", "camp1", "user1", "Body", 0},
		{"RatingTooHigh", "camp1", "user1", "Body", 6},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewReview(tc.campgroundID, tc.authorID, tc.body, tc.rating)
			assert.Error(t, err)
		})
	}
}

func TestCampgroundImageFilenames(t *testing.T) {
	c := &Campground{Images: []Image{
		{URL: "http://s/a.jpg", Filename: "a.jpg"},
		{URL: "http://s/b.png", Filename: "b.png"},
	}}
	assert.Equal(t, []string{"a.jpg", "b.png"}, c.ImageFilenames())

	empty := &Campground{}
	assert.Empty(t, empty.ImageFilenames())
}
