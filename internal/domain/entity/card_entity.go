package entity

import (
	"slices"
	"time"
)

// Card is a photo card. Owner is set once at creation; Likes holds user ids
// without duplicates.
type Card struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name" validate:"required,cardname"`
	Link      string    `json:"link" validate:"required,weblink"`
	Owner     string    `json:"owner" validate:"required"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

// AddLike adds userID to the like set. It reports whether the set changed.
func (c *Card) AddLike(userID string) bool {
	if slices.Contains(c.Likes, userID) {
		return false
	}
	c.Likes = append(c.Likes, userID)
	return true
}

// RemoveLike removes userID from the like set. It reports whether the set
// changed.
func (c *Card) RemoveLike(userID string) bool {
	i := slices.Index(c.Likes, userID)
	if i < 0 {
		return false
	}
	c.Likes = slices.Delete(c.Likes, i, i+1)
	return true
}
