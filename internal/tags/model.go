// Package tags is the tag resource: short labels that can be attached to nodes.
package tags

import "time"

const Name = "tags"

type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required,max=64,alphanumunicode"`
	Color     string    `json:"color" validate:"omitempty,hexcolor"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func New() *Tag {
	return &Tag{}
}

func (t *Tag) GetID() string   { return t.ID }
func (t *Tag) SetID(id string) { t.ID = id }

func (t *Tag) CreatedTime() time.Time { return t.CreatedAt }

func (t *Tag) SetTimes(created, updated time.Time) {
	t.CreatedAt = created.UTC()
	t.UpdatedAt = updated.UTC()
}
