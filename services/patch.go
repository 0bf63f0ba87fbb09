package services

import (
	"github.com/gosimple/slug"
)

// CoursePatch lists the course columns a partial update may touch. A nil
// field is left unchanged.
type CoursePatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	Instructor  *string `json:"instructor"`
	Duration    *string `json:"duration"`
}

func (p CoursePatch) Empty() bool {
	return len(p.Fields()) == 0
}

// Fields maps present values to column names. A new title also refreshes
// the slug derived from it.
func (p CoursePatch) Fields() map[string]any {
	out := map[string]any{}
	if p.Title != nil {
		out["title"] = *p.Title
		out["slug"] = slug.Make(*p.Title)
	}
	if p.Description != nil {
		out["description"] = *p.Description
	}
	if p.Content != nil {
		out["content"] = *p.Content
	}
	if p.Instructor != nil {
		out["instructor"] = *p.Instructor
	}
	if p.Duration != nil {
		out["duration"] = *p.Duration
	}
	return out
}

type SectionPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	OrderIndex  *int    `json:"order_index"`
}

func (p SectionPatch) Empty() bool {
	return len(p.Fields()) == 0
}

func (p SectionPatch) Fields() map[string]any {
	out := map[string]any{}
	if p.Title != nil {
		out["title"] = *p.Title
	}
	if p.Description != nil {
		out["description"] = *p.Description
	}
	if p.OrderIndex != nil {
		out["order_index"] = *p.OrderIndex
	}
	return out
}
