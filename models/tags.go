// ABOUTME: Tag association normalization for contact payloads
// ABOUTME: Flattens join-record wrappers into plain tags while decoding JSON
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TagList is a flat list of tags. It accepts either flat tags or
// {contactId, tagId, tag} join records on decode and always encodes flat.
type TagList []Tag

func (l *TagList) UnmarshalJSON(data []byte) error {
	tags, err := FlattenTags(data)
	if err != nil {
		return err
	}
	*l = tags
	return nil
}

// FlattenTags decodes a raw tag association array. The first element decides
// the shape: a "name" property on it means the list is already flat.
func FlattenTags(data []byte) ([]Tag, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("tags: expected array: %w", err)
	}
	if len(raw) == 0 {
		return []Tag{}, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw[0], &probe); err != nil {
		return nil, fmt.Errorf("tags: expected object elements: %w", err)
	}

	if _, flat := probe["name"]; flat {
		tags := make([]Tag, 0, len(raw))
		if err := json.Unmarshal(trimmed, &tags); err != nil {
			return nil, fmt.Errorf("tags: decode flat list: %w", err)
		}
		return tags, nil
	}

	var links []TagLink
	if err := json.Unmarshal(trimmed, &links); err != nil {
		return nil, fmt.Errorf("tags: decode join records: %w", err)
	}
	return NormalizeTagLinks(links), nil
}

// NormalizeTagLinks extracts the tag from each join record. A record whose
// nested tag lacks an id falls back to the join's tagId.
func NormalizeTagLinks(links []TagLink) []Tag {
	tags := make([]Tag, 0, len(links))
	for _, link := range links {
		tag := link.Tag
		if tag.ID == "" {
			tag.ID = link.TagID
		}
		tags = append(tags, tag)
	}
	return tags
}

// IDs returns the tag ids in list order.
func (l TagList) IDs() []string {
	ids := make([]string, len(l))
	for i, t := range l {
		ids[i] = t.ID
	}
	return ids
}

// Has reports whether the list contains a tag with the given id.
func (l TagList) Has(id string) bool {
	for _, t := range l {
		if t.ID == id {
			return true
		}
	}
	return false
}
