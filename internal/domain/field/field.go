// Package field holds validation and normalisation helpers shared by the
// content entities.
package field

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrRequired   = errors.New("field is required")
	ErrInvalidURL = errors.New("must be an absolute http(s) URL")
)

// Required fails when value is empty after trimming.
func Required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s: %w", name, ErrRequired)
	}
	return nil
}

// URL accepts nil, otherwise requires an absolute http or https URL.
func URL(name string, value *string) error {
	if value == nil {
		return nil
	}
	u, err := url.Parse(*value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s: %w", name, ErrInvalidURL)
	}
	return nil
}

// OptionalString trims s and maps the empty result to nil.
func OptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// CloneString returns a copy of the pointed-to value so drafts never share
// storage with persisted entities.
func CloneString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// NormalizeTags trims each tag and drops blanks and duplicates, keeping the
// first occurrence order. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// AddTag appends tag unless it is blank or already present.
func AddTag(tags []string, tag string) []string {
	return NormalizeTags(append(append(make([]string, 0, len(tags)+1), tags...), tag))
}

// RemoveTag drops every case-insensitive match of tag.
func RemoveTag(tags []string, tag string) []string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if strings.ToLower(t) != tag {
			out = append(out, t)
		}
	}
	return out
}
