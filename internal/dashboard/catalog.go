// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package dashboard

import (
	"sort"
	"strings"

	"github.com/tomtom215/dcsdash/internal/models"
)

// DefaultCompany is assigned to tags whose metadata names no company.
const DefaultCompany = "INTECO"

// companyOrder lists companies shown ahead of the alphabetical rest.
var companyOrder = []string{"WIE", "INTECO"}

// CompanyOf returns the upper-cased company of a tag, or DefaultCompany.
func CompanyOf(t models.Tag) string {
	if c := strings.TrimSpace(t.Company); c != "" {
		return strings.ToUpper(c)
	}
	return DefaultCompany
}

// GroupByCompany groups tags by company. Known companies come first in
// companyOrder, the remaining ones follow alphabetically. Tag order inside
// a group follows the input.
func GroupByCompany(tags []models.Tag) []models.TagGroup {
	byCompany := make(map[string][]models.Tag)
	for _, t := range tags {
		c := CompanyOf(t)
		byCompany[c] = append(byCompany[c], t)
	}

	groups := make([]models.TagGroup, 0, len(byCompany))
	for _, c := range companyOrder {
		if list, ok := byCompany[c]; ok {
			groups = append(groups, models.TagGroup{Company: c, Tags: list})
			delete(byCompany, c)
		}
	}

	rest := make([]string, 0, len(byCompany))
	for c := range byCompany {
		rest = append(rest, c)
	}
	sort.Strings(rest)
	for _, c := range rest {
		groups = append(groups, models.TagGroup{Company: c, Tags: byCompany[c]})
	}
	return groups
}

// SearchTags keeps tags whose name or description contains q,
// case-insensitively. An empty query keeps everything.
func SearchTags(tags []models.Tag, q string) []models.Tag {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return tags
	}
	out := make([]models.Tag, 0, len(tags))
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t.TagName), q) ||
			strings.Contains(strings.ToLower(t.Label()), q) {
			out = append(out, t)
		}
	}
	return out
}

// MetaIndex looks tags up by canonical name.
type MetaIndex map[string]models.Tag

// NewMetaIndex indexes tags by canonical name; the first entry wins.
func NewMetaIndex(tags []models.Tag) MetaIndex {
	idx := make(MetaIndex, len(tags))
	for _, t := range tags {
		key := Canonical(t.TagName)
		if _, ok := idx[key]; !ok {
			idx[key] = t
		}
	}
	return idx
}

// Get returns the metadata of a tag, or nil.
func (m MetaIndex) Get(tag string) *models.Tag {
	if t, ok := m[Canonical(tag)]; ok {
		return &t
	}
	return nil
}
