package catalog

import (
	"strings"

	"github.com/C3604/ChronoAtlas/internal/domain/models"
	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
)

const untitledTagName = "未命名标签"

// MergeCategoriesIntoTags folds legacy categories into tags and returns the
// merged copy of doc. Each category maps to the tag with the same name, or
// to a new tag that keeps the category id unless a tag already owns it.
// Category ids on events, version snapshots and approvals are rewritten to
// tag ids and cleared. Running it on a merged document changes nothing.
func MergeCategoriesIntoTags(doc *catalog.Document) (*catalog.Document, bool) {
	if len(doc.Categories) == 0 && !hasCategoryIDs(doc) {
		return doc, false
	}
	out := doc.Clone()

	byName := make(map[string]*catalog.Tag, len(out.Tags))
	byID := make(map[string]*catalog.Tag, len(out.Tags))
	for _, t := range out.Tags {
		byName[catalog.NameKey(t.Name)] = t
		byID[t.ID] = t
	}

	idMap := make(map[string]string, len(doc.Categories))
	for _, c := range doc.Categories {
		id := strings.TrimSpace(c.ID)
		name := strings.TrimSpace(c.Name)
		if name == "" {
			name = id
		}
		if name == "" {
			name = untitledTagName
		}
		key := catalog.NameKey(name)
		tag, ok := byName[key]
		if !ok {
			nextID := id
			if _, taken := byID[nextID]; taken || nextID == "" {
				nextID = catalog.NewID(catalog.PrefixTag)
			}
			tag = &catalog.Tag{ID: nextID, Name: name, ParentID: c.ParentID}
			out.Tags = append(out.Tags, tag)
			byName[key] = tag
			byID[tag.ID] = tag
		}
		if id != "" {
			idMap[id] = tag.ID
		}
	}

	merge := func(tagIDs, categoryIDs []string) []string {
		result := make([]string, 0, len(tagIDs)+len(categoryIDs))
		seen := make(map[string]bool)
		for _, raw := range tagIDs {
			id := strings.TrimSpace(raw)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			result = append(result, id)
		}
		for _, raw := range categoryIDs {
			id := strings.TrimSpace(raw)
			if id == "" {
				continue
			}
			if mapped, ok := idMap[id]; ok {
				id = mapped
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			result = append(result, id)
		}
		return result
	}
	mergeEvent := func(e *catalog.Event) {
		if e == nil {
			return
		}
		e.TagIDs = merge(e.TagIDs, e.CategoryIDs)
		e.CategoryIDs = nil
	}

	for _, e := range out.Events {
		mergeEvent(e)
	}
	for _, v := range out.EventVersions {
		mergeEvent(&v.Snapshot)
	}
	for _, a := range out.EventApprovals {
		mergeEvent(a.Snapshot)
		if a.Draft != nil {
			a.Draft.TagIDs = merge(a.Draft.TagIDs, a.Draft.CategoryIDs)
			a.Draft.CategoryIDs = nil
		}
	}
	out.Categories = nil
	return out, true
}

func hasCategoryIDs(doc *catalog.Document) bool {
	for _, e := range doc.Events {
		if len(e.CategoryIDs) > 0 {
			return true
		}
	}
	for _, v := range doc.EventVersions {
		if len(v.Snapshot.CategoryIDs) > 0 {
			return true
		}
	}
	for _, a := range doc.EventApprovals {
		if a.Snapshot != nil && len(a.Snapshot.CategoryIDs) > 0 {
			return true
		}
		if a.Draft != nil && len(a.Draft.CategoryIDs) > 0 {
			return true
		}
	}
	return false
}

// normalizeUsers coerces every stored role to a known role, fills missing
// profiles and leaves exactly one super admin. Extra super admins are
// demoted to admin. With none, the user holding adminEmail is promoted, or
// defaultAdmin is appended.
func normalizeUsers(doc *catalog.Document, adminEmail string, defaultAdmin func() (*catalog.User, error)) (bool, error) {
	changed := false
	hasSuper := false
	for _, u := range doc.Users {
		role := models.NormalizeRole(u.Role)
		if role == models.RoleSuperAdmin {
			if hasSuper {
				role = models.RoleAdmin
			}
			hasSuper = true
		}
		if string(role) != u.Role {
			u.Role = string(role)
			changed = true
		}
		if u.Profile == nil {
			u.Profile = &catalog.UserProfile{}
			changed = true
		}
	}
	if hasSuper {
		return changed, nil
	}

	for _, u := range doc.Users {
		if strings.EqualFold(u.Email, adminEmail) {
			u.Role = string(models.RoleSuperAdmin)
			return true, nil
		}
	}
	admin, err := defaultAdmin()
	if err != nil {
		return changed, err
	}
	doc.Users = append(doc.Users, admin)
	return true, nil
}

// fillCollections replaces missing top-level lists with empty ones.
func fillCollections(doc *catalog.Document) bool {
	changed := false
	if doc.Events == nil {
		doc.Events, changed = []*catalog.Event{}, true
	}
	if doc.Tags == nil {
		doc.Tags, changed = []*catalog.Tag{}, true
	}
	if doc.Users == nil {
		doc.Users, changed = []*catalog.User{}, true
	}
	if doc.Sessions == nil {
		doc.Sessions, changed = []*catalog.Session{}, true
	}
	if doc.EventVersions == nil {
		doc.EventVersions, changed = []*catalog.EventVersion{}, true
	}
	if doc.EventApprovals == nil {
		doc.EventApprovals, changed = []*catalog.EventApproval{}, true
	}
	for _, e := range doc.Events {
		if e.TagIDs == nil {
			e.TagIDs, changed = []string{}, true
		}
	}
	return changed
}
