package catalog

import (
	"slices"
	"strings"

	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
)

// TagInput is every form of tag reference a write can carry. Categories are
// the legacy references and resolve through the same pipeline as tags.
type TagInput struct {
	IDs          []string
	Refs         []catalog.TagRef
	CategoryIDs  []string
	CategoryRefs []catalog.TagRef

	// KnownNames maps ids to names for the id -> name fallback only; unlike
	// Refs the names are not resolved as tokens of their own.
	KnownNames map[string]string
}

// IsEmpty reports whether no references were supplied at all.
func (in TagInput) IsEmpty() bool {
	return len(in.IDs) == 0 && len(in.Refs) == 0 && len(in.CategoryIDs) == 0 && len(in.CategoryRefs) == 0
}

// ResolveTagIDs maps tag references to existing tag ids, creating tags for
// references that match nothing. New tags are appended to doc.Tags at once
// so later tokens in the same call see them. The result is ordered by first
// resolution and holds no duplicate ids.
//
// Each token resolves by, in order: tag id, case-insensitive tag name,
// the name an inline reference gave that id, and finally a new tag named
// after the token itself.
func ResolveTagIDs(doc *catalog.Document, in TagInput) []string {
	tagNames, nameByID := collectRefs(in.Refs)
	catNames, catNameByID := collectRefs(in.CategoryRefs)
	for _, extra := range []map[string]string{catNameByID, in.KnownNames} {
		for id, name := range extra {
			if _, ok := nameByID[id]; !ok {
				nameByID[id] = name
			}
		}
	}

	tokens := uniqueTokens(uniqueTokens(in.IDs, tagNames), uniqueTokens(in.CategoryIDs, catNames))

	byID := make(map[string]*catalog.Tag, len(doc.Tags))
	byName := make(map[string]*catalog.Tag, len(doc.Tags))
	for _, t := range doc.Tags {
		byID[t.ID] = t
		if _, ok := byName[catalog.NameKey(t.Name)]; !ok {
			byName[catalog.NameKey(t.Name)] = t
		}
	}

	findOrCreate := func(name string) *catalog.Tag {
		key := catalog.NameKey(name)
		if t, ok := byName[key]; ok {
			return t
		}
		t := &catalog.Tag{ID: catalog.NewID(catalog.PrefixTag), Name: name}
		doc.Tags = append(doc.Tags, t)
		byID[t.ID] = t
		byName[key] = t
		return t
	}

	out := make([]string, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		tag, ok := byID[token]
		if !ok {
			tag, ok = byName[catalog.NameKey(token)]
		}
		if !ok {
			if name, has := nameByID[token]; has {
				tag = findOrCreate(name)
			} else {
				tag = findOrCreate(token)
			}
		}
		if !seen[tag.ID] {
			seen[tag.ID] = true
			out = append(out, tag.ID)
		}
	}
	return out
}

// collectRefs returns the non-empty trimmed names of refs, plus an
// id -> name map for refs that carry both.
func collectRefs(refs []catalog.TagRef) ([]string, map[string]string) {
	names := make([]string, 0, len(refs))
	nameByID := make(map[string]string)
	for _, ref := range refs {
		name := strings.TrimSpace(ref.Name)
		if name == "" {
			continue
		}
		names = append(names, name)
		if id := strings.TrimSpace(ref.ID); id != "" {
			nameByID[id] = name
		}
	}
	return names, nameByID
}

// uniqueTokens concatenates lists, trims every entry, drops blanks, and keeps
// the first of entries that are equal case-insensitively.
func uniqueTokens(lists ...[]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, raw := range list {
			token := strings.TrimSpace(raw)
			if token == "" {
				continue
			}
			key := catalog.NameKey(token)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, token)
		}
	}
	return out
}

// tagRefsFor returns id and name references for the given tag ids.
func tagRefsFor(doc *catalog.Document, ids []string) []catalog.TagRef {
	refs := make([]catalog.TagRef, 0, len(ids))
	for _, id := range ids {
		if t := doc.FindTag(id); t != nil {
			refs = append(refs, catalog.TagRef{ID: t.ID, Name: t.Name})
		}
	}
	return refs
}

// draftTagInput re-resolves a queued draft's tags against the current tag
// set. A tag deleted since the request is recreated under its old name.
func draftTagInput(d *catalog.EventDraft) TagInput {
	known := make(map[string]string, len(d.Tags))
	for _, ref := range d.Tags {
		if ref.ID != "" && ref.Name != "" {
			known[ref.ID] = ref.Name
		}
	}
	return TagInput{IDs: d.TagIDs, CategoryIDs: d.CategoryIDs, KnownNames: known}
}

// proposeTagIDs resolves like ResolveTagIDs without adding tags to doc.
// Tags it would create get ids that exist only in the returned references,
// so they are created when the draft is approved.
func proposeTagIDs(doc *catalog.Document, in TagInput) ([]string, []catalog.TagRef) {
	scratch := &catalog.Document{Tags: slices.Clone(doc.Tags)}
	ids := ResolveTagIDs(scratch, in)
	return ids, tagRefsFor(scratch, ids)
}
