package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/C3604/ChronoAtlas/internal/domain/models"
	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type seedDefaults struct {
	Tags  []catalog.Tag `yaml:"tags"`
	Admin struct {
		ID string `yaml:"id"`
	} `yaml:"admin"`
}

// Seeder builds the initial document and bootstrap super admin, and runs
// load-time normalization.
type Seeder struct {
	AdminEmail    string
	AdminName     string
	AdminPassword string

	// LegacyFile, when set and present, seeds an empty store from a legacy
	// JSON document instead of the defaults.
	LegacyFile string

	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

var loadSeedDefaults = sync.OnceValues(func() (*seedDefaults, error) {
	var d seedDefaults
	if err := yaml.Unmarshal(defaultsYAML, &d); err != nil {
		return nil, fmt.Errorf("parse seed defaults: %w", err)
	}
	return &d, nil
})

// DefaultAdmin builds the bootstrap super admin with a bcrypt password hash.
func (s *Seeder) DefaultAdmin() (*catalog.User, error) {
	d, err := loadSeedDefaults()
	if err != nil {
		return nil, err
	}
	cost := s.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s.AdminPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash bootstrap password: %w", err)
	}
	return &catalog.User{
		ID:           d.Admin.ID,
		Name:         s.AdminName,
		Email:        strings.ToLower(strings.TrimSpace(s.AdminEmail)),
		Role:         string(models.RoleSuperAdmin),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
		Profile:      &catalog.UserProfile{},
	}, nil
}

// NewDocument returns the document an empty store starts with: the legacy
// file if configured and present, otherwise the default tags and one
// bootstrap super admin.
func (s *Seeder) NewDocument() (*catalog.Document, error) {
	if s.LegacyFile != "" {
		doc, err := readLegacyFile(s.LegacyFile)
		if err != nil {
			return nil, err
		}
		if doc != nil {
			return doc, nil
		}
	}

	d, err := loadSeedDefaults()
	if err != nil {
		return nil, err
	}
	admin, err := s.DefaultAdmin()
	if err != nil {
		return nil, err
	}
	doc := &catalog.Document{
		Events:         []*catalog.Event{},
		Tags:           make([]*catalog.Tag, 0, len(d.Tags)),
		Users:          []*catalog.User{admin},
		Sessions:       []*catalog.Session{},
		EventVersions:  []*catalog.EventVersion{},
		EventApprovals: []*catalog.EventApproval{},
	}
	for _, t := range d.Tags {
		doc.Tags = append(doc.Tags, &catalog.Tag{ID: t.ID, Name: t.Name})
	}
	return doc, nil
}

// Normalize repairs a loaded document and returns the repaired version with
// whether anything changed. Users are fixed up before categories are
// merged into tags.
func (s *Seeder) Normalize(doc *catalog.Document) (*catalog.Document, bool, error) {
	changed := fillCollections(doc)

	usersChanged, err := normalizeUsers(doc, s.AdminEmail, s.DefaultAdmin)
	if err != nil {
		return nil, false, err
	}

	merged, mergedChanged := MergeCategoriesIntoTags(doc)
	return merged, changed || usersChanged || mergedChanged, nil
}

// readLegacyFile returns nil when the file does not exist. An empty file
// also yields nil so the defaults apply.
func readLegacyFile(path string) (*catalog.Document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read legacy data file: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}
	var doc catalog.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode legacy data file: %w", err)
	}
	return &doc, nil
}
