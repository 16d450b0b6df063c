// Package namecache reads and writes the pre-resolved name cache files.
package namecache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Yeyao-Tao/CLEVA-Cantonese-Sports-Showbiz/internal/domain/entities"
)

// Cache file names inside the cache directory.
const (
	MembersFile = "member_names.json"
	GroupsFile  = "group_names.json"
)

// ErrCacheUnavailable is returned when a cache file is missing or unreadable.
// Callers fall back to dynamic name resolution.
var ErrCacheUnavailable = errors.New("name cache unavailable")

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Metadata describes how a cache file was produced.
type Metadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	Kind        string    `json:"kind"`
	Total       int       `json:"total"`
	Primary     int       `json:"primary"`
	Secondary   int       `json:"secondary"`
	None        int       `json:"none"`
}

type file struct {
	Metadata Metadata                                  `json:"metadata"`
	Entities map[entities.EntityID]entities.NameRecord `json:"entities"`
}

// Load reads both cache files from dir. If either is missing or malformed the
// error wraps ErrCacheUnavailable.
func Load(dir string) (members, groups map[entities.EntityID]entities.NameRecord, err error) {
	members, err = readFile(filepath.Join(dir, MembersFile))
	if err != nil {
		return nil, nil, err
	}
	groups, err = readFile(filepath.Join(dir, GroupsFile))
	if err != nil {
		return nil, nil, err
	}
	return members, groups, nil
}

func readFile(path string) (map[entities.EntityID]entities.NameRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrCacheUnavailable, path, err)
	}
	if f.Entities == nil {
		f.Entities = make(map[entities.EntityID]entities.NameRecord)
	}
	for id, rec := range f.Entities {
		if rec.ID == "" {
			rec.ID = id
			f.Entities[id] = rec
		}
	}
	return f.Entities, nil
}

// Save writes both cache files to dir, creating it if needed.
func Save(dir string, members, groups map[entities.EntityID]entities.NameRecord) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	if err := writeFile(filepath.Join(dir, MembersFile), "members", members); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, GroupsFile), "groups", groups)
}

func writeFile(path, kind string, records map[entities.EntityID]entities.NameRecord) error {
	f := file{
		Metadata: metadataFor(kind, records),
		Entities: records,
	}
	if f.Entities == nil {
		f.Entities = map[entities.EntityID]entities.NameRecord{}
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s cache: %w", kind, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing %s cache: %w", kind, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s cache: %w", kind, err)
	}
	return nil
}

func metadataFor(kind string, records map[entities.EntityID]entities.NameRecord) Metadata {
	m := Metadata{
		GeneratedAt: timeNow().UTC(),
		Kind:        kind,
		Total:       len(records),
	}
	for _, r := range records {
		switch r.Source {
		case entities.NameSourcePrimary:
			m.Primary++
		case entities.NameSourceSecondary:
			m.Secondary++
		default:
			m.None++
		}
	}
	return m
}

// ReadMetadata returns the metadata of the members and groups files.
func ReadMetadata(dir string) (members, groups Metadata, err error) {
	read := func(name string) (Metadata, error) {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return Metadata{}, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
		}
		var f struct {
			Metadata Metadata `json:"metadata"`
		}
		if err := json.Unmarshal(data, &f); err != nil {
			return Metadata{}, fmt.Errorf("%w: parsing %s: %v", ErrCacheUnavailable, name, err)
		}
		return f.Metadata, nil
	}
	if members, err = read(MembersFile); err != nil {
		return Metadata{}, Metadata{}, err
	}
	if groups, err = read(GroupsFile); err != nil {
		return Metadata{}, Metadata{}, err
	}
	return members, groups, nil
}
