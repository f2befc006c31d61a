package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/allergy/pkg/calendar"
	"tableflip.dev/allergy/pkg/symptom"
)

// ErrNotFound is returned when deleting a record that does not exist.
var ErrNotFound = errors.New("store: record not found")

// Config locates the store on disk.
type Config interface {
	BasePath() string
}

// Record is one stored symptom observation. There is at most one record per
// date and symptom.
type Record struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	Symptom   symptom.Symptom `json:"symptom"`
	Intensity int             `json:"intensity"`
	Updated   time.Time       `json:"updated"`
}

// Persistence defines the persistence contract for symptom records.
type Persistence interface {
	List(ctx context.Context, date calendar.Date) []Record
	Upsert(date calendar.Date, s symptom.Symptom, intensity int) (Record, error)
	Delete(date calendar.Date, s symptom.Symptom) error
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv under cfg's base path.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil || cfg.BasePath() == "" {
		return nil, errors.New("store: base path required")
	}
	basePath := cfg.BasePath()
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath, now: time.Now}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
	now      func() time.Time
}

func (p *persistence) read(key string) (Record, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return Record{}, err
	}
	var r Record
	if err := json.Unmarshal(val, &r); err != nil {
		return Record{}, fmt.Errorf("%s: %w", key, err)
	}
	return r, nil
}

func (p *persistence) List(ctx context.Context, date calendar.Date) []Record {
	prefix := date.String() + keySep
	all := make([]Record, 0)
	for key := range p.d.KeysPrefix(prefix, ctx.Done()) {
		r, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "store: %s\n", err)
			continue
		}
		all = append(all, r)
	}
	sortRecords(all)
	return all
}

func (p *persistence) Upsert(date calendar.Date, s symptom.Symptom, intensity int) (Record, error) {
	if !s.Valid() {
		return Record{}, fmt.Errorf("store: %w: %q", symptom.ErrUnknownSymptom, s)
	}
	if !symptom.ValidIntensity(intensity) {
		return Record{}, fmt.Errorf("store: %w: %d", symptom.ErrIntensityRange, intensity)
	}
	key := toKey(date, s)
	r, err := p.read(key)
	if err != nil {
		r = Record{ID: uuid.NewString(), Date: date.String(), Symptom: s}
	}
	r.Intensity = intensity
	r.Updated = p.now().UTC()

	data, err := json.Marshal(r)
	if err != nil {
		return Record{}, err
	}
	if err := p.d.Write(key, data); err != nil {
		return Record{}, fmt.Errorf("store: write %s: %w", key, err)
	}
	return r, nil
}

func (p *persistence) Delete(date calendar.Date, s symptom.Symptom) error {
	key := toKey(date, s)
	if !p.d.Has(key) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, date, s)
	}
	return p.d.Erase(key)
}

func sortRecords(records []Record) {
	order := make(map[symptom.Symptom]int)
	for i, s := range symptom.Catalog() {
		order[s] = i
	}
	sort.SliceStable(records, func(i, j int) bool {
		return order[records[i].Symptom] < order[records[j].Symptom]
	})
}

const keySep = "."

// keyToPathTransform stores `2024-03-10.SNEEZING` as 2024-03-10/SNEEZING.
func keyToPathTransform(s string) *diskv.PathKey {
	i := strings.LastIndex(s, keySep)
	if i < 0 {
		return &diskv.PathKey{FileName: s}
	}
	return &diskv.PathKey{
		Path:     []string{s[:i]},
		FileName: s[i+1:],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return strings.Join(pathKey.Path, "") + keySep + pathKey.FileName
}

func toKey(date calendar.Date, s symptom.Symptom) string {
	return date.String() + keySep + string(s)
}
