package alarms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/repository/kv"
)

const (
	// Key is the store key holding the whole alarm list.
	Key = "alarms"

	// CurrentVersion is the schema version written by Save.
	CurrentVersion = 1

	// legacyVersion is assigned to unversioned documents (a bare array).
	legacyVersion = 0
)

// Repository defines persistence operations for the alarm list.
type Repository interface {
	Load(ctx context.Context) ([]domain.Alarm, error)
	Save(ctx context.Context, alarms []domain.Alarm) error
}

var (
	// ErrUnsupportedVersion is returned for documents written by a newer schema.
	ErrUnsupportedVersion = errors.New("unsupported alarm list version")
	// errInvalidTime is returned for records whose time is neither a string nor a number.
	errInvalidTime = errors.New("alarm time must be an RFC 3339 string or Unix milliseconds")
)

// document is the versioned envelope stored under Key.
type document struct {
	Version int      `json:"version"`
	Alarms  []record `json:"alarms"`
}

// record is a single persisted alarm.
type record struct {
	Time time.Time `json:"time"`
}

// UnmarshalJSON accepts {"time": "<RFC 3339>"} and {"time": <unix millis>}.
func (r *record) UnmarshalJSON(data []byte) error {
	var raw struct {
		Time json.RawMessage `json:"time"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	value := bytes.TrimSpace(raw.Time)

	switch {
	case len(value) == 0 || bytes.Equal(value, []byte("null")):
		return errInvalidTime
	case value[0] == '"':
		return json.Unmarshal(value, &r.Time)
	default:
		var millis int64
		if err := json.Unmarshal(value, &millis); err != nil {
			return fmt.Errorf("%w: %s", errInvalidTime, value)
		}

		r.Time = time.UnixMilli(millis).UTC()

		return nil
	}
}

// StoreRepository keeps the alarm list in a kv.Store.
type StoreRepository struct {
	store kv.Store
}

// NewStoreRepository creates a repository on top of store.
func NewStoreRepository(store kv.Store) *StoreRepository {
	return &StoreRepository{
		store: store,
	}
}

// Load returns the stored alarm list in stored order, or an empty list when
// nothing has been saved yet.
func (r *StoreRepository) Load(ctx context.Context) ([]domain.Alarm, error) {
	contents, err := r.store.Get(ctx, Key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return []domain.Alarm{}, nil
		}

		return nil, fmt.Errorf("read alarm list: %w", err)
	}

	doc, err := decode(contents)
	if err != nil {
		return nil, fmt.Errorf("decode alarm list: %w", err)
	}

	return fromRecords(doc.Alarms), nil
}

// Save replaces the stored alarm list.
func (r *StoreRepository) Save(ctx context.Context, alarms []domain.Alarm) error {
	data, err := encode(alarms)
	if err != nil {
		return fmt.Errorf("encode alarm list: %w", err)
	}

	if err = r.store.Set(ctx, Key, data); err != nil {
		return fmt.Errorf("write alarm list: %w", err)
	}

	return nil
}

// encode renders alarms as the current document version.
func encode(alarms []domain.Alarm) ([]byte, error) {
	doc := document{
		Version: CurrentVersion,
		Alarms:  make([]record, 0, len(alarms)),
	}

	for _, a := range alarms {
		doc.Alarms = append(doc.Alarms, record{Time: a.Time})
	}

	return json.Marshal(doc)
}

// decode parses any supported document version.
func decode(contents []byte) (*document, error) {
	contents = bytes.TrimSpace(contents)
	if len(contents) == 0 {
		return &document{Version: legacyVersion}, nil
	}

	if contents[0] == '[' {
		var records []record
		if err := json.Unmarshal(contents, &records); err != nil {
			return nil, err
		}

		return &document{Version: legacyVersion, Alarms: records}, nil
	}

	var doc document
	if err := json.Unmarshal(contents, &doc); err != nil {
		return nil, err
	}

	if doc.Version > CurrentVersion || doc.Version < legacyVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	return &doc, nil
}

// fromRecords converts persisted records into domain alarms.
func fromRecords(records []record) []domain.Alarm {
	result := make([]domain.Alarm, 0, len(records))
	for _, rec := range records {
		result = append(result, domain.Alarm{Time: rec.Time})
	}

	return result
}
