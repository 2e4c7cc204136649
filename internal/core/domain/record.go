package domain

import (
	"encoding/json"

	"go.trai.ch/zerr"
)

// Record is the flat, kind-tagged form of a resource used on the wire and in the cache.
type Record struct {
	Type   Kind            `json:"type"`
	Path   string          `json:"path"`
	ID     string          `json:"id"`
	MTime  int64           `json:"mtime"`
	Fields json.RawMessage `json:"fields,omitempty"`
}

// ToRecord flattens r into a Record.
func ToRecord(r Resource) (Record, error) {
	fields, err := r.MarshalFields()
	if err != nil {
		return Record{}, zerr.With(zerr.Wrap(err, "failed to encode resource fields"), "path", r.Core().Path)
	}
	core := r.Core()
	return Record{
		Type:   r.Kind(),
		Path:   core.Path,
		ID:     core.ID,
		MTime:  core.MTime,
		Fields: fields,
	}, nil
}

// FromRecord rebuilds the concrete resource described by rec.
func FromRecord(rec Record) (Resource, error) {
	r, ok := newResource(rec.Type)
	if !ok {
		return nil, zerr.With(ErrUnknownKind, "kind", string(rec.Type))
	}
	if len(rec.Fields) > 0 {
		if err := r.UnmarshalFields(rec.Fields); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to decode resource fields"), "path", rec.Path)
		}
	}
	core := r.Core()
	core.Path = NormalizePath(rec.Path)
	core.ID = rec.ID
	core.MTime = rec.MTime
	return r, nil
}

// ToRecords flattens every resource, preserving order.
func ToRecords(resources []Resource) ([]Record, error) {
	records := make([]Record, 0, len(resources))
	for _, r := range resources {
		rec, err := ToRecord(r)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// FromRecords rebuilds every record, preserving order.
func FromRecords(records []Record) ([]Resource, error) {
	resources := make([]Resource, 0, len(records))
	for _, rec := range records {
		r, err := FromRecord(rec)
		if err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}
	return resources, nil
}
