package manifest

import (
	"encoding/json"
	"strconv"

	"golang.org/x/xerrors"
)

// A serialized manifest has the following format:
//
// { "files": {
//     "name": { "size": 12, "offset": "0" },
//     "name": { "files": { ... } },
// } }
//
// A node holding a "files" key is a directory, a node holding a
// "size" key is a file. A node is never both.
// Sizes are JSON numbers, but offsets are decimal strings: a 64 bit
// offset doesn't always fit in the double precision floats of JSON,
// and the existing consumers of the format expect strings.

// wireFile is the serialized form of a file entry
type wireFile struct {
	Size   int64  `json:"size"`
	Offset string `json:"offset"`
}

// wireDir is the serialized form of a directory entry
type wireDir struct {
	Files map[string]json.RawMessage `json:"files"`
}

// wireEntry is the shape used to decode a node before we know its
// variant. Pointers let us tell an absent key from a zero value
type wireEntry struct {
	Files  map[string]*wireEntry `json:"files"`
	Size   *int64                `json:"size"`
	Offset *string               `json:"offset"`
}

// MarshalWire returns the manifest in its serialized wire form.
// The output is deterministic: names are encoded in lexical order
func (m *Manifest) MarshalWire() ([]byte, error) {
	return marshalEntry(m.Root)
}

func marshalEntry(e *Entry) ([]byte, error) {
	if !e.IsDir() {
		return json.Marshal(wireFile{
			Size:   e.Size,
			Offset: strconv.FormatUint(e.Offset, 10),
		})
	}

	files := make(map[string]json.RawMessage, len(e.Children))
	for name, child := range e.Children {
		raw, err := marshalEntry(child)
		if err != nil {
			return nil, xerrors.Errorf("could not serialize %s: %w", name, err)
		}
		files[name] = raw
	}
	return json.Marshal(wireDir{Files: files})
}

// Parse builds a manifest back from its serialized wire form.
// ErrInvalidHeader is returned if the data is not valid JSON, if the
// top-level "files" key is missing, if a node has neither a "files"
// nor a "size" key, or if an offset is not a base-10 integer string
func Parse(data []byte) (*Manifest, error) {
	var root wireEntry
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, xerrors.Errorf("could not decode the manifest: %s: %w", err.Error(), ErrInvalidHeader)
	}
	if root.Files == nil {
		return nil, xerrors.Errorf(`manifest has no top-level "files" key: %w`, ErrInvalidHeader)
	}

	rootEntry, err := parseEntry(&root)
	if err != nil {
		return nil, err
	}
	return &Manifest{Root: rootEntry}, nil
}

func parseEntry(w *wireEntry) (*Entry, error) {
	if w.Files != nil {
		e := NewDir()
		for name, child := range w.Files {
			parsed, err := parseEntry(child)
			if err != nil {
				return nil, xerrors.Errorf("in entry %s: %w", name, err)
			}
			e.Children[name] = parsed
		}
		return e, nil
	}

	if w.Size == nil {
		return nil, xerrors.Errorf(`entry has neither a "files" nor a "size" key: %w`, ErrInvalidHeader)
	}
	if *w.Size < 0 {
		return nil, xerrors.Errorf("entry has a negative size %d: %w", *w.Size, ErrInvalidHeader)
	}

	var offset uint64
	if w.Offset != nil {
		var err error
		offset, err = strconv.ParseUint(*w.Offset, 10, 64)
		if err != nil {
			return nil, xerrors.Errorf("offset %q is not a base-10 integer: %w", *w.Offset, ErrInvalidHeader)
		}
	}
	return NewFile(*w.Size, offset), nil
}
