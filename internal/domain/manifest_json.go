package domain

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sort"
	"strings"
)

// The upgrades plugin stores fields this tool never reads (the top-level
// admin, implementation storage layouts). Manifest records keep them in
// Extra so a rewrite leaves them in place.

// MarshalJSON writes the manifest followed by any fields it was loaded with
func (m Manifest) MarshalJSON() ([]byte, error) {
	type plain Manifest
	data, err := json.Marshal(plain(m))
	if err != nil {
		return nil, err
	}
	return appendExtra(data, m.Extra)
}

// UnmarshalJSON reads the manifest and keeps unrecognized fields in Extra
func (m *Manifest) UnmarshalJSON(data []byte) error {
	type plain Manifest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := extraFields(data, p)
	if err != nil {
		return err
	}
	*m = Manifest(p)
	m.Extra = extra
	return nil
}

// MarshalJSON writes the record followed by any fields it was loaded with
func (r ImplementationRecord) MarshalJSON() ([]byte, error) {
	type plain ImplementationRecord
	data, err := json.Marshal(plain(r))
	if err != nil {
		return nil, err
	}
	return appendExtra(data, r.Extra)
}

// UnmarshalJSON reads the record and keeps unrecognized fields in Extra
func (r *ImplementationRecord) UnmarshalJSON(data []byte) error {
	type plain ImplementationRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := extraFields(data, p)
	if err != nil {
		return err
	}
	*r = ImplementationRecord(p)
	r.Extra = extra
	return nil
}

// MarshalJSON writes the record followed by any fields it was loaded with
func (r ProxyRecord) MarshalJSON() ([]byte, error) {
	type plain ProxyRecord
	data, err := json.Marshal(plain(r))
	if err != nil {
		return nil, err
	}
	return appendExtra(data, r.Extra)
}

// UnmarshalJSON reads the record and keeps unrecognized fields in Extra
func (r *ProxyRecord) UnmarshalJSON(data []byte) error {
	type plain ProxyRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := extraFields(data, p)
	if err != nil {
		return err
	}
	*r = ProxyRecord(p)
	r.Extra = extra
	return nil
}

// extraFields returns the members of a JSON object that v's struct tags don't name
func extraFields(data []byte, v any) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for key := range jsonKeys(reflect.TypeOf(v)) {
		delete(fields, key)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return fields, nil
}

func jsonKeys(t reflect.Type) map[string]bool {
	keys := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" || !t.Field(i).IsExported() {
			continue
		}
		if name == "" {
			name = t.Field(i).Name
		}
		keys[name] = true
	}
	return keys
}

// appendExtra adds extra members to the end of an encoded object, keeping
// the struct's own field order ahead of them
func appendExtra(data []byte, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return data, nil
	}

	keys := make([]string, 0, len(extra))
	for key := range extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(data[:len(data)-1])
	empty := bytes.Equal(bytes.TrimSpace(data), []byte("{}"))
	for _, key := range keys {
		if !empty {
			buf.WriteByte(',')
		}
		empty = false
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(extra[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
