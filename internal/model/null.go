package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// The backend serializes optional columns straight from database/sql, so a
// nullable value arrives either as a plain JSON value (or null) or as the
// {"Int64":1,"Valid":true} / {"String":"x","Valid":true} object form.
// Both decode into the types below.

var jsonNull = []byte("null")

// NullInt is an optional integer reference such as category_id or parent_id.
type NullInt struct {
	Int64 int64
	Valid bool
}

// Int returns a valid NullInt holding v.
func Int(v int64) NullInt { return NullInt{Int64: v, Valid: true} }

func (n *NullInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*n = NullInt{}
	if len(b) == 0 || bytes.Equal(b, jsonNull) {
		return nil
	}
	switch b[0] {
	case '{':
		var obj struct {
			Int64 int64 `json:"Int64"`
			Valid bool  `json:"Valid"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return fmt.Errorf("null int: %w", err)
		}
		if obj.Valid {
			*n = Int(obj.Int64)
		}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("null int: %w", err)
		}
		if s == "" {
			return nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("null int: %w", err)
		}
		*n = Int(v)
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("null int: %w", err)
	}
	*n = Int(v)
	return nil
}

// MarshalJSON writes the object form the backend produces.
func (n NullInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Int64 int64 `json:"Int64"`
		Valid bool  `json:"Valid"`
	}{n.Int64, n.Valid})
}

// NullString is an optional string such as scheduled_date or color.
type NullString struct {
	String string
	Valid  bool
}

// String returns a valid NullString holding s.
func String(s string) NullString { return NullString{String: s, Valid: true} }

func (n *NullString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*n = NullString{}
	if len(b) == 0 || bytes.Equal(b, jsonNull) {
		return nil
	}
	if b[0] == '{' {
		var obj struct {
			String string `json:"String"`
			Valid  bool   `json:"Valid"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return fmt.Errorf("null string: %w", err)
		}
		if obj.Valid {
			*n = String(obj.String)
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("null string: %w", err)
	}
	*n = String(s)
	return nil
}

func (n NullString) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		String string `json:"String"`
		Valid  bool   `json:"Valid"`
	}{n.String, n.Valid})
}
