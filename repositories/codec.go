// Package repositories implements the persistence contracts on BadgerDB.
// Values are encoded as protobuf Struct payloads, which keeps the on-disk
// format self-describing and readable by the inspector tooling.
package repositories

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func encode(fields map[string]any) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	return proto.Marshal(s)
}

func decode(raw []byte) (map[string]any, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return s.AsMap(), nil
}

func fieldString(fields map[string]any, key string) string {
	v, _ := fields[key].(string)
	return v
}

// fieldInt reads a numeric field. Struct numbers round-trip as float64.
func fieldInt(fields map[string]any, key string) int {
	v, _ := fields[key].(float64)
	return int(v)
}

func fieldStrings(fields map[string]any, key string) []string {
	raw, _ := fields[key].([]any)
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Timestamps are stored as RFC3339Nano strings; Struct numbers are float64
// and cannot carry nanosecond epochs without losing precision.
func fieldTime(fields map[string]any, key string) time.Time {
	s, _ := fields[key].(string)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func anyStrings(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
