// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

package database

import (
	"fmt"
	"strconv"
	"strings"
)

// vectorParam binds vec to a CAST(? AS FLOAT[]) parameter. The driver binds
// Go slices to LIST parameters; an empty vector binds as NULL.
func vectorParam(vec []float32) any {
	if len(vec) == 0 {
		return nil
	}
	return append([]float32(nil), vec...)
}

// vectorScanner reads a FLOAT[] column into a []float32.
type vectorScanner struct {
	vec []float32
}

// Scan implements sql.Scanner.
func (s *vectorScanner) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		s.vec = nil
	case []float32:
		s.vec = append([]float32(nil), v...)
	case []float64:
		s.vec = make([]float32, len(v))
		for i, f := range v {
			s.vec[i] = float32(f)
		}
	case []any:
		s.vec = make([]float32, len(v))
		for i, e := range v {
			f, err := toFloat32(e)
			if err != nil {
				return fmt.Errorf("embedding element %d: %w", i, err)
			}
			s.vec[i] = f
		}
	case string:
		return s.parse(v)
	case []byte:
		return s.parse(string(v))
	default:
		return fmt.Errorf("unsupported embedding type %T", src)
	}
	return nil
}

func (s *vectorScanner) parse(text string) error {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "[")
	text = strings.TrimSuffix(text, "]")
	if strings.TrimSpace(text) == "" {
		s.vec = nil
		return nil
	}
	parts := strings.Split(text, ",")
	s.vec = make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return fmt.Errorf("embedding element %d: %w", i, err)
		}
		s.vec[i] = float32(f)
	}
	return nil
}

func toFloat32(v any) (float32, error) {
	switch n := v.(type) {
	case float32:
		return n, nil
	case float64:
		return float32(n), nil
	case int32:
		return float32(n), nil
	case int64:
		return float32(n), nil
	case nil:
		return 0, fmt.Errorf("null element")
	default:
		return 0, fmt.Errorf("unsupported element type %T", v)
	}
}
