package chrom

import (
	"fmt"
	"strconv"
	"strings"

	"gadock/internal/errs"
)

const vectorSeparator = ","

// EncodeVector renders a genotype vector as comma-separated values that
// round-trip exactly.
func EncodeVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strings.Join(parts, vectorSeparator)
}

// DecodeVector parses the output of EncodeVector. The empty string decodes
// to an empty vector.
func DecodeVector(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []float64{}, nil
	}
	parts := strings.Split(s, vectorSeparator)
	v := make([]float64, len(parts))
	for i, p := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("decode vector value %d %q: %w", i, p, errs.ErrBadArgument)
		}
		v[i] = x
	}
	return v, nil
}
