package main

import (
	"fmt"
	"strconv"
	"strings"

	"onnxd/internal/gpu"
)

// splitCSV splits a comma-separated flag value, trimming spaces and dropping
// empty items. Returns nil for an empty input.
func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// parseGPUSpec parses a declared device inventory of id:capability pairs,
// e.g. "0:7.5,1:8.0".
func parseGPUSpec(spec string) ([]gpu.Device, error) {
	var out []gpu.Device
	for _, tok := range splitCSV(spec) {
		idStr, ccStr, ok := strings.Cut(tok, ":")
		if !ok {
			return nil, fmt.Errorf("gpu spec %q: want id:capability", tok)
		}
		id, err := strconv.Atoi(strings.TrimSpace(idStr))
		if err != nil {
			return nil, fmt.Errorf("gpu spec %q: bad device id: %w", tok, err)
		}
		cc, err := strconv.ParseFloat(strings.TrimSpace(ccStr), 64)
		if err != nil {
			return nil, fmt.Errorf("gpu spec %q: bad capability: %w", tok, err)
		}
		out = append(out, gpu.Device{ID: id, Name: "declared", ComputeCapability: cc})
	}
	return out, nil
}
