package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// The dashboard page embeds the snapshot between these two literals. They
// are part of the page's contract and must match byte for byte.
const (
	DashboardStartMarker = "const dashboardData = "
	DashboardEndMarker   = "        // Initialize dashboard"
)

// SpliceDashboard replaces the data block of page with data. The end
// marker is searched after the start marker.
func SpliceDashboard(page string, data []byte) (string, error) {
	start := strings.Index(page, DashboardStartMarker)
	if start == -1 {
		return "", fmt.Errorf("%w: start marker %q", ErrMarkerNotFound, DashboardStartMarker)
	}
	bodyStart := start + len(DashboardStartMarker)

	end := strings.Index(page[bodyStart:], DashboardEndMarker)
	if end == -1 {
		return "", fmt.Errorf("%w: end marker %q", ErrMarkerNotFound, DashboardEndMarker)
	}
	end += bodyStart

	var b strings.Builder
	b.Grow(len(page) + len(data))
	b.WriteString(page[:bodyStart])
	b.Write(data)
	b.WriteString(";\n\n")
	b.WriteString(page[end:])
	return b.String(), nil
}

// UpdateDashboard rewrites the data block of the page at path with the
// serialized snapshot. The file is left untouched on any error.
func UpdateDashboard(path string, snapshot interface{}) error {
	page, err := os.ReadFile(path)
	if err != nil {
		return ioError("read dashboard", path, err)
	}

	data, err := marshalIndent(snapshot)
	if err != nil {
		return fmt.Errorf("serialize snapshot: %w", err)
	}

	updated, err := SpliceDashboard(string(page), data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return ioError("stat dashboard", path, err)
	}
	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return ioError("write dashboard", path, err)
	}
	return nil
}

// marshalIndent uses the side files' two-space indent. HTML characters stay
// escaped so workbook text cannot close the page's script element.
func marshalIndent(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
