package resort

import (
	"encoding/json"
	"fmt"
	"os"

	"medi-skimap/internal/pipeline"
)

// Info describes one resort in the resort list file.
type Info struct {
	Name        string `json:"name"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
}

// Query is the geocoding query for the resort.
func (i Info) Query() string {
	if i.Location != "" {
		return i.Location
	}
	return i.Name
}

type listFile struct {
	Resorts []Info `json:"resorts"`
}

// LoadFile reads a {"resorts": [...]} list.
func LoadFile(path string) ([]Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resort list: %w", err)
	}

	var f listFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse resort list %s: %w", path, err)
	}

	for i, r := range f.Resorts {
		if r.Name == "" {
			return nil, fmt.Errorf("resort %d in %s has no name", i, path)
		}
	}
	return f.Resorts, nil
}

// Outcome reports one resort load. Err is set when the resort was skipped.
type Outcome struct {
	Resort   Info
	ResortID int64
	ImageURL string
	Result   *pipeline.Result
	Err      error
}

func (o Outcome) Succeeded() bool {
	return o.Err == nil
}
