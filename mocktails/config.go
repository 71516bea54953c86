package mocktails

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownScheme    = errors.New("mocktails: unknown partition scheme")
	ErrUnknownSeparator = errors.New("mocktails: unknown partition separator")
	ErrInvalidValue     = errors.New("mocktails: partition value must be greater than 0")
)

type partitionLevelJSON struct {
	Scheme    string `json:"scheme"`
	Separator string `json:"separator"`
	Value     uint32 `json:"value"`
}

type hierarchyConfigJSON struct {
	Hierarchy []partitionLevelJSON `json:"hierarchy"`
}

func parseScheme(s string) (Scheme, error) {
	switch s {
	case "temporal":
		return Temporal, nil
	case "spatial":
		return Spatial, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownScheme, s)
	}
}

func parseSeparator(s string) (Separator, error) {
	switch s {
	case "cycles":
		return Cycles, nil
	case "count":
		return Count, nil
	case "requests":
		return Requests, nil
	case "bytes":
		return Bytes, nil
	case "contiguous":
		return Contiguous, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSeparator, s)
	}
}

// ParseHierarchyConfig parses a document of the shape
//
//	{"hierarchy": [{"scheme": "temporal", "separator": "requests", "value": 1000}, ...]}
//
// into a HierarchyConfiguration. The implicit monolithic root level is
// prepended automatically; callers only describe the levels below it.
func ParseHierarchyConfig(data []byte) (HierarchyConfiguration, error) {
	var doc hierarchyConfigJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return HierarchyConfiguration{}, fmt.Errorf("mocktails: decode hierarchy config: %w", err)
	}

	config := HierarchyConfiguration{Levels: []Configuration{DefaultConfiguration()}}

	for _, level := range doc.Hierarchy {
		scheme, err := parseScheme(level.Scheme)
		if err != nil {
			return HierarchyConfiguration{}, err
		}

		separator, err := parseSeparator(level.Separator)
		if err != nil {
			return HierarchyConfiguration{}, err
		}

		if level.Value == 0 {
			return HierarchyConfiguration{}, fmt.Errorf("%w: got %d", ErrInvalidValue, level.Value)
		}

		config.Levels = append(config.Levels, Configuration{Scheme: scheme, Separator: separator, Value: level.Value})
	}

	return config, nil
}
