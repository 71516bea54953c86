package mocktails

import (
	"errors"
	"testing"
)

func TestParseHierarchyConfigPrependsDefaultRoot(t *testing.T) {
	data := []byte(`{"hierarchy": [{"scheme": "temporal", "separator": "requests", "value": 1000}]}`)

	config, err := ParseHierarchyConfig(data)
	if err != nil {
		t.Fatalf("ParseHierarchyConfig: %v", err)
	}

	if len(config.Levels) != 2 {
		t.Fatalf("got %d levels, want 2", len(config.Levels))
	}
	if config.Levels[1].Scheme != Temporal || config.Levels[1].Separator != Requests || config.Levels[1].Value != 1000 {
		t.Fatalf("level 1 = %+v, want temporal/requests/1000", config.Levels[1])
	}
}

func TestParseHierarchyConfigUnknownScheme(t *testing.T) {
	data := []byte(`{"hierarchy": [{"scheme": "sideways", "separator": "bytes", "value": 64}]}`)

	_, err := ParseHierarchyConfig(data)
	if !errors.Is(err, ErrUnknownScheme) {
		t.Fatalf("err = %v, want ErrUnknownScheme", err)
	}
}

func TestParseHierarchyConfigZeroValue(t *testing.T) {
	data := []byte(`{"hierarchy": [{"scheme": "spatial", "separator": "bytes", "value": 0}]}`)

	_, err := ParseHierarchyConfig(data)
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("err = %v, want ErrInvalidValue", err)
	}
}
