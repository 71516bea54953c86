package cmd

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/mariobadr/statistical-simulation/hrd"
	"github.com/mariobadr/statistical-simulation/mocktails"
	"github.com/mariobadr/statistical-simulation/stm"
)

// modelFile is the flat-file container written by `cmd model` and read back
// by `cmd synth`/`cmd dump`. Only the field matching Kind is populated;
// Mocktails is a slice because a chunked run (--root-size > 0) produces one
// profile per phase.
type modelFile struct {
	Kind      string
	HRD       *hrd.Profile
	STM       *stm.Profile
	Mocktails []*mocktails.Profile
}

func writeModelFile(path string, mf modelFile) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(mf); err != nil {
		return fmt.Errorf("cmd: encode model file: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("cmd: write %s: %w", path, err)
	}
	return nil
}

func readModelFile(path string) (modelFile, error) {
	var mf modelFile

	data, err := os.ReadFile(path)
	if err != nil {
		return mf, fmt.Errorf("cmd: read %s: %w", path, err)
	}

	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&mf); err != nil {
		return mf, fmt.Errorf("cmd: decode model file: %w", err)
	}

	return mf, nil
}
