package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	dumpInput  string
	dumpOutput string
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print a human-readable summary of a built model file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDump()
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().StringVar(&dumpInput, "input", "", "Path to a model file produced by `model` (required)")
	dumpCmd.Flags().StringVar(&dumpOutput, "output", "", "Path to write the CSV summary (required)")

	_ = dumpCmd.MarkFlagRequired("input")
	_ = dumpCmd.MarkFlagRequired("output")
}

func runDump() error {
	mf, err := readModelFile(dumpInput)
	if err != nil {
		return err
	}

	f, err := os.Create(dumpOutput)
	if err != nil {
		return fmt.Errorf("cmd: create %s: %w", dumpOutput, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	var rows int

	switch mf.Kind {
	case "hrd":
		rows, err = dumpHRD(w, mf)
	case "stm":
		rows, err = dumpSTM(w, mf)
	case "mocktails":
		rows, err = dumpMocktails(w, mf)
	default:
		return fmt.Errorf("cmd: unknown model kind %q", mf.Kind)
	}
	if err != nil {
		return err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	log.Info().Str("model", mf.Kind).Int("rows", rows).Msg("dumped profile summary")

	return nil
}

func dumpHRD(w *csv.Writer, mf modelFile) (int, error) {
	if err := w.Write([]string{"layer", "block.size", "reuse.distances", "min.address", "max.address", "total"}); err != nil {
		return 0, err
	}

	p := mf.HRD
	for i, layer := range p.Layers {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatUint(layer, 10),
			strconv.Itoa(len(p.ReuseModel[i])),
			strconv.FormatUint(p.MinAddress, 10),
			strconv.FormatUint(p.MaxAddress, 10),
			strconv.FormatUint(p.Count(), 10),
		}
		if err := w.Write(row); err != nil {
			return 0, err
		}
	}

	return len(p.Layers), nil
}

func dumpSTM(w *csv.Writer, mf modelFile) (int, error) {
	if err := w.Write([]string{"sdc.updates", "spc.updates", "reads", "writes", "min.address", "max.address"}); err != nil {
		return 0, err
	}

	p := mf.STM
	row := []string{
		strconv.FormatUint(p.SDCUpdateCount, 10),
		strconv.FormatUint(p.Count()-p.SDCUpdateCount, 10),
		strconv.FormatUint(p.ReadCount, 10),
		strconv.FormatUint(p.WriteCount, 10),
		strconv.FormatUint(p.MinAddress, 10),
		strconv.FormatUint(p.MaxAddress, 10),
	}
	if err := w.Write(row); err != nil {
		return 0, err
	}

	return 1, nil
}

func dumpMocktails(w *csv.Writer, mf modelFile) (int, error) {
	header := []string{
		"profile.id", "node.id", "kind", "total", "min.address", "max.address",
		"start.address", "size.states", "time.states", "stride.states", "op.states",
	}
	if err := w.Write(header); err != nil {
		return 0, err
	}

	rows := 0

	for _, p := range mf.Mocktails {
		for nodeID, model := range p.SimpleLeaves {
			row := []string{
				strconv.FormatUint(uint64(p.ID), 10),
				strconv.FormatUint(uint64(nodeID), 10),
				"simple",
				strconv.FormatUint(model.RequestCount, 10),
				strconv.FormatUint(model.Underlying.Footprint.Start, 10),
				strconv.FormatUint(model.Underlying.Footprint.End, 10),
				strconv.FormatUint(model.Underlying.StartAddress, 10),
				strconv.Itoa(len(model.SizeModel.Transitions)),
				strconv.Itoa(len(model.TimeModel.Transitions)),
				strconv.Itoa(len(model.Underlying.StrideModel.Transitions)),
				strconv.Itoa(len(model.Underlying.OperationModel.Transitions)),
			}
			if err := w.Write(row); err != nil {
				return rows, err
			}
			rows++
		}

		for nodeID, model := range p.STMLeaves {
			row := []string{
				strconv.FormatUint(uint64(p.ID), 10),
				strconv.FormatUint(uint64(nodeID), 10),
				"stm",
				strconv.FormatUint(model.RequestCount, 10),
				strconv.FormatUint(model.Underlying.MinAddress, 10),
				strconv.FormatUint(model.Underlying.MaxAddress, 10),
				"",
				strconv.Itoa(len(model.SizeModel.Transitions)),
				strconv.Itoa(len(model.TimeModel.Transitions)),
				"",
				"",
			}
			if err := w.Write(row); err != nil {
				return rows, err
			}
			rows++
		}

		for nodeID, model := range p.HRDLeaves {
			row := []string{
				strconv.FormatUint(uint64(p.ID), 10),
				strconv.FormatUint(uint64(nodeID), 10),
				"hrd",
				strconv.FormatUint(model.RequestCount, 10),
				strconv.FormatUint(model.Underlying.MinAddress, 10),
				strconv.FormatUint(model.Underlying.MaxAddress, 10),
				"",
				strconv.Itoa(len(model.SizeModel.Transitions)),
				strconv.Itoa(len(model.TimeModel.Transitions)),
				"",
				"",
			}
			if err := w.Write(row); err != nil {
				return rows, err
			}
			rows++
		}
	}

	return rows, nil
}
