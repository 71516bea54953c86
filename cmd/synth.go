package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mariobadr/statistical-simulation/hrd"
	"github.com/mariobadr/statistical-simulation/mocktails"
	"github.com/mariobadr/statistical-simulation/stm"
	"github.com/mariobadr/statistical-simulation/store"
	"github.com/mariobadr/statistical-simulation/trace"
)

var (
	synthInput      string
	synthOutput     string
	synthSeed       int64
	synthSize       uint32
	synthStorePath  string
	synthStoreKind  string
	synthStoreID    uint32
)

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Synthesize a trace from a previously built profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSynth()
	},
}

func init() {
	rootCmd.AddCommand(synthCmd)

	synthCmd.Flags().StringVar(&synthInput, "input", "", "Path to a model file produced by `model`")
	synthCmd.Flags().StringVar(&synthOutput, "output", "", "Path to write the synthesized trace (required)")
	synthCmd.Flags().Int64Var(&synthSeed, "seed", 1, "Deterministic RNG seed")
	synthCmd.Flags().Uint32Var(&synthSize, "size", 8, "Request size in bytes for hrd/stm synthesis (mocktails models its own size distribution)")
	synthCmd.Flags().StringVar(&synthStorePath, "store-path", "", "Load the profile from this Pebble store instead of --input")
	synthCmd.Flags().StringVar(&synthStoreKind, "store-kind", "hrd", "Profile kind to load from the store: hrd, stm, or mocktails")
	synthCmd.Flags().Uint32Var(&synthStoreID, "store-id", 0, "Profile id to load from the store")

	_ = synthCmd.MarkFlagRequired("output")
}

func loadModel() (modelFile, error) {
	if synthStorePath != "" {
		st, err := store.Open(synthStorePath)
		if err != nil {
			return modelFile{}, err
		}
		defer st.Close()

		var mf modelFile
		mf.Kind = synthStoreKind

		switch synthStoreKind {
		case "hrd":
			p, err := st.GetHRD(synthStoreID)
			if err != nil {
				return modelFile{}, err
			}
			mf.HRD = p
		case "stm":
			p, err := st.GetSTM(synthStoreID)
			if err != nil {
				return modelFile{}, err
			}
			mf.STM = p
		case "mocktails":
			p, err := st.GetMocktails(synthStoreID)
			if err != nil {
				return modelFile{}, err
			}
			mf.Mocktails = []*mocktails.Profile{p}
		default:
			return modelFile{}, fmt.Errorf("cmd: unknown store kind %q", synthStoreKind)
		}

		return mf, nil
	}

	if synthInput == "" {
		return modelFile{}, fmt.Errorf("cmd: one of --input or --store-path is required")
	}

	return readModelFile(synthInput)
}

func runSynth() error {
	mf, err := loadModel()
	if err != nil {
		return err
	}

	f, err := os.Create(synthOutput)
	if err != nil {
		return fmt.Errorf("cmd: create %s: %w", synthOutput, err)
	}
	defer f.Close()

	w, err := trace.NewWriter(f, trace.Header{TickFreq: 1, ObjID: "synthesized"})
	if err != nil {
		return err
	}

	count := 0

	switch mf.Kind {
	case "hrd":
		s := hrd.NewSynthesiser(mf.HRD, synthSeed)
		requestCount := mf.HRD.Count()
		for i := uint64(0); i < requestCount; i++ {
			address, op, err := s.GenerateNextRequest()
			if err != nil {
				return fmt.Errorf("cmd: synthesize request %d: %w", i, err)
			}
			if err := w.WriteRequest(trace.Request{Tick: i, Command: hrdToTraceOp(op), Address: address, Size: synthSize}); err != nil {
				return err
			}
			count++
		}

	case "stm":
		s := stm.NewSynthesiser(mf.STM, synthSeed)
		requestCount := mf.STM.Count()
		for i := uint64(0); i < requestCount; i++ {
			address, op := s.GenerateNextRequest()
			if err := w.WriteRequest(trace.Request{Tick: i, Command: stmToTraceOp(op), Address: address, Size: synthSize}); err != nil {
				return err
			}
			count++
		}

	case "mocktails":
		for _, p := range mf.Mocktails {
			s, err := mocktails.NewSynthesiser(p, synthSeed)
			if err != nil {
				return fmt.Errorf("cmd: synthesize profile %d: %w", p.ID, err)
			}
			for s.HasMoreRequests() {
				req := s.GenerateNextRequest()
				if err := w.WriteRequest(trace.Request{Tick: req.Timestamp, Command: mocktailsToTraceOp(req.Op), Address: req.Address, Size: uint32(req.Size)}); err != nil {
					return err
				}
				count++
			}
		}

	default:
		return fmt.Errorf("cmd: unknown model kind %q", mf.Kind)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	log.Info().Str("model", mf.Kind).Int("requests", count).Msg("synthesized trace")

	return nil
}

func hrdToTraceOp(op hrd.Operation) trace.Operation {
	if op == hrd.Read {
		return trace.Read
	}
	return trace.Write
}

func stmToTraceOp(op stm.Operation) trace.Operation {
	if op == stm.Read {
		return trace.Read
	}
	return trace.Write
}

func mocktailsToTraceOp(op mocktails.Operation) trace.Operation {
	if op == mocktails.Read {
		return trace.Read
	}
	return trace.Write
}
