package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mariobadr/statistical-simulation/hrd"
	"github.com/mariobadr/statistical-simulation/mocktails"
	"github.com/mariobadr/statistical-simulation/stm"
	"github.com/mariobadr/statistical-simulation/store"
	"github.com/mariobadr/statistical-simulation/trace"
)

var (
	modelInput      string
	modelOutput     string
	modelKind       string
	modelConfigPath string
	modelLayers     string
	modelRows       int
	modelCols       int
	modelStrideLen  int
	modelRootSize   uint64
	modelStorePath  string
	modelLeafKind   string
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Build a profile (hrd, stm, or mocktails) from a trace file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runModel()
	},
}

func init() {
	rootCmd.AddCommand(modelCmd)

	modelCmd.Flags().StringVar(&modelInput, "input", "", "Path to the input trace file (required)")
	modelCmd.Flags().StringVar(&modelOutput, "output", "", "Path to write the built model file (required)")
	modelCmd.Flags().StringVar(&modelKind, "model", "hrd", "Modeling method: hrd, stm, or mocktails")
	modelCmd.Flags().StringVar(&modelConfigPath, "config", "", "Mocktails hierarchy configuration (JSON); omitted means a single monolithic root")
	modelCmd.Flags().StringVar(&modelLayers, "layers", "64", "Comma-separated HRD block sizes, ascending")
	modelCmd.Flags().IntVar(&modelRows, "rows", stm.DefaultParameters().NumRows, "STM: number of SDC rows (power of two)")
	modelCmd.Flags().IntVar(&modelCols, "cols", stm.DefaultParameters().NumCols, "STM: number of SDC columns")
	modelCmd.Flags().IntVar(&modelStrideLen, "stride-depth", stm.DefaultParameters().StrideDepth, "STM: SPC stride history depth")
	modelCmd.Flags().Uint64Var(&modelRootSize, "root-size", 0, "Mocktails: requests per phase (0 = one profile for the whole trace)")
	modelCmd.Flags().StringVar(&modelStorePath, "store-path", "", "Optional Pebble path to also persist the built profile(s) to")
	modelCmd.Flags().StringVar(&modelLeafKind, "leaf-model", "simple", "Mocktails: leaf model kind: simple, stm, or hrd")

	_ = modelCmd.MarkFlagRequired("input")
	_ = modelCmd.MarkFlagRequired("output")
}

func parseLayers(s string) ([]uint64, error) {
	parts := strings.Split(s, ",")
	layers := make([]uint64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cmd: invalid layer size %q: %w", p, err)
		}
		layers = append(layers, v)
	}
	return layers, nil
}

func parseLeafKind(s string) (mocktails.ModelType, error) {
	switch strings.ToLower(s) {
	case "simple":
		return mocktails.SimpleLeaf, nil
	case "stm":
		return mocktails.STMLeaf, nil
	case "hrd":
		return mocktails.HRDLeaf, nil
	default:
		return 0, fmt.Errorf("cmd: unknown leaf model %q", s)
	}
}

func readTrace(path string) ([]trace.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cmd: open %s: %w", path, err)
	}
	defer f.Close()

	r, err := trace.NewReader(f)
	if err != nil {
		return nil, err
	}

	var requests []trace.Request
	for {
		req, err := r.ReadRequest()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, nil
}

func runModel() error {
	requests, err := readTrace(modelInput)
	if err != nil {
		return err
	}

	log.Info().Str("model", modelKind).Int("requests", len(requests)).Msg("building profile")

	var mf modelFile
	mf.Kind = modelKind

	var st *store.Store
	if modelStorePath != "" {
		st, err = store.Open(modelStorePath)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	switch modelKind {
	case "hrd":
		layers, err := parseLayers(modelLayers)
		if err != nil {
			return err
		}

		profile := hrd.NewProfile(layers)
		for _, req := range requests {
			profile.Update(req.Address, traceToHRDOp(req.Command))
		}
		mf.HRD = profile

		if st != nil {
			if err := st.PutHRD(0, profile); err != nil {
				return err
			}
		}

	case "stm":
		profile := stm.NewProfile(stm.Parameters{NumRows: modelRows, NumCols: modelCols, StrideDepth: modelStrideLen})
		for _, req := range requests {
			profile.Update(req.Address, traceToSTMOp(req.Command))
		}
		mf.STM = profile

		if st != nil {
			if err := st.PutSTM(0, profile); err != nil {
				return err
			}
		}

	case "mocktails":
		config := mocktails.HierarchyConfiguration{Levels: []mocktails.Configuration{mocktails.DefaultConfiguration()}}
		if modelConfigPath != "" {
			data, err := os.ReadFile(modelConfigPath)
			if err != nil {
				return fmt.Errorf("cmd: read %s: %w", modelConfigPath, err)
			}
			config, err = mocktails.ParseHierarchyConfig(data)
			if err != nil {
				return err
			}
		}

		mocktailsRequests := make([]mocktails.Request, len(requests))
		for i, req := range requests {
			mocktailsRequests[i] = mocktails.Request{
				Timestamp: req.Tick,
				Op:        traceToMocktailsOp(req.Command),
				Address:   req.Address,
				Size:      uint64(req.Size),
			}
		}

		leafKind, err := parseLeafKind(modelLeafKind)
		if err != nil {
			return err
		}

		profiles, err := mocktails.GenerateProfiles(mocktailsRequests, config, leafKind, modelRootSize)
		if err != nil {
			return err
		}
		mf.Mocktails = profiles

		if st != nil {
			for _, p := range profiles {
				if err := st.PutMocktails(p.ID, p); err != nil {
					return err
				}
			}
		}

	default:
		return fmt.Errorf("cmd: unknown model kind %q", modelKind)
	}

	return writeModelFile(modelOutput, mf)
}

func traceToHRDOp(op trace.Operation) hrd.Operation {
	if op == trace.Read {
		return hrd.Read
	}
	return hrd.Write
}

func traceToSTMOp(op trace.Operation) stm.Operation {
	if op == trace.Read {
		return stm.Read
	}
	return stm.Write
}

func traceToMocktailsOp(op trace.Operation) mocktails.Operation {
	if op == trace.Read {
		return mocktails.Read
	}
	return mocktails.Write
}
