package commands

import (
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) startProfile(cmd *cobra.Command, args []string) error {
	if a.cpuprofile == "" {
		return nil
	}
	f, err := os.Create(a.cpuprofile)
	if err != nil {
		return fmt.Errorf("create cpu profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return err
	}
	a.cpuFile = f
	return nil
}

func (a *app) stopProfile(cmd *cobra.Command, args []string) {
	if a.cpuFile == nil {
		return
	}
	pprof.StopCPUProfile()
	if err := a.cpuFile.Close(); err != nil {
		a.log.Error().Err(err).Str("path", a.cpuprofile).Msg("close cpu profile")
	}
	a.cpuFile = nil
}

// recordMemProfile. heap profile named after the stage, e.g. mem.mprof -> memgraph_build.mprof.
func (a *app) recordMemProfile(name string) {
	if a.memprofile == "" {
		return
	}
	path := strings.Replace(a.memprofile, ".mprof", fmt.Sprintf("%s.mprof", name), -1)
	f, err := os.Create(path)
	if err != nil {
		a.log.Error().Err(err).Str("path", path).Msg("create memory profile")
		return
	}
	if err := pprof.WriteHeapProfile(f); err != nil {
		a.log.Error().Err(err).Str("path", path).Msg("write memory profile")
	}
	if err := f.Close(); err != nil {
		a.log.Error().Err(err).Str("path", path).Msg("close memory profile")
	}
}
