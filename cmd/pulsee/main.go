package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lzawbrito/PULSEE/internal/config"
	"github.com/lzawbrito/PULSEE/internal/sim"
	"github.com/lzawbrito/PULSEE/internal/store"
)

var (
	dataDir    string
	configFile string
	// nutation sweep parameters
	maxTime float64
	steps   int
	workers int
	// spectrum rendering
	curvePoints int
	lineWidth   float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pulsee",
		Short: "nuclear magnetic/quadrupole resonance simulator",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pulsee", "data directory")

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "evolve the configured system through its pulse",
		RunE:  runSimulate,
	}
	simulateCmd.Flags().StringVar(&configFile, "config", "pulsee.yaml", "config file path (yaml)")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum",
		Short: "power absorption spectrum of the static Hamiltonian",
		RunE:  runSpectrum,
	}
	spectrumCmd.Flags().StringVar(&configFile, "config", "pulsee.yaml", "config file path (yaml)")
	spectrumCmd.Flags().IntVar(&curvePoints, "points", 120, "curve resolution")
	spectrumCmd.Flags().Float64Var(&lineWidth, "width", 0, "line half-width in MHz (0 = auto)")

	nutationCmd := &cobra.Command{
		Use:   "nutation",
		Short: "sweep pulse duration and plot the z polarization",
		RunE:  runNutation,
	}
	nutationCmd.Flags().StringVar(&configFile, "config", "pulsee.yaml", "config file path (yaml)")
	nutationCmd.Flags().Float64Var(&maxTime, "max-time", 10, "longest pulse in microseconds")
	nutationCmd.Flags().IntVar(&steps, "steps", 60, "number of sweep points")
	nutationCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = all cpus)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list archived runs",
		RunE:  runList,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export an archived run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save("pulsee.yaml", config.Default())
		},
	}

	rootCmd.AddCommand(simulateCmd, spectrumCmd, nutationCmd, listCmd, exportCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	system, err := sim.Setup(cfg)
	if err != nil {
		return err
	}
	opts, err := sim.EngineOptions(cfg)
	if err != nil {
		return err
	}

	before, err := sim.Measure(system.Spin, system.Initial)
	if err != nil {
		return err
	}
	final, err := sim.Evolve(system, sim.Modes(cfg), cfg.Evolution.PulseTime, opts)
	if err != nil {
		return err
	}
	after, err := sim.Measure(system.Spin, final)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\t<Ix>\t<Iy>\t<Iz>\tpurity")
	fmt.Fprintf(w, "initial\t%.4f\t%.4f\t%.4f\t%.4f\n", before.X, before.Y, before.Z, system.Initial.Purity())
	fmt.Fprintf(w, "final\t%.4f\t%.4f\t%.4f\t%.4f\n", after.X, after.Y, after.Z, final.Purity())
	if err := w.Flush(); err != nil {
		return err
	}

	return archiveRun(cfg, after, final.Purity())
}

func archiveRun(cfg *config.Config, p sim.Polarization, purity float64) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}
	db, err := store.Open(filepath.Join(dataDir, "runs.db"))
	if err != nil {
		return err
	}
	defer db.Close()

	snapshot, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	id, err := db.Save(store.Run{
		Config:    string(snapshot),
		PulseTime: cfg.Evolution.PulseTime,
		Ix:        p.X,
		Iy:        p.Y,
		Iz:        p.Z,
		Purity:    purity,
	})
	if err != nil {
		return err
	}
	fmt.Printf("saved run %s\n", id)
	return nil
}

func runSpectrum(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	system, err := sim.Setup(cfg)
	if err != nil {
		return err
	}
	lines, err := sim.PowerAbsorptionSpectrum(system.Spin, system.Static)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "frequency (MHz)\tintensity")
	for _, l := range lines {
		fmt.Fprintf(w, "%.4f\t%.4f\n", l.Frequency, l.Intensity)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	_, curve := sim.SpectrumCurve(lines, curvePoints, lineWidth)
	fmt.Println(asciigraph.Plot(curve, asciigraph.Height(12), asciigraph.Caption("power absorption")))
	return nil
}

func runNutation(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	system, err := sim.Setup(cfg)
	if err != nil {
		return err
	}
	opts, err := sim.EngineOptions(cfg)
	if err != nil {
		return err
	}
	_, zs, err := sim.NutationCurve(system, sim.Modes(cfg), maxTime, steps, opts, workers)
	if err != nil {
		return err
	}
	fmt.Println(asciigraph.Plot(zs, asciigraph.Height(12), asciigraph.Caption("<Iz> vs pulse time")))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := store.Open(filepath.Join(dataDir, "runs.db"))
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.List()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\tcreated\tpulse (us)\t<Iz>\tpurity")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.3f\t%.4f\t%.4f\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.PulseTime, r.Iz, r.Purity)
	}
	return w.Flush()
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := store.Open(filepath.Join(dataDir, "runs.db"))
	if err != nil {
		return err
	}
	defer db.Close()
	return db.ExportJSON(os.Stdout, args[0])
}
