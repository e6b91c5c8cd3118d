package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/servofit/internal/analysis"
	"github.com/san-kum/servofit/internal/config"
	"github.com/san-kum/servofit/internal/export"
	"github.com/san-kum/servofit/internal/fit"
	"github.com/san-kum/servofit/internal/logs"
	"github.com/san-kum/servofit/internal/metrics"
	"github.com/san-kum/servofit/internal/model"
	"github.com/san-kum/servofit/internal/param"
	"github.com/san-kum/servofit/internal/record"
	"github.com/san-kum/servofit/internal/servo"
	"github.com/san-kum/servofit/internal/sim"
	"github.com/san-kum/servofit/internal/study"
	"github.com/san-kum/servofit/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose bool
	// Fit settings
	logDir     string
	output     string
	trials     int
	jobs       int
	modelName  string
	seed       int64
	sigma      float64
	population int
	configFile string
	preset     string
	studyPath  string
	live       bool
	method     string
	gridPoints int
	// Log replay
	logFile    string
	paramsFile string
	showPlot   bool
	// Phase plot
	poincare  bool
	threshold float64
	// Friction demo
	frictionModel string
	// Sensitivity sweep
	sweepParam  string
	sweepPoints int
	// Recording
	port       string
	servoID    int
	mass       float64
	length     float64
	kp         float64
	trajectory string
	duration   float64
	period     float64
	recordOut  string
	// Study inspection
	dbPath string
	// Export
	exportOut string
	jsonOut   string
	csvOut    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "servofit",
		Short: "servo actuator model calibration",
	}
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose logging")

	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "fit model parameters against recorded logs",
		RunE:  runFit,
	}
	fitCmd.Flags().StringVar(&logDir, "logdir", "", "directory of recorded logs")
	fitCmd.Flags().StringVar(&output, "output", "params.json", "output parameters file")
	fitCmd.Flags().IntVar(&trials, "trials", 10000, "number of trials")
	fitCmd.Flags().IntVar(&jobs, "jobs", 1, "concurrent evaluations")
	fitCmd.Flags().StringVar(&modelName, "model", "m1", "model variant")
	fitCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 seeds from the clock)")
	fitCmd.Flags().Float64Var(&sigma, "sigma", config.DefaultSigma, "initial search step size")
	fitCmd.Flags().IntVar(&population, "population", 0, "cma-es population size (0 for default)")
	fitCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	fitCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	fitCmd.Flags().StringVar(&studyPath, "study", "", "record trials to a study database")
	fitCmd.Flags().BoolVar(&live, "live", false, "live fitting view")
	fitCmd.Flags().StringVar(&method, "method", "cma", "search method (cma or grid)")
	fitCmd.Flags().IntVar(&gridPoints, "grid-points", 10, "grid points per parameter axis")

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "replay a log against fitted parameters",
		RunE:  runSimulate,
	}
	simulateCmd.Flags().StringVar(&logFile, "log", "", "log file")
	simulateCmd.Flags().StringVar(&paramsFile, "params", "", "parameters file")
	simulateCmd.Flags().BoolVar(&showPlot, "plot", false, "plot recorded vs simulated positions")
	simulateCmd.MarkFlagRequired("log")
	simulateCmd.MarkFlagRequired("params")

	logsCmd := &cobra.Command{
		Use:   "logs [dir]",
		Short: "list recorded logs",
		Args:  cobra.ExactArgs(1),
		RunE:  listLogs,
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list model variants and their parameters",
		RunE:  listModels,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "frequency analysis of a log",
		RunE:  analyzeLog,
	}
	analyzeCmd.Flags().StringVar(&logFile, "log", "", "log file")
	analyzeCmd.MarkFlagRequired("log")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "data quality metrics of a log",
		RunE:  statsLog,
	}
	statsCmd.Flags().StringVar(&logFile, "log", "", "log file")
	statsCmd.MarkFlagRequired("log")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "objective landscape along one parameter",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&logDir, "logdir", "", "directory of recorded logs")
	sweepCmd.Flags().StringVar(&paramsFile, "params", "", "parameters file")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "parameter to sweep")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 41, "evaluations across the range")
	sweepCmd.MarkFlagRequired("logdir")
	sweepCmd.MarkFlagRequired("params")
	sweepCmd.MarkFlagRequired("param")

	phaseCmd := &cobra.Command{
		Use:   "phase",
		Short: "phase space plot of a log",
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&logFile, "log", "", "log file")
	phaseCmd.Flags().BoolVar(&poincare, "poincare", false, "plot threshold crossings instead")
	phaseCmd.Flags().Float64Var(&threshold, "threshold", 0.0, "crossing threshold (rad)")
	phaseCmd.MarkFlagRequired("log")

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "plot model responses",
	}
	frictionCmd := &cobra.Command{
		Use:   "friction",
		Short: "dwell-time friction response to a load step",
		RunE:  plotFriction,
	}
	frictionCmd.Flags().StringVar(&frictionModel, "model", "m9", "model variant")
	plotCmd.AddCommand(frictionCmd)

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "record a log from a servo",
		RunE:  runRecord,
	}
	recordCmd.Flags().StringVar(&port, "port", "", "serial port")
	recordCmd.Flags().IntVar(&servoID, "id", 1, "servo bus id")
	recordCmd.Flags().Float64Var(&mass, "mass", 0.0, "payload mass (kg)")
	recordCmd.Flags().Float64Var(&length, "length", 0.0, "arm length (m)")
	recordCmd.Flags().Float64Var(&kp, "kp", 32.0, "servo proportional gain")
	recordCmd.Flags().StringVar(&trajectory, "trajectory", "sin_time_square", "reference trajectory")
	recordCmd.Flags().Float64Var(&duration, "duration", 10.0, "recording duration (s)")
	recordCmd.Flags().Float64Var(&period, "period", 0.005, "sampling period (s)")
	recordCmd.Flags().StringVar(&recordOut, "out", "", "output log file")
	recordCmd.MarkFlagRequired("port")

	studyCmd := &cobra.Command{
		Use:   "study",
		Short: "inspect stored calibration studies",
	}
	studyCmd.PersistentFlags().StringVar(&dbPath, "db", "studies.db", "study database")
	studyListCmd := &cobra.Command{
		Use:   "list",
		Short: "list studies",
		RunE:  listStudies,
	}
	studyTrialsCmd := &cobra.Command{
		Use:   "trials [study_id]",
		Short: "list the trials of a study",
		Args:  cobra.ExactArgs(1),
		RunE:  listTrials,
	}
	studyBestCmd := &cobra.Command{
		Use:   "best [study_id]",
		Short: "show the best trial of a study",
		Args:  cobra.ExactArgs(1),
		RunE:  bestTrial,
	}
	studyCmd.AddCommand(studyListCmd, studyTrialsCmd, studyBestCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "export recorded vs simulated trajectories",
		RunE:  exportReplay,
	}
	exportCmd.Flags().StringVar(&logFile, "log", "", "log file")
	exportCmd.Flags().StringVar(&paramsFile, "params", "", "parameters file")
	exportCmd.Flags().StringVar(&exportOut, "out", "trajectory.svg", "output svg file")
	exportCmd.Flags().StringVar(&jsonOut, "json", "", "also write the series as json")
	exportCmd.Flags().StringVar(&csvOut, "csv", "", "also write the series as csv")
	exportCmd.MarkFlagRequired("log")
	exportCmd.MarkFlagRequired("params")

	rootCmd.AddCommand(fitCmd, simulateCmd, logsCmd, modelsCmd, analyzeCmd, statsCmd, sweepCmd, phaseCmd, plotCmd, recordCmd, studyCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func runFit(cmd *cobra.Command, args []string) error {
	// Load preset if specified
	if preset != "" {
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		modelName = cfg.Model
		output = cfg.Output
		trials = cfg.Trials
		jobs = cfg.Jobs
		sigma = cfg.Sigma
	}

	// Load config file if specified (CLI flags override config)
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cmd.Flags().Changed("model") {
			modelName = cfg.Model
		}
		if cfg.LogDir != "" && !cmd.Flags().Changed("logdir") {
			logDir = cfg.LogDir
		}
		if !cmd.Flags().Changed("output") {
			output = cfg.Output
		}
		if !cmd.Flags().Changed("trials") {
			trials = cfg.Trials
		}
		if !cmd.Flags().Changed("jobs") {
			jobs = cfg.Jobs
		}
		if cfg.Seed != 0 && !cmd.Flags().Changed("seed") {
			seed = cfg.Seed
		}
		if !cmd.Flags().Changed("sigma") {
			sigma = cfg.Sigma
		}
		if cfg.Population != 0 && !cmd.Flags().Changed("population") {
			population = cfg.Population
		}
		if cfg.Study != "" && !cmd.Flags().Changed("study") {
			studyPath = cfg.Study
		}
	}

	if logDir == "" {
		return fmt.Errorf("--logdir is required (flag or config file)")
	}
	if method != "cma" && method != "grid" {
		return fmt.Errorf("unknown method: %s (available: cma, grid)", method)
	}

	logger := buildLogger()
	defer logger.Sync()

	factory := fit.VariantFactory(modelName)
	if _, err := factory(); err != nil {
		return err
	}

	collection, err := logs.Load(logDir)
	if err != nil {
		return err
	}
	if collection.Len() == 0 {
		return fmt.Errorf("no logs found in %s", logDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := fit.Options{
		Trials:     trials,
		Jobs:       jobs,
		Seed:       seed,
		Sigma:      sigma,
		Population: population,
		Logger:     logger,
	}

	var observers []func(fit.Trial)

	var store *study.Store
	var studyID string
	if studyPath != "" {
		store, err = study.Open(studyPath)
		if err != nil {
			return err
		}
		defer store.Close()

		studyID, err = store.CreateStudy(modelName, logDir, trials, jobs, seed)
		if err != nil {
			return err
		}
		observers = append(observers, func(tr fit.Trial) {
			if err := store.RecordTrial(studyID, tr.Number, tr.Score, tr.Values, tr.Err != nil); err != nil {
				logger.Warn("record trial", zap.Error(err))
			}
		})
	}

	var updates chan viz.FitUpdate
	if live {
		updates = make(chan viz.FitUpdate, 64)
		observers = append(observers, func(tr fit.Trial) {
			// Never block the optimizer on a slow terminal
			select {
			case updates <- viz.FitUpdate{Trial: tr.Number, Score: tr.Score, Failed: tr.Err != nil}:
			default:
			}
		})
	}

	if len(observers) > 0 {
		opts.Observer = func(tr fit.Trial) {
			for _, fn := range observers {
				fn(tr)
			}
		}
	}

	fmt.Printf("fitting %s against %d logs (%d trials)...\n", modelName, collection.Len(), trials)

	search := func() (*fit.Result, error) {
		if method == "grid" {
			return fit.Grid(ctx, factory, collection, opts, gridPoints)
		}
		return fit.Calibrate(ctx, factory, collection, opts)
	}

	var res *fit.Result
	var runErr error
	if live {
		done := make(chan struct{})
		go func() {
			res, runErr = search()
			close(updates)
			close(done)
		}()
		p := tea.NewProgram(viz.NewFitModel(updates, modelName, trials))
		if _, err := p.Run(); err != nil {
			return err
		}
		<-done
	} else {
		res, runErr = search()
	}

	status := "complete"
	if runErr != nil {
		canceled := errors.Is(runErr, context.Canceled)
		if !canceled || res == nil {
			if store != nil {
				endStatus := "failed"
				if canceled {
					endStatus = "canceled"
				}
				if err := store.FinishStudy(studyID, endStatus, math.Inf(1), nil); err != nil {
					logger.Warn("finish study", zap.Error(err))
				}
			}
			return runErr
		}
		status = "canceled"
		fmt.Println("interrupted, keeping best result so far")
	}

	if store != nil {
		if err := store.FinishStudy(studyID, status, res.BestScore, res.BestValues); err != nil {
			logger.Warn("finish study", zap.Error(err))
		}
	}

	if err := param.SaveFile(output, modelName, res.BestValues); err != nil {
		return err
	}

	fmt.Printf("completed %d trials in %v\n", res.Trials, res.Runtime.Round(time.Millisecond))

	fmt.Println()
	fmt.Println("Done, best params found: ")
	probe, err := model.New(modelName)
	if err != nil {
		return err
	}
	for _, name := range probe.Params().Optimized() {
		if v, ok := res.BestValues[name]; ok {
			fmt.Printf("- %s: %v\n", name, v)
		}
	}
	fmt.Printf("\nsaved to %s\n", output)

	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	lg, err := logs.ReadFile(logFile)
	if err != nil {
		return err
	}
	m, err := model.LoadFile(paramsFile)
	if err != nil {
		return err
	}

	score, err := fit.Score(m, lg)
	if err != nil {
		return err
	}

	fmt.Printf("log: %s (%d entries, %.1fs)\n", lg.Name, len(lg.Entries), lg.Duration())
	fmt.Printf("model: %s\n", m.Name())
	fmt.Printf("mae: %.6f rad\n", score)

	if showPlot {
		simulated, err := sim.Replay(lg, m)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(viz.Overlay([][]float64{lg.Positions(), simulated}, "position (rad): recorded vs simulated"))
	}

	return nil
}

func listLogs(cmd *cobra.Command, args []string) error {
	collection, err := logs.Load(args[0])
	if err != nil {
		return err
	}
	if collection.Len() == 0 {
		fmt.Println("no logs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tENTRIES\tDURATION\tMASS\tLENGTH\tKP\tVIN")
	for _, lg := range collection.Logs {
		fmt.Fprintf(w, "%s\t%d\t%.1fs\t%.3f\t%.3f\t%.1f\t%.1f\n",
			lg.Name, len(lg.Entries), lg.Duration(), lg.Mass, lg.Length, lg.Kp, lg.Vin)
	}
	return w.Flush()
}

func listModels(cmd *cobra.Command, args []string) error {
	for _, name := range model.Names() {
		m, err := model.New(name)
		if err != nil {
			return err
		}
		reg := m.Params()

		fmt.Printf("%s (%d parameters)\n", name, reg.Len())
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  NAME\tDEFAULT\tMIN\tMAX\tSEARCHED")
		reg.Each(func(pname string, p *param.Parameter) {
			searched := "yes"
			if !p.Optimize {
				searched = "no"
			}
			fmt.Fprintf(w, "  %s\t%g\t%g\t%g\t%s\n", pname, p.Value, p.Min, p.Max, searched)
		})
		w.Flush()
		fmt.Println()
	}
	return nil
}

func analyzeLog(cmd *cobra.Command, args []string) error {
	lg, err := logs.ReadFile(logFile)
	if err != nil {
		return err
	}
	if len(lg.Entries) < 2 {
		return fmt.Errorf("not enough samples to analyze")
	}

	samplePeriod := lg.Duration() / float64(len(lg.Entries)-1)
	if samplePeriod <= 0 {
		return fmt.Errorf("log has no duration")
	}

	_, ps := analysis.Spectrum(lg.Positions(), samplePeriod)
	if len(ps) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n", lg.Name)
	fmt.Printf("samples: %d, period: %.4fs\n\n", len(lg.Entries), samplePeriod)

	plotData := ps[:len(ps)/4]
	if len(plotData) < 2 {
		plotData = ps
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (position)"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, _ := analysis.DominantFrequency(lg.Positions(), samplePeriod)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	return nil
}

func statsLog(cmd *cobra.Command, args []string) error {
	lg, err := logs.ReadFile(logFile)
	if err != nil {
		return err
	}

	ms := metrics.Standard(lg)
	values := metrics.Evaluate(lg, ms...)

	fmt.Printf("log: %s (%d entries, %.1fs)\n\n", lg.Name, len(lg.Entries), lg.Duration())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, m := range ms {
		fmt.Fprintf(w, "%s\t%.6f\n", m.Name(), values[m.Name()])
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	collection, err := logs.Load(logDir)
	if err != nil {
		return err
	}
	if collection.Len() == 0 {
		return fmt.Errorf("no logs found in %s", logDir)
	}

	m, err := model.LoadFile(paramsFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	points, err := fit.Sweep(ctx, fit.VariantFactory(m.Name()), collection, m.Params().Values(), sweepParam, sweepPoints)
	if err != nil {
		return err
	}

	scores := make([]float64, 0, len(points))
	failed := 0
	bestIdx := -1
	for i, pt := range points {
		if pt.Err != nil {
			failed++
			continue
		}
		scores = append(scores, pt.Score)
		if bestIdx < 0 || pt.Score < points[bestIdx].Score {
			bestIdx = i
		}
	}
	if len(scores) == 0 {
		return fmt.Errorf("all %d evaluations failed", len(points))
	}

	fmt.Printf("objective along %s in [%g, %g] (%d points, %d logs)\n\n",
		sweepParam, points[0].Value, points[len(points)-1].Value, len(points), collection.Len())
	fmt.Println(viz.Plot(scores, fmt.Sprintf("mae (rad) vs %s", sweepParam)))
	fmt.Println()
	fmt.Printf("minimum: %s = %g (mae %.6f)\n", sweepParam, points[bestIdx].Value, points[bestIdx].Score)
	if failed > 0 {
		fmt.Printf("%d evaluations failed\n", failed)
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	lg, err := logs.ReadFile(logFile)
	if err != nil {
		return err
	}

	var portrait *analysis.PhasePortrait2D
	if poincare {
		portrait = analysis.PoincareSection(lg, threshold)
	} else {
		portrait = analysis.PhasePortrait(lg)
	}
	if portrait == nil || len(portrait.Points) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("phase space plot: %s\n", lg.Name)
	fmt.Printf("x: position (rad), y: speed (rad/s)\n\n")
	fmt.Println(analysis.PhasePortraitToASCII(portrait, 80, 24))
	return nil
}

func plotFriction(cmd *cobra.Command, args []string) error {
	m, err := model.New(frictionModel)
	if err != nil {
		return err
	}

	// Prime the memory, then step through a load step: 0.5s loaded, 0.5s free
	m.Reset()
	m.Frictions(0, 0, 0, 0.01)

	losses := make([]float64, 0, 100)
	for k := 0; k < 100; k++ {
		external := 0.0
		if k < 50 {
			external = 1.0
		}
		loss, _ := m.Frictions(0, external, 0, 0.01)
		losses = append(losses, loss)
	}

	fmt.Printf("friction response: %s\n\n", frictionModel)
	fmt.Println(viz.Plot(losses, "frictionloss (Nm) under a load step"))
	return nil
}

func runRecord(cmd *cobra.Command, args []string) error {
	traj, err := record.New(trajectory)
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, record.Names())
	}

	logger := buildLogger()
	defer logger.Sync()

	s, err := servo.Open(port, uint8(servoID), logger)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Ping(); err != nil {
		return fmt.Errorf("servo %d not responding: %w", servoID, err)
	}

	rec := &record.Recorder{
		Servo:  s,
		Mass:   mass,
		Length: length,
		Kp:     kp,
		Period: time.Duration(period * float64(time.Second)),
		Log:    logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("recording %s for %.1fs...\n", trajectory, duration)
	lg, err := rec.Run(ctx, traj, time.Duration(duration*float64(time.Second)))
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			return err
		}
		fmt.Println("interrupted, saving partial log")
	}
	if lg == nil || len(lg.Entries) == 0 {
		return fmt.Errorf("no samples recorded")
	}

	out := recordOut
	if out == "" {
		out = fmt.Sprintf("%s_%s.json", trajectory, time.Now().Format("20060102_150405"))
	}
	if err := logs.WriteFile(out, lg); err != nil {
		return err
	}

	fmt.Printf("recorded %d samples to %s\n", len(lg.Entries), out)
	return nil
}

func listStudies(cmd *cobra.Command, args []string) error {
	store, err := study.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	studies, err := store.ListStudies()
	if err != nil {
		return err
	}
	if len(studies) == 0 {
		fmt.Println("no studies found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tCREATED\tTRIALS\tJOBS\tSTATUS\tBEST")
	for _, st := range studies {
		best := "-"
		if !math.IsInf(st.BestScore, 1) {
			best = fmt.Sprintf("%.6f", st.BestScore)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			st.ID, st.Model, st.CreatedAt.Format("2006-01-02 15:04:05"),
			st.Trials, st.Jobs, st.Status, best)
	}
	return w.Flush()
}

func listTrials(cmd *cobra.Command, args []string) error {
	store, err := study.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	studyTrials, err := store.Trials(args[0])
	if err != nil {
		return err
	}
	if len(studyTrials) == 0 {
		fmt.Println("no trials found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tSCORE\tSTATE")
	for _, tr := range studyTrials {
		score := "-"
		if !math.IsInf(tr.Score, 1) {
			score = fmt.Sprintf("%.6f", tr.Score)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", tr.Number, score, tr.State)
	}
	return w.Flush()
}

func bestTrial(cmd *cobra.Command, args []string) error {
	store, err := study.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	tr, err := store.BestTrial(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("trial %d: %.6f\n", tr.Number, tr.Score)
	names := make([]string, 0, len(tr.Params))
	for name := range tr.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("- %s: %v\n", name, tr.Params[name])
	}
	return nil
}

func exportReplay(cmd *cobra.Command, args []string) error {
	lg, err := logs.ReadFile(logFile)
	if err != nil {
		return err
	}
	m, err := model.LoadFile(paramsFile)
	if err != nil {
		return err
	}

	mae, err := fit.Score(m, lg)
	if err != nil {
		return err
	}
	simulated, err := sim.Replay(lg, m)
	if err != nil {
		return err
	}

	times := make([]float64, len(lg.Entries))
	for i, e := range lg.Entries {
		times[i] = e.Timestamp
	}

	svg := export.TrajectorySVG(times, lg.Positions(), simulated, 960, 540)
	if svg == "" {
		return fmt.Errorf("not enough data to export")
	}
	if err := os.WriteFile(exportOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", exportOut)

	if jsonOut == "" && csvOut == "" {
		return nil
	}
	data := &export.ReplayData{
		Model:     m.Name(),
		MAE:       mae,
		Samples:   len(lg.Entries),
		Times:     times,
		Recorded:  lg.Positions(),
		Simulated: simulated,
	}
	if jsonOut != "" {
		if err := export.WriteJSON(jsonOut, data); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", jsonOut)
	}
	if csvOut != "" {
		if err := export.WriteCSV(csvOut, data); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", csvOut)
	}
	return nil
}
