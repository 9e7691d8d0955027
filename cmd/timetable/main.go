// Command timetable is the CLI entrypoint wiring the core engine's public
// surface (internal/validate, internal/backtrack, internal/cpsat,
// internal/constraint) to cobra subcommands, replacing the reference
// repository's single linear main() with named commands over the same
// load -> validate -> solve -> report -> export pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"timetabling-UDP/internal/backtrack"
	"timetabling-UDP/internal/constraint"
	"timetabling-UDP/internal/cpsat"
	"timetabling-UDP/internal/domain"
	"timetabling-UDP/internal/export"
	"timetabling-UDP/internal/ingest"
	"timetabling-UDP/internal/solve"
	"timetabling-UDP/internal/telemetry"
	"timetabling-UDP/internal/validate"
)

var (
	inputDir   string
	verbose    bool
	logFormat  string
	outputPath string
	outputFmt  string
)

func main() {
	root := &cobra.Command{
		Use:   "timetable",
		Short: "Weekly school timetabling constraint-satisfaction engine",
		Long: "Loads Teacher/Room/Class/Lesson data from CSV, validates it, and\n" +
			"produces a feasible weekly Timetable using a backtracking search or a\n" +
			"CP-SAT-style boolean-satisfiability solver.",
	}
	root.PersistentFlags().StringVar(&inputDir, "input-dir", "data/input", "directory containing teachers.csv, rooms.csv, classes.csv, lessons.csv")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log encoding: console or json")

	root.AddCommand(newValidateCmd())
	root.AddCommand(newSolveCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newDebugCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	logger, err := telemetry.New(telemetry.Config{Verbose: verbose, JSON: logFormat == "json"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func loadCatalog(logger *zap.Logger) *domain.Catalog {
	paths := ingest.Paths{
		Teachers: filepath.Join(inputDir, "teachers.csv"),
		Rooms:    filepath.Join(inputDir, "rooms.csv"),
		Classes:  filepath.Join(inputDir, "classes.csv"),
		Lessons:  filepath.Join(inputDir, "lessons.csv"),
	}
	cat, err := ingest.Catalog(paths)
	if err != nil {
		logger.Fatal("loading input", zap.Error(err))
	}
	return cat
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "run the input validator and print results",
		Run: func(cmd *cobra.Command, args []string) {
			logger := newLogger()
			defer logger.Sync()
			cat := loadCatalog(logger)
			if err := validate.Catalog(cat); err != nil {
				fmt.Println("INVALID:")
				fmt.Println(err)
				os.Exit(1)
			}
			fmt.Println("OK: input is structurally valid")
		},
	}
}

func newSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "produce a feasible Timetable with one of the two solver back-ends",
	}
	cmd.PersistentFlags().StringVar(&outputPath, "output", "", "write the resulting Timetable as JSON to this path (optional)")
	cmd.PersistentFlags().StringVar(&outputFmt, "format", "table", "report format: table prints the assignment table; json prints no report (JSON is written only via --output)")
	cmd.AddCommand(newSolveBacktrackCmd())
	cmd.AddCommand(newSolveCPSATCmd())
	return cmd
}

func newSolveBacktrackCmd() *cobra.Command {
	var maxAttempts int
	var seedOrder string
	cmd := &cobra.Command{
		Use:   "backtrack",
		Short: "run the backtracking depth-first solver",
		Run: func(cmd *cobra.Command, args []string) {
			logger := newLogger()
			defer logger.Sync()
			cat := loadCatalog(logger)
			if err := validate.Catalog(cat); err != nil {
				logger.Fatal("input failed validation", zap.Error(err))
			}
			timetable, stats, err := backtrack.Solve(cat, backtrack.Config{MaxAttempts: maxAttempts, SeedOrder: seedOrder}, logger)
			if err != nil {
				fmt.Printf("no solution: %v\n", err)
				os.Exit(1)
			}
			reportSolution(cat, timetable, stats)
		},
	}
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 200000, "node-expansion budget")
	cmd.Flags().StringVar(&seedOrder, "seed-order", "difficulty", "task ordering: difficulty or insertion")
	return cmd
}

func newSolveCPSATCmd() *cobra.Command {
	var timeoutSeconds int
	var quality bool
	cmd := &cobra.Command{
		Use:   "cpsat",
		Short: "run the CP-SAT (boolean-satisfiability) solver",
		Run: func(cmd *cobra.Command, args []string) {
			logger := newLogger()
			defer logger.Sync()
			cat := loadCatalog(logger)
			if err := validate.Catalog(cat); err != nil {
				logger.Fatal("input failed validation", zap.Error(err))
			}
			ctx := telemetry.WithLogger(context.Background(), logger)
			timetable, stats, err := cpsat.Solve(ctx, cat, cpsat.Config{
				Timeout: time.Duration(timeoutSeconds) * time.Second,
				Quality: quality,
			}, logger)
			if err != nil {
				fmt.Printf("no solution: %v\n", err)
				os.Exit(1)
			}
			reportSolution(cat, timetable, stats)
		},
	}
	cmd.Flags().IntVar(&timeoutSeconds, "timeout", 30, "wall-clock timeout in seconds")
	cmd.Flags().BoolVar(&quality, "quality", false, "opt into the Q1/Q2 quality constraints")
	cmd.Flags().Int("workers", 1, "parallel solver workers; accepted but not read, the solver is not given this value")
	return cmd
}

func newCheckCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "run the full constraint library against a previously exported Timetable JSON file",
		Run: func(cmd *cobra.Command, args []string) {
			logger := newLogger()
			defer logger.Sync()
			cat := loadCatalog(logger)
			timetable, err := export.LoadJSON(file)
			if err != nil {
				logger.Fatal("loading timetable", zap.Error(err))
			}
			ok, violations := constraint.Integrated(cat, timetable)
			if !ok {
				fmt.Printf("INCONSISTENT: %d violations\n", len(violations))
				for _, v := range violations {
					fmt.Println(" -", v.String())
				}
				os.Exit(1)
			}
			fmt.Println("OK: timetable satisfies C1-C7")
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to an exported Timetable JSON file")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newDebugCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug",
		Short: "reporting helpers that don't change any solver behavior",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "report per-class and per-teacher weekly load",
		Run: func(cmd *cobra.Command, args []string) {
			logger := newLogger()
			defer logger.Sync()
			cat := loadCatalog(logger)
			printLoadStats(cat)
		},
	})
	return cmd
}

func printLoadStats(cat *domain.Catalog) {
	unitsByClass := make(map[string]int)
	unitsByTeacher := make(map[string]int)
	for _, lessonID := range cat.LessonOrder() {
		l := cat.Lessons[lessonID]
		for _, classID := range l.ClassIDs {
			unitsByClass[classID] += l.Units
		}
		for _, teacherID := range l.TeacherIDs {
			unitsByTeacher[teacherID] += l.Units
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "class\tweekly units\tof 30 slots")
	var classIDs []string
	for id := range unitsByClass {
		classIDs = append(classIDs, id)
	}
	sort.Strings(classIDs)
	for _, id := range classIDs {
		fmt.Fprintf(w, "%s\t%d\t%d\n", id, unitsByClass[id], validate.MaxUnitsPerClass)
	}
	w.Flush()

	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "teacher\tweekly units assigned")
	var teacherIDs []string
	for id := range unitsByTeacher {
		teacherIDs = append(teacherIDs, id)
	}
	sort.Strings(teacherIDs)
	for _, id := range teacherIDs {
		fmt.Fprintf(w, "%s\t%d\n", id, unitsByTeacher[id])
	}
	w.Flush()
}

func reportSolution(cat *domain.Catalog, timetable *domain.Timetable, stats *solve.Stats) {
	if outputPath != "" {
		if err := export.JSON(cat, timetable, outputPath); err != nil {
			fmt.Printf("warning: failed to write %s: %v\n", outputPath, err)
		} else {
			fmt.Printf("wrote %s\n", outputPath)
		}
	}

	if outputFmt == "json" {
		return
	}

	fmt.Println("================================================================================")
	fmt.Println("TIMETABLE SOLVED")
	fmt.Println("================================================================================")
	fmt.Printf("Assignments: %d | Duration: %s | Status: %s\n", len(timetable.Assignments), stats.Duration, stats.Status)

	ok, violations := constraint.Integrated(cat, timetable)
	if !ok {
		fmt.Printf("INTERNAL INCONSISTENCY: %d violations (this is always a solver bug)\n", len(violations))
		for _, v := range violations {
			fmt.Println(" -", v.String())
		}
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "weekday\tperiod\tlesson\troom\tteacher")
	sorted := append([]domain.Assignment(nil), timetable.Assignments...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TimeSlot.Index() < sorted[j].TimeSlot.Index()
	})
	for _, a := range sorted {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", a.TimeSlot.Weekday, a.TimeSlot.Period, a.LessonID, a.RoomID, a.TeacherID)
	}
	w.Flush()
}
