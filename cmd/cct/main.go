// Command cct generates and scores curriculum-based course timetables.
package main

import (
	"log"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/cct-timetabling/cct/driver"
	"github.com/cct-timetabling/cct/engine"
)

var (
	workers     = runtime.NumCPU()
	dur         = time.Minute
	method      = "hill-climbing"
	inFile      = "instance.txt"
	outPrefix   = "solution"
	maxAttempts = 50
	randomness  = 0.2
	seed        = time.Now().UnixNano()
)

func main() {
	log.SetFlags(log.Ltime)

	root := &cobra.Command{
		Use:   "cct",
		Short: "Curriculum-based course timetabling engine",
		Long:  "A tool to generate and score curriculum-based course timetables\nfor the ITC-2007 track 3 problem.",
	}

	cmdGen := &cobra.Command{
		Use:   "gen",
		Short: "search for a timetable and write the best one found",
		Run:   commandGen,
	}
	cmdGen.Flags().IntVar(&workers, "workers", workers, "number of concurrent search workers")
	cmdGen.Flags().DurationVarP(&dur, "time", "t", dur, "total time to spend searching")
	cmdGen.Flags().StringVarP(&method, "method", "m", method, "search method: none, local-search, tabu-search, hill-climbing, simulated-annealing")
	cmdGen.Flags().StringVar(&inFile, "in", inFile, "instance file name")
	cmdGen.Flags().StringVar(&outPrefix, "out", outPrefix, "output file prefix (.txt and .grid.txt suffixes)")
	cmdGen.Flags().IntVar(&maxAttempts, "attempts", maxAttempts, "max feasible-finder attempts per worker restart")
	cmdGen.Flags().Float64Var(&randomness, "randomness", randomness, "finder ranking randomness, 0 (greedy) to 1 (uniform)")
	root.AddCommand(cmdGen)

	cmdValidate := &cobra.Command{
		Use:   "validate",
		Short: "parse an instance file and report any errors",
		Run:   commandValidate,
	}
	cmdValidate.Flags().StringVar(&inFile, "in", inFile, "instance file name")
	root.AddCommand(cmdValidate)

	cmdScore := &cobra.Command{
		Use:   "score",
		Short: "score an existing instance/solution pair",
		Run:   commandScore,
	}
	cmdScore.Flags().StringVar(&inFile, "in", inFile, "instance file name")
	cmdScore.Flags().StringVar(&outPrefix, "out", outPrefix, "solution file prefix (.txt suffix)")
	root.AddCommand(cmdScore)

	if err := root.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func parseMethod(s string) driver.Method {
	switch s {
	case "none":
		return driver.MethodNone
	case "local-search":
		return driver.MethodLocalSearch
	case "tabu-search":
		return driver.MethodTabuSearch
	case "hill-climbing":
		return driver.MethodHillClimbing
	case "simulated-annealing":
		return driver.MethodSimulatedAnnealing
	default:
		log.Fatalf("unknown method %q", s)
		return driver.MethodNone
	}
}

func loadInstance() *engine.Instance {
	fp, err := os.Open(inFile)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer fp.Close()

	inst, err := engine.Parse(fp)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return inst
}

func commandValidate(cmd *cobra.Command, args []string) {
	inst := loadInstance()
	log.Printf("instance %q: %d courses, %d rooms, %d curricula, %d teachers, %d lectures, %d days x %d periods",
		inst.Name, inst.C(), inst.R(), inst.Q(), inst.T(), inst.L(), inst.D(), inst.S())
}

func commandGen(cmd *cobra.Command, args []string) {
	if workers < 1 {
		log.Fatalf("workers must be >= 1")
	}
	if dur <= 0 {
		log.Fatalf("time must be > 0")
	}
	if randomness < 0 || randomness > 1 {
		log.Fatalf("randomness must be between 0 and 1")
	}

	inst := loadInstance()

	finder := engine.DefaultFinderConfig()
	finder.MaxAttempts = maxAttempts
	finder.RankingRandomness = randomness

	workerCfg := driver.DefaultConfig()
	workerCfg.Method = parseMethod(method)
	workerCfg.Duration = dur
	workerCfg.Finder = finder

	log.Printf("searching for %v with %d workers using %s", dur, workers, workerCfg.Method)
	best := driver.RunPool(inst, driver.PoolConfig{Workers: workers, Duration: dur, Worker: workerCfg}, seed)
	if best.Badness < 0 {
		log.Fatalf("no feasible solution found")
	}
	log.Printf("best schedule found has cost %d", best.Badness)

	st := engine.Rebuild(inst, best.Assignment)
	writeResult(inst, st)
}

func commandScore(cmd *cobra.Command, args []string) {
	inst := loadInstance()

	fp, err := os.Open(outPrefix + ".txt")
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer fp.Close()

	st, err := engine.ParseSolution(fp, inst)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("cost: %d (room capacity %d, min working days %d, curriculum compactness %d, room stability %d)",
		engine.FullCost(st), engine.RoomCapacityCost(st), engine.MinWorkingDaysCost(st),
		engine.CurriculumCompactnessCost(st), engine.RoomStabilityCost(st))
}

func writeResult(inst *engine.Instance, st *engine.State) {
	txt, err := os.Create(outPrefix + ".txt")
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer txt.Close()
	if err := engine.WriteSolution(txt, st); err != nil {
		log.Fatalf("%v", err)
	}

	grid, err := os.Create(outPrefix + ".grid.txt")
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer grid.Close()
	if err := engine.WriteGrid(grid, st); err != nil {
		log.Fatalf("%v", err)
	}
}
