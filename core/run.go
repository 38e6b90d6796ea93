package core

import (
	"fmt"
	"sync"

	"github.com/hepworks/renorm/internal/contract"
	"github.com/hepworks/renorm/internal/expreval"
	"github.com/hepworks/renorm/schema"
)

// flavourOutput is the result of one flavour's end-to-end computation.
type flavourOutput struct {
	rows   []schema.RenormRow
	yields []schema.YieldResult
}

// flavourResult carries a flavour's output back from a worker.
type flavourResult struct {
	name string
	out  *flavourOutput
	err  error
}

// Run computes renormalisation rows for every requested flavour and
// systematic, in configuration order. Any file, tree or expression failure
// aborts the whole run; a zero nominal yield only marks the affected rows
// as undefined.
func Run(cfg *contract.Config, ana *schema.AnalysisConfig, eval contract.Evaluator, registry *expreval.SelectionRegistry) (*schema.Report, error) {
	flavours := selectFlavours(cfg, ana)
	if len(flavours) == 0 {
		return nil, contract.Configf("no flavours selected")
	}

	if cfg.Parallel && len(flavours) > 1 {
		return runParallel(cfg, ana, eval, registry, flavours)
	}

	report := &schema.Report{}
	for _, fl := range flavours {
		out, err := computeFlavour(cfg, ana, eval, registry, fl)
		if err != nil {
			return nil, err
		}
		report.Rows = append(report.Rows, out.rows...)
		report.Yields = append(report.Yields, out.yields...)
	}
	return report, nil
}

// runParallel fans independent flavour computations out over a worker pool.
// Workers share nothing; results are regrouped to configuration order before
// the report is assembled.
func runParallel(cfg *contract.Config, ana *schema.AnalysisConfig, eval contract.Evaluator, registry *expreval.SelectionRegistry, flavours []*schema.Flavour) (*schema.Report, error) {
	taskCh := make(chan *schema.Flavour, len(flavours))
	resultCh := make(chan flavourResult, len(flavours))
	var wg sync.WaitGroup

	for range min(cfg.Workers, len(flavours)) {
		wg.Go(func() {
			for fl := range taskCh {
				out, err := computeFlavour(cfg, ana, eval, registry, fl)
				resultCh <- flavourResult{name: fl.Name, out: out, err: err}
			}
		})
	}

	for _, fl := range flavours {
		taskCh <- fl
	}
	close(taskCh)

	wg.Wait()
	close(resultCh)

	byName := make(map[string]*flavourOutput, len(flavours))
	var firstErr error
	for r := range resultCh {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		byName[r.name] = r.out
	}
	if firstErr != nil {
		return nil, firstErr
	}

	report := &schema.Report{}
	for _, fl := range flavours {
		out := byName[fl.Name]
		report.Rows = append(report.Rows, out.rows...)
		report.Yields = append(report.Yields, out.yields...)
	}
	return report, nil
}

// computeFlavour runs the nominal computation and every requested systematic
// for one flavour.
func computeFlavour(cfg *contract.Config, ana *schema.AnalysisConfig, eval contract.Evaluator, registry *expreval.SelectionRegistry, fl *schema.Flavour) (*flavourOutput, error) {
	extra := ""
	if fl.ExtraSelection != "" {
		sel, ok := registry.Lookup(fl.ExtraSelection)
		if !ok {
			return nil, contract.Configf("flavour %q references unknown extra selection %q", fl.Name, fl.ExtraSelection)
		}
		extra = sel
	}
	selection := ComposeSelection(fl.Selection, extra)
	nominalWeight := ComposeWeight(ana.NominalWeight, "1")

	contract.LogInfo(fmt.Sprintf("Processing flavour %s", fl.Name))
	nomSum, nomCount, err := ComputeYield(eval, ana.BasePath, ana.Folders, fl.Files, selection, nominalWeight)
	if err != nil {
		return nil, fmt.Errorf("flavour %s: %w", fl.Name, err)
	}

	out := &flavourOutput{}
	out.yields = append(out.yields, schema.YieldResult{
		Flavour:     fl.Name,
		Systematic:  schema.NominalName,
		Direction:   schema.NominalDirection,
		WeightedSum: nomSum,
		EventCount:  nomCount,
	})

	for _, sys := range selectSystematics(cfg, fl) {
		up, err := computeVariation(eval, ana, fl, sys, schema.UpDirection, selection)
		if err != nil {
			return nil, fmt.Errorf("flavour %s: %w", fl.Name, err)
		}
		down, err := computeVariation(eval, ana, fl, sys, schema.DownDirection, selection)
		if err != nil {
			return nil, fmt.Errorf("flavour %s: %w", fl.Name, err)
		}

		if nomSum == 0 {
			contract.LogWarn(fmt.Sprintf("flavour %s systematic %s: nominal yield is zero, renormalisation undefined", fl.Name, sys.Name), nil)
		}

		out.yields = append(out.yields, up, down)
		out.rows = append(out.rows, schema.RenormRow{
			Flavour:       fl.Name,
			Systematic:    sys.Name,
			NominalYield:  nomSum,
			SystYieldUp:   up.WeightedSum,
			SystYieldDown: down.WeightedSum,
			RenormUp:      Renorm(nomSum, up.WeightedSum),
			RenormDown:    Renorm(nomSum, down.WeightedSum),
		})
	}
	return out, nil
}

// computeVariation computes one direction of one systematic. Weight-kind
// systematics rescan the nominal files with the composed weight; sample-kind
// systematics scan their own files with the nominal weight, optionally
// multiplied by a supplemental per-sample weight.
func computeVariation(eval contract.Evaluator, ana *schema.AnalysisConfig, fl *schema.Flavour, sys *schema.Systematic, dir schema.Direction, selection string) (schema.YieldResult, error) {
	var files []string
	var weight string

	dirWeight := sys.UpWeight
	if dir == schema.DownDirection {
		dirWeight = sys.DownWeight
	}

	switch sys.Kind {
	case schema.SampleKind:
		files = sys.UpFiles
		if dir == schema.DownDirection {
			files = sys.DownFiles
		}
		weight = ComposeWeight(ana.NominalWeight, "1")
		if dirWeight != "" {
			weight = ComposeWeight(weight, dirWeight)
		}
	default:
		files = fl.Files
		weight = ComposeWeight(ana.NominalWeight, dirWeight)
	}

	sum, count, err := ComputeYield(eval, ana.BasePath, ana.Folders, files, selection, weight)
	if err != nil {
		return schema.YieldResult{}, fmt.Errorf("systematic %s (%s): %w", sys.Name, dir, err)
	}
	return schema.YieldResult{
		Flavour:     fl.Name,
		Systematic:  sys.Name,
		Direction:   dir,
		WeightedSum: sum,
		EventCount:  count,
	}, nil
}

// selectFlavours returns the requested flavours in configuration order.
func selectFlavours(cfg *contract.Config, ana *schema.AnalysisConfig) []*schema.Flavour {
	out := make([]*schema.Flavour, 0, len(ana.Flavours))
	for i := range ana.Flavours {
		fl := &ana.Flavours[i]
		if len(cfg.Flavours) == 0 || containsName(cfg.Flavours, fl.Name) {
			out = append(out, fl)
		}
	}
	return out
}

// selectSystematics returns the requested systematics of one flavour in
// configuration order. Flavours that define none of the requested names
// contribute no rows.
func selectSystematics(cfg *contract.Config, fl *schema.Flavour) []*schema.Systematic {
	out := make([]*schema.Systematic, 0, len(fl.Systematics))
	for i := range fl.Systematics {
		sys := &fl.Systematics[i]
		if len(cfg.Systematics) == 0 || containsName(cfg.Systematics, sys.Name) {
			out = append(out, sys)
		}
	}
	return out
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
