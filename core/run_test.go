package core

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hepworks/renorm/internal/contract"
	"github.com/hepworks/renorm/internal/expreval"
	"github.com/hepworks/renorm/schema"
)

// fixtureConfig builds an analysis configuration over freshly written sample
// files: one signal flavour with a weight-kind systematic and a sample-kind
// systematic backed by disjoint alternate files.
func fixtureConfig(t *testing.T) *schema.AnalysisConfig {
	t.Helper()
	base := t.TempDir()

	writeSample(t, filepath.Join(base, "f1", "sigA.parquet"), []events{
		{NJets: 4, EvtWeight: 1.0, WUp: 1.5, WDown: 0.5},
		{NJets: 6, EvtWeight: 3.0, WUp: 1.5, WDown: 0.5},
		{NJets: 2, EvtWeight: 9.0, WUp: 1.5, WDown: 0.5}, // fails selection
	})
	writeSample(t, filepath.Join(base, "f1", "sigA_psup.parquet"), []events{
		{NJets: 5, EvtWeight: 5.0},
	})
	writeSample(t, filepath.Join(base, "f1", "sigA_psdown.parquet"), []events{
		{NJets: 5, EvtWeight: 2.0},
	})
	writeSample(t, filepath.Join(base, "f1", "bkg.parquet"), []events{
		{NJets: 8, EvtWeight: 2.0, WUp: 2.0, WDown: 0.25},
	})

	return &schema.AnalysisConfig{
		BasePath:      base,
		Folders:       []string{"f1"},
		NominalWeight: "evt_weight",
		Flavours: []schema.Flavour{
			{
				Name:      "ttH_had",
				Selection: "nJets>=4",
				Files:     []string{"sigA.parquet"},
				Systematics: []schema.Systematic{
					{Name: "ht_reweight", Kind: schema.WeightKind, UpWeight: "w_up", DownWeight: "w_down"},
					{Name: "ps_model", Kind: schema.SampleKind, UpFiles: []string{"sigA_psup.parquet"}, DownFiles: []string{"sigA_psdown.parquet"}},
				},
			},
			{
				Name:      "ttbar",
				Selection: "nJets>=4",
				Files:     []string{"bkg.parquet"},
				Systematics: []schema.Systematic{
					{Name: "ht_reweight", Kind: schema.WeightKind, UpWeight: "w_up", DownWeight: "w_down"},
				},
			},
		},
	}
}

// TestRunWeightSystematic covers the end-to-end weight-kind scenario:
// nominal yield 4.0 over the two selected rows, up yield 6.0, down 2.0.
func TestRunWeightSystematic(t *testing.T) {
	ana := fixtureConfig(t)
	cfg := &contract.Config{Flavours: []string{"ttH_had"}, Systematics: []string{"ht_reweight"}}

	report, err := Run(cfg, ana, expreval.New(), expreval.NewSelectionRegistry(nil))
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	assert.Equal(t, "ttH_had", row.Flavour)
	assert.Equal(t, "ht_reweight", row.Systematic)
	assert.InDelta(t, 4.0, row.NominalYield, 1e-12)
	assert.InDelta(t, 6.0, row.SystYieldUp, 1e-12)
	assert.InDelta(t, 2.0, row.SystYieldDown, 1e-12)
	assert.InDelta(t, 1.5, row.RenormUp, 1e-12)
	assert.InDelta(t, 0.5, row.RenormDown, 1e-12)

	// Nominal plus two directions recorded as yields.
	require.Len(t, report.Yields, 3)
	assert.Equal(t, schema.NominalName, report.Yields[0].Systematic)
	assert.Equal(t, 2, report.Yields[0].EventCount)
}

// TestRunSampleSystematic covers the alternate-sample scenario: both
// directions scan disjoint files with the nominal weight.
func TestRunSampleSystematic(t *testing.T) {
	ana := fixtureConfig(t)
	cfg := &contract.Config{Flavours: []string{"ttH_had"}, Systematics: []string{"ps_model"}}

	report, err := Run(cfg, ana, expreval.New(), expreval.NewSelectionRegistry(nil))
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	assert.InDelta(t, 4.0, row.NominalYield, 1e-12)
	assert.InDelta(t, 5.0, row.SystYieldUp, 1e-12)
	assert.InDelta(t, 2.0, row.SystYieldDown, 1e-12)
	assert.InDelta(t, 1.25, row.RenormUp, 1e-12)
	assert.InDelta(t, 0.5, row.RenormDown, 1e-12)
}

// TestRunSampleSupplementalWeight multiplies the optional per-sample weight
// on top of the nominal weight.
func TestRunSampleSupplementalWeight(t *testing.T) {
	ana := fixtureConfig(t)
	sys, ok := ana.Flavours[0].Systematic("ps_model")
	require.True(t, ok)
	sys.UpWeight = "2"

	cfg := &contract.Config{Flavours: []string{"ttH_had"}, Systematics: []string{"ps_model"}}
	report, err := Run(cfg, ana, expreval.New(), expreval.NewSelectionRegistry(nil))
	require.NoError(t, err)

	row := report.Rows[0]
	assert.InDelta(t, 10.0, row.SystYieldUp, 1e-12) // 5.0 doubled
	assert.InDelta(t, 2.0, row.SystYieldDown, 1e-12)
}

// TestRunAllFlavours emits one row per (flavour, systematic) in config
// order.
func TestRunAllFlavours(t *testing.T) {
	ana := fixtureConfig(t)
	cfg := &contract.Config{}

	report, err := Run(cfg, ana, expreval.New(), expreval.NewSelectionRegistry(nil))
	require.NoError(t, err)
	require.Len(t, report.Rows, 3)
	assert.Equal(t, "ttH_had", report.Rows[0].Flavour)
	assert.Equal(t, "ht_reweight", report.Rows[0].Systematic)
	assert.Equal(t, "ttH_had", report.Rows[1].Flavour)
	assert.Equal(t, "ps_model", report.Rows[1].Systematic)
	assert.Equal(t, "ttbar", report.Rows[2].Flavour)
	assert.Equal(t, "ht_reweight", report.Rows[2].Systematic)
}

// TestRunFlavourFilter restricts output to the requested flavour only.
func TestRunFlavourFilter(t *testing.T) {
	ana := fixtureConfig(t)
	cfg := &contract.Config{Flavours: []string{"ttbar"}}

	report, err := Run(cfg, ana, expreval.New(), expreval.NewSelectionRegistry(nil))
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "ttbar", report.Rows[0].Flavour)
}

// TestRunParallelMatchesSequential regroups worker results to config order,
// so parallel and sequential reports are identical.
func TestRunParallelMatchesSequential(t *testing.T) {
	ana := fixtureConfig(t)

	seq, err := Run(&contract.Config{}, ana, expreval.New(), expreval.NewSelectionRegistry(nil))
	require.NoError(t, err)

	par, err := Run(&contract.Config{Parallel: true, Workers: 4}, ana, expreval.New(), expreval.NewSelectionRegistry(nil))
	require.NoError(t, err)

	assert.Equal(t, seq.Rows, par.Rows)
	assert.Equal(t, seq.Yields, par.Yields)
}

// TestRunExtraSelection ANDs the registered extra selection onto the
// flavour selection.
func TestRunExtraSelection(t *testing.T) {
	ana := fixtureConfig(t)
	ana.ExtraSelections = map[string]string{"tight": "nJets>=6"}
	ana.Flavours[0].ExtraSelection = "tight"

	registry := expreval.NewSelectionRegistry(ana.ExtraSelections)
	cfg := &contract.Config{Flavours: []string{"ttH_had"}, Systematics: []string{"ht_reweight"}}

	report, err := Run(cfg, ana, expreval.New(), registry)
	require.NoError(t, err)
	// Only the nJets==6 row survives.
	assert.InDelta(t, 3.0, report.Rows[0].NominalYield, 1e-12)
	assert.Equal(t, 1, report.Yields[0].EventCount)
}

// TestRunZeroNominal marks ratios undefined without failing the run.
func TestRunZeroNominal(t *testing.T) {
	ana := fixtureConfig(t)
	ana.Flavours[0].Selection = "nJets>=99"
	cfg := &contract.Config{Flavours: []string{"ttH_had"}, Systematics: []string{"ht_reweight"}}

	report, err := Run(cfg, ana, expreval.New(), expreval.NewSelectionRegistry(nil))
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Zero(t, report.Rows[0].NominalYield)
	assert.True(t, math.IsNaN(report.Rows[0].RenormUp))
	assert.True(t, math.IsNaN(report.Rows[0].RenormDown))
}

// TestRunMissingFileAborts propagates hard data errors with flavour context.
func TestRunMissingFileAborts(t *testing.T) {
	ana := fixtureConfig(t)
	ana.Flavours[0].Files = []string{"gone.parquet"}

	_, err := Run(&contract.Config{}, ana, expreval.New(), expreval.NewSelectionRegistry(nil))
	var mfe *contract.MissingFileError
	require.ErrorAs(t, err, &mfe)
	assert.Contains(t, err.Error(), "ttH_had")
}

// TestRunParallelErrorAborts surfaces a worker failure after the pool
// drains.
func TestRunParallelErrorAborts(t *testing.T) {
	ana := fixtureConfig(t)
	ana.Flavours[1].Files = []string{"gone.parquet"}

	_, err := Run(&contract.Config{Parallel: true, Workers: 2}, ana, expreval.New(), expreval.NewSelectionRegistry(nil))
	var mfe *contract.MissingFileError
	require.ErrorAs(t, err, &mfe)
}
