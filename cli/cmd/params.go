// ABOUTME: Dive parameter flags shared by the planning commands
// ABOUTME: Resolves a plan file, flag overrides, and unit conversion into metric parameters

package cmd

import (
	"errors"
	"math"

	"github.com/spf13/cobra"

	"github.com/arthurportas/tech-diving-app/backend/models"
	"github.com/arthurportas/tech-diving-app/backend/services"
	"github.com/arthurportas/tech-diving-app/cli/internal/diveplan"
	"github.com/arthurportas/tech-diving-app/cli/internal/units"
)

// paramFlags holds the raw flag values for one command. Only flags the user
// set override the plan file or the planner defaults.
type paramFlags struct {
	file string

	depth       float64
	bottomTime  float64
	descentRate float64

	bottomGas  string
	customType string
	customO2   float64
	customHe   float64

	gfLow  float64
	gfHigh float64

	decoGas string
	decoO2  float64

	ascentMode       string
	ascentRate       float64
	deepAscentRate   float64
	shallowRate      float64
	shallowThreshold float64
	lastStop         int
}

func addParamFlags(cmd *cobra.Command, f *paramFlags) {
	d := models.DefaultDiveParameters()
	fl := cmd.Flags()

	fl.StringVarP(&f.file, "file", "f", "", "YAML dive plan file")

	fl.Float64VarP(&f.depth, "depth", "d", 0, "Bottom depth")
	fl.Float64VarP(&f.bottomTime, "time", "t", 0, "Bottom time in minutes")
	fl.Float64Var(&f.descentRate, "descent-rate", d.DescentRate, "Descent rate per minute")

	fl.StringVarP(&f.bottomGas, "gas", "g", d.BottomGas, "Bottom gas: air, ean28, ean32, trimix-21/35, trimix-18/45, custom")
	fl.StringVar(&f.customType, "custom-type", d.CustomGas.Type, "Custom gas type: nitrox or trimix")
	fl.Float64Var(&f.customO2, "custom-o2", d.CustomGas.O2Percent, "Custom gas O2 percent")
	fl.Float64Var(&f.customHe, "custom-he", d.CustomGas.HePercent, "Custom gas He percent (trimix)")

	fl.Float64Var(&f.gfLow, "gf-low", d.GFLow*100, "Gradient factor low, percent")
	fl.Float64Var(&f.gfHigh, "gf-high", d.GFHigh*100, "Gradient factor high, percent")

	fl.StringVar(&f.decoGas, "deco-gas", d.DecoGas, "Deco gas policy: none, oxygen, nitrox, nitrox-oxygen")
	fl.Float64Var(&f.decoO2, "deco-o2", d.DecoO2Percent, "Deco nitrox O2 percent")

	fl.StringVar(&f.ascentMode, "ascent-mode", d.Ascent.Mode, "Ascent mode: flat or banded")
	fl.Float64Var(&f.ascentRate, "ascent-rate", d.Ascent.Rate, "Flat ascent rate per minute")
	fl.Float64Var(&f.deepAscentRate, "deep-ascent-rate", d.Ascent.DeepRate, "Banded ascent rate below the shallow threshold")
	fl.Float64Var(&f.shallowRate, "shallow-ascent-rate", d.Ascent.ShallowRate, "Banded ascent rate at or above the shallow threshold")
	fl.Float64Var(&f.shallowThreshold, "shallow-threshold", d.Ascent.ShallowThreshold, "Depth where the banded ascent slows down")
	fl.IntVar(&f.lastStop, "last-stop", d.LastStopDepth, "Shallowest stop depth, 0 to surface directly")
}

// resolve builds metric dive parameters. Depth and rate flags are read in
// sys units. The returned name comes from the plan file, if any.
func (f *paramFlags) resolve(cmd *cobra.Command, sys units.System) (models.DiveParameters, string, error) {
	params := models.DefaultDiveParameters()
	name := ""

	if f.file != "" {
		plan, err := diveplan.Load(f.file)
		if err != nil {
			return params, "", err
		}
		if params, err = plan.Metric(); err != nil {
			return params, "", err
		}
		name = plan.Name
	} else if !cmd.Flags().Changed("depth") || !cmd.Flags().Changed("time") {
		return params, "", errors.New("--depth and --time are required unless --file is given")
	}

	f.apply(cmd, sys, &params)

	if err := services.ValidateDiveParameters(params); err != nil {
		return params, name, err
	}
	return params, name, nil
}

func (f *paramFlags) apply(cmd *cobra.Command, sys units.System, p *models.DiveParameters) {
	changed := cmd.Flags().Changed
	length := func(flag string, v float64, dst *float64) {
		if changed(flag) {
			*dst = sys.ToMetres(v)
		}
	}
	value := func(flag string, v float64, dst *float64) {
		if changed(flag) {
			*dst = v
		}
	}
	text := func(flag, v string, dst *string) {
		if changed(flag) {
			*dst = v
		}
	}

	length("depth", f.depth, &p.Depth)
	value("time", f.bottomTime, &p.BottomTime)
	length("descent-rate", f.descentRate, &p.DescentRate)

	text("gas", f.bottomGas, &p.BottomGas)
	text("custom-type", f.customType, &p.CustomGas.Type)
	value("custom-o2", f.customO2, &p.CustomGas.O2Percent)
	value("custom-he", f.customHe, &p.CustomGas.HePercent)

	if changed("gf-low") {
		p.GFLow = f.gfLow / 100
	}
	if changed("gf-high") {
		p.GFHigh = f.gfHigh / 100
	}

	text("deco-gas", f.decoGas, &p.DecoGas)
	value("deco-o2", f.decoO2, &p.DecoO2Percent)

	text("ascent-mode", f.ascentMode, &p.Ascent.Mode)
	length("ascent-rate", f.ascentRate, &p.Ascent.Rate)
	length("deep-ascent-rate", f.deepAscentRate, &p.Ascent.DeepRate)
	length("shallow-ascent-rate", f.shallowRate, &p.Ascent.ShallowRate)
	length("shallow-threshold", f.shallowThreshold, &p.Ascent.ShallowThreshold)
	if changed("last-stop") {
		p.LastStopDepth = int(math.Round(sys.ToMetres(float64(f.lastStop))))
	}
}
