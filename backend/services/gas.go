// ABOUTME: Gas mix resolution for bottom and decompression phases
// ABOUTME: Maps preset and custom selectors to fractions and labels each stop's gas

package services

import (
	"fmt"

	"github.com/arthurportas/tech-diving-app/backend/models"
)

var bottomGasPresets = []models.GasPreset{
	{Selector: models.BottomGasAir, Label: "Air", Mix: models.GasMix{O2: 0.21}},
	{Selector: models.BottomGasEAN28, Label: "EAN 28", Mix: models.GasMix{O2: 0.28}},
	{Selector: models.BottomGasEAN32, Label: "EAN 32", Mix: models.GasMix{O2: 0.32}},
	{Selector: models.BottomGasTrimix2135, Label: "Trimix 21/35", Mix: models.GasMix{O2: 0.21, He: 0.35}},
	{Selector: models.BottomGasTrimix1845, Label: "Trimix 18/45", Mix: models.GasMix{O2: 0.18, He: 0.45}},
}

var decoPolicies = []models.DecoPolicyInfo{
	{Policy: models.DecoGasNone, Description: "No gas switch, bottom gas for the whole dive"},
	{Policy: models.DecoGasOxygen, Description: "Pure oxygen at every stop"},
	{Policy: models.DecoGasNitrox, Description: "Nitrox at deco_o2_percent at every stop"},
	{Policy: models.DecoGasNitroxOxygen, Description: "Nitrox, switching to pure oxygen at 6 m and shallower"},
}

var pureOxygen = models.GasMix{O2: 1}

// GasCatalog returns the selectable bottom gases and deco policies.
func GasCatalog() models.GasCatalog {
	return models.GasCatalog{
		BottomGases:  append([]models.GasPreset(nil), bottomGasPresets...),
		DecoPolicies: append([]models.DecoPolicyInfo(nil), decoPolicies...),
	}
}

// GasMixResolver resolves the gas breathed at each point of the dive
type GasMixResolver struct {
	bottom        models.GasMix
	policy        string
	decoO2Percent float64
}

// NewGasMixResolver validates the gas selectors in params and returns a resolver.
func NewGasMixResolver(params models.DiveParameters) (*GasMixResolver, error) {
	bottom, err := ResolveBottomGas(params.BottomGas, params.CustomGas)
	if err != nil {
		return nil, err
	}

	switch params.DecoGas {
	case models.DecoGasNone, models.DecoGasOxygen:
	case models.DecoGasNitrox, models.DecoGasNitroxOxygen:
		if !validPercent(params.DecoO2Percent) {
			return nil, invalidParameter("deco_o2_percent", "must be in (0, 100], got %v", params.DecoO2Percent)
		}
	default:
		return nil, invalidConfiguration("deco_gas", params.DecoGas)
	}

	return &GasMixResolver{
		bottom:        bottom,
		policy:        params.DecoGas,
		decoO2Percent: params.DecoO2Percent,
	}, nil
}

// ResolveBottomGas maps a bottom gas selector to its mix.
func ResolveBottomGas(selector string, custom models.CustomGas) (models.GasMix, error) {
	for _, p := range bottomGasPresets {
		if p.Selector == selector {
			return p.Mix, nil
		}
	}
	if selector != models.BottomGasCustom {
		return models.GasMix{}, invalidConfiguration("bottom_gas", selector)
	}

	switch custom.Type {
	case models.CustomGasNitrox:
		if !validPercent(custom.O2Percent) {
			return models.GasMix{}, invalidParameter("custom_gas.o2_percent", "must be in (0, 100], got %v", custom.O2Percent)
		}
		return models.GasMix{O2: custom.O2Percent / 100}, nil
	case models.CustomGasTrimix:
		if !(custom.O2Percent > 0 && custom.HePercent >= 0 && custom.O2Percent+custom.HePercent <= 100) {
			return models.GasMix{}, invalidParameter("custom_gas", "O2 %v%% and He %v%% do not form a valid mix", custom.O2Percent, custom.HePercent)
		}
		return models.GasMix{O2: custom.O2Percent / 100, He: custom.HePercent / 100}, nil
	default:
		return models.GasMix{}, invalidConfiguration("custom_gas.type", custom.Type)
	}
}

// validPercent reports whether v is in (0, 100]. NaN is rejected.
func validPercent(v float64) bool {
	return v > 0 && v <= 100
}

// Bottom returns the bottom gas mix.
func (r *GasMixResolver) Bottom() models.GasMix {
	return r.bottom
}

// SwitchesGas reports whether stops use a dedicated deco gas.
func (r *GasMixResolver) SwitchesGas() bool {
	return r.policy != models.DecoGasNone
}

// DecoGasAt returns the gas breathed at a stop or pass-through at depth.
func (r *GasMixResolver) DecoGasAt(depth float64) models.GasMix {
	switch r.policy {
	case models.DecoGasNone:
		return r.bottom
	case models.DecoGasOxygen:
		return pureOxygen
	case models.DecoGasNitroxOxygen:
		if depth <= models.OxygenSwitchDepth {
			return pureOxygen
		}
	}
	return models.GasMix{O2: r.decoO2Percent / 100}
}

// BottomLabel returns the display label of the bottom gas.
func (r *GasMixResolver) BottomLabel() string {
	return mixLabel(r.bottom)
}

// LabelAt returns the display label of the gas breathed at a stop at depth.
func (r *GasMixResolver) LabelAt(depth float64) string {
	if !r.SwitchesGas() {
		return mixLabel(r.bottom)
	}
	if r.DecoGasAt(depth).N2() == 0 {
		return "O₂"
	}
	return fmt.Sprintf("EAN %v", r.decoO2Percent)
}

func mixLabel(mix models.GasMix) string {
	o2, he := mix.Percent()
	switch {
	case mix.He > 0:
		return fmt.Sprintf("Trimix %d/%d", o2, he)
	case mix.O2 == 0.21:
		return "Air"
	default:
		return fmt.Sprintf("EAN %d", o2)
	}
}
