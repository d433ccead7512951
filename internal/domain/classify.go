package domain

import (
	"fmt"
	"strings"
)

// Policy names a net-change classification table.
type Policy string

const (
	// PolicyFine is the seven-band table of the single-beach dashboard.
	PolicyFine Policy = "fine"
	// PolicyCoarse is the five-band table of the comparison dashboard.
	PolicyCoarse Policy = "coarse"
)

// ParsePolicy accepts "fine" or "coarse" (case-insensitive).
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyFine:
		return PolicyFine, nil
	case PolicyCoarse:
		return PolicyCoarse, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Direction is the sign of a classification.
type Direction string

const (
	DirectionErosion   Direction = "erosion"
	DirectionStable    Direction = "stable"
	DirectionAccretion Direction = "accretion"
)

// Classification labels.
const (
	LabelSevereErosion     = "Severe Erosion"
	LabelModerateErosion   = "Moderate Erosion"
	LabelMildErosion       = "Mild Erosion"
	LabelStable            = "Stable"
	LabelStableShoreline   = "Stable Shoreline"
	LabelMildAccretion     = "Mild Accretion"
	LabelModerateAccretion = "Moderate Accretion"
	LabelStrongAccretion   = "Strong Accretion"
)

// Classification is one row of a policy's reference table.
type Classification struct {
	Label          string    `json:"label"`
	Direction      Direction `json:"direction"`
	Range          string    `json:"range"`
	Interpretation string    `json:"interpretation"`
}

var fineTable = []Classification{
	{LabelSevereErosion, DirectionErosion, "<= -1.0", "High shoreline retreat"},
	{LabelModerateErosion, DirectionErosion, "-1.0 to -0.5", "Significant erosion"},
	{LabelMildErosion, DirectionErosion, "-0.5 to -0.1", "Low erosion"},
	{LabelStable, DirectionStable, "-0.1 to +0.1", "No significant change"},
	{LabelMildAccretion, DirectionAccretion, "+0.1 to +0.5", "Slight land gain"},
	{LabelModerateAccretion, DirectionAccretion, "+0.5 to +1.0", "Noticeable land gain"},
	{LabelStrongAccretion, DirectionAccretion, "> +1.0", "High shoreline advancement"},
}

var coarseTable = []Classification{
	{LabelSevereErosion, DirectionErosion, "<= -1.0", "High shoreline retreat"},
	{LabelModerateErosion, DirectionErosion, "-1.0 to -0.5", "Significant erosion"},
	{LabelStableShoreline, DirectionStable, "-0.5 to +0.1", "No significant change"},
	{LabelModerateAccretion, DirectionAccretion, "+0.1 to +0.5", "Noticeable land gain"},
	{LabelStrongAccretion, DirectionAccretion, "> +0.5", "High shoreline advancement"},
}

// Reference returns the policy's classification table, most erosive first.
func (p Policy) Reference() []Classification {
	var table []Classification
	if p == PolicyFine {
		table = fineTable
	} else {
		table = coarseTable
	}
	out := make([]Classification, len(table))
	copy(out, table)
	return out
}

// Classify maps a net change in meters to a label. Band edges:
//   - fine:   <=-1.0 | (-1.0,-0.5) | [-0.5,-0.1) | [-0.1,0.1] | (0.1,0.5] | (0.5,1.0] | >1.0
//   - coarse: <=-1.0 | (-1.0,-0.5) | [-0.5,0.1] | (0.1,0.5] | >0.5
func (p Policy) Classify(netChange float64) Classification {
	if p == PolicyFine {
		return fineTable[fineBand(netChange)]
	}
	return coarseTable[coarseBand(netChange)]
}

func fineBand(v float64) int {
	switch {
	case v <= -1.0:
		return 0
	case v < -0.5:
		return 1
	case v < -0.1:
		return 2
	case v <= 0.1:
		return 3
	case v <= 0.5:
		return 4
	case v <= 1.0:
		return 5
	default:
		return 6
	}
}

func coarseBand(v float64) int {
	switch {
	case v <= -1.0:
		return 0
	case v < -0.5:
		return 1
	case v <= 0.1:
		return 2
	case v <= 0.5:
		return 3
	default:
		return 4
	}
}

const (
	interpretationErosion = "The tidally normalized shoreline shows a landward shift over time, " +
		"indicating erosion. Continued monitoring and mitigation strategies are recommended."
	interpretationStable = "The shoreline shows stability or seaward advancement, suggesting " +
		"lower erosion risk under current conditions."
)

// Interpret returns the narrative shown alongside a beach's metrics.
func Interpret(netChange float64) string {
	if netChange < 0 {
		return interpretationErosion
	}
	return interpretationStable
}
