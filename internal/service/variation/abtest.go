// internal/service/variation/abtest.go

package variation

import (
	"errors"
	"fmt"
	"sort"

	"resonance/internal/domain/optimization"
)

// DefaultABTestSize is the number of variants picked when n is not positive
const DefaultABTestSize = 3

// ErrUnknownMetric is returned for metrics without an associated variation set
var ErrUnknownMetric = errors.New("unknown metric")

// metricTypes lists the variation types that move each metric
var metricTypes = map[optimization.Metric][]optimization.VariationType{
	optimization.MetricEngagement: {
		optimization.VariationHook,
		optimization.VariationHeadline,
		optimization.VariationCallToAction,
		optimization.VariationTone,
	},
	optimization.MetricConversion: {
		optimization.VariationCallToAction,
		optimization.VariationAudienceTargeting,
		optimization.VariationHeadline,
	},
	optimization.MetricReach: {
		optimization.VariationPlatformAdaptation,
		optimization.VariationLength,
		optimization.VariationStructure,
		optimization.VariationHook,
	},
	optimization.MetricViral: {
		optimization.VariationHook,
		optimization.VariationHeadline,
		optimization.VariationTone,
	},
}

// SelectABTest picks up to n variations suited to the metric, best expected improvement first,
// with the original text as control
func SelectABTest(variations []optimization.Variation, metric optimization.Metric, n int) (*optimization.ABTestPlan, error) {
	if metric == "" {
		metric = optimization.MetricEngagement
	}
	types, ok := metricTypes[metric]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, metric)
	}
	if n <= 0 {
		n = DefaultABTestSize
	}

	allowed := make(map[optimization.VariationType]bool, len(types))
	for _, t := range types {
		allowed[t] = true
	}

	plan := &optimization.ABTestPlan{Metric: metric, Variants: []optimization.Variation{}}
	var candidates []optimization.Variation
	for _, v := range variations {
		if plan.Control == "" {
			plan.Control = v.Original
		}
		if allowed[v.Type] {
			candidates = append(candidates, v)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.ExpectedImprovement != b.ExpectedImprovement {
			return a.ExpectedImprovement > b.ExpectedImprovement
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.Strategy < b.Strategy
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	plan.Variants = append(plan.Variants, candidates...)

	return plan, nil
}
