package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// TurnaroundSample holds TAT values in days, nulls already excluded
type TurnaroundSample []float64

// CategoryCount is one label of a categorical breakdown
type CategoryCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Breakdown maps labels to counts in descending-frequency order.
// It serializes as a JSON object whose key order is the slice order.
type Breakdown []CategoryCount

// Get returns the count for label, 0 when absent.
func (b Breakdown) Get(label string) int {
	for _, c := range b {
		if c.Label == label {
			return c.Count
		}
	}
	return 0
}

// Sum returns the total of all counts.
func (b Breakdown) Sum() int {
	total := 0
	for _, c := range b {
		total += c.Count
	}
	return total
}

func (b Breakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(c.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (b *Breakdown) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*b = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("breakdown: expected object, got %v", tok)
	}

	var out Breakdown
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("breakdown: expected label, got %v", tok)
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("breakdown %q: %w", label, err)
		}
		out = append(out, CategoryCount{Label: label, Count: count})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*b = out
	return nil
}

// TatDistribution is the fixed 4-bucket histogram of a TAT sample.
// Bucket bounds are exclusive below, inclusive above; the first bucket
// also takes zero and negative values.
type TatDistribution struct {
	UpToOneDay     int `json:"upToOneDay"`     // <= 1
	OneToTwoDays   int `json:"oneToTwoDays"`   // (1, 2]
	TwoToThreeDays int `json:"twoToThreeDays"` // (2, 3]
	OverThreeDays  int `json:"overThreeDays"`  // > 3
}

// Counts returns the buckets in ascending order.
func (d TatDistribution) Counts() [4]int {
	return [4]int{d.UpToOneDay, d.OneToTwoDays, d.TwoToThreeDays, d.OverThreeDays}
}

// Total returns the number of samples bucketed.
func (d TatDistribution) Total() int {
	return d.UpToOneDay + d.OneToTwoDays + d.TwoToThreeDays + d.OverThreeDays
}

// Labeled renders the buckets as an ordered breakdown.
func (d TatDistribution) Labeled(labels [4]string) Breakdown {
	counts := d.Counts()
	out := make(Breakdown, len(counts))
	for i, n := range counts {
		out[i] = CategoryCount{Label: labels[i], Count: n}
	}
	return out
}

// TatStats are the summary statistics of a non-empty sample
type TatStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// NamedBreakdown is a breakdown under its output key
type NamedBreakdown struct {
	Key    string
	Values Breakdown
}

// TatSummary is the rounded TAT block of a stage
type TatSummary struct {
	Avg               float64
	Median            float64
	Max               float64
	Min               float64
	SameDayPercentage float64
	Distribution      Breakdown
}

// StageSummary is the aggregated report of one stage.
type StageSummary struct {
	Total          int
	TAT            *TatSummary // nil for stages without TAT
	Breakdowns     []NamedBreakdown
	ConversionRate *float64
}

// Breakdown returns the named breakdown, nil when absent.
func (s StageSummary) Breakdown(key string) Breakdown {
	for _, nb := range s.Breakdowns {
		if nb.Key == key {
			return nb.Values
		}
	}
	return nil
}

const (
	keyTotal          = "total"
	keyAvgTAT         = "avg_tat"
	keyMedianTAT      = "median_tat"
	keyMaxTAT         = "max_tat"
	keyMinTAT         = "min_tat"
	keySameDay        = "same_day_percentage"
	keyConversionRate = "conversion_rate"
	keyDistribution   = "tat_distribution"
)

// MarshalJSON writes the stage block with a stable key order:
// total, TAT statistics, breakdowns, conversion rate, distribution.
func (s StageSummary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, v interface{}) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(raw)
		return nil
	}

	if err := write(keyTotal, s.Total); err != nil {
		return nil, err
	}
	if s.TAT != nil {
		stats := []struct {
			key string
			v   float64
		}{
			{keyAvgTAT, s.TAT.Avg},
			{keyMedianTAT, s.TAT.Median},
			{keyMaxTAT, s.TAT.Max},
			{keyMinTAT, s.TAT.Min},
			{keySameDay, s.TAT.SameDayPercentage},
		}
		for _, st := range stats {
			if err := write(st.key, st.v); err != nil {
				return nil, err
			}
		}
	}
	for _, nb := range s.Breakdowns {
		if err := write(nb.Key, nb.Values); err != nil {
			return nil, err
		}
	}
	if s.ConversionRate != nil {
		if err := write(keyConversionRate, *s.ConversionRate); err != nil {
			return nil, err
		}
	}
	if s.TAT != nil {
		if err := write(keyDistribution, s.TAT.Distribution); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON is the inverse of MarshalJSON; unknown object keys are
// read back as breakdowns in document order.
func (s *StageSummary) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("stage summary: expected object, got %v", tok)
	}

	var out StageSummary
	tat := func() *TatSummary {
		if out.TAT == nil {
			out.TAT = &TatSummary{}
		}
		return out.TAT
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("stage summary: expected key, got %v", tok)
		}

		var target interface{}
		switch key {
		case keyTotal:
			target = &out.Total
		case keyAvgTAT:
			target = &tat().Avg
		case keyMedianTAT:
			target = &tat().Median
		case keyMaxTAT:
			target = &tat().Max
		case keyMinTAT:
			target = &tat().Min
		case keySameDay:
			target = &tat().SameDayPercentage
		case keyDistribution:
			target = &tat().Distribution
		case keyConversionRate:
			out.ConversionRate = new(float64)
			target = out.ConversionRate
		default:
			out.Breakdowns = append(out.Breakdowns, NamedBreakdown{Key: key})
			target = &out.Breakdowns[len(out.Breakdowns)-1].Values
		}
		if err := dec.Decode(target); err != nil {
			return fmt.Errorf("stage summary %q: %w", key, err)
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}
