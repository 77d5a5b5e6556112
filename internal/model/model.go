package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Sample is one instant-vector observation returned by the source query API.
// Labels include the reserved "__name__" label carrying the metric name.
type Sample struct {
	Labels map[string]string `json:"metric" yaml:"metric"`
	Value  SamplePair        `json:"value" yaml:"value"`
}

// SamplePair is the wire pair [<timestamp>, "<value>"]. The value stays a
// string because the source API encodes every value as a string and not all
// of them parse as numbers.
type SamplePair struct {
	Timestamp float64
	Value     string
}

func (p *SamplePair) UnmarshalJSON(b []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[0], &p.Timestamp); err != nil {
		return fmt.Errorf("invalid sample timestamp: %w", err)
	}
	if err := json.Unmarshal(raw[1], &p.Value); err != nil {
		return fmt.Errorf("invalid sample value: %w", err)
	}
	return nil
}

func (p SamplePair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{p.Timestamp, p.Value})
}

func (p SamplePair) MarshalYAML() (interface{}, error) {
	return []interface{}{p.Timestamp, p.Value}, nil
}

// QueryResult holds the samples returned for one configured metric name.
type QueryResult struct {
	Query   string   `json:"query" yaml:"query"`
	Samples []Sample `json:"result" yaml:"result"`
}

// Record is one metric data item in the destination upload format.
type Record struct {
	MetricName string     `json:"MetricName" yaml:"MetricName"`
	Dimensions Dimensions `json:"Dimensions" yaml:"Dimensions"`
	Timestamp  float64    `json:"Timestamp" yaml:"Timestamp"`
	Value      Value      `json:"Value" yaml:"Value"`
	Unit       string     `json:"Unit" yaml:"Unit"`
}

type Dimensions []Dimension

type Dimension struct {
	Name  string `json:"Name" yaml:"Name"`
	Value string `json:"Value" yaml:"Value"`
}

// Value is a metric value that may or may not be numeric. Non-numeric
// values survive translation unchanged and are only rejected at upload
// time, since the destination API accepts numbers exclusively.
type Value struct {
	Raw     string
	Float   float64
	Numeric bool
}

func ParseValue(s string) Value {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{Raw: s}
	}
	return Value{Raw: s, Float: f, Numeric: true}
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.Numeric {
		return json.Marshal(v.Float)
	}
	return json.Marshal(v.Raw)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*v = Value{Raw: strconv.FormatFloat(f, 'f', -1, 64), Float: f, Numeric: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*v = Value{Raw: s}
	return nil
}

func (v Value) MarshalYAML() (interface{}, error) {
	if v.Numeric {
		return v.Float, nil
	}
	return v.Raw, nil
}
