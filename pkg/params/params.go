// Package params defines the generation parameters sent with every chat
// request and the ranges the controls enforce.
package params

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parameter ranges enforced by the controls.
const (
	MinTemperature = 0.0
	MaxTemperature = 1.0

	MinMaxOutputTokens = 1
	MaxMaxOutputTokens = 2000

	MinTopP = 0.0
	MaxTopP = 1.0

	MinTopK = 1
	MaxTopK = 100
)

// Field names a single generation parameter.
type Field string

const (
	Temperature     Field = "temperature"
	MaxOutputTokens Field = "max_output_tokens"
	TopP            Field = "top_p"
	TopK            Field = "top_k"
)

// Fields lists the parameters in display order.
var Fields = []Field{Temperature, MaxOutputTokens, TopP, TopK}

// aliases maps user-facing short names to fields.
var aliases = map[string]Field{
	"temperature":       Temperature,
	"temp":              Temperature,
	"max_output_tokens": MaxOutputTokens,
	"max_length":        MaxOutputTokens,
	"max":               MaxOutputTokens,
	"top_p":             TopP,
	"topp":              TopP,
	"top_k":             TopK,
	"topk":              TopK,
}

// ErrUnknownField is returned when a parameter name is not recognized.
var ErrUnknownField = errors.New("params: unknown parameter")

// Parameters holds the sampling settings for a single generation call.
type Parameters struct {
	Temperature     float64 `json:"temperature" yaml:"temperature"`
	MaxOutputTokens int     `json:"max_output_tokens" yaml:"max_output_tokens"`
	TopP            float64 `json:"top_p" yaml:"top_p"`
	TopK            int     `json:"top_k" yaml:"top_k"`
}

// Defaults returns the parameters a fresh session starts with.
func Defaults() Parameters {
	return Parameters{
		Temperature:     0.7,
		MaxOutputTokens: 100,
		TopP:            0.9,
		TopK:            50,
	}
}

// Clamp returns a copy of p with every field forced into its range.
// Fractional fields are rounded to two decimals.
func (p Parameters) Clamp() Parameters {
	return Parameters{
		Temperature:     round2(clampFloat(p.Temperature, MinTemperature, MaxTemperature)),
		MaxOutputTokens: clampInt(p.MaxOutputTokens, MinMaxOutputTokens, MaxMaxOutputTokens),
		TopP:            round2(clampFloat(p.TopP, MinTopP, MaxTopP)),
		TopK:            clampInt(p.TopK, MinTopK, MaxTopK),
	}
}

// Validate reports the first field that lies outside its range.
func (p Parameters) Validate() error {
	switch {
	case math.IsNaN(p.Temperature) || p.Temperature < MinTemperature || p.Temperature > MaxTemperature:
		return fmt.Errorf("params: temperature %v out of range [%v, %v]", p.Temperature, MinTemperature, MaxTemperature)
	case p.MaxOutputTokens < MinMaxOutputTokens || p.MaxOutputTokens > MaxMaxOutputTokens:
		return fmt.Errorf("params: max_output_tokens %d out of range [%d, %d]", p.MaxOutputTokens, MinMaxOutputTokens, MaxMaxOutputTokens)
	case math.IsNaN(p.TopP) || p.TopP < MinTopP || p.TopP > MaxTopP:
		return fmt.Errorf("params: top_p %v out of range [%v, %v]", p.TopP, MinTopP, MaxTopP)
	case p.TopK < MinTopK || p.TopK > MaxTopK:
		return fmt.Errorf("params: top_k %d out of range [%d, %d]", p.TopK, MinTopK, MaxTopK)
	}
	return nil
}

// ParseField resolves a user-supplied parameter name, accepting short
// aliases such as "temp" or "topk".
func ParseField(name string) (Field, error) {
	f, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownField, name)
	}
	return f, nil
}

// Set parses value and assigns it to the named field. The result is clamped
// into range, the way a bounded control would.
func (p Parameters) Set(name, value string) (Parameters, error) {
	f, err := ParseField(name)
	if err != nil {
		return p, err
	}

	value = strings.TrimSpace(value)

	switch f {
	case Temperature, TopP:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(v) {
			return p, fmt.Errorf("params: %s: invalid number %q", f, value)
		}
		if f == Temperature {
			p.Temperature = v
		} else {
			p.TopP = v
		}
	case MaxOutputTokens, TopK:
		v, err := strconv.Atoi(value)
		if err != nil {
			return p, fmt.Errorf("params: %s: invalid integer %q", f, value)
		}
		if f == MaxOutputTokens {
			p.MaxOutputTokens = v
		} else {
			p.TopK = v
		}
	}

	return p.Clamp(), nil
}

// Step moves the named field by delta steps of its control increment and
// clamps the result.
func (p Parameters) Step(f Field, delta int) Parameters {
	switch f {
	case Temperature:
		p.Temperature += float64(delta) * StepSize(f)
	case MaxOutputTokens:
		p.MaxOutputTokens += delta * int(StepSize(f))
	case TopP:
		p.TopP += float64(delta) * StepSize(f)
	case TopK:
		p.TopK += delta * int(StepSize(f))
	}
	return p.Clamp()
}

// StepSize returns the control increment for a field.
func StepSize(f Field) float64 {
	switch f {
	case Temperature, TopP:
		return 0.1
	case MaxOutputTokens:
		return 10
	default:
		return 1
	}
}

// Value returns the field formatted for display.
func (p Parameters) Value(f Field) string {
	switch f {
	case Temperature:
		return strconv.FormatFloat(p.Temperature, 'f', -1, 64)
	case MaxOutputTokens:
		return strconv.Itoa(p.MaxOutputTokens)
	case TopP:
		return strconv.FormatFloat(p.TopP, 'f', -1, 64)
	case TopK:
		return strconv.Itoa(p.TopK)
	}
	return ""
}

// Fraction returns where the field sits within its range, from 0 to 1.
func (p Parameters) Fraction(f Field) float64 {
	switch f {
	case Temperature:
		return (p.Temperature - MinTemperature) / (MaxTemperature - MinTemperature)
	case MaxOutputTokens:
		return float64(p.MaxOutputTokens-MinMaxOutputTokens) / float64(MaxMaxOutputTokens-MinMaxOutputTokens)
	case TopP:
		return (p.TopP - MinTopP) / (MaxTopP - MinTopP)
	case TopK:
		return float64(p.TopK-MinTopK) / float64(MaxTopK-MinTopK)
	}
	return 0
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
