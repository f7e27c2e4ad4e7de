package models

import "encoding/json"

// Value is a single indicator sample that may be undefined when the series
// has not accumulated enough history. Undefined is a checked state, never a
// NaN flowing silently through arithmetic.
type Value struct {
	v  float64
	ok bool
}

// Defined wraps a concrete sample.
func Defined(v float64) Value { return Value{v: v, ok: true} }

// Undefined is the zero Value.
func Undefined() Value { return Value{} }

func (v Value) Defined() bool { return v.ok }

// Float64 returns the sample and whether it is defined.
func (v Value) Float64() (float64, bool) { return v.v, v.ok }

// Or returns the sample, or def when undefined.
func (v Value) Or(def float64) float64 {
	if v.ok {
		return v.v
	}
	return def
}

// MarshalJSON encodes a defined sample as a number and an undefined one as
// null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = Value{v: f, ok: true}
	return nil
}

// IndicatorFrame is the typed snapshot of every indicator at one index of a
// BarSeries. Fields are optional by construction: a Value is undefined until
// its window is filled. Recomputed from scratch on every evaluation, never
// persisted by the core.
type IndicatorFrame struct {
	MA5  Value `json:"ma5"`
	MA10 Value `json:"ma10"`
	MA20 Value `json:"ma20"`
	MA30 Value `json:"ma30"`

	EMA12 Value `json:"ema12"`
	EMA26 Value `json:"ema26"`

	BollMid   Value `json:"boll_mid"`
	BollUpper Value `json:"boll_upper"`
	BollLower Value `json:"boll_lower"`
	BollWidth Value `json:"boll_width"`
	PercentB  Value `json:"percent_b"`

	MACD       Value `json:"macd"`
	MACDSignal Value `json:"macd_signal"`
	MACDHist   Value `json:"macd_hist"`

	RSI Value `json:"rsi"`

	K Value `json:"k"`
	D Value `json:"d"`
	J Value `json:"j"`

	VolumeMA5   Value `json:"volume_ma5"`
	VolumeMA10  Value `json:"volume_ma10"`
	VolumeMA20  Value `json:"volume_ma20"`
	VolumeRatio Value `json:"volume_ratio"`

	Momentum5  Value `json:"momentum5"`
	Momentum10 Value `json:"momentum10"`
}
