package models

import (
	"encoding/json"
	"testing"
	"time"
)

func day(n int) time.Time {
	return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC)
}

func TestValueJSONNullRoundTrip(t *testing.T) {
	type wrap struct {
		RSI Value `json:"rsi"`
		MA  Value `json:"ma"`
	}

	b, err := json.Marshal(wrap{RSI: Defined(67.5)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"rsi":67.5,"ma":null}` {
		t.Fatalf("encoding: %s", b)
	}

	var out wrap
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, ok := out.RSI.Float64(); !ok || v != 67.5 {
		t.Fatalf("rsi after round trip: %v %v", v, ok)
	}
	if out.MA.Defined() {
		t.Fatalf("null must decode as undefined")
	}
}

func TestValueOr(t *testing.T) {
	if got := Undefined().Or(50); got != 50 {
		t.Fatalf("undefined Or: got %v, want 50", got)
	}
	if got := Defined(72).Or(50); got != 72 {
		t.Fatalf("defined Or: got %v, want 72", got)
	}
}

func TestSeriesValidate(t *testing.T) {
	good := &BarSeries{Symbol: "OK", Bars: []PriceBar{
		{Date: day(1), Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 1, Amount: 1},
		{Date: day(2), Open: 10.5, High: 11, Low: 10, Close: 11, Volume: 1, Amount: 1},
	}}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid series rejected: %v", err)
	}

	dup := &BarSeries{Symbol: "DUP", Bars: []PriceBar{
		{Date: day(1), Open: 10, High: 10, Low: 10, Close: 10},
		{Date: day(1), Open: 10, High: 10, Low: 10, Close: 10},
	}}
	if err := dup.Validate(); !IsIntegrityError(err) {
		t.Fatalf("duplicate dates: got %v, want IntegrityError", err)
	}

	broken := &BarSeries{Symbol: "BRK", Bars: []PriceBar{
		{Date: day(1), Open: 10, High: 9, Low: 8, Close: 10},
	}}
	if err := broken.Validate(); !IsIntegrityError(err) {
		t.Fatalf("high below open: got %v, want IntegrityError", err)
	}
}
