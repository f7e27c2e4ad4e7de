package http

import (
	"time"

	xutil "StockRadar/pkg/util"
)

// ParseIntDefault parses s as an int, falling back to def.
func ParseIntDefault(s string, def int) int { return xutil.ParseIntDefault(s, def) }

// ParseTime accepts the formats xutil.ParseTime accepts.
func ParseTime(s string) (time.Time, bool) { return xutil.ParseTime(s) }

// ParseTimeDefault parses s as a time, falling back to def.
func ParseTimeDefault(s string, def time.Time) time.Time { return xutil.ParseTimeDefault(s, def) }
