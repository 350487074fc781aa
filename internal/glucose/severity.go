package glucose

// Thresholds in mmol/L.
const (
	CriticalHighMmol = 13.9
	HighMmol         = 10.0
	LowMmol          = 3.9
	CriticalLowMmol  = 3.0
)

type Severity int

const (
	SeverityNormal Severity = iota
	SeverityLow
	SeverityHigh
	SeverityCriticalLow
	SeverityCriticalHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityHigh:
		return "high"
	case SeverityCriticalLow:
		return "critical low"
	case SeverityCriticalHigh:
		return "critical high"
	}
	return "normal"
}

func (s Severity) Critical() bool {
	return s == SeverityCriticalLow || s == SeverityCriticalHigh
}

// Color is the display color used for glucoseLevel details.
func (s Severity) Color() string {
	switch s {
	case SeverityCriticalLow, SeverityCriticalHigh:
		return "red"
	case SeverityLow, SeverityHigh:
		return "orange"
	}
	return "green"
}

// Classify maps a value in mmol/L to its severity. Critical bounds are
// checked first.
func Classify(mmol float64) Severity {
	switch {
	case mmol >= CriticalHighMmol:
		return SeverityCriticalHigh
	case mmol <= CriticalLowMmol:
		return SeverityCriticalLow
	case mmol >= HighMmol:
		return SeverityHigh
	case mmol <= LowMmol:
		return SeverityLow
	}
	return SeverityNormal
}
