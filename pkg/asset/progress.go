package asset

import (
	"fmt"
	"io"
)

// Progress reports how much of the model file has been read
type Progress struct {
	Loaded int64
	Total  int64 // 0 when the size is unknown
}

// Fraction returns Loaded/Total, or 0 when the total is unknown
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Loaded) / float64(p.Total)
}

// Percent formats the progress with two decimals, e.g. "42.50%"
func (p Progress) Percent() string {
	return fmt.Sprintf("%.2f%%", p.Fraction()*100)
}

// progressReader calls report after every read that returned data
type progressReader struct {
	r        io.Reader
	progress Progress
	report   func(Progress)
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.progress.Loaded += int64(n)
		if pr.report != nil {
			pr.report(pr.progress)
		}
	}
	return n, err
}
