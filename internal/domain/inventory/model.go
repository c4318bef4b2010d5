package inventory

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/carehub/portal/pkg/caldate"
)

var ErrNotFound = errors.New("inventory item not found")

type Item struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Category      string       `json:"category"`
	Quantity      int          `json:"quantity"`
	Unit          string       `json:"unit"`
	Threshold     int          `json:"threshold"`
	LastRestocked caldate.Date `json:"last_restocked"`
	ExpiryDate    caldate.Date `json:"expiry_date"`
}

// IsLow reports quantity at or below the restock threshold.
func (i *Item) IsLow() bool { return i.Quantity <= i.Threshold }

// Ratio is quantity over threshold. A zero threshold ranks below every
// other item.
func (i *Item) Ratio() float64 {
	if i.Threshold == 0 {
		return math.Inf(-1)
	}
	return float64(i.Quantity) / float64(i.Threshold)
}

type Level string

const (
	LevelOK       Level = "ok"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// Level is critical at half the threshold or less, warning up to the
// threshold.
func (i *Item) Level() Level {
	switch {
	case !i.IsLow():
		return LevelOK
	case 2*i.Quantity <= i.Threshold:
		return LevelCritical
	}
	return LevelWarning
}

func (i *Item) StatusLabel() string {
	if i.IsLow() {
		return "Low Stock"
	}
	return "In Stock"
}

// FillPercent is the stock gauge, capped at 100.
func (i *Item) FillPercent() float64 {
	if i.Threshold <= 0 {
		return 0
	}
	return math.Min(100, float64(i.Quantity)/float64(i.Threshold)*100)
}

// SortByRatio returns a copy ordered by ascending Ratio. Equal ratios
// keep their input order.
func SortByRatio(items []*Item) []*Item {
	out := make([]*Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Ratio() < out[b].Ratio()
	})
	return out
}

// LowStockSorted keeps low-stock items, most depleted first.
func LowStockSorted(items []*Item) []*Item {
	low := []*Item{}
	for _, it := range items {
		if it.IsLow() {
			low = append(low, it)
		}
	}
	return SortByRatio(low)
}

func CountCritical(items []*Item) int {
	n := 0
	for _, it := range items {
		if it.Level() == LevelCritical {
			n++
		}
	}
	return n
}

type StockFilter string

const (
	StockAll    StockFilter = "all"
	StockLow    StockFilter = "low"
	StockNormal StockFilter = "normal"
)

func (s StockFilter) Valid() bool {
	return s == StockAll || s == StockLow || s == StockNormal
}

// Query mirrors the inventory table controls. Empty fields match everything.
type Query struct {
	Search   string
	Category string
	Stock    StockFilter
}

// Filter applies q in source order. Search is a case-insensitive substring
// match on name or category.
func Filter(items []*Item, q Query) []*Item {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := []*Item{}
	for _, it := range items {
		if search != "" &&
			!strings.Contains(strings.ToLower(it.Name), search) &&
			!strings.Contains(strings.ToLower(it.Category), search) {
			continue
		}
		if q.Category != "" && q.Category != "all" && it.Category != q.Category {
			continue
		}
		switch q.Stock {
		case StockLow:
			if !it.IsLow() {
				continue
			}
		case StockNormal:
			if it.IsLow() {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}

// Categories lists distinct categories in first-seen order.
func Categories(items []*Item) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, it := range items {
		if !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	return out
}
