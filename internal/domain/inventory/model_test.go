package inventory

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []*Item {
	return []*Item{
		{ID: "inv1", Name: "Paracetamol 500mg", Category: "Medication", Quantity: 500, Unit: "tablets", Threshold: 100},
		{ID: "inv2", Name: "Surgical Masks", Category: "PPE", Quantity: 45, Unit: "boxes", Threshold: 100},
		{ID: "inv3", Name: "Insulin Syringes", Category: "Supplies", Quantity: 30, Unit: "pieces", Threshold: 50},
		{ID: "inv4", Name: "Bandages", Category: "Supplies", Quantity: 200, Unit: "rolls", Threshold: 50},
		{ID: "inv5", Name: "Amoxicillin 250mg", Category: "Medication", Quantity: 25, Unit: "capsules", Threshold: 40},
	}
}

func itemIDs(items []*Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestLowStockSorted(t *testing.T) {
	got := LowStockSorted(testItems())
	// 45/100, 30/50, 25/40
	assert.Equal(t, []string{"inv2", "inv3", "inv5"}, itemIDs(got))
}

func TestLowStockSorted_Scenarios(t *testing.T) {
	got := LowStockSorted([]*Item{
		{ID: "a", Quantity: 5, Threshold: 10},
		{ID: "b", Quantity: 30, Threshold: 10},
	})
	assert.Equal(t, []string{"a"}, itemIDs(got))

	got = LowStockSorted([]*Item{
		{ID: "b", Quantity: 8, Threshold: 10},
		{ID: "a", Quantity: 5, Threshold: 10},
	})
	assert.Equal(t, []string{"a", "b"}, itemIDs(got))
}

func TestLowStockSorted_ZeroThresholdFirst(t *testing.T) {
	got := LowStockSorted([]*Item{
		{ID: "a", Quantity: 1, Threshold: 10},
		{ID: "z1", Quantity: 0, Threshold: 0},
		{ID: "b", Quantity: 0, Threshold: 10},
		{ID: "z2", Quantity: -1, Threshold: 0},
	})
	assert.Equal(t, []string{"z1", "z2", "b", "a"}, itemIDs(got))
}

func TestLowStockSorted_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 200; round++ {
		n := rng.Intn(12)
		items := make([]*Item, n)
		for i := range items {
			items[i] = &Item{ID: string(rune('a' + i)), Quantity: rng.Intn(20), Threshold: rng.Intn(10)}
		}
		snapshot := append([]*Item(nil), items...)

		got := LowStockSorted(items)
		require.Equal(t, snapshot, items, "input must not be reordered")
		assert.Equal(t, got, LowStockSorted(items), "idempotent")

		pos := map[*Item]int{}
		for i, it := range items {
			pos[it] = i
		}
		for i, it := range got {
			assert.True(t, it.IsLow())
			if i == 0 {
				continue
			}
			prev := got[i-1]
			assert.LessOrEqual(t, prev.Ratio(), it.Ratio(), "ratios must not decrease")
			if prev.Ratio() == it.Ratio() {
				assert.Less(t, pos[prev], pos[it], "ties keep source order")
			}
		}
		low := 0
		for _, it := range items {
			if it.IsLow() {
				low++
			}
		}
		assert.Len(t, got, low)
	}
}

func TestItem_LevelAndFill(t *testing.T) {
	tests := []struct {
		item  Item
		level Level
		label string
		fill  float64
	}{
		{Item{Quantity: 500, Threshold: 100}, LevelOK, "In Stock", 100},
		{Item{Quantity: 100, Threshold: 100}, LevelWarning, "Low Stock", 100},
		{Item{Quantity: 75, Threshold: 100}, LevelWarning, "Low Stock", 75},
		{Item{Quantity: 50, Threshold: 100}, LevelCritical, "Low Stock", 50},
		{Item{Quantity: 0, Threshold: 0}, LevelCritical, "Low Stock", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, tt.item.Level(), "%d/%d", tt.item.Quantity, tt.item.Threshold)
		assert.Equal(t, tt.label, tt.item.StatusLabel())
		assert.InDelta(t, tt.fill, tt.item.FillPercent(), 0.001)
	}
	assert.Equal(t, 1, CountCritical(testItems()))
	assert.Equal(t, 1, CountCritical([]*Item{{Quantity: 4, Threshold: 10}, {Quantity: 6, Threshold: 10}}))
}

func TestFilter(t *testing.T) {
	items := testItems()
	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"everything", Query{}, []string{"inv1", "inv2", "inv3", "inv4", "inv5"}},
		{"search name", Query{Search: "  MASK"}, []string{"inv2"}},
		{"search category", Query{Search: "supp"}, []string{"inv3", "inv4"}},
		{"category all", Query{Category: "all"}, []string{"inv1", "inv2", "inv3", "inv4", "inv5"}},
		{"category exact", Query{Category: "Medication"}, []string{"inv1", "inv5"}},
		{"category case matters", Query{Category: "medication"}, []string{}},
		{"low", Query{Stock: StockLow}, []string{"inv2", "inv3", "inv5"}},
		{"normal", Query{Stock: StockNormal}, []string{"inv1", "inv4"}},
		{"combined", Query{Search: "a", Category: "Supplies", Stock: StockLow}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, itemIDs(Filter(items, tt.q)))
		})
	}
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"Medication", "PPE", "Supplies"}, Categories(testItems()))
	assert.Empty(t, Categories(nil))
}
