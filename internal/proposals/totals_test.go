package proposals

import "testing"

func TestCalculateTotals(t *testing.T) {
	tests := []struct {
		name     string
		items    []LineItem
		discount float64
		want     Totals
	}{
		{
			name: "single item no discount",
			items: []LineItem{
				{Description: "Website", Quantity: 1, UnitPrice: 2500},
			},
			want: Totals{Subtotal: 2500, Discount: 0, Total: 2500},
		},
		{
			name: "multiple items with discount",
			items: []LineItem{
				{Description: "Design", Quantity: 2, UnitPrice: 500},
				{Description: "Hosting", Quantity: 12, UnitPrice: 25},
			},
			discount: 10,
			want:     Totals{Subtotal: 1300, Discount: 130, Total: 1170},
		},
		{
			name:     "empty items",
			items:    nil,
			discount: 50,
			want:     Totals{},
		},
		{
			name: "zero quantity skipped",
			items: []LineItem{
				{Description: "Optional", Quantity: 0, UnitPrice: 999},
				{Description: "Core", Quantity: 1, UnitPrice: 100},
			},
			want: Totals{Subtotal: 100, Discount: 0, Total: 100},
		},
		{
			name: "discount clamped above 100",
			items: []LineItem{
				{Description: "Core", Quantity: 1, UnitPrice: 200},
			},
			discount: 150,
			want:     Totals{Subtotal: 200, Discount: 200, Total: 0},
		},
		{
			name: "negative discount treated as zero",
			items: []LineItem{
				{Description: "Core", Quantity: 1, UnitPrice: 200},
			},
			discount: -5,
			want:     Totals{Subtotal: 200, Discount: 0, Total: 200},
		},
		{
			name: "rounds to cents",
			items: []LineItem{
				{Description: "Hourly", Quantity: 3, UnitPrice: 33.333},
			},
			want: Totals{Subtotal: 100, Discount: 0, Total: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTotals(tt.items, tt.discount)
			if got != tt.want {
				t.Fatalf("CalculateTotals = %+v, want %+v", got, tt.want)
			}
		})
	}
}
