package models

import "testing"

func TestProjectTableStatus(t *testing.T) {
	tests := []struct {
		name   string
		orders []Order
		want   TableStatus
	}{
		{"no orders", nil, TableAvailable},
		{"all paid", []Order{{OrderStatus: StatusPaid}, {OrderStatus: StatusPaid}}, TableAvailable},
		{"all terminal mixed", []Order{{OrderStatus: StatusPaid}, {OrderStatus: StatusCancelled}}, TableAvailable},
		{"one pending", []Order{{OrderStatus: StatusPending}}, TableOccupied},
		{"one preparing among paid", []Order{{OrderStatus: StatusPaid}, {OrderStatus: StatusPreparing}}, TableOccupied},
		{"served counts as active", []Order{{OrderStatus: StatusServed}}, TableOccupied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProjectTableStatus(tt.orders); got != tt.want {
				t.Errorf("ProjectTableStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProjectStatusAfterSettlingLastActiveOrder(t *testing.T) {
	orders := []Order{
		{ID: 1, OrderStatus: StatusPaid},
		{ID: 2, OrderStatus: StatusServed},
	}
	if got := ProjectTableStatus(orders); got != TableOccupied {
		t.Fatalf("table with a served order should be Occupied, got %v", got)
	}

	// Paying the served order moves it out of the active set.
	orders[1].OrderStatus = StatusPaid
	if got := ProjectTableStatus(orders); got != TableAvailable {
		t.Fatalf("table with only paid orders should be Available, got %v", got)
	}
}

func TestTableRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     *TableRequest
		wantErr bool
	}{
		{"valid", &TableRequest{Name: "Window 1", TableCode: "T-01", Seats: 4}, false},
		{"missing name", &TableRequest{TableCode: "T-01", Seats: 4}, true},
		{"missing code", &TableRequest{Name: "Window 1", Seats: 4}, true},
		{"zero seats", &TableRequest{Name: "Window 1", TableCode: "T-01"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
