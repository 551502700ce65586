package entity

import (
	"fmt"
	"sort"
)

type RoomStatus string

const (
	RoomStatusActive   RoomStatus = "active"
	RoomStatusInactive RoomStatus = "inactive"
)

const (
	MaxRows        = 26 // seat rows are addressed by a single letter A-Z
	MaxSeatsPerRow = 30
)

// SeatLayout is the static geometry of a room. Immutable once a schedule
// references the room.
type SeatLayout struct {
	Rows        int   `json:"rows"`
	SeatsPerRow int   `json:"seats_per_row"`
	VIPRows     []int `json:"vip_rows"`   // zero-based row indices (0 = row A)
	AisleAfter  []int `json:"aisle_after"` // column numbers with an aisle to their right
}

type Room struct {
	Base
	Name   string     `db:"name"`
	Layout SeatLayout `db:"layout"`
	Status RoomStatus `db:"status"`
}

// Named size presets. VIP rows are an explicit layout attribute, always whole rows.
var layoutPresets = map[string]SeatLayout{
	"small":  {Rows: 5, SeatsPerRow: 8, VIPRows: []int{0}, AisleAfter: []int{4}},
	"medium": {Rows: 8, SeatsPerRow: 10, VIPRows: []int{0, 1}, AisleAfter: []int{5}},
	"large":  {Rows: 12, SeatsPerRow: 14, VIPRows: []int{0, 1}, AisleAfter: []int{4, 10}},
}

// LayoutFromPreset returns a copy of the named preset layout.
func LayoutFromPreset(name string) (SeatLayout, error) {
	preset, ok := layoutPresets[name]
	if ok {
		vip := make([]int, len(preset.VIPRows))
		copy(vip, preset.VIPRows)
		aisle := make([]int, len(preset.AisleAfter))
		copy(aisle, preset.AisleAfter)
		preset.VIPRows = vip
		preset.AisleAfter = aisle
		return preset, nil
	}
	return SeatLayout{}, &ValidationError{Field: "preset", Reason: fmt.Sprintf("unknown layout preset %q", name)}
}

// Validate checks row/column counts and VIP row indices.
func (l SeatLayout) Validate() error {
	if l.Rows < 1 || l.Rows > MaxRows {
		return &ValidationError{Field: "rows", Reason: fmt.Sprintf("must be between 1 and %d", MaxRows)}
	}
	if l.SeatsPerRow < 1 || l.SeatsPerRow > MaxSeatsPerRow {
		return &ValidationError{Field: "seats_per_row", Reason: fmt.Sprintf("must be between 1 and %d", MaxSeatsPerRow)}
	}
	for _, row := range l.VIPRows {
		if row < 0 || row >= l.Rows {
			return &ValidationError{Field: "vip_rows", Reason: fmt.Sprintf("row index %d outside layout", row)}
		}
	}
	for _, col := range l.AisleAfter {
		if col < 1 || col >= l.SeatsPerRow {
			return &ValidationError{Field: "aisle_after", Reason: fmt.Sprintf("column %d outside layout", col)}
		}
	}
	return nil
}

// AddressableSeats lists every valid seat id, row by row.
func (l SeatLayout) AddressableSeats() []string {
	seats := make([]string, 0, l.Rows*l.SeatsPerRow)
	for row := 0; row < l.Rows; row++ {
		for col := 1; col <= l.SeatsPerRow; col++ {
			seats = append(seats, SeatID(row, col))
		}
	}
	return seats
}

// Contains reports whether seatID addresses a seat of this layout.
func (l SeatLayout) Contains(seatID string) bool {
	row, col, err := ParseSeatID(seatID)
	if err != nil {
		return false
	}
	return row < l.Rows && col <= l.SeatsPerRow
}

// IsVIP reports whether the seat sits in one of the layout's VIP rows.
// Seats outside the layout are never VIP.
func (l SeatLayout) IsVIP(seatID string) bool {
	if !l.Contains(seatID) {
		return false
	}
	row, _, _ := ParseSeatID(seatID)
	for _, vip := range l.VIPRows {
		if row == vip {
			return true
		}
	}
	return false
}

// SeatID builds the canonical seat identifier, e.g. row 0 col 1 -> "A1".
func SeatID(row, col int) string {
	return fmt.Sprintf("%c%d", 'A'+row, col)
}

// ParseSeatID splits a seat id like "B12" into zero-based row and 1-based column.
func ParseSeatID(seatID string) (row, col int, err error) {
	if len(seatID) < 2 {
		return 0, 0, fmt.Errorf("malformed seat id %q", seatID)
	}
	letter := seatID[0]
	if letter < 'A' || letter > 'Z' {
		return 0, 0, fmt.Errorf("malformed seat id %q", seatID)
	}
	for i := 1; i < len(seatID); i++ {
		if seatID[i] < '0' || seatID[i] > '9' {
			return 0, 0, fmt.Errorf("malformed seat id %q", seatID)
		}
		col = col*10 + int(seatID[i]-'0')
	}
	if col < 1 {
		return 0, 0, fmt.Errorf("malformed seat id %q", seatID)
	}
	return int(letter - 'A'), col, nil
}

// SortSeatIDs orders seat ids by row letter then column number, in place.
func SortSeatIDs(seatIDs []string) {
	sort.Slice(seatIDs, func(i, j int) bool {
		ri, ci, _ := ParseSeatID(seatIDs[i])
		rj, cj, _ := ParseSeatID(seatIDs[j])
		if ri != rj {
			return ri < rj
		}
		return ci < cj
	})
}
