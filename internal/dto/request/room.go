package request

// CreateRoomRequest builds a room either from a named preset or from explicit
// geometry. Preset wins when both are given.
type CreateRoomRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Preset      string `json:"preset,omitempty" validate:"omitempty,oneof=small medium large"`
	Rows        int    `json:"rows,omitempty" validate:"omitempty,min=1,max=26"`
	SeatsPerRow int    `json:"seats_per_row,omitempty" validate:"omitempty,min=1,max=30"`
	VIPRows     []int  `json:"vip_rows,omitempty"`
	AisleAfter  []int  `json:"aisle_after,omitempty"`
}

type RenameRoomRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}
