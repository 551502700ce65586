package request

type CreateScheduleRequest struct {
	MovieID   string `json:"movie_id" validate:"required,uuid4"`
	RoomID    string `json:"room_id" validate:"required,uuid4"`
	ShowDate  string `json:"show_date" validate:"required,datetime=2006-01-02"`
	TimeSlot  int    `json:"time_slot" validate:"min=0,max=7"`
	BasePrice int64  `json:"base_price" validate:"required,min=1"`
}

type UpdateScheduleRequest struct {
	MovieID   string `json:"movie_id" validate:"required,uuid4"`
	RoomID    string `json:"room_id" validate:"required,uuid4"`
	ShowDate  string `json:"show_date" validate:"required,datetime=2006-01-02"`
	TimeSlot  int    `json:"time_slot" validate:"min=0,max=7"`
	BasePrice int64  `json:"base_price" validate:"required,min=1"`
}
