package request

type AddCartItemRequest struct {
	TimeSlotID string `json:"time_slot_id" validate:"required,uuid4"`
}
