package request

type AvailabilityRequest struct {
	FieldID string `json:"field_id" validate:"required,uuid4"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
}
