package change_appointment_status

// ChangeStatusRequest HTTP request model. Тело запроса опционально.
type ChangeStatusRequest struct {
	Reason *string `json:"motivo,omitempty" validate:"omitempty,max=500"`
}
