package update_working_hours

import "github.com/m04kA/appointweb-booking/internal/domain"

// UpdateWorkingHoursRequest HTTP request model.
// Дни, которых нет в запросе, считаются выходными.
type UpdateWorkingHoursRequest struct {
	WorkingHours domain.WorkingHours `json:"workingHours"`
}
