package handlers

import (
	"fmt"

	"dispatchboard/internal/grid"
	"dispatchboard/internal/store"
	"dispatchboard/pkg/api"

	"github.com/google/uuid"
)

func toTechnicianResponse(t store.Technician) api.TechnicianResponse {
	return api.TechnicianResponse{
		ID:           t.ID.String(),
		Name:         t.Name,
		Status:       string(t.Status),
		Color:        t.Color,
		Role:         t.Role,
		BusinessUnit: t.BusinessUnit,
		CreatedAt:    t.CreatedAt,
	}
}

func toShiftResponse(s store.Shift) api.ShiftResponse {
	return api.ShiftResponse{
		ID:        s.ID.String(),
		StaffID:   s.StaffID.String(),
		Date:      s.Date,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Type:      string(s.Type),
	}
}

func toAPIAppointments(appts []store.Appointment) []api.Appointment {
	out := make([]api.Appointment, len(appts))
	for i, a := range appts {
		out[i] = api.Appointment{
			TechnicianID: a.TechnicianID.String(),
			StartTime:    a.StartTime,
			EndTime:      a.EndTime,
		}
	}
	return out
}

func toJobResponse(j store.Job) api.JobResponse {
	resp := api.JobResponse{
		ID:           j.ID.String(),
		Number:       j.Number,
		Title:        j.Title,
		Date:         j.Date,
		Status:       string(j.Status),
		Priority:     string(j.Priority),
		StartTime:    j.StartTime,
		EndTime:      j.EndTime,
		Appointments: toAPIAppointments(j.Appointments),
		Version:      j.Version,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
	if j.TechnicianID != nil {
		id := j.TechnicianID.String()
		resp.TechnicianID = &id
	}
	return resp
}

// fromAPIAppointments parses request appointments. Every slot must end after it starts.
// It also returns the distinct technician ids in first-seen order.
func fromAPIAppointments(in []api.Appointment) ([]store.Appointment, []uuid.UUID, error) {
	appts := make([]store.Appointment, len(in))
	seen := make(map[uuid.UUID]bool, len(in))
	var techs []uuid.UUID

	for i, a := range in {
		id, err := uuid.Parse(a.TechnicianID)
		if err != nil {
			return nil, nil, fmt.Errorf("appointment %d: invalid technician_id", i)
		}
		if grid.Duration(a.StartTime, a.EndTime) <= 0 {
			return nil, nil, fmt.Errorf("appointment %d: end_time must be after start_time", i)
		}
		appts[i] = store.Appointment{TechnicianID: id, StartTime: a.StartTime, EndTime: a.EndTime}
		if !seen[id] {
			seen[id] = true
			techs = append(techs, id)
		}
	}
	return appts, techs, nil
}
