package handlers

import (
	"net/http"

	"dispatchboard/internal/dispatch"
	"dispatchboard/internal/store"
	"dispatchboard/pkg/api"

	"golang.org/x/sync/errgroup"
)

// GetBoard handles GET /board?date=.
// It returns one row per active technician with stacked cards and shift bands,
// plus the jobs of the date that nobody is assigned to.
func (h *Handlers) GetBoard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	var (
		techs  []store.Technician
		shifts []store.Shift
		jobs   []store.Job
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		techs, err = h.store.ListTechnicians(gctx, tenantID, store.TechnicianStatusActive)
		return err
	})
	g.Go(func() (err error) {
		shifts, err = h.store.ListShiftsByDate(gctx, tenantID, date)
		return err
	})
	g.Go(func() (err error) {
		jobs, err = h.store.ListJobsByDate(gctx, tenantID, date)
		return err
	})
	if err := g.Wait(); err != nil {
		h.log(ctx).Error("failed to load board", "date", date, "error", err)
		h.httpError(w, "Failed to load board", http.StatusInternalServerError)
		return
	}

	board := dispatch.NewBoard(date)
	board.SetTechnicians(techs)
	board.SetShifts(shifts)
	board.SetJobs(jobs)

	h.respondJson(w, http.StatusOK, toBoardResponse(board))
}

func toBoardResponse(board *dispatch.Board) api.BoardResponse {
	resp := api.BoardResponse{
		Date:       board.Date(),
		Rows:       []api.BoardRow{},
		Unassigned: []api.JobResponse{},
	}

	idx := board.Shifts()
	for _, row := range board.Rows() {
		br := api.BoardRow{
			Technician: toTechnicianResponse(row.Technician),
			Levels:     row.Levels,
			Bands:      row.Bands[:],
			Cards:      make([]api.BoardCard, 0, len(row.Cards)),
		}
		if s, ok := idx.Find(row.Technician.ID, board.Date()); ok {
			sr := toShiftResponse(s)
			br.Shift = &sr
		}
		for _, c := range row.Cards {
			br.Cards = append(br.Cards, api.BoardCard{
				JobID:     c.JobID.String(),
				Index:     c.Index,
				Number:    c.Job.Number,
				Title:     c.Job.Title,
				Status:    string(c.Job.Status),
				Priority:  string(c.Job.Priority),
				StartTime: c.Appointment.StartTime,
				EndTime:   c.Appointment.EndTime,
				Level:     c.Level,
			})
		}
		resp.Rows = append(resp.Rows, br)
	}

	for _, j := range board.Jobs() {
		if len(j.Slots()) == 0 {
			resp.Unassigned = append(resp.Unassigned, toJobResponse(j))
		}
	}
	return resp
}
