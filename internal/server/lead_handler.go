package server

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/leadpilot-crm/leadpilot/internal/lead"
	"github.com/leadpilot-crm/leadpilot/internal/reminder"
)

// LeadHandler exposes lead CRUD over REST. The store enforces validation
// and identity rules; the handler only maps errors to status codes.
type LeadHandler struct {
	store     lead.Store
	reminders *reminder.Scheduler
}

func NewLeadHandler(store lead.Store, reminders *reminder.Scheduler) *LeadHandler {
	return &LeadHandler{
		store:     store,
		reminders: reminders,
	}
}

func (lh *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var l lead.Lead
	if err := decode(r, &l); err != nil {
		respondErr(w, http.StatusBadRequest, err)
		return
	}

	if err := lh.store.Insert(r.Context(), &l); err != nil {
		log.Error().Err(err).Msg("create lead")
		switch {
		case errors.Is(err, lead.ErrInvalidLead):
			respondErr(w, http.StatusBadRequest, err)
		default:
			respondErr(w, http.StatusInternalServerError, err)
		}
		return
	}

	recordLeadMutation("create")
	lh.reminders.Schedule(r.Context(), l)
	respond(w, http.StatusCreated, l)
}

func (lh *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		respondErr(w, http.StatusBadRequest, err)
		return
	}

	leads, err := lh.store.Find(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("list leads")
		respondErr(w, http.StatusInternalServerError, err)
		return
	}
	if leads == nil {
		leads = []lead.Lead{}
	}

	respond(w, http.StatusOK, leads)
}

func (lh *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch map[string]any
	if err := decode(r, &patch); err != nil {
		respondErr(w, http.StatusBadRequest, err)
		return
	}

	updated, err := lh.store.UpdateByID(r.Context(), id, lead.Patch(patch))
	if err != nil {
		log.Error().Err(err).Str("lead_id", id).Msg("update lead")
		switch {
		case errors.Is(err, lead.ErrNotFound):
			respondErr(w, http.StatusNotFound, err)
		case errors.Is(err, lead.ErrInvalidLead):
			respondErr(w, http.StatusBadRequest, err)
		default:
			respondErr(w, http.StatusInternalServerError, err)
		}
		return
	}

	recordLeadMutation("update")
	lh.reminders.Schedule(r.Context(), updated)
	respond(w, http.StatusOK, updated)
}

func (lh *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := lh.store.DeleteByID(r.Context(), id); err != nil {
		log.Error().Err(err).Str("lead_id", id).Msg("delete lead")
		switch {
		case errors.Is(err, lead.ErrNotFound):
			respondErr(w, http.StatusNotFound, err)
		default:
			respondErr(w, http.StatusInternalServerError, err)
		}
		return
	}

	recordLeadMutation("delete")
	respond(w, http.StatusNoContent, nil)
}

func filterFromQuery(r *http.Request) (lead.Filter, error) {
	q := r.URL.Query()

	f := lead.Filter{
		Name:        strings.TrimSpace(q.Get("name")),
		Phone:       strings.TrimSpace(q.Get("phone")),
		Email:       strings.TrimSpace(q.Get("email")),
		Status:      strings.TrimSpace(q.Get("status")),
		Source:      strings.TrimSpace(q.Get("source")),
		AssignedTo:  strings.TrimSpace(q.Get("assignedTo")),
		Location:    strings.TrimSpace(q.Get("location")),
		Project:     strings.TrimSpace(q.Get("project")),
		Rating:      strings.TrimSpace(q.Get("rating")),
		CreatedFrom: strings.TrimSpace(q.Get("from")),
		CreatedTo:   strings.TrimSpace(q.Get("to")),

		MeetingDate:   strings.TrimSpace(q.Get("meetingDate")),
		SiteVisitDate: strings.TrimSpace(q.Get("siteVisitDate")),
	}

	var err error
	if f.MeetingScheduled, err = boolParam(q, "meetingScheduled"); err != nil {
		return lead.Filter{}, err
	}
	if f.SiteVisitScheduled, err = boolParam(q, "siteVisitScheduled"); err != nil {
		return lead.Filter{}, err
	}

	return f, nil
}

func boolParam(q url.Values, param string) (*bool, error) {
	raw := strings.TrimSpace(q.Get(param))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errors.New(param + " must be true or false")
	}
	return &v, nil
}
