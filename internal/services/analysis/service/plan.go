package service

import (
	"strings"
	"time"

	"liverkpi/internal/adapters/ingest/showroom"
	perr "liverkpi/internal/platform/errors"
	"liverkpi/internal/platform/net/http/bind"
	ptime "liverkpi/internal/platform/time"
	"liverkpi/internal/services/analysis/domain"
)

// plan is a validated request
type plan struct {
	req    domain.Request
	kind   showroom.Kind
	window domain.Window
	months []showroom.MonthRef
}

// validate checks everything that needs no I/O. Event windows are resolved later.
func (s *Svc) validate(req domain.Request) (plan, error) {
	req.Account = strings.TrimSpace(req.Account)
	req.Event = strings.TrimSpace(req.Event)
	if req.Account == "" {
		return plan{}, perr.WithField(perr.InvalidArgf("account is required"), "account")
	}
	kind, err := showroom.ParseKind(req.Feed)
	if err != nil {
		return plan{}, perr.WithField(err, "feed")
	}
	req.Feed = string(kind)
	if kind == showroom.FeedMember && req.Aggregate() {
		return plan{}, perr.WithField(perr.InvalidArgf("the member feed needs a specific account"), "feed")
	}
	p := plan{req: req, kind: kind}

	if req.Event != "" {
		if req.Aggregate() {
			return plan{}, perr.WithField(perr.InvalidArgf("event selection needs a specific account"), "event")
		}
		if s.events == nil {
			return plan{}, perr.WithField(perr.InvalidArgf("events are not configured"), "event")
		}
		return p, nil
	}

	start, startSub, err := s.parseBound(req.Start, false)
	if err != nil {
		return plan{}, perr.WithField(err, "start")
	}
	end, endSub, err := s.parseBound(req.End, true)
	if err != nil {
		return plan{}, perr.WithField(err, "end")
	}
	w := domain.Window{Start: start, End: end, SubDay: startSub || endSub}
	if err := s.setWindow(&p, w); err != nil {
		return plan{}, err
	}
	return p, nil
}

// setWindow checks range rules and enumerates the months of w
func (s *Svc) setWindow(p *plan, w domain.Window) error {
	if w.Start.After(w.End) {
		return perr.WithField(perr.InvalidArgf("start %s is after end %s",
			w.Start.Format(bind.MinuteLayout), w.End.Format(bind.MinuteLayout)), "start")
	}
	now := s.clock.Now().In(s.cfg.Location)
	if y := w.Start.Year(); y < s.cfg.MinYear || y > now.Year() {
		return perr.WithField(perr.InvalidArgf("start year %d outside [%d, %d]", y, s.cfg.MinYear, now.Year()), "start")
	}
	if y := w.End.Year(); y < s.cfg.MinYear || y > now.Year() {
		return perr.WithField(perr.InvalidArgf("end year %d outside [%d, %d]", y, s.cfg.MinYear, now.Year()), "end")
	}
	months := showroom.MonthsBetween(w.Start, w.End)
	if s.cfg.MaxMonths > 0 && len(months) > s.cfg.MaxMonths {
		return perr.InvalidArgf("window spans %d months, limit is %d", len(months), s.cfg.MaxMonths)
	}
	p.window, p.months = w, months
	return nil
}

// parseBound accepts a day or a minute bound; a day end bound covers the whole day
func (s *Svc) parseBound(v string, end bool) (time.Time, bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false, perr.InvalidArgf("date is required")
	}
	if t, err := time.ParseInLocation(bind.MinuteLayout, v, s.cfg.Location); err == nil {
		if end {
			t = t.Add(time.Minute - time.Nanosecond)
		}
		return t, true, nil
	}
	t, err := time.ParseInLocation(bind.DayLayout, v, s.cfg.Location)
	if err != nil {
		return time.Time{}, false, perr.InvalidArgf("%q is not YYYY-MM-DD or YYYY-MM-DDTHH:MM", v)
	}
	if end {
		return ptime.DayEnd(t), false, nil
	}
	return t, false, nil
}
