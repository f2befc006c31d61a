package devserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tableflip.dev/allergy/pkg/calendar"
	"tableflip.dev/allergy/pkg/events"
	"tableflip.dev/allergy/pkg/store"
	"tableflip.dev/allergy/pkg/symptom"
)

// triggerHeader mirrors what the service sends with date fragments: a JSON
// object keyed by client event name.
var triggerHeader = fmt.Sprintf(`{%q: {}}`, events.TriggerSymptomsUpdated)

func (s *Server) dashboard(c *gin.Context) {
	c.SetCookie("csrftoken", s.opts.CSRFToken, 0, "/", "", false, false)
	c.HTML(http.StatusOK, dashboardTmpl, dashboardData{
		CSRFToken: s.opts.CSRFToken,
		Symptoms:  symptom.Catalog(),
		Today:     calendar.DateOf(time.Now()),
	})
}

func (s *Server) dateInfo(c *gin.Context) {
	date, err := pathDate(c.Param("year"), c.Param("month"), c.Param("day"))
	if err != nil {
		c.String(http.StatusNotFound, "not found")
		return
	}
	s.fragment(c, date)
}

func (s *Server) addSymptom(c *gin.Context) {
	var problems []string

	sym, err := symptom.Parse(c.PostForm("symptom_type"))
	if err != nil {
		problems = append(problems, fmt.Sprintf("Symptom type: Select a valid choice. %s is not one of the available choices.", c.PostForm("symptom_type")))
	}
	intensity, err := strconv.Atoi(c.PostForm("intensity"))
	if err != nil || !symptom.ValidIntensity(intensity) {
		problems = append(problems, "Intensity: Ensure this value is between 1 and 10.")
	}
	date, err := calendar.ParseDate(c.PostForm("date"))
	if err != nil {
		problems = append(problems, "Date: Enter a valid date.")
	}
	if len(problems) > 0 {
		s.formError(c, problems)
		return
	}

	if _, err := s.store.Upsert(date, sym, intensity); err != nil {
		s.log.Error("upsert", zap.String("date", date.String()), zap.String("symptom", string(sym)), zap.Error(err))
		c.String(http.StatusInternalServerError, "could not store symptom")
		return
	}
	s.log.Info("stored",
		zap.String("date", date.String()),
		zap.String("symptom", string(sym)),
		zap.Int("intensity", intensity))
	s.fragment(c, date)
}

func (s *Server) deleteSymptom(c *gin.Context) {
	var problems []string

	sym, err := symptom.Parse(c.PostForm("symptom"))
	if err != nil {
		problems = append(problems, "Symptom: Select a valid choice.")
	}
	date, err := calendar.ParseDate(c.PostForm("date"))
	if err != nil {
		problems = append(problems, "Date: Enter a valid date.")
	}
	if len(problems) > 0 {
		s.formError(c, problems)
		return
	}

	if err := s.store.Delete(date, sym); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.formError(c, []string{"No symptom recorded for this date."})
			return
		}
		s.log.Error("delete", zap.String("date", date.String()), zap.String("symptom", string(sym)), zap.Error(err))
		c.String(http.StatusInternalServerError, "could not delete symptom")
		return
	}
	s.log.Info("deleted", zap.String("date", date.String()), zap.String("symptom", string(sym)))
	c.Status(http.StatusNoContent)
}

// fragment renders the date-info fragment for date and announces the
// update to the page.
func (s *Server) fragment(c *gin.Context, date calendar.Date) {
	records := s.store.List(c.Request.Context(), date)
	data := fragmentData{
		Date:    date.Time(time.UTC),
		Markers: !s.opts.LegacyText,
	}
	for _, r := range records {
		data.Records = append(data.Records, recordView{
			Symptom:   r.Symptom,
			Name:      r.Symptom.DisplayName(),
			Intensity: r.Intensity,
		})
	}
	c.Header("HX-Trigger", triggerHeader)
	c.HTML(http.StatusOK, fragmentTmpl, data)
}

// formError answers an invalid form the way the service does: an error
// partial with status 200.
func (s *Server) formError(c *gin.Context, problems []string) {
	s.log.Debug("invalid form", zap.Strings("problems", problems))
	c.HTML(http.StatusOK, errorTmpl, problems)
}

// pathDate validates /calendar/{year}/{month}/{day}/ where month is 1-12.
func pathDate(y, m, d string) (calendar.Date, error) {
	year, err := strconv.Atoi(y)
	if err != nil {
		return calendar.Date{}, err
	}
	month, err := strconv.Atoi(m)
	if err != nil {
		return calendar.Date{}, err
	}
	day, err := strconv.Atoi(d)
	if err != nil {
		return calendar.Date{}, err
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return calendar.Date{}, fmt.Errorf("invalid date %s-%s-%s", y, m, d)
	}
	return calendar.DateOf(t), nil
}
