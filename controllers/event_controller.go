// Package controllers - HTTP handlers for the event CRUD surface,
// dashboard, CSV export and the alert polling endpoint.
// File: controllers/event_controller.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"go-sched-log/logger"
	"go-sched-log/services"
	"go-sched-log/websocket"
)

// EventController translates requests into EventService calls and
// renders the pages or JSON.
type EventController struct {
	Events *services.EventService
}

// NewEventController initializes a new instance of EventController.
func NewEventController(events *services.EventService) *EventController {
	return &EventController{Events: events}
}

// ---------------- dashboard ----------------

// Dashboard renders aggregate stats plus the five most recent events.
func (ec *EventController) Dashboard(c *gin.Context) {
	stats, err := ec.Events.Stats("")
	if err != nil {
		ec.renderStoreError(c, "Dashboard", err)
		return
	}
	recent, err := ec.Events.Recent(5)
	if err != nil {
		ec.renderStoreError(c, "Dashboard", err)
		return
	}

	session := sessions.Default(c)
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Name":         session.Get("name"),
		"IsAdmin":      session.Get("role") == "admin",
		"Stats":        stats,
		"RecentEvents": recent,
	})
}

// ---------------- event list ----------------

// ListEvents renders the filterable event list. Filters come from the
// query string and are echoed back into the form.
func (ec *EventController) ListEvents(c *gin.Context) {
	filter := services.EventFilter{
		Date:   c.Query("date"),
		Client: c.Query("client"),
	}

	events, err := ec.Events.List(filter)
	if err != nil {
		ec.renderStoreError(c, "ListEvents", err)
		return
	}

	c.HTML(http.StatusOK, "events.html", gin.H{
		"Events":       events,
		"DateFilter":   filter.Date,
		"ClientFilter": filter.Client,
	})
}

// ---------------- create ----------------

// ShowAddEvent renders the empty add-event form.
func (ec *EventController) ShowAddEvent(c *gin.Context) {
	c.HTML(http.StatusOK, "add_event.html", gin.H{"Form": formEcho(c)})
}

// AddEvent creates an event from the posted form. Validation failures
// re-render the form with the error and the submitted values intact.
func (ec *EventController) AddEvent(c *gin.Context) {
	input, err := eventInputFromForm(c)
	if err != nil {
		c.HTML(http.StatusBadRequest, "add_event.html", gin.H{
			"Error": err.Error(),
			"Form":  formEcho(c),
		})
		return
	}

	session := sessions.Default(c)
	createdBy, _ := session.Get("user").(string)

	if _, err := ec.Events.Create(input, createdBy); err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.HTML(http.StatusBadRequest, "add_event.html", gin.H{
				"Error": err.Error(),
				"Form":  formEcho(c),
			})
			return
		}
		ec.renderStoreError(c, "AddEvent", err)
		return
	}

	c.Redirect(http.StatusFound, "/events")
}

// ---------------- edit ----------------

// ShowEditEvent renders the edit form for one event.
func (ec *EventController) ShowEditEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	event, err := ec.Events.Get(id)
	if errors.Is(err, services.ErrNotFound) {
		c.String(http.StatusNotFound, "Event not found")
		return
	}
	if err != nil {
		ec.renderStoreError(c, "ShowEditEvent", err)
		return
	}

	c.HTML(http.StatusOK, "edit_event.html", gin.H{"Event": event})
}

// UpdateEvent applies the posted form to an existing event.
func (ec *EventController) UpdateEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	input, err := eventInputFromForm(c)
	if err == nil {
		_, err = ec.Events.Update(id, input)
	}
	switch {
	case err == nil:
		c.Redirect(http.StatusFound, "/events")
	case errors.Is(err, services.ErrNotFound):
		c.String(http.StatusNotFound, "Event not found")
	case errors.Is(err, services.ErrValidation):
		event, getErr := ec.Events.Get(id)
		if getErr != nil {
			c.String(http.StatusNotFound, "Event not found")
			return
		}
		c.HTML(http.StatusBadRequest, "edit_event.html", gin.H{
			"Error": err.Error(),
			"Event": event,
		})
	default:
		ec.renderStoreError(c, "UpdateEvent", err)
	}
}

// ---------------- delete ----------------

// DeleteEvent removes an event and returns to the list.
func (ec *EventController) DeleteEvent(c *gin.Context) {
	id, ok := eventID(c)
	if !ok {
		return
	}

	err := ec.Events.Delete(id)
	if errors.Is(err, services.ErrNotFound) {
		c.String(http.StatusNotFound, "Event not found")
		return
	}
	if err != nil {
		ec.renderStoreError(c, "DeleteEvent", err)
		return
	}

	c.Redirect(http.StatusFound, "/events")
}

// ---------------- CSV export ----------------

// ExportCSV streams the whole collection as an attachment.
func (ec *EventController) ExportCSV(c *gin.Context) {
	filename := fmt.Sprintf("schedule_export_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := ec.Events.ExportCSV(c.Writer); err != nil {
		logger.Error.Printf("ExportCSV: %v", err)
		// headers are out; nothing more useful to send
	}
}

// ---------------- alert polling ----------------

// CheckAlerts is the endpoint the browser polls every 30 seconds; it
// returns the events inside their alert window right now.
func (ec *EventController) CheckAlerts(c *gin.Context) {
	due, err := ec.Events.DueSoon(time.Now())
	if err != nil {
		logger.Error.Printf("CheckAlerts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "alert check failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": due})
}

// AlertFeed upgrades to the WebSocket push feed carrying the same
// payload as CheckAlerts.
func (ec *EventController) AlertFeed(c *gin.Context) {
	session := sessions.Default(c)
	username, _ := session.Get("user").(string)
	websocket.ServeAlerts(c.Writer, c.Request, username)
}

// ---------------- helpers ----------------

// eventID parses the :id path parameter, answering 404 itself on junk.
func eventID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Event not found")
		return 0, false
	}
	return id, true
}

// eventInputFromForm collects the shared add/edit form fields. A
// non-numeric alert value is a validation error rather than a silent
// fallback; an empty one gets the default lead time.
func eventInputFromForm(c *gin.Context) (services.EventInput, error) {
	input := services.EventInput{
		Date:         c.PostForm("date"),
		TimeSlot:     c.PostForm("time_slot"),
		Length:       c.PostForm("length"),
		Client:       c.PostForm("client"),
		DeliveryType: c.PostForm("delivery_type"),
		Resource:     c.PostForm("resource"),
		AssignedTo:   c.PostForm("assigned_to"),
		Signature:    c.PostForm("signature"),
		Notes:        c.PostForm("notes"),
		AlertMinutes: services.DefaultAlertMinutes,
	}
	if raw := c.PostForm("alert_minutes"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return input, fmt.Errorf("alert minutes must be a number")
		}
		input.AlertMinutes = n
	}
	return input, nil
}

// formEcho hands the submitted values back to the template so a failed
// validation does not wipe the form.
func formEcho(c *gin.Context) map[string]string {
	return map[string]string{
		"Date":         c.PostForm("date"),
		"TimeSlot":     c.PostForm("time_slot"),
		"Length":       c.PostForm("length"),
		"Client":       c.PostForm("client"),
		"DeliveryType": c.PostForm("delivery_type"),
		"Resource":     c.PostForm("resource"),
		"AssignedTo":   c.PostForm("assigned_to"),
		"Signature":    c.PostForm("signature"),
		"Notes":        c.PostForm("notes"),
		"AlertMinutes": c.PostForm("alert_minutes"),
	}
}

// renderStoreError answers 500. Corrupt-store failures are logged
// loudly; the stores themselves never fall back to empty data.
func (ec *EventController) renderStoreError(c *gin.Context, op string, err error) {
	logger.Error.Printf("%s: %v", op, err)
	c.String(http.StatusInternalServerError, "Internal error, please try again later.")
}
