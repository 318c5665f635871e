package botapp

import (
	"context"
	"errors"
	"strings"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/streetpaws/feedpoint/core/telegram/helpers"
	"github.com/streetpaws/feedpoint/core/telegram/state"
	"github.com/streetpaws/feedpoint/points"
)

// Conversation states of the three-step submission flow.
const (
	stateAwaitingLocation    state.State = "awaiting_location"
	stateAwaitingDescription state.State = "awaiting_description"
	stateAwaitingSchedule    state.State = "awaiting_schedule"
)

// Temp-data keys used while the flow is in progress.
const (
	tmpLatitude    = "latitude"
	tmpLongitude   = "longitude"
	tmpDescription = "description"
)

// registerFlow wires the submission states into the FSM dispatcher.
func (a *App) registerFlow() {
	state.RegisterHandler(stateAwaitingLocation, a.handleAwaitLocation)
	state.RegisterHandler(stateAwaitingDescription, a.handleAwaitDescription)
	state.RegisterHandler(stateAwaitingSchedule, a.handleAwaitSchedule)
}

func (a *App) handleAwaitLocation(c tele.Context) error {
	loc := c.Message().Location
	if loc == nil {
		return tghelpers.SendText(c, msgAskLocation)
	}

	userID := c.Sender().ID
	a.states.SetTemp(userID, tmpLatitude, float64(loc.Lat))
	a.states.SetTemp(userID, tmpLongitude, float64(loc.Lng))
	a.states.SetState(userID, stateAwaitingDescription)
	return tghelpers.SendText(c, msgAskDescription)
}

func (a *App) handleAwaitDescription(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if text == "" {
		return tghelpers.SendText(c, msgAskDescription)
	}

	userID := c.Sender().ID
	a.states.SetTemp(userID, tmpDescription, text)
	a.states.SetState(userID, stateAwaitingSchedule)
	return tghelpers.SendText(c, msgAskSchedule)
}

func (a *App) handleAwaitSchedule(c tele.Context) error {
	schedule := strings.TrimSpace(c.Text())
	if schedule == "" {
		return tghelpers.SendText(c, msgAskSchedule)
	}
	ctx := tghelpers.BuildContext(c)
	reply := a.completeSubmission(ctx, c.Sender().ID, c.Sender().Username, schedule)
	return tghelpers.SendText(c, reply)
}

// completeSubmission assembles the record from the session data and
// persists it, returning the reply to send. When the session data is
// gone or invalid the flow restarts from the location step.
func (a *App) completeSubmission(ctx context.Context, userID int64, username, schedule string) string {
	lat, okLat := a.states.GetTempFloat64(userID, tmpLatitude)
	lng, okLng := a.states.GetTempFloat64(userID, tmpLongitude)
	desc, okDesc := a.states.GetTempString(userID, tmpDescription)
	if !okLat || !okLng || !okDesc {
		a.restartFlow(userID)
		return msgAskLocation
	}

	rec, err := a.svc.Submit(ctx, points.Submission{
		OwnerID:     userID,
		OwnerName:   username,
		Latitude:    lat,
		Longitude:   lng,
		Description: desc,
		Schedule:    schedule,
	})
	a.states.Clear(userID)
	if errors.Is(err, points.ErrValidation) {
		a.restartFlow(userID)
		return msgAskLocation
	}
	if err != nil {
		return msgStorageError
	}
	return submittedText(rec)
}

func (a *App) restartFlow(userID int64) {
	a.states.Clear(userID)
	a.states.SetState(userID, stateAwaitingLocation)
}
