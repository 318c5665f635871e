package botapp

import (
	"bytes"
	"errors"

	tele "gopkg.in/telebot.v4"

	"github.com/streetpaws/feedpoint/core/telegram/callbacks"
	tghelpers "github.com/streetpaws/feedpoint/core/telegram/helpers"
	"github.com/streetpaws/feedpoint/core/telegram/keyboard"
	"github.com/streetpaws/feedpoint/mapdoc"
	"github.com/streetpaws/feedpoint/points"
)

// handleStart shows the main menu and aborts any conversation in flight.
func (a *App) handleStart(c tele.Context) error {
	if a.states.InProgress(c.Sender().ID) {
		if err := tghelpers.SendText(c, msgFlowCancelled); err != nil {
			return err
		}
	}
	a.states.Clear(c.Sender().ID)

	buttons := []keyboard.InlineBtn{
		{Text: btnAddLocation, Unique: "add_location"},
		{Text: btnViewMap, Unique: "view_map"},
		{Text: btnListPoints, Unique: "list_locations"},
		{Text: btnMyPoints, Unique: "my_locations"},
	}
	if a.svc.IsAdmin(c.Sender().ID) {
		buttons = append(buttons, keyboard.InlineBtn{Text: btnAdminPanel, Unique: "admin_panel"})
	}
	return tghelpers.SendText(c, msgWelcome, &tele.SendOptions{
		ReplyMarkup: keyboard.InlineButtons(buttons),
	})
}

func (a *App) cbAddLocation(c tele.Context) error {
	a.states.SetState(c.Sender().ID, stateAwaitingLocation)
	return c.EditOrSend(msgAskLocation)
}

func (a *App) cbViewMap(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	approved, err := a.svc.Approved(ctx)
	if err != nil {
		return c.EditOrSend(msgStorageError)
	}

	doc, err := mapdoc.Render(approved)
	if errors.Is(err, mapdoc.ErrNoPoints) {
		return c.EditOrSend(msgNoApprovedYet)
	}
	if err != nil {
		return c.EditOrSend(msgStorageError)
	}

	if err := c.EditOrSend(msgSendingMap); err != nil {
		return err
	}
	return c.Send(&tele.Document{
		File:     tele.FromReader(bytes.NewReader(doc)),
		FileName: mapFileName,
		MIME:     "text/html",
	})
}

// cbListLocations shows the approved records; each entry carries a
// button that sends the point as a location pin.
func (a *App) cbListLocations(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	approved, err := a.svc.Approved(ctx)
	if err != nil {
		return c.EditOrSend(msgStorageError)
	}
	if len(approved) == 0 {
		return c.EditOrSend(msgNoPointsYet)
	}

	buttons := make([]keyboard.InlineBtn, 0, len(approved))
	for _, rec := range approved {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   "📍 " + rec.Description,
			Unique: "locate",
			Data:   rec.ID,
		})
	}
	return tghelpers.EditOrSendMD(c, listText(approved), keyboard.InlineButtons(buttons))
}

func (a *App) cbMyLocations(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	own, err := a.svc.Owned(ctx, c.Sender().ID)
	if err != nil {
		return c.EditOrSend(msgStorageError)
	}
	if len(own) == 0 {
		return c.EditOrSend(msgNoOwnPoints)
	}

	buttons := make([]keyboard.InlineBtn, 0, len(own))
	for _, rec := range own {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   "🗑️ Sil: " + rec.Description,
			Unique: "delete",
			Data:   rec.ID,
		})
	}
	return tghelpers.EditOrSendMD(c, ownListText(own), keyboard.InlineButtons(buttons))
}

func (a *App) cbAdminPanel(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	pending, approved, err := a.svc.Counts(ctx, c.Sender().ID)
	if errors.Is(err, points.ErrUnauthorized) {
		return c.Respond(&tele.CallbackResponse{Text: msgNotAllowed})
	}
	if err != nil {
		return c.EditOrSend(msgStorageError)
	}

	markup := keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: btnPendingQueue, Unique: "pending_approvals"},
	})
	return tghelpers.EditOrSendMD(c, adminPanelText(pending, approved), markup)
}

func (a *App) cbPendingApprovals(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	pending, err := a.svc.Pending(ctx, c.Sender().ID)
	if errors.Is(err, points.ErrUnauthorized) {
		return c.Respond(&tele.CallbackResponse{Text: msgNotAllowed})
	}
	if err != nil {
		return c.EditOrSend(msgStorageError)
	}
	if len(pending) == 0 {
		return c.EditOrSend(msgAllApproved)
	}

	rows := make([][]keyboard.InlineBtn, 0, len(pending))
	for _, rec := range pending {
		rows = append(rows, []keyboard.InlineBtn{
			{Text: btnApprove, Unique: "approve", Data: rec.ID},
			{Text: btnReject, Unique: "reject", Data: rec.ID},
		})
	}
	return tghelpers.EditOrSendMD(c, pendingListText(pending), keyboard.InlineButtonsRows(rows...))
}

func (a *App) cbApprove(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	rec, err := a.svc.Approve(ctx, c.Sender().ID, callbacks.CallbackPayload(c))
	if err != nil {
		return a.reportFailure(c, err)
	}
	return c.EditOrSend(approvedText(rec))
}

func (a *App) cbReject(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	rec, err := a.svc.Reject(ctx, c.Sender().ID, callbacks.CallbackPayload(c))
	if err != nil {
		return a.reportFailure(c, err)
	}
	return c.EditOrSend(rejectedText(rec))
}

func (a *App) cbDelete(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	if _, err := a.svc.Delete(ctx, c.Sender().ID, callbacks.CallbackPayload(c)); err != nil {
		return a.reportFailure(c, err)
	}
	return c.EditOrSend(msgDeleted)
}

// cbLocate sends the chosen point as a Telegram location pin, preceded
// by its photo when one is attached.
func (a *App) cbLocate(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	rec, err := a.svc.Get(ctx, callbacks.CallbackPayload(c))
	if err != nil {
		return a.reportFailure(c, err)
	}

	caption := "📍 " + rec.Description + "\n⏰ " + rec.Schedule
	if rec.PhotoURL != "" {
		if err := c.Send(&tele.Photo{
			File:    tele.FromURL(rec.PhotoURL),
			Caption: caption,
		}); err != nil {
			return err
		}
	} else if err := tghelpers.SendText(c, caption); err != nil {
		return err
	}
	return c.Send(&tele.Location{
		Lat: float32(rec.Latitude),
		Lng: float32(rec.Longitude),
	})
}

// reportFailure maps domain errors to user-facing replies.
func (a *App) reportFailure(c tele.Context, err error) error {
	switch {
	case errors.Is(err, points.ErrNotFound):
		return c.EditOrSend(msgNotFound)
	case errors.Is(err, points.ErrUnauthorized):
		return c.EditOrSend(msgNotAllowed)
	default:
		return c.EditOrSend(msgStorageError)
	}
}
