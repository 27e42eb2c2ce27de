package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gaadilink/backend/internal/models"
	"github.com/gaadilink/backend/internal/notify"
	"github.com/gaadilink/backend/internal/repository"
	"github.com/gaadilink/backend/pkg/logger"
)

type EventKind string

const (
	EventRequirementCreated   EventKind = "requirement.created"
	EventRequirementConfirmed EventKind = "requirement.confirmed"
	EventRequirementAssigned  EventKind = "requirement.assigned"
	EventReturnTripCreated    EventKind = "return_trip.created"
	EventReturnTripEdited     EventKind = "return_trip.edited"
)

// Event is emitted after a lifecycle transition has committed.
type Event struct {
	Kind        EventKind
	Requirement *models.Requirement
	// Recipients overrides the business-city recipient computation for
	// direct notifications (assignment, return-trip updates).
	Recipients []string
}

// EventFanout computes the recipient set for an event and hands it to the
// dispatcher. Publish is fire-and-forget: it detaches from the caller's
// request so lifecycle latency never includes notification delivery.
type EventFanout interface {
	Publish(evt Event)
}

type eventFanout struct {
	businessCityRepo repository.BusinessCityRepository
	userRepo         repository.UserRepository
	dispatcher       notify.Dispatcher
	log              logger.Logger
	timeout          time.Duration
}

func NewEventFanout(
	businessCityRepo repository.BusinessCityRepository,
	userRepo repository.UserRepository,
	dispatcher notify.Dispatcher,
	log logger.Logger,
	timeout time.Duration,
) EventFanout {
	return &eventFanout{
		businessCityRepo: businessCityRepo,
		userRepo:         userRepo,
		dispatcher:       dispatcher,
		log:              log,
		timeout:          timeout,
	}
}

func (f *eventFanout) Publish(evt Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
		defer cancel()

		if err := f.dispatch(ctx, evt); err != nil {
			f.log.Warn("notification fan-out failed",
				"kind", string(evt.Kind),
				"requirement_id", evt.Requirement.ID,
				"error", err)
		}
	}()
}

func (f *eventFanout) dispatch(ctx context.Context, evt Event) error {
	recipients := evt.Recipients
	if len(recipients) == 0 {
		var err error
		recipients, err = f.cityRecipients(ctx, evt.Requirement)
		if err != nil {
			return err
		}
	}
	if len(recipients) == 0 {
		return nil
	}

	title, body := eventText(evt)
	data := map[string]string{
		"kind":           string(evt.Kind),
		"requirement_id": evt.Requirement.ID,
	}
	return f.dispatcher.Notify(ctx, recipients, title, body, data)
}

// cityRecipients finds users with an active business city on either end of
// the route, excluding the poster, gated to verified users when the
// requirement demands it.
func (f *eventFanout) cityRecipients(ctx context.Context, req *models.Requirement) ([]string, error) {
	ids, err := f.businessCityRepo.UserIDsInCities(ctx, []string{req.FromCity, req.ToCity})
	if err != nil {
		return nil, err
	}

	recipients := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != req.PostedByID {
			recipients = append(recipients, id)
		}
	}

	if req.OnlyVerified && len(recipients) > 0 {
		recipients, err = f.userRepo.FilterVerified(ctx, recipients)
		if err != nil {
			return nil, err
		}
	}
	return recipients, nil
}

func eventText(evt Event) (string, string) {
	req := evt.Requirement
	route := fmt.Sprintf("%s to %s on %s", req.FromCity, req.ToCity, req.PickupDate.Format(models.PickupDateLayout))

	switch evt.Kind {
	case EventRequirementCreated:
		return "New requirement posted", route
	case EventRequirementConfirmed:
		return "Trip confirmed and now available", route
	case EventRequirementAssigned:
		return "Requirement assigned to you", route
	case EventReturnTripCreated:
		return "Return trip created", route
	case EventReturnTripEdited:
		return "Return trip details updated", route
	default:
		return "Requirement update", route
	}
}
