package events

import (
	"context"

	"arcadehub/models"
)

// EventSink receives engine events for the downstream realtime and
// notification layer. Emission is best-effort; callers must not fail their
// own operation when the sink errors.
type EventSink interface {
	EmitReservationApproved(ctx context.Context, payload models.ReservationEventPayload) error
	EmitReservationCancelled(ctx context.Context, payload models.ReservationEventPayload) error
	EmitScheduleEventUpserted(ctx context.Context, payload models.ScheduleEventPayload) error
}
