package handlers

// HandlerBundle aggregates all HTTP handlers for route registration.
type HandlerBundle struct {
	Session  *SessionHandler
	Stream   *StreamHandler
	Booking  *BookingHandler
	Records  *RecordsHandler
	Sharing  *SharingHandler
	Timeline *TimelineHandler
}
