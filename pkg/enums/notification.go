package enums

// NotificationChannel names an outbound notification transport.
type NotificationChannel string

const (
	NotificationChannelEmail NotificationChannel = "email"
	NotificationChannelPush  NotificationChannel = "push"
)

// NotificationOutcome labels the result of a delivery attempt.
type NotificationOutcome string

const (
	NotificationOutcomeSent    NotificationOutcome = "sent"
	NotificationOutcomeFailed  NotificationOutcome = "failed"
	NotificationOutcomeSkipped NotificationOutcome = "skipped"
)
