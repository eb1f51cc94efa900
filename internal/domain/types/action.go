package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"

	ActionDatabaseTransactionFailed = "database_transaction_failed"
	ActionExternalServiceFailed     = "external_service_failed"
	ActionCacheFailed               = "cache_failed"

	ActionRideCreated        = "ride_created"
	ActionRideAccepted       = "ride_accepted"
	ActionRideStarted        = "ride_started"
	ActionRideCompleted      = "ride_completed"
	ActionRideCancelled      = "ride_cancelled"
	ActionLocationRecorded   = "location_recorded"
	ActionLocationEvicted    = "location_evicted"
	ActionDriverRegistered   = "driver_registered"
	ActionApprovalChanged    = "approval_changed"
	ActionNotificationFailed = "notification_failed"
	ActionEventPublishFailed = "event_publish_failed"
)
