package ports

// Notifier pushes task status changes to subscribed real-time clients.
// Delivery is best effort: no replay for late subscribers, nothing for
// connections that are already gone.
type Notifier interface {
	PublishCompleted(taskID, hash string)
	PublishFailed(taskID, errMsg string)
}
