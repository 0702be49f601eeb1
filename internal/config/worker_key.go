package config

type WorkerKeyStruct struct {
	PushNotificationsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PushNotificationsQueue: "push_notifications_queue",
}
