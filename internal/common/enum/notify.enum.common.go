package enum

type NotifyDriverEnum string

const (
	NotifyNone     NotifyDriverEnum = "none"
	NotifyRabbitMQ NotifyDriverEnum = "rabbitmq"
	NotifyMQTT     NotifyDriverEnum = "mqtt"
)

func (e NotifyDriverEnum) ToString() string {
	return string(e)
}

func (e NotifyDriverEnum) IsValid() bool {
	switch e {
	case NotifyNone, NotifyRabbitMQ, NotifyMQTT:
		return true
	}
	return false
}

func (e NotifyDriverEnum) Enabled() bool {
	return e == NotifyRabbitMQ || e == NotifyMQTT
}
