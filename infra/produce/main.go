package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	LabelService *LabelService
}

var produceInstance *Produce

func InitProduce(channel *amqp.Channel) *Produce {
	if produceInstance != nil {
		return produceInstance
	}

	labelService := InitLabelService(channel)
	if labelService == nil {
		panic("Failed to initialize Label service")
	}

	produceInstance = &Produce{
		LabelService: labelService,
	}

	return produceInstance
}

func GetProduce() *Produce {
	if produceInstance == nil {
		panic("Produce not initialized. Call InitProduce() first.")
	}
	return produceInstance
}
