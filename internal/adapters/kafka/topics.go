package kafka

// Topic definitions for Kafka event streaming
const (
	// TopicPredictions carries prediction.completed events
	TopicPredictions = "bodyfat.predictions"
)
