package eventbus

import (
	"os"
)

const defaultGroupID = "linkhive-workers"

// GetBrokers returns the Kafka bootstrap servers from KAFKA_BOOTSTRAP_SERVERS.
// There is no sane default for a broker list, so a missing value is fatal.
func GetBrokers() string {
	v := os.Getenv("KAFKA_BOOTSTRAP_SERVERS")
	if v == "" {
		panic("KAFKA_BOOTSTRAP_SERVERS environment variable is required")
	}
	return v
}

// GetGroupID returns the consumer group id from KAFKA_GROUP_ID,
// falling back to a shared default so all workers join one group.
func GetGroupID() string {
	if v := os.Getenv("KAFKA_GROUP_ID"); v != "" {
		return v
	}
	return defaultGroupID
}
