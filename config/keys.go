package config

const (
	delimiter = "."

	// EnvPrefix prefixes every environment variable, e.g. EVENT_IVE_BUS_MAX_OFFLINE.
	EnvPrefix = "EVENT_IVE"

	ConfigBusPrefix = "bus"

	ConfigBusDefaultNamespace = ConfigBusPrefix + delimiter + "default_namespace"
	ConfigBusDeliveryPolicy   = ConfigBusPrefix + delimiter + "delivery_policy"
	ConfigBusMaxOffline       = ConfigBusPrefix + delimiter + "max_offline"

	ConfigLoopPrefix = "loop"

	ConfigLoopBufferSize = ConfigLoopPrefix + delimiter + "buffer_size"
	ConfigLoopNumWorkers = ConfigLoopPrefix + delimiter + "num_workers"

	ConfigLogPrefix = "log"

	ConfigLogLevel       = ConfigLogPrefix + delimiter + "level"
	ConfigLogDevelopment = ConfigLogPrefix + delimiter + "development"
)
