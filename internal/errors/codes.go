package errors

type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeInternal         Code = "INTERNAL_ERROR"
	CodeConfigValidation Code = "CONFIG_VALIDATION_ERROR"
	CodeConfigReadError  Code = "CONFIG_READ_ERROR"
	CodeConfigParseError Code = "CONFIG_PARSE_ERROR"
	CodeTimeout          Code = "TIMEOUT_ERROR"

	// Provider API
	CodePlatformAPIError  Code = "PLATFORM_API_ERROR"
	CodePlatformAuthError Code = "PLATFORM_AUTH_ERROR"
	CodePlatformThrottled Code = "PLATFORM_THROTTLED"
	CodeResourceNotFound  Code = "RESOURCE_NOT_FOUND"

	// Drift detection workflow
	CodeDetectionInProgress Code = "DETECTION_IN_PROGRESS"
	CodeDetectionFailed     Code = "DETECTION_FAILED"
	CodeRegionFailed        Code = "REGION_FAILED"

	CodeNotificationError Code = "NOTIFICATION_ERROR"
	CodeReportError       Code = "REPORT_ERROR"
)

func (c Code) String() string {
	return string(c)
}
