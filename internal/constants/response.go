package constants

// Standard Response Field Keys
const (
	ResponseFieldMessage = "message"
	ResponseFieldDetails = "details"
	ResponseFieldData    = "data"
)

// Response Format Functions
func BuildErrorResponse(message string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldMessage: message,
	}

	if details != nil {
		response[ResponseFieldDetails] = details
	}

	return response
}

func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
	}
}

func BuildDataResponse(data any) map[string]any {
	return map[string]any{
		ResponseFieldData: data,
	}
}
