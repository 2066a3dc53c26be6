package fhir

// OperationOutcome severity levels per FHIR R4 spec.
const (
	IssueSeverityFatal       = "fatal"
	IssueSeverityError       = "error"
	IssueSeverityWarning     = "warning"
	IssueSeverityInformation = "information"
)

// OperationOutcome issue type codes per FHIR R4 spec.
const (
	IssueTypeInvalid    = "invalid"
	IssueTypeStructure  = "structure"
	IssueTypeRequired   = "required"
	IssueTypeValue      = "value"
	IssueTypeNotFound   = "not-found"
	IssueTypeProcessing = "processing"
	IssueTypeSecurity   = "security"
	IssueTypeLogin      = "login"
	IssueTypeThrottled  = "throttled"
	IssueTypeException  = "exception"
	IssueTypeTimeout    = "timeout"
)

// ThrottleOutcome creates a 429-style OperationOutcome indicating the server
// is rate-limiting the client.
func ThrottleOutcome() *OperationOutcome {
	return NewOperationOutcome(
		IssueSeverityError,
		IssueTypeThrottled,
		"Rate limit exceeded. Please retry after a delay.",
	)
}

// InternalErrorOutcome creates an OperationOutcome for internal server errors.
func InternalErrorOutcome(diagnostics string) *OperationOutcome {
	return NewOperationOutcome(IssueSeverityFatal, IssueTypeException, diagnostics)
}
