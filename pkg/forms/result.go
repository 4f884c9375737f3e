package forms

import "time"

const (
	// MsgMissingFormID is shown when a form carries no data-form-id.
	MsgMissingFormID = "Form ID not found. Make sure form has data-form-id attribute."
	// MsgSubmissionFailed is shown when the API rejects a submission without a message.
	MsgSubmissionFailed = "Submission failed"
	// MsgThankYou is the default success message.
	MsgThankYou = "Thank you for your submission!"
	// MsgTryAgain is shown when the API cannot be reached.
	MsgTryAgain = "Failed to submit form. Please try again."
	// MsgInvalid is shown when field validation fails.
	MsgInvalid = "Please correct the highlighted fields."
	// MsgTooMany is shown when a client submits too often.
	MsgTooMany = "Too many submissions. Please wait a moment and try again."
)

const (
	// RedirectDelay is how long the success message shows before redirecting.
	RedirectDelay = 2 * time.Second
	// HideDelay is how long the success message shows when there is no redirect.
	HideDelay = 5 * time.Second
)

// Result is what the browser is told after a submission. It is sent as the
// payload of a form:result event.
type Result struct {
	FormID          string      `json:"formId"`
	Success         bool        `json:"success"`
	Message         string      `json:"message"`
	SubmissionID    string      `json:"submissionId,omitempty"`
	Redirect        string      `json:"redirect,omitempty"`
	RedirectAfterMs int64       `json:"redirectAfterMs,omitempty"`
	HideAfterMs     int64       `json:"hideAfterMs,omitempty"`
	Errors          FieldErrors `json:"errors,omitempty"`
}

func failure(formID, message string) Result {
	return Result{FormID: formID, Message: message}
}

func success(formID string, resp apiResponse) Result {
	r := Result{
		FormID:       formID,
		Success:      true,
		Message:      resp.Message,
		SubmissionID: resp.SubmissionID,
	}
	if r.Message == "" {
		r.Message = MsgThankYou
	}
	if resp.Redirect != "" {
		r.Redirect = resp.Redirect
		r.RedirectAfterMs = RedirectDelay.Milliseconds()
	} else {
		r.HideAfterMs = HideDelay.Milliseconds()
	}
	return r
}

// apiResponse is the body returned by the form API.
type apiResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	Redirect     string `json:"redirect,omitempty"`
	SubmissionID string `json:"submissionId,omitempty"`
}
