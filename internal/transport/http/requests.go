package httptransport

import (
	"net/http"
	"strconv"

	"guardiangate/internal/gate"
	"guardiangate/internal/gate/age"
)

// emailFields is the fixed ordered list of field names a registration surface
// may carry its email under; the first non-empty one wins.
var emailFields = []string{
	"signup_email",
	"user_email",
	"email",
	"account_email",
	"billing_email",
	"child-email",
	"child_email",
}

// attemptFromRequest resolves the registration attempt from form or query
// values. Fields the surface did not provide stay empty; the gate treats an
// incomplete attempt as indeterminate.
func attemptFromRequest(r *http.Request) gate.Attempt {
	return gate.Attempt{
		Email: emailFromRequest(r),
		DOB:   dobFromRequest(r),
	}
}

func emailFromRequest(r *http.Request) string {
	for _, field := range emailFields {
		if v := r.FormValue(field); v != "" {
			return v
		}
	}
	return ""
}

// dobFromRequest accepts the combined ISO form or split year/month/day
// selects, the two shapes registration forms ship with.
func dobFromRequest(r *http.Request) string {
	for _, field := range []string{"dob", "date_of_birth"} {
		if v := r.FormValue(field); v != "" {
			return v
		}
	}
	y, _ := strconv.Atoi(r.FormValue("dob_year"))
	m, _ := strconv.Atoi(r.FormValue("dob_month"))
	d, _ := strconv.Atoi(r.FormValue("dob_day"))
	return age.Compose(y, m, d)
}

// submissionFromRequest maps the consent form's fields. The form posts
// hyphenated names; underscore variants are accepted for API clients.
func submissionFromRequest(r *http.Request) gate.Submission {
	return gate.Submission{
		ChildEmail:    formValue(r, "child-email", "child_email"),
		GuardianEmail: formValue(r, "guardian-email", "guardian_email"),
		MinorName:     formValue(r, "minor-name", "minor_name"),
		MinorDOB:      formValue(r, "minor-dob", "minor_dob"),
	}
}

func formValue(r *http.Request, names ...string) string {
	for _, name := range names {
		if v := r.FormValue(name); v != "" {
			return v
		}
	}
	return ""
}
