package apitest

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	body := map[string]any{"success": true, "data": data}
	if message != "" {
		body["message"] = message
	}
	writeJSON(w, status, body)
}

// writeFailure emits {success:false, message, errors}. errors is either a
// list of validation messages or a verification error object.
func writeFailure(w http.ResponseWriter, status int, message string, errs any) {
	body := map[string]any{"success": false, "message": message}
	if errs != nil {
		body["errors"] = errs
	}
	writeJSON(w, status, body)
}

func writeVerificationError(w http.ResponseWriter, status int, code string, message string, email string) {
	detail := map[string]string{"errorCode": code, "message": message}
	if email != "" {
		detail["email"] = email
	}
	writeFailure(w, status, message, detail)
}

func decodeBody(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}
